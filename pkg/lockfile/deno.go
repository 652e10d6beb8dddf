package lockfile

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/lockcheck/pkg/errors"
)

type denoLock struct {
	Npm      map[string]json.RawMessage `json:"npm"`
	Jsr      map[string]json.RawMessage `json:"jsr"`
	Packages *struct {
		Npm map[string]json.RawMessage `json:"npm"`
		Jsr map[string]json.RawMessage `json:"jsr"`
	} `json:"packages"`
}

// parseDeno extracts pinned packages from a deno.lock. Depending on the
// lockfile version, npm and jsr packages live either in top-level maps
// (v4+) or nested under "packages" (v3). Keys embed "name@version",
// sometimes with an "npm:"/"jsr:" registry prefix and a trailing peer
// marker after "_".
func parseDeno(content []byte) ([]PackageRef, error) {
	var lock denoLock
	if err := json.Unmarshal(content, &lock); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedLockFile, err, "parsing deno.lock")
	}

	maps := []map[string]json.RawMessage{lock.Npm, lock.Jsr}
	if lock.Packages != nil {
		maps = append(maps, lock.Packages.Npm, lock.Packages.Jsr)
	}

	var refs []PackageRef
	for _, m := range maps {
		for _, key := range sortedKeys(m) {
			if ref, ok := denoPackageKey(key); ok {
				refs = append(refs, ref)
			}
		}
	}
	return refs, nil
}

func denoPackageKey(key string) (PackageRef, bool) {
	for _, prefix := range []string{"npm:", "jsr:"} {
		key = strings.TrimPrefix(key, prefix)
	}

	// Split at the first "@" past any scope marker. The last "@" is not
	// usable here: peer markers like "supports-color@9.4.0_chalk@5.3.0"
	// embed further "@"s after the version.
	start := 0
	if strings.HasPrefix(key, "@") {
		start = 1
	}
	i := strings.Index(key[start:], "@")
	if i < 0 {
		return PackageRef{}, false
	}
	i += start
	name, version := key[:i], key[i+1:]

	// Peer-dependency marker: "pkg@1.0.0_react@18.2.0".
	if j := strings.Index(version, "_"); j >= 0 {
		version = version[:j]
	}
	if name == "" || version == "" || strings.Contains(version, ":") {
		return PackageRef{}, false
	}
	return PackageRef{Name: name, Version: version}, true
}
