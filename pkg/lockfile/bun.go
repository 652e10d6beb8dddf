package lockfile

import (
	"encoding/json"
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/lockcheck/pkg/errors"
)

// bun.lock is JavaScript-flavored JSON: objects and arrays may carry
// trailing commas, which encoding/json rejects.
var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

func stripTrailingCommas(content []byte) []byte {
	return trailingComma.ReplaceAll(content, []byte("$1"))
}

type bunLock struct {
	Packages map[string]json.RawMessage `json:"packages"`
}

// parseBun extracts pinned packages from a bun.lock file. Each entry in
// the packages map is an array whose first element is the resolved
// "name@version" specifier. Workspace, link, and file pseudo-entries
// (whose version part carries a protocol prefix) are skipped.
func parseBun(content []byte) ([]PackageRef, error) {
	var lock bunLock
	if err := json.Unmarshal(stripTrailingCommas(content), &lock); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedLockFile, err, "parsing bun.lock")
	}

	var refs []PackageRef
	for _, key := range sortedKeys(lock.Packages) {
		var entry []json.RawMessage
		if err := json.Unmarshal(lock.Packages[key], &entry); err != nil || len(entry) == 0 {
			continue
		}
		var specifier string
		if err := json.Unmarshal(entry[0], &specifier); err != nil {
			continue
		}
		name, version, ok := splitNameVersion(specifier)
		if !ok || strings.Contains(version, ":") {
			continue
		}
		refs = append(refs, PackageRef{Name: name, Version: version})
	}
	return refs, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
