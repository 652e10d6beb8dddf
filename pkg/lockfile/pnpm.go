package lockfile

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/lockcheck/pkg/errors"
)

type pnpmLock struct {
	Dependencies    map[string]pnpmDependency `yaml:"dependencies"`
	DevDependencies map[string]pnpmDependency `yaml:"devDependencies"`
	Packages        map[string]yaml.Node      `yaml:"packages"`
}

// pnpmDependency tolerates both value shapes used across lockfile
// versions: a plain version string (v5) and a mapping with specifier
// and version fields (v6+).
type pnpmDependency struct {
	Version string
}

func (d *pnpmDependency) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		d.Version = value.Value
		return nil
	case yaml.MappingNode:
		var m struct {
			Version string `yaml:"version"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		d.Version = m.Version
		return nil
	default:
		return nil
	}
}

// parsePnpm extracts pinned packages from a pnpm-lock.yaml. The
// "packages" map keys embed name and version ("/name@version" in v6,
// "name@version" in v9), with an optional parenthesized peer-dependency
// suffix. When the packages map is absent, the direct dependencies and
// devDependencies maps are used instead.
func parsePnpm(content []byte) ([]PackageRef, error) {
	var lock pnpmLock
	if err := yaml.Unmarshal(content, &lock); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedLockFile, err, "parsing pnpm-lock.yaml")
	}

	if len(lock.Packages) > 0 {
		var refs []PackageRef
		for _, key := range sortedKeys(lock.Packages) {
			if ref, ok := pnpmPackageKey(key); ok {
				refs = append(refs, ref)
			}
		}
		return refs, nil
	}

	var refs []PackageRef
	for _, deps := range []map[string]pnpmDependency{lock.Dependencies, lock.DevDependencies} {
		for _, name := range sortedKeys(deps) {
			if v := stripPeerSuffix(deps[name].Version); v != "" && !strings.Contains(v, ":") {
				refs = append(refs, PackageRef{Name: name, Version: v})
			}
		}
	}
	return refs, nil
}

func pnpmPackageKey(key string) (PackageRef, bool) {
	key = stripPeerSuffix(strings.TrimPrefix(key, "/"))
	name, version, ok := splitNameVersion(key)
	if !ok || strings.Contains(version, ":") {
		return PackageRef{}, false
	}
	return PackageRef{Name: name, Version: version}, true
}

func stripPeerSuffix(s string) string {
	if i := strings.Index(s, "("); i >= 0 {
		return s[:i]
	}
	return s
}
