package lockfile

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/lockcheck/pkg/errors"
)

type npmLock struct {
	LockfileVersion int                      `json:"lockfileVersion"`
	Packages        map[string]npmPackage    `json:"packages"`
	Dependencies    map[string]npmDependency `json:"dependencies"`
}

type npmPackage struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Link    bool   `json:"link"`
}

type npmDependency struct {
	Version      string                   `json:"version"`
	Dependencies map[string]npmDependency `json:"dependencies"`
}

// parseNpm extracts pinned packages from package-lock.json. Modern lock
// files (v2/v3) carry a flat "packages" map keyed by install path;
// legacy files (v1) nest a recursive "dependencies" tree. When both are
// present the flat map wins, since it already contains the full closure.
func parseNpm(content []byte) ([]PackageRef, error) {
	var lock npmLock
	if err := json.Unmarshal(content, &lock); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedLockFile, err, "parsing package-lock.json")
	}

	if len(lock.Packages) > 0 {
		return npmFlatPackages(lock.Packages), nil
	}
	return npmLegacyTree(lock.Dependencies, nil), nil
}

func npmFlatPackages(packages map[string]npmPackage) []PackageRef {
	var refs []PackageRef
	for _, path := range sortedKeys(packages) {
		entry := packages[path]
		// The "" key is the root project; link entries point at
		// workspace directories rather than installed packages.
		if path == "" || entry.Link || entry.Version == "" {
			continue
		}
		name := entry.Name
		if name == "" {
			name = nameFromInstallPath(path)
		}
		if name == "" {
			continue
		}
		refs = append(refs, PackageRef{Name: name, Version: entry.Version})
	}
	return refs
}

// nameFromInstallPath derives a package name from an install path key
// like "node_modules/@babel/core" or "packages/a/node_modules/lodash".
func nameFromInstallPath(path string) string {
	const marker = "node_modules/"
	if i := strings.LastIndex(path, marker); i >= 0 {
		return path[i+len(marker):]
	}
	return path
}

func npmLegacyTree(deps map[string]npmDependency, refs []PackageRef) []PackageRef {
	for _, name := range sortedKeys(deps) {
		entry := deps[name]
		if entry.Version != "" {
			refs = append(refs, PackageRef{Name: name, Version: entry.Version})
		}
		refs = npmLegacyTree(entry.Dependencies, refs)
	}
	return refs
}
