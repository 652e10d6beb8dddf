// Package lockfile parses dependency lock files from JavaScript package
// managers into a flat list of pinned package versions.
//
// # Supported Formats
//
// Five lock formats are supported, each with its own parser:
//
//   - Bun (bun.lock): JavaScript-flavored JSON with trailing commas
//   - npm (package-lock.json): both the legacy nested "dependencies"
//     tree and the modern flat "packages" map
//   - Yarn classic (yarn.lock): text stanzas with quoted descriptors
//   - pnpm (pnpm-lock.yaml): YAML with name@version-keyed package maps
//   - Deno (deno.lock): JSON with npm/jsr specifier maps
//
// # Detection
//
// [Detect] picks a format from the filename first (bun.lock,
// package-lock.json, yarn.lock, pnpm-lock.yaml, deno.lock) and falls
// back to content sniffing for custom filenames. A caller-supplied
// format hint bypasses detection entirely.
//
// # Usage
//
//	refs, err := lockfile.ParseFile("bun.lock", lockfile.FormatAuto)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, ref := range refs {
//	    fmt.Println(ref.Name, ref.Version)
//	}
//
// Parsers are pure: missing optional sections yield an empty list, and
// only a broken top-level structure (invalid JSON/YAML, broken stanza
// grammar) produces an error with code MALFORMED_LOCKFILE.
package lockfile
