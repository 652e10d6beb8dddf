package lockfile

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/lockcheck/pkg/errors"
)

// filenames maps well-known lock file basenames to their format.
var filenames = map[string]Format{
	"bun.lock":          FormatBun,
	"bun.lockb":         FormatBun,
	"package-lock.json": FormatNpm,
	"yarn.lock":         FormatYarn,
	"pnpm-lock.yaml":    FormatPnpm,
	"pnpm-lock.yml":     FormatPnpm,
	"deno.lock":         FormatDeno,
}

var pnpmVersionLine = regexp.MustCompile(`(?m)^lockfileVersion:`)

// Detect resolves the lock format for a file. The basename is matched
// against known lock file names first; custom filenames fall back to
// content sniffing. Detection is pure and idempotent.
func Detect(filename string, content []byte) (Format, error) {
	if f, ok := filenames[strings.ToLower(filepath.Base(filename))]; ok {
		return f, nil
	}
	if f, ok := sniff(content); ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeUnrecognizedFormat,
		"cannot determine lock format of %s; pass --format to override", filename)
}

// sniff inspects content for format-distinguishing markers.
func sniff(content []byte) (Format, bool) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var top map[string]json.RawMessage
		if err := json.Unmarshal(stripTrailingCommas(trimmed), &top); err == nil {
			switch {
			// Bun and npm lock files both carry lockfileVersion; only
			// bun.lock has a top-level workspaces object.
			case hasKey(top, "lockfileVersion") && hasKey(top, "workspaces"):
				return FormatBun, true
			case hasKey(top, "lockfileVersion"):
				return FormatNpm, true
			case hasKey(top, "version") &&
				(hasKey(top, "remote") || hasKey(top, "npm") || hasKey(top, "jsr") || hasKey(top, "packages")):
				return FormatDeno, true
			}
		}
	}

	text := string(content)
	if strings.Contains(text, "# yarn lockfile") || strings.Contains(text, `resolved "`) {
		return FormatYarn, true
	}
	if pnpmVersionLine.MatchString(text) {
		return FormatPnpm, true
	}
	return "", false
}

func hasKey(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}
