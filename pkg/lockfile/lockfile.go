package lockfile

import (
	"os"
	"strings"

	"github.com/matzehuels/lockcheck/pkg/errors"
)

// PackageRef identifies a single pinned package from a lock file.
// The name may carry an "@scope/" prefix; the version is whatever exact
// version the lock file resolved, verbatim.
type PackageRef struct {
	Name    string
	Version string
}

// String returns the ref in name@version form.
func (r PackageRef) String() string { return r.Name + "@" + r.Version }

// Format identifies a lock file format.
type Format string

// Supported lock file formats. FormatAuto requests detection.
const (
	FormatAuto Format = "auto"
	FormatBun  Format = "bun"
	FormatNpm  Format = "npm"
	FormatYarn Format = "yarn"
	FormatPnpm Format = "pnpm"
	FormatDeno Format = "deno"
)

// ParseFormat converts a user-supplied format name into a Format.
// Empty input means auto-detection.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatBun, FormatNpm, FormatYarn, FormatPnpm, FormatDeno:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"unknown lock format %q (supported: auto, bun, npm, yarn, pnpm, deno)", s)
	}
}

// Parse dispatches content to the parser for the given format.
func Parse(format Format, content []byte) ([]PackageRef, error) {
	switch format {
	case FormatBun:
		return parseBun(content)
	case FormatNpm:
		return parseNpm(content)
	case FormatYarn:
		return parseYarn(content)
	case FormatPnpm:
		return parsePnpm(content)
	case FormatDeno:
		return parseDeno(content)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no parser for format %q", format)
	}
}

// ParseFile reads the lock file at path, resolves its format, and
// returns the pinned packages in file order. If hint is anything other
// than [FormatAuto] it is used directly and detection is skipped.
func ParseFile(path string, hint Format) ([]PackageRef, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "reading %s", path)
	}

	format := hint
	if format == FormatAuto || format == "" {
		format, err = Detect(path, content)
		if err != nil {
			return nil, err
		}
	}
	return Parse(format, content)
}

// splitNameVersion splits "name@version" at the version separator.
// Scoped names keep their leading "@": for "@babel/core@7.27.4" the
// last "@" is the separator, not the scope marker.
func splitNameVersion(s string) (name, version string, ok bool) {
	i := strings.LastIndex(s, "@")
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
