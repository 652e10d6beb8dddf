package lockfile

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/matzehuels/lockcheck/pkg/errors"
)

// parseYarn extracts pinned packages from a classic yarn.lock. The file
// is a sequence of stanzas: an unindented header of comma-separated
// (usually quoted) descriptors like "lodash@^4.17.21", followed by
// indented key/value lines. The stanza's `version "X"` line applies to
// every descriptor name in the header.
func parseYarn(content []byte) ([]PackageRef, error) {
	var refs []PackageRef
	var names []string
	sawStanza := false

	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		indented := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
		if !indented {
			if !strings.HasSuffix(trimmed, ":") {
				return nil, errors.New(errors.ErrCodeMalformedLockFile,
					"yarn.lock stanza header missing trailing colon: %q", trimmed)
			}
			names = stanzaNames(strings.TrimSuffix(trimmed, ":"))
			sawStanza = true
			continue
		}

		if !sawStanza {
			return nil, errors.New(errors.ErrCodeMalformedLockFile,
				"yarn.lock has indented line before any stanza header")
		}
		if version, ok := yarnVersionLine(trimmed); ok {
			for _, name := range names {
				refs = append(refs, PackageRef{Name: name, Version: version})
			}
			names = nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedLockFile, err, "reading yarn.lock")
	}
	return refs, nil
}

// stanzaNames parses a stanza header into descriptor names, stripping
// the trailing @range from each. A leading "@" belongs to the scope,
// so "@babel/core@^7.0.0" splits at the last "@".
func stanzaNames(header string) []string {
	var names []string
	for _, desc := range strings.Split(header, ",") {
		desc = strings.Trim(strings.TrimSpace(desc), `"`)
		if desc == "" {
			continue
		}
		if i := strings.LastIndex(desc, "@"); i > 0 {
			desc = desc[:i]
		}
		names = append(names, desc)
	}
	return names
}

func yarnVersionLine(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, "version ")
	if !ok {
		return "", false
	}
	return strings.Trim(strings.TrimSpace(rest), `"`), true
}
