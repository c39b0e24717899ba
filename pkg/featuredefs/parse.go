package featuredefs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned by Load for unsupported file extensions.
var ErrUnknownFormat = errors.New("unknown definition format")

// Parse reads definitions in features.def syntax. name is used in error
// messages only.
func Parse(r io.Reader, name string) (*Defs, error) {
	b := newBuilder(name)
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") {
			continue
		}
		if err := parseLine(b, lineno, line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return b.finish()
}

// parseLine handles "FEATURE [keyword [rest]]".
func parseLine(b *builder, lineno int, line string) error {
	feature, tail := splitWord(line)
	if tail == "" {
		b.plain(feature)
		return nil
	}
	keyword, rest := splitWord(tail)

	switch keyword {
	case "equals":
		return b.derive(lineno, line, feature, rest)
	case "external":
		return b.external(lineno, line, feature, rest != "")
	case "implies":
		return b.implies(lineno, line, feature, splitTargets(rest))
	case "requires":
		return b.requires(lineno, line, feature, rest)
	case "notest":
		return b.notest(lineno, line, feature, rest != "")
	default:
		b.declare(feature)
		return b.errorf(lineno, line, "unknown keyword %s", keyword)
	}
}

// splitWord splits s at the first run of whitespace.
func splitWord(s string) (word, rest string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// splitTargets splits an implies list; "A B, C" yields A, B, C.
func splitTargets(rest string) []string {
	var out []string
	for _, f := range strings.Fields(rest) {
		f = strings.TrimSuffix(f, ",")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Load reads a definition file. Files ending in .yaml or .yml are parsed
// with ParseYAML; .def and .txt files, and files without an extension,
// use the features.def syntax.
func Load(path string) (*Defs, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f, path)
	case ".def", ".txt", "":
		return Parse(f, path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}
