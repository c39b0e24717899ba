package featuresim

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseConfigHeader reads the #define and #undef directives of a
// configuration header. Values after the name are ignored, as are comments
// and every other line. Leading whitespace and whitespace after the '#' are
// allowed.
func ParseConfigHeader(r io.Reader) ([]Directive, error) {
	var out []Directive
	sc := bufio.NewScanner(r)
	inComment := false
	for sc.Scan() {
		line := sc.Text()
		if inComment {
			end := strings.Index(line, "*/")
			if end < 0 {
				continue
			}
			line = line[end+2:]
			inComment = false
		}
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		if i := strings.Index(line, "/*"); i >= 0 {
			if j := strings.Index(line[i+2:], "*/"); j >= 0 {
				line = line[:i] + " " + line[i+2+j+2:]
			} else {
				line = line[:i]
				inComment = true
			}
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(strings.TrimSpace(line[1:]))
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "define":
			out = append(out, Directive{Name: macroName(fields[1])})
		case "undef":
			out = append(out, Directive{Name: fields[1], Undef: true})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading config header: %w", err)
	}
	return out, nil
}

// macroName strips the parameter list of a function-like macro.
func macroName(s string) string {
	if i := strings.IndexByte(s, '('); i >= 0 {
		return s[:i]
	}
	return s
}

// LoadConfigHeader reads the directives of the header at path.
func LoadConfigHeader(path string) ([]Directive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config header: %w", err)
	}
	defer f.Close()
	return ParseConfigHeader(f)
}

// ParseBuildHeader returns the symbols defined by a build configuration
// header, after applying its own #undef lines.
func ParseBuildHeader(r io.Reader) ([]string, error) {
	dirs, err := ParseConfigHeader(r)
	if err != nil {
		return nil, err
	}
	var names []string
	index := make(map[string]int)
	for _, d := range dirs {
		if d.Undef {
			if i, ok := index[d.Name]; ok {
				names[i] = ""
				delete(index, d.Name)
			}
			continue
		}
		if _, ok := index[d.Name]; ok {
			continue
		}
		index[d.Name] = len(names)
		names = append(names, d.Name)
	}
	out := names[:0]
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out, nil
}

// LoadBuildHeader reads the build symbols of the header at path.
func LoadBuildHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening build header: %w", err)
	}
	defer f.Close()
	return ParseBuildHeader(f)
}
