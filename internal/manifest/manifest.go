// Package manifest reads the project's requirements file, the manifest that
// lists the dependencies installed into the virtual environment.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultPath is the conventional manifest location relative to the project root.
const DefaultPath = "requirements.txt"

// Requirement is a single dependency line from the manifest.
type Requirement struct {
	// Name is the distribution name, without extras or version constraints.
	Name string

	// Extras are the optional feature names from "name[extra1,extra2]".
	Extras []string

	// Specifier is the version constraint, e.g. "==2.31.0" or ">=6,<7".
	// Empty when the line pins nothing.
	Specifier string

	// Raw is the original line with comments and markers stripped.
	Raw string
}

// String renders the requirement the way pip accepts it.
func (r Requirement) String() string { return r.Raw }

// specifier operators, longest first so "==" wins over "=".
var specOps = []string{"===", "==", "~=", ">=", "<=", "!=", ">", "<"}

// Parse reads requirement lines from r. Blank lines and comments are
// skipped, as are pip directives such as "-r other.txt" or "--index-url"
// (those configure pip, they do not name a dependency). Environment markers
// after ";" are dropped.
func Parse(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "-") {
			// pip directive (-r, -e, --index-url, ...), not a dependency
			continue
		}
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if i := strings.Index(line, ";"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}
		req, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		reqs = append(reqs, req)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}

// Load reads and parses the manifest file at path.
func Load(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func parseLine(line string) (Requirement, error) {
	req := Requirement{Raw: line}

	name := line
	split := -1
	for _, op := range specOps {
		if i := strings.Index(name, op); i >= 0 && (split < 0 || i < split) {
			split = i
		}
	}
	if split >= 0 {
		req.Specifier = strings.ReplaceAll(strings.TrimSpace(name[split:]), " ", "")
		name = strings.TrimSpace(name[:split])
	}

	if i := strings.Index(name, "["); i >= 0 {
		end := strings.Index(name, "]")
		if end < i {
			return Requirement{}, fmt.Errorf("unterminated extras in %q", line)
		}
		for _, e := range strings.Split(name[i+1:end], ",") {
			if e = strings.TrimSpace(e); e != "" {
				req.Extras = append(req.Extras, e)
			}
		}
		name = name[:i]
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Requirement{}, fmt.Errorf("no package name in %q", line)
	}
	req.Name = name
	return req, nil
}
