package countries

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultExtensions are the document extensions recognised as CV output.
// ".md" and ".txt" cover what the bundled templates render.
var DefaultExtensions = []string{".pdf", ".docx", ".md", ".txt"}

// cvToken finds a standalone "CV" in a file stem, e.g. "Jane_Doe_CV_Denmark".
var cvToken = regexp.MustCompile(`(?:^|[_\s-])CV(?:[_\s-]|$)`)

// Matcher recognises CV documents and extracts the country hint that follows
// the CV token in their names.
type Matcher struct {
	table Table
	exts  map[string]struct{}
}

// NewMatcher builds a Matcher. Empty arguments fall back to the defaults.
func NewMatcher(table Table, extensions []string) *Matcher {
	if len(table) == 0 {
		table = Default()
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = struct{}{}
	}
	return &Matcher{table: table, exts: exts}
}

// IsCV reports whether filename names a CV document.
func (m *Matcher) IsCV(filename string) bool {
	_, ok := m.Suffix(filename)
	return ok
}

// Suffix returns the country hint of a CV filename: the text after the CV
// token with the extension removed and underscores turned into spaces.
func (m *Matcher) Suffix(filename string) (string, bool) {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	if _, ok := m.exts[strings.ToLower(ext)]; !ok {
		return "", false
	}
	stem := strings.TrimSuffix(base, ext)
	loc := cvToken.FindStringIndex(stem)
	if loc == nil {
		return "", false
	}
	rest := stem[loc[1]:]
	return strings.TrimSpace(strings.ReplaceAll(rest, "_", " ")), true
}

// Inspect looks at the file names of one output folder. It reports whether a
// CV is present and, when possible, the country inferred from the first CV
// (by sorted name) whose suffix matches the table.
func (m *Matcher) Inspect(names []string) (country string, cvFound bool) {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	for _, name := range sorted {
		suffix, ok := m.Suffix(name)
		if !ok {
			continue
		}
		cvFound = true
		if c, ok := m.table.Infer(suffix); ok {
			return c, true
		}
	}
	return "", cvFound
}
