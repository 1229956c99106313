// Package slug holds the single normalisation rule used for record ids and
// default output folder names. Every code path that needs a filesystem-safe
// form of a display name goes through Segment.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Separator joins the date and company parts of an id.
const Separator = "_"

// Segment turns a display string into a slug segment: diacritics are folded,
// spaces become underscores, and anything other than letters, digits, '_' and
// '-' is dropped. Runs of spaces are not collapsed so the result matches the
// folder names produced by the document generator.
func Segment(s string) string {
	// transform chains keep state, so one is built per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, strings.TrimSpace(s))
	if err != nil {
		folded = strings.TrimSpace(s)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '_' || r == '-':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ID derives the primary key of a record from its date and company.
func ID(date, company string) string {
	return Segment(date) + Separator + Segment(company)
}

// DefaultFolder is the output folder name used for a company when no custom
// folder name has been recorded.
func DefaultFolder(company string) string {
	return Segment(company)
}

// FolderID builds the id of a record discovered on disk. The folder names are
// used verbatim because they may already be slugs.
func FolderID(dateFolder, companyFolder string) string {
	return dateFolder + Separator + companyFolder
}

// DisplayName recovers a human readable company name from a folder name.
func DisplayName(folder string) string {
	return strings.ReplaceAll(folder, "_", " ")
}
