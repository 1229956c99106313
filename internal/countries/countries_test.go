package countries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_Infer(t *testing.T) {
	tbl := Default()

	tests := []struct {
		suffix string
		want   string
		ok     bool
	}{
		{suffix: "Denmark", want: "Denmark", ok: true},
		{suffix: "copenhagen acme", want: "Denmark", ok: true},
		{suffix: "The Hague", want: "Netherlands", ok: true},
		{suffix: "DUBLIN", want: "Ireland", ok: true},
		{suffix: "Berlin", ok: false},
		{suffix: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			got, ok := tbl.Infer(tt.suffix)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTable_Infer_TableOrderBreaksTies(t *testing.T) {
	tbl := Table{
		{Name: "First", Keywords: []string{"shared"}},
		{Name: "Second", Keywords: []string{"shared"}},
	}
	got, ok := tbl.Infer("a shared city")
	assert.True(t, ok)
	assert.Equal(t, "First", got)
}

func TestMatcher_Suffix(t *testing.T) {
	m := NewMatcher(nil, nil)

	tests := []struct {
		name   string
		file   string
		suffix string
		ok     bool
	}{
		{name: "pdf", file: "John_Doe_CV_Denmark.pdf", suffix: "Denmark", ok: true},
		{name: "docx upper ext", file: "John_Doe_CV_Den_Haag.DOCX", suffix: "Den Haag", ok: true},
		{name: "no suffix", file: "John_Doe_CV.pdf", suffix: "", ok: true},
		{name: "rendered template", file: "Jane_Doe_CV_Denmark.md", suffix: "Denmark", ok: true},
		{name: "plain text", file: "Jane_Doe_CV.txt", suffix: "", ok: true},
		{name: "unrecognised extension", file: "John_Doe_CV_Denmark.odt", ok: false},
		{name: "lower case token", file: "jane_doe_cv_denmark.pdf", ok: false},
		{name: "token glued to name", file: "JaneCV.pdf", ok: false},
		{name: "cover letter", file: "Cover_Letter_Acme.pdf", ok: false},
		{name: "cv inside a word", file: "CVS_Health_Offer.pdf", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Suffix(tt.file)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.suffix, got)
		})
	}
}

func TestMatcher_Inspect(t *testing.T) {
	m := NewMatcher(nil, nil)

	country, found := m.Inspect([]string{"Cover_Letter_Acme.pdf", "John_Doe_CV_Stockholm.pdf"})
	assert.True(t, found)
	assert.Equal(t, "Sweden", country)

	country, found = m.Inspect([]string{"John_Doe_CV.pdf"})
	assert.True(t, found)
	assert.Empty(t, country)

	country, found = m.Inspect([]string{"notes.txt", "JaneCV_Oslo.pdf"})
	assert.False(t, found)
	assert.Empty(t, country)
}

func TestNewMatcher_NormalisesExtensions(t *testing.T) {
	m := NewMatcher(nil, []string{"md", " .PDF "})
	assert.True(t, m.IsCV("Jane_CV_Oslo.md"))
	assert.True(t, m.IsCV("Jane_CV_Oslo.pdf"))
	assert.False(t, m.IsCV("Jane_CV_Oslo.docx"))
}
