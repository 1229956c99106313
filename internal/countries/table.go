// Package countries infers the target country of an application from the
// names of the generated CV documents.
package countries

import "strings"

// Country maps a canonical country name to the keywords (country and major
// city names) that identify it inside a filename.
type Country struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Table is an ordered keyword table. Order is the tie-break when a suffix
// matches more than one country.
type Table []Country

// Default returns the built-in table.
func Default() Table {
	return Table{
		{Name: "Denmark", Keywords: []string{"Denmark", "Copenhagen", "Aarhus", "Odense", "Aalborg"}},
		{Name: "Sweden", Keywords: []string{"Sweden", "Stockholm", "Gothenburg", "Malmo", "Uppsala"}},
		{Name: "UK", Keywords: []string{"UK", "London", "Manchester", "Birmingham", "Edinburgh", "Glasgow", "Leeds", "Bristol", "Liverpool"}},
		{Name: "Spain", Keywords: []string{"Spain", "Madrid", "Barcelona", "Valencia", "Seville", "Malaga", "Bilbao", "Alicante", "Palma"}},
		{Name: "Ireland", Keywords: []string{"Ireland", "Dublin", "Cork", "Galway", "Limerick", "Waterford", "Dundalk", "Drogheda", "Swords"}},
		{Name: "Norway", Keywords: []string{"Norway", "Oslo", "Bergen", "Trondheim", "Stavanger"}},
		{Name: "Finland", Keywords: []string{"Finland", "Helsinki", "Espoo", "Tampere", "Vantaa", "Oulu"}},
		{Name: "Netherlands", Keywords: []string{"Netherlands", "Amsterdam", "Rotterdam", "Utrecht", "Eindhoven", "Den Haag", "The Hague"}},
	}
}

// Infer returns the first country (in table order) with a keyword that is a
// case-insensitive substring of suffix.
func (t Table) Infer(suffix string) (string, bool) {
	s := strings.ToLower(suffix)
	if s == "" {
		return "", false
	}
	for _, c := range t {
		for _, kw := range c.Keywords {
			if kw != "" && strings.Contains(s, strings.ToLower(kw)) {
				return c.Name, true
			}
		}
	}
	return "", false
}
