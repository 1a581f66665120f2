package query

import "encoding/json"

// Clause is a constraint on matching documents. The set of clause types is
// closed; backends switch over the concrete types below.
type Clause interface {
	clause()
}

// Terms matches documents whose Field holds any of Values.
//
// As a post filter, an untagged Terms clause leaves aggregations alone. A
// tagged one narrows every aggregation except the one named by Tag.
type Terms struct {
	Field  string
	Values []string
	Tag    string `json:",omitempty"`
}

// Match matches documents where every token of Text occurs in at least one of Fields.
type Match struct {
	Fields []string
	Text   string
}

// Range matches documents whose numeric Field lies within the inclusive bounds.
// A nil bound is open.
type Range struct {
	Field string
	Gte   *float64
	Lte   *float64
}

func (Terms) clause() {}
func (Match) clause() {}
func (Range) clause() {}

// MarshalJSON tags each clause with its type so Query.Key distinguishes them.
func (t Terms) MarshalJSON() ([]byte, error) {
	type plain Terms
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{"terms", plain(t)})
}

func (m Match) MarshalJSON() ([]byte, error) {
	type plain Match
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{"match", plain(m)})
}

func (r Range) MarshalJSON() ([]byte, error) {
	type plain Range
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{"range", plain(r)})
}
