package domain

// SearchMode selects the field a search matches against.
type SearchMode string

const (
	SearchByName  SearchMode = "name"
	SearchByPhone SearchMode = "phone"
)

// SearchResult is a tagged union: exactly one of Individual or Family is set.
type SearchResult struct {
	Type       string      `json:"type"`
	Individual *Individual `json:"individual,omitempty"`
	Family     *Family     `json:"family,omitempty"`
}

const (
	ResultIndividual = "individual"
	ResultFamily     = "family"
)
