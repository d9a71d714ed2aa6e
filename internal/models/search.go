package models

const (
	DefaultQuery    = "Director"
	DefaultLocation = "Remote"
)

// SearchParams captures the normalized inputs used to build a listing request.
type SearchParams struct {
	Query    string
	Location string
	Country  string
	Remote   bool
	Offset   int
	JobType  string
	Hours    int
}

// WithDefaults fills an empty query or location with the standard search.
func (p SearchParams) WithDefaults() SearchParams {
	if p.Query == "" {
		p.Query = DefaultQuery
	}
	if p.Location == "" {
		p.Location = DefaultLocation
	}
	return p
}
