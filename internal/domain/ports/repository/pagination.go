package repository

// PageRequest carries pagination and sort options for list queries.
// Zero values are normalized by the storage layer (page 1, limit 10,
// sort by created_at descending).
type PageRequest struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // "asc" | "desc"
}

func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.SortBy == "" {
		p.SortBy = "created_at"
	}
	if p.SortOrder != "asc" {
		p.SortOrder = "desc"
	}
	return p
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.Limit }
