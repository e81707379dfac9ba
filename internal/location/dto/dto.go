package dto

type LocationFilters struct {
	ParentID *string // Nil lists the roots
	Locale   string
}

type LocationNode struct {
	ID       string  `json:"id"`
	ParentID *string `json:"parent_id"`
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
}
