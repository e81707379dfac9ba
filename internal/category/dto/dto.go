package dto

type CategoryFilters struct {
	ParentID *string // Nil means the full tree
	Locale   string
}

type CategoryNode struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	Icon     string         `json:"icon"`
	IconURL  string         `json:"icon_url"`
	IsLeaf   bool           `json:"is_leaf"`
	Order    int            `json:"order"`
	Children []CategoryNode `json:"children"`
}

type AttributeNode struct {
	ID         string   `json:"id"`
	Key        string   `json:"key"`
	Type       string   `json:"type"`
	Label      string   `json:"label"`
	Options    []string `json:"options"`
	IsRequired bool     `json:"is_required"`
	CategoryID string   `json:"category_id"`
}
