package model

type Category struct {
	ID        string  `db:"id"`
	ParentID  *string `db:"parent_id"` // Nullable
	Name      string  `db:"name"`
	NameRu    *string `db:"name_ru"`
	NameUz    *string `db:"name_uz"`
	Slug      string  `db:"slug"`
	Icon      string  `db:"icon"`
	IconImage *string `db:"icon_image"` // Storage path, nullable
	IsLeaf    bool    `db:"is_leaf"`
	SortOrder int     `db:"sort_order"`
}

// LocalizedName falls back to Name when the variant is missing or empty.
func (c *Category) LocalizedName(locale string) string {
	return localized(c.Name, c.NameRu, c.NameUz, locale)
}

func localized(def string, ru, uz *string, locale string) string {
	var v *string
	switch locale {
	case "ru":
		v = ru
	case "uz":
		v = uz
	}
	if v != nil && *v != "" {
		return *v
	}
	return def
}
