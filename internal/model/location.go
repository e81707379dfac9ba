package model

type Location struct {
	ID       string  `db:"id"`
	ParentID *string `db:"parent_id"`
	Name     string  `db:"name"`
	NameRu   *string `db:"name_ru"`
	NameUz   *string `db:"name_uz"`
	Kind     string  `db:"kind"` // region, city, district
}

func (l *Location) LocalizedName(locale string) string {
	return localized(l.Name, l.NameRu, l.NameUz, locale)
}
