package model

import "github.com/lib/pq"

type AttributeType string

const (
	AttributeText    AttributeType = "text"
	AttributeNumber  AttributeType = "number"
	AttributeBoolean AttributeType = "boolean"
	AttributeChoice  AttributeType = "choice"
)

func (t AttributeType) Valid() bool {
	switch t {
	case AttributeText, AttributeNumber, AttributeBoolean, AttributeChoice:
		return true
	}
	return false
}

// Attribute is declared on one category and inherited by its descendants.
type Attribute struct {
	ID         string         `db:"id"`
	CategoryID string         `db:"category_id"`
	Key        string         `db:"key"`
	Type       AttributeType  `db:"type"`
	Label      string         `db:"label"`
	LabelRu    *string        `db:"label_ru"`
	LabelUz    *string        `db:"label_uz"`
	Options    pq.StringArray `db:"options"` // choice only
	IsRequired bool           `db:"is_required"`
}

func (a *Attribute) LocalizedLabel(locale string) string {
	return localized(a.Label, a.LabelRu, a.LabelUz, locale)
}
