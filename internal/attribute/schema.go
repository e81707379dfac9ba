package attribute

import (
	"context"
	"sort"

	"github.com/bazarlab/marketplace-service/internal/apperr"
	"github.com/bazarlab/marketplace-service/internal/model"
)

// Definition is an attribute as it applies to one category after
// inheritance. DeclaredIn is the category that declared the winning copy.
type Definition struct {
	model.Attribute
	DeclaredIn string
}

// Schema is an immutable, key-sorted set of definitions.
type Schema struct {
	defs  []Definition
	index map[string]int
}

func NewSchema(defs []Definition) Schema {
	sorted := make([]Definition, len(defs))
	copy(sorted, defs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	index := make(map[string]int, len(sorted))
	for i, d := range sorted {
		index[d.Key] = i
	}
	return Schema{defs: sorted, index: index}
}

func (s Schema) Definitions() []Definition { return s.defs }
func (s Schema) Len() int                  { return len(s.defs) }

func (s Schema) Lookup(key string) (Definition, bool) {
	i, ok := s.index[key]
	if !ok {
		return Definition{}, false
	}
	return s.defs[i], true
}

// MergeChain merges attributes declared along an ancestor chain. chain lists
// category ids from the target category up to its root; a key declared
// nearer the start of chain replaces the same key declared further up, as a
// whole record. Attributes on categories outside chain are ignored, as are
// repeated ids in chain after their first position.
func MergeChain(chain []string, attrs []model.Attribute) Schema {
	depth := make(map[string]int, len(chain))
	for i, id := range chain {
		if _, seen := depth[id]; !seen {
			depth[id] = i
		}
	}

	type candidate struct {
		def   Definition
		depth int
	}
	winners := make(map[string]candidate)
	for _, a := range attrs {
		d, ok := depth[a.CategoryID]
		if !ok {
			continue
		}
		cur, exists := winners[a.Key]
		if exists && cur.depth <= d {
			continue
		}
		winners[a.Key] = candidate{def: Definition{Attribute: a, DeclaredIn: a.CategoryID}, depth: d}
	}

	defs := make([]Definition, 0, len(winners))
	for _, c := range winners {
		defs = append(defs, c.def)
	}
	return NewSchema(defs)
}

// AncestorReader is the part of the category store the resolver needs.
type AncestorReader interface {
	// FindAncestors returns the category and its ancestors, nearest first,
	// or an empty slice if the category does not exist.
	FindAncestors(ctx context.Context, id string) ([]model.Category, error)
}

type Resolver struct {
	categories AncestorReader
	attributes Repository
}

func NewResolver(categories AncestorReader, attributes Repository) *Resolver {
	return &Resolver{categories: categories, attributes: attributes}
}

// Resolve returns the schema that applies to listings filed under
// categoryID. A category with nothing declared anywhere in its chain yields
// an empty schema.
func (r *Resolver) Resolve(ctx context.Context, categoryID string) (Schema, error) {
	chain, err := r.categories.FindAncestors(ctx, categoryID)
	if err != nil {
		return Schema{}, err
	}
	if len(chain) == 0 {
		return Schema{}, apperr.NotFound("category")
	}

	ids := make([]string, len(chain))
	for i, c := range chain {
		ids[i] = c.ID
	}

	attrs, err := r.attributes.FindByCategoryIDs(ctx, ids)
	if err != nil {
		return Schema{}, err
	}
	return MergeChain(ids, attrs), nil
}
