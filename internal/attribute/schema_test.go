package attribute

import (
	"context"
	"errors"
	"testing"

	"github.com/bazarlab/marketplace-service/internal/apperr"
	"github.com/bazarlab/marketplace-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategories struct {
	parents map[string]string // id -> parent id ("" for roots)
	err     error
}

func (f *fakeCategories) FindAncestors(_ context.Context, id string) ([]model.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	var chain []model.Category
	cur, ok := id, true
	for ok {
		parent, exists := f.parents[cur]
		if !exists {
			break
		}
		chain = append(chain, model.Category{ID: cur})
		cur, ok = parent, parent != ""
	}
	return chain, nil
}

type fakeAttributes struct {
	attrs []model.Attribute
	asked []string
}

func (f *fakeAttributes) FindByCategoryIDs(_ context.Context, ids []string) ([]model.Attribute, error) {
	f.asked = ids
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	var out []model.Attribute
	for _, a := range f.attrs {
		if set[a.CategoryID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func colorTree() (*fakeCategories, *fakeAttributes) {
	cats := &fakeCategories{parents: map[string]string{
		"root":  "",
		"child": "root",
		"leaf":  "child",
		"other": "",
	}}
	attrs := &fakeAttributes{attrs: []model.Attribute{
		{ID: "1", CategoryID: "root", Key: "color", Type: model.AttributeChoice, Options: []string{"red", "blue"}, IsRequired: true},
		{ID: "2", CategoryID: "child", Key: "color", Type: model.AttributeText},
		{ID: "3", CategoryID: "root", Key: "brand", Type: model.AttributeText},
		{ID: "4", CategoryID: "leaf", Key: "area", Type: model.AttributeNumber},
		{ID: "5", CategoryID: "other", Key: "zzz", Type: model.AttributeBoolean},
	}}
	return cats, attrs
}

func TestResolveDescendantWins(t *testing.T) {
	cats, attrs := colorTree()
	r := NewResolver(cats, attrs)

	schema, err := r.Resolve(context.Background(), "child")

	require.NoError(t, err)
	color, ok := schema.Lookup("color")
	require.True(t, ok)
	assert.Equal(t, model.AttributeText, color.Type)
	assert.Empty(t, color.Options)
	assert.False(t, color.IsRequired, "redeclaration replaces the whole record")
	assert.Equal(t, "child", color.DeclaredIn)
	assert.Equal(t, []string{"child", "root"}, attrs.asked)
}

func TestResolveInheritsAndSortsByKey(t *testing.T) {
	cats, attrs := colorTree()
	r := NewResolver(cats, attrs)

	schema, err := r.Resolve(context.Background(), "leaf")

	require.NoError(t, err)
	var keys []string
	for _, d := range schema.Definitions() {
		keys = append(keys, d.Key)
	}
	assert.Equal(t, []string{"area", "brand", "color"}, keys)
	_, leaked := schema.Lookup("zzz")
	assert.False(t, leaked)
}

func TestResolveRootKeepsAncestorDeclaration(t *testing.T) {
	cats, attrs := colorTree()

	schema, err := NewResolver(cats, attrs).Resolve(context.Background(), "root")

	require.NoError(t, err)
	color, _ := schema.Lookup("color")
	assert.Equal(t, model.AttributeChoice, color.Type)
}

func TestResolveUnknownCategory(t *testing.T) {
	cats, attrs := colorTree()

	_, err := NewResolver(cats, attrs).Resolve(context.Background(), "missing")

	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestResolveEmptySchema(t *testing.T) {
	cats := &fakeCategories{parents: map[string]string{"bare": ""}}

	schema, err := NewResolver(cats, &fakeAttributes{}).Resolve(context.Background(), "bare")

	require.NoError(t, err)
	assert.Equal(t, 0, schema.Len())
}

func TestResolvePropagatesStoreErrors(t *testing.T) {
	boom := errors.New("db down")

	_, err := NewResolver(&fakeCategories{err: boom}, &fakeAttributes{}).Resolve(context.Background(), "x")

	assert.Same(t, boom, err)
}

func TestMergeChain(t *testing.T) {
	attrs := []model.Attribute{
		{ID: "a", CategoryID: "root", Key: "k", Type: model.AttributeNumber},
		{ID: "b", CategoryID: "mid", Key: "k", Type: model.AttributeBoolean},
		{ID: "c", CategoryID: "leaf", Key: "k", Type: model.AttributeText},
		{ID: "d", CategoryID: "stranger", Key: "k", Type: model.AttributeChoice},
	}

	tests := []struct {
		name  string
		chain []string
		want  model.AttributeType
	}{
		{"leaf declaration wins", []string{"leaf", "mid", "root"}, model.AttributeText},
		{"middle wins without leaf", []string{"mid", "root"}, model.AttributeBoolean},
		{"order of attrs does not matter", []string{"root"}, model.AttributeNumber},
		{"repeated ids keep first position", []string{"mid", "root", "mid"}, model.AttributeBoolean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := MergeChain(tt.chain, attrs)
			require.Equal(t, 1, schema.Len())
			def, _ := schema.Lookup("k")
			assert.Equal(t, tt.want, def.Type)
		})
	}

	reversed := []model.Attribute{attrs[3], attrs[2], attrs[1], attrs[0]}
	def, _ := MergeChain([]string{"leaf", "mid", "root"}, reversed).Lookup("k")
	assert.Equal(t, "c", def.ID)
}
