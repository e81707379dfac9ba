package usecase

import (
	"sort"
	"strings"

	"github.com/bazarlab/marketplace-service/internal/category/dto"
	"github.com/bazarlab/marketplace-service/internal/model"
)

// TreeBuilder turns flat category rows into localized nodes.
type TreeBuilder struct {
	Locale       string
	MediaBaseURL string
	MaxDepth     int

	// Truncated counts rows the last Tree call dropped below MaxDepth.
	Truncated int
}

// arena holds categories by position; edges are stored as index lists so
// assembly never follows pointers between rows.
type arena struct {
	nodes    []model.Category
	index    map[string]int
	children [][]int
	roots    []int
}

func newArena(categories []model.Category) *arena {
	a := &arena{
		nodes:    categories,
		index:    make(map[string]int, len(categories)),
		children: make([][]int, len(categories)),
	}
	for i, c := range categories {
		if _, dup := a.index[c.ID]; !dup {
			a.index[c.ID] = i
		}
	}
	for i, c := range categories {
		if a.index[c.ID] != i {
			continue
		}
		if c.ParentID == nil {
			a.roots = append(a.roots, i)
			continue
		}
		parent, ok := a.index[*c.ParentID]
		if !ok {
			a.roots = append(a.roots, i)
			continue
		}
		a.children[parent] = append(a.children[parent], i)
	}
	return a
}

// descendants counts the rows below i with an explicit stack.
func (a *arena) descendants(i int) int {
	n := 0
	stack := append([]int(nil), a.children[i]...)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, a.children[top]...)
	}
	return n
}

// Tree assembles the full hierarchy. Rows whose parent id is missing from
// categories become roots. Rows that sit on a parent cycle are unreachable
// from any root and are left out. Children below MaxDepth are dropped.
func (b *TreeBuilder) Tree(categories []model.Category) []dto.CategoryNode {
	a := newArena(categories)
	b.Truncated = 0
	return b.assemble(a, a.roots, 1)
}

func (b *TreeBuilder) assemble(a *arena, ids []int, depth int) []dto.CategoryNode {
	nodes := make([]dto.CategoryNode, 0, len(ids))
	for _, i := range ids {
		node := b.node(&a.nodes[i])
		if depth < b.maxDepth() {
			node.Children = b.assemble(a, a.children[i], depth+1)
		} else {
			b.Truncated += a.descendants(i)
		}
		nodes = append(nodes, node)
	}
	sortNodes(nodes)
	return nodes
}

// Level returns one flat, sorted level with empty child lists.
func (b *TreeBuilder) Level(categories []model.Category) []dto.CategoryNode {
	nodes := make([]dto.CategoryNode, 0, len(categories))
	for i := range categories {
		nodes = append(nodes, b.node(&categories[i]))
	}
	sortNodes(nodes)
	return nodes
}

func (b *TreeBuilder) node(c *model.Category) dto.CategoryNode {
	return dto.CategoryNode{
		ID:       c.ID,
		Name:     c.LocalizedName(b.Locale),
		Slug:     c.Slug,
		Icon:     c.Icon,
		IconURL:  b.iconURL(c.IconImage),
		IsLeaf:   c.IsLeaf,
		Order:    c.SortOrder,
		Children: []dto.CategoryNode{},
	}
}

func (b *TreeBuilder) iconURL(path *string) string {
	if path == nil || *path == "" {
		return ""
	}
	p := *path
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") || b.MediaBaseURL == "" {
		return p
	}
	return strings.TrimRight(b.MediaBaseURL, "/") + "/" + strings.TrimLeft(p, "/")
}

func (b *TreeBuilder) maxDepth() int {
	if b.MaxDepth <= 0 {
		return 16
	}
	return b.MaxDepth
}

// sortNodes orders siblings by Order, then by localized name code point by
// code point. Byte order of UTF-8 strings matches code point order.
func sortNodes(nodes []dto.CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Order != nodes[j].Order {
			return nodes[i].Order < nodes[j].Order
		}
		return nodes[i].Name < nodes[j].Name
	})
}
