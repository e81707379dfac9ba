package category

import (
	"context"

	"github.com/bazarlab/marketplace-service/internal/category/dto"
)

type UseCase interface {
	// ListCategories returns the direct children of filters.ParentID as a flat
	// list, or the whole tree when ParentID is nil.
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]dto.CategoryNode, error)
	GetCategoryAttributes(ctx context.Context, id, locale string) ([]dto.AttributeNode, error)
	InvalidateCache(ctx context.Context) error
}
