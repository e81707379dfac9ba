package attribute

import (
	"context"

	"github.com/bazarlab/marketplace-service/internal/model"
)

type Repository interface {
	FindByCategoryIDs(ctx context.Context, categoryIDs []string) ([]model.Attribute, error)
}
