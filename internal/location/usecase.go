package location

import (
	"context"

	"github.com/bazarlab/marketplace-service/internal/location/dto"
)

type UseCase interface {
	ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]dto.LocationNode, error)
}
