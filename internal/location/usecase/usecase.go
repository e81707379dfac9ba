package usecase

import (
	"context"
	"sort"

	"github.com/bazarlab/marketplace-service/internal/location"
	"github.com/bazarlab/marketplace-service/internal/location/dto"
	"github.com/bazarlab/marketplace-service/pkg/logger"
)

type locationUseCase struct {
	repo   location.Repository
	logger logger.ZapLogger
}

func NewLocationUseCase(repo location.Repository, log logger.ZapLogger) location.UseCase {
	return &locationUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *locationUseCase) ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]dto.LocationNode, error) {
	rows, err := uc.repo.FindChildren(ctx, filters.ParentID)
	if err != nil {
		return nil, err
	}

	nodes := make([]dto.LocationNode, 0, len(rows))
	for i := range rows {
		nodes = append(nodes, dto.LocationNode{
			ID:       rows[i].ID,
			ParentID: rows[i].ParentID,
			Name:     rows[i].LocalizedName(filters.Locale),
			Kind:     rows[i].Kind,
		})
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes, nil
}
