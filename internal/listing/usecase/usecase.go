package usecase

import (
	"context"
	"time"

	"github.com/bazarlab/marketplace-service/internal/apperr"
	"github.com/bazarlab/marketplace-service/internal/attribute"
	"github.com/bazarlab/marketplace-service/internal/listing"
	"github.com/bazarlab/marketplace-service/internal/listing/dto"
	"github.com/bazarlab/marketplace-service/internal/model"
	"github.com/bazarlab/marketplace-service/pkg/i18n"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"github.com/google/uuid"
)

type Deps struct {
	Repo       listing.Repository
	Categories listing.CategoryReader
	Locations  listing.LocationReader
	Resolver   *attribute.Resolver

	// Optional; nil disables the matching side effect.
	Events      listing.EventPublisher
	Search      listing.SearchIndex
	SearchIndex string
}

type listingUseCase struct {
	repo       listing.Repository
	categories listing.CategoryReader
	locations  listing.LocationReader
	resolver   *attribute.Resolver
	events     listing.EventPublisher
	search     listing.SearchIndex
	index      string
	logger     logger.ZapLogger
	now        func() time.Time
	async      func(fn func())
}

func NewListingUseCase(deps Deps, log logger.ZapLogger) listing.UseCase {
	return &listingUseCase{
		repo:       deps.Repo,
		categories: deps.Categories,
		locations:  deps.Locations,
		resolver:   deps.Resolver,
		events:     deps.Events,
		search:     deps.Search,
		index:      deps.SearchIndex,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
		async:      func(fn func()) { go fn() },
	}
}

func (uc *listingUseCase) CreateListing(ctx context.Context, input *dto.WriteListingInput) (*model.Listing, error) {
	id := uuid.New().String()

	var created *model.Listing
	err := uc.repo.WithTx(ctx, func(repo listing.Repository) error {
		now := uc.now()
		l := &model.Listing{
			BaseModel:     model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
			UserID:        input.UserID,
			PriceCurrency: model.DefaultCurrency,
			Condition:     model.DefaultCondition,
			DealType:      model.DefaultDealType,
			SellerType:    model.DefaultSellerType,
			Status:        model.ListingStatusActive,
			RefreshedAt:   now,
		}
		if err := applyFields(l, input.Fields, true); err != nil {
			return err
		}
		if err := uc.checkReferences(ctx, l, true, true); err != nil {
			return err
		}

		attrs, err := uc.coerceAttributes(ctx, l, input.Attributes)
		if err != nil {
			return err
		}

		if err := repo.Create(ctx, l); err != nil {
			return err
		}
		if err := repo.ReplaceAttributes(ctx, l.ID, attrs); err != nil {
			return err
		}
		l.Attributes = attrs
		created = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterWrite(EventListingCreated, created)
	return created, nil
}

func (uc *listingUseCase) UpdateListing(ctx context.Context, input *dto.WriteListingInput) (*model.Listing, error) {
	var updated *model.Listing
	err := uc.repo.WithTx(ctx, func(repo listing.Repository) error {
		l, err := uc.ownedForUpdate(ctx, repo, input.UserID, input.ListingID)
		if err != nil {
			return err
		}

		if err := applyFields(l, input.Fields, false); err != nil {
			return err
		}
		_, categoryChanged := input.Fields["category_id"]
		_, locationChanged := input.Fields["location_id"]
		if err := uc.checkReferences(ctx, l, categoryChanged, locationChanged); err != nil {
			return err
		}

		if input.AttributesProvided {
			attrs, err := uc.coerceAttributes(ctx, l, input.Attributes)
			if err != nil {
				return err
			}
			if err := repo.ReplaceAttributes(ctx, l.ID, attrs); err != nil {
				return err
			}
			l.Attributes = attrs
		} else {
			byListing, err := repo.FindAttributes(ctx, []string{l.ID})
			if err != nil {
				return err
			}
			l.Attributes = nonNil(byListing[l.ID])
		}

		l.UpdatedAt = uc.now()
		if err := repo.Update(ctx, l); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterWrite(EventListingUpdated, updated)
	return updated, nil
}

// checkReferences verifies the referenced category and location exist.
// A missing row is reported as not found against the request field.
func (uc *listingUseCase) checkReferences(ctx context.Context, l *model.Listing, category, location bool) error {
	if category {
		c, err := uc.categories.FindByID(ctx, l.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.NotFoundField("category", "category_id")
		}
	}
	if location {
		loc, err := uc.locations.FindByID(ctx, l.LocationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return apperr.NotFoundField("location", "location_id")
		}
	}
	return nil
}

func (uc *listingUseCase) coerceAttributes(ctx context.Context, l *model.Listing, submitted []attribute.RawAttribute) ([]model.ListingAttribute, error) {
	schema, err := uc.resolver.Resolve(ctx, l.CategoryID)
	if err != nil {
		return nil, err
	}
	coerced, err := attribute.CoerceAttributes(schema, submitted)
	if err != nil {
		return nil, err
	}
	attrs := make([]model.ListingAttribute, 0, len(coerced))
	for _, c := range coerced {
		attrs = append(attrs, c.ToListingAttribute(l.ID))
	}
	return attrs, nil
}

func (uc *listingUseCase) ownedForUpdate(ctx context.Context, repo listing.Repository, userID, id string) (*model.Listing, error) {
	l, err := repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil || l.UserID != userID {
		return nil, apperr.NotFound("listing")
	}
	return l, nil
}

func (uc *listingUseCase) GetListing(ctx context.Context, id string) (*model.Listing, error) {
	l, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperr.NotFound("listing")
	}
	if err := uc.attachAttributes(ctx, []*model.Listing{l}); err != nil {
		return nil, err
	}
	return l, nil
}

func (uc *listingUseCase) ListListings(ctx context.Context, filters *dto.ListingFilters) ([]model.Listing, int, error) {
	listings, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	ptrs := make([]*model.Listing, len(listings))
	for i := range listings {
		ptrs[i] = &listings[i]
	}
	if err := uc.attachAttributes(ctx, ptrs); err != nil {
		return nil, 0, err
	}
	return listings, count, nil
}

func (uc *listingUseCase) attachAttributes(ctx context.Context, listings []*model.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	byListing, err := uc.repo.FindAttributes(ctx, ids)
	if err != nil {
		return err
	}
	for _, l := range listings {
		l.Attributes = nonNil(byListing[l.ID])
	}
	return nil
}

func (uc *listingUseCase) RefreshListing(ctx context.Context, userID, id string) (*model.Listing, error) {
	return uc.mutate(ctx, userID, id, func(l *model.Listing, now time.Time) error {
		l.RefreshedAt = now
		return nil
	})
}

func (uc *listingUseCase) DeactivateListing(ctx context.Context, userID, id string) (*model.Listing, error) {
	return uc.mutate(ctx, userID, id, func(l *model.Listing, _ time.Time) error {
		l.Status = model.ListingStatusPaused
		return nil
	})
}

func (uc *listingUseCase) ActivateListing(ctx context.Context, userID, id string) (*model.Listing, error) {
	return uc.mutate(ctx, userID, id, func(l *model.Listing, now time.Time) error {
		if l.Status != model.ListingStatusPaused && l.Status != model.ListingStatusClosed {
			return apperr.Invalid("detail", i18n.MsgInvalidTransition, nil)
		}
		l.Status = model.ListingStatusActive
		l.RefreshedAt = now
		return nil
	})
}

func (uc *listingUseCase) mutate(ctx context.Context, userID, id string, change func(l *model.Listing, now time.Time) error) (*model.Listing, error) {
	var out *model.Listing
	err := uc.repo.WithTx(ctx, func(repo listing.Repository) error {
		l, err := uc.ownedForUpdate(ctx, repo, userID, id)
		if err != nil {
			return err
		}
		now := uc.now()
		if err := change(l, now); err != nil {
			return err
		}
		l.UpdatedAt = now
		if err := repo.Update(ctx, l); err != nil {
			return err
		}
		byListing, err := repo.FindAttributes(ctx, []string{l.ID})
		if err != nil {
			return err
		}
		l.Attributes = nonNil(byListing[l.ID])
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterWrite(EventListingUpdated, out)
	return out, nil
}

func (uc *listingUseCase) DeleteListing(ctx context.Context, userID, id string) error {
	var deleted *model.Listing
	err := uc.repo.WithTx(ctx, func(repo listing.Repository) error {
		l, err := uc.ownedForUpdate(ctx, repo, userID, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, l.ID); err != nil {
			return err
		}
		deleted = l
		return nil
	})
	if err != nil {
		return err
	}

	uc.afterWrite(EventListingDeleted, deleted)
	return nil
}

func nonNil(attrs []model.ListingAttribute) []model.ListingAttribute {
	if attrs == nil {
		return []model.ListingAttribute{}
	}
	return attrs
}
