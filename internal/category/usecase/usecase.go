package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bazarlab/marketplace-service/internal/attribute"
	"github.com/bazarlab/marketplace-service/internal/category"
	"github.com/bazarlab/marketplace-service/internal/category/dto"
	"github.com/bazarlab/marketplace-service/pkg/cache"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	treeCacheKey   = "taxonomy:tree:%s"
	schemaCacheKey = "taxonomy:schema:%s"
	taxonomyKeys   = "taxonomy:*"
)

type Options struct {
	MediaBaseURL string
	MaxDepth     int
	CacheTTL     time.Duration
}

type categoryUseCase struct {
	repo     category.Repository
	resolver *attribute.Resolver
	cache    *cache.RedisClient
	opts     Options
	logger   logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, resolver *attribute.Resolver, redis *cache.RedisClient, opts Options, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:     repo,
		resolver: resolver,
		cache:    redis,
		opts:     opts,
		logger:   log,
	}
}

func (uc *categoryUseCase) builder(locale string) *TreeBuilder {
	return &TreeBuilder{Locale: locale, MediaBaseURL: uc.opts.MediaBaseURL, MaxDepth: uc.opts.MaxDepth}
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]dto.CategoryNode, error) {
	if filters.ParentID != nil {
		children, err := uc.repo.FindChildren(ctx, filters.ParentID)
		if err != nil {
			return nil, err
		}
		return uc.builder(filters.Locale).Level(children), nil
	}

	key := fmt.Sprintf(treeCacheKey, filters.Locale)
	var cached []dto.CategoryNode
	if hit, err := uc.cache.GetJSON(ctx, key, &cached); err != nil {
		uc.logger.Warn("category tree cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return cached, nil
	}

	all, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	b := uc.builder(filters.Locale)
	tree := b.Tree(all)
	if b.Truncated > 0 {
		uc.logger.Warn("category tree deeper than max depth, rows dropped",
			zap.Int("max_depth", b.maxDepth()),
			zap.Int("dropped", b.Truncated),
		)
	}

	if err := uc.cache.SetJSON(ctx, key, tree, uc.opts.CacheTTL); err != nil {
		uc.logger.Warn("category tree cache write failed", zap.String("key", key), zap.Error(err))
	}
	return tree, nil
}

func (uc *categoryUseCase) GetCategoryAttributes(ctx context.Context, id, locale string) ([]dto.AttributeNode, error) {
	schema, err := uc.schema(ctx, id)
	if err != nil {
		return nil, err
	}

	defs := schema.Definitions()
	nodes := make([]dto.AttributeNode, 0, len(defs))
	for i := range defs {
		d := &defs[i]
		options := []string{}
		options = append(options, d.Options...)
		nodes = append(nodes, dto.AttributeNode{
			ID:         d.ID,
			Key:        d.Key,
			Type:       string(d.Type),
			Label:      d.LocalizedLabel(locale),
			Options:    options,
			IsRequired: d.IsRequired,
			CategoryID: d.DeclaredIn,
		})
	}
	return nodes, nil
}

func (uc *categoryUseCase) schema(ctx context.Context, id string) (attribute.Schema, error) {
	key := fmt.Sprintf(schemaCacheKey, id)
	var cached []attribute.Definition
	if hit, err := uc.cache.GetJSON(ctx, key, &cached); err != nil {
		uc.logger.Warn("attribute schema cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return attribute.NewSchema(cached), nil
	}

	schema, err := uc.resolver.Resolve(ctx, id)
	if err != nil {
		return attribute.Schema{}, err
	}

	if err := uc.cache.SetJSON(ctx, key, schema.Definitions(), uc.opts.CacheTTL); err != nil {
		uc.logger.Warn("attribute schema cache write failed", zap.String("key", key), zap.Error(err))
	}
	return schema, nil
}

func (uc *categoryUseCase) InvalidateCache(ctx context.Context) error {
	n, err := uc.cache.DeletePattern(ctx, taxonomyKeys)
	if err != nil {
		return err
	}
	uc.logger.Info("taxonomy cache invalidated", zap.Int("keys", n))
	return nil
}
