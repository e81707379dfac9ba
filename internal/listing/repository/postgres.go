package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bazarlab/marketplace-service/internal/listing"
	"github.com/bazarlab/marketplace-service/internal/listing/dto"
	"github.com/bazarlab/marketplace-service/internal/model"
	"github.com/bazarlab/marketplace-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB    *sqlx.DB
	ext   sqlx.ExtContext
	inTx  bool
	retry postgres.RetryPolicy
}

func NewPGRepository(db *sqlx.DB, retry postgres.RetryPolicy) *PGRepository {
	return &PGRepository{DB: db, ext: db, retry: retry}
}

func (r *PGRepository) WithTx(ctx context.Context, fn func(repo listing.Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	return postgres.RunInTx(ctx, r.DB, r.retry, func(tx *sqlx.Tx) error {
		return fn(&PGRepository{DB: r.DB, ext: tx, inTx: true, retry: r.retry})
	})
}

const listingColumns = `l.id, l.user_id, l.category_id, l.location_id, l.title, l.description,
        l.price_amount, l.price_currency, l.is_price_negotiable, l.condition, l.deal_type,
        l.seller_type, l.status, l.lat, l.lon, l.contact_name, l.contact_phone,
        l.contact_email, l.refreshed_at, l.created_at, l.updated_at`

func (r *PGRepository) Create(ctx context.Context, l *model.Listing) error {
	query := `
        INSERT INTO listings (
            id, user_id, category_id, location_id, title, description,
            price_amount, price_currency, is_price_negotiable, condition, deal_type,
            seller_type, status, lat, lon, contact_name, contact_phone,
            contact_email, refreshed_at, created_at, updated_at
        )
        VALUES (
            :id, :user_id, :category_id, :location_id, :title, :description,
            :price_amount, :price_currency, :is_price_negotiable, :condition, :deal_type,
            :seller_type, :status, :lat, :lon, :contact_name, :contact_phone,
            :contact_email, :refreshed_at, :created_at, :updated_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, r.ext, query, l)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	return r.findOne(ctx, `SELECT `+listingColumns+` FROM listings l WHERE l.id = $1 LIMIT 1`, id)
}

func (r *PGRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Listing, error) {
	return r.findOne(ctx, `SELECT `+listingColumns+` FROM listings l WHERE l.id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) findOne(ctx context.Context, query, id string) (*model.Listing, error) {
	var l model.Listing
	if err := sqlx.GetContext(ctx, r.ext, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ListingFilters) ([]model.Listing, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}
	from := " FROM listings l"

	if f.UserID != "" {
		conditions = append(conditions, "l.user_id = :user_id")
		args["user_id"] = f.UserID
	}
	if f.Status != "" {
		conditions = append(conditions, "l.status = :status")
		args["status"] = f.Status
	}
	if f.CategorySlug != "" {
		from += " JOIN categories c ON c.id = l.category_id"
		conditions = append(conditions, "c.slug = :category_slug")
		args["category_slug"] = f.CategorySlug
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := r.ext.BindNamed("SELECT count(*)"+from+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	var count int
	if err := sqlx.GetContext(ctx, r.ext, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	// Whitelisted, never taken from input.
	orderBy := "l.refreshed_at DESC, l.created_at DESC"
	switch f.Sort {
	case dto.SortOldest:
		orderBy = "l.refreshed_at ASC, l.created_at ASC"
	case dto.SortPriceAsc:
		orderBy = "l.price_amount ASC, l.created_at DESC"
	case dto.SortPriceDesc:
		orderBy = "l.price_amount DESC, l.created_at DESC"
	}

	query := fmt.Sprintf("SELECT %s%s%s ORDER BY %s", listingColumns, from, whereClause, orderBy)
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	query, listArgs, err := r.ext.BindNamed(query, args)
	if err != nil {
		return nil, 0, err
	}
	listings := []model.Listing{}
	if err := sqlx.SelectContext(ctx, r.ext, &listings, query, listArgs...); err != nil {
		return nil, 0, err
	}
	return listings, count, nil
}

func (r *PGRepository) Update(ctx context.Context, l *model.Listing) error {
	query := `
        UPDATE listings
        SET category_id = :category_id,
            location_id = :location_id,
            title = :title,
            description = :description,
            price_amount = :price_amount,
            price_currency = :price_currency,
            is_price_negotiable = :is_price_negotiable,
            condition = :condition,
            deal_type = :deal_type,
            seller_type = :seller_type,
            status = :status,
            lat = :lat,
            lon = :lon,
            contact_name = :contact_name,
            contact_phone = :contact_phone,
            contact_email = :contact_email,
            refreshed_at = :refreshed_at,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := sqlx.NamedExecContext(ctx, r.ext, query, l)
	return err
}

// Delete removes the listing; attribute rows go with it via ON DELETE CASCADE.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.ext.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	return err
}

func (r *PGRepository) ReplaceAttributes(ctx context.Context, listingID string, attrs []model.ListingAttribute) error {
	if _, err := r.ext.ExecContext(ctx, `DELETE FROM listing_attributes WHERE listing_id = $1`, listingID); err != nil {
		return err
	}
	if len(attrs) == 0 {
		return nil
	}
	query := `
        INSERT INTO listing_attributes (listing_id, key, value_type, value_text, value_number, value_bool)
        VALUES (:listing_id, :key, :value_type, :value_text, :value_number, :value_bool)
    `
	_, err := sqlx.NamedExecContext(ctx, r.ext, query, attrs)
	return err
}

func (r *PGRepository) FindAttributes(ctx context.Context, listingIDs []string) (map[string][]model.ListingAttribute, error) {
	out := make(map[string][]model.ListingAttribute, len(listingIDs))
	if len(listingIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
        SELECT listing_id, key, value_type, value_text, value_number, value_bool
        FROM listing_attributes
        WHERE listing_id IN (?)
        ORDER BY listing_id, key
    `, listingIDs)
	if err != nil {
		return nil, err
	}

	var rows []model.ListingAttribute
	if err := sqlx.SelectContext(ctx, r.ext, &rows, r.ext.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, a := range rows {
		out[a.ListingID] = append(out[a.ListingID], a)
	}
	return out, nil
}
