package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bazarlab/marketplace-service/internal/listing"
	"github.com/bazarlab/marketplace-service/internal/listing/dto"
	"github.com/bazarlab/marketplace-service/internal/model"
	"github.com/bazarlab/marketplace-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var listingRowColumns = []string{
	"id", "user_id", "category_id", "location_id", "title", "description",
	"price_amount", "price_currency", "is_price_negotiable", "condition", "deal_type",
	"seller_type", "status", "lat", "lon", "contact_name", "contact_phone",
	"contact_email", "refreshed_at", "created_at", "updated_at",
}

func newRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return NewPGRepository(sqlx.NewDb(raw, "postgres"), postgres.RetryPolicy{Attempts: 1}), mock
}

func listingRow(id, title string) []driver.Value {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []driver.Value{
		id, "u1", "c1", "loc1", title, "",
		150.5, "UZS", false, "used", "sell",
		"person", "active", nil, nil, "", "",
		"", now, now, now,
	}
}

func TestFindByIDForUpdateLocksRow(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE l.id = $1 FOR UPDATE")).
		WithArgs("l1").
		WillReturnRows(sqlmock.NewRows(listingRowColumns).AddRow(listingRow("l1", "Bike")...))

	l, err := repo.FindByIDForUpdate(context.Background(), "l1")

	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, "Bike", l.Title)
	assert.Equal(t, 150.5, l.PriceAmount)
	assert.Nil(t, l.Lat)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllFiltersBySlugAndSorts(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM listings l JOIN categories c ON c.id = l.category_id WHERE l.user_id = $1 AND l.status = $2 AND c.slug = $3")).
		WithArgs("u1", "active", "bikes").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY l.price_amount DESC, l.created_at DESC LIMIT 2 OFFSET 2")).
		WithArgs("u1", "active", "bikes").
		WillReturnRows(sqlmock.NewRows(listingRowColumns).AddRow(listingRow("l3", "Old bike")...))

	listings, count, err := repo.FindAll(context.Background(), &dto.ListingFilters{
		UserID:       "u1",
		Status:       model.ListingStatusActive,
		CategorySlug: "bikes",
		Sort:         dto.SortPriceDesc,
		Page:         2,
		PageSize:     2,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, listings, 1)
	assert.Equal(t, "l3", listings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAttributes(t *testing.T) {
	repo, mock := newRepo(t)
	text, num := "red", 12.0
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM listing_attributes WHERE listing_id = $1")).
		WithArgs("l1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT INTO listing_attributes").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.ReplaceAttributes(context.Background(), "l1", []model.ListingAttribute{
		{ListingID: "l1", Key: "color", Type: model.AttributeChoice, ValueText: &text},
		{ListingID: "l1", Key: "size", Type: model.AttributeNumber, ValueNumber: &num},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAttributesWithEmptySetOnlyDeletes(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec("DELETE FROM listing_attributes").
		WithArgs("l1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ReplaceAttributes(context.Background(), "l1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAttributesGroupsByListing(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE listing_id IN ($1, $2)")).
		WithArgs("l1", "l2").
		WillReturnRows(sqlmock.NewRows([]string{"listing_id", "key", "value_type", "value_text", "value_number", "value_bool"}).
			AddRow("l1", "area", "number", nil, 40.0, nil).
			AddRow("l1", "used", "boolean", nil, nil, true).
			AddRow("l2", "brand", "text", "Acme", nil, nil))

	got, err := repo.FindAttributes(context.Background(), []string{"l1", "l2"})

	require.NoError(t, err)
	require.Len(t, got["l1"], 2)
	assert.Equal(t, 40.0, *got["l1"][0].ValueNumber)
	assert.True(t, *got["l1"][1].ValueBool)
	assert.Equal(t, "Acme", *got["l2"][0].ValueText)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxCommits(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM listings").WithArgs("l1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithTx(context.Background(), func(tx listing.Repository) error {
		return tx.Delete(context.Background(), "l1")
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	repo, mock := newRepo(t)
	boom := errors.New("attribute failed")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO listings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := repo.WithTx(context.Background(), func(tx listing.Repository) error {
		if err := tx.Create(context.Background(), &model.Listing{BaseModel: model.BaseModel{ID: "l1"}}); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxNestedReusesTransaction(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := repo.WithTx(context.Background(), func(outer listing.Repository) error {
		return outer.WithTx(context.Background(), func(inner listing.Repository) error {
			assert.Same(t, outer, inner)
			return nil
		})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
