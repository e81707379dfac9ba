package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bazarlab/marketplace-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByCategoryIDs(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	repo := NewPGRepository(sqlx.NewDb(raw, "postgres"))

	rows := sqlmock.NewRows([]string{"id", "category_id", "key", "type", "label", "label_ru", "label_uz", "options", "is_required"}).
		AddRow("a1", "root", "color", "choice", "Color", "Цвет", nil, "{red,blue}", false).
		AddRow("a2", "leaf", "size", "number", "Size", nil, nil, "{}", true)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE category_id IN ($1, $2)")).
		WithArgs("leaf", "root").
		WillReturnRows(rows)

	attrs, err := repo.FindByCategoryIDs(context.Background(), []string{"leaf", "root"})

	require.NoError(t, err)
	require.Len(t, attrs, 2)
	assert.Equal(t, model.AttributeChoice, attrs[0].Type)
	assert.Equal(t, []string{"red", "blue"}, []string(attrs[0].Options))
	assert.Equal(t, "Цвет", attrs[0].LocalizedLabel("ru"))
	assert.Equal(t, "Color", attrs[0].LocalizedLabel("uz"))
	assert.True(t, attrs[1].IsRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByCategoryIDsEmpty(t *testing.T) {
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	repo := NewPGRepository(sqlx.NewDb(raw, "postgres"))

	attrs, err := repo.FindByCategoryIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, attrs)
}

func TestFindByCategoryIDsSkipsUnknownTypes(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	repo := NewPGRepository(sqlx.NewDb(raw, "postgres"))

	rows := sqlmock.NewRows([]string{"id", "category_id", "key", "type", "label", "label_ru", "label_uz", "options", "is_required"}).
		AddRow("a1", "root", "photo", "image", "Photo", nil, nil, "{}", true).
		AddRow("a2", "root", "area", "number", "Area", nil, nil, "{}", false)
	mock.ExpectQuery("FROM attributes").WithArgs("root").WillReturnRows(rows)

	attrs, err := repo.FindByCategoryIDs(context.Background(), []string{"root"})

	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, "area", attrs[0].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}
