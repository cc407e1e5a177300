// internal/catalog/catalog_test.go
package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trip-concierge/internal/common/errors"
	"trip-concierge/internal/models"
)

func TestStatic_ZoneID(t *testing.T) {
	c := Static()

	tests := []struct {
		place  string
		wantID int
		wantOK bool
	}{
		{"JFK Airport", 136, true},
		{"  jfk ", 136, true},
		{"LGA", 138, true},
		{"Midtown Center", 154, true},
		{"Park Slope", 187, true},
		{"Boston", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.place, func(t *testing.T) {
			id, ok := c.ZoneID(tt.place)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestStatic_ZoneName(t *testing.T) {
	c := Static()
	assert.Equal(t, "Times Sq/Theatre District", c.ZoneName(236))
	assert.Equal(t, "Location 999", c.ZoneName(999))
}

func TestStatic_Stores(t *testing.T) {
	c := Static()

	pharmacies := c.Stores(models.StorePharmacy)
	require.Len(t, pharmacies, 3)
	assert.Equal(t, "Duane Reade Midtown", pharmacies[0].Name)
	assert.Equal(t, 154, pharmacies[0].LocationID)

	// callers get a copy
	pharmacies[0].Name = "changed"
	assert.Equal(t, "Duane Reade Midtown", c.Stores(models.StorePharmacy)[0].Name)

	assert.Len(t, c.Stores(models.StoreDepartment), 2)
	assert.Len(t, c.Stores(models.StoreStationery), 2)
	assert.Len(t, c.Stores(models.StoreConvenience), 2)
	assert.Empty(t, c.Stores(models.StoreType("bakery")))
	assert.Equal(t, 9, c.StoreCount())
}

func TestEnhanceQuery(t *testing.T) {
	c := Static()

	out := c.EnhanceQuery("How much is a cab from JFK to Times Square?")
	assert.Contains(t, out, `[Hint: "jfk" is LocationID 136]`)
	assert.Contains(t, out, `[Hint: "times square" is LocationID 236]`)
	assert.True(t, len(out) > len("How much is a cab from JFK to Times Square?"))

	// whole words only
	plain := "Is the coronation parade affecting traffic?"
	assert.Equal(t, plain, c.EnhanceQuery(plain))
}

func TestLoadPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectQuery("FROM concierge_zones").
		WillReturnRows(sqlmock.NewRows([]string{"alias", "location_id", "zone_name"}).
			AddRow("jfk", 136, "JFK Airport").
			AddRow("jfk airport", 136, nil).
			AddRow("midtown", 154, "Midtown Center"))

	mock.ExpectQuery("FROM concierge_stores").
		WillReturnRows(sqlmock.NewRows([]string{"store_type", "name", "zone", "location_id", "products"}).
			AddRow("department", "Macy's Herald Square", "Garment District", 118, "{umbrella,bag}").
			AddRow("pharmacy", "Duane Reade Midtown", "Midtown Center", 154, "{medicine,vitamins}"))

	c, err := LoadPostgres(context.Background(), db)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	id, ok := c.ZoneID("JFK Airport")
	assert.True(t, ok)
	assert.Equal(t, 136, id)
	assert.Equal(t, "JFK Airport", c.ZoneName(136))
	assert.Equal(t, 3, c.ZoneCount())

	dept := c.Stores(models.StoreDepartment)
	require.Len(t, dept, 1)
	assert.Equal(t, []string{"umbrella", "bag"}, dept[0].Products)
	assert.Len(t, c.Stores(models.StorePharmacy), 1)
}

func TestLoadPostgres_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectQuery("SELECT alias").WillReturnError(errors.New("relation does not exist"))

	_, err = LoadPostgres(context.Background(), db)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCatalogLoadFailed))
}
