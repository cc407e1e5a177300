// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	apperrors "trip-concierge/internal/common/errors"
	"trip-concierge/internal/models"
)

const (
	zonesQuery = `
		SELECT alias, location_id, zone_name
		FROM concierge_zones
		ORDER BY position, alias`

	storesQuery = `
		SELECT store_type, name, zone, location_id, products
		FROM concierge_stores
		WHERE active = TRUE
		ORDER BY store_type, position, name`
)

// LoadPostgres reads zones and stores into a Snapshot. zone_name may be NULL
// for aliases that share an id with a named row.
func LoadPostgres(ctx context.Context, db *sql.DB) (*Snapshot, error) {
	aliases, names, err := loadZones(ctx, db)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(err)
	}

	stores, err := loadStores(ctx, db)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(err)
	}

	return NewSnapshot(aliases, names, stores), nil
}

func loadZones(ctx context.Context, db *sql.DB) ([]Zone, map[int]string, error) {
	rows, err := db.QueryContext(ctx, zonesQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("query zones: %w", err)
	}
	defer rows.Close()

	var aliases []Zone
	names := make(map[int]string)
	for rows.Next() {
		var (
			z    Zone
			name sql.NullString
		)
		if err := rows.Scan(&z.Alias, &z.LocationID, &name); err != nil {
			return nil, nil, fmt.Errorf("scan zone: %w", err)
		}
		aliases = append(aliases, z)
		if name.Valid && name.String != "" {
			names[z.LocationID] = name.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate zones: %w", err)
	}
	return aliases, names, nil
}

func loadStores(ctx context.Context, db *sql.DB) (map[models.StoreType][]models.StoreCandidate, error) {
	rows, err := db.QueryContext(ctx, storesQuery)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}
	defer rows.Close()

	stores := make(map[models.StoreType][]models.StoreCandidate)
	for rows.Next() {
		var (
			storeType string
			s         models.StoreCandidate
		)
		if err := rows.Scan(&storeType, &s.Name, &s.Zone, &s.LocationID, pq.Array(&s.Products)); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		t := models.StoreType(storeType)
		stores[t] = append(stores[t], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stores: %w", err)
	}
	return stores, nil
}
