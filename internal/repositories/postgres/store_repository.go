package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
)

type StoreRepository struct {
	pool *pgxpool.Pool
}

func NewStoreRepository(pool *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{pool: pool}
}

func (r *StoreRepository) Create(ctx context.Context, store *models.Store) error {
	var mapsURL *string
	if store.MapsURL != "" {
		mapsURL = &store.MapsURL
	}
	return r.pool.QueryRow(ctx, `
        INSERT INTO stores (name, address, phone, latitude, longitude, maps_url)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, store.Name, store.Address, store.Phone, store.Latitude, store.Longitude, mapsURL).Scan(&store.ID)
}

func (r *StoreRepository) GetByID(ctx context.Context, id int64) (*models.Store, error) {
	store, err := scanStore(r.pool.QueryRow(ctx, `
        SELECT id, name, COALESCE(address, ''), COALESCE(phone, ''), latitude, longitude, COALESCE(maps_url, '')
        FROM stores
        WHERE id = $1
    `, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return store, nil
}

func (r *StoreRepository) ListAll(ctx context.Context) ([]models.Store, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, name, COALESCE(address, ''), COALESCE(phone, ''), latitude, longitude, COALESCE(maps_url, '')
        FROM stores
        ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *store)
	}
	return stores, rows.Err()
}

func scanStore(row pgx.Row) (*models.Store, error) {
	var s models.Store
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.Latitude, &s.Longitude, &s.MapsURL)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
