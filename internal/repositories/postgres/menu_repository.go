package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
)

type MenuRepository struct {
	pool *pgxpool.Pool
}

func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

func (r *MenuRepository) GetByDate(ctx context.Context, date string) (*models.DailyMenu, error) {
	var (
		menu    models.DailyMenu
		payload []byte
	)
	err := r.pool.QueryRow(ctx, `
        SELECT menu_date, items_json, COALESCE(generated_by, ''), created_at
        FROM daily_menus
        WHERE menu_date = $1
    `, date).Scan(&menu.MenuDate, &payload, &menu.GeneratedBy, &menu.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(payload, &menu.Items); err != nil {
		return nil, fmt.Errorf("%w: %s", repositories.ErrMalformedMenu, date)
	}
	return &menu, nil
}

func (r *MenuRepository) GetRange(ctx context.Context, dates []string) ([]models.DailyMenu, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT menu_date, items_json, COALESCE(generated_by, ''), created_at
        FROM daily_menus
        WHERE menu_date = ANY($1)
    `, dates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []models.DailyMenu
	for rows.Next() {
		var (
			menu    models.DailyMenu
			payload []byte
		)
		if err := rows.Scan(&menu.MenuDate, &payload, &menu.GeneratedBy, &menu.CreatedAt); err != nil {
			return nil, err
		}
		// An undecodable row contributes nothing to the recency window.
		if err := json.Unmarshal(payload, &menu.Items); err != nil {
			continue
		}
		menus = append(menus, menu)
	}
	return menus, rows.Err()
}

func (r *MenuRepository) Upsert(ctx context.Context, date string, items []models.MenuItem, generatedBy string) error {
	if items == nil {
		items = []models.MenuItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding menu items: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
        INSERT INTO daily_menus (menu_date, items_json, generated_by)
        VALUES ($1, $2, $3)
        ON CONFLICT (menu_date) DO UPDATE
        SET items_json = EXCLUDED.items_json,
            generated_by = EXCLUDED.generated_by,
            created_at = now()
    `, date, payload, generatedBy)
	return err
}

func (r *MenuRepository) ListAll(ctx context.Context) ([]models.DailyMenu, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT menu_date, items_json, COALESCE(generated_by, ''), created_at
        FROM daily_menus
        ORDER BY menu_date
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []models.DailyMenu
	for rows.Next() {
		var (
			menu    models.DailyMenu
			payload []byte
		)
		if err := rows.Scan(&menu.MenuDate, &payload, &menu.GeneratedBy, &menu.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &menu.Items); err != nil {
			continue
		}
		menus = append(menus, menu)
	}
	return menus, rows.Err()
}
