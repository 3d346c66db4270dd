package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ithomeportal/unilink-energy/internal/models"
	"github.com/ithomeportal/unilink-energy/internal/repository"
)

// ShipmentRepository reads orders from the McLeod budget report table.
type ShipmentRepository struct {
	db *DB
}

var _ repository.ShipmentRepository = (*ShipmentRepository)(nil)

func NewShipmentRepository(db *DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

func (r *ShipmentRepository) ListShipments(ctx context.Context, since time.Time) ([]models.ShipmentRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `
        SELECT order_date, origin_state, destination_state,
               origin_lat, origin_lon, dest_lat, dest_lon,
               COALESCE(miles, 0)::float8
        FROM mcleod_gld_budget_report_v4
        WHERE order_date >= $1
          AND origin_state IS NOT NULL
          AND destination_state IS NOT NULL
          AND origin_lat IS NOT NULL
          AND origin_lon IS NOT NULL
          AND dest_lat IS NOT NULL
          AND dest_lon IS NOT NULL
        ORDER BY order_date DESC
    `, since)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ShipmentRecord, error) {
		var s models.ShipmentRecord
		err := row.Scan(&s.OrderDate, &s.OriginState, &s.DestinationState,
			&s.OriginLat, &s.OriginLon, &s.DestLat, &s.DestLon, &s.Miles)
		return s, err
	})
}
