package postgres

import (
	"database/sql"

	"fleetrent-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.VehicleRepository
	repository.CartRepository
	repository.OrderRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		VehicleRepository: NewVehicleRepository(db),
		CartRepository:    NewCartRepository(db),
		OrderRepository:   NewOrderRepository(db),
	}
}
