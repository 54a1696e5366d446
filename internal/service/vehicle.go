package service

import (
	"context"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"
)

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
}

func NewVehicleService(vehicleRepo repository.VehicleRepository) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo}
}

func (s *vehicleService) AddVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	if vehicle.Status == "" {
		vehicle.Status = domain.VehicleStatusActive
	}
	return s.vehicleRepo.Create(ctx, vehicle)
}

func (s *vehicleService) GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	return s.vehicleRepo.Update(ctx, vehicle)
}

func (s *vehicleService) ListVehicles(ctx context.Context, status string, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	return s.vehicleRepo.List(ctx, status, page, pageSize)
}
