package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDuplicatePlate is returned when another vehicle already carries the plate.
var ErrDuplicatePlate = errors.New("license plate already registered")

// Service holds the fleet use cases, independent of the HTTP layer.
type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields of a new vehicle.
type CreateInput struct {
	Make                string          `json:"make" validate:"required"`
	Model               string          `json:"model" validate:"required"`
	Year                int             `json:"year" validate:"required,gte=1950"`
	LicensePlate        string          `json:"licensePlate" validate:"required"`
	FuelType            string          `json:"fuelType"`
	Mileage             int             `json:"mileage" validate:"gte=0"`
	PurchaseType        string          `json:"purchaseType"`
	PurchasePrice       decimal.Decimal `json:"purchasePrice"`
	MonthlyPayment      decimal.Decimal `json:"monthlyPayment"`
	ContractDuration    int             `json:"contractDuration"`
	InsuranceMonthlyFee decimal.Decimal `json:"insuranceMonthlyFee"`
	DailyRate           decimal.Decimal `json:"dailyRate"`
	Status              Status          `json:"status"`
	Notes               string          `json:"notes"`
}

// UpdateInput carries a partial update; nil fields keep their stored value.
type UpdateInput struct {
	Make                *string          `json:"make"`
	Model               *string          `json:"model"`
	Year                *int             `json:"year"`
	LicensePlate        *string          `json:"licensePlate"`
	FuelType            *string          `json:"fuelType"`
	Mileage             *int             `json:"mileage"`
	PurchaseType        *string          `json:"purchaseType"`
	PurchasePrice       *decimal.Decimal `json:"purchasePrice"`
	MonthlyPayment      *decimal.Decimal `json:"monthlyPayment"`
	ContractDuration    *int             `json:"contractDuration"`
	InsuranceMonthlyFee *decimal.Decimal `json:"insuranceMonthlyFee"`
	DailyRate           *decimal.Decimal `json:"dailyRate"`
	Status              *Status          `json:"status"`
	Notes               *string          `json:"notes"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	plate := strings.ToUpper(strings.TrimSpace(in.LicensePlate))
	if plate == "" {
		return nil, fmt.Errorf("license plate required")
	}
	dup, err := s.repo.ExistsByPlate(ctx, plate, "")
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicatePlate
	}

	status := in.Status
	if status == "" {
		status = StatusAvailable
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("unknown vehicle status %q", status)
	}

	v := &Vehicle{
		ID:                  uuid.NewString(),
		Make:                strings.TrimSpace(in.Make),
		Model:               strings.TrimSpace(in.Model),
		Year:                in.Year,
		LicensePlate:        plate,
		FuelType:            strings.TrimSpace(in.FuelType),
		Mileage:             in.Mileage,
		PurchaseType:        strings.TrimSpace(in.PurchaseType),
		PurchasePrice:       in.PurchasePrice,
		MonthlyPayment:      in.MonthlyPayment,
		ContractDuration:    in.ContractDuration,
		InsuranceMonthlyFee: in.InsuranceMonthlyFee,
		DailyRate:           in.DailyRate,
		Status:              status,
		Notes:               in.Notes,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.LicensePlate != nil {
		plate := strings.ToUpper(strings.TrimSpace(*in.LicensePlate))
		dup, err := s.repo.ExistsByPlate(ctx, plate, id)
		if err != nil {
			return nil, err
		}
		if dup {
			return nil, ErrDuplicatePlate
		}
		v.LicensePlate = plate
	}
	if in.Make != nil {
		v.Make = strings.TrimSpace(*in.Make)
	}
	if in.Model != nil {
		v.Model = strings.TrimSpace(*in.Model)
	}
	if in.Year != nil {
		v.Year = *in.Year
	}
	if in.FuelType != nil {
		v.FuelType = strings.TrimSpace(*in.FuelType)
	}
	if in.Mileage != nil {
		v.Mileage = *in.Mileage
	}
	if in.PurchaseType != nil {
		v.PurchaseType = strings.TrimSpace(*in.PurchaseType)
	}
	if in.PurchasePrice != nil {
		v.PurchasePrice = *in.PurchasePrice
	}
	if in.MonthlyPayment != nil {
		v.MonthlyPayment = *in.MonthlyPayment
	}
	if in.ContractDuration != nil {
		v.ContractDuration = *in.ContractDuration
	}
	if in.InsuranceMonthlyFee != nil {
		v.InsuranceMonthlyFee = *in.InsuranceMonthlyFee
	}
	if in.DailyRate != nil {
		v.DailyRate = *in.DailyRate
	}
	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			return nil, fmt.Errorf("unknown vehicle status %q", *in.Status)
		}
		v.Status = *in.Status
	}
	if in.Notes != nil {
		v.Notes = *in.Notes
	}

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.FindByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context, status Status, offset, limit int) ([]Vehicle, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx, status, offset, limit)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("service not initialized")
	}
	ok, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
