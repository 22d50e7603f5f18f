package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Licence validation errors, surfaced inline next to the offending field.
var (
	ErrLicenseWindow  = errors.New("licence issue date must precede expiry date")
	ErrLicenseExpired = errors.New("licence expiry date must be in the future")
)

type Service struct {
	repo *Repo
	now  func() time.Time
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateInput carries the fields of a new customer.
type CreateInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`

	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`

	LicenseNumber     string     `json:"licenseNumber"`
	LicenseIssueDate  *time.Time `json:"licenseIssueDate"`
	LicenseExpiryDate *time.Time `json:"licenseExpiryDate"`

	DepositType      DepositType     `json:"depositType"`
	DepositAmount    decimal.Decimal `json:"depositAmount"`
	DepositReference string          `json:"depositReference"`

	Notes string `json:"notes"`
}

// UpdateInput carries a partial update; nil fields keep their stored value.
type UpdateInput struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`

	LicenseNumber     *string    `json:"licenseNumber"`
	LicenseIssueDate  *time.Time `json:"licenseIssueDate"`
	LicenseExpiryDate *time.Time `json:"licenseExpiryDate"`

	DepositType      *DepositType     `json:"depositType"`
	DepositAmount    *decimal.Decimal `json:"depositAmount"`
	DepositReference *string          `json:"depositReference"`

	Notes *string `json:"notes"`
}

func (s *Service) checkLicenseWindow(issue, expiry *time.Time) error {
	if issue == nil || expiry == nil {
		return nil
	}
	if !issue.Before(*expiry) {
		return ErrLicenseWindow
	}
	if !expiry.After(s.now()) {
		return ErrLicenseExpired
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Customer, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if !ValidDepositType(in.DepositType) {
		return nil, fmt.Errorf("unknown deposit type %q", in.DepositType)
	}
	if err := s.checkLicenseWindow(in.LicenseIssueDate, in.LicenseExpiryDate); err != nil {
		return nil, err
	}

	c := &Customer{
		ID:                uuid.NewString(),
		FirstName:         strings.TrimSpace(in.FirstName),
		LastName:          strings.TrimSpace(in.LastName),
		Email:             strings.TrimSpace(in.Email),
		Phone:             strings.TrimSpace(in.Phone),
		Address:           strings.TrimSpace(in.Address),
		City:              strings.TrimSpace(in.City),
		PostalCode:        strings.TrimSpace(in.PostalCode),
		Country:           strings.TrimSpace(in.Country),
		LicenseNumber:     strings.TrimSpace(in.LicenseNumber),
		LicenseIssueDate:  in.LicenseIssueDate,
		LicenseExpiryDate: in.LicenseExpiryDate,
		DepositType:       in.DepositType,
		DepositAmount:     in.DepositAmount,
		DepositReference:  strings.TrimSpace(in.DepositReference),
		Notes:             in.Notes,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Customer, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	c, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		c.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		c.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		c.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		c.Address = strings.TrimSpace(*in.Address)
	}
	if in.City != nil {
		c.City = strings.TrimSpace(*in.City)
	}
	if in.PostalCode != nil {
		c.PostalCode = strings.TrimSpace(*in.PostalCode)
	}
	if in.Country != nil {
		c.Country = strings.TrimSpace(*in.Country)
	}
	if in.LicenseNumber != nil {
		c.LicenseNumber = strings.TrimSpace(*in.LicenseNumber)
	}
	if in.LicenseIssueDate != nil {
		c.LicenseIssueDate = in.LicenseIssueDate
	}
	if in.LicenseExpiryDate != nil {
		c.LicenseExpiryDate = in.LicenseExpiryDate
	}
	if err := s.checkLicenseWindow(c.LicenseIssueDate, c.LicenseExpiryDate); err != nil {
		return nil, err
	}
	if in.DepositType != nil {
		if !ValidDepositType(*in.DepositType) {
			return nil, fmt.Errorf("unknown deposit type %q", *in.DepositType)
		}
		c.DepositType = *in.DepositType
	}
	if in.DepositAmount != nil {
		c.DepositAmount = *in.DepositAmount
	}
	if in.DepositReference != nil {
		c.DepositReference = strings.TrimSpace(*in.DepositReference)
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Customer, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.FindByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context, search string, offset, limit int) ([]Customer, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx, strings.TrimSpace(search), offset, limit)
}
