package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service covers the manual journal entries the operator records by hand
// (fuel, fines, office costs...). Generated entries come from Generator.
type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

// CreateInput carries a manual journal entry.
type CreateInput struct {
	Date        time.Time       `json:"date" validate:"required"`
	Type        Type            `json:"type" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	RelatedTo   string          `json:"relatedTo"`
}

// UpdateInput carries a partial update; nil fields keep their stored value.
type UpdateInput struct {
	Date        *time.Time       `json:"date"`
	Type        *Type            `json:"type"`
	Category    *string          `json:"category"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	RelatedTo   *string          `json:"relatedTo"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Transaction, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if !ValidType(in.Type) {
		return nil, fmt.Errorf("unknown transaction type %q", in.Type)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	t := &Transaction{
		ID:          uuid.NewString(),
		Date:        in.Date,
		Type:        in.Type,
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		RelatedTo:   strings.TrimSpace(in.RelatedTo),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Transaction, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	t, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	if in.Date != nil {
		t.Date = *in.Date
	}
	if in.Type != nil {
		if !ValidType(*in.Type) {
			return nil, fmt.Errorf("unknown transaction type %q", *in.Type)
		}
		t.Type = *in.Type
	}
	if in.Category != nil {
		t.Category = strings.TrimSpace(*in.Category)
	}
	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return nil, fmt.Errorf("amount must be positive")
		}
		t.Amount = *in.Amount
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.RelatedTo != nil {
		t.RelatedTo = strings.TrimSpace(*in.RelatedTo)
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.FindByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Transaction, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx, f)
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
