package invoice

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/carsmotion/carsmotion/internal/reservation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// numberAttempts bounds the retry loop when drawing a free FACT number.
const numberAttempts = 25

// defaultPaymentTerm is added to the issue date when no due date is given.
const defaultPaymentTerm = 30 * 24 * time.Hour

// Store is the invoice persistence the service runs on.
type Store interface {
	Create(ctx context.Context, inv *Invoice) error
	Update(ctx context.Context, inv *Invoice) error
	FindByID(ctx context.Context, id string) (*Invoice, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	List(ctx context.Context, status Status, customerID string, offset, limit int) ([]Invoice, int64, error)
}

// Reservations resolves the reservation an invoice bills.
type Reservations interface {
	FindByID(ctx context.Context, id string) (*reservation.Reservation, error)
}

// Service issues invoices. An invoice usually bills a reservation, in
// which case its amounts are derived from it; a standalone invoice
// (ad-hoc sale, penalty, deposit retention) names the customer and the
// total directly instead.
type Service struct {
	store        Store
	reservations Reservations
	now          func() time.Time
	intn         func(n int) int
}

func NewService(store Store, reservations Reservations) *Service {
	return &Service{
		store:        store,
		reservations: reservations,
		now:          time.Now,
		intn:         rand.Intn,
	}
}

// CreateInput carries a new invoice. With a reservation reference the
// customer and amounts come from the reservation; without one the
// customer and total must be given (tax defaults to the rate applied to
// the total). Dates are optional: issue defaults to today and due to
// thirty days later.
type CreateInput struct {
	ReservationID string           `json:"reservationId"`
	CustomerID    string           `json:"customerId"`
	TotalAmount   *decimal.Decimal `json:"totalAmount"`
	TaxAmount     *decimal.Decimal `json:"taxAmount"`
	IssueDate     *time.Time       `json:"issueDate"`
	DueDate       *time.Time       `json:"dueDate"`
	Status        Status           `json:"status"`
	PaymentMethod string           `json:"paymentMethod"`
	Notes         string           `json:"notes"`
}

// UpdateInput carries a partial update; nil fields keep their stored
// value. Amounts are not editable: they follow the reservation.
type UpdateInput struct {
	IssueDate     *time.Time `json:"issueDate"`
	DueDate       *time.Time `json:"dueDate"`
	Status        *Status    `json:"status"`
	PaymentMethod *string    `json:"paymentMethod"`
	Notes         *string    `json:"notes"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Invoice, error) {
	if s == nil || s.store == nil || s.reservations == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	var (
		reservationID = strings.TrimSpace(in.ReservationID)
		customerID    = strings.TrimSpace(in.CustomerID)
		total         decimal.Decimal
	)
	if reservationID != "" {
		res, err := s.reservations.FindByID(ctx, reservationID)
		if err != nil {
			return nil, err
		}
		customerID = res.CustomerID
		total = res.TotalAmount
	} else {
		if customerID == "" {
			return nil, fmt.Errorf("customer required without a reservation")
		}
		if in.TotalAmount == nil {
			return nil, fmt.Errorf("total amount required without a reservation")
		}
		total = *in.TotalAmount
	}
	if total.IsNegative() {
		return nil, fmt.Errorf("total amount must not be negative")
	}

	tax := reservation.ComputeTax(total)
	if in.TaxAmount != nil {
		if in.TaxAmount.IsNegative() {
			return nil, fmt.Errorf("tax amount must not be negative")
		}
		tax = *in.TaxAmount
	}

	status := in.Status
	if status == "" {
		status = StatusUnpaid
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("unknown invoice status %q", status)
	}

	issue := s.now().UTC()
	if in.IssueDate != nil {
		issue = *in.IssueDate
	}
	due := issue.Add(defaultPaymentTerm)
	if in.DueDate != nil {
		due = *in.DueDate
	}
	if due.Before(issue) {
		return nil, fmt.Errorf("due date must not precede issue date")
	}

	number, err := s.nextNumber(ctx, issue.Year())
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		ID:            uuid.NewString(),
		Number:        number,
		ReservationID: reservationID,
		CustomerID:    customerID,
		IssueDate:     issue,
		DueDate:       due,
		TotalAmount:   total,
		TaxAmount:     tax,
		Status:        status,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Notes:         in.Notes,
	}
	if err := s.store.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// nextNumber draws FACT-YYYY-NNNN references until one is free. The
// numeric part is random, not sequential, so gaps say nothing about
// deleted documents.
func (s *Service) nextNumber(ctx context.Context, year int) (string, error) {
	for attempt := 0; attempt < numberAttempts; attempt++ {
		number := fmt.Sprintf("FACT-%d-%04d", year, s.intn(10000))
		exists, err := s.store.ExistsByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("no free invoice number after %d attempts", numberAttempts)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Invoice, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	inv, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	if in.IssueDate != nil {
		inv.IssueDate = *in.IssueDate
	}
	if in.DueDate != nil {
		inv.DueDate = *in.DueDate
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return nil, fmt.Errorf("due date must not precede issue date")
	}
	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			return nil, fmt.Errorf("unknown invoice status %q", *in.Status)
		}
		inv.Status = *in.Status
	}
	if in.PaymentMethod != nil {
		inv.PaymentMethod = strings.TrimSpace(*in.PaymentMethod)
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}

	if err := s.store.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Invoice, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.store.FindByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context, status Status, customerID string, offset, limit int) ([]Invoice, int64, error) {
	if s == nil || s.store == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.store.List(ctx, status, customerID, offset, limit)
}
