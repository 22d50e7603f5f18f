package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// failingStore simulates a broken persistence layer under the service.
type failingStore struct {
	*memStore
}

func (f *failingStore) Create(context.Context, *Reservation) error {
	return fmt.Errorf("driver: bad connection")
}

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return resp.Error
}

func TestCreateStoreFailureReturns500(t *testing.T) {
	f := newFixture(t)
	f.svc.store = &failingStore{memStore: f.store}
	r := newTestRouter(f.svc)

	w := doJSON(t, r, http.MethodPost, "/api/v1/reservations", map[string]any{
		"vehicleId":  "veh-1",
		"customerId": "cust-1",
		"startDate":  "2024-03-14T00:00:00Z",
		"endDate":    "2024-03-16T00:00:00Z",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d (%s)", w.Code, w.Body.String())
	}
	// The driver detail must not leak to the client.
	if got := errorBody(t, w); got != "failed to save reservation" {
		t.Fatalf("expected generic error message, got %q", got)
	}
}

func TestCreateUnknownStatusReturns400(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f.svc)

	w := doJSON(t, r, http.MethodPost, "/api/v1/reservations", map[string]any{
		"vehicleId":  "veh-1",
		"customerId": "cust-1",
		"startDate":  "2024-03-14T00:00:00Z",
		"endDate":    "2024-03-16T00:00:00Z",
		"status":     "parked",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestUpdateBadTransitionReturns400(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f.svc)

	res, err := f.svc.Create(context.Background(), CreateInput{
		VehicleID: "veh-1", CustomerID: "cust-1",
		StartDate: day(2024, 3, 14), EndDate: day(2024, 3, 16),
		Status: StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	completed := StatusCompleted
	if _, err := f.svc.Update(context.Background(), res.ID, UpdateInput{Status: &completed}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	w := doJSON(t, r, http.MethodPut, "/api/v1/reservations/"+res.ID, map[string]any{
		"status": "pending",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestCreateOverlapReturns409(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f.svc)

	if _, err := f.svc.Create(context.Background(), CreateInput{
		VehicleID: "veh-1", CustomerID: "cust-1",
		StartDate: day(2024, 3, 10), EndDate: day(2024, 3, 15),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/reservations", map[string]any{
		"vehicleId":  "veh-1",
		"customerId": "cust-1",
		"startDate":  "2024-03-15T00:00:00Z",
		"endDate":    "2024-03-20T00:00:00Z",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%s)", w.Code, w.Body.String())
	}
}
