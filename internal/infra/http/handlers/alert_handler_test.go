package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/smartzap/smartzap-events/internal/entity"
)

// MockAlertRepository
type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *entity.AccountAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) ListActive(ctx context.Context, instanceID string) ([]entity.AccountAlert, error) {
	args := m.Called(ctx, instanceID)
	return args.Get(0).([]entity.AccountAlert), args.Error(1)
}

func (m *MockAlertRepository) Dismiss(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAlertRepository) DismissAll(ctx context.Context, instanceID string) error {
	args := m.Called(ctx, instanceID)
	return args.Error(0)
}

func (m *MockAlertRepository) DismissByType(ctx context.Context, instanceID, alertType string) error {
	args := m.Called(ctx, instanceID, alertType)
	return args.Error(0)
}

func TestAlertHandleList(t *testing.T) {
	repo := new(MockAlertRepository)
	repo.On("ListActive", mock.Anything, "inst-1").Return([]entity.AccountAlert{
		{ID: "alert_131042_inst-1_1", Type: "payment", Code: 131042, Message: "Problema de pagamento", CreatedAt: time.Now()},
	}, nil)

	h := NewAlertHandler(repo)

	req := httptest.NewRequest("GET", "/account/alerts?instanceId=inst-1", nil)
	rec := httptest.NewRecorder()

	h.HandleList(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Alerts []entity.AccountAlert `json:"alerts"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Alerts, 1)
	assert.Equal(t, "payment", body.Alerts[0].Type)
}

// TestAlertHandleListError - erro de banco não quebra o dashboard
func TestAlertHandleListError(t *testing.T) {
	repo := new(MockAlertRepository)
	repo.On("ListActive", mock.Anything, "").Return([]entity.AccountAlert(nil), assert.AnError)

	h := NewAlertHandler(repo)

	req := httptest.NewRequest("GET", "/account/alerts", nil)
	rec := httptest.NewRecorder()

	h.HandleList(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"alerts":[]}`, rec.Body.String())
}

func TestAlertHandleCreate(t *testing.T) {
	repo := new(MockAlertRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.AccountAlert) bool {
		return a.Type == "policy" && a.Message == "Conta sob revisão" && strings.HasPrefix(a.ID, "alert_")
	})).Return(nil)

	h := NewAlertHandler(repo)

	body := `{"type": "policy", "message": "Conta sob revisão", "instanceId": "inst-1"}`
	req := httptest.NewRequest("POST", "/account/alerts", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleCreate(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAlertHandleCreateMissingFields(t *testing.T) {
	h := NewAlertHandler(new(MockAlertRepository))

	body := `{"type": "policy"}`
	req := httptest.NewRequest("POST", "/account/alerts", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleCreate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "obrigatórios")
}

func TestAlertHandleDismissOne(t *testing.T) {
	repo := new(MockAlertRepository)
	repo.On("Dismiss", mock.Anything, "alert_x").Return(nil)

	h := NewAlertHandler(repo)

	req := httptest.NewRequest("DELETE", "/account/alerts?id=alert_x", nil)
	rec := httptest.NewRecorder()

	h.HandleDismiss(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertCalled(t, "Dismiss", mock.Anything, "alert_x")
}

func TestAlertHandleDismissAll(t *testing.T) {
	repo := new(MockAlertRepository)
	repo.On("DismissAll", mock.Anything, "inst-1").Return(nil)

	h := NewAlertHandler(repo)

	req := httptest.NewRequest("DELETE", "/account/alerts?all=true&instanceId=inst-1", nil)
	rec := httptest.NewRecorder()

	h.HandleDismiss(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertCalled(t, "DismissAll", mock.Anything, "inst-1")
}

func TestAlertHandleDismissMissingID(t *testing.T) {
	h := NewAlertHandler(new(MockAlertRepository))

	req := httptest.NewRequest("DELETE", "/account/alerts", nil)
	rec := httptest.NewRecorder()

	h.HandleDismiss(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
