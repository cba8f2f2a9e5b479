package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/smartzap/smartzap-events/internal/entity"
	"github.com/smartzap/smartzap-events/internal/usecase"
)

// MockSettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// MockInstanceRepository
type MockInstanceRepository struct {
	mock.Mock
}

func (m *MockInstanceRepository) FindByPhoneNumberID(ctx context.Context, phoneNumberID string) (*entity.Instance, error) {
	args := m.Called(ctx, phoneNumberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Instance), args.Error(1)
}

func (m *MockInstanceRepository) FindByID(ctx context.Context, id string) (*entity.Instance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Instance), args.Error(1)
}

func (m *MockInstanceRepository) List(ctx context.Context) ([]entity.Instance, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Instance), args.Error(1)
}

// MockLedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindByMessageID(ctx context.Context, messageID string) (*entity.CampaignMessage, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CampaignMessage), args.Error(1)
}

func (m *MockLedgerRepository) ApplyTransition(ctx context.Context, campaignID, phone string, next entity.DeliveryStatus, at time.Time, failure *entity.FailureInfo) (bool, error) {
	args := m.Called(ctx, campaignID, phone, next, at, failure)
	return args.Bool(0), args.Error(1)
}

func newWebhookHandler(settings *MockSettingsRepository, instances *MockInstanceRepository, ledger *MockLedgerRepository) *WebhookHandler {
	uc := usecase.NewProcessWebhookUseCase(instances, ledger, nil, nil, nil, nil, nil)
	return NewWebhookHandler(uc, settings)
}

func TestHandleVerifySuccess(t *testing.T) {
	settings := new(MockSettingsRepository)
	settings.On("Get", mock.Anything, "webhook_verify_token").Return("meu-token", nil)

	h := newWebhookHandler(settings, nil, nil)

	req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=meu-token&hub.challenge=desafio-123", nil)
	rec := httptest.NewRecorder()

	h.HandleVerify(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "desafio-123", rec.Body.String())
}

func TestHandleVerifyWrongToken(t *testing.T) {
	settings := new(MockSettingsRepository)
	settings.On("Get", mock.Anything, "webhook_verify_token").Return("meu-token", nil)

	h := newWebhookHandler(settings, nil, nil)

	req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=errado&hub.challenge=desafio-123", nil)
	rec := httptest.NewRecorder()

	h.HandleVerify(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleVerifyGeneratesTokenOnFirstUse(t *testing.T) {
	settings := new(MockSettingsRepository)
	settings.On("Get", mock.Anything, "webhook_verify_token").Return("", nil)
	settings.On("Set", mock.Anything, "webhook_verify_token", mock.Anything).Return(nil)

	h := newWebhookHandler(settings, nil, nil)

	// Token recém-gerado não bate com o enviado: 403, mas o token foi salvo.
	req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=qualquer&hub.challenge=x", nil)
	rec := httptest.NewRecorder()

	h.HandleVerify(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	settings.AssertCalled(t, "Set", mock.Anything, "webhook_verify_token", mock.Anything)
}

// TestHandleEventsIgnoredObject - object "page" responde 200 ignored
func TestHandleEventsIgnoredObject(t *testing.T) {
	h := newWebhookHandler(new(MockSettingsRepository), nil, nil)

	body := `{"object": "page", "entry": []}`
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleEvents(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ignored"}`, rec.Body.String())
}

func TestHandleEventsBadJSON(t *testing.T) {
	h := newWebhookHandler(new(MockSettingsRepository), nil, nil)

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()

	h.HandleEvents(rec, req)

	// Fail-open: nunca devolve erro pra Meta.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ignored"}`, rec.Body.String())
}

// TestHandleEventsUnknownMessage - wamid fora das campanhas: 200 ok, sem mutação
func TestHandleEventsUnknownMessage(t *testing.T) {
	instances := new(MockInstanceRepository)
	ledger := new(MockLedgerRepository)

	instances.On("FindByPhoneNumberID", mock.Anything, "phone-1").Return(nil, nil)
	ledger.On("FindByMessageID", mock.Anything, "wamid.ghost").Return(nil, nil)

	h := newWebhookHandler(new(MockSettingsRepository), instances, ledger)

	body := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"changes": [{
				"value": {
					"metadata": {"phone_number_id": "phone-1"},
					"statuses": [{"id": "wamid.ghost", "status": "delivered"}]
				}
			}]
		}]
	}`
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleEvents(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	ledger.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
