package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/smartzap/smartzap-events/internal/entity"
)

// MockInboundMessageStore
type MockInboundMessageStore struct {
	mock.Mock
}

func (m *MockInboundMessageStore) SaveInbound(ctx context.Context, msg *entity.InboundMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockContactTracker
type MockContactTracker struct {
	mock.Mock
}

func (m *MockContactTracker) TouchLastActive(ctx context.Context, instanceID, phone, name string) error {
	args := m.Called(ctx, instanceID, phone, name)
	return args.Error(0)
}

func TestHandleMessagePersistsAndTouchesContact(t *testing.T) {
	messages := new(MockInboundMessageStore)
	contacts := new(MockContactTracker)

	messages.On("SaveInbound", mock.Anything, mock.MatchedBy(func(m *entity.InboundMessage) bool {
		return m.WaMessageID == "wamid.in" &&
			m.InstanceID == "inst-1" &&
			m.FromPhone == "5511777777777" &&
			m.Body == "Oi" &&
			m.ID != ""
	})).Return(nil)
	contacts.On("TouchLastActive", mock.Anything, "inst-1", "5511777777777", "Maria").Return(nil)

	w := NewWorker(nil, messages, contacts)

	err := w.handleMessage(context.Background(), InboundMessagePayload{
		InstanceID:  "inst-1",
		WaMessageID: "wamid.in",
		From:        "5511777777777",
		ProfileName: "Maria",
		Type:        "text",
		Body:        "Oi",
		Timestamp:   "1735689600",
	})

	assert.NoError(t, err)
	messages.AssertExpectations(t)
	contacts.AssertExpectations(t)
}

// TestHandleMessageContactFailureIsNotFatal - mensagem salva vale ack,
// mesmo se o update do contato falhar
func TestHandleMessageContactFailureIsNotFatal(t *testing.T) {
	messages := new(MockInboundMessageStore)
	contacts := new(MockContactTracker)

	messages.On("SaveInbound", mock.Anything, mock.Anything).Return(nil)
	contacts.On("TouchLastActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	w := NewWorker(nil, messages, contacts)

	err := w.handleMessage(context.Background(), InboundMessagePayload{
		InstanceID:  "inst-1",
		WaMessageID: "wamid.in",
		From:        "5511777777777",
	})

	assert.NoError(t, err)
}

func TestHandleMessageStoreFailure(t *testing.T) {
	messages := new(MockInboundMessageStore)
	contacts := new(MockContactTracker)

	messages.On("SaveInbound", mock.Anything, mock.Anything).Return(assert.AnError)

	w := NewWorker(nil, messages, contacts)

	err := w.handleMessage(context.Background(), InboundMessagePayload{WaMessageID: "wamid.in"})

	assert.Error(t, err)
	contacts.AssertNotCalled(t, "TouchLastActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestParseTimestamp(t *testing.T) {
	ts := parseTimestamp("1735689600")
	assert.Equal(t, time.Unix(1735689600, 0), ts)

	// Timestamp ilegível cai pro relógio local.
	fallback := parseTimestamp("abc")
	assert.WithinDuration(t, time.Now(), fallback, 5*time.Second)
}
