package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestClassifyUnknownCode - código fora da tabela nunca explode
func TestClassifyUnknownCode(t *testing.T) {
	cls := ClassifyError(999999)

	assert.Equal(t, "unknown", cls.Category)
	assert.Equal(t, SeverityError, cls.Severity)
	assert.NotEmpty(t, cls.UserMessage)
	assert.Contains(t, cls.UserMessage, "999999")
}

func TestClassifyPaymentError(t *testing.T) {
	cls := ClassifyError(131042)

	assert.Equal(t, "payment", cls.Category)
	assert.Equal(t, SeverityCritical, cls.Severity)
}

func TestIsCriticalError(t *testing.T) {
	critical := []int{0, 190, 368, 131031, 131042, 131045, 133010, 131048}
	for _, code := range critical {
		assert.True(t, IsCriticalError(code), "code %d deveria ser crítico", code)
	}

	notCritical := []int{100, 131026, 131047, 131050, 131052, 999999}
	for _, code := range notCritical {
		assert.False(t, IsCriticalError(code), "code %d não deveria ser crítico", code)
	}
}

func TestIsOptOutError(t *testing.T) {
	assert.True(t, IsOptOutError(131050))

	assert.False(t, IsOptOutError(131026))
	assert.False(t, IsOptOutError(131042))
	assert.False(t, IsOptOutError(999999))
}

func TestClassifyRateLimitWarning(t *testing.T) {
	cls := ClassifyError(80007)

	assert.Equal(t, "rate_limit", cls.Category)
	assert.Equal(t, SeverityWarning, cls.Severity)
}
