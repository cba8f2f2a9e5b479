package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/smartzap/smartzap-events/internal/entity"
)

func TestCreateAlertManual(t *testing.T) {
	repo := new(MockAlertRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.AccountAlert) bool {
		return a.Type == "policy" && a.Code == 368 && strings.HasPrefix(a.ID, "alert_368_")
	})).Return(nil)

	uc := NewCreateAlertUseCase(repo)

	alert, err := uc.Execute(context.Background(), CreateAlertInput{
		InstanceID: "inst-1",
		Type:       "policy",
		Code:       368,
		Message:    "Conta temporariamente bloqueada",
	})

	assert.NoError(t, err)
	assert.NotNil(t, alert)
	repo.AssertExpectations(t)
}

func TestCreateAlertMissingFields(t *testing.T) {
	uc := NewCreateAlertUseCase(new(MockAlertRepository))

	_, err := uc.Execute(context.Background(), CreateAlertInput{Type: "policy"})

	assert.Error(t, err)
	assert.True(t, IsDomainError(err))

	_, err = uc.Execute(context.Background(), CreateAlertInput{Message: "sem tipo"})

	assert.Error(t, err)
	assert.True(t, IsDomainError(err))
}

func TestCreateAlertRepositoryFailure(t *testing.T) {
	repo := new(MockAlertRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	uc := NewCreateAlertUseCase(repo)

	_, err := uc.Execute(context.Background(), CreateAlertInput{Type: "policy", Message: "x"})

	assert.Error(t, err)
	assert.True(t, IsTechnicalError(err))
}
