package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
)

func TestValidateComponents(t *testing.T) {
	assert.Error(t, validateComponents(nil))

	assert.Error(t, validateComponents([]models.FeeComponent{
		{Name: " ", Amount: money.FromRupees(100)},
	}))

	assert.Error(t, validateComponents([]models.FeeComponent{
		{Name: "Tuition", Amount: money.FromRupees(-100)},
	}))

	assert.NoError(t, validateComponents([]models.FeeComponent{
		{Name: "Tuition", Amount: money.FromRupees(20000)},
		{Name: "Transport", Amount: money.FromRupees(5000)},
	}))
}

func TestComponentSumIsServerTruth(t *testing.T) {
	fs := &models.FeeStructure{
		Components: []models.FeeComponent{
			{Name: "Tuition", Amount: money.FromRupees(20000)},
			{Name: "Transport", Amount: money.FromRupees(4000)},
			{Name: "Library", Amount: money.FromRupees(1000)},
		},
		// a client-sent total is never trusted
		Total: money.FromRupees(1),
	}

	assert.Equal(t, money.FromRupees(25000), fs.ComponentSum())
}
