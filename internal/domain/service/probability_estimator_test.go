package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/turtacn/xpx/internal/domain/models"
	"github.com/turtacn/xpx/internal/domain/service"
)

func TestProbabilityEstimator_Increments(t *testing.T) {
	estimator := service.NewProbabilityEstimator()

	tests := []struct {
		name     string
		adv      models.SalaryAdvance
		expected string
	}{
		{"base only", advance(500, 24, 720, models.PayFrequencyMonthly), "0.15"},
		{"high amount", advance(2000, 24, 720, models.PayFrequencyMonthly), "0.35"},
		{"low tenure", advance(500, 2, 720, models.PayFrequencyMonthly), "0.4"},
		{"weak repayment", advance(500, 24, 579, models.PayFrequencyMonthly), "0.4"},
		{"weekly pay", advance(500, 24, 720, models.PayFrequencyWeekly), "0.25"},
		{"biweekly adds nothing", advance(500, 24, 720, models.PayFrequencyBiweekly), "0.15"},
		{"all factors hit the ceiling", advance(3000, 1, 550, models.PayFrequencyWeekly), "0.95"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := estimator.Estimate(tt.adv)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got),
				"expected %s, got %s", tt.expected, got.String())
		})
	}
}

func TestProbabilityEstimator_Bounds(t *testing.T) {
	estimator := service.NewProbabilityEstimator()
	floor := decimal.RequireFromString("0.01")
	ceiling := decimal.RequireFromString("0.95")

	for _, amount := range []int64{1, 1999, 2000, 5000} {
		for _, tenure := range []int{0, 3, 240} {
			for _, repayment := range []int{300, 580, 900} {
				for _, freq := range []models.PayFrequency{models.PayFrequencyWeekly, models.PayFrequencyMonthly} {
					p := estimator.Estimate(advance(amount, tenure, repayment, freq))
					assert.True(t, p.GreaterThanOrEqual(floor))
					assert.True(t, p.LessThanOrEqual(ceiling))
				}
			}
		}
	}
}

func TestProbabilityEstimator_Monotonic(t *testing.T) {
	estimator := service.NewProbabilityEstimator()

	prev := decimal.Zero
	for amount := int64(1); amount <= 5000; amount += 11 {
		p := estimator.Estimate(advance(amount, 6, 600, models.PayFrequencyMonthly))
		assert.True(t, p.GreaterThanOrEqual(prev), "amount %d", amount)
		prev = p
	}

	prev = decimal.Zero
	for tenure := 240; tenure >= 0; tenure-- {
		p := estimator.Estimate(advance(500, tenure, 600, models.PayFrequencyMonthly))
		assert.True(t, p.GreaterThanOrEqual(prev), "tenure %d", tenure)
		prev = p
	}

	prev = decimal.Zero
	for repayment := 900; repayment >= 300; repayment-- {
		p := estimator.Estimate(advance(500, 24, repayment, models.PayFrequencyMonthly))
		assert.True(t, p.GreaterThanOrEqual(prev), "repayment %d", repayment)
		prev = p
	}

	monthly := estimator.Estimate(advance(500, 24, 720, models.PayFrequencyMonthly))
	weekly := estimator.Estimate(advance(500, 24, 720, models.PayFrequencyWeekly))
	assert.True(t, weekly.GreaterThanOrEqual(monthly))
}
