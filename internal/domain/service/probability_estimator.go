package service

import (
	"github.com/shopspring/decimal"

	"github.com/turtacn/xpx/internal/domain/models"
)

var (
	probabilityBase     = decimal.RequireFromString("0.15")
	probabilityFloor    = decimal.RequireFromString("0.01")
	probabilityCeiling  = decimal.RequireFromString("0.95")
	highAmountIncrement = decimal.RequireFromString("0.20")
	lowTenureIncrement  = decimal.RequireFromString("0.25")
	weakRepayIncrement  = decimal.RequireFromString("0.25")
	weeklyPayIncrement  = decimal.RequireFromString("0.10")
)

// ProbabilityEstimator produces a deterministic stand-in for a model's
// probability of an adverse outcome. Increments are additive with no
// interaction terms, so the estimate never decreases as risk factors worsen.
type ProbabilityEstimator struct{}

// NewProbabilityEstimator creates a new ProbabilityEstimator.
func NewProbabilityEstimator() *ProbabilityEstimator {
	return &ProbabilityEstimator{}
}

// Estimate returns a probability in [0.01, 0.95]. Arithmetic is done in
// decimal so the same request always yields the same float.
func (p *ProbabilityEstimator) Estimate(adv models.SalaryAdvance) decimal.Decimal {
	prob := probabilityBase

	if adv.Amount.GreaterThanOrEqual(decimal.NewFromInt(highAmount)) {
		prob = prob.Add(highAmountIncrement)
	}
	if adv.TenureMonths < lowTenure {
		prob = prob.Add(lowTenureIncrement)
	}
	if adv.RepaymentHistoryScore < weakRepayment {
		prob = prob.Add(weakRepayIncrement)
	}
	if adv.PayFrequency == models.PayFrequencyWeekly {
		prob = prob.Add(weeklyPayIncrement)
	}

	return decimal.Max(probabilityFloor, decimal.Min(probabilityCeiling, prob))
}
