package service

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/turtacn/xpx/internal/domain/models"
)

const (
	ruleBaseline   = 10
	maxTopDrivers  = 3
	minRiskScore   = 0
	maxRiskScore   = 100
	highAmount     = 2000
	moderateAmount = 1000
	lowTenure      = 3
	shortTenure    = 12
	weakRepayment  = 580
	avgRepayment   = 650
)

// RuleOutput is the rule engine's base score and its explanation.
type RuleOutput struct {
	Score   int
	Drivers []models.Driver
}

// RuleEngine is a domain service that scores a salary advance with fixed
// additive penalties. It holds no state and is safe for concurrent use.
type RuleEngine struct{}

// NewRuleEngine creates a new RuleEngine instance.
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

// Score starts from the baseline and adds one penalty per factor, evaluated in
// the order amount, tenure, repayment history, pay frequency. Drivers are
// ranked by impact with ties kept in evaluation order.
func (e *RuleEngine) Score(adv models.SalaryAdvance) RuleOutput {
	score := ruleBaseline
	drivers := make([]models.Driver, 0, 4)

	add := func(delta int, name string, impact int) {
		score += delta
		drivers = append(drivers, models.Driver{Name: name, Impact: impact})
	}

	// Rule: requested amount.
	switch {
	case adv.Amount.GreaterThanOrEqual(decimal.NewFromInt(highAmount)):
		add(25, "High requested amount", 30)
	case adv.Amount.GreaterThanOrEqual(decimal.NewFromInt(moderateAmount)):
		add(15, "Moderate requested amount", 20)
	}

	// Rule: employment tenure.
	switch {
	case adv.TenureMonths < lowTenure:
		add(25, "Low tenure (<3 months)", 30)
	case adv.TenureMonths < shortTenure:
		add(12, "Low tenure (<12 months)", 15)
	}

	// Rule: repayment history.
	switch {
	case adv.RepaymentHistoryScore < weakRepayment:
		add(25, "Weaker repayment history score", 30)
	case adv.RepaymentHistoryScore < avgRepayment:
		add(12, "Average repayment history score", 15)
	}

	// Rule: pay cycle variability.
	if adv.PayFrequency.IsHighFrequency() {
		add(8, "Higher pay frequency variability", 10)
	}

	score = clampScore(score)

	slices.SortStableFunc(drivers, func(a, b models.Driver) int {
		return b.Impact - a.Impact
	})
	if len(drivers) > maxTopDrivers {
		drivers = drivers[:maxTopDrivers]
	}

	return RuleOutput{
		Score:   score,
		Drivers: drivers,
	}
}

func clampScore(score int) int {
	return max(minRiskScore, min(maxRiskScore, score))
}
