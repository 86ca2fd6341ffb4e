package service

import (
	"github.com/shopspring/decimal"

	"github.com/turtacn/xpx/internal/domain/models"
)

// RuleScorer produces the base score and drivers for an advance.
type RuleScorer interface {
	Score(adv models.SalaryAdvance) RuleOutput
}

// Estimator produces the synthetic probability of an adverse outcome.
type Estimator interface {
	Estimate(adv models.SalaryAdvance) decimal.Decimal
}

// Scorer chains the rule engine, the estimator and the composer. It is a
// pure function of its arguments: identical input yields identical output.
type Scorer struct {
	rules     RuleScorer
	estimator Estimator
	composer  *DecisionComposer
}

// NewScorer wires the three stateless components together.
func NewScorer(rules RuleScorer, estimator Estimator, composer *DecisionComposer) *Scorer {
	return &Scorer{
		rules:     rules,
		estimator: estimator,
		composer:  composer,
	}
}

// NewDefaultScorer returns a Scorer built from the canonical components.
func NewDefaultScorer() *Scorer {
	return NewScorer(NewRuleEngine(), NewProbabilityEstimator(), NewDecisionComposer())
}

// Evaluate scores a validated advance. The estimator only runs in
// ML_PLUS_RULES mode.
func (s *Scorer) Evaluate(requestID string, adv models.SalaryAdvance, mode models.Mode) models.ScoringResult {
	ruleOut := s.rules.Score(adv)

	var probability *decimal.Decimal
	if mode.UsesEstimator() {
		p := s.estimator.Estimate(adv)
		probability = &p
	}

	return s.composer.Compose(requestID, mode, ruleOut, probability)
}
