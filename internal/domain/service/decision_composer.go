package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/turtacn/xpx/internal/domain/models"
)

const (
	amberThreshold = 35
	redThreshold   = 65
)

var (
	ruleWeight        = decimal.RequireFromString("0.6")
	probabilityWeight = decimal.RequireFromString("0.4")
	hundred           = decimal.NewFromInt(100)
)

// DecisionComposer blends the rule score with an optional probability and
// maps the final score to a band, an action and the policy citation.
type DecisionComposer struct{}

// NewDecisionComposer creates a new DecisionComposer.
func NewDecisionComposer() *DecisionComposer {
	return &DecisionComposer{}
}

// Blend returns the final 0-100 score. A nil probability means rules only.
// Both roundings are half away from zero.
func (c *DecisionComposer) Blend(ruleScore int, probability *decimal.Decimal) int {
	if probability == nil {
		return ruleScore
	}
	probScore := probability.Mul(hundred).Round(0)
	blended := decimal.NewFromInt(int64(ruleScore)).Mul(ruleWeight).
		Add(probScore.Mul(probabilityWeight)).
		Round(0)
	return int(blended.IntPart())
}

// Compose builds the explained decision. It panics when the final score
// leaves [0,100]; inputs from the rule engine and estimator cannot do that.
func (c *DecisionComposer) Compose(requestID string, mode models.Mode, rules RuleOutput, probability *decimal.Decimal) models.ScoringResult {
	final := c.Blend(rules.Score, probability)
	band, action := BandFor(final)

	drivers := make([]models.Driver, len(rules.Drivers))
	copy(drivers, rules.Drivers)

	result := models.ScoringResult{
		RequestID:         requestID,
		Mode:              mode,
		RiskScore:         final,
		RiskBand:          band,
		TopDrivers:        drivers,
		RecommendedAction: action,
		PolicyCitation:    models.PolicyCitation,
	}
	if probability != nil {
		ml := probability.InexactFloat64()
		result.MLScore = &ml
	}
	return result
}

// BandFor maps a final score to its band and action. Thresholds are
// upper-exclusive: 35 is Amber and 65 is Red.
func BandFor(score int) (models.RiskBand, string) {
	if score < minRiskScore || score > maxRiskScore {
		panic(fmt.Sprintf("risk score %d outside [%d,%d]", score, minRiskScore, maxRiskScore))
	}
	switch {
	case score < amberThreshold:
		return models.RiskBandGreen, models.ActionApprove
	case score < redThreshold:
		return models.RiskBandAmber, models.ActionManualReview
	default:
		return models.RiskBandRed, models.ActionDeclineEscalate
	}
}

// BandRange is one row of the banding table. Lower and Upper are inclusive.
type BandRange struct {
	Band   models.RiskBand
	Lower  int
	Upper  int
	Action string
}

// Bands returns the banding table in ascending score order.
func Bands() []BandRange {
	return []BandRange{
		{Band: models.RiskBandGreen, Lower: minRiskScore, Upper: amberThreshold - 1, Action: models.ActionApprove},
		{Band: models.RiskBandAmber, Lower: amberThreshold, Upper: redThreshold - 1, Action: models.ActionManualReview},
		{Band: models.RiskBandRed, Lower: redThreshold, Upper: maxRiskScore, Action: models.ActionDeclineEscalate},
	}
}
