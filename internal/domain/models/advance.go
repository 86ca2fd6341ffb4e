package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PayFrequency is the employee's pay cycle.
type PayFrequency string

const (
	PayFrequencyWeekly   PayFrequency = "weekly"
	PayFrequencyBiweekly PayFrequency = "biweekly"
	PayFrequencyMonthly  PayFrequency = "monthly"
)

// ParsePayFrequency normalises free text such as "Bi-Weekly" or "fortnightly"
// onto one of the three known cycles.
func ParsePayFrequency(s string) (PayFrequency, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)

	switch norm {
	case "weekly", "week":
		return PayFrequencyWeekly, nil
	case "biweekly", "fortnightly", "everytwoweeks":
		return PayFrequencyBiweekly, nil
	case "monthly", "month":
		return PayFrequencyMonthly, nil
	default:
		return "", fmt.Errorf("unknown pay frequency: %q", s)
	}
}

// IsHighFrequency reports whether pay arrives more often than monthly.
func (f PayFrequency) IsHighFrequency() bool {
	return f == PayFrequencyWeekly || f == PayFrequencyBiweekly
}

// Mode selects whether the synthetic probability estimator takes part in scoring.
type Mode string

const (
	ModeRulesOnly   Mode = "RULES_ONLY"
	ModeMLPlusRules Mode = "ML_PLUS_RULES"
)

// ParseMode accepts either canonical or lower-case spellings.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeRulesOnly:
		return ModeRulesOnly, nil
	case ModeMLPlusRules:
		return ModeMLPlusRules, nil
	default:
		return "", fmt.Errorf("unknown scoring mode: %q", s)
	}
}

// UsesEstimator reports whether the mode blends in the synthetic probability.
func (m Mode) UsesEstimator() bool {
	return m == ModeMLPlusRules
}

// SalaryAdvance is a validated scoring request. Construct it through
// validation; the scoring services assume every field is within bounds.
type SalaryAdvance struct {
	Amount                decimal.Decimal
	Employer              string
	PayFrequency          PayFrequency
	TenureMonths          int
	RepaymentHistoryScore int
}

// Driver is a named factor that contributed to the rule score.
type Driver struct {
	Name   string `json:"name"`
	Impact int    `json:"impact"`
}

// RiskBand is the categorical tier derived from the final score.
type RiskBand string

const (
	RiskBandGreen RiskBand = "Green"
	RiskBandAmber RiskBand = "Amber"
	RiskBandRed   RiskBand = "Red"
)

// Recommended actions, one per band.
const (
	ActionApprove         = "Approve"
	ActionManualReview    = "Request Documents / Manual Review"
	ActionDeclineEscalate = "Decline / Escalate"
)

// PolicyCitation is attached to every decision regardless of which rules fired.
const PolicyCitation = "Policy PX-ADV-01: Tenure < 3 months OR repayment score < 580 ⇒ review/decline"

// ScoringResult is the explained decision returned to callers.
type ScoringResult struct {
	RequestID         string   `json:"request_id"`
	Mode              Mode     `json:"mode"`
	RiskScore         int      `json:"risk_score"`
	RiskBand          RiskBand `json:"risk_band"`
	TopDrivers        []Driver `json:"top_drivers"`
	RecommendedAction string   `json:"recommended_action"`
	PolicyCitation    string   `json:"policy_citation"`
	MLScore           *float64 `json:"ml_score,omitempty"`
}
