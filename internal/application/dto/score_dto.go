package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/turtacn/xpx/internal/domain/models"
	"github.com/turtacn/xpx/pkg/errors"
	"github.com/turtacn/xpx/pkg/utils"
)

var maxAdvanceAmount = decimal.NewFromInt(5000)

func init() {
	utils.RegisterValidation("pay_frequency", func(fl validator.FieldLevel) bool {
		_, err := models.ParsePayFrequency(fl.Field().String())
		return err == nil
	}, "must be one of: weekly, biweekly, monthly")

	utils.RegisterValidation("scoring_mode", func(fl validator.FieldLevel) bool {
		_, err := models.ParseMode(fl.Field().String())
		return err == nil
	}, "must be one of: RULES_ONLY, ML_PLUS_RULES")
}

// ScoreRequest is the inbound scoring payload shared by the HTTP, gRPC and CLI surfaces.
// Pointer fields distinguish an absent value from a zero value.
type ScoreRequest struct {
	Amount                *decimal.Decimal `json:"amount"`
	Employer              string           `json:"employer" validate:"required,min=2,max=80"`
	PayFrequency          string           `json:"pay_frequency" validate:"required,pay_frequency"`
	TenureMonths          *int             `json:"tenure_months" validate:"required,gte=0,lte=240"`
	RepaymentHistoryScore *int             `json:"repayment_history_score" validate:"required,gte=300,lte=900"`
	Mode                  string           `json:"mode,omitempty" validate:"omitempty,scoring_mode"`
}

// Validate trims free-text fields in place and reports every failing field.
// It returns nil when the request is valid.
func (r *ScoreRequest) Validate() *errors.ValidationError {
	r.Employer = strings.TrimSpace(r.Employer)
	r.PayFrequency = strings.TrimSpace(r.PayFrequency)
	r.Mode = strings.TrimSpace(r.Mode)

	ve := utils.ValidateStruct(r)

	// decimal.Decimal is a struct, so its bounds are checked here rather than by tag.
	switch {
	case r.Amount == nil:
		ve.Add("amount", "is required")
	case !r.Amount.IsPositive():
		ve.Add("amount", "must be greater than 0")
	case r.Amount.GreaterThan(maxAdvanceAmount):
		ve.Add("amount", "must be at most "+maxAdvanceAmount.String())
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// ToAdvance converts a validated request into the domain model.
// Call Validate first; ToAdvance panics on a request that has not passed it.
func (r *ScoreRequest) ToAdvance() models.SalaryAdvance {
	freq, err := models.ParsePayFrequency(r.PayFrequency)
	if err != nil {
		panic("ToAdvance called on unvalidated request: " + err.Error())
	}
	return models.SalaryAdvance{
		Amount:                *r.Amount,
		Employer:              r.Employer,
		PayFrequency:          freq,
		TenureMonths:          *r.TenureMonths,
		RepaymentHistoryScore: *r.RepaymentHistoryScore,
	}
}

// ResolveMode returns the request's mode, falling back to def when none was sent.
func (r *ScoreRequest) ResolveMode(def models.Mode) models.Mode {
	if r.Mode == "" {
		return def
	}
	mode, err := models.ParseMode(r.Mode)
	if err != nil {
		return def
	}
	return mode
}
