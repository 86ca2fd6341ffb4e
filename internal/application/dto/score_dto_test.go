package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/xpx/internal/domain/models"
)

func decode(t *testing.T, body string) *ScoreRequest {
	t.Helper()
	var req ScoreRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestScoreRequest_ValidRequest(t *testing.T) {
	req := decode(t, `{
		"amount": 1200.50,
		"employer": "  Acme Logistics ",
		"pay_frequency": "Bi-Weekly",
		"tenure_months": 9,
		"repayment_history_score": 600
	}`)

	require.Nil(t, req.Validate())
	assert.Equal(t, "Acme Logistics", req.Employer)

	adv := req.ToAdvance()
	assert.Equal(t, "1200.5", adv.Amount.String())
	assert.Equal(t, models.PayFrequencyBiweekly, adv.PayFrequency)
	assert.Equal(t, 9, adv.TenureMonths)
	assert.Equal(t, 600, adv.RepaymentHistoryScore)
}

func TestScoreRequest_AmountAsString(t *testing.T) {
	req := decode(t, `{"amount":"500","employer":"Acme","pay_frequency":"monthly","tenure_months":24,"repayment_history_score":720}`)

	require.Nil(t, req.Validate())
	assert.Equal(t, "500", req.ToAdvance().Amount.String())
}

func TestScoreRequest_ReportsEveryFailingField(t *testing.T) {
	req := decode(t, `{"amount":-5,"employer":" A ","pay_frequency":"daily","repayment_history_score":1000,"mode":"fast"}`)

	ve := req.Validate()
	require.NotNil(t, ve)
	assert.Equal(t, []string{
		"amount",
		"employer",
		"mode",
		"pay_frequency",
		"repayment_history_score",
		"tenure_months",
	}, ve.FieldNames())
	assert.Equal(t, "must be greater than 0", ve.Fields["amount"])
	assert.Equal(t, "must be at least 2 characters", ve.Fields["employer"])
	assert.Equal(t, "must be one of: weekly, biweekly, monthly", ve.Fields["pay_frequency"])
	assert.Equal(t, "is required", ve.Fields["tenure_months"])
	assert.Equal(t, "must be less than or equal to 900", ve.Fields["repayment_history_score"])
	assert.Equal(t, "must be one of: RULES_ONLY, ML_PLUS_RULES", ve.Fields["mode"])
}

func TestScoreRequest_FieldBounds(t *testing.T) {
	base := func() *ScoreRequest {
		return decode(t, `{"amount":500,"employer":"Acme","pay_frequency":"weekly","tenure_months":12,"repayment_history_score":700}`)
	}

	tests := []struct {
		name  string
		patch string
		field string
	}{
		{"amount zero", `{"amount":0}`, "amount"},
		{"amount over max", `{"amount":5000.01}`, "amount"},
		{"tenure negative", `{"tenure_months":-1}`, "tenure_months"},
		{"tenure over max", `{"tenure_months":241}`, "tenure_months"},
		{"repayment under min", `{"repayment_history_score":299}`, "repayment_history_score"},
		{"employer too long", `{"employer":"` + strings.Repeat("x", 81) + `"}`, "employer"},
		{"blank employer", `{"employer":"    "}`, "employer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			require.NoError(t, json.Unmarshal([]byte(tt.patch), req))
			ve := req.Validate()
			require.NotNil(t, ve)
			assert.Equal(t, []string{tt.field}, ve.FieldNames())
		})
	}
}

func TestScoreRequest_BoundaryValuesAreValid(t *testing.T) {
	req := decode(t, `{"amount":5000,"employer":"Ab","pay_frequency":"MONTHLY","tenure_months":0,"repayment_history_score":300,"mode":"rules_only"}`)

	require.Nil(t, req.Validate())
	assert.Equal(t, 0, req.ToAdvance().TenureMonths)
	assert.Equal(t, models.ModeRulesOnly, req.ResolveMode(models.ModeMLPlusRules))
}

func TestScoreRequest_ResolveMode(t *testing.T) {
	req := &ScoreRequest{}
	assert.Equal(t, models.ModeMLPlusRules, req.ResolveMode(models.ModeMLPlusRules))

	req.Mode = "ml_plus_rules"
	assert.Equal(t, models.ModeMLPlusRules, req.ResolveMode(models.ModeRulesOnly))
}
