package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/xpx/internal/domain/models"
)

func TestParsePayFrequency(t *testing.T) {
	tests := []struct {
		input    string
		expected models.PayFrequency
		wantErr  bool
	}{
		{"weekly", models.PayFrequencyWeekly, false},
		{" Weekly ", models.PayFrequencyWeekly, false},
		{"biweekly", models.PayFrequencyBiweekly, false},
		{"Bi-Weekly", models.PayFrequencyBiweekly, false},
		{"fortnightly", models.PayFrequencyBiweekly, false},
		{"MONTHLY", models.PayFrequencyMonthly, false},
		{"daily", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := models.ParsePayFrequency(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPayFrequency_IsHighFrequency(t *testing.T) {
	assert.True(t, models.PayFrequencyWeekly.IsHighFrequency())
	assert.True(t, models.PayFrequencyBiweekly.IsHighFrequency())
	assert.False(t, models.PayFrequencyMonthly.IsHighFrequency())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected models.Mode
		wantErr  bool
	}{
		{"RULES_ONLY", models.ModeRulesOnly, false},
		{"rules_only", models.ModeRulesOnly, false},
		{"ML_PLUS_RULES", models.ModeMLPlusRules, false},
		{" ml_plus_rules", models.ModeMLPlusRules, false},
		{"ML", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := models.ParseMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMode_UsesEstimator(t *testing.T) {
	assert.True(t, models.ModeMLPlusRules.UsesEstimator())
	assert.False(t, models.ModeRulesOnly.UsesEstimator())
}
