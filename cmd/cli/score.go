package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/turtacn/xpx/internal/application/dto"
	appservice "github.com/turtacn/xpx/internal/application/service"
	"github.com/turtacn/xpx/internal/domain/models"
	domainservice "github.com/turtacn/xpx/internal/domain/service"
	"github.com/turtacn/xpx/internal/infrastructure/monitoring"
	"github.com/turtacn/xpx/pkg/logger"
	"github.com/turtacn/xpx/pkg/utils"
)

type scoreOptions struct {
	amount         string
	employer       string
	payFrequency   string
	tenure         int
	repaymentScore int
	mode           string
	requestID      string
}

func newScoreCommand() *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one salary-advance request and print the decision as JSON.",
		Example: `  xpxctl score --amount 1200 --employer "Acme Logistics" --pay-frequency biweekly \
    --tenure 9 --repayment-score 600 --mode RULES_ONLY`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := &dto.ScoreRequest{
				Employer:     opts.employer,
				PayFrequency: opts.payFrequency,
				Mode:         opts.mode,
			}
			if cmd.Flags().Changed("amount") {
				amount, err := decimal.NewFromString(opts.amount)
				if err != nil {
					return fmt.Errorf("invalid --amount %q: %v", opts.amount, err)
				}
				req.Amount = &amount
			}
			if cmd.Flags().Changed("tenure") {
				req.TenureMonths = &opts.tenure
			}
			if cmd.Flags().Changed("repayment-score") {
				req.RepaymentHistoryScore = &opts.repaymentScore
			}

			requestID := opts.requestID
			if requestID == "" {
				requestID = utils.NewRequestID()
			}

			result, err := newOfflineScoringService().Score(context.Background(), requestID, req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.amount, "amount", "", "requested amount (0 < amount <= 5000)")
	flags.StringVar(&opts.employer, "employer", "", "employer name")
	flags.StringVar(&opts.payFrequency, "pay-frequency", "", "weekly, biweekly or monthly")
	flags.IntVar(&opts.tenure, "tenure", 0, "months with the current employer (0-240)")
	flags.IntVar(&opts.repaymentScore, "repayment-score", 0, "repayment history score (300-900)")
	flags.StringVar(&opts.mode, "mode", string(models.ModeMLPlusRules), "RULES_ONLY or ML_PLUS_RULES")
	flags.StringVar(&opts.requestID, "request-id", "", "request id to stamp on the decision (default: generated)")

	return cmd
}

// newOfflineScoringService runs the scoring pipeline without exporting
// metrics, traces or logs.
func newOfflineScoringService() appservice.ScoringAppService {
	log := logger.NewNoopLogger()
	return appservice.NewScoringAppService(
		domainservice.NewDefaultScorer(),
		models.ModeMLPlusRules,
		monitoring.NewMetrics(prometheus.NewRegistry()),
		monitoring.NewNoopTracingManager(log),
		log,
	)
}
