package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domainservice "github.com/turtacn/xpx/internal/domain/service"
)

func newBandsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bands",
		Short: "Print the score bands and their recommended actions.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BAND\tSCORE\tACTION")
			for _, b := range domainservice.Bands() {
				fmt.Fprintf(w, "%s\t%d-%d\t%s\n", b.Band, b.Lower, b.Upper, b.Action)
			}
			return w.Flush()
		},
	}
}
