package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/screa/vanity-market/pkg/format"
	"github.com/screa/vanity-market/pkg/order"
	"github.com/screa/vanity-market/pkg/pattern"
	"github.com/screa/vanity-market/pkg/types"
)

func newEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the work needed to satisfy a pattern set",
		Long: `Estimate the expected number of addresses to try before one satisfies any
pattern of the set, then derive time, yield and cost for the provider network.`,
		RunE: runEstimate,
	}
	addOrderFlags(cmd.Flags())
	addNetworkFlags(cmd.Flags())
	return cmd
}

func runEstimate(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	req, err := cfg.LoadRequest()
	if err != nil {
		return err
	}
	duration, err := order.ParseDuration(req.Duration)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tSPACE\tEXPECTED TRIES")
	for _, p := range req.Problems {
		if err := p.Validate(); err != nil {
			logger.Printf("warning: %v", err)
		}
		space, err := p.SpaceOf()
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p, format.Work(space), format.Work(pattern.ExpectedTries(space)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	total, err := pattern.EstimateWorkUnits(req.Problems)
	if err != nil {
		return err
	}
	rate := cfg.HashesPerSecond()
	if req.KeyType == types.KeyTypeXpub {
		rate *= order.XpubEfficiency
	}
	logger.Debugf("estimate for %d patterns: %s work units", len(req.Problems), total.Dec())

	exact := total.Dec()
	if total.IsUint64() {
		exact = format.Number(total.Uint64())
	}
	fmt.Fprintf(out, "\nDifficulty:       %s (%s)\n", format.Work(total), exact)
	fmt.Fprintf(out, "Network rate:     %s (%d providers)\n", format.HashRate(rate), cfg.Providers)
	fmt.Fprintf(out, "Time per match:   %s\n", format.Hours(format.Narrow(total)/rate/3600))
	fmt.Fprintf(out, "Expected matches: %s in %s\n",
		format.Number(order.ExpectedMatches(total, cfg.HashesPerSecond(), duration, req.KeyType)), req.Duration)
	fmt.Fprintf(out, "Cost:             %s credits\n", order.FormatCredits(order.RequiredCredits(duration)))
	return nil
}
