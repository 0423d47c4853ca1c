package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/screa/vanity-market/internal/config"
	"github.com/screa/vanity-market/pkg/format"
	minerpkg "github.com/screa/vanity-market/pkg/miner"
	"github.com/screa/vanity-market/pkg/order"
	"github.com/screa/vanity-market/pkg/pattern"
	"github.com/screa/vanity-market/pkg/store"
	"github.com/screa/vanity-market/pkg/types"
)

func newMineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Search a request locally and publish every match",
		Long: `Act as a provider for one request: derive addresses from the request key
tweaked by random salts, keep every address that satisfies a pattern and
publish it with its salt as proof.`,
		RunE: runMine,
	}
	addOrderFlags(cmd.Flags())
	addKeyFlags(cmd.Flags())
	cmd.Flags().StringVarP(&cfg.Duration, "duration", "d", config.DefaultDuration, "Search duration: 30m, 2h, 1d")
	cmd.Flags().IntVarP(&cfg.Workers, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")
	cmd.Flags().IntVarP(&cfg.MaxResults, "max-results", "n", 0, "Stop after this many matches (default: run for the full duration)")
	cmd.Flags().StringVar(&cfg.ProviderName, "provider", "local", "Provider name recorded on results")
	cmd.Flags().StringVar(&cfg.ResultsFile, "out", "", "Write the request and its results to this YAML file")
	return cmd
}

func runMine(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	req, err := cfg.LoadRequest()
	if err != nil {
		return err
	}

	ledger := order.NewLedger(store.NewMemStore(nil), cfg.ProviderName, nil, logger)
	if _, err := ledger.CreateRequest(cmd.Context(), req); err != nil {
		return err
	}
	difficulty, err := pattern.EstimateWorkUnits(req.Problems)
	if err != nil {
		return err
	}

	logger.Printf("Starting vanity miner with %d workers...", cfg.Workers)
	logger.Printf("Request: %s", req.ID)
	logger.Printf("Target: %s", cfg.GetTargetDescription())
	logger.Printf("Difficulty: %s", format.Work(difficulty))

	miner, err := minerpkg.NewMiner(cfg, req, logger, ledger)
	if err != nil {
		return err
	}

	// Set up signal handling for Ctrl+C
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := miner.Mine(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		logger.Println("Received interrupt signal. Mining stopped by user.")
	}

	rate := 0.0
	if report.Duration.Seconds() > 0 {
		rate = float64(report.Attempts) / report.Duration.Seconds()
	}
	logger.Printf("Attempts: %s in %s (%s)", format.Number(uint64(report.Attempts)), format.Elapsed(report.Duration), format.HashRate(rate))

	_, status, err := ledger.RequestStatus(context.WithoutCancel(ctx), req.ID)
	if err != nil {
		return err
	}
	logger.Printf("Request status: %s", status)

	if report.Best == nil {
		logger.Println("No match found.")
		return nil
	}
	logger.Printf("Found %d matches, best: %s (%s)", len(report.Matches), report.Best.Result.Address(), report.Best.Info.Summary)

	ranked := append([]order.Annotated(nil), report.Matches...)
	order.Rank(ranked)
	if err := printResults(cmd, ranked); err != nil {
		return err
	}

	if cfg.ResultsFile != "" {
		results := make([]types.Result, len(report.Matches))
		for i, m := range report.Matches {
			results[i] = m.Result
		}
		if err := config.SaveResults(cfg.ResultsFile, req, results); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		logger.Printf("Results written to %s", cfg.ResultsFile)
	}
	return nil
}

func printResults(cmd *cobra.Command, list []order.Annotated) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tPATTERN\tMATCH\tRARITY\tSALT")
	for _, a := range list {
		label, summary, rarity := "-", "no match", "-"
		if a.Info != nil {
			label, summary, rarity = a.Kind().Label(), a.Info.Summary, format.Work(a.Info.Rarity)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			a.Result.Address(), label, summary, rarity, format.TruncateMiddle(a.Result.Proof.Salt, 10, 6))
	}
	return tw.Flush()
}
