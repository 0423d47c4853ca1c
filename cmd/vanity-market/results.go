package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/screa/vanity-market/internal/config"
	"github.com/screa/vanity-market/internal/crypto"
	"github.com/screa/vanity-market/pkg/format"
	"github.com/screa/vanity-market/pkg/order"
	"github.com/screa/vanity-market/pkg/pattern"
)

var errNoResultsFile = errors.New("--results is required")

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Rank the results of a request by rarity",
		RunE:  runResults,
	}
	cmd.Flags().StringVarP(&cfg.ResultsFile, "results", "r", "", "Results file written by mine --out")
	cmd.Flags().StringVarP(&cfg.Filter, "filter", "f", order.FilterAll, "Show only one pattern kind, e.g. user-prefix")
	return cmd
}

func runResults(cmd *cobra.Command, args []string) error {
	if cfg.ResultsFile == "" {
		return errNoResultsFile
	}
	if cfg.Filter != "" && cfg.Filter != order.FilterAll && !pattern.Kind(cfg.Filter).Known() {
		return fmt.Errorf("%w: %q", pattern.ErrUnknownKind, cfg.Filter)
	}
	req, results, err := config.LoadResults(cfg.ResultsFile)
	if err != nil {
		return err
	}
	pub, err := order.PublicKey(req)
	if err != nil {
		return err
	}
	for _, r := range results {
		if err := crypto.VerifyProof(pub, r.Proof.Salt, r.Address()); err != nil {
			logger.Printf("warning: result %s: %v", r.ID, err)
		}
	}

	annotated, err := order.Annotate(results, req.Problems)
	if err != nil {
		return err
	}
	order.Rank(annotated)

	now := time.Now()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Request %s: %s, %s left\n",
		format.TruncateMiddle(req.ID, 6, 4), order.Status(req, now, len(results)), format.Remaining(order.ExpiresAt(req).Sub(now)))

	counts := order.Counts(annotated)
	fmt.Fprintf(out, "All (%d)", len(annotated))
	for _, k := range pattern.Kinds {
		if counts[k] > 0 {
			fmt.Fprintf(out, "  %s (%d)", k.Label(), counts[k])
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)

	return printResults(cmd, order.Filter(annotated, cfg.Filter))
}
