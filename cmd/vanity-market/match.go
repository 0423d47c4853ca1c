package main

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/screa/vanity-market/pkg/format"
	"github.com/screa/vanity-market/pkg/pattern"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match ADDRESS...",
		Short: "Find which pattern an address satisfies and how rare it is",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runMatch,
	}
	addOrderFlags(cmd.Flags())
	return cmd
}

func runMatch(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	req, err := cfg.LoadRequest()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, address := range args {
		p, err := pattern.MatchFirst(address, req.Problems)
		if err != nil {
			return fmt.Errorf("%s: %w", address, err)
		}
		display := common.HexToAddress(address).Hex()
		if p == nil {
			fmt.Fprintf(out, "%s  no match\n", display)
			continue
		}
		info, err := pattern.RarityOf(address, *p)
		if err != nil {
			return err
		}
		marks, err := pattern.Highlight(address, *p)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  %s: %s, rarity %s\n", display, p.Type.Label(), info.Summary, format.Work(info.Rarity))
		fmt.Fprintln(out, underline(marks))
	}
	return nil
}

// underline marks highlighted body positions with ^ under a printed address
func underline(marks []bool) string {
	var b strings.Builder
	b.WriteString("  ")
	for _, m := range marks {
		if m {
			b.WriteByte('^')
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.TrimRight(b.String(), " ")
}
