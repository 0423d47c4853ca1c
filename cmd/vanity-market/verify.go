package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/screa/vanity-market/internal/crypto"
	"github.com/screa/vanity-market/pkg/order"
)

func newVerifyCmd() *cobra.Command {
	var salt, address string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that a salt applied to a request key derives an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := cfg.LoadRequest()
			if err != nil {
				return err
			}
			pub, err := order.PublicKey(req)
			if err != nil {
				return err
			}
			if err := crypto.VerifyProof(pub, salt, address); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid: %s derives %s\n", salt, address)
			return nil
		},
	}
	addKeyFlags(cmd.Flags())
	cmd.Flags().StringVarP(&cfg.OrderFile, "order", "o", "", "Order file to take the public key from")
	cmd.Flags().StringVar(&salt, "salt", "", "0x-prefixed 32-byte salt")
	cmd.Flags().StringVarP(&address, "address", "a", "", "Claimed address")
	_ = cmd.MarkFlagRequired("salt")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}
