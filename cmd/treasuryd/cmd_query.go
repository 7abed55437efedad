package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/cash"
	"github.com/iov-one/treasury/x/multisig"
	"github.com/spf13/cobra"
)

func queryCmd() *cobra.Command {
	var fl connFlags
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Read the committed state",
	}
	fl.register(cmd, false)

	proposal := &cobra.Command{
		Use:   "proposal [proposal id]",
		Short: "Show a proposal, or all of them if no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, data := "/proposals?"+treasury.PrefixQueryMod, []byte(nil)
			if len(args) == 1 {
				id, err := parseProposalID(args[0])
				if err != nil {
					return err
				}
				path, data = "/proposals", multisig.ProposalKey(id)
			}
			models, err := fl.client().Query(context.Background(), path, data)
			if err != nil {
				return err
			}
			if len(args) == 1 && len(models) == 0 {
				return errors.Wrapf(errors.ErrNotFound, "proposal %s", args[0])
			}

			bucket := multisig.NewProposalBucket()
			proposals := make([]*multisig.Proposal, 0, len(models))
			for _, m := range models {
				var p multisig.Proposal
				if err := bucket.Decode(m.Value, &p); err != nil {
					return err
				}
				proposals = append(proposals, &p)
			}
			return printJSON(cmd.OutOrStdout(), proposals)
		},
	}

	wallet := &cobra.Command{
		Use:   "wallet <address>",
		Short: "Show the balance of a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := treasury.ParseAddress(args[0])
			if err != nil {
				return err
			}
			models, err := fl.client().Query(context.Background(), "/wallets", addr)
			if err != nil {
				return err
			}
			var w cash.Wallet
			if len(models) == 1 {
				if err := cash.NewBucket().Decode(models[0].Value, &w); err != nil {
					return err
				}
			}
			return printJSON(cmd.OutOrStdout(), w)
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the height of the node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := fl.client().Status(context.Background())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st)
		},
	}

	cmd.AddCommand(proposal, wallet, status)
	return cmd
}

func printJSON(out io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}
