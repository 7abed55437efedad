package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/client"
	treasuryd "github.com/iov-one/treasury/cmd/treasuryd/app"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/cash"
	"github.com/iov-one/treasury/x/multisig"
	"github.com/iov-one/treasury/x/sigs"
	"github.com/spf13/cobra"
)

const (
	flagNode    = "node"
	flagChainID = "chain-id"
)

// connFlags are shared by all commands talking to a node.
type connFlags struct {
	node    string
	chainID string
	keyPath string
}

func (f *connFlags) register(cmd *cobra.Command, withKey bool) {
	cmd.PersistentFlags().StringVar(&f.node, flagNode, "http://localhost:26657", "tendermint rpc address")
	if withKey {
		cmd.PersistentFlags().StringVar(&f.chainID, flagChainID, "", "chain id transactions are signed for")
		cmd.PersistentFlags().StringVar(&f.keyPath, flagKey, defaultKeyPath(), "path to the private key file")
	}
}

func (f *connFlags) client() *client.Client {
	return client.NewClient(client.NewHTTPConnection(f.node))
}

func txCmd() *cobra.Command {
	var fl connFlags
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Sign and submit transactions",
	}
	fl.register(cmd, true)

	var (
		recipient string
		amount    coin.Coin
	)
	propose := &cobra.Command{
		Use:   "propose",
		Short: "Propose a transfer out of the treasury wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := treasury.ParseAddress(recipient)
			if err != nil {
				return errors.Wrap(err, "recipient")
			}
			msg := &multisig.ProposeTransferMsg{Recipient: addr, Amount: amount}
			return runTx(cmd.OutOrStdout(), &fl, msg)
		},
	}
	propose.Flags().StringVar(&recipient, "recipient", "", "address receiving the funds")
	propose.Flags().Var(&amount, "amount", "amount to transfer, for example \"10.5 IOV\"")

	approve := &cobra.Command{
		Use:   "approve <proposal id>",
		Short: "Approve a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}
			return runTx(cmd.OutOrStdout(), &fl, &multisig.ApproveMsg{ProposalID: id})
		},
	}

	execute := &cobra.Command{
		Use:   "execute <proposal id>",
		Short: "Execute an approved proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}
			return runTx(cmd.OutOrStdout(), &fl, &multisig.ExecuteMsg{ProposalID: id})
		},
	}

	var (
		destination string
		sendAmount  coin.Coin
		memo        string
	)
	send := &cobra.Command{
		Use:   "send",
		Short: "Send coins from your own wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadKey(fl.keyPath)
			if err != nil {
				return err
			}
			dest, err := treasury.ParseAddress(destination)
			if err != nil {
				return errors.Wrap(err, "destination")
			}
			msg := &cash.SendMsg{
				Source:      key.PublicKey().Address(),
				Destination: dest,
				Amount:      sendAmount,
				Memo:        memo,
			}
			return runTx(cmd.OutOrStdout(), &fl, msg)
		},
	}
	send.Flags().StringVar(&destination, "destination", "", "address receiving the coins")
	send.Flags().Var(&sendAmount, "amount", "amount to send, for example \"10.5 IOV\"")
	send.Flags().StringVar(&memo, "memo", "", "optional note attached to the transfer")

	cmd.AddCommand(propose, approve, execute, send)
	return cmd
}

func parseProposalID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "invalid proposal id %q", raw)
	}
	return id, nil
}

func runTx(out io.Writer, fl *connFlags, msg treasury.Msg) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	key, err := loadKey(fl.keyPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	c := fl.client()
	tx, err := buildTx(ctx, c, key, fl.chainID, msg)
	if err != nil {
		return err
	}
	res, err := c.CommitTx(ctx, tx)
	if err != nil {
		return err
	}
	if res.Err != nil {
		return res.Err
	}
	return printCommit(out, msg, res)
}

// buildTx creates a transaction signed with the next nonce of the key.
func buildTx(ctx context.Context, c *client.Client, key *crypto.PrivateKey, chainID string, msg treasury.Msg) (*treasuryd.Tx, error) {
	if !treasury.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "invalid chain id %q", chainID)
	}
	nonce, err := nextNonce(ctx, c, key.PublicKey().Address())
	if err != nil {
		return nil, err
	}
	tx := treasuryd.NewTx(msg)
	if err := tx.Sign(key, chainID, nonce); err != nil {
		return nil, err
	}
	return tx, nil
}

func nextNonce(ctx context.Context, c *client.Client, signer treasury.Address) (int64, error) {
	models, err := c.Query(ctx, "/auth", signer)
	if err != nil {
		return 0, errors.Wrap(err, "cannot query nonce")
	}
	if len(models) == 0 {
		return 0, nil
	}
	var user sigs.UserData
	if err := sigs.NewBucket().Decode(models[0].Value, &user); err != nil {
		return 0, err
	}
	return user.Sequence, nil
}

func printCommit(out io.Writer, msg treasury.Msg, res *client.CommitResult) error {
	if _, ok := msg.(*multisig.ProposeTransferMsg); ok && len(res.Result.Data) == 8 {
		id := binary.BigEndian.Uint64(res.Result.Data)
		_, err := fmt.Fprintf(out, "proposal %d created at height %d (tx %s)\n", id, res.Height, res.ID)
		return err
	}
	_, err := fmt.Fprintf(out, "%s committed at height %d (tx %s)\n", msg.Path(), res.Height, res.ID)
	return err
}
