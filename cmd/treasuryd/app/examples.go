package treasuryd

import (
	"bytes"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/commands"
	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/x/cash"
	"github.com/iov-one/treasury/x/multisig"
)

// examplesChainID is used to sign all example transactions.
const examplesChainID = "testgen-chain"

// Examples returns signed transactions of every message the application
// routes. Keys are derived from fixed seeds so the output is stable.
func Examples() []commands.Example {
	signer := crypto.PrivKeyEd25519FromSeed(bytes.Repeat([]byte{1}, 32))
	other := crypto.PrivKeyEd25519FromSeed(bytes.Repeat([]byte{2}, 32))
	recipient := other.PublicKey().Address()
	amount := coin.NewCoin(250, 500000000, "IOV")

	msgs := []struct {
		name string
		msg  treasury.Msg
	}{
		{"propose_tx", &multisig.ProposeTransferMsg{Recipient: recipient, Amount: amount}},
		{"approve_tx", &multisig.ApproveMsg{ProposalID: 1}},
		{"execute_tx", &multisig.ExecuteMsg{ProposalID: 1}},
		{"send_tx", &cash.SendMsg{
			Source:      signer.PublicKey().Address(),
			Destination: recipient,
			Amount:      amount,
			Memo:        "example",
		}},
	}

	var res []commands.Example
	for i, m := range msgs {
		tx := NewTx(m.msg)
		if err := tx.Sign(signer, examplesChainID, int64(i)); err != nil {
			panic(err)
		}
		res = append(res, commands.Example{Filename: m.name, Obj: tx})
	}
	return res
}
