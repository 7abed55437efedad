package multisig

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
)

const (
	pathProposeTransferMsg = "multisig/propose"
	pathApproveMsg         = "multisig/approve"
	pathExecuteMsg         = "multisig/execute"
)

// ProposeTransferMsg creates a proposal to transfer an amount from the
// treasury wallet to the recipient.
type ProposeTransferMsg struct {
	Recipient treasury.Address `json:"recipient"`
	Amount    coin.Coin        `json:"amount"`
}

var _ treasury.Msg = (*ProposeTransferMsg)(nil)

// Path returns the routing path for this message.
func (ProposeTransferMsg) Path() string {
	return pathProposeTransferMsg
}

// Validate makes sure that this is sensible.
func (m *ProposeTransferMsg) Validate() error {
	if err := m.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !m.Amount.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	return nil
}

// ApproveMsg adds the signer approval to a proposal.
type ApproveMsg struct {
	ProposalID uint64 `json:"proposal_id"`
}

var _ treasury.Msg = (*ApproveMsg)(nil)

// Path returns the routing path for this message.
func (ApproveMsg) Path() string {
	return pathApproveMsg
}

// Validate makes sure that this is sensible.
func (m *ApproveMsg) Validate() error {
	return nil
}

// ExecuteMsg performs the transfer of an approved proposal.
type ExecuteMsg struct {
	ProposalID uint64 `json:"proposal_id"`
}

var _ treasury.Msg = (*ExecuteMsg)(nil)

// Path returns the routing path for this message.
func (ExecuteMsg) Path() string {
	return pathExecuteMsg
}

// Validate makes sure that this is sensible.
func (m *ExecuteMsg) Validate() error {
	return nil
}
