package cash

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
)

const (
	pathSendMsg = "cash/send"

	maxMemoSize int = 128
)

// SendMsg moves coins owned by the source to the destination.
type SendMsg struct {
	Source      treasury.Address `json:"source"`
	Destination treasury.Address `json:"destination"`
	Amount      coin.Coin        `json:"amount"`
	Memo        string           `json:"memo,omitempty"`
}

var _ treasury.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message.
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible.
func (s *SendMsg) Validate() error {
	if err := s.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !s.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", s.Amount)
	}
	if err := s.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := s.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(s.Memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo longer than %d", maxMemoSize)
	}
	return nil
}
