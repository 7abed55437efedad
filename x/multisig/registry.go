package multisig

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Registry is the immutable set of signatories together with the number of
// approvals required to execute a proposal.
type Registry struct {
	signatories []treasury.Address
	threshold   uint32
}

// NewRegistry returns a registry for given signatories. Threshold must be
// between 1 and the number of signatories. Each signatory must be a valid
// address and may be listed only once.
func NewRegistry(signatories []treasury.Address, threshold uint32) (*Registry, error) {
	if len(signatories) == 0 {
		return nil, errors.Wrap(ErrInvalidConfiguration, "no signatories")
	}
	if threshold == 0 {
		return nil, errors.Wrap(ErrInvalidConfiguration, "threshold must be greater than zero")
	}
	if int64(threshold) > int64(len(signatories)) {
		return nil, errors.Wrapf(ErrInvalidConfiguration,
			"threshold %d is greater than the number of signatories %d", threshold, len(signatories))
	}

	sigs := make([]treasury.Address, 0, len(signatories))
	for i, s := range signatories {
		if err := s.Validate(); err != nil {
			return nil, errors.Wrapf(ErrInvalidConfiguration, "signatory %d: %s", i, err)
		}
		for _, prev := range sigs {
			if prev.Equals(s) {
				return nil, errors.Wrapf(ErrInvalidConfiguration, "signatory %s listed twice", s)
			}
		}
		sigs = append(sigs, s.Clone())
	}
	return &Registry{signatories: sigs, threshold: threshold}, nil
}

// IsSignatory returns true if given address belongs to the registry.
func (r *Registry) IsSignatory(addr treasury.Address) bool {
	if len(addr) == 0 {
		return false
	}
	for _, s := range r.signatories {
		if s.Equals(addr) {
			return true
		}
	}
	return false
}

// Threshold returns the minimal number of distinct approvals.
func (r *Registry) Threshold() uint32 {
	return r.threshold
}

// Signatories returns a copy of the signatory list, in the registration
// order.
func (r *Registry) Signatories() []treasury.Address {
	out := make([]treasury.Address, len(r.signatories))
	for i, s := range r.signatories {
		out[i] = s.Clone()
	}
	return out
}
