package x

import (
	"github.com/iov-one/treasury"
)

// Authenticator tells which conditions authorized the current transaction.
// Handlers receive it in their constructor instead of reading signatures
// directly, so tests can plug in any authentication.
type Authenticator interface {
	// GetConditions returns all conditions fulfilled by the transaction,
	// the main signer first.
	GetConditions(treasury.Context) []treasury.Condition
	// HasAddress checks if any fulfilled condition has this address.
	HasAddress(treasury.Context, treasury.Address) bool
}

// ChainAuth combines authenticators. Conditions are reported in the order of
// the authenticators and an address is authorized if any of them knows it.
func ChainAuth(auths ...Authenticator) Authenticator {
	return authChain(auths)
}

type authChain []Authenticator

func (c authChain) GetConditions(ctx treasury.Context) []treasury.Condition {
	var conds []treasury.Condition
	for _, a := range c {
		conds = append(conds, a.GetConditions(ctx)...)
	}
	return conds
}

func (c authChain) HasAddress(ctx treasury.Context, addr treasury.Address) bool {
	for _, a := range c {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first fulfilled condition or nil.
func MainSigner(ctx treasury.Context, auth Authenticator) treasury.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}
