package treasurytest

import (
	"context"
	"fmt"

	"github.com/iov-one/treasury"
)

// Auth authenticates a fixed set of conditions, no matter the context.
// Signer and Signers are both counted, Signer comes last.
type Auth struct {
	Signer  treasury.Condition
	Signers []treasury.Condition
}

func (a *Auth) GetConditions(treasury.Context) []treasury.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	return append(a.Signers, a.Signer)
}

func (a *Auth) HasAddress(ctx treasury.Context, addr treasury.Address) bool {
	return containsAddress(a.GetConditions(ctx), addr)
}

// CtxAuth authenticates the conditions stored in the context under Key.
type CtxAuth struct {
	Key string
}

// SetConditions returns a context authenticating given conditions.
func (a *CtxAuth) SetConditions(ctx treasury.Context, conds ...treasury.Condition) treasury.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx treasury.Context) []treasury.Condition {
	switch v := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []treasury.Condition:
		return v
	default:
		panic(fmt.Sprintf("context value %q holds %T", a.Key, v))
	}
}

func (a *CtxAuth) HasAddress(ctx treasury.Context, addr treasury.Address) bool {
	return containsAddress(a.GetConditions(ctx), addr)
}

func containsAddress(conds []treasury.Condition, addr treasury.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
