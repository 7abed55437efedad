package client

import (
	"github.com/iov-one/treasury"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// TransactionID is the tendermint hash of a submitted transaction.
type TransactionID = cmn.HexBytes

// CommitResult describes a transaction included in a block. Exactly one of
// Result and Err is set, depending on the DeliverTx code.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *treasury.DeliverResult
	Err    error
}

// Status is what the node reports about its own progress.
type Status struct {
	Height     int64
	CatchingUp bool
}
