/*
Package app contains the ABCI application plumbing: the store handling,
the decorator chain and the message router.
*/
package app

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a StoreApp that also runs transactions. Every transaction is
// decoded and passed to a single handler, usually a decorated router.
type BaseApp struct {
	*StoreApp
	decoder treasury.TxDecoder
	handler treasury.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application running decoded transactions through
// handler. With debug set, errors returned to the client carry a stack
// trace.
func NewBaseApp(store *StoreApp, decoder treasury.TxDecoder, handler treasury.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx runs the transaction against the deliver store.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(raw)
	if err != nil {
		return treasury.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext("deliver_tx", tx), b.DeliverStore(), tx)
	return treasury.DeliverOrError(res, err, b.debug)
}

// CheckTx runs the transaction against the check store.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decode(raw)
	if err != nil {
		return treasury.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(b.txContext("check_tx", tx), b.CheckStore(), tx)
	return treasury.CheckOrError(res, err, b.debug)
}

func (b BaseApp) txContext(call string, tx treasury.Tx) treasury.Context {
	return treasury.WithLogInfo(b.BlockContext(), "call", call, "path", treasury.GetPath(tx))
}

// decode turns a decoder panic into an error.
func (b BaseApp) decode(raw []byte) (tx treasury.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
