/*
Package client wraps a tendermint rpc connection and exposes the operations
treasury clients need: submitting signed transactions and reading state.
*/
package client

import (
	"context"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/app"
	"github.com/iov-one/treasury/errors"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

// Client is a tendermint client wrapped to provide simple access to the
// treasury application.
type Client struct {
	conn rpcclient.Client
}

// NewClient wraps a Client around an existing tendermint client connection.
func NewClient(conn rpcclient.Client) *Client {
	return &Client{conn: conn}
}

// NewHTTPConnection takes a URL and sends all requests to the remote node
func NewHTTPConnection(remote string) rpcclient.Client {
	return rpcclient.NewHTTP(remote, "/websocket")
}

// Status returns current height and other (subjective) status info from this node
func (c *Client) Status(ctx context.Context) (*Status, error) {
	status, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err)
	}
	return &Status{
		Height:     status.SyncInfo.LatestBlockHeight,
		CatchingUp: status.SyncInfo.CatchingUp,
	}, nil
}

// SubmitTx submits the tx to the mempool and returns once CheckTx passed.
// The transaction is not yet part of a block.
func (c *Client) SubmitTx(ctx context.Context, tx treasury.Marshaller) (TransactionID, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err)
	}
	res, err := c.conn.BroadcastTxSync(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err)
	}
	// a check failure means the tx will not make it into a block
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return res.Hash, nil
}

// CommitTx submits the tx and waits until it is included in a block. The
// delivery failure, if any, is returned in CommitResult.Err.
func (c *Client) CommitTx(ctx context.Context, tx treasury.Marshaller) (*CommitResult, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err)
	}
	res, err := c.conn.BroadcastTxCommit(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "commit tx: %s", err)
	}
	if res.CheckTx.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log)
	}
	return broadcastToCommitResult(res), nil
}

func broadcastToCommitResult(res *ctypes.ResultBroadcastTxCommit) *CommitResult {
	result, err := treasury.ParseDeliverOrError(res.DeliverTx)
	return &CommitResult{
		ID:     res.Hash,
		Height: res.Height,
		Result: result,
		Err:    err,
	}
}

// Query runs an abci query against the latest committed state and returns
// the matching models. A missing key returns no models and no error.
func (c *Client) Query(ctx context.Context, path string, data []byte) ([]treasury.Model, error) {
	res, err := c.conn.ABCIQueryWithOptions(path, data, rpcclient.ABCIQueryOptions{})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "query %s: %s", path, err)
	}
	resp := res.Response
	if resp.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(resp.Code, resp.Log)
	}

	var keys, values app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return nil, errors.Wrap(errors.ErrInput, "cannot unmarshal keys")
	}
	if err := values.Unmarshal(resp.Value); err != nil {
		return nil, errors.Wrap(errors.ErrInput, "cannot unmarshal values")
	}
	return app.JoinResults(&keys, &values)
}
