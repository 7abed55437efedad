package app

import (
	"context"
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/store/iavl"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

func TestRouter(t *testing.T) {
	r := NewRouter()
	good := &treasurytest.Handler{}
	bad := &treasurytest.Handler{DeliverErr: errors.ErrUnauthorized}

	r.Handle("test/good", good)
	r.Handle("test/bad", bad)

	assert.Panics(t, func() { r.Handle("test/good", good) })
	assert.Panics(t, func() { r.Handle("bad path!", good) })

	ctx := context.Background()
	db := store.MemStore()

	_, err := r.Deliver(ctx, db, &treasurytest.Tx{Msg: &treasurytest.Msg{RoutePath: "test/good"}})
	assert.NoError(t, err)
	assert.Equal(t, 1, good.DeliverCallCount())

	_, err = r.Deliver(ctx, db, &treasurytest.Tx{Msg: &treasurytest.Msg{RoutePath: "test/bad"}})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = r.Check(ctx, db, &treasurytest.Tx{Msg: &treasurytest.Msg{RoutePath: "test/missing"}})
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = r.Check(ctx, db, &treasurytest.Tx{Err: errors.ErrInput})
	assert.True(t, errors.ErrInput.Is(err))

	assert.Nil(t, r.Handler("test/missing"))
	assert.Equal(t, good, r.Handler("test/good"))
}

// orderDecorator appends its name to the result log on the way out.
type orderDecorator string

func (o orderDecorator) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx, next treasury.Checker) (*treasury.CheckResult, error) {
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Log += string(o)
	return res, nil
}

func (o orderDecorator) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx, next treasury.Deliverer) (*treasury.DeliverResult, error) {
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Log += string(o)
	return res, nil
}

func TestChainDecorators(t *testing.T) {
	var nilDecorator *treasurytest.Decorator

	h := ChainDecorators(orderDecorator("a"), nil, nilDecorator).
		Chain(orderDecorator("b")).
		WithHandler(&treasurytest.Handler{})

	ctx := context.Background()
	db := store.MemStore()

	// the innermost decorator completes first
	res, err := h.Check(ctx, db, nil)
	require.NoError(t, err)
	assert.Equal(t, "ba", res.Log)

	dres, err := h.Deliver(ctx, db, nil)
	require.NoError(t, err)
	assert.Equal(t, "ba", dres.Log)
}

func TestResultSet(t *testing.T) {
	models := []treasury.Model{
		treasury.Pair([]byte("k1"), []byte("v1")),
		treasury.Pair([]byte("k2"), []byte("v2")),
	}
	kbz, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	vbz, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	var keys, values ResultSet
	require.NoError(t, keys.Unmarshal(kbz))
	require.NoError(t, values.Unmarshal(vbz))

	joined, err := JoinResults(&keys, &values)
	require.NoError(t, err)
	assert.Equal(t, models, joined)

	_, err = JoinResults(&keys, &ResultSet{})
	assert.True(t, errors.ErrInput.Is(err))
}

// noteInitializer stores the "note" genesis value under a fixed key.
type noteInitializer struct{}

func (noteInitializer) FromGenesis(opts treasury.Options, db treasury.KVStore) error {
	var note string
	if err := opts.ReadOptions("note", &note); err != nil {
		return err
	}
	return db.Set([]byte("note"), []byte(note))
}

// noteQuery returns the raw value stored under the queried key.
type noteQuery struct{}

func (noteQuery) Query(db treasury.ReadOnlyKVStore, mod string, data []byte) ([]treasury.Model, error) {
	v, err := db.Get(data)
	if err != nil || v == nil {
		return nil, err
	}
	return []treasury.Model{treasury.Pair(data, v)}, nil
}

// writeHandler stores the message path under a "tx" key on deliver.
type writeHandler struct{}

func (writeHandler) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.CheckResult, error) {
	return &treasury.CheckResult{GasAllocated: 7}, nil
}

func (writeHandler) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	if err := db.Set([]byte("tx"), []byte(treasury.GetPath(tx))); err != nil {
		return nil, err
	}
	return &treasury.DeliverResult{Data: []byte(treasury.GetChainID(ctx))}, nil
}

func pathDecoder(txBytes []byte) (treasury.Tx, error) {
	if len(txBytes) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty tx")
	}
	return &treasurytest.Tx{Msg: &treasurytest.Msg{RoutePath: string(txBytes)}}, nil
}

func TestBaseApp(t *testing.T) {
	const chainID = "test-app-chain"

	qr := treasury.NewQueryRouter()
	qr.Register("/notes", noteQuery{})

	router := NewRouter()
	router.Handle("notes/write", writeHandler{})

	kv := iavl.NewMemCommitStore()
	storeApp := NewStoreApp("treasury-test", kv, qr, context.Background()).
		WithInit(noteInitializer{})
	base := NewBaseApp(storeApp, pathDecoder, router, false)

	assert.Equal(t, "", base.GetChainID())
	base.InitChain(abci.RequestInitChain{
		ChainId:       chainID,
		AppStateBytes: []byte(`{"note": "hello"}`),
	})
	assert.Equal(t, chainID, base.GetChainID())
	assert.Panics(t, func() {
		base.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: []byte(`{}`)})
	})

	base.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, ChainID: chainID}})

	chres := base.CheckTx([]byte("notes/write"))
	require.Equal(t, uint32(0), chres.Code, chres.Log)
	assert.Equal(t, int64(7), chres.GasWanted)

	chres = base.CheckTx(nil)
	assert.Equal(t, errors.ErrInput.ABCICode(), chres.Code)

	dres := base.DeliverTx([]byte("notes/write"))
	require.Equal(t, uint32(0), dres.Code, dres.Log)
	assert.Equal(t, chainID, string(dres.Data))

	dres = base.DeliverTx([]byte("notes/unknown"))
	assert.Equal(t, errors.ErrNotFound.ABCICode(), dres.Code)

	// nothing is visible before the commit
	qres := base.Query(abci.RequestQuery{Path: "/notes", Data: []byte("tx")})
	require.Equal(t, uint32(0), qres.Code, qres.Log)
	var values ResultSet
	require.NoError(t, values.Unmarshal(qres.Value))
	assert.Len(t, values.Results, 0)

	cres := base.Commit()
	assert.NotEmpty(t, cres.Data)

	info := base.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, cres.Data, info.LastBlockAppHash)

	qres = base.Query(abci.RequestQuery{Path: "/notes", Data: []byte("tx")})
	require.Equal(t, uint32(0), qres.Code, qres.Log)
	var txValues ResultSet
	require.NoError(t, txValues.Unmarshal(qres.Value))
	require.Len(t, txValues.Results, 1)
	assert.Equal(t, "notes/write", string(txValues.Results[0]))

	qres = base.Query(abci.RequestQuery{Path: "/notes", Data: []byte("note")})
	var noteValues ResultSet
	require.NoError(t, noteValues.Unmarshal(qres.Value))
	require.Len(t, noteValues.Results, 1)
	assert.Equal(t, "hello", string(noteValues.Results[0]))

	qres = base.Query(abci.RequestQuery{Path: "/missing"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), qres.Code)
}

func TestStoreAppReload(t *testing.T) {
	const chainID = "reload-chain"

	db, cleanup := treasurytest.CommitKVStore(t)
	defer cleanup()

	first := NewStoreApp("reload", db, treasury.NewQueryRouter(), context.Background())
	first.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: []byte(`{}`)})
	first.Commit()

	second := NewStoreApp("reload", db, treasury.NewQueryRouter(), context.Background())
	assert.Equal(t, chainID, second.GetChainID())
	assert.Equal(t, chainID, treasury.GetChainID(second.BlockContext()))
	height, ok := treasury.GetHeight(second.BlockContext())
	assert.True(t, ok)
	assert.Equal(t, int64(1), height)
}

func TestSaveChainID(t *testing.T) {
	db := store.MemStore()
	assert.Equal(t, "", mustLoadChainID(db))

	assert.True(t, errors.ErrInput.Is(saveChainID(db, "bad")))
	require.NoError(t, saveChainID(db, "good-chain"))
	assert.Equal(t, "good-chain", mustLoadChainID(db))
	assert.True(t, errors.ErrUnauthorized.Is(saveChainID(db, "other-chain")))
}
