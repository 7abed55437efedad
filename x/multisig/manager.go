package multisig

import (
	"sync"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
)

// Transferer moves an amount to a recipient. It is called once per
// successful execution. Any state changes must be written to given store.
type Transferer interface {
	Transfer(ctx treasury.Context, db treasury.KVStore, recipient treasury.Address, amount coin.Coin) error
}

// TransferFunc is an adapter that allows to use a function as a Transferer.
type TransferFunc func(treasury.Context, treasury.KVStore, treasury.Address, coin.Coin) error

// Transfer calls fn.
func (fn TransferFunc) Transfer(ctx treasury.Context, db treasury.KVStore, recipient treasury.Address, amount coin.Coin) error {
	return fn(ctx, db, recipient, amount)
}

// Manager implements the proposal lifecycle. Every operation either applies
// all of its changes to the store or none.
//
// Mutations are serialized and reads run in parallel, so a manager can be
// shared between goroutines using the same store.
type Manager struct {
	mu       sync.RWMutex
	registry *Registry
	store    ProposalStore
	ids      IDAllocator
	transfer Transferer
	metrics  *Metrics
}

// Option configures a Manager.
type Option func(*Manager)

// WithMetrics makes the manager record into given metrics.
func WithMetrics(m *Metrics) Option {
	return func(mng *Manager) {
		mng.metrics = m
	}
}

// NewManager returns a manager using given collaborators.
func NewManager(registry *Registry, store ProposalStore, ids IDAllocator, transfer Transferer, opts ...Option) *Manager {
	m := &Manager{
		registry: registry,
		store:    store,
		ids:      ids,
		transfer: transfer,
		metrics:  NewMetrics(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Registry returns the registry this manager authorizes against.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Propose creates a new proposal to transfer amount to recipient, approved
// by the caller. It returns the id of the created proposal.
func (m *Manager) Propose(ctx treasury.Context, db treasury.KVStore, caller, recipient treasury.Address, amount coin.Coin) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.proposable(caller, recipient, amount); err != nil {
		return 0, err
	}

	var id uint64
	err := atomically(db, func(db treasury.KVStore) error {
		var err error
		id, err = m.ids.NextID(db)
		if err != nil {
			return err
		}
		p := &Proposal{
			ID:        id,
			Proposer:  caller.Clone(),
			Recipient: recipient.Clone(),
			Amount:    amount,
			Approvals: []treasury.Address{caller.Clone()},
		}
		return m.store.Insert(db, id, p)
	})
	if err != nil {
		return 0, errors.Wrap(err, "cannot create proposal")
	}

	m.metrics.proposed()
	treasury.GetLogger(ctx).Info("proposal created",
		"proposal", id, "caller", caller, "recipient", recipient, "amount", amount)
	return id, nil
}

// CanPropose returns the error Propose would return for given arguments,
// without modifying the store.
func (m *Manager) CanPropose(caller, recipient treasury.Address, amount coin.Coin) error {
	return m.proposable(caller, recipient, amount)
}

func (m *Manager) proposable(caller, recipient treasury.Address, amount coin.Coin) error {
	if !m.registry.IsSignatory(caller) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not a signatory", caller)
	}
	if err := recipient.Validate(); err != nil {
		return errors.Wrapf(errors.ErrInput, "recipient: %s", err)
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrapf(errors.ErrInput, "amount: %s", err)
	}
	if !amount.IsNonNegative() {
		return errors.Wrap(errors.ErrInput, "amount must not be negative")
	}
	return nil
}

// Approve adds the caller to the approvals of a proposal.
func (m *Manager) Approve(ctx treasury.Context, db treasury.KVStore, caller treasury.Address, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.approvable(db, caller, id)
	if err != nil {
		return err
	}
	p.Approvals = append(p.Approvals, caller.Clone())
	if err := m.store.Insert(db, id, p); err != nil {
		return errors.Wrap(err, "cannot store proposal")
	}

	m.metrics.approved()
	treasury.GetLogger(ctx).Info("proposal approved",
		"proposal", id, "caller", caller, "approvals", len(p.Approvals))
	return nil
}

// CanApprove returns the error Approve would return, without modifying the
// store.
func (m *Manager) CanApprove(db treasury.ReadOnlyKVStore, caller treasury.Address, id uint64) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := m.approvable(db, caller, id)
	return err
}

func (m *Manager) approvable(db treasury.ReadOnlyKVStore, caller treasury.Address, id uint64) (*Proposal, error) {
	if !m.registry.IsSignatory(caller) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not a signatory", caller)
	}
	p, err := m.store.Get(db, id)
	if err != nil {
		return nil, err
	}
	if p.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "proposal %d", id)
	}
	if p.HasApproved(caller) {
		return nil, errors.Wrapf(ErrDuplicateApproval, "%s already approved proposal %d", caller, id)
	}
	return p, nil
}

// Execute transfers the proposal amount to its recipient and marks the
// proposal as executed. If the transfer fails, the proposal is not modified
// and the execution can be retried.
func (m *Manager) Execute(ctx treasury.Context, db treasury.KVStore, caller treasury.Address, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.execute(ctx, db, caller, id)
	m.metrics.executed(err)
	if err != nil {
		treasury.GetLogger(ctx).Debug("proposal not executed",
			"proposal", id, "caller", caller, "err", err)
	}
	return err
}

func (m *Manager) execute(ctx treasury.Context, db treasury.KVStore, caller treasury.Address, id uint64) error {
	p, err := m.executable(db, caller, id)
	if err != nil {
		return err
	}

	err = atomically(db, func(db treasury.KVStore) error {
		if err := m.transfer.Transfer(ctx, db, p.Recipient, p.Amount); err != nil {
			return errors.Wrapf(ErrTransferFailed, "proposal %d: %s", id, err)
		}
		p.Executed = true
		if err := m.store.Insert(db, id, p); err != nil {
			return errors.Wrap(err, "cannot store proposal")
		}
		return nil
	})
	if err != nil {
		return err
	}

	treasury.GetLogger(ctx).Info("proposal executed",
		"proposal", id, "caller", caller, "recipient", p.Recipient, "amount", p.Amount)
	return nil
}

// CanExecute returns the error Execute would return before calling the
// transferer, without modifying the store.
func (m *Manager) CanExecute(db treasury.ReadOnlyKVStore, caller treasury.Address, id uint64) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := m.executable(db, caller, id)
	return err
}

func (m *Manager) executable(db treasury.ReadOnlyKVStore, caller treasury.Address, id uint64) (*Proposal, error) {
	if !m.registry.IsSignatory(caller) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not a signatory", caller)
	}
	p, err := m.store.Get(db, id)
	if err != nil {
		return nil, err
	}
	if n := uint32(len(p.Approvals)); n < m.registry.Threshold() {
		return nil, errors.Wrapf(ErrInsufficientApprovals,
			"proposal %d has %d of %d approvals", id, n, m.registry.Threshold())
	}
	if p.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "proposal %d", id)
	}
	return p, nil
}

// GetProposal returns the proposal stored under given id.
func (m *Manager) GetProposal(ctx treasury.Context, db treasury.ReadOnlyKVStore, id uint64) (*Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.store.Get(db, id)
}

// Proposals returns all stored proposals in the id order.
func (m *Manager) Proposals(ctx treasury.Context, db treasury.ReadOnlyKVStore) ([]*Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var res []*Proposal
	err := m.store.Iterate(db, func(p *Proposal) error {
		res = append(res, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// atomically runs fn on a cache of db when db supports it. Changes are
// written only when fn succeeds.
func atomically(db treasury.KVStore, fn func(treasury.KVStore) error) error {
	cacheable, ok := db.(treasury.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "cannot write cache")
	}
	return nil
}
