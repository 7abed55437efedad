package multisig

import (
	"encoding/binary"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

const (
	// BucketName is where we store the proposals
	BucketName = "proposal"
	// SequenceName is an auto-increment ID counter for proposals
	SequenceName = "id"
)

// Proposal is a request to transfer an amount from the treasury wallet to a
// recipient, together with the signatories that approved it.
type Proposal struct {
	ID        uint64
	Proposer  treasury.Address
	Recipient treasury.Address
	Amount    coin.Coin
	// Approvals is kept in the order of approval. The proposer is always
	// the first entry.
	Approvals []treasury.Address
	Executed  bool
}

var _ orm.Model = (*Proposal)(nil)

// Validate checks that the proposal is well formed. It does not check the
// approvals against a registry.
func (p *Proposal) Validate() error {
	if err := p.Proposer.Validate(); err != nil {
		return errors.Wrap(err, "proposer")
	}
	if err := p.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if err := p.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !p.Amount.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	if len(p.Approvals) == 0 {
		return errors.Wrap(errors.ErrModel, "no approvals")
	}
	if !p.Approvals[0].Equals(p.Proposer) {
		return errors.Wrap(errors.ErrModel, "proposer must approve first")
	}
	for i, a := range p.Approvals {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "approval %d", i)
		}
		for _, prev := range p.Approvals[:i] {
			if prev.Equals(a) {
				return errors.Wrapf(errors.ErrModel, "duplicated approval %s", a)
			}
		}
	}
	return nil
}

// HasApproved returns true if given address already approved this proposal.
func (p *Proposal) HasApproved(addr treasury.Address) bool {
	for _, a := range p.Approvals {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// ProposalStore persists proposals by their id.
type ProposalStore interface {
	// Get returns ErrNotFound if no proposal is stored under given id.
	Get(db treasury.ReadOnlyKVStore, id uint64) (*Proposal, error)
	// Insert creates or overwrites the proposal stored under given id.
	Insert(db treasury.KVStore, id uint64, p *Proposal) error
	// Iterate calls fn for every stored proposal, in the id order. Iteration
	// stops at the first error returned by fn.
	Iterate(db treasury.ReadOnlyKVStore, fn func(*Proposal) error) error
}

// IDAllocator hands out unique proposal ids.
type IDAllocator interface {
	NextID(db treasury.KVStore) (uint64, error)
}

// ProposalBucket is a ProposalStore backed by an orm.ModelBucket.
type ProposalBucket struct {
	orm.ModelBucket
}

var _ ProposalStore = ProposalBucket{}

// NewProposalBucket initializes a ProposalBucket with default name.
func NewProposalBucket() ProposalBucket {
	return ProposalBucket{
		ModelBucket: orm.NewModelBucket(BucketName, orm.NewCodec()),
	}
}

// Get loads the proposal stored under given id.
func (b ProposalBucket) Get(db treasury.ReadOnlyKVStore, id uint64) (*Proposal, error) {
	var p Proposal
	if err := b.One(db, ProposalKey(id), &p); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "proposal %d", id)
		}
		return nil, err
	}
	return &p, nil
}

// Insert saves the proposal under given id. The id of the proposal must
// match.
func (b ProposalBucket) Insert(db treasury.KVStore, id uint64, p *Proposal) error {
	if p.ID != id {
		return errors.Wrapf(errors.ErrModel, "proposal %d stored under id %d", p.ID, id)
	}
	return b.Put(db, ProposalKey(id), p)
}

// Iterate walks all proposals in the ascending id order.
func (b ProposalBucket) Iterate(db treasury.ReadOnlyKVStore, fn func(*Proposal) error) error {
	it, err := b.ModelBucket.Iterate(db)
	if err != nil {
		return err
	}
	defer it.Release()

	for {
		var p Proposal
		switch _, err := it.LoadNext(&p); {
		case errors.ErrIteratorDone.Is(err):
			return nil
		case err != nil:
			return errors.Wrap(err, "cannot load proposal")
		}
		if err := fn(&p); err != nil {
			return err
		}
	}
}

// ProposalKey returns the database key of a proposal. Big endian encoding
// keeps the database order the same as the id order.
func ProposalKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// SequenceAllocator is an IDAllocator backed by an orm.Sequence. The first
// id is 0.
type SequenceAllocator struct {
	seq orm.Sequence
}

var _ IDAllocator = SequenceAllocator{}

// NewSequenceAllocator returns the allocator of proposal ids.
func NewSequenceAllocator() SequenceAllocator {
	return SequenceAllocator{seq: orm.NewSequence(BucketName, SequenceName)}
}

// NextID returns the next unused id.
func (a SequenceAllocator) NextID(db treasury.KVStore) (uint64, error) {
	id, err := a.seq.Next(db)
	if err != nil {
		return 0, errors.Wrap(err, "cannot acquire ID")
	}
	return id, nil
}
