package app

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	amino "github.com/tendermint/go-amino"
)

var resultCodec = amino.NewCodec()

// ResultSet is the wire format of query results. Keys and values of a query
// travel as two result sets of the same length.
type ResultSet struct {
	Results [][]byte
}

// Marshal serializes the result set.
func (r *ResultSet) Marshal() ([]byte, error) {
	return resultCodec.MarshalBinaryBare(r)
}

// Unmarshal loads the result set from its serialized form. An empty set
// serializes to no bytes at all.
func (r *ResultSet) Unmarshal(bz []byte) error {
	r.Results = nil
	if len(bz) == 0 {
		return nil
	}
	return resultCodec.UnmarshalBinaryBare(bz, r)
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []treasury.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []treasury.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]treasury.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]treasury.Model, len(kref))
	for i := range mods {
		mods[i] = treasury.Pair(kref[i], vref[i])
	}
	return mods, nil
}
