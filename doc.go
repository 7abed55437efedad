/*
Package treasury defines the common interfaces that tie together the
subpackages of a multi-party transfer authorization application, as well as
implementations of the simpler components (when interfaces would be too much
overhead).

A fixed set of signatories jointly approves transfer proposals; a proposal
executes exactly once after a threshold of distinct approvals is collected.
The proposal life cycle lives in x/multisig, the value ledger in x/cash, the
signature authentication in x/sigs. Package app assembles them into an ABCI
application and cmd/treasuryd into a binary.

Storage is abstracted behind KVStore. Everything that is written during a
single operation should go through a cache wrap (see CacheableKVStore), so
that a failed operation leaves no partial state behind.
*/
package treasury
