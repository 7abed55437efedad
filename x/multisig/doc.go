/*
Package multisig guards transfers out of a shared treasury wallet behind a
set of signatories and an approval threshold.

A signatory proposes a transfer of an amount to a recipient. Other
signatories approve the proposal, each at most once. When the number of
distinct approvals reaches the threshold any signatory can execute the
proposal, which performs the transfer exactly once.

The Registry holding signatories and threshold is fixed at construction.
Proposals are stored in a bucket with ids handed out by a sequence that
starts at 0, so the id counter and the proposals commit or roll back
together.

The Manager implements the lifecycle. Handlers expose it as transactions
and an Initializer loads the configuration from the genesis file.
*/
package multisig
