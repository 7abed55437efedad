package multisig

import (
	"github.com/iov-one/treasury/errors"
)

// multisig takes 1030-1039
var (
	// ErrInvalidConfiguration is returned when a registry cannot be built
	// from the given signatories and threshold.
	ErrInvalidConfiguration = errors.Register(1030, "invalid configuration")

	// ErrAlreadyExecuted is returned when a proposal was already executed
	// and cannot be approved or executed again.
	ErrAlreadyExecuted = errors.Register(1031, "already executed")

	// ErrDuplicateApproval is returned when a signatory approves the same
	// proposal twice.
	ErrDuplicateApproval = errors.Register(1032, "duplicate approval")

	// ErrInsufficientApprovals is returned when a proposal is executed
	// before reaching the threshold.
	ErrInsufficientApprovals = errors.Register(1033, "insufficient approvals")

	// ErrTransferFailed is returned when the transfer of an executed
	// proposal fails. The proposal remains executable.
	ErrTransferFailed = errors.Register(1034, "transfer failed")
)

// IsRetryable returns true if the operation that returned the error may
// succeed when repeated later without any change to the request.
func IsRetryable(err error) bool {
	return ErrInsufficientApprovals.Is(err) || ErrTransferFailed.Is(err)
}
