package chain

import (
	"errors"
	"fmt"
	"strings"
)

// Remote-call error taxonomy. Callers branch with errors.Is; the raw revert
// strings from the node are interpreted exactly once, here at the boundary.
var (
	// ErrAccountNotFound: the (user, provider) account has not been created
	// yet. Recoverable by provisioning with a zero-value transfer.
	ErrAccountNotFound = errors.New("account does not exist")
	// ErrLedgerNotFound: the user has no ledger. Recoverable via AddLedger.
	ErrLedgerNotFound = errors.New("ledger does not exist")
	// ErrServiceNotFound: the provider has not registered a service.
	ErrServiceNotFound = errors.New("service does not exist")
	// ErrInsufficientBalance: the ledger cannot cover the requested transfer.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrTransactionTimeout: a transaction did not settle within the bounded
	// wait and the gas-escalation policy is exhausted (or not configured).
	ErrTransactionTimeout = errors.New("transaction timeout")
)

// Contract revert identifiers, as emitted by the serving contract.
const (
	revertAccountNotExists    = "AccountNotExists"
	revertLedgerNotExists     = "LedgerNotExists"
	revertServiceNotExist     = "ServiceNotExist"
	revertInsufficientBalance = "InsufficientBalance"
)

// classify maps a node error onto the taxonomy. Revert reasons become
// sentinel-wrapped errors; anything else passes through unchanged and is
// treated as a transport problem by the retry layer.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, revertAccountNotExists):
		return fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	case strings.Contains(msg, revertLedgerNotExists):
		return fmt.Errorf("%s: %w", op, ErrLedgerNotFound)
	case strings.Contains(msg, revertServiceNotExist):
		return fmt.Errorf("%s: %w", op, ErrServiceNotFound)
	case strings.Contains(msg, revertInsufficientBalance):
		return fmt.Errorf("%s: %w", op, ErrInsufficientBalance)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// isFinal reports whether an error is a definite contract-level outcome that
// retrying cannot change.
func isFinal(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrLedgerNotFound) ||
		errors.Is(err, ErrServiceNotFound) ||
		errors.Is(err, ErrInsufficientBalance)
}
