// Package economy implements the entity state machines of the closed
// economy (producers, factories, markets, customers) and the operations
// that move money and goods between them. Every mutating operation is
// all-or-nothing: either all preconditions pass and all ledger updates
// apply, or the entity is left exactly as it was and a typed failure comes
// back.
package economy

import "errors"

// Failure taxonomy shared by all operations. Callers match with errors.Is.
var (
	// ErrInvalidArgument marks malformed input: empty names, non-positive
	// amounts, nil references. Always checked before anything else.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientFunds means the balance is below the money the
	// operation needs to spend.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientStorage means the resulting ledger total would exceed
	// the entity's storage capacity.
	ErrInsufficientStorage = errors.New("insufficient storage")

	// ErrInsufficientStock means a seller holds fewer units than the trade
	// would move.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInsufficientRawMaterial means a factory lacks an input required by
	// the design being produced.
	ErrInsufficientRawMaterial = errors.New("insufficient raw material")

	// ErrInsufficientByproduct means a factory holds fewer byproduct units
	// than it was asked to destroy.
	ErrInsufficientByproduct = errors.New("insufficient byproduct")

	// ErrNotInStock means a price was set for a good the market does not
	// currently hold.
	ErrNotInStock = errors.New("not in stock")

	// ErrInvalidPrice means a market advertised a negative price. A
	// defensive check; markets reject negative prices on the way in.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInternalInconsistency marks a defensive re-check failing after an
	// earlier check passed. It signals a programming error, not a
	// business-rule rejection, and is surfaced distinctly for that reason.
	ErrInternalInconsistency = errors.New("internal inconsistency")
)
