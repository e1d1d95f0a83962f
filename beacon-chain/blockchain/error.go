package blockchain

import "github.com/pkg/errors"

// Outcome classifies how the orchestrator disposed of an inbound object, per
// the receive_block/receive_attestation/receive_deposit/receive_exit
// contract: every call returns one of these three dispositions.
type Outcome int

const (
	// Accepted means the object was applied and is now part of chain state.
	Accepted Outcome = iota
	// Ignored means the object was valid but redundant or not actionable
	// right now (e.g. a duplicate, or an attestation for a slot not yet
	// reached). Not an error; callers should not penalize the sender.
	Ignored
	// Rejected means the object violated a protocol rule. Callers may
	// penalize the sender.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Ignored:
		return "ignored"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

var (
	// errParentUnknown is returned when a block's parent root is not
	// present in the fork-choice store or persistent store.
	errParentUnknown = errors.New("parent block root not found")
	// errBadAncestor is returned when a block descends from a root marked
	// bad by a previous failed state transition.
	errBadAncestor = invalidBlock{error: errors.New("block descends from a known bad block")}
	// errStateRootMismatch mirrors coreerr.ClassStateRootMismatch at the
	// orchestrator boundary, for the bad-block marking path.
	errStateRootMismatch = invalidBlock{error: errors.New("block's declared state root does not match computed root")}
)

// An invalidBlock is a block that fails a protocol rule, as opposed to one
// that simply can't be processed yet (missing parent, execution engine
// unavailable). The orchestrator must never build on top of one.
type invalidBlock struct {
	error
	root [32]byte
}

type invalidBlockError interface {
	Error() string
	BlockRoot() [32]byte
}

// BlockRoot returns the invalid block's root.
func (e invalidBlock) BlockRoot() [32]byte { return e.root }

// IsInvalidBlock reports whether err (or anything it wraps) names a block
// that must be quarantined rather than retried.
func IsInvalidBlock(e error) bool {
	if e == nil {
		return false
	}
	if _, ok := e.(invalidBlockError); ok {
		return true
	}
	return IsInvalidBlock(errors.Unwrap(e))
}

func withBlockRoot(err error, root [32]byte) error {
	return invalidBlock{error: err, root: root}
}
