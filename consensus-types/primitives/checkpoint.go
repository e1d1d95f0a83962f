package primitives

// Checkpoint names a justified or finalized boundary block by epoch and
// block root.
type Checkpoint struct {
	Epoch Epoch
	Root  [32]byte
}

// Equal reports whether c and other name the same epoch/root pair.
func (c Checkpoint) Equal(other Checkpoint) bool {
	return c.Epoch == other.Epoch && c.Root == other.Root
}

// Copy returns c; Checkpoint has no reference fields, so this is a value
// copy kept for call-site symmetry with other container Copy methods.
func (c Checkpoint) Copy() Checkpoint { return c }

// Fork describes a consensus version transition: the version active before
// and after Epoch.
type Fork struct {
	PreviousVersion [4]byte
	CurrentVersion  [4]byte
	Epoch           Epoch
}

// Copy returns a value copy of f.
func (f Fork) Copy() Fork { return f }
