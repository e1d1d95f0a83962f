package helpers

import "github.com/pkg/errors"

var (
	errInvalidCommitteeIndex = errors.New("committee index out of range for slot")
	errNoActiveValidators    = errors.New("no active validators at epoch")
)
