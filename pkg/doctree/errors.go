// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package doctree

import "fmt"

var _ error = (*ErrDuplicateID)(nil)
var _ error = (*ErrUnknownOwner)(nil)

// ErrDuplicateID is an error type that indicates two entities of the same
// kind share an ID within one snapshot.
type ErrDuplicateID struct {
	Kind string
	ID   string
}

// Error implements the error interface for type ErrDuplicateID.
func (e *ErrDuplicateID) Error() string {
	return fmt.Sprintf("duplicate %s id '%s' in snapshot", e.Kind, e.ID)
}

// NewErrDuplicateID creates a new ErrDuplicateID error.
func NewErrDuplicateID(kind, id string) error {
	return &ErrDuplicateID{Kind: kind, ID: id}
}

// ErrUnknownOwner is an error type that indicates an entity references an
// owner that is not present in the snapshot.
type ErrUnknownOwner struct {
	ID    string
	Owner string
}

// Error implements the error interface for type ErrUnknownOwner.
func (e *ErrUnknownOwner) Error() string {
	return fmt.Sprintf("entity '%s' references unknown owner '%s'", e.ID, e.Owner)
}

// NewErrUnknownOwner creates a new ErrUnknownOwner error.
func NewErrUnknownOwner(id, owner string) error {
	return &ErrUnknownOwner{ID: id, Owner: owner}
}
