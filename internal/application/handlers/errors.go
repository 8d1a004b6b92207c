package handlers

import "errors"

var (
	// ErrPersonNotFound is returned when an id does not resolve to a person.
	ErrPersonNotFound = errors.New("person not found")

	// ErrRelationshipNotFound is returned when an id does not resolve to an edge.
	ErrRelationshipNotFound = errors.New("relationship not found")
)
