package workshop

import "errors"

var (
	// ErrUnknownCollection is returned when a collection name is not in the registry.
	ErrUnknownCollection = errors.New("workshop: unknown collection")
	// ErrUnknownCategory is returned when an export category is not in the registry.
	ErrUnknownCategory = errors.New("workshop: unknown export category")
	// ErrMissingKey is returned when a record lacks its collection's business key.
	ErrMissingKey = errors.New("workshop: business key is required")
	// ErrNotFound signals that no record in any collection carries the requested key.
	ErrNotFound = errors.New("workshop: not found")
	// ErrInvalidLimit indicates that a pending batch limit is not positive.
	ErrInvalidLimit = errors.New("workshop: pending limit must be positive")
	// ErrIDRequired is returned when an outbox entry has an empty id.
	ErrIDRequired = errors.New("workshop: entry id is required")
	// ErrCollectionRequired is returned when an outbox entry has an empty collection.
	ErrCollectionRequired = errors.New("workshop: entry collection is required")
	// ErrTimestampRequired is returned when an outbox entry has no creation timestamp.
	ErrTimestampRequired = errors.New("workshop: entry timestamp is required")
	// ErrPayloadRequired is returned when an outbox entry has an empty payload.
	ErrPayloadRequired = errors.New("workshop: entry payload is required")
	// ErrInvalidPayload is returned when an outbox entry payload is not valid JSON.
	ErrInvalidPayload = errors.New("workshop: entry payload must be valid JSON")
)
