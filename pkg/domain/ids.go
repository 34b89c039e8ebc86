// Package domain holds shared identifier and value types.
//
// Identifiers are typed wrappers over their storage representation so that a
// visitor ID can never be passed where a room ID is expected. Construct them
// via the Parse helpers at trust boundaries; direct casting bypasses
// validation.
package domain

import (
	"strconv"

	dErrors "gatekeeper/pkg/domain-errors"
)

// VisitorID is the surrogate key of a visitor identity record, assigned by
// the store at creation and immutable afterwards.
type VisitorID int64

// ParseVisitorID constructs a VisitorID from external input.
// Errors: CodeInvalidInput when the value is not a positive integer.
func ParseVisitorID(raw int64) (VisitorID, error) {
	if raw <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "visitor id must be positive")
	}
	return VisitorID(raw), nil
}

// ParseVisitorIDString parses a decimal string form, as found in URL params.
func ParseVisitorIDString(raw string) (VisitorID, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "visitor id must be an integer")
	}
	return ParseVisitorID(n)
}

// IsNil reports whether the ID is the zero (unassigned) value.
func (id VisitorID) IsNil() bool { return id == 0 }

// Int64 returns the storage representation.
func (id VisitorID) Int64() int64 { return int64(id) }

// String returns the decimal form for logging.
func (id VisitorID) String() string { return strconv.FormatInt(int64(id), 10) }

// RoomID identifies an exhibition room.
type RoomID int64

// ParseRoomID constructs a RoomID from external input.
func ParseRoomID(raw int64) (RoomID, error) {
	if raw <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "room id must be positive")
	}
	return RoomID(raw), nil
}

// ParseRoomIDString parses a decimal string form, as found in URL params.
func ParseRoomIDString(raw string) (RoomID, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "room id must be an integer")
	}
	return ParseRoomID(n)
}

// IsNil reports whether the ID is the zero (unassigned) value.
func (id RoomID) IsNil() bool { return id == 0 }

// Int64 returns the storage representation.
func (id RoomID) Int64() int64 { return int64(id) }

// String returns the decimal form for logging.
func (id RoomID) String() string { return strconv.FormatInt(int64(id), 10) }

// SubmissionID identifies a photo submission.
type SubmissionID int64

// IsNil reports whether the ID is the zero (unassigned) value.
func (id SubmissionID) IsNil() bool { return id == 0 }

// Int64 returns the storage representation.
func (id SubmissionID) Int64() int64 { return int64(id) }
