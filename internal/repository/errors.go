// Package repository defines error values that are reused across
// multiple repositories. These sentinel values let handlers
// distinguish failure scenarios and map them onto HTTP status codes:
// ErrSeminarNotFound maps to 404, the duplicate user sentinels to
// 409, and the remaining sentinels to business-rule violations the
// API reports as 400.
package repository

import "errors"

// ErrSeminarNotFound indicates that no seminar with the requested id
// exists. Handlers translate this into HTTP 404.
var ErrSeminarNotFound = errors.New("seminar not found")

// ErrSeminarFull is returned when a participant join would push the
// count of active participants past the seminar's capacity.
var ErrSeminarFull = errors.New("seminar is already full")

// ErrAlreadyJoined is returned when an enrollment row already exists
// for the (user, seminar) pair, active or dropped. Re-joining after a
// drop is rejected on purpose: the uniqueness check deliberately
// ignores is_active.
var ErrAlreadyJoined = errors.New("already joined this seminar")

// ErrNotParticipant and ErrNotInstructor are returned by Join when
// the user owns no profile row of the requested role; ErrNotAccepted
// when a participant profile exists but is not accepted. Handlers map
// all three to HTTP 403.
var (
	ErrNotParticipant = errors.New("not a participant")
	ErrNotAccepted    = errors.New("not accepted")
	ErrNotInstructor  = errors.New("not an instructor")
)

// ErrAlreadyInstructing is returned when a user who already holds an
// instructor enrollment anywhere tries to create or instruct another
// seminar. An instructor runs one seminar at a time, system-wide.
var ErrAlreadyInstructing = errors.New("in charge of another seminar")

// ErrCapacityBelowCount is returned when a seminar update would set
// capacity below the current number of active participants.
var ErrCapacityBelowCount = errors.New("capacity below active participant count")

// ErrUsernameExists and ErrEmailExists are returned by user creation
// when the unique constraint on the respective column fires.
var (
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
)
