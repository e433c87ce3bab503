// This file implements the enrollment ledger: the user_seminars table
// mapping (user, seminar) pairs to a role and an active/dropped
// lifecycle state. The ledger enforces one row per (user, seminar)
// regardless of state, one instructor per user system-wide, and the
// capacity ceiling on active participants. Join owns a transaction
// that locks the seminar row for its duration, so the
// count-then-insert is atomic per seminar.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/PJH6029/waffle-assignment-2/internal/model"
)

// EnrollmentRepo manages persistence for user_seminars rows.
type EnrollmentRepo struct {
	db *sql.DB
}

// NewEnrollmentRepo constructs an EnrollmentRepo with the given DB handle.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo {
	return &EnrollmentRepo{db: db}
}

// ExistsForSeminarTx reports whether any enrollment row exists for
// the (user, seminar) pair, active or dropped. The check runs inside
// tx so it is serialized with the insert that may follow it; the
// unique key on (user_id, seminar_id) backstops races the lock does
// not cover.
func (r *EnrollmentRepo) ExistsForSeminarTx(ctx context.Context, tx *sql.Tx, userID, seminarID uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM user_seminars WHERE user_id=? AND seminar_id=? LIMIT 1",
		userID, seminarID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// HasInstructorEnrollment reports whether the user holds an
// instructor enrollment for any seminar. Instructor rows are never
// dropped, so no is_active filter is needed.
func (r *EnrollmentRepo) HasInstructorEnrollment(ctx context.Context, userID uint64) (bool, error) {
	return r.hasInstructor(ctx, r.db, userID)
}

// HasInstructorEnrollmentTx is HasInstructorEnrollment inside tx.
func (r *EnrollmentRepo) HasInstructorEnrollmentTx(ctx context.Context, tx *sql.Tx, userID uint64) (bool, error) {
	return r.hasInstructor(ctx, tx, userID)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *EnrollmentRepo) hasInstructor(ctx context.Context, q querier, userID uint64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM user_seminars WHERE user_id=? AND role=? LIMIT 1",
		userID, model.RoleInstructor).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// IsInstructorOf reports whether the user holds the instructor
// enrollment for the given seminar.
func (r *EnrollmentRepo) IsInstructorOf(ctx context.Context, userID, seminarID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM user_seminars WHERE user_id=? AND seminar_id=? AND role=? LIMIT 1",
		userID, seminarID, model.RoleInstructor).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// CountActiveParticipantsTx counts active participant enrollments for
// a seminar inside tx. Callers deciding a join must hold the
// seminar's row lock (SeminarRepo.GetForUpdateTx) before calling so
// the count cannot change between check and insert.
func (r *EnrollmentRepo) CountActiveParticipantsTx(ctx context.Context, tx *sql.Tx, seminarID uint64) (uint32, error) {
	var n uint32
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_seminars WHERE seminar_id=? AND role=? AND is_active=1",
		seminarID, model.RoleParticipant).Scan(&n)
	return n, err
}

// CountActiveParticipants is the unlocked variant used by read paths
// such as the capacity guard on seminar updates.
func (r *EnrollmentRepo) CountActiveParticipants(ctx context.Context, seminarID uint64) (uint32, error) {
	var n uint32
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_seminars WHERE seminar_id=? AND role=? AND is_active=1",
		seminarID, model.RoleParticipant).Scan(&n)
	return n, err
}

// CreateTx inserts a new active enrollment row inside tx. The unique
// key on (user_id, seminar_id) turns races on the same pair into
// ErrAlreadyJoined. The caller must commit or roll back.
func (r *EnrollmentRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID, seminarID uint64, role string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO user_seminars (user_id, seminar_id, role, is_active) VALUES (?,?,?,1)",
		userID, seminarID, role)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrAlreadyJoined
	}
	return err
}

// Join runs the whole join transition for one user against one
// seminar and returns the seminar on success. The seminar row stays
// locked for the duration, so the duplicate check, the profile gates
// and the capacity count are atomic per seminar; the unique
// (user_id, seminar_id) key is the second line of defense. The caller
// must have validated role already.
func (r *EnrollmentRepo) Join(ctx context.Context, users *UserRepo, seminars *SeminarRepo, userID, seminarID uint64, role string) (model.Seminar, error) {
	var none model.Seminar
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return none, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seminar, err := seminars.GetForUpdateTx(ctx, tx, seminarID)
	if err != nil {
		return none, err
	}
	// Any prior enrollment, active or dropped, blocks a new one.
	exists, err := r.ExistsForSeminarTx(ctx, tx, userID, seminarID)
	if err != nil {
		return none, err
	}
	if exists {
		return none, ErrAlreadyJoined
	}

	switch role {
	case model.RoleParticipant:
		profile, err := users.GetParticipantProfile(ctx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return none, ErrNotParticipant
		}
		if err != nil {
			return none, err
		}
		if !profile.Accepted {
			return none, ErrNotAccepted
		}
		count, err := r.CountActiveParticipantsTx(ctx, tx, seminarID)
		if err != nil {
			return none, err
		}
		if count >= seminar.Capacity {
			return none, ErrSeminarFull
		}
	case model.RoleInstructor:
		if _, err := users.GetInstructorProfile(ctx, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return none, ErrNotInstructor
			}
			return none, err
		}
		instructing, err := r.HasInstructorEnrollmentTx(ctx, tx, userID)
		if err != nil {
			return none, err
		}
		if instructing {
			return none, ErrAlreadyInstructing
		}
	}

	if err := r.CreateTx(ctx, tx, userID, seminarID, role); err != nil {
		return none, err
	}
	if err := tx.Commit(); err != nil {
		return none, err
	}
	committed = true
	return seminar, nil
}

// Drop deactivates the user's enrollment in the seminar, stamping
// dropped_at, and reports whether a row actually transitioned. It is
// idempotent: when no row exists or the row is already inactive the
// statement matches nothing and the call returns false. dropped_at is
// written exactly once because the is_active=1 guard never matches a
// dropped row again.
func (r *EnrollmentRepo) Drop(ctx context.Context, userID, seminarID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE user_seminars SET is_active=0, dropped_at=? WHERE user_id=? AND seminar_id=? AND is_active=1",
		time.Now().UTC(), userID, seminarID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SeminarOfUser is the shape of one seminar entry embedded in a user
// profile: the seminar identity plus the user's enrollment lifecycle
// fields for it.
type SeminarOfUser struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	JoinedAt  string  `json:"joined_at"`
	IsActive  bool    `json:"is_active"`
	DroppedAt *string `json:"dropped_at"`
}

// SeminarCharge is the seminar an instructor runs, embedded in the
// instructor profile. Lifecycle fields are omitted since instructor
// enrollments never transition.
type SeminarCharge struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	JoinedAt string `json:"joined_at"`
}

// ListForUser returns the seminars the user is enrolled in with the
// given role, enriched with seminar identity, ordered by join time.
func (r *EnrollmentRepo) ListForUser(ctx context.Context, userID uint64, role string) ([]SeminarOfUser, error) {
	const q = `SELECT s.id, s.name, us.created_at, us.is_active, us.dropped_at
	           FROM user_seminars us
	           JOIN seminars s ON s.id = us.seminar_id
	           WHERE us.user_id = ? AND us.role = ?
	           ORDER BY us.created_at ASC, us.id ASC`
	rows, err := r.db.QueryContext(ctx, q, userID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SeminarOfUser, 0)
	for rows.Next() {
		var (
			item      SeminarOfUser
			joinedAt  time.Time
			droppedAt sql.NullTime
		)
		if err := rows.Scan(&item.ID, &item.Name, &joinedAt, &item.IsActive, &droppedAt); err != nil {
			return nil, err
		}
		item.JoinedAt = joinedAt.UTC().Format(detailTimeLayout)
		if droppedAt.Valid {
			d := droppedAt.Time.UTC().Format(detailTimeLayout)
			item.DroppedAt = &d
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// Charge returns the seminar the user instructs, or nil when the user
// holds no instructor enrollment. A user instructs at most one
// seminar; the latest row wins if the invariant were ever violated.
func (r *EnrollmentRepo) Charge(ctx context.Context, userID uint64) (*SeminarCharge, error) {
	const q = `SELECT s.id, s.name, us.created_at
	           FROM user_seminars us
	           JOIN seminars s ON s.id = us.seminar_id
	           WHERE us.user_id = ? AND us.role = ?
	           ORDER BY us.id DESC LIMIT 1`
	var (
		c        SeminarCharge
		joinedAt time.Time
	)
	err := r.db.QueryRowContext(ctx, q, userID, model.RoleInstructor).Scan(&c.ID, &c.Name, &joinedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.JoinedAt = joinedAt.UTC().Format(detailTimeLayout)
	return &c, nil
}
