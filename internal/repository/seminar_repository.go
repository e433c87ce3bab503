// Package repository contains data access logic for the seminar
// domain. This file defines the SeminarRepo and the detail structures
// returned to handlers. A seminar's `time` column is a MySQL TIME and
// travels through the API as "HH:MM".
package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/PJH6029/waffle-assignment-2/internal/model"
)

// SeminarRepo manages persistence for seminars.
type SeminarRepo struct {
	db *sql.DB
}

// NewSeminarRepo constructs a SeminarRepo with the given DB handle.
func NewSeminarRepo(db *sql.DB) *SeminarRepo {
	return &SeminarRepo{db: db}
}

// clock normalizes a MySQL TIME value ("HH:MM:SS") to "HH:MM".
func clock(s string) string {
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

const seminarCols = "id, name, capacity, count, time, online, created_at, updated_at"

func scanSeminar(row interface{ Scan(...interface{}) error }) (model.Seminar, error) {
	var s model.Seminar
	var t string
	err := row.Scan(&s.ID, &s.Name, &s.Capacity, &s.Count, &t, &s.Online, &s.CreatedAt, &s.UpdatedAt)
	s.Time = clock(t)
	return s, err
}

// CreateTx inserts a new seminar using the provided transaction and
// populates the generated ID and DB-default fields on s. The caller
// must commit or roll back; a seminar is only ever committed together
// with its instructor enrollment.
func (r *SeminarRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Seminar) error {
	const q = `INSERT INTO seminars (name, capacity, count, time, online) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.Name, s.Capacity, s.Count, s.Time, s.Online)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT ` + seminarCols + ` FROM seminars WHERE id = ?`
	got, err := scanSeminar(tx.QueryRowContext(ctx, sel, s.ID))
	if err != nil {
		return err
	}
	*s = got
	return nil
}

// Create commits a new seminar together with its instructor
// enrollment in one transaction, so neither ever exists without the
// other. The instructor-exclusivity check runs inside the same
// transaction. Under REPEATABLE READ the check does not lock
// anything, so two simultaneous creates by the same instructor can
// both pass it; sequential requests always see each other's commit.
func (r *SeminarRepo) Create(ctx context.Context, enrollments *EnrollmentRepo, instructorID uint64, s *model.Seminar) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// An instructor runs one seminar at a time, system-wide.
	instructing, err := enrollments.HasInstructorEnrollmentTx(ctx, tx, instructorID)
	if err != nil {
		return err
	}
	if instructing {
		return ErrAlreadyInstructing
	}
	if err := r.CreateTx(ctx, tx, s); err != nil {
		return err
	}
	if err := enrollments.CreateTx(ctx, tx, instructorID, s.ID, model.RoleInstructor); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Update applies a partial update under the seminar's row lock. When
// the patch shrinks capacity, the active participant count is taken
// under the same lock so a racing join cannot slip past the check;
// a shrink below the count returns ErrCapacityBelowCount and leaves
// the row untouched.
func (r *SeminarRepo) Update(ctx context.Context, enrollments *EnrollmentRepo, id uint64, p SeminarPatch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := r.GetForUpdateTx(ctx, tx, id); err != nil {
		return err
	}
	if p.Capacity != nil {
		count, err := enrollments.CountActiveParticipantsTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if *p.Capacity < count {
			return ErrCapacityBelowCount
		}
	}
	if err := r.UpdateTx(ctx, tx, id, p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a seminar by id, returning ErrSeminarNotFound when
// no row exists.
func (r *SeminarRepo) GetByID(ctx context.Context, id uint64) (model.Seminar, error) {
	const q = `SELECT ` + seminarCols + ` FROM seminars WHERE id = ?`
	s, err := scanSeminar(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return s, ErrSeminarNotFound
	}
	return s, err
}

// GetForUpdateTx loads a seminar inside tx while taking an exclusive
// row lock on it. The lock is the per-seminar critical section that
// serializes concurrent capacity checks: two joins racing for the
// last slot on the same seminar queue up here, while joins on
// different seminars lock different rows and proceed in parallel.
func (r *SeminarRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Seminar, error) {
	const q = `SELECT ` + seminarCols + ` FROM seminars WHERE id = ? FOR UPDATE`
	s, err := scanSeminar(tx.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return s, ErrSeminarNotFound
	}
	return s, err
}

// SeminarPatch carries the optional fields of a partial seminar
// update. Nil pointers leave the column unchanged.
type SeminarPatch struct {
	Name     *string
	Capacity *uint32
	Time     *string // "HH:MM"
	Online   *bool
}

// Empty reports whether the patch changes nothing.
func (p SeminarPatch) Empty() bool {
	return p.Name == nil && p.Capacity == nil && p.Time == nil && p.Online == nil
}

// UpdateTx applies a partial update to the seminar row inside tx.
// Capacity validation against the active participant count is the
// caller's job and must happen under the same transaction's lock.
func (r *SeminarRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id uint64, p SeminarPatch) error {
	if p.Empty() {
		return nil
	}
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if p.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *p.Name)
	}
	if p.Capacity != nil {
		sets = append(sets, "capacity=?")
		args = append(args, *p.Capacity)
	}
	if p.Time != nil {
		sets = append(sets, "time=?")
		args = append(args, *p.Time)
	}
	if p.Online != nil {
		sets = append(sets, "online=?")
		args = append(args, *p.Online)
	}
	args = append(args, id)
	_, err := tx.ExecContext(ctx, "UPDATE seminars SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	return err
}

// InstructorOfSeminar is the API shape of one instructor entry in a
// seminar detail: the instructing user's identity plus when the
// instructor enrollment was created.
type InstructorOfSeminar struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	JoinedAt  string `json:"joined_at"`
}

// ParticipantOfSeminar extends the instructor shape with the
// enrollment lifecycle fields. Dropped participants stay in the list
// with is_active=false and their drop timestamp.
type ParticipantOfSeminar struct {
	ID        uint64  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	JoinedAt  string  `json:"joined_at"`
	IsActive  bool    `json:"is_active"`
	DroppedAt *string `json:"dropped_at"`
}

// SeminarDetail is the full response shape for a seminar, including
// its instructor and participant enrollment lists.
type SeminarDetail struct {
	ID           uint64                 `json:"id"`
	Name         string                 `json:"name"`
	Capacity     uint32                 `json:"capacity"`
	Count        uint32                 `json:"count"`
	Time         string                 `json:"time"`
	Online       bool                   `json:"online"`
	Instructors  []InstructorOfSeminar  `json:"instructors"`
	Participants []ParticipantOfSeminar `json:"participants"`
}

const detailTimeLayout = "2006-01-02T15:04:05Z07:00"

// Detail loads a seminar together with its enrollment lists enriched
// with joiner identity. Returns ErrSeminarNotFound when the seminar
// does not exist.
func (r *SeminarRepo) Detail(ctx context.Context, id uint64) (*SeminarDetail, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	det := detailFromSeminar(s)
	if err := r.fillEnrollments(ctx, map[uint64]*SeminarDetail{s.ID: det}); err != nil {
		return nil, err
	}
	return det, nil
}

// Search returns the details of all seminars whose name contains the
// given filter (case-insensitive; empty matches everything), ordered
// by creation time. order="earliest" sorts ascending; any other value
// sorts newest first.
func (r *SeminarRepo) Search(ctx context.Context, nameFilter, order string) ([]*SeminarDetail, error) {
	q := `SELECT ` + seminarCols + ` FROM seminars`
	args := []interface{}{}
	if nameFilter != "" {
		// utf8mb4 collations compare case-insensitively, which gives
		// the icontains behavior directly.
		q += ` WHERE name LIKE CONCAT('%', ?, '%')`
		args = append(args, nameFilter)
	}
	if order == "earliest" {
		q += ` ORDER BY created_at ASC, id ASC`
	} else {
		q += ` ORDER BY created_at DESC, id DESC`
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]*SeminarDetail, 0)
	byID := make(map[uint64]*SeminarDetail)
	for rows.Next() {
		s, err := scanSeminar(rows)
		if err != nil {
			return nil, err
		}
		det := detailFromSeminar(s)
		byID[s.ID] = det
		details = append(details, det)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	if err := r.fillEnrollments(ctx, byID); err != nil {
		return nil, err
	}
	return details, nil
}

func detailFromSeminar(s model.Seminar) *SeminarDetail {
	return &SeminarDetail{
		ID:           s.ID,
		Name:         s.Name,
		Capacity:     s.Capacity,
		Count:        s.Count,
		Time:         s.Time,
		Online:       s.Online,
		Instructors:  []InstructorOfSeminar{},
		Participants: []ParticipantOfSeminar{},
	}
}

// fillEnrollments populates the instructor and participant lists of
// all given details in a single query, joining user_seminars against
// users. Entries are ordered by join time for deterministic output.
func (r *SeminarRepo) fillEnrollments(ctx context.Context, byID map[uint64]*SeminarDetail) error {
	ids := make([]interface{}, 0, len(byID))
	placeholders := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT us.seminar_id, us.role, us.is_active, us.dropped_at, us.created_at,
	             u.id, u.username, u.email, u.first_name, u.last_name
	      FROM user_seminars us
	      JOIN users u ON u.id = us.user_id
	      WHERE us.seminar_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY us.created_at ASC, us.id ASC`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			seminarID uint64
			role      string
			isActive  bool
			droppedAt sql.NullTime
			joinedAt  sql.NullTime
			uid       uint64
			username  string
			email     string
			firstName string
			lastName  string
		)
		if err := rows.Scan(&seminarID, &role, &isActive, &droppedAt, &joinedAt,
			&uid, &username, &email, &firstName, &lastName); err != nil {
			return err
		}
		det, ok := byID[seminarID]
		if !ok {
			continue
		}
		joined := ""
		if joinedAt.Valid {
			joined = joinedAt.Time.UTC().Format(detailTimeLayout)
		}
		if role == model.RoleInstructor {
			det.Instructors = append(det.Instructors, InstructorOfSeminar{
				ID:        uid,
				Username:  username,
				Email:     email,
				FirstName: firstName,
				LastName:  lastName,
				JoinedAt:  joined,
			})
			continue
		}
		var dropped *string
		if droppedAt.Valid {
			d := droppedAt.Time.UTC().Format(detailTimeLayout)
			dropped = &d
		}
		det.Participants = append(det.Participants, ParticipantOfSeminar{
			ID:        uid,
			Username:  username,
			Email:     email,
			FirstName: firstName,
			LastName:  lastName,
			JoinedAt:  joined,
			IsActive:  isActive,
			DroppedAt: dropped,
		})
	}
	return rows.Err()
}
