package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/PJH6029/waffle-assignment-2/internal/model"
	"github.com/PJH6029/waffle-assignment-2/internal/utils"
)

// UserRepo provides persistence for users and their role profiles.
// A user owns exactly one profile row, either in participant_profiles
// or in instructor_profiles; which table holds the row determines the
// user's role throughout the system.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUser bundles the fields accepted at registration time. Role
// selects which profile table receives a row; the profile fields of
// the other role are ignored.
type NewUser struct {
	Username   string
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Role       string
	University string // participant
	Accepted   bool   // participant
	Company    string // instructor
	Year       *int   // instructor
}

// Create inserts the user together with its profile row in a single
// transaction and returns the new user ID. A user is never committed
// without its profile, or vice versa. Duplicate username/email are
// reported via ErrUsernameExists / ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, nu NewUser, bcryptCost int) (uint64, error) {
	nu.Username = strings.TrimSpace(nu.Username)
	nu.Email = strings.ToLower(strings.TrimSpace(nu.Email))
	hash, err := utils.HashPassword(nu.Password, bcryptCost)
	if err != nil {
		return 0, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, first_name, last_name) VALUES (?,?,?,?,?)",
		nu.Username, nu.Email, hash, nu.FirstName, nu.LastName)
	if err != nil {
		// MySQL duplicate key (error 1062); the constraint name tells
		// us which column collided.
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "email") {
				return 0, ErrEmailExists
			}
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	uid := uint64(id)

	switch nu.Role {
	case model.RoleParticipant:
		_, err = tx.ExecContext(ctx,
			"INSERT INTO participant_profiles (user_id, university, accepted) VALUES (?,?,?)",
			uid, nu.University, nu.Accepted)
	case model.RoleInstructor:
		var year sql.NullInt64
		if nu.Year != nil {
			year = sql.NullInt64{Int64: int64(*nu.Year), Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO instructor_profiles (user_id, company, year) VALUES (?,?,?)",
			uid, nu.Company, year)
	}
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uid, nil
}

const userCols = "id,username,email,password_hash,first_name,last_name,last_login,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, err
}

// GetByUsername fetches a user by its unique username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.TrimSpace(username)
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username=? LIMIT 1", username))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// TouchLastLogin stamps users.last_login with the current time.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET last_login=? WHERE id=?", time.Now().UTC(), id)
	return err
}

// GetParticipantProfile returns the participant profile for the user,
// or sql.ErrNoRows when the user is not a participant.
func (r *UserRepo) GetParticipantProfile(ctx context.Context, userID uint64) (model.ParticipantProfile, error) {
	var p model.ParticipantProfile
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,university,accepted FROM participant_profiles WHERE user_id=? LIMIT 1",
		userID).Scan(&p.ID, &p.UserID, &p.University, &p.Accepted)
	return p, err
}

// GetInstructorProfile returns the instructor profile for the user,
// or sql.ErrNoRows when the user is not an instructor.
func (r *UserRepo) GetInstructorProfile(ctx context.Context, userID uint64) (model.InstructorProfile, error) {
	var p model.InstructorProfile
	var year sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,company,year FROM instructor_profiles WHERE user_id=? LIMIT 1",
		userID).Scan(&p.ID, &p.UserID, &p.Company, &year)
	if year.Valid {
		y := int(year.Int64)
		p.Year = &y
	}
	return p, err
}

// ProfileUpdate carries the optional profile fields a user may change
// on itself. Nil pointers mean "leave unchanged"; university and
// company accept the empty string as a real value.
type ProfileUpdate struct {
	FirstName  *string
	LastName   *string
	University *string
	Company    *string
	Year       *int
}

// UpdateProfile applies a partial update to the user row and to
// whichever profile row the user owns. Fields for the role the user
// does not have are silently ignored, mirroring how the registration
// path discards them.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID uint64, upd ProfileUpdate) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if upd.FirstName != nil || upd.LastName != nil {
		sets := make([]string, 0, 2)
		args := make([]interface{}, 0, 3)
		if upd.FirstName != nil {
			sets = append(sets, "first_name=?")
			args = append(args, *upd.FirstName)
		}
		if upd.LastName != nil {
			sets = append(sets, "last_name=?")
			args = append(args, *upd.LastName)
		}
		args = append(args, userID)
		if _, err := tx.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(sets, ",")+" WHERE id=?", args...); err != nil {
			return err
		}
	}
	if upd.University != nil {
		if _, err := tx.ExecContext(ctx,
			"UPDATE participant_profiles SET university=? WHERE user_id=?",
			*upd.University, userID); err != nil {
			return err
		}
	}
	if upd.Company != nil {
		if _, err := tx.ExecContext(ctx,
			"UPDATE instructor_profiles SET company=? WHERE user_id=?",
			*upd.Company, userID); err != nil {
			return err
		}
	}
	if upd.Year != nil {
		if _, err := tx.ExecContext(ctx,
			"UPDATE instructor_profiles SET year=? WHERE user_id=?",
			*upd.Year, userID); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
