package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/PJH6029/waffle-assignment-2/internal/model"
)

// Repository tests run against a throwaway MySQL database. Set
// SEMINAR_TEST_DSN (e.g. "root:pass@tcp(localhost:3306)/seminar_test?parseTime=true&loc=UTC")
// and apply schema.sql to it first; without the variable every test in
// this package skips.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("SEMINAR_TEST_DSN")
	if dsn == "" {
		t.Skip("SEMINAR_TEST_DSN not set; skipping database tests")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { _ = db.Close() })

	// Wipe in FK order so each test starts clean.
	for _, tbl := range []string{
		"user_seminars", "refresh_tokens",
		"participant_profiles", "instructor_profiles",
		"seminars", "users",
	} {
		_, err := db.Exec("DELETE FROM " + tbl)
		require.NoError(t, err, "wiping %s", tbl)
	}
	return db
}

func createParticipant(t *testing.T, db *sql.DB, name string, accepted bool) uint64 {
	t.Helper()
	id, err := NewUserRepo(db).Create(context.Background(), NewUser{
		Username:   name,
		Email:      name + "@test.local",
		Password:   "pw",
		Role:       model.RoleParticipant,
		University: "Test University",
		Accepted:   accepted,
	}, 4)
	require.NoError(t, err)
	return id
}

func createInstructor(t *testing.T, db *sql.DB, name string) uint64 {
	t.Helper()
	year := 3
	id, err := NewUserRepo(db).Create(context.Background(), NewUser{
		Username: name,
		Email:    name + "@test.local",
		Password: "pw",
		Role:     model.RoleInstructor,
		Company:  "Test Co",
		Year:     &year,
	}, 4)
	require.NoError(t, err)
	return id
}

// createSeminar commits a seminar together with its instructor
// enrollment through the same repository path the create endpoint
// uses.
func createSeminar(t *testing.T, db *sql.DB, instructorID uint64, name string, capacity uint32) uint64 {
	t.Helper()
	s := &model.Seminar{Name: name, Capacity: capacity, Time: "14:00", Online: true}
	err := NewSeminarRepo(db).Create(context.Background(), NewEnrollmentRepo(db), instructorID, s)
	require.NoError(t, err)
	return s.ID
}

// joinParticipant runs a participant join through the production
// critical section and returns its sentinel errors unchanged.
func joinParticipant(db *sql.DB, userID, seminarID uint64) error {
	_, err := NewEnrollmentRepo(db).Join(context.Background(),
		NewUserRepo(db), NewSeminarRepo(db), userID, seminarID, model.RoleParticipant)
	return err
}

func activeParticipants(t *testing.T, db *sql.DB, seminarID uint64) uint32 {
	t.Helper()
	n, err := NewEnrollmentRepo(db).CountActiveParticipants(context.Background(), seminarID)
	require.NoError(t, err)
	return n
}

func uniqueName(prefix string, i int) string { return fmt.Sprintf("%s%d", prefix, i) }
