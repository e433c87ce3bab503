package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PJH6029/waffle-assignment-2/internal/model"
	"github.com/PJH6029/waffle-assignment-2/internal/utils"
)

func TestUserCreateAndFetch(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewUserRepo(db)

	id, err := users.Create(ctx, NewUser{
		Username:   "  alice  ",
		Email:      "Alice@Test.Local",
		Password:   "pw",
		FirstName:  "Alice",
		LastName:   "Kim",
		Role:       model.RoleParticipant,
		University: "SNU",
		Accepted:   true,
	}, 4)
	require.NoError(t, err)
	require.NotZero(t, id)

	// Username is trimmed and email lower-cased before storage.
	u, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, "alice@test.local", u.Email)
	require.Nil(t, u.LastLogin)

	require.NoError(t, users.TouchLastLogin(ctx, id))
	u, err = users.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)
}

func TestUserCreateParticipantProfile(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewUserRepo(db)

	id, err := users.Create(ctx, NewUser{
		Username:   "bob",
		Email:      "bob@test.local",
		Password:   "secret",
		Role:       model.RoleParticipant,
		University: "KAIST",
		Accepted:   false,
	}, 4)
	require.NoError(t, err)

	u, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "bob", u.Username)
	require.True(t, utils.VerifyPassword(u.PasswordHash, "secret"))

	p, err := users.GetParticipantProfile(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "KAIST", p.University)
	require.False(t, p.Accepted)

	// No instructor row for a participant.
	_, err = users.GetInstructorProfile(ctx, id)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserCreateInstructorProfile(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewUserRepo(db)

	year := 2
	id, err := users.Create(ctx, NewUser{
		Username: "carol",
		Email:    "carol@test.local",
		Password: "pw",
		Role:     model.RoleInstructor,
		Company:  "Waffle",
		Year:     &year,
	}, 4)
	require.NoError(t, err)

	p, err := users.GetInstructorProfile(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Waffle", p.Company)
	require.NotNil(t, p.Year)
	require.Equal(t, 2, *p.Year)
}

func TestUserCreateDuplicates(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewUserRepo(db)

	nu := NewUser{
		Username: "dave", Email: "dave@test.local", Password: "pw",
		Role: model.RoleParticipant, Accepted: true,
	}
	_, err := users.Create(ctx, nu, 4)
	require.NoError(t, err)

	_, err = users.Create(ctx, nu, 4)
	require.ErrorIs(t, err, ErrUsernameExists)

	nu.Username = "dave2"
	_, err = users.Create(ctx, nu, 4)
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestUserUpdateProfile(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewUserRepo(db)
	id := createParticipant(t, db, "erin", true)

	uni := "POSTECH"
	first, last := "Erin", "Park"
	require.NoError(t, users.UpdateProfile(ctx, id, ProfileUpdate{
		FirstName:  &first,
		LastName:   &last,
		University: &uni,
	}))

	u, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Erin", u.FirstName)
	require.Equal(t, "Park", u.LastName)

	p, err := users.GetParticipantProfile(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "POSTECH", p.University)
}
