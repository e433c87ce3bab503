package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeminarDetail(t *testing.T) {
	db := testDB(t)
	instructor := createInstructor(t, db, "detail_instructor")
	seminarID := createSeminar(t, db, instructor, "Detail Seminar", 3)
	b := createParticipant(t, db, "detail_b", true)
	require.NoError(t, joinParticipant(db, b, seminarID))

	detail, err := NewSeminarRepo(db).Detail(context.Background(), seminarID)
	require.NoError(t, err)
	require.Equal(t, "Detail Seminar", detail.Name)
	require.Equal(t, uint32(3), detail.Capacity)
	require.Equal(t, "14:00", detail.Time)
	require.True(t, detail.Online)

	require.Len(t, detail.Instructors, 1)
	require.Equal(t, "detail_instructor", detail.Instructors[0].Username)
	require.Len(t, detail.Participants, 1)
	require.Equal(t, "detail_b", detail.Participants[0].Username)
	require.True(t, detail.Participants[0].IsActive)
}

func TestSeminarDetailNotFound(t *testing.T) {
	db := testDB(t)
	_, err := NewSeminarRepo(db).Detail(context.Background(), 999999)
	require.ErrorIs(t, err, ErrSeminarNotFound)
}

func TestSeminarUpdateNotFound(t *testing.T) {
	db := testDB(t)
	name := "Nothing Here"
	err := NewSeminarRepo(db).Update(context.Background(), NewEnrollmentRepo(db), 999999, SeminarPatch{Name: &name})
	require.ErrorIs(t, err, ErrSeminarNotFound)
}

func TestSeminarSearch(t *testing.T) {
	db := testDB(t)
	for i, name := range []string{"Go Backend", "Rust Backend", "Frontend"} {
		instructor := createInstructor(t, db, uniqueName("search_instructor", i))
		createSeminar(t, db, instructor, name, 5)
	}
	ctx := context.Background()
	seminars := NewSeminarRepo(db)

	all, err := seminars.Search(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Default order is latest first.
	require.Equal(t, "Frontend", all[0].Name)

	earliest, err := seminars.Search(ctx, "", "earliest")
	require.NoError(t, err)
	require.Equal(t, "Go Backend", earliest[0].Name)

	backend, err := seminars.Search(ctx, "Backend", "earliest")
	require.NoError(t, err)
	require.Len(t, backend, 2)
	require.Equal(t, "Go Backend", backend[0].Name)
	require.Equal(t, "Rust Backend", backend[1].Name)

	none, err := seminars.Search(ctx, "nomatch", "")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSeminarUpdatePartial(t *testing.T) {
	db := testDB(t)
	instructor := createInstructor(t, db, "upd_instructor")
	seminarID := createSeminar(t, db, instructor, "Before", 5)

	ctx := context.Background()
	seminars := NewSeminarRepo(db)

	name := "After"
	online := false
	require.NoError(t, seminars.Update(ctx, NewEnrollmentRepo(db), seminarID, SeminarPatch{Name: &name, Online: &online}))

	got, err := seminars.GetByID(ctx, seminarID)
	require.NoError(t, err)
	require.Equal(t, "After", got.Name)
	require.False(t, got.Online)
	// Untouched fields keep their values.
	require.Equal(t, uint32(5), got.Capacity)
	require.Equal(t, "14:00", got.Time)
}

func TestCapacityCannotShrinkBelowActiveCount(t *testing.T) {
	db := testDB(t)
	instructor := createInstructor(t, db, "shrink_instructor")
	seminarID := createSeminar(t, db, instructor, "Shrink Seminar", 3)
	for i := 0; i < 2; i++ {
		p := createParticipant(t, db, uniqueName("shrink_p", i), true)
		require.NoError(t, joinParticipant(db, p, seminarID))
	}

	ctx := context.Background()
	seminars := NewSeminarRepo(db)
	enrollments := NewEnrollmentRepo(db)

	apply := func(capacity uint32) error {
		return seminars.Update(ctx, enrollments, seminarID, SeminarPatch{Capacity: &capacity})
	}

	require.ErrorIs(t, apply(1), ErrCapacityBelowCount)
	got, err := seminars.GetByID(ctx, seminarID)
	require.NoError(t, err)
	require.Equal(t, uint32(3), got.Capacity, "rejected shrink must leave capacity unchanged")

	require.NoError(t, apply(2)) // equal to count is allowed
	got, err = seminars.GetByID(ctx, seminarID)
	require.NoError(t, err)
	require.Equal(t, uint32(2), got.Capacity)
}
