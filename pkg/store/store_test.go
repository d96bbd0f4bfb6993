package store

import (
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitocr/models"
	"fitocr/pkg/workout"
)

// openTestStore is opt-in: set DB_DSN_TEST=1 and DB_DSN to a scratch database.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	s, err := Open(os.Getenv("DB_DSN"), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.True(t, isUniqueConstraintError(errors.New(`ERROR: duplicate key value violates unique constraint "users_username_key"`)))
	assert.False(t, isUniqueConstraintError(errors.New("connection refused")))
}

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := Open("", true)
	assert.Error(t, err)
}

func TestUsersAndWorkouts(t *testing.T) {
	s := openTestStore(t)
	name := "runner-" + uuid.New().String()[:8]

	u, err := s.CreateUser(name, "s3cret!", "")
	require.NoError(t, err)
	_, err = s.CreateUser(name, "s3cret!", "")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = s.Authenticate(name, "nope!!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	got, err := s.Authenticate(name, "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, got.Role.Name)

	w := models.NewWorkout(u.ID, "2024-05-01 corsa - A B.jpg", models.SourceBatch, workout.Row{Date: "2024-05-01", TotalTime: "45:00"})
	require.NoError(t, s.SaveWorkout(&w))
	w2 := models.NewWorkout(u.ID, "2024-05-01 corsa - A B.jpg", models.SourceBatch, workout.Row{Date: "2024-05-01", TotalTime: "50:00"})
	require.NoError(t, s.SaveWorkout(&w2), "same file upserts")

	list, err := s.ListWorkouts(WorkoutFilter{UserID: &u.ID, Month: "2024-05"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "50:00", list[0].TotalTime)
	assert.Equal(t, 3000, list[0].TotalSeconds)
}

func TestRetryCandidates(t *testing.T) {
	s := openTestStore(t)
	u, err := s.CreateUser("shots-"+uuid.New().String()[:8], "s3cret!", "")
	require.NoError(t, err)

	empty := models.NewWorkout(u.ID, "empty.jpg", models.SourceUpload, workout.Row{})
	require.NoError(t, s.SaveWorkout(&empty))
	full := models.NewWorkout(u.ID, "full.jpg", models.SourceUpload, workout.Row{TotalTime: "41:00"})
	require.NoError(t, s.SaveWorkout(&full))

	shots := []models.Screenshot{
		{UserID: u.ID, FileName: "failed.jpg", Failed: true},
		{UserID: u.ID, FileName: "empty.jpg", WorkoutID: &empty.ID},
		{UserID: u.ID, FileName: "full.jpg", WorkoutID: &full.ID},
	}
	for i := range shots {
		require.NoError(t, s.CreateScreenshot(&shots[i]))
	}

	got, err := s.RetryCandidates(&u.ID)
	require.NoError(t, err)
	var names []string
	for _, sc := range got {
		names = append(names, sc.FileName)
	}
	assert.Equal(t, []string{"failed.jpg", "empty.jpg"}, names)
}
