package retry

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitocr/models"
	"fitocr/pkg/extract"
	"fitocr/pkg/ocr"
)

type memRepo struct {
	shots    []models.Screenshot
	workouts []models.Workout
	updated  []models.Screenshot
}

func (m *memRepo) RetryCandidates(userID *uint) ([]models.Screenshot, error) {
	var out []models.Screenshot
	for _, s := range m.shots {
		if userID == nil || s.UserID == *userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memRepo) SaveWorkout(w *models.Workout) error {
	w.ID = uint(len(m.workouts) + 1)
	m.workouts = append(m.workouts, *w)
	return nil
}

func (m *memRepo) UpdateScreenshot(sc *models.Screenshot) error {
	m.updated = append(m.updated, *sc)
	return nil
}

func seed(t *testing.T, base, rel, transcript string) {
	t.Helper()
	path := filepath.Join(base, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
	if transcript != "" {
		require.NoError(t, ocr.WriteSidecar(path, transcript))
	}
}

func TestRun_UpdatesRecoveredScreenshots(t *testing.T) {
	base := t.TempDir()
	seed(t, base, "ana/a.png", "41:00\nTempo totale\n410 kcal")
	seed(t, base, "ana/b.png", "")
	seed(t, base, "ana/c.png", "nessun tempo")

	repo := &memRepo{shots: []models.Screenshot{
		{ID: 1, UserID: 7, FileName: "2024-03-09 Corsa Parco - Casa.png", StorePath: "ana/a.png", Failed: true, FailedReason: "empty"},
		{ID: 2, UserID: 7, FileName: "b.png", StorePath: "ana/b.png", Failed: true},
		{ID: 3, UserID: 7, FileName: "c.png", StorePath: "ana/c.png"},
		{ID: 4, UserID: 7, FileName: "gone.png", StorePath: "ana/gone.png"},
	}}
	var out bytes.Buffer
	st, err := Run(context.Background(), &out, repo, ocr.Sidecar{}, extract.New(extract.DefaultConfig()), Options{UploadBase: base})
	require.NoError(t, err)

	assert.Equal(t, Stats{Candidates: 4, Updated: 1, StillEmpty: 2, Errors: 1}, st)
	require.Len(t, repo.workouts, 1)
	assert.Equal(t, "41:00", repo.workouts[0].TotalTime)
	assert.Equal(t, "2024-03-09", repo.workouts[0].Date)
	assert.Equal(t, uint(7), repo.workouts[0].UserID)
	require.Len(t, repo.updated, 1)
	assert.False(t, repo.updated[0].Failed)
	assert.Empty(t, repo.updated[0].FailedReason)
	require.NotNil(t, repo.updated[0].WorkoutID)
	assert.Contains(t, out.String(), "updated screenshot id=1")
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	base := t.TempDir()
	seed(t, base, "a.png", "41:00\nTempo totale")
	repo := &memRepo{shots: []models.Screenshot{{ID: 1, FileName: "a.png", StorePath: "a.png", Failed: true}}}

	var out bytes.Buffer
	st, err := Run(context.Background(), &out, repo, ocr.Sidecar{}, extract.New(extract.DefaultConfig()), Options{UploadBase: base, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Updated)
	assert.Empty(t, repo.workouts)
	assert.Empty(t, repo.updated)
	assert.Contains(t, out.String(), "DRY: would update screenshot id=1")
}

func TestRun_HonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := &memRepo{shots: []models.Screenshot{{ID: 1, StorePath: "x.png"}}}
	_, err := Run(ctx, &bytes.Buffer{}, repo, ocr.Sidecar{}, extract.New(extract.DefaultConfig()), Options{UploadBase: t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
}
