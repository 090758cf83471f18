package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitharaj88/reacton/recorder"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	session := recorder.RecordedSession{
		ID:        "s1",
		Version:   recorder.CurrentVersion,
		StartTime: time.Now().Truncate(time.Millisecond),
		Events: []recorder.StateEvent{
			{RefName: "x", OldValue: float64(1), NewValue: float64(2), Timestamp: 5},
		},
	}
	require.NoError(t, store.Save(session))

	loaded, err := store.Load("s1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)
	require.Len(t, loaded.Events, 1)
	assert.Equal(t, "x", loaded.Events[0].RefName)
}

func TestListAndDelete(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(recorder.RecordedSession{ID: "a", Version: recorder.CurrentVersion, StartTime: time.Now()}))
	require.NoError(t, store.Save(recorder.RecordedSession{ID: "b", Version: recorder.CurrentVersion, StartTime: time.Now()}))

	ids, err := store.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	require.NoError(t, store.Delete("a"))
	ids, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}
