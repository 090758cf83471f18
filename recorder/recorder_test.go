package recorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitharaj88/reacton"
)

func TestRecorderCapturesWrites(t *testing.T) {
	store := reacton.NewStore()
	src := reacton.NewSource(store, "counter", 0)

	rec, err := StartRecording(store, "session-1")
	require.NoError(t, err)

	require.NoError(t, src.Set(store, 1))
	require.NoError(t, src.Set(store, 2))

	session := rec.Stop()
	require.Len(t, session.Events, 2)
	assert.Equal(t, "counter", session.Events[0].RefName)
	assert.Equal(t, 0, session.Events[0].OldValue)
	assert.Equal(t, 1, session.Events[0].NewValue)
	assert.Equal(t, 1, session.Events[1].OldValue)
	assert.Equal(t, 2, session.Events[1].NewValue)
	assert.Equal(t, 0, session.InitialSnapshot["counter"])
}

func TestRecorderPauseResumeSkipsEvents(t *testing.T) {
	store := reacton.NewStore()
	src := reacton.NewSource(store, "x", 0)
	rec, err := StartRecording(store, "session-2")
	require.NoError(t, err)

	require.NoError(t, src.Set(store, 1))
	rec.Pause()
	require.NoError(t, src.Set(store, 2))
	rec.Resume()
	require.NoError(t, src.Set(store, 3))

	session := rec.Stop()
	require.Len(t, session.Events, 2)
	assert.Equal(t, 1, session.Events[0].NewValue)
	assert.Equal(t, 3, session.Events[1].NewValue)
}

func TestRecorderEquivalentWriteIsNotRecorded(t *testing.T) {
	store := reacton.NewStore()
	src := reacton.NewSource(store, "x", 5)
	rec, err := StartRecording(store, "session-3")
	require.NoError(t, err)

	require.NoError(t, src.Set(store, 5))
	session := rec.Stop()
	assert.Empty(t, session.Events)
}

func TestExportImportJSONRoundTrip(t *testing.T) {
	session := RecordedSession{
		ID:              "s1",
		Version:         CurrentVersion,
		StartTime:       time.Now(),
		InitialSnapshot: map[string]any{"x": float64(1)},
		Events: []StateEvent{
			{RefName: "x", OldValue: float64(1), NewValue: float64(2), Timestamp: 5},
		},
	}
	data, err := ExportJSON(session)
	require.NoError(t, err)

	decoded, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, session.ID, decoded.ID)
	assert.Len(t, decoded.Events, 1)
}

func TestFromJSONRejectsWrongVersion(t *testing.T) {
	_, err := FromJSON([]byte(`{"id":"s1","version":999}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestExportImportCompressedRoundTrip(t *testing.T) {
	session := RecordedSession{ID: "s1", Version: CurrentVersion}
	data, err := ExportCompressed(session)
	require.NoError(t, err)

	decoded, err := FromCompressed(data)
	require.NoError(t, err)
	assert.Equal(t, "s1", decoded.ID)
}

func TestSliceRetimestampsEvents(t *testing.T) {
	session := RecordedSession{
		Events: []StateEvent{
			{RefName: "a", Timestamp: 10},
			{RefName: "a", Timestamp: 20},
			{RefName: "a", Timestamp: 30},
		},
	}
	sliced := Slice(session, 15, 35)
	require.Len(t, sliced.Events, 2)
	assert.Equal(t, int64(5), sliced.Events[0].Timestamp)
	assert.Equal(t, int64(15), sliced.Events[1].Timestamp)
}

func TestFilterKeepsOnlyNamedEvents(t *testing.T) {
	session := RecordedSession{
		Events: []StateEvent{
			{RefName: "a"},
			{RefName: "b"},
		},
	}
	filtered := Filter(session, []string{"a"})
	require.Len(t, filtered.Events, 1)
	assert.Equal(t, "a", filtered.Events[0].RefName)

	unchanged := Filter(session, nil)
	assert.Len(t, unchanged.Events, 2)
}

func TestPlayerStepForwardAndBackward(t *testing.T) {
	store := reacton.NewStore()
	src := reacton.NewSource(store, "x", 0)

	session := RecordedSession{
		InitialSnapshot: map[string]any{"x": 0},
		Events: []StateEvent{
			{RefName: "x", OldValue: 0, NewValue: 1, Timestamp: 0},
			{RefName: "x", OldValue: 1, NewValue: 2, Timestamp: 10},
		},
	}
	player := NewPlayer(store, session)

	player.StepForward()
	v, err := src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	player.StepForward()
	v, err = src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	player.StepBackward()
	v, err = src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestPlayerSeekToRestoresAndReplays(t *testing.T) {
	store := reacton.NewStore()
	src := reacton.NewSource(store, "x", 0)

	session := RecordedSession{
		InitialSnapshot: map[string]any{"x": 0},
		Events: []StateEvent{
			{RefName: "x", OldValue: 0, NewValue: 1, Timestamp: 0},
			{RefName: "x", OldValue: 1, NewValue: 2, Timestamp: 10},
			{RefName: "x", OldValue: 2, NewValue: 3, Timestamp: 20},
		},
	}
	player := NewPlayer(store, session)
	player.SeekTo(2)

	v, err := src.Get(store)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}
