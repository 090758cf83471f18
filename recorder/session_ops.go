package recorder

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
)

// ErrUnsupportedVersion is returned by FromJSON/FromCompressed when the
// encoded session's version does not match CurrentVersion.
var ErrUnsupportedVersion = errors.New("recorder: unsupported session version")

// ExportJSON serializes the session to its versioned JSON wire form.
func ExportJSON(s RecordedSession) ([]byte, error) {
	return json.Marshal(s)
}

// FromJSON decodes a session previously produced by ExportJSON, rejecting
// any version other than CurrentVersion.
func FromJSON(data []byte) (RecordedSession, error) {
	var s RecordedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return RecordedSession{}, err
	}
	if s.Version != CurrentVersion {
		return RecordedSession{}, ErrUnsupportedVersion
	}
	return s, nil
}

// ExportCompressed is ExportJSON followed by gzip, for a smaller wire form.
func ExportCompressed(s RecordedSession) ([]byte, error) {
	data, err := ExportJSON(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromCompressed reverses ExportCompressed, applying the same version check
// as FromJSON.
func FromCompressed(data []byte) (RecordedSession, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return RecordedSession{}, err
	}
	defer gr.Close()
	raw, err := io.ReadAll(gr)
	if err != nil {
		return RecordedSession{}, err
	}
	return FromJSON(raw)
}

// Slice keeps events whose elapsed timestamp falls in [from, to), re-stamps
// them relative to from, and preserves the initial snapshot.
func Slice(s RecordedSession, from, to int64) RecordedSession {
	out := s
	out.Events = nil
	for _, ev := range s.Events {
		if ev.Timestamp >= from && ev.Timestamp < to {
			ev.Timestamp -= from
			out.Events = append(out.Events, ev)
		}
	}
	out.Markers = nil
	for _, m := range s.Markers {
		if m.Timestamp >= from && m.Timestamp < to {
			m.Timestamp -= from
			out.Markers = append(out.Markers, m)
		}
	}
	return out
}

// Filter keeps only events whose RefName is in reactonNames. A nil or
// empty reactonNames returns s unchanged.
func Filter(s RecordedSession, reactonNames []string) RecordedSession {
	if len(reactonNames) == 0 {
		return s
	}
	allow := make(map[string]bool, len(reactonNames))
	for _, n := range reactonNames {
		allow[n] = true
	}

	out := s
	out.Events = nil
	for _, ev := range s.Events {
		if allow[ev.RefName] {
			out.Events = append(out.Events, ev)
		}
	}
	return out
}
