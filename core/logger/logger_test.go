package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(buf *bytes.Buffer) *Recorder {
	rec := NewSessionRecorder(NewJSONLinesLogRecorder(buf), "session-1")
	rec.now = func() time.Time {
		return time.Date(2021, 7, 4, 12, 30, 0, 500, time.UTC)
	}
	return rec
}

func readAll(t *testing.T, buf *bytes.Buffer) []*LogEntry {
	t.Helper()

	var out []*LogEntry
	err := ReadJSONLinesLog(buf, func(le *LogEntry) {
		out = append(out, le)
	})
	require.NoError(t, err)
	return out
}

func TestRecorder_roundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	rec := newTestRecorder(buf)

	require.NoError(t, rec.RecordPipeline([][]string{{"echo", "hi"}, {"wc", "-l"}}, 0))
	require.NoError(t, rec.RecordLine("echo hi | wc -l", 0))
	require.NoError(t, rec.RecordError(`echo "oops`, errors.New("quote marks mismatch"), 2))

	// One JSON object per line.
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)

	entries := readAll(t, buf)
	require.Len(t, entries, 3)

	expectedTime := time.Date(2021, 7, 4, 12, 30, 0, 500, time.UTC)
	for _, le := range entries {
		assert.Equal(t, "session-1", le.SessionID)
		assert.True(t, expectedTime.Equal(le.Time), "got time %v", le.Time)
	}

	assert.Equal(t, TypePipeline, entries[0].Type)
	assert.Equal(t, [][]string{{"echo", "hi"}, {"wc", "-l"}}, entries[0].Stages)
	assert.Equal(t, "wc", entries[0].Command())

	assert.Equal(t, TypeLine, entries[1].Type)
	assert.Equal(t, "echo hi | wc -l", entries[1].Line)

	assert.Equal(t, TypeError, entries[2].Type)
	assert.Equal(t, "quote marks mismatch", entries[2].Error)
	assert.Equal(t, 2, entries[2].Status)
}

func TestRecorder_nil(t *testing.T) {
	var rec *Recorder

	assert.NoError(t, rec.RecordLine("ls", 0))
	assert.Equal(t, "", rec.SessionID())
}

func TestNewRecorder_randomSession(t *testing.T) {
	record := func(*LogEntry) error { return nil }

	assert.NotEmpty(t, NewRecorder(record).SessionID())
}

func TestReadJSONLinesLog_invalid(t *testing.T) {
	cases := map[string]string{
		"not-json":     `{"type": `,
		"no-type":      `{"status": 1}`,
		"bad-time":     `{"type": "line", "time": {"seconds": 1e300}}`,
		"not-a-struct": `[1, 2, 3]`,
	}

	for tn, input := range cases {
		t.Run(tn, func(t *testing.T) {
			err := ReadJSONLinesLog(strings.NewReader(input), func(*LogEntry) {})
			assert.Error(t, err)
		})
	}
}

func TestReport(t *testing.T) {
	buf := &bytes.Buffer{}
	rec := newTestRecorder(buf)

	rec.RecordPipeline([][]string{{"echo", "hi"}}, 0)
	rec.RecordPipeline([][]string{{"false"}}, 1)
	rec.RecordPipeline([][]string{{"yes"}, {"head", "-1"}}, 0)
	rec.RecordPipeline([][]string{{"false"}}, 1)
	rec.RecordLine("echo hi; false", 1)
	rec.RecordError("a && && b", errors.New("missing command in list"), 2)
	rec.Record(&LogEntry{Type: "mystery"})

	report := NewReport()
	require.NoError(t, ReadJSONLinesLog(buf, report.Update))

	assert.Equal(t, 7, report.LogEntries)
	assert.Equal(t, 1, report.Lines)
	assert.Equal(t, 4, report.Pipelines)
	assert.Equal(t, 7, report.Sessions.Get("session-1"))
	assert.Equal(t, 2, report.CommandNames.Get("false"))
	assert.Equal(t, 1, report.CommandNames.Get("head"))
	assert.Equal(t, 2, report.Failures.Get("false", "1"))
	assert.Equal(t, 1, report.Errors.Get("missing command in list"))
	assert.Equal(t, 1, report.UnknownTypes.Get("mystery"))

	out, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"failures":[{"count":2,"event":{"command":"false","status":"1"}}]`)
}

func TestPathCounter_MarshalJSON_empty(t *testing.T) {
	out, err := json.Marshal(NewPathCounter("a"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}
