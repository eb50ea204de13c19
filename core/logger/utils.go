package logger

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// NewJSONLinesLogRecorder creates a LogRecorder that writes entries to w in
// newline delimited JSON object format.
func NewJSONLinesLogRecorder(w io.Writer) LogRecorder {
	var mu sync.Mutex

	return func(le *LogEntry) error {
		msg, err := le.toStruct()
		if err != nil {
			return err
		}
		entry, err := protojson.Marshal(msg)
		if err != nil {
			return err
		}

		mu.Lock()
		defer mu.Unlock()
		_, err = fmt.Fprintln(w, string(entry))
		return err
	}
}

// Recorder stamps entries with a time and session ID before storing them.
// A nil *Recorder discards everything.
type Recorder struct {
	record    LogRecorder
	sessionID string
	now       func() time.Time
}

// NewRecorder creates a Recorder with a random session ID.
func NewRecorder(record LogRecorder) *Recorder {
	return NewSessionRecorder(record, fmt.Sprintf("%d", rand.Uint64()))
}

// NewSessionRecorder creates a Recorder with the given session ID.
func NewSessionRecorder(record LogRecorder, sessionID string) *Recorder {
	return &Recorder{
		record:    record,
		sessionID: sessionID,
		now:       time.Now,
	}
}

// SessionID is attached to every entry.
func (r *Recorder) SessionID() string {
	if r == nil {
		return ""
	}
	return r.sessionID
}

// Record stores le after setting its time and session.
func (r *Recorder) Record(le *LogEntry) error {
	if r == nil {
		return nil
	}

	le.Time = r.now()
	le.SessionID = r.sessionID
	return r.record(le)
}

// RecordLine stores an input line and the status it finished with.
func (r *Recorder) RecordLine(line string, status int) error {
	return r.Record(&LogEntry{Type: TypeLine, Line: line, Status: status})
}

// RecordPipeline stores the expanded stages of a pipeline and its status.
func (r *Recorder) RecordPipeline(stages [][]string, status int) error {
	return r.Record(&LogEntry{Type: TypePipeline, Stages: stages, Status: status})
}

// RecordError stores a rejected line.
func (r *Recorder) RecordError(line string, err error, status int) error {
	return r.Record(&LogEntry{Type: TypeError, Line: line, Error: err.Error(), Status: status})
}
