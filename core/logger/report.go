package logger

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var msg structpb.Struct
		if err := protojson.Unmarshal(rawEntry, &msg); err != nil {
			return err
		}

		logEntry, err := entryFromStruct(&msg)
		if err != nil {
			return err
		}

		handler(logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries int `json:"log_entries"`
	Lines      int `json:"lines"`
	Pipelines  int `json:"pipelines"`

	Sessions     StrCounter   `json:"sessions"`
	CommandNames StrCounter   `json:"command_names"`
	Failures     *PathCounter `json:"failures"`
	Errors       StrCounter   `json:"errors"`
	UnknownTypes StrCounter   `json:"unknown_log_entries,omitempty"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		Failures: NewPathCounter("command", "status"),
	}
}

// Update adds a log entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	r.Sessions.Increment(le.SessionID)

	switch le.Type {
	case TypeLine:
		r.Lines++
	case TypePipeline:
		r.Pipelines++
		for _, stage := range le.Stages {
			if len(stage) > 0 {
				r.CommandNames.Increment(stage[0])
			}
		}
		if le.Status != 0 {
			r.Failures.Increment(le.Command(), strconv.Itoa(le.Status))
		}
	case TypeError:
		r.Errors.Increment(le.Error)
	default:
		r.UnknownTypes.Increment(le.Type)
	}
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts tuples of strings, one per column.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
