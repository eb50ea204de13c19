package logger

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Entry types.
const (
	// TypeLine is a complete input line and its final status.
	TypeLine = "line"
	// TypePipeline is a single pipeline and its status.
	TypePipeline = "pipeline"
	// TypeError is a line or segment that was rejected before running.
	TypeError = "error"
)

// LogEntry is one event in the log.
type LogEntry struct {
	Time      time.Time
	SessionID string
	Type      string

	// Line is set for TypeLine and TypeError entries.
	Line string
	// Stages holds the words of each pipeline stage for TypePipeline entries.
	Stages [][]string
	// Status is the reported exit status.
	Status int
	// Error is the message of TypeError entries.
	Error string
}

// Command returns the name of the last stage's command, the one that decides
// a pipeline's status.
func (le *LogEntry) Command() string {
	if len(le.Stages) == 0 {
		return ""
	}
	last := le.Stages[len(le.Stages)-1]
	if len(last) == 0 {
		return ""
	}
	return last[0]
}

func (le *LogEntry) toStruct() (*structpb.Struct, error) {
	ts := timestamppb.New(le.Time)

	fields := map[string]interface{}{
		"time": map[string]interface{}{
			"seconds": ts.GetSeconds(),
			"nanos":   ts.GetNanos(),
		},
		"session": le.SessionID,
		"type":    le.Type,
		"status":  le.Status,
	}
	if le.Line != "" {
		fields["line"] = le.Line
	}
	if le.Error != "" {
		fields["error"] = le.Error
	}
	if le.Stages != nil {
		var stages []interface{}
		for _, stage := range le.Stages {
			var words []interface{}
			for _, word := range stage {
				words = append(words, word)
			}
			stages = append(stages, words)
		}
		fields["stages"] = stages
	}

	return structpb.NewStruct(fields)
}

func entryFromStruct(s *structpb.Struct) (*LogEntry, error) {
	fields := s.GetFields()

	le := &LogEntry{
		SessionID: fields["session"].GetStringValue(),
		Type:      fields["type"].GetStringValue(),
		Line:      fields["line"].GetStringValue(),
		Status:    int(fields["status"].GetNumberValue()),
		Error:     fields["error"].GetStringValue(),
	}
	if le.Type == "" {
		return nil, errors.New("log entry has no type")
	}

	timeFields := fields["time"].GetStructValue().GetFields()
	ts := &timestamppb.Timestamp{
		Seconds: int64(timeFields["seconds"].GetNumberValue()),
		Nanos:   int32(timeFields["nanos"].GetNumberValue()),
	}
	if err := ts.CheckValid(); err != nil {
		return nil, fmt.Errorf("invalid log entry time: %w", err)
	}
	le.Time = ts.AsTime()

	for _, stage := range fields["stages"].GetListValue().GetValues() {
		var words []string
		for _, word := range stage.GetListValue().GetValues() {
			words = append(words, word.GetStringValue())
		}
		le.Stages = append(le.Stages, words)
	}

	return le, nil
}
