// Package logger records the commands a shell runs as newline delimited JSON
// so sessions can be inspected and summarized later.
//
// Each line is a protobuf Struct encoded with protojson.
package logger
