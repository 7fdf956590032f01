package utils

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LogEntry is one line of the JSON run log.
type LogEntry struct {
	Timestamp string `json:"time"`
	Level     string `json:"level"`
	Msg       string `json:"msg"`
	Program   string `json:"PROGRAM"`
	Sample    string `json:"SAMPLE"`
	Variant   string `json:"VARIANT"`
	File      string `json:"FILE"`
	Status    string `json:"STATUS"`
}

// ParseLogFile reads a run log. A missing file is an empty log; lines that
// are not JSON objects are ignored.
func ParseLogFile(logFilePath string) ([]LogEntry, error) {
	f, err := os.Open(logFilePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", logFilePath, err)
	}
	return entries, nil
}

// StageHasCompleted reports whether the last logged status of program for
// variant is COMPLETED.
func StageHasCompleted(entries []LogEntry, program, variant string) bool {
	done := false
	for _, e := range entries {
		if e.Program != program || e.Variant != variant || e.Status == "" {
			continue
		}
		done = e.Status == "COMPLETED"
	}
	return done
}

// SkippedFiles lists the files logged as SKIPPED since the last STARTED entry
// of program for variant.
func SkippedFiles(entries []LogEntry, program, variant string) []string {
	var files []string
	for _, e := range entries {
		switch {
		case e.Program == program && e.Variant == variant && e.Status == "STARTED":
			files = files[:0]
		case e.Variant == variant && strings.HasPrefix(e.Status, "SKIPPED"):
			files = append(files, e.File)
		}
	}
	return files
}
