package ioformats

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// topicColumns are the CSV header names accepted for the topic column,
// in order of preference.
var topicColumns = []string{"topic", "query", "claim"}

// ReadTopics reads topics from a CSV file (header naming a topic column)
// or an NDJSON file. Unknown extensions are tried as CSV, then NDJSON.
// Blank topics are skipped and repeats, compared case-insensitively, are
// kept only on first appearance.
func ReadTopics(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\uFEFF"))

	var topics []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		topics, err = readCSV(bytes.NewReader(data))
	case ".ndjson", ".jsonl":
		topics, err = readNDJSON(bytes.NewReader(data))
	default:
		topics, err = readCSV(bytes.NewReader(data))
		if err != nil || len(topics) == 0 {
			topics, err = readNDJSON(bytes.NewReader(data))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return dedupe(topics), nil
}

func readCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty csv")
	}
	if err != nil {
		return nil, err
	}
	col := topicColumn(header)
	if col < 0 {
		return nil, fmt.Errorf("csv header needs one of %s", strings.Join(topicColumns, ", "))
	}

	var out []string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if col >= len(row) {
			continue
		}
		if t := strings.TrimSpace(row[col]); t != "" {
			out = append(out, t)
		}
	}
}

func topicColumn(header []string) int {
	for _, name := range topicColumns {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}

func readNDJSON(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		// {"topic": "..."} or a bare topic per line
		if strings.HasPrefix(line, "{") {
			var obj struct {
				Topic string `json:"topic"`
			}
			if err := json.Unmarshal([]byte(line), &obj); err == nil {
				if t := strings.TrimSpace(obj.Topic); t != "" {
					out = append(out, t)
				}
				continue
			}
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no topics found in ndjson")
	}
	return out, nil
}

func dedupe(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	out := topics[:0]
	for _, t := range topics {
		k := strings.ToLower(t)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
