// Package task provides the task model, the JSON-backed store and the
// operations behind each task-cli command.
package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Status represents the state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in progress"
	StatusDone       Status = "done"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a single entry in the task list.
// Field order matches the on-disk JSON layout.
type Task struct {
	ID     int    `json:"id"`
	Text   string `json:"task"`
	Status Status `json:"status"`
}

// New creates a pending task.
func New(id int, text string) *Task {
	return &Task{
		ID:     id,
		Text:   text,
		Status: StatusPending,
	}
}

// String renders the task the way `list` prints it.
func (t Task) String() string {
	return fmt.Sprintf("%d: %s [%s]", t.ID, t.Text, t.Status)
}

// UnmarshalJSON decodes a stored task. Hand-edited files are accepted as far
// as they can be: an integral float is a valid ID, and a task or status
// that is not a string keeps its JSON text. Only a row that is not an
// object, or whose ID is missing or not an integer, is rejected.
func (t *Task) UnmarshalJSON(data []byte) error {
	var row struct {
		ID     json.RawMessage `json:"id"`
		Text   json.RawMessage `json:"task"`
		Status json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(data, &row); err != nil {
		return errors.New("task is not a JSON object")
	}

	id, err := decodeID(row.ID)
	if err != nil {
		return err
	}
	t.ID = id
	t.Text = decodeText(row.Text)
	t.Status = Status(decodeText(row.Status))
	return nil
}

func decodeID(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, errors.New("missing id")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("id %s is not a number", raw)
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("id %s is not an integer", raw)
	}
	return int(f), nil
}

// decodeText returns a JSON string's value, or the raw text of any other
// value. A missing or null field is empty.
func decodeText(raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// ParseID converts a command-line argument into a task ID. Surrounding
// whitespace and a sign are allowed, as are single underscores between
// digits ("1_000").
func ParseID(arg string) (int, error) {
	s := strings.TrimSpace(arg)
	if strings.Contains(s, "_") {
		if !digitSeparated(s) {
			return 0, &Error{Kind: KindMalformedID, Err: fmt.Errorf("misplaced underscore in %q", arg)}
		}
		s = strings.ReplaceAll(s, "_", "")
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, &Error{Kind: KindMalformedID, Err: err}
	}
	return id, nil
}

// digitSeparated reports whether every underscore in s sits between two
// digits.
func digitSeparated(s string) bool {
	isDigit := func(b byte) bool { return b >= '0' && b <= '9' }
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return false
		}
	}
	return true
}
