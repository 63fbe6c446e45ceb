package dues

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// journalLine builds one journal line: a JSON object that opens with its
// command and keeps its fields in the order they are added, so that lines of
// the same kind always read the same way.
type journalLine struct {
	buf bytes.Buffer
	err error
}

// newJournalLine starts a line for the given command.
func newJournalLine(cmd CommandType) *journalLine {
	l := new(journalLine)
	l.buf.WriteByte('{')
	return l.Field("command", cmd)
}

// Field appends key with its JSON encoding. The first encoding error sticks and
// is returned by Bytes.
func (l *journalLine) Field(key string, value any) *journalLine {
	if l.err != nil {
		return l
	}
	data, err := json.Marshal(value)
	if err != nil {
		l.err = fmt.Errorf("cannot encode journal field %q: %w", key, err)
		return l
	}
	name, _ := json.Marshal(key)
	if l.buf.Len() > 1 {
		l.buf.WriteByte(',')
	}
	l.buf.Write(name)
	l.buf.WriteByte(':')
	l.buf.Write(data)
	return l
}

// Text appends a string field, unless it is empty.
func (l *journalLine) Text(key, value string) *journalLine {
	if value == "" {
		return l
	}
	return l.Field(key, value)
}

// Bytes closes the object and returns it.
func (l *journalLine) Bytes() ([]byte, error) {
	if l.err != nil {
		return nil, l.err
	}
	out := make([]byte, 0, l.buf.Len()+1)
	out = append(out, l.buf.Bytes()...)
	return append(out, '}'), nil
}
