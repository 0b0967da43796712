package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Teacher is a proffy as returned by the listing service and as stored in the
// favorites collection. Only ID has meaning here; the record itself is kept as
// the JSON object it arrived as and is written back byte for byte.
type Teacher struct {
	ID int64
	// Raw is the original JSON object. When empty the teacher marshals as
	// {"id":ID}.
	Raw json.RawMessage
}

// TeacherFromJSON parses a single teacher object.
func TeacherFromJSON(raw string) (Teacher, error) {
	var t Teacher
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return Teacher{}, err
	}
	return t, nil
}

func (t *Teacher) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*t = Teacher{Raw: json.RawMessage("null")}
		return nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("teacher must be a JSON object, got %.20q", trimmed)
	}

	var head struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(trimmed, &head); err != nil {
		return fmt.Errorf("teacher id: %w", err)
	}

	t.ID = head.ID
	t.Raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

func (t Teacher) MarshalJSON() ([]byte, error) {
	if len(t.Raw) == 0 {
		return json.Marshal(struct {
			ID int64 `json:"id"`
		}{t.ID})
	}
	return t.Raw, nil
}

// Field returns the raw value of one opaque field.
func (t Teacher) Field(name string) (json.RawMessage, bool) {
	if len(t.Raw) == 0 {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(t.Raw, &fields); err != nil {
		return nil, false
	}
	v, ok := fields[name]
	return v, ok
}
