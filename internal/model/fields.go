package model

import (
	"fmt"
	"time"
)

// Recognized field keys for task and project writes.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldStatus      = "status"
	FieldProjectID   = "projectId"
	FieldAssignedTo  = "assignedTo"
	FieldDueDate     = "dueDate"
)

// Fields is a partial record sent on create and update. Recognized keys are
// checked by Validate; any other key is passed through to the backend as-is.
type Fields map[string]any

// Clone returns a shallow copy so callers can add keys without mutating the
// caller's map.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// SetDueDate stores t as milliseconds since the epoch.
func (f Fields) SetDueDate(t time.Time) {
	f[FieldDueDate] = t.UnixMilli()
}

// Validate checks the enumerated keys. Unrecognized keys are not inspected.
func (f Fields) Validate() error {
	if v, ok := f[FieldStatus]; ok {
		s, err := enumString(FieldStatus, v)
		if err != nil {
			return err
		}
		if _, err := ParseStatus(s); err != nil {
			return err
		}
	}
	if v, ok := f[FieldPriority]; ok {
		s, err := enumString(FieldPriority, v)
		if err != nil {
			return err
		}
		if _, err := ParsePriority(s); err != nil {
			return err
		}
	}
	return nil
}

func enumString(key string, v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case Status:
		return string(val), nil
	case Priority:
		return string(val), nil
	default:
		return "", &ValidationError{Path: key, Err: fmt.Errorf("must be a string, got %T", v)}
	}
}
