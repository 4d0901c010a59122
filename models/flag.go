package models

import (
	"bytes"
	"fmt"
	"strings"
)

// Flag is a boolean that also accepts 0/1 in JSON, the way the legacy
// tinyint columns were posted by older clients.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*f = true
	case "false", "0":
		*f = false
	case "null":
	default:
		return fmt.Errorf("expected a boolean, got %s", data)
	}
	return nil
}

// Or returns the flag's value, or def when the field was omitted.
func (f *Flag) Or(def bool) bool {
	if f == nil {
		return def
	}
	return bool(*f)
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// StringPtr is a convenience for optional fields.
func StringPtr(s string) *string {
	return &s
}
