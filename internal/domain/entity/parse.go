package entity

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-day format accepted next to RFC 3339
const DateLayout = "2006-01-02"

// ParseAmount coerces a JSON number or numeric string into an amount.
// A missing or null value returns nil without error.
func ParseAmount(raw json.RawMessage) (*float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return nil, NewValidationError("amount", "amount must be a number")
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return nil, nil
		}
	}

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, NewValidationError("amount", "amount must be a number")
	}

	return &amount, nil
}

// ParseDate accepts RFC 3339 timestamps or YYYY-MM-DD days (UTC midnight)
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	return time.Time{}, NewValidationError(field, field+" must be an RFC 3339 timestamp or YYYY-MM-DD")
}
