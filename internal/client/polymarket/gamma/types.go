package polymarketgamma

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Event is one Gamma event (a game) with its nested markets.
type Event struct {
	ID        string    `json:"id"`
	Ticker    string    `json:"ticker"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	StartDate Timestamp `json:"startDate"`
	EndDate   Timestamp `json:"endDate"`
	Active    bool      `json:"active"`
	Closed    bool      `json:"closed"`
	Archived  bool      `json:"archived"`
	Markets   []Market  `json:"markets"`
}

// Market is one tradable question under an event. The moneyline market of
// a game carries the event's own slug; derivative markets get suffixed
// slugs.
type Market struct {
	ID           string     `json:"id"`
	Question     string     `json:"question"`
	Slug         string     `json:"slug"`
	ConditionID  string     `json:"conditionId"`
	Outcomes     StringList `json:"outcomes"`
	ClobTokenIDs StringList `json:"clobTokenIds"`
	Active       bool       `json:"active"`
	Closed       bool       `json:"closed"`
}

// StringList decodes Gamma's list fields, which arrive either as a JSON
// array or as a string containing a JSON-encoded array.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return err
		}
		inner = strings.TrimSpace(inner)
		if inner == "" {
			*s = nil
			return nil
		}
		trimmed = []byte(inner)
	}
	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*s = list
	return nil
}

// Timestamp tolerates the handful of time encodings Gamma uses, including
// null and the empty string for unset dates.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			t.Time = ts
			return nil
		}
	}
	return fmt.Errorf("unrecognized gamma time %q", s)
}
