// Package item defines the item and user model that reports are built from.
package item

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Role gates which items a user may see in a report.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User is the viewing context of a report.
type User struct {
	// Name is printed in CSV rows and the HTML header.
	Name string `json:"name"`
	// Role selects the visibility rule. Roles other than ADMIN and USER are
	// accepted and see nothing.
	Role Role `json:"role"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Item is a single reportable record.
type Item struct {
	// ID identifies the item. JSON input may carry it as a string or a
	// number; numbers keep their literal text (1 -> "1").
	ID string `json:"id"`
	// Name is a human-readable label.
	Name string `json:"name"`
	// Value is summed into the report total.
	Value decimal.Decimal `json:"value"`
	// Priority marks high-value items seen by an admin. Once set it stays set.
	Priority bool `json:"priority,omitempty"`
}

// UnmarshalJSON decodes an item whose id is either a JSON string or a JSON
// number.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	aux := struct {
		ID json.RawMessage `json:"id"`
		*plain
	}{plain: (*plain)(it)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := parseID(aux.ID)
	if err != nil {
		return err
	}
	it.ID = id
	return nil
}

func parseID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("item id must be a string or a number, got %s", raw)
	}
	return n.String(), nil
}

// Clone returns a copy of items so callers can update priority flags without
// touching the input slice. A nil input yields an empty, non-nil slice.
func Clone(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Summary provides aggregate statistics for one report run.
type Summary struct {
	Items   int             `json:"items"`
	Visible int             `json:"visible"`
	Flagged int             `json:"flagged"`
	Total   decimal.Decimal `json:"total"`
}
