// Package policy defines the role rules that decide which items a user sees
// and which items are flagged as priority.
package policy

import (
	"errors"
	"fmt"
	"os"

	"github.com/PiotrMackowski/itemreport/internal/item"
	"github.com/PiotrMackowski/itemreport/policies"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyAdminRole is returned when a rules file names no admin role.
	ErrEmptyAdminRole = errors.New("invalid rules: admin_role must not be empty")
	// ErrEmptyUserRole is returned when a rules file names no user role.
	ErrEmptyUserRole = errors.New("invalid rules: user_role must not be empty")
	// ErrNegativeThreshold is returned when a value threshold is below zero.
	ErrNegativeThreshold = errors.New("invalid rules: thresholds must be non-negative")
	// ErrMissingThreshold is returned when a rules file omits a value threshold.
	ErrMissingThreshold = errors.New("invalid rules: user_max_value and priority_threshold are required")
	// ErrInvalidThreshold is returned when a value threshold is not a decimal number.
	ErrInvalidThreshold = errors.New("invalid rules: thresholds must be decimal numbers")
)

// file is the on-disk YAML shape of Rules. Thresholds stay as nodes so their
// literal text reaches decimal parsing unrounded.
type file struct {
	AdminRole         string     `yaml:"admin_role"`
	UserRole          string     `yaml:"user_role"`
	UserMaxValue      *yaml.Node `yaml:"user_max_value"`
	PriorityThreshold *yaml.Node `yaml:"priority_threshold"`
}

// Rules holds the visibility and priority thresholds.
type Rules struct {
	// AdminRole sees every item and is the only role that flags priority.
	AdminRole item.Role `json:"admin_role"`
	// UserRole sees items whose value is at most UserMaxValue.
	UserRole item.Role `json:"user_role"`
	// UserMaxValue is inclusive.
	UserMaxValue decimal.Decimal `json:"user_max_value"`
	// PriorityThreshold is exclusive: only values strictly above it are flagged.
	PriorityThreshold decimal.Decimal `json:"priority_threshold"`
}

// DefaultRules returns the built-in rules: ADMIN sees all, USER sees values
// up to 500, ADMIN flags values above 1000.
func DefaultRules() Rules {
	r, err := Parse(policies.Default)
	if err != nil {
		panic(fmt.Sprintf("policy: embedded default rules are invalid: %v", err))
	}
	return r
}

// LoadRules reads rules from a YAML file. An empty path returns DefaultRules.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file %s: %w", path, err)
	}

	r, err := Parse(data)
	if err != nil {
		return Rules{}, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates rules from YAML.
func Parse(data []byte) (Rules, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Rules{}, err
	}

	userMax, err := parseThreshold("user_max_value", f.UserMaxValue)
	if err != nil {
		return Rules{}, err
	}
	priority, err := parseThreshold("priority_threshold", f.PriorityThreshold)
	if err != nil {
		return Rules{}, err
	}

	r := Rules{
		AdminRole:         item.Role(f.AdminRole),
		UserRole:          item.Role(f.UserRole),
		UserMaxValue:      userMax,
		PriorityThreshold: priority,
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

func parseThreshold(key string, n *yaml.Node) (decimal.Decimal, error) {
	if n == nil || n.Tag == "!!null" {
		return decimal.Decimal{}, fmt.Errorf("%w: %s is missing", ErrMissingThreshold, key)
	}
	if n.Kind != yaml.ScalarNode {
		return decimal.Decimal{}, fmt.Errorf("%w: %s must be a scalar", ErrInvalidThreshold, key)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s: %q", ErrInvalidThreshold, key, n.Value)
	}
	return d, nil
}

// Validate checks that the rules are usable.
func (r Rules) Validate() error {
	switch {
	case r.AdminRole == "":
		return ErrEmptyAdminRole
	case r.UserRole == "":
		return ErrEmptyUserRole
	case r.UserMaxValue.IsNegative(), r.PriorityThreshold.IsNegative():
		return ErrNegativeThreshold
	}
	return nil
}

// Visible reports whether u may see it.
func (r Rules) Visible(u item.User, it item.Item) bool {
	switch u.Role {
	case r.AdminRole:
		return true
	case r.UserRole:
		return it.Value.LessThanOrEqual(r.UserMaxValue)
	default:
		return false
	}
}

// Flags reports whether it should be marked priority for u. It never returns
// false for an item that is already flagged, so priority is never cleared.
func (r Rules) Flags(u item.User, it item.Item) bool {
	if it.Priority {
		return true
	}
	return u.Role == r.AdminRole && it.Value.GreaterThan(r.PriorityThreshold)
}
