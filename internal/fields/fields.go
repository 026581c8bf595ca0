// Package fields holds the small coercion and formatting rules shared by
// page implementations: how raw form input is read, and how stored
// answers are turned back into readable text.
package fields

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/HendryAvila/apply-wizard/internal/form"
)

const (
	Yes = "yes"
	No  = "no"
)

// String reads a scalar field. Missing and non-scalar values read as "".
func String(input form.Input, key string) string {
	switch v := input[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Strings reads a checkbox group. A single submitted value arrives as a
// plain string; empty entries are dropped.
func Strings(input form.Input, key string) []string {
	var raw []string
	switch v := input[key].(type) {
	case string:
		raw = []string{v}
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Contains reports whether values holds v.
func Contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// OnlyIf returns value when cond holds and "" otherwise. Used to drop
// follow-up answers to a sub-question that is no longer shown.
func OnlyIf(cond bool, value string) string {
	if cond {
		return value
	}
	return ""
}

// Blank reports whether a free-text answer is empty after trimming.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsYesNo reports whether v is a valid yes/no answer.
func IsYesNo(v string) bool {
	return v == Yes || v == No
}

// YesNoLabel renders a yes/no answer.
func YesNoLabel(v string) string {
	switch v {
	case Yes:
		return "Yes"
	case No:
		return "No"
	default:
		return v
	}
}

// Label translates a choice value, falling back to the raw value.
func Label(value string, labels map[string]string) string {
	if l, ok := labels[value]; ok {
		return l
	}
	return value
}

// JoinLabels renders a checkbox group as its labels joined with ", ".
func JoinLabels(values []string, labels map[string]string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, Label(v, labels))
	}
	return strings.Join(out, ", ")
}

// Choice is one option of a radio or checkbox group.
type Choice struct {
	Value string
	Label string
}

// Choices is an ordered option list.
type Choices []Choice

// Labels returns the value → label map of the options.
func (c Choices) Labels() map[string]string {
	m := make(map[string]string, len(c))
	for _, ch := range c {
		m[ch.Value] = ch.Label
	}
	return m
}

// Has reports whether v is one of the option values.
func (c Choices) Has(v string) bool {
	for _, ch := range c {
		if ch.Value == v {
			return true
		}
	}
	return false
}

// Filter keeps the values that are valid options, in submitted order.
func (c Choices) Filter(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if c.Has(v) {
			out = append(out, v)
		}
	}
	return out
}

// Int reads a whole-number field, reporting whether it parsed.
func Int(input form.Input, key string) (int, bool) {
	s := strings.TrimSpace(String(input, key))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Pluralize renders "1 week" / "3 weeks".
func Pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
