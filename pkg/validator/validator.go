package validator

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// Error lists every field in name order.
func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v[f]
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Err returns nil when there are no errors, so callers can return it as an
// error directly.
func (v ValidationErrors) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

var slackIDRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,}$`)

func Required(errs ValidationErrors, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, "Value is required")
		return false
	}
	return true
}

func OneOf(errs ValidationErrors, field, value string, allowed ...string) {
	if !slices.Contains(allowed, value) {
		errs.Add(field, fmt.Sprintf("Must be one of %s", strings.Join(allowed, ", ")))
	}
}

// URL checks that raw parses as an absolute URL with one of the schemes.
func URL(errs ValidationErrors, field, raw string, schemes ...string) {
	if !Required(errs, field, raw) {
		return
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		errs.Add(field, "Invalid URL")
		return
	}
	if !slices.Contains(schemes, u.Scheme) {
		errs.Add(field, fmt.Sprintf("URL scheme must be one of %s", strings.Join(schemes, ", ")))
	}
}

func HostPort(errs ValidationErrors, field, addr string) {
	if !Required(errs, field, addr) {
		return
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		errs.Add(field, "Must be host:port")
	}
}

func UUID(errs ValidationErrors, field, value string) {
	if !Required(errs, field, value) {
		return
	}
	if _, err := uuid.Parse(value); err != nil {
		errs.Add(field, "Invalid UUID")
	}
}

// SlackID accepts identifiers such as U0CJ5PC7L or T0CHZBU59.
func SlackID(errs ValidationErrors, field, value string) {
	if value != "" && !slackIDRegex.MatchString(value) {
		errs.Add(field, "Invalid identifier")
	}
}
