// Package policy decides which principals may run which operations on which
// datasets and tables.
package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrPermissionDenied is wrapped by every AssertAllowed denial.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidPolicy is returned when the policy document cannot be loaded.
	ErrInvalidPolicy = errors.New("invalid policy")
)

// Error is a policy failure whose message is safe to return to callers.
type Error struct {
	msg  string
	kind error
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func denied(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...), kind: ErrPermissionDenied}
}

func invalid(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...), kind: ErrInvalidPolicy}
}

// Wildcard in a dataset's table list allows every table of the dataset.
const Wildcard = "*"

// Rules are the grants of one principal.
type Rules struct {
	// Operations holds operation names; non-string entries are ignored.
	Operations []any `json:"operations"`
	// Datasets maps a dataset to its allowed tables.
	Datasets map[string][]any `json:"datasets"`
}

// Document is the access policy as configured in POLICY_JSON.
type Document struct {
	Principals map[string]Rules `json:"principals"`
	Default    *Rules           `json:"default"`
}

// Engine evaluates a policy document.
type Engine struct {
	doc Document
}

// New returns an engine over doc.
func New(doc Document) *Engine {
	return &Engine{doc: doc}
}

// Load builds an engine from POLICY_JSON: an inline JSON object when the
// trimmed value starts with "{", otherwise the path to a JSON file.
func Load(raw string) (*Engine, error) {
	raw = strings.TrimSpace(raw)

	data := []byte(raw)
	if !strings.HasPrefix(raw, "{") {
		if _, err := os.Stat(raw); err != nil {
			return nil, invalid("POLICY_JSON must be a JSON string or path to JSON file.")
		}
		b, err := os.ReadFile(raw)
		if err != nil {
			return nil, invalid("read policy file %s: %v", raw, err)
		}
		data = b
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, invalid("parse policy: %v", err)
	}
	return New(doc), nil
}

func (e *Engine) rulesFor(principal string) Rules {
	key := strings.ToLower(strings.TrimSpace(principal))
	if r, ok := e.doc.Principals[key]; ok {
		return r
	}
	if e.doc.Default != nil {
		return *e.doc.Default
	}
	return Rules{}
}

func normalizeOps(ops []any) map[string]struct{} {
	out := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		s, ok := op.(string)
		if !ok {
			continue
		}
		out[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
	}
	return out
}

func contains(list []any, want string) bool {
	for _, v := range list {
		if s, ok := v.(string); ok && s == want {
			return true
		}
	}
	return false
}

// AssertAllowed returns nil when principal may run operation on
// dataset.table, or an error wrapping ErrPermissionDenied.
func (e *Engine) AssertAllowed(principal, operation, dataset, table string) error {
	rules := e.rulesFor(principal)

	op := strings.ToUpper(strings.TrimSpace(operation))
	if _, ok := normalizeOps(rules.Operations)[op]; !ok {
		return denied("Operation '%s' is not allowed for principal '%s'", op, principal)
	}

	tables, ok := rules.Datasets[dataset]
	if !ok || tables == nil {
		return denied("Dataset '%s' is not allowed for principal '%s'", dataset, principal)
	}
	if contains(tables, Wildcard) {
		return nil
	}
	if !contains(tables, table) {
		return denied("Table '%s.%s' is not allowed for principal '%s'", dataset, table, principal)
	}
	return nil
}
