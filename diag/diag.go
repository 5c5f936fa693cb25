// Package diag is the uniform error payload this module's CLI and library
// surfaces share, grounded directly on internal/core/errorfmt.go's
// CLIError: one struct that prints tersely for humans and marshals cleanly
// for --json callers.
package diag

import "encoding/json"

// Code enumerates the error identifiers this module raises.
const (
	CodeInvalidHandle   = "ERR_INVALID_HANDLE"
	CodeSlotSchema      = "ERR_SLOT_SCHEMA"
	CodeUnresolved      = "ERR_UNRESOLVED"
	CodeUnsupportedType = "ERR_UNSUPPORTED_TYPE"
	CodeParse           = "ERR_PARSE"
	CodeIO              = "ERR_IO"
	CodeInvalidConfig   = "ERR_INVALID_CONFIG"
)

// Error is a uniform error payload for both human and JSON output. When
// printed with %s/.Error() it returns Message (plus Detail when present);
// marshaled to JSON it exposes all three fields.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e Error) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// JSON renders e as a single-line JSON object.
func (e Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Wrap builds an Error with code and msg, folding inner's message into
// Detail so the original cause survives past the CLI boundary.
func Wrap(code, msg string, inner error) error {
	if inner == nil {
		return Error{Code: code, Message: msg}
	}
	return Error{Code: code, Message: msg, Detail: inner.Error()}
}

// Collector accumulates warnings for a single run, deduplicating by message
// so a pass that revisits the same offending node shape many times (e.g. one
// four-valued literal kind repeated across a tree) reports it once, grounded
// on internal/core/pipeline.go's errorResult/Diagnostics accumulation.
type Collector struct {
	seen     map[string]struct{}
	Warnings []Error
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]struct{})}
}

// Warn records a warning-severity Error unless its Message was already seen.
func (c *Collector) Warn(code, msg string) {
	if _, ok := c.seen[msg]; ok {
		return
	}
	c.seen[msg] = struct{}{}
	c.Warnings = append(c.Warnings, Error{Code: code, Message: msg})
}

// Len returns how many distinct warnings have been recorded.
func (c *Collector) Len() int { return len(c.Warnings) }
