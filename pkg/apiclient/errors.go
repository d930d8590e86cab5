package apiclient

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

var (
	// ErrUnauthorized is returned for 401 responses, after the session was
	// already expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnsuccessful is returned when a 2xx body carries success:false.
	ErrUnsuccessful = errors.New("request unsuccessful")
	// ErrStatus is returned for any other non-2xx response.
	ErrStatus = errors.New("unexpected response status")
	// ErrTransport covers connection failures and unreadable bodies.
	ErrTransport = errors.New("transport failure")
	// ErrMalformed is returned when a success envelope lacks its payload.
	ErrMalformed = errors.New("malformed response")
)

// Error is the structured failure of one API call.
type Error struct {
	Status  int
	Message string
	Code    string
	Errors  map[string]string
	Meta    map[string]string
	Cause   error

	kind error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.kind.Error())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status=%d)", e.Status)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " code=%s", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Is(target error) bool {
	return target == e.kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Field returns the field a structured conflict points at, if any.
func (e *Error) Field() string {
	if e.Meta == nil {
		return ""
	}
	return e.Meta["field"]
}

// AsError extracts the *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorBody tolerates both the structured contract and the legacy shape,
// where "error" repeats the numeric status.
type errorBody struct {
	Success *bool             `json:"success"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Error   json.RawMessage   `json:"error"`
	Errors  json.RawMessage   `json:"errors"`
	Meta    map[string]string `json:"meta"`
}

func (b *errorBody) code() string {
	if b.Code != "" {
		return b.Code
	}
	var s string
	if len(b.Error) > 0 && json.Unmarshal(b.Error, &s) == nil {
		return s
	}
	return ""
}

// fieldErrors flattens {"field": "msg"} and {"field": ["msg", ...]}.
func (b *errorBody) fieldErrors() map[string]string {
	if len(b.Errors) == 0 {
		return nil
	}
	var flat map[string]string
	if err := json.Unmarshal(b.Errors, &flat); err == nil {
		return nonEmpty(flat)
	}
	var lists map[string][]string
	if err := json.Unmarshal(b.Errors, &lists); err == nil {
		out := make(map[string]string, len(lists))
		for field, msgs := range lists {
			if len(msgs) > 0 {
				out[field] = msgs[0]
			}
		}
		return nonEmpty(out)
	}
	return nil
}

func nonEmpty(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}

func newResponseError(kind error, status int, body []byte) *Error {
	e := &Error{Status: status, kind: kind}
	var parsed errorBody
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		e.Message = strings.TrimSpace(parsed.Message)
		e.Code = parsed.code()
		e.Errors = parsed.fieldErrors()
		e.Meta = parsed.Meta
	}
	return e
}

func newTransportError(cause error) *Error {
	return &Error{kind: ErrTransport, Cause: cause}
}
