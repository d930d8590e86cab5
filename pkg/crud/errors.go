package crud

import (
	"sort"
	"strings"

	"github.com/go-faster/errors"
)

// GeneralKey holds errors that belong to no single field.
const GeneralKey = "general"

const DefaultSubmitError = "An error occurred. Please try again."

var (
	ErrValidation     = errors.New("validation failed")
	ErrNotOpen        = errors.New("modal is not open")
	ErrSubmitInFlight = errors.New("submit already in flight")
	ErrImmutableField = errors.New("field is not editable")
	ErrUnknownField   = errors.New("unknown field")
	// ErrStale is returned when a result arrives for a modal that was closed
	// or reopened in the meantime. The result has been discarded.
	ErrStale = errors.New("stale result discarded")
)

// ValidationErrors maps field names to messages.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

func (v ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(v))
	for k, msg := range v {
		out[k] = msg
	}
	return out
}

// restrict keeps keys that name one of fields and folds the rest into
// GeneralKey.
func (v ValidationErrors) restrict(fields []string) ValidationErrors {
	allowed := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		allowed[f] = struct{}{}
	}
	out := ValidationErrors{}
	var extra []string
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == GeneralKey {
			continue
		}
		if _, ok := allowed[k]; ok {
			out[k] = v[k]
			continue
		}
		extra = append(extra, v[k])
	}
	general := v[GeneralKey]
	if len(extra) > 0 {
		if general != "" {
			extra = append([]string{general}, extra...)
		}
		general = strings.Join(extra, "; ")
	}
	if general != "" {
		out[GeneralKey] = general
	}
	return out
}
