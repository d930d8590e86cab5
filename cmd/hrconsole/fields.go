package main

import (
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/iota-uz/hr-console/pkg/crud"
)

type assignment struct {
	field string
	value string
}

// parseAssignments reads repeated field=value flags. Order is kept so later
// values win, as with repeated keystrokes.
func parseAssignments(raw []string) ([]assignment, error) {
	out := make([]assignment, 0, len(raw))
	for _, item := range raw {
		field, value, ok := strings.Cut(item, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, withCode(exitUsage, errors.Errorf("invalid --set %q: want field=value", item))
		}
		out = append(out, assignment{field: field, value: value})
	}
	return out, nil
}

// parseInline reads "key=value,key=value" as used by the nested-create flags.
func parseInline(raw string) (map[string]string, error) {
	out := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, withCode(exitUsage, errors.Errorf("invalid pair %q: want key=value", part))
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// suggestField returns the known field closest to name, or "".
func suggestField(name string, fields []string) string {
	ranks := fuzzy.RankFindNormalizedFold(name, fields)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, bestDistance := "", 4
	for _, f := range fields {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), f); d < bestDistance {
			best, bestDistance = f, d
		}
	}
	return best
}

func unknownFieldError(name string, fields []string) error {
	msg := "unknown field \"" + name + "\""
	if s := suggestField(name, fields); s != "" {
		msg += "; did you mean \"" + s + "\"?"
	}
	return withCode(exitUsage, errors.Wrap(crud.ErrUnknownField, msg))
}

type settable interface {
	Set(field, value string) error
	Fields() []string
}

func applyAssignments(form settable, assignments []assignment) error {
	for _, a := range assignments {
		err := form.Set(a.field, a.value)
		switch {
		case err == nil:
		case errors.Is(err, crud.ErrUnknownField):
			return unknownFieldError(a.field, form.Fields())
		case errors.Is(err, crud.ErrImmutableField):
			return withCode(exitUsage, errors.Errorf("%s cannot be changed once created", a.field))
		default:
			return err
		}
	}
	return nil
}

func applyInline(form settable, values map[string]string, aliases map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assignments := make([]assignment, 0, len(keys))
	for _, k := range keys {
		field := k
		if alias, ok := aliases[k]; ok {
			field = alias
		}
		assignments = append(assignments, assignment{field: field, value: values[k]})
	}
	return applyAssignments(form, assignments)
}
