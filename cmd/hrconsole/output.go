package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"

	"github.com/iota-uz/hr-console/modules/hrm/presentation/viewmodels"
	"github.com/iota-uz/hr-console/pkg/crud"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

type renderer struct {
	w      io.Writer
	format string
}

func newRenderer(w io.Writer, format string) (*renderer, error) {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return &renderer{w: w, format: format}, nil
	default:
		return nil, withCode(exitUsage, errors.Errorf("unknown output format %q (want table, json or yaml)", format))
	}
}

func (r *renderer) structured() bool {
	return r.format != formatTable
}

// encode writes v as JSON or YAML. It must only be called when structured
// output was requested.
func (r *renderer) encode(v any) error {
	if r.format == formatYAML {
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "yaml encode")
		}
		return enc.Close()
	}
	enc := json.NewEncoder(r.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "json encode")
	}
	return nil
}

func (r *renderer) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(r.w, t.Render())
}

func (r *renderer) fields(fields []viewmodels.Field) {
	width := 0
	for _, f := range fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}
	for _, f := range fields {
		value := f.Value
		if value == "" {
			value = mutedStyle.Render("-")
		}
		fmt.Fprintf(r.w, "%s  %s\n", labelStyle.Render(fmt.Sprintf("%-*s", width, f.Label)), value)
	}
}

func (r *renderer) banner(b crud.Banner) {
	style := successStyle
	if b.Kind == crud.BannerError {
		style = errorStyle
	}
	fmt.Fprintln(r.w, style.Render(b.Message))
}

func (r *renderer) footer(view pageInfo, plural string) {
	fmt.Fprintln(r.w, mutedStyle.Render(fmt.Sprintf("Page %d of %d (%d of %d %s)", view.Page, max(view.Pages, 1), view.Filtered, view.Total, plural)))
}

// validation prints a Validation Error Set, general error first.
func (r *renderer) validation(errs crud.ValidationErrors) {
	if msg, ok := errs[crud.GeneralKey]; ok {
		fmt.Fprintln(r.w, errorStyle.Render(msg))
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		if k != crud.GeneralKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(r.w, "  %s: %s\n", k, errorStyle.Render(errs[k]))
	}
}

type pageInfo struct {
	Page     int    `json:"page" yaml:"page"`
	Pages    int    `json:"pages" yaml:"pages"`
	PageSize int    `json:"page_size" yaml:"page_size"`
	Filtered int    `json:"filtered" yaml:"filtered"`
	Total    int    `json:"total" yaml:"total"`
	Search   string `json:"search,omitempty" yaml:"search,omitempty"`
}

type listOutput[VM any] struct {
	pageInfo `yaml:",inline"`
	Items    []VM `json:"items" yaml:"items"`
}

func pageInfoOf[T crud.Entity](view crud.PageView[T]) pageInfo {
	return pageInfo{
		Page:     view.Page,
		Pages:    view.Pages,
		PageSize: view.PageSize,
		Filtered: view.Filtered,
		Total:    view.Total,
		Search:   view.Search,
	}
}

func indent(s string, n int) string {
	return strings.Repeat("  ", n) + s
}
