package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/hr-console/modules/hrm"
	"github.com/iota-uz/hr-console/modules/hrm/presentation/mappers"
	"github.com/iota-uz/hr-console/modules/hrm/presentation/viewmodels"
	"github.com/iota-uz/hr-console/pkg/types"
)

func newDashboardCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:         "dashboard",
		Short:       "Show record counts",
		Args:        cobra.NoArgs,
		Annotations: protected(),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.render()
			if err != nil {
				return err
			}
			stats, err := c.app.console.Dashboard(cmd.Context())
			if err != nil {
				return withCode(exitAPI, err)
			}
			if out.structured() {
				return out.encode(stats)
			}
			out.table([]string{"Resource", "Count"}, [][]string{
				{"Employees", fmt.Sprint(stats.Employees)},
				{"Departments", fmt.Sprint(stats.Departments)},
				{"Locations", fmt.Sprint(stats.Locations)},
				{"Jobs", fmt.Sprint(stats.Jobs)},
			})
			return nil
		},
	}
}

type navEntry struct {
	Name     string     `json:"name" yaml:"name"`
	Command  string     `json:"command,omitempty" yaml:"command,omitempty"`
	Children []navEntry `json:"children,omitempty" yaml:"children,omitempty"`
}

func localizeNav(items []types.NavigationItem, localize func(string) string) []navEntry {
	out := make([]navEntry, 0, len(items))
	for _, item := range items {
		out = append(out, navEntry{
			Name:     localize(item.Name),
			Command:  item.Href,
			Children: localizeNav(item.Children, localize),
		})
	}
	return out
}

func newNavCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "List the pages available to the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.render()
			if err != nil {
				return err
			}
			v := c.app.console.Validator
			items := types.FilterItems(hrm.NavItems, c.app.store.IsAuthenticated())
			entries := localizeNav(items, func(id string) string { return v.Localize(id, nil) })
			if out.structured() {
				return out.encode(entries)
			}
			printNav(c, entries, 0)
			return nil
		},
	}
}

func printNav(c *cli, entries []navEntry, depth int) {
	for _, e := range entries {
		line := labelStyle.Render(e.Name)
		if e.Command != "" {
			line += "  " + mutedStyle.Render("hrconsole "+e.Command)
		}
		fmt.Fprintln(c.out, indent(line, depth))
		printNav(c, e.Children, depth+1)
	}
}

func newJobHistoryCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:         "job-history",
		Short:       "Browse job history",
		Annotations: protected(),
	}
	var (
		flags    listFlags
		employee string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List job history, optionally for one employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.render()
			if err != nil {
				return err
			}
			history := c.app.console.JobHistory
			if employee != "" {
				history = c.app.console.JobHistoryFor(employee)
				defer history.Unmount()
			}
			if err := mount(cmd.Context(), out, history); err != nil {
				return err
			}
			flags.apply(history)
			return renderList(out, history, viewmodels.JobHistoryHeaders, "entries", mappers.JobHistoryToViewModel)
		},
	}
	flags.register(list)
	list.Flags().StringVar(&employee, "employee", "", "Only this employee's history")
	root.AddCommand(list)
	return root
}
