package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iota-uz/hr-console/modules/hrm"
	"github.com/iota-uz/hr-console/pkg/spotlight"
)

func newFindCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy-find a console page",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.render()
			if err != nil {
				return err
			}
			v := c.app.console.Validator
			found := spotlight.FromNavigation(hrm.NavItems).Find(
				strings.Join(args, " "),
				c.app.store.IsAuthenticated(),
				func(id string) string { return v.Localize(id, nil) },
			)
			if out.structured() {
				return out.encode(found)
			}
			if len(found) == 0 {
				fmt.Fprintln(c.out, mutedStyle.Render("No matching pages"))
				return nil
			}
			rows := make([][]string, 0, len(found))
			for _, item := range found {
				rows = append(rows, []string{item.Label, "hrconsole " + item.Command})
			}
			out.table([]string{"Page", "Command"}, rows)
			return nil
		},
	}
}
