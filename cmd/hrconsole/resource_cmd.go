package main

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/hr-console/modules/hrm"
	"github.com/iota-uz/hr-console/modules/hrm/presentation/mappers"
	"github.com/iota-uz/hr-console/modules/hrm/presentation/viewmodels"
	"github.com/iota-uz/hr-console/pkg/crud"
)

// formHook runs after a form opened and before --set values are applied.
type formHook[T crud.Entity] func(ctx context.Context, a *app, form *crud.FormController[T]) error

// resource describes one list page to the generic command builder.
type resource[T crud.Entity, VM interface{ Row() []string }] struct {
	name     string
	singular string
	headers  []string
	page     func(*hrm.Console) *crud.Page[T]
	row      func(T, mappers.Resolver) VM
	details  func(T, mappers.Resolver) []viewmodels.Field
	// formFlags registers extra add/edit flags and returns the hook that
	// acts on them.
	formFlags func(cmd *cobra.Command) formHook[T]
}

func newResourceCmd[T crud.Entity, VM interface{ Row() []string }](c *cli, r resource[T, VM]) *cobra.Command {
	cmd := &cobra.Command{
		Use:         r.name,
		Short:       "Manage " + r.name,
		Annotations: protected(),
	}
	cmd.AddCommand(newListCmd(c, r))
	cmd.AddCommand(newViewCmd(c, r))
	cmd.AddCommand(newFormCmd(c, r, crud.ModeCreate))
	cmd.AddCommand(newFormCmd(c, r, crud.ModeEdit))
	cmd.AddCommand(newDeleteCmd(c, r))
	return cmd
}

type listFlags struct {
	search   string
	page     int
	pageSize int
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "Case-insensitive filter")
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "Rows per page (default PAGE_SIZE)")
}

func (f *listFlags) apply(list interface {
	Search(string)
	SetPageSize(int)
	SetPage(int)
}) {
	if f.search != "" {
		list.Search(f.search)
	}
	if f.pageSize > 0 {
		list.SetPageSize(f.pageSize)
	}
	list.SetPage(f.page)
}

// mount loads list and turns a load failure into its banner.
func mount[T crud.Entity](ctx context.Context, out *renderer, list *crud.ListController[T]) error {
	if err := list.Mount(ctx); err != nil {
		if banner, ok := list.Banner(); ok && !out.structured() {
			out.banner(banner)
		}
		return withCode(exitAPI, err)
	}
	return nil
}

func findRow[T crud.Entity](list *crud.ListController[T], singular, id string) (T, error) {
	row, ok := list.Find(id)
	if !ok {
		return row, withCode(exitUsage, errors.Errorf("%s %s not found", singular, id))
	}
	return row, nil
}

func renderList[T crud.Entity, VM interface{ Row() []string }](out *renderer, list *crud.ListController[T], headers []string, plural string, toVM func(T, mappers.Resolver) VM) error {
	view := list.View()
	items := make([]VM, 0, len(view.Items))
	rows := make([][]string, 0, len(view.Items))
	for _, item := range view.Items {
		vm := toVM(item, list.Lookup)
		items = append(items, vm)
		rows = append(rows, vm.Row())
	}
	info := pageInfoOf(view)
	if out.structured() {
		return out.encode(listOutput[VM]{pageInfo: info, Items: items})
	}
	if banner, ok := list.Banner(); ok {
		out.banner(banner)
	}
	out.table(headers, rows)
	out.footer(info, plural)
	return nil
}

func newListCmd[T crud.Entity, VM interface{ Row() []string }](c *cli, r resource[T, VM]) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + r.name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.render()
			if err != nil {
				return err
			}
			list := r.page(c.app.console).List
			if err := mount(cmd.Context(), out, list); err != nil {
				return err
			}
			flags.apply(list)
			return renderList(out, list, r.headers, r.name, r.row)
		},
	}
	flags.register(cmd)
	return cmd
}

func newViewCmd[T crud.Entity, VM interface{ Row() []string }](c *cli, r resource[T, VM]) *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show one " + r.singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out, err := c.render()
			if err != nil {
				return err
			}
			page := r.page(c.app.console)
			if err := mount(ctx, out, page.List); err != nil {
				return err
			}
			row, err := findRow(page.List, r.singular, args[0])
			if err != nil {
				return err
			}
			defer page.View.Close()
			record := row
			if err := page.View.Open(ctx, row); err != nil {
				fmt.Fprintln(c.errOut, errorStyle.Render(page.View.Error()))
			} else {
				record, _ = page.View.Record()
			}
			fields := r.details(record, page.List.Lookup)
			if out.structured() {
				return out.encode(fields)
			}
			out.fields(fields)
			return nil
		},
	}
}

func newFormCmd[T crud.Entity, VM interface{ Row() []string }](c *cli, r resource[T, VM], mode crud.Mode) *cobra.Command {
	var sets []string
	use, short, args := "add", "Add a "+r.singular, cobra.NoArgs
	if mode == crud.ModeEdit {
		use, short, args = "edit <id>", "Edit a "+r.singular, cobra.ExactArgs(1)
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value (repeatable)")
	var hook formHook[T]
	if r.formFlags != nil {
		hook = r.formFlags(cmd)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out, err := c.render()
		if err != nil {
			return err
		}
		assignments, err := parseAssignments(sets)
		if err != nil {
			return err
		}
		page := r.page(c.app.console)
		if err := mount(ctx, out, page.List); err != nil {
			return err
		}

		form := page.Add
		if mode == crud.ModeEdit {
			form = page.Edit
			row, err := findRow(page.List, r.singular, args[0])
			if err != nil {
				return err
			}
			if err := page.View.Open(ctx, row); err != nil {
				c.app.log.WithError(err).Debug("editing from the list row")
			}
			if err := page.View.Edit(ctx, form); err != nil {
				return err
			}
		} else if err := form.OpenAdd(ctx); err != nil {
			return err
		}
		defer form.Close()

		if hook != nil {
			if err := hook(ctx, c.app, form); err != nil {
				return err
			}
		}
		if err := applyAssignments(form, assignments); err != nil {
			return err
		}
		if err := form.Submit(ctx); err != nil {
			return submitFailure(out, form.Errors(), err)
		}

		if banner, ok := page.List.Banner(); ok && !out.structured() {
			out.banner(banner)
		}
		return renderList(out, page.List, r.headers, r.name, r.row)
	}
	return cmd
}

// submitFailure prints the Validation Error Set left in the modal.
func submitFailure(out *renderer, errs crud.ValidationErrors, err error) error {
	if out.structured() {
		if encErr := out.encode(map[string]any{"errors": errs}); encErr != nil {
			return encErr
		}
	} else {
		out.validation(errs)
	}
	if errors.Is(err, crud.ErrValidation) {
		return withCode(exitValidation, err)
	}
	return err
}

func newDeleteCmd[T crud.Entity, VM interface{ Row() []string }](c *cli, r resource[T, VM]) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + r.singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out, err := c.render()
			if err != nil {
				return err
			}
			if !yes {
				return withCode(exitUsage, errors.Errorf("refusing to delete %s %s without --yes", r.singular, args[0]))
			}
			page := r.page(c.app.console)
			if err := mount(ctx, out, page.List); err != nil {
				return err
			}
			row, err := findRow(page.List, r.singular, args[0])
			if err != nil {
				return err
			}
			page.Delete.Open(row)
			defer page.Delete.Close()
			if err := page.Delete.Confirm(ctx); err != nil {
				return withCode(exitCode(err), errors.Wrap(err, page.Delete.Error()))
			}
			if banner, ok := page.List.Banner(); ok && !out.structured() {
				out.banner(banner)
			}
			return renderList(out, page.List, r.headers, r.name, r.row)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}
