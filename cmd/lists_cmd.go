package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
	"github.com/nextlevelbuilder/anyctl/internal/notify"
)

func listsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Work with collections and their views",
	}
	cmd.AddCommand(listsAddCmd())
	cmd.AddCommand(listsRemoveCmd())
	cmd.AddCommand(listsViewsCmd())
	cmd.AddCommand(listsObjectsCmd())
	return cmd
}

func listsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <space-id> <list-id> [object-id...]",
		Short: "Add objects to a collection (pick interactively when none given)",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			spaceID, listID, ids := args[0], args[1], args[2:]
			if len(ids) == 0 {
				if !isInteractive() {
					fail(errors.New("no object ids given"))
				}
				objs, err := a.client.ListObjects(ctx, spaceID, anytype.Page{})
				if err != nil {
					fail(err)
				}
				opts := make([]SelectOption[string], 0, len(objs.Data))
				for _, o := range objs.Data {
					if o.ID == listID {
						continue
					}
					opts = append(opts, SelectOption[string]{Label: glyph(ctx, o.Icon, o.Layout) + " " + o.Name, Value: o.ID})
				}
				ids, err = promptMultiSelect("Objects", "Space toggles, Enter confirms", opts)
				if err != nil {
					fail(err)
				}
				if len(ids) == 0 {
					return
				}
			}

			if err := a.client.AddToList(ctx, spaceID, listID, ids); err != nil {
				fail(err)
			}
			a.notifier.Notify(notify.Notice{
				Style:   notify.Success,
				Title:   "Added to list",
				Message: fmt.Sprintf("%d object(s)", len(ids)),
			})
		},
	}
}

func listsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <space-id> <list-id> <object-id>",
		Short: "Remove an object from a collection",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			if err := a.client.RemoveFromList(ctx, args[0], args[1], args[2]); err != nil {
				fail(err)
			}
			a.notifier.Notify(notify.Notice{Style: notify.Success, Title: "Removed from list"})
		},
	}
}

func listsViewsCmd() *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "views <space-id> <list-id>",
		Short: "List the views of a collection or set",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			views, err := a.client.ListViews(ctx, args[0], args[1], pf.page())
			if err != nil {
				fail(err)
			}
			if ok, err := printStructured(os.Stdout, views); ok {
				if err != nil {
					fail(err)
				}
				return
			}
			t := newTable("ID", "NAME", "LAYOUT")
			for _, v := range views.Data {
				t.add(v.ID, v.Name, v.Layout)
			}
			t.render(os.Stdout)
			printMore(views.Pagination)
		},
	}
	pf.bind(cmd)
	return cmd
}

func listsObjectsCmd() *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "objects <space-id> <list-id> <view-id>",
		Short: "List the objects shown in a view",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			list, err := a.client.ListObjectsInView(ctx, args[0], args[1], args[2], pf.page())
			if err != nil {
				fail(err)
			}
			printObjects(ctx, list)
		},
	}
	pf.bind(cmd)
	return cmd
}
