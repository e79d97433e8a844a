package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
	"github.com/nextlevelbuilder/anyctl/internal/notify"
)

// pageFlags binds --offset and --limit.
type pageFlags struct {
	offset int
	limit  int
}

func (p *pageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.offset, "offset", 0, "skip this many results")
	cmd.Flags().IntVar(&p.limit, "limit", anytype.DefaultPageSize, "maximum number of results")
}

func (p *pageFlags) page() anytype.Page {
	return anytype.Page{Offset: p.offset, Limit: p.limit}
}

func printMore(pg anytype.Pagination) {
	if pg.HasMore {
		fmt.Fprintf(os.Stderr, "showing %d-%d of %d, use --offset %d for more\n",
			pg.Offset+1, pg.Offset+pg.Limit, pg.Total, pg.Offset+pg.Limit)
	}
}

func glyph(ctx context.Context, icon *anytype.Icon, layout string) string {
	return anytype.ResolveIcon(ctx, icon, layout, nil).Glyph()
}

// resolveSpace returns id, or lets the user pick a space when it is empty.
func resolveSpace(ctx context.Context, a *app, id string) string {
	if id != "" {
		return id
	}
	if !isInteractive() {
		fail(errors.New("space id required"))
	}
	list, _, err := a.client.ListSpaces(ctx, anytype.Page{})
	if err != nil {
		fail(err)
	}
	if len(list.Data) == 0 {
		fail(errors.New("no spaces found"))
	}
	opts := make([]SelectOption[string], len(list.Data))
	for i, s := range list.Data {
		opts[i] = SelectOption[string]{Label: glyph(ctx, s.Icon, "space") + " " + s.Name, Value: s.ID}
	}
	picked, err := promptSelect("Space", opts, 0)
	if err != nil {
		fail(err)
	}
	return picked
}

func spacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spaces",
		Short: "Browse and create spaces",
	}
	cmd.AddCommand(spacesListCmd())
	cmd.AddCommand(spacesGetCmd())
	cmd.AddCommand(spacesCreateCmd())
	cmd.AddCommand(spacesUpdateCmd())
	return cmd
}

func spacesListCmd() *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List spaces",
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			list, _, err := a.client.ListSpaces(ctx, pf.page())
			if err != nil {
				fail(err)
			}
			if ok, err := printStructured(os.Stdout, list); ok {
				if err != nil {
					fail(err)
				}
				return
			}
			if len(list.Data) == 0 {
				fmt.Println("No spaces.")
				return
			}
			t := newTable("", "ID", "NAME", "DESCRIPTION")
			for _, s := range list.Data {
				t.add(glyph(ctx, s.Icon, "space"), s.ID, s.Name, s.Description)
			}
			t.render(os.Stdout)
			printMore(list.Pagination)
		},
	}
	pf.bind(cmd)
	return cmd
}

func spacesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [space-id]",
		Short: "Show a space",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			var id string
			if len(args) == 1 {
				id = args[0]
			}
			space, err := a.client.GetSpace(ctx, resolveSpace(ctx, a, id))
			if err != nil {
				fail(err)
			}
			if ok, err := printStructured(os.Stdout, space); ok {
				if err != nil {
					fail(err)
				}
				return
			}
			fmt.Printf("%s %s\n", glyph(ctx, space.Icon, "space"), space.Name)
			fmt.Printf("  ID:          %s\n", space.ID)
			if space.Description != "" {
				fmt.Printf("  Description: %s\n", space.Description)
			}
			if space.NetworkID != "" {
				fmt.Printf("  Network:     %s\n", space.NetworkID)
			}
			if space.GatewayURL != "" {
				fmt.Printf("  Gateway:     %s\n", space.GatewayURL)
			}
		},
	}
}

func spacesCreateCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a space",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			name := argOrPrompt(args, "Space name", "name")
			space, err := a.client.CreateSpace(ctx, anytype.CreateSpaceRequest{Name: name, Description: description})
			if err != nil {
				fail(err)
			}
			a.notifier.Notify(notify.Notice{Style: notify.Success, Title: "Space created", Message: space.ID})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "space description")
	return cmd
}

func spacesUpdateCmd() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "update <space-id>",
		Short: "Rename a space or change its description",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			var req anytype.UpdateSpaceRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if req.Name == nil && req.Description == nil {
				fail(errors.New("nothing to update, pass --name or --description"))
			}
			if _, err := a.client.UpdateSpace(ctx, args[0], req); err != nil {
				fail(err)
			}
			a.notifier.Notify(notify.Notice{Style: notify.Success, Title: "Space updated"})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}

func membersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Inspect space members",
	}
	var pf pageFlags
	list := &cobra.Command{
		Use:   "list [space-id]",
		Short: "List the members of a space",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			var id string
			if len(args) == 1 {
				id = args[0]
			}
			members, err := a.client.ListMembers(ctx, resolveSpace(ctx, a, id), pf.page())
			if err != nil {
				fail(err)
			}
			if ok, err := printStructured(os.Stdout, members); ok {
				if err != nil {
					fail(err)
				}
				return
			}
			t := newTable("", "NAME", "GLOBAL NAME", "ROLE", "STATUS")
			for _, m := range members.Data {
				t.add(glyph(ctx, m.Icon, "participant"), m.Name, m.GlobalName, m.Role, m.Status)
			}
			t.render(os.Stdout)
			printMore(members.Pagination)
		},
	}
	pf.bind(list)
	cmd.AddCommand(list)
	return cmd
}

// argOrPrompt returns args[0] or asks for a required value.
func argOrPrompt(args []string, title, field string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if !isInteractive() {
		fail(&anytype.ValidationError{Field: field, Message: "Name is required"})
	}
	v, err := promptRequired(title, field)
	if err != nil {
		fail(err)
	}
	return v
}
