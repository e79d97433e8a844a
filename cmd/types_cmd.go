package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
	"github.com/nextlevelbuilder/anyctl/internal/notify"
)

// typeLayouts are the layouts a new type may use.
var typeLayouts = []string{"basic", "profile", "action", "note"}

func typesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List and create object types",
	}
	cmd.AddCommand(typesListCmd())
	cmd.AddCommand(typesGetCmd())
	cmd.AddCommand(typesCreateCmd())
	return cmd
}

func typesListCmd() *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "list [space-id]",
		Short: "List the types of a space",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			list, err := a.client.ListTypes(ctx, resolveSpace(ctx, a, firstArg(args)), pf.page())
			if err != nil {
				fail(err)
			}
			if ok, err := printStructured(os.Stdout, list); ok {
				if err != nil {
					fail(err)
				}
				return
			}
			t := newTable("", "ID", "KEY", "NAME", "LAYOUT")
			for _, ty := range list.Data {
				if ty.Archived {
					continue
				}
				t.add(glyph(ctx, ty.Icon, ty.Layout), ty.ID, ty.Key, ty.Name, ty.Layout)
			}
			t.render(os.Stdout)
			printMore(list.Pagination)
		},
	}
	pf.bind(cmd)
	return cmd
}

func typesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <space-id> <type-id>",
		Short: "Show a type and its properties",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			ty, err := a.client.GetType(ctx, args[0], args[1])
			if err != nil {
				fail(err)
			}
			if ok, err := printStructured(os.Stdout, ty); ok {
				if err != nil {
					fail(err)
				}
				return
			}
			fmt.Printf("%s %s (%s)\n", glyph(ctx, ty.Icon, ty.Layout), ty.Name, ty.Key)
			t := newTable("KEY", "NAME", "FORMAT")
			for _, p := range ty.Properties {
				t.add(p.Key, p.Name, string(p.Format))
			}
			t.render(os.Stdout)
		},
	}
}

func typesCreateCmd() *cobra.Command {
	var (
		key, plural, layout, icon string
		props                     []string
	)
	cmd := &cobra.Command{
		Use:   "create <space-id> [name]",
		Short: "Create an object type",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			name := argOrPrompt(args[1:], "Type name", "name")
			if layout == "" {
				layout = typeLayouts[0]
				if isInteractive() {
					opts := make([]SelectOption[string], len(typeLayouts))
					for i, l := range typeLayouts {
						opts[i] = SelectOption[string]{Label: l, Value: l}
					}
					picked, err := promptSelect("Layout", opts, 0)
					if err != nil {
						fail(err)
					}
					layout = picked
				}
			}
			if plural == "" {
				plural = name + "s"
			}

			req := anytype.CreateTypeRequest{Key: key, Name: name, PluralName: plural, Layout: layout}
			if icon != "" {
				ic, err := parseEmojiIcon(icon)
				if err != nil {
					fail(err)
				}
				req.Icon = ic
			}
			for _, def := range props {
				p, err := parsePropertyDef(def)
				if err != nil {
					fail(err)
				}
				req.Properties = append(req.Properties, p)
			}

			ty, err := a.client.CreateType(ctx, args[0], req)
			if err != nil {
				fail(err)
			}
			a.notifier.Notify(notify.Notice{Style: notify.Success, Title: "Type created", Message: ty.Key})
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "type key (derived from the name when empty)")
	cmd.Flags().StringVar(&plural, "plural", "", "plural name")
	cmd.Flags().StringVar(&layout, "layout", "", "layout: "+strings.Join(typeLayouts, ", "))
	cmd.Flags().StringVar(&icon, "icon", "", "emoji icon")
	cmd.Flags().StringArrayVarP(&props, "prop", "p", nil, "property as name:format (repeatable)")
	return cmd
}

// parsePropertyDef parses "Name:format" into a property definition.
func parsePropertyDef(s string) (anytype.Property, error) {
	name, format, ok := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return anytype.Property{}, &anytype.ValidationError{Field: "prop", Message: fmt.Sprintf("expected name:format, got %q", s)}
	}
	f, err := anytype.ParsePropertyFormat(format)
	if err != nil {
		return anytype.Property{}, err
	}
	return anytype.Property{Name: name, Format: f}, nil
}

func propertiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "properties",
		Short: "List and create properties",
	}

	var pf pageFlags
	list := &cobra.Command{
		Use:   "list [space-id]",
		Short: "List the properties of a space",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			props, err := a.client.ListProperties(ctx, resolveSpace(ctx, a, firstArg(args)), pf.page())
			if err != nil {
				fail(err)
			}
			if ok, err := printStructured(os.Stdout, props); ok {
				if err != nil {
					fail(err)
				}
				return
			}
			t := newTable("ID", "KEY", "NAME", "FORMAT")
			for _, p := range props.Data {
				t.add(p.ID, p.Key, p.Name, string(p.Format))
			}
			t.render(os.Stdout)
			printMore(props.Pagination)
		},
	}
	pf.bind(list)

	var key, format string
	create := &cobra.Command{
		Use:   "create <space-id> [name]",
		Short: "Create a property",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			name := argOrPrompt(args[1:], "Property name", "name")
			if format == "" {
				if !isInteractive() {
					fail(&anytype.ValidationError{Field: "format", Message: "Format is required"})
				}
				opts := make([]SelectOption[string], 0, len(anytype.Formats()))
				for _, f := range anytype.Formats() {
					opts = append(opts, SelectOption[string]{Label: string(f), Value: string(f)})
				}
				picked, err := promptSelect("Format", opts, 0)
				if err != nil {
					fail(err)
				}
				format = picked
			}
			f, err := anytype.ParsePropertyFormat(format)
			if err != nil {
				fail(err)
			}

			p, err := a.client.CreateProperty(ctx, args[0], anytype.CreatePropertyRequest{Key: key, Name: name, Format: f})
			if err != nil {
				fail(err)
			}
			a.notifier.Notify(notify.Notice{Style: notify.Success, Title: "Property created", Message: p.Key})
		},
	}
	create.Flags().StringVar(&key, "key", "", "property key (derived from the name when empty)")
	create.Flags().StringVar(&format, "format", "", "format: "+joinFormats())

	cmd.AddCommand(list)
	cmd.AddCommand(create)
	return cmd
}

func joinFormats() string {
	fs := anytype.Formats()
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// tagColors are the colors Anytype accepts for tags.
var tagColors = []string{"grey", "yellow", "orange", "red", "pink", "purple", "blue", "ice", "teal", "lime"}

func tagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List and create tags of select properties",
	}

	var pf pageFlags
	list := &cobra.Command{
		Use:   "list <space-id> <property-id>",
		Short: "List the tags of a property",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			tags, err := a.client.ListTags(ctx, args[0], args[1], pf.page())
			if err != nil {
				fail(err)
			}
			if ok, err := printStructured(os.Stdout, tags); ok {
				if err != nil {
					fail(err)
				}
				return
			}
			t := newTable("ID", "NAME", "COLOR")
			for _, tag := range tags.Data {
				t.add(tag.ID, tag.Name, tag.Color)
			}
			t.render(os.Stdout)
			printMore(tags.Pagination)
		},
	}
	pf.bind(list)

	var color string
	create := &cobra.Command{
		Use:   "create <space-id> <property-id> [name]",
		Short: "Create a tag",
		Args:  cobra.RangeArgs(2, 3),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			if !slices.Contains(tagColors, color) {
				fail(&anytype.ValidationError{Field: "color", Message: "Color must be one of " + strings.Join(tagColors, ", ")})
			}
			name := argOrPrompt(args[2:], "Tag name", "name")
			tag, err := a.client.CreateTag(ctx, args[0], args[1], anytype.CreateTagRequest{Name: name, Color: color})
			if err != nil {
				fail(err)
			}
			a.notifier.Notify(notify.Notice{Style: notify.Success, Title: "Tag created", Message: tag.Name})
		},
	}
	create.Flags().StringVar(&color, "color", tagColors[0], "tag color")

	cmd.AddCommand(list)
	cmd.AddCommand(create)
	return cmd
}

