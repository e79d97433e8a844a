package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gosimple/slug"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
	"github.com/nextlevelbuilder/anyctl/internal/config"
	"github.com/nextlevelbuilder/anyctl/internal/notify"
)

func objectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "objects",
		Aliases: []string{"obj"},
		Short:   "Browse, create and edit objects",
	}
	cmd.AddCommand(objectsListCmd())
	cmd.AddCommand(objectsGetCmd())
	cmd.AddCommand(objectsCreateCmd())
	cmd.AddCommand(objectsUpdateCmd())
	cmd.AddCommand(objectsDeleteCmd())
	cmd.AddCommand(objectsExportCmd())
	return cmd
}

func printObjects(ctx context.Context, list *anytype.List[anytype.Object]) {
	if ok, err := printStructured(os.Stdout, list); ok {
		if err != nil {
			fail(err)
		}
		return
	}
	if len(list.Data) == 0 {
		fmt.Println("No objects.")
		return
	}
	printObjectTable(ctx, list.Data)
	printMore(list.Pagination)
}

func printObjectTable(ctx context.Context, objects []anytype.Object) {
	t := newTable("", "ID", "NAME", "TYPE", "SNIPPET")
	for _, o := range objects {
		typeName := ""
		if o.Type != nil {
			typeName = o.Type.Name
		}
		t.add(glyph(ctx, o.Icon, o.Layout), o.ID, o.Name, typeName, o.Snippet)
	}
	t.render(os.Stdout)
}

func objectsListCmd() *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "list [space-id]",
		Short: "List the objects of a space",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			list, err := a.client.ListObjects(ctx, resolveSpace(ctx, a, firstArg(args)), pf.page())
			if err != nil {
				fail(err)
			}
			printObjects(ctx, list)
		},
	}
	pf.bind(cmd)
	return cmd
}

func objectsGetCmd() *cobra.Command {
	var body bool
	cmd := &cobra.Command{
		Use:   "get <space-id> <object-id>",
		Short: "Show an object with its properties",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			obj, err := a.client.GetObject(ctx, args[0], args[1])
			if err != nil {
				fail(err)
			}
			if body {
				if md, ok := a.client.ExportMarkdown(ctx, args[0], args[1]); ok {
					obj.Markdown = md
				}
			}
			if ok, err := printStructured(os.Stdout, obj); ok {
				if err != nil {
					fail(err)
				}
				return
			}

			var fetch anytype.FileFetcher
			if f := a.icons(); f != nil {
				fetch = f.Fetch
			}
			icon := anytype.ResolveIcon(ctx, obj.Icon, obj.Layout, fetch)
			fmt.Printf("%s %s\n", icon.Glyph(), obj.Name)
			fmt.Printf("  ID:     %s\n", obj.ID)
			if obj.Type != nil {
				fmt.Printf("  Type:   %s\n", obj.Type.Name)
			}
			if icon.Kind == anytype.IconFile {
				fmt.Printf("  Icon:   %s\n", icon.Value)
			}
			if obj.Archived {
				fmt.Println("  Archived")
			}
			printProperties(obj.Properties)
			if obj.Markdown != "" {
				fmt.Println()
				fmt.Print(renderMarkdown(obj.Markdown))
			}
		},
	}
	cmd.Flags().BoolVar(&body, "body", false, "also fetch and render the markdown body")
	return cmd
}

func printProperties(props []anytype.PropertyValue) {
	if len(props) == 0 {
		return
	}
	width := 0
	for _, p := range props {
		width = max(width, runewidth.StringWidth(propertyLabel(p)))
	}
	fmt.Println()
	for _, p := range props {
		v := anytype.DisplayPropertyValue(p)
		if v == "" {
			continue
		}
		fmt.Printf("  %s  %s\n", runewidth.FillRight(propertyLabel(p), width), v)
	}
}

func propertyLabel(p anytype.PropertyValue) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Key
}

func objectsCreateCmd() *cobra.Command {
	var (
		typeKey  string
		icon     string
		body     string
		template string
		props    []string
		pin      bool
	)
	cmd := &cobra.Command{
		Use:   "create <space-id> [name]",
		Short: "Create an object",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			spaceID := args[0]
			name := argOrPrompt(args[1:], "Object name", "name")
			req := anytype.CreateObjectRequest{Name: name, TypeKey: typeKey, Body: body, TemplateID: template}
			if icon != "" {
				ic, err := parseEmojiIcon(icon)
				if err != nil {
					fail(err)
				}
				req.Icon = ic
			}
			values, err := resolveProperties(ctx, a, spaceID, props)
			if err != nil {
				fail(err)
			}
			req.Properties = values

			obj, err := a.client.CreateObject(ctx, spaceID, req)
			if err != nil {
				fail(err)
			}
			a.notifier.Notify(notify.Notice{Style: notify.Success, Title: "Object created", Message: obj.ID})
			if pin {
				if err := a.pins().Add(ctx, spaceID, obj.ID, spacePinSuffix(spaceID), obj.Name, "Object"); err != nil {
					fail(err)
				}
			}
		},
	}
	cmd.Flags().StringVar(&typeKey, "type", "page", "type key of the new object")
	cmd.Flags().StringVar(&icon, "icon", "", "emoji icon")
	cmd.Flags().StringVar(&body, "body", "", "markdown body")
	cmd.Flags().StringVar(&template, "template", "", "template id")
	cmd.Flags().StringArrayVarP(&props, "prop", "p", nil, "property as key=value (repeatable)")
	cmd.Flags().BoolVar(&pin, "pin", false, "pin the new object in its space")
	return cmd
}

func objectsUpdateCmd() *cobra.Command {
	var (
		name     string
		icon     string
		markdown string
		props    []string
	)
	cmd := &cobra.Command{
		Use:   "update <space-id> <object-id>",
		Short: "Change an object's name, icon, body or properties",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			var req anytype.UpdateObjectRequest
			if cmd.Flags().Changed("name") {
				if strings.TrimSpace(name) == "" {
					fail(&anytype.ValidationError{Field: "name", Message: "Name is required"})
				}
				req.Name = &name
			}
			if cmd.Flags().Changed("markdown") {
				req.Markdown = &markdown
			}
			if icon != "" {
				ic, err := parseEmojiIcon(icon)
				if err != nil {
					fail(err)
				}
				req.Icon = ic
			}
			values, err := resolveProperties(ctx, a, args[0], props)
			if err != nil {
				fail(err)
			}
			req.Properties = values
			if req.Name == nil && req.Markdown == nil && req.Icon == nil && len(req.Properties) == 0 {
				fail(errors.New("nothing to update"))
			}

			if _, err := a.client.UpdateObject(ctx, args[0], args[1], req); err != nil {
				fail(err)
			}
			a.notifier.Notify(notify.Notice{Style: notify.Success, Title: "Object updated"})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&icon, "icon", "", "new emoji icon")
	cmd.Flags().StringVar(&markdown, "markdown", "", "replace the body")
	cmd.Flags().StringArrayVarP(&props, "prop", "p", nil, "property as key=value (repeatable)")
	return cmd
}

func objectsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <space-id> <object-id>",
		Short: "Archive an object",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			if !yes {
				if !isInteractive() {
					fail(errors.New("refusing to delete without --yes"))
				}
				ok, err := promptConfirm("Delete this object?", false)
				if err != nil {
					fail(err)
				}
				if !ok {
					return
				}
			}

			obj, err := a.client.DeleteObject(ctx, args[0], args[1])
			if err != nil {
				fail(err)
			}
			// Drop any pin of the deleted object in its space list.
			if err := a.pins().RemoveSilent(ctx, args[0], args[1], spacePinSuffix(args[0])); err != nil {
				fail(err)
			}
			a.notifier.Notify(notify.Notice{Style: notify.Success, Title: "Object deleted", Message: obj.Name})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func objectsExportCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export <space-id> <object-id>",
		Short: "Export an object as markdown",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			md, ok := a.client.ExportMarkdown(ctx, args[0], args[1])
			if !ok {
				fail(errors.New("export failed or timed out"))
			}
			if outDir == "" {
				fmt.Print(renderMarkdown(md))
				return
			}

			name := args[1]
			if obj, err := a.client.GetObject(ctx, args[0], args[1]); err == nil {
				name = obj.Name
			}
			path := filepath.Join(config.ExpandHome(outDir), exportFileName(name, args[1]))
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				fail(err)
			}
			if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
				fail(err)
			}
			a.notifier.Notify(notify.Notice{Style: notify.Success, Title: "Exported", Message: path})
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "write to a file in this directory instead of stdout")
	return cmd
}

// exportFileName derives a stable file name from the object name, falling
// back to the id when the name has no usable characters.
func exportFileName(name, id string) string {
	s := slug.Make(name)
	if s == "" {
		s = id
	}
	return s + ".md"
}

// parseEmojiIcon accepts a single emoji. Letters, digits and multiple
// symbols are rejected.
func parseEmojiIcon(s string) (*anytype.Icon, error) {
	s = strings.TrimSpace(s)
	bad := &anytype.ValidationError{Field: "icon", Message: "Icon must be a single emoji"}
	if s == "" || runewidth.StringWidth(s) > 2 {
		return nil, bad
	}
	for _, r := range s {
		if r < 0x80 || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return nil, bad
		}
	}
	return &anytype.Icon{Format: anytype.IconFormatEmoji, Emoji: s}, nil
}

// resolveProperties looks up each key's format in the space and parses
// the raw values with it.
func resolveProperties(ctx context.Context, a *app, spaceID string, raw []string) ([]anytype.PropertyValue, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	list, err := a.client.ListProperties(ctx, spaceID, anytype.Page{})
	if err != nil {
		return nil, err
	}
	return buildPropertyValues(list.Data, raw)
}

func buildPropertyValues(props []anytype.Property, raw []string) ([]anytype.PropertyValue, error) {
	formats := make(map[string]anytype.PropertyFormat, len(props))
	for _, p := range props {
		formats[p.Key] = p.Format
	}
	out := make([]anytype.PropertyValue, 0, len(raw))
	for _, item := range raw {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &anytype.ValidationError{Field: "prop", Message: fmt.Sprintf("expected key=value, got %q", item)}
		}
		f, known := formats[key]
		if !known {
			return nil, &anytype.ValidationError{Field: "prop", Message: fmt.Sprintf("unknown property %q", key)}
		}
		v, err := anytype.ParsePropertyValue(key, f, value)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
