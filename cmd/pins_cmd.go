package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
	"github.com/nextlevelbuilder/anyctl/internal/pins"
)

// spaceView is the view name used for a space's object list.
const spaceView = "objects"

func spacePinSuffix(spaceID string) string {
	return pins.SpaceSuffix(spaceID, spaceView)
}

// pinSuffix picks the list: --list wins, then --space, then global search.
func pinSuffix(list, spaceID string) string {
	switch {
	case list != "":
		return list
	case spaceID != "":
		return spacePinSuffix(spaceID)
	}
	return pins.SuffixGlobalSearch
}

func pinsCmd() *cobra.Command {
	var list, space string
	cmd := &cobra.Command{
		Use:   "pins",
		Short: "Manage pinned objects (up to 5 per list)",
		Long: "Pinned objects are listed first in search and space views. Each view keeps\n" +
			"its own list: global search by default, or a space's object list with --space.",
	}
	cmd.PersistentFlags().StringVar(&list, "list", "", "raw list suffix")
	cmd.PersistentFlags().StringVar(&space, "space", "", "use the pin list of this space")

	suffix := func() string { return pinSuffix(list, space) }
	cmd.AddCommand(pinsListCmd(suffix))
	cmd.AddCommand(pinsAddCmd(suffix))
	cmd.AddCommand(pinsRemoveCmd(suffix))
	cmd.AddCommand(pinsMoveCmd("up", "Move a pin one position up", suffix, (*pins.Store).MoveUp))
	cmd.AddCommand(pinsMoveCmd("down", "Move a pin one position down", suffix, (*pins.Store).MoveDown))
	return cmd
}

func pinsListCmd(suffix func() string) *cobra.Command {
	var resolve bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the pins of a list",
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()

			if !resolve {
				entries, err := a.pins().List(ctx, suffix())
				if err != nil {
					fail(err)
				}
				if ok, err := printStructured(os.Stdout, entries); ok {
					if err != nil {
						fail(err)
					}
					return
				}
				if len(entries) == 0 {
					fmt.Println("Nothing pinned.")
					return
				}
				t := newTable("#", "SPACE", "OBJECT")
				for i, e := range entries {
					t.add(fmt.Sprint(i+1), e.SpaceID, e.ObjectID)
				}
				t.render(os.Stdout)
				return
			}

			a.requirePaired(ctx)
			objs, err := pins.NewResolver(a.pins(), a.client).Resolve(ctx, suffix())
			if err != nil {
				fail(err)
			}
			if ok, err := printStructured(os.Stdout, objs); ok {
				if err != nil {
					fail(err)
				}
				return
			}
			if len(objs) == 0 {
				fmt.Println("Nothing pinned.")
				return
			}
			t := newTable("#", "", "NAME", "SPACE", "OBJECT")
			for i, o := range objs {
				t.add(fmt.Sprint(i+1), glyph(ctx, o.Icon, o.Layout), o.Name, o.SpaceID, o.ID)
			}
			t.render(os.Stdout)
		},
	}
	cmd.Flags().BoolVar(&resolve, "resolve", false, "fetch each object and prune pins that no longer exist")
	return cmd
}

func pinsAddCmd(suffix func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <space-id> <object-id>",
		Short: "Pin an object",
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
			if err := a.pins().Add(ctx, args[0], args[1], suffix(), obj.Name, objectLabel(obj.Type)); err != nil {
				fail(err)
			}
		},
	}
}

func pinsRemoveCmd(suffix func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <space-id> <object-id>",
		Short: "Unpin an object",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()

			if err := a.pins().Remove(ctx, args[0], args[1], suffix(), args[1], "Object"); err != nil {
				fail(err)
			}
		},
	}
}

type moveFunc func(s *pins.Store, ctx context.Context, spaceID, objectID, suffix string) error

func pinsMoveCmd(use, short string, suffix func() string, move moveFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <space-id> <object-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()

			if err := move(a.pins(), ctx, args[0], args[1], suffix()); err != nil {
				fail(err)
			}
		},
	}
}

// objectLabel names the object kind in notices, e.g. "Task is already pinned".
func objectLabel(t *anytype.Type) string {
	if t != nil && t.Name != "" {
		return t.Name
	}
	return "Object"
}
