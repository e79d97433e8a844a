package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
	"github.com/nextlevelbuilder/anyctl/internal/pins"
)

func searchCmd() *cobra.Command {
	var (
		spaceID  string
		types    []string
		sortBy   string
		desc     bool
		noPinned bool
		pf       pageFlags
	)
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search objects across all spaces or within one",
		Run: func(cmd *cobra.Command, args []string) {
			a := loadApp()
			defer a.close()
			ctx, cancel := commandContext()
			defer cancel()
			a.requirePaired(ctx)

			req := anytype.SearchRequest{Query: strings.Join(args, " "), Types: types}
			if sortBy != "" {
				dir := "asc"
				if desc {
					dir = "desc"
				}
				req.Sort = &anytype.Sort{PropertyKey: sortBy, Direction: dir}
			}

			var (
				list *anytype.List[anytype.Object]
				err  error
			)
			suffix := pins.SuffixGlobalSearch
			if spaceID != "" {
				suffix = spacePinSuffix(spaceID)
				list, err = a.client.SearchSpace(ctx, spaceID, req, pf.page())
			} else {
				list, err = a.client.SearchGlobal(ctx, req, pf.page())
			}
			if err != nil {
				fail(err)
			}

			if outputFormat != "table" || noPinned || req.Query != "" || pf.offset > 0 {
				printObjects(ctx, list)
				return
			}

			pinned, err := pins.NewResolver(a.pins(), a.client).Resolve(ctx, suffix)
			if err != nil {
				slog.Warn("pinned objects unavailable", "error", err)
			}
			if len(pinned) > 0 {
				fmt.Println("Pinned")
				objs := make([]anytype.Object, len(pinned))
				for i, o := range pinned {
					objs[i] = *o
				}
				printObjectTable(ctx, objs)
				fmt.Println()
			}
			printObjects(ctx, list)
		},
	}
	cmd.Flags().StringVar(&spaceID, "space", "", "search only this space")
	cmd.Flags().StringSliceVar(&types, "type", nil, "filter by type key (repeatable)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort by property key, e.g. last_modified_date")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&noPinned, "no-pinned", false, "do not list pinned objects first")
	pf.bind(cmd)
	return cmd
}
