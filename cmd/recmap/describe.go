package main

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"record-mapper/internal/analyze"
)

func newDescribeCmd() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "describe <package> <Type>",
		Short: "List the mappable fields of a struct",
		Long: `Statically analyzes a struct and prints every field the mapper uses, with its
record key and field kind. Nested objects and typed arrays are expanded.`,
		Example: `  recmap describe ./examples/catalog Item
  recmap describe --tag json --depth 1 ./models Order`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())
			graph, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			roots, err := findStructs(graph, args[1:])
			if err != nil {
				return err
			}

			root := roots[0]
			paths := analyze.NewTypeStringer().KeyPaths(root, cfg.Tag, depth)

			if cfg.Dump {
				dumper := spew.ConfigState{
					Indent:                  "  ",
					MaxDepth:                4,
					DisablePointerAddresses: true,
					DisableCapacities:       true,
					SortKeys:                true,
				}
				dumper.Fdump(cmd.OutOrStdout(), paths)

				return nil
			}

			return renderDescribe(cmd, root, cfg.Tag, paths)
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 3, "how many levels of nested objects to expand")
	cmd.Flags().Bool("dump", false, "dump the analyzed fields instead of a table")

	return cmd
}

func renderDescribe(cmd *cobra.Command, root *analyze.TypeInfo, tag string, paths []analyze.KeyPath) error {
	out := cmd.OutOrStdout()
	s := newStyles(out)
	ts := analyze.NewTypeStringer()

	fmt.Fprintln(out, s.Header.Render(fmt.Sprintf("%s (tag %q)", root.ID, tag)))

	if len(paths) == 0 {
		fmt.Fprintln(out, s.Muted.Render("no mappable fields"))
		return nil
	}

	rows := make([][]string, 0, len(paths))
	for _, p := range paths {
		var notes []string
		if p.Field.OmitEmpty {
			notes = append(notes, "omitempty")
		}

		if p.Field.Promoted {
			notes = append(notes, "promoted")
		}

		rows = append(rows, []string{
			p.Path,
			p.Field.Name,
			strings.TrimPrefix(p.Field.Kind.String(), "Kind"),
			ts.TypeString(p.Field.Type),
			strings.Join(notes, ","),
		})
	}

	fmt.Fprintln(out, s.table([]string{"PATH", "FIELD", "KIND", "TYPE", "NOTES"}, rows))

	return nil
}
