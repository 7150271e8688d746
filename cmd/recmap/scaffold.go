package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"record-mapper/internal/cli/config"
	"record-mapper/internal/policycheck"
	"record-mapper/policy"
)

func newScaffoldCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "scaffold <package> <Type>...",
		Short: "Write a starting policy file",
		Long: `Emits a YAML policy file for the named structs and every struct reachable
through their fields. Keys follow the configured naming convention.`,
		Example: `  recmap scaffold --convention snake ./examples/catalog Item User
  recmap scaffold -o policy.yaml ./examples/catalog Item`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())
			logger := config.GetLogger(cmd.Context())

			conv, err := cfg.NamingConvention()
			if err != nil {
				return err
			}

			graph, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			roots, err := findStructs(graph, args[1:])
			if err != nil {
				return err
			}

			f := policycheck.Scaffold(roots, cfg.Tag, conv)

			if output != "" {
				if err := policy.WriteFile(f, output); err != nil {
					return err
				}

				logger.Info("policy file written", "path", output, "types", len(f.Policies))

				return nil
			}

			data, err := policy.Marshal(f)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))

			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}
