package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"record-mapper/internal/policycheck"
	"record-mapper/policy"
)

var errCheckFailed = errors.New("policy check failed")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <policy.yaml> <package>...",
		Short: "Validate a policy file against Go packages",
		Long: `Checks that every type, field and element type named by the policy file
exists in the analyzed packages and that record keys do not collide.
Exits non-zero when errors are found.`,
		Example: `  recmap check policy.yaml ./examples/catalog`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())

			f, err := policy.LoadFile(args[0])
			if err != nil {
				return err
			}

			graph, err := loadGraph(cmd.Context(), args[1:]...)
			if err != nil {
				return err
			}

			diags := policycheck.NewChecker(graph, cfg.Tag).Check(f)

			out := cmd.OutOrStdout()
			s := newStyles(out)

			for _, d := range diags.All() {
				fmt.Fprintln(out, s.diagnostic(d))
			}

			if diags.HasErrors() {
				return fmt.Errorf("%w: %d error(s)", errCheckFailed, len(diags.Errors))
			}

			fmt.Fprintln(out, s.Success.Render(fmt.Sprintf("%s: %d type(s) ok", args[0], len(f.Policies))))

			return nil
		},
	}
}
