package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"record-mapper/internal/cli/config"
)

// Version is set at build time.
var Version = "0.1.0"

type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "recmap",
		Short: "Inspect and validate record mapping policies",
		Long: `recmap statically analyzes Go packages and reports how the record mapper
maps their structs: record keys, field kinds, nested objects and arrays.
It also scaffolds and checks YAML policy files.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./"+config.FileName+")")
	rootCmd.PersistentFlags().String("tag", config.DefaultTag, "struct tag holding record keys")
	rootCmd.PersistentFlags().String("convention", config.DefaultConvention, "naming convention for scaffolded keys (field|snake|camel|lower)")
	rootCmd.PersistentFlags().String("dir", ".", "directory package patterns are resolved from")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("convention", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"field", "snake", "camel", "lower"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newDescribeCmd())
	rootCmd.AddCommand(newScaffoldCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	return nil
}

func configFrom(ctx context.Context) *config.Loaded {
	if cfg, ok := ctx.Value(configKey{}).(*config.Loaded); ok {
		return cfg
	}

	return &config.Loaded{Config: &config.Config{Tag: config.DefaultTag, Convention: config.DefaultConvention, Dir: "."}}
}
