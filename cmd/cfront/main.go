package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/varick/cfront"
	"github.com/varick/cfront/tracing"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configURL   string
		includeDirs []string
		defines     []string
		errorLimit  uint32
		fix         bool
		traceFile   string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:          "cfront [flags] file",
		Short:        "Preprocess a C translation unit",
		Version:      version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop()
			if verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				logger = l
				defer func() { _ = logger.Sync() }()
			}

			if traceFile != "" {
				if err := tracing.Init("cfront", version, traceFile); err != nil {
					return err
				}
			}

			diffContext := cfront.DefaultConfig().Fix.DiffContext
			var options []cfront.Option
			if configURL != "" {
				config, err := cfront.LoadConfig(cmd.Context(), nil, configURL)
				if err != nil {
					return err
				}
				options = append(options, cfront.WithConfig(config))
				diffContext = config.Fix.DiffContext
			}
			options = append(options,
				cfront.WithIncludeDirs(includeDirs...),
				cfront.WithDefines(defines...),
				cfront.WithFixes(fix),
				cfront.WithLogger(logger),
				cfront.WithOutput(cmd.OutOrStdout()),
			)
			if cmd.Flags().Changed("error-limit") {
				options = append(options, cfront.WithErrorLimit(errorLimit))
			}

			srv := cfront.New(options...)
			result, err := srv.Preprocess(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())

			if fix {
				for _, f := range result.Fixes {
					patch, _, err := f.Diff(diffContext)
					if err != nil {
						return err
					}
					fmt.Fprint(cmd.ErrOrStderr(), patch)
				}
			}

			if result.Fatals > 0 {
				return fmt.Errorf("fatal error generated")
			}
			if result.Errors > 0 {
				return fmt.Errorf("%d error(s) generated", result.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configURL, "config", "", "load configuration from a YAML file")
	cmd.Flags().StringArrayVarP(&includeDirs, "include", "I", nil, "add a directory to the include search path")
	cmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "predefine a macro (NAME or NAME=VALUE)")
	cmd.Flags().Uint32Var(&errorLimit, "error-limit", 20, "stop after this many errors (0 disables the limit)")
	cmd.Flags().BoolVar(&fix, "fix", false, "print unified diffs applying diagnostic suggestions")
	cmd.Flags().StringVar(&traceFile, "trace", "", "write OpenTelemetry spans to this file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	return cmd
}
