package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/cecplan/internal/app"
)

// args wraps a cobra argument check so its failure is a usage error.
func args(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := check(cmd, a); err != nil {
			return usageError("%v\n\nUsage:\n  %s", err, cmd.UseLine())
		}
		return nil
	}
}

func newCompileCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile FILE|DIR...",
		Short: "Validate and lower configurations, printing their plans",
		Args:  args(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, paths []string) error {
			_ = e.settings.BindPFlag(app.KeyOutput, cmd.Flags().Lookup(app.KeyOutput))
			a, err := e.newApp()
			if err != nil {
				return err
			}
			results, err := a.Compile(cmd.Context(), paths)
			if err != nil {
				return err
			}
			return a.WritePlans(results)
		},
	}
	cmd.Flags().StringP(app.KeyOutput, "o", app.OutputText, "plan format: text or json")
	return cmd
}

func newValidateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE|DIR...",
		Short: "Validate configurations and list the fields they set",
		Args:  args(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, paths []string) error {
			a, err := e.newApp()
			if err != nil {
				return err
			}
			results, err := a.Validate(cmd.Context(), paths)
			if err != nil {
				return err
			}
			return a.WriteSummary(results)
		},
	}
}

func newConvertCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "convert FILE|DIR...",
		Short: "Validate configurations and print them as HCL",
		Args:  args(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, paths []string) error {
			a, err := e.newApp()
			if err != nil {
				return err
			}
			results, err := a.Validate(cmd.Context(), paths)
			if err != nil {
				return err
			}
			return a.Convert(results)
		},
	}
}

func newMatchCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "match FILE|DIR FRAME",
		Short: "Report which triggers a frame such as 04:46 fires, and what they send",
		Args:  args(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, a []string) error {
			application, err := e.newApp()
			if err != nil {
				return err
			}
			firings, err := application.Match(cmd.Context(), a[:1], a[1])
			if err != nil {
				return err
			}
			application.WriteMatches(a[1], firings)
			return nil
		},
	}
}

func newSchemaCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [FIELD_PATH|ACTION]",
		Short: "Print the field table of a schema generation, one field, or an action",
		Args:  args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			application, err := e.newApp()
			if err != nil {
				return err
			}
			path := ""
			if len(a) == 1 {
				path = a[0]
			}
			if err := application.WriteSchema(path); err != nil {
				return usageError("%v", err)
			}
			return nil
		},
	}
}

func newVerifyPlanCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-plan PLAN.json",
		Short: "Check a JSON plan against the published plan schema",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			application, err := e.newApp()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(a[0])
			if err != nil {
				return err
			}
			if err := application.VerifyPlan(data); err != nil {
				return fmt.Errorf("%s: %w", a[0], err)
			}
			return nil
		},
	}
}

func newVersionCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  args(cobra.NoArgs),
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(e.outW, "cecplan %s\n", Version)
		},
	}
}
