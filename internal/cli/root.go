package cli

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/specialistvlad/cecplan/internal/app"
	"github.com/specialistvlad/cecplan/internal/schema"
)

// Version is set at build time.
var Version = "dev"

// env carries what every command needs to build an App.
type env struct {
	outW, errW   io.Writer
	settings     *viper.Viper
	settingsFile string
}

// newApp reads the settings and builds the App for one command.
func (e *env) newApp() (*app.App, error) {
	if err := app.ReadSettingsFile(e.settings, e.settingsFile); err != nil {
		return nil, usageError("%v", err)
	}
	cfg, err := app.ConfigFromSettings(e.settings)
	if err != nil {
		return nil, usageError("%v", err)
	}
	return app.NewApp(e.outW, e.errW, cfg), nil
}

// NewRootCommand builds the cecplan command tree.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	e := &env{outW: outW, errW: errW, settings: app.NewSettings()}
	var noColor bool

	root := &cobra.Command{
		Use:   "cecplan",
		Short: "Compile HDMI-CEC component configurations into construction plans",
		Long: `cecplan validates declarative hdmi_cec configurations (HCL or ESPHome-style
YAML) against a schema generation and lowers them into an ordered list of
construct and setter instructions.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&e.settingsFile, "config", "", "settings file (default ./cecplan.yaml when present)")
	flags.String(app.KeyLogLevel, "warn", "log level: debug, info, warn, or error")
	flags.String(app.KeyLogFormat, "text", "log format: text or json")
	flags.Int(app.KeyGeneration, schema.LatestGeneration, "schema generation to validate against, 1 to 5")
	flags.Int(app.KeyWorkers, 4, "files and blocks processed at once, 0 for no bound")
	flags.BoolVar(&noColor, "no-color", false, "disable coloured diagnostics")
	for _, key := range []string{app.KeyLogLevel, app.KeyLogFormat, app.KeyGeneration, app.KeyWorkers} {
		_ = e.settings.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(
		newCompileCommand(e),
		newValidateCommand(e),
		newConvertCommand(e),
		newMatchCommand(e),
		newSchemaCommand(e),
		newVerifyPlanCommand(e),
		newVersionCommand(e),
	)
	return root
}

// Execute runs the command line and reports failures on errW. The returned
// error is an *ExitError.
func Execute(args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return exitError(errW, err)
	}
	return nil
}
