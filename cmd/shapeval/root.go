package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/reoring/shapeval/i18n"
	"github.com/reoring/shapeval/internal/logging"
)

const envPrefix = "SHAPEVAL_"

// errInvalid is returned after an invalid document has been reported.
var errInvalid = errors.New("validation failed")

type app struct {
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logging.NewNop()}
	cmd := &cobra.Command{
		Use:           "shapeval",
		Short:         "Validate JSON and YAML documents against structural schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyEnv(cmd); err != nil {
				return err
			}
			levelName, _ := cmd.Flags().GetString("log-level")
			level, err := logging.ParseLevel(levelName)
			if err != nil {
				return err
			}
			a.log = logging.New(cmd.ErrOrStderr(), level)
			lang, _ := cmd.Flags().GetString("lang")
			i18n.SetLanguage(lang)
			return nil
		},
	}
	cmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().String("lang", "en", "Language of validation messages (en, ja)")

	cmd.AddCommand(
		newValidateCmd(a),
		newExportCmd(),
		newServeCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// applyEnv fills flags the user did not set from SHAPEVAL_<FLAG> variables,
// e.g. SHAPEVAL_LOG_LEVEL for --log-level.
func applyEnv(cmd *cobra.Command) error {
	var err error
	fs := cmd.Flags()
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || err != nil {
			return
		}
		name := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if v, ok := os.LookupEnv(name); ok {
			if serr := fs.Set(f.Name, v); serr != nil {
				err = fmt.Errorf("%s: %w", name, serr)
			}
		}
	})
	return err
}
