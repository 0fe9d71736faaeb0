package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/shapeval"
	"github.com/reoring/shapeval/schemafile"
	"github.com/reoring/shapeval/source"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		schemaPath string
		format     string
		lim        limits
	)
	cmd := &cobra.Command{
		Use:   "validate --schema FILE [DATA...]",
		Short: "Validate documents against a schema",
		Long: `Validates each DATA file (or stdin when none is given or DATA is "-").
YAML files may hold several documents. Stops at the first invalid document
and exits with status 1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := schemafile.Load(schemaPath)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"-"}
			}
			for _, name := range args {
				if err := a.validateInput(cmd, schema, name, format, lim); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Schema document (JSON or YAML)")
	cmd.Flags().StringVar(&format, "format", "", "Data format: json or yaml (default: from file extension)")
	lim.register(cmd)
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func (a *app) validateInput(cmd *cobra.Command, schema shapeval.Schema, name, format string, lim limits) error {
	data, err := readInput(cmd.InOrStdin(), name)
	if err != nil {
		return err
	}
	f, err := dataFormat(name, format)
	if err != nil {
		return err
	}

	docs, err := decodeAll(data, f, lim.sourceOptions())
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", name, err)
		a.log.Debug("decode failed", "input", name, "error", err)
		return errInvalid
	}
	for i, doc := range docs {
		label := name
		if len(docs) > 1 {
			label = fmt.Sprintf("%s#%d", name, i)
		}
		if err := shapeval.Validate(doc, schema, lim.validateOptions()); err != nil {
			if ve, ok := shapeval.AsValidationError(err); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s at %s: %s\n", label, ve.Code, ve.Path, ve.Message)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", label, err)
			}
			return errInvalid
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", label)
	}
	a.log.Debug("validated", "input", name, "documents", len(docs))
	return nil
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

func dataFormat(name, override string) (source.Format, error) {
	switch override {
	case "":
		return source.FormatFromPath(name), nil
	case "json":
		return source.FormatJSON, nil
	case "yaml", "yml":
		return source.FormatYAML, nil
	}
	return source.FormatJSON, fmt.Errorf("unknown format %q", override)
}

func decodeAll(data []byte, f source.Format, opt source.Options) ([]any, error) {
	if f == source.FormatYAML {
		return source.DecodeYAMLAll(data, opt)
	}
	v, err := source.DecodeJSON(data, opt)
	if err != nil {
		return nil, err
	}
	return []any{v}, nil
}
