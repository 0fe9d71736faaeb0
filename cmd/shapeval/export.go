package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reoring/shapeval"
	"github.com/reoring/shapeval/schemafile"
)

const draft202012 = "https://json-schema.org/draft/2020-12/schema"

func newExportCmd() *cobra.Command {
	var schemaPath, format string
	cmd := &cobra.Command{
		Use:   "export --schema FILE",
		Short: "Print the JSON Schema form of a schema document",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := schemafile.Load(schemaPath)
			if err != nil {
				return err
			}
			doc := shapeval.ToJSONSchema(schema)
			doc.Schema = draft202012

			var out []byte
			switch format {
			case "json":
				out, err = json.MarshalIndent(doc, "", "  ")
				out = append(out, '\n')
			case "yaml":
				out, err = yaml.Marshal(doc)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Schema document (JSON or YAML)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
