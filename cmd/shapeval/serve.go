package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reoring/shapeval/internal/server"
	"github.com/reoring/shapeval/middleware"
	"github.com/reoring/shapeval/schemafile"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr    string
		schemas []string
		lim     limits
	)
	cmd := &cobra.Command{
		Use:   "serve --schema NAME=FILE ...",
		Short: "Serve validation endpoints over HTTP",
		Long: `Starts an HTTP server exposing the named schemas:

  GET  /healthz
  GET  /schemas
  GET  /schemas/{name}
  POST /schemas/{name}/validate
  GET  /metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(schemas)
			if err != nil {
				return err
			}
			srv := server.New(reg, server.Options{
				Logger: a.log,
				Validation: middleware.Options{
					MaxBytes:           lim.maxBytes,
					MaxDepth:           lim.maxDepth,
					AllowDuplicateKeys: lim.allowDuplicate,
				},
			})
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringArrayVar(&schemas, "schema", nil, "Schema to serve as NAME=FILE (repeatable)")
	lim.register(cmd)
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func loadRegistry(specs []string) (*server.Registry, error) {
	reg := server.NewRegistry()
	for _, spec := range specs {
		name, path, ok := strings.Cut(spec, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid --schema %q, want NAME=FILE", spec)
		}
		if _, dup := reg.Get(name); dup {
			return nil, fmt.Errorf("schema %q given twice", name)
		}
		s, err := schemafile.Load(path)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(name, s); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
