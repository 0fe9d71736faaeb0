package main

import (
	"github.com/spf13/cobra"

	"github.com/reoring/shapeval"
	"github.com/reoring/shapeval/source"
)

type limits struct {
	maxDepth       int
	maxBytes       int64
	allowDuplicate bool
}

func (l *limits) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&l.maxDepth, "max-depth", 0, "Maximum nesting depth (0 = unlimited)")
	cmd.Flags().Int64Var(&l.maxBytes, "max-bytes", 0, "Maximum document size in bytes (0 = unlimited)")
	cmd.Flags().BoolVar(&l.allowDuplicate, "allow-duplicate-keys", false, "Keep the last value of a repeated key instead of failing")
}

// sourceOptions counts the top-level container as depth 1, validation starts
// at 0.
func (l limits) sourceOptions() source.Options {
	o := source.Options{MaxBytes: l.maxBytes}
	if l.maxDepth > 0 {
		o.MaxDepth = l.maxDepth + 1
	}
	if l.allowDuplicate {
		o.OnDuplicateKey = source.DuplicateLastWins
	}
	return o
}

func (l limits) validateOptions() shapeval.Options {
	return shapeval.Options{MaxDepth: l.maxDepth}
}
