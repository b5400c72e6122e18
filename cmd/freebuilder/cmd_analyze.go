package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/freebuilder/format"
	"github.com/dhamidi/freebuilder/processor"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Print the builder metadata of every @FreeBuilder type without writing files",
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder, err := format.New(outputFormat, os.Stdout)
			if err != nil {
				return err
			}

			p := processor.New(a.cfg)
			if err := p.Load(args); err != nil {
				return err
			}
			result, err := p.Analyze(cmd.Context())
			if err != nil {
				return err
			}

			for _, report := range result.Reports {
				if err := encoder.Encode(report); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
			}
			return a.printer().PrintAll(result.Syntax)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (line, json)")

	return cmd
}
