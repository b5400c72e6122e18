package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dhamidi/freebuilder/diag"
	"github.com/dhamidi/freebuilder/java/codebase"
	"github.com/dhamidi/freebuilder/processor"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var output string
	var jobs int
	var noAnnotation bool
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Write the generated builder of every @FreeBuilder type",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("output") {
				a.cfg.Output = output
			}
			if flags.Changed("jobs") {
				a.cfg.Jobs = jobs
			}
			if noAnnotation {
				a.cfg.GeneratedAnnotation = false
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			p := processor.New(a.cfg)
			if err := p.Load(args); err != nil {
				return err
			}
			result, err := a.generate(cmd.Context(), p)
			if err != nil {
				return err
			}
			if watch {
				return a.watch(cmd.Context(), p, interval)
			}
			if n := result.Count(diag.Error); n > 0 {
				return fmt.Errorf("%d errors", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config: generated)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of types analyzed in parallel")
	cmd.Flags().BoolVar(&noAnnotation, "no-generated-annotation", false, "omit @javax.annotation.Generated")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate whenever a source file changes")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "polling interval in watch mode")

	return cmd
}

func (a *app) generate(ctx context.Context, p *processor.Processor) (*processor.Result, error) {
	result, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.printDiagnostics(result); err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "%d builders written, %d errors\n", len(result.Written), result.Count(diag.Error))
	return result, nil
}

// watch regenerates after every change the poller sees, until interrupted.
func (a *app) watch(ctx context.Context, p *processor.Processor, interval time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	changes := make(chan struct{}, 1)
	w := codebase.NewFileWatcher(p.Codebase(), interval)
	w.OnChange = func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	w.Start()
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			if err := p.Reload(); err != nil {
				return err
			}
			if _, err := a.generate(ctx, p); err != nil {
				return err
			}
		}
	}
}
