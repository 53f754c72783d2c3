package app

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/buildforge/schemagen/pkg/errors"
	"github.com/buildforge/schemagen/pkg/logging"
	"github.com/buildforge/schemagen/pkg/pipeline"
	"github.com/buildforge/schemagen/pkg/reconcile"
	"github.com/buildforge/schemagen/pkg/schema"
)

// NewGenerateCommand creates the generate command.
func (a *App) NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the pipeline configuration schema artifact",
		Long: `Generate derives the schema from the registered data contracts and writes
the artifact.

Extension mode loads the prior artifact, overlays the freshly derived
entries, deletes stale generator-owned entries, and preserves entries owned
by other sources. Standard mode ignores any prior artifact and writes the
nested schema document from scratch.

Examples:
  schemagen generate                          # extension merge into the default artifact
  schemagen generate --mode standard          # nested schema document
  schemagen generate --mode standard --format yaml --out schema.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenerate(cmd)
		},
	}

	cmd.Flags().StringVarP(&a.config.Mode, "mode", "m", a.config.Mode, "generation mode: extension or standard")
	cmd.Flags().StringVar(&a.config.InputPath, "in", a.config.InputPath, "prior artifact path (extension mode; defaults to --out)")
	cmd.Flags().StringVar(&a.config.OutputPath, "out", a.config.OutputPath, "output artifact path (defaults derive from the working directory and mode)")
	cmd.Flags().StringVarP(&a.config.Format, "format", "f", a.config.Format, "output format: json or yaml (standard mode only)")

	return cmd
}

// runGenerate dispatches to the configured generation mode.
func (a *App) runGenerate(cmd *cobra.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.WrapIO("resolve", "working directory", err)
	}
	a.config.ResolvePaths(cwd)

	ctx := logging.WithMode(logging.WithLogger(cmd.Context(), a.logger), a.config.Mode)

	registry, err := a.Registry()
	if err != nil {
		return err
	}

	switch a.config.Mode {
	case ModeExtension:
		err = a.generateExtension(ctx, registry)
	case ModeStandard:
		err = a.generateStandard(ctx, registry)
	default:
		return errors.NewValidationError("mode", a.config.Mode, "must be extension or standard")
	}
	if err != nil {
		return err
	}

	success := color.New(color.FgGreen, color.Bold)
	if a.config.NoColor {
		success.DisableColor()
	}
	//nolint:errcheck // Terminal write failures are not actionable here
	success.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", a.config.OutputPath)
	return nil
}

// generateExtension derives the flat extension entries for both roots and
// reconciles them against the persisted artifact.
func (a *App) generateExtension(ctx context.Context, registry *schema.Registry) error {
	log := logging.Ctx(ctx)

	fresh, err := registry.BuildExtensions("", pipeline.PipelineSettings{}, pipeline.SourcePipeline)
	if err != nil {
		return err
	}
	stepEntries, err := registry.BuildExtensions("steps", pipeline.JobSettings{}, pipeline.SourceSteps)
	if err != nil {
		return err
	}
	fresh = append(fresh, stepEntries...)
	log.Debug().Int("fresh_entries", len(fresh)).Msg("Derived extension entries")

	prior, err := reconcile.Load(a.config.InputPath)
	if err != nil {
		return err
	}
	log.Debug().Int("prior_entries", len(prior)).Str("path", a.config.InputPath).Msg("Loaded prior artifact")

	final := reconcile.Merge(prior, fresh, pipeline.OwnedSources())
	log.Info().Int("entries", len(final)).Msg("Reconciled schema extensions")

	return schema.WriteFile(a.config.OutputPath, final, schema.DefaultWriteOptions())
}

// generateStandard builds both standard trees, splices the job properties
// into the steps element schema, and fully replaces the artifact.
func (a *App) generateStandard(ctx context.Context, registry *schema.Registry) error {
	log := logging.Ctx(ctx)

	primary, err := registry.BuildStandard(pipeline.PipelineSettings{})
	if err != nil {
		return err
	}
	job, err := registry.BuildStandard(pipeline.JobSettings{})
	if err != nil {
		return err
	}
	if err := schema.SpliceItemProperties(primary, "steps", job); err != nil {
		return err
	}
	log.Info().Str("path", a.config.OutputPath).Msg("Built standard schema document")

	opts := schema.DefaultWriteOptions()
	if a.config.Format != "" {
		opts.Format = a.config.Format
	}
	return schema.WriteFile(a.config.OutputPath, primary, opts)
}
