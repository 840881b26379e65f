package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/braunma/buildcheck/internal/config"
	"github.com/braunma/buildcheck/pkg/builder"
	"github.com/braunma/buildcheck/pkg/loader"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/reconciler"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-id> <component-type> <uuid>",
		Short: "Check whether a component can be added to a configuration",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			snapshots, err := a.snapshots()
			if err != nil {
				return err
			}
			engine, err := a.engine(snapshots)
			if err != nil {
				return err
			}

			if a.cached != nil {
				if snap, err := snapshots.GetSnapshot(cmd.Context(), args[0]); err == nil {
					if err := a.cached.Warm(cmd.Context(), snap); err != nil {
						a.logger.Warning("Cache warm-up failed: %v", err)
					}
				}
			}

			// Unknown types are passed through; the engine reports them as a finding.
			t, err := models.ParseComponentType(args[1])
			if err != nil {
				t = models.ComponentType(args[1])
			}

			v := engine.ValidateAddition(cmd.Context(), args[0], t, args[2])
			if err := printVerdict(cmd, a.cfg, v); err != nil {
				return err
			}
			if v.Blocked() {
				return errBlocked
			}
			return nil
		},
	}
}

func newSlotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots <config-id>",
		Short: "Show PCIe, riser, memory and drive bay usage of a configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			snapshots, err := a.snapshots()
			if err != nil {
				return err
			}
			engine, err := a.engine(snapshots)
			if err != nil {
				return err
			}

			report, err := engine.SlotReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.cfg.Output == config.OutputJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			renderSlots(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage stored server configurations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create an empty configuration",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd)
				if err != nil {
					return err
				}
				defer a.close()

				st, err := a.openStore()
				if err != nil {
					return err
				}
				cfg, err := st.CreateConfiguration(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				a.logger.Success("Created configuration %s (%s)", cfg.ID, cfg.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "import <file>",
			Short: "Import configurations from a YAML file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd)
				if err != nil {
					return err
				}
				defer a.close()

				snapshots, err := loader.NewDataLoader(filepath.Dir(args[0]), a.logger).LoadSnapshotFile(args[0])
				if err != nil {
					return err
				}
				st, err := a.openStore()
				if err != nil {
					return err
				}
				for _, snap := range snapshots {
					cfg, err := st.ImportSnapshot(cmd.Context(), snap)
					if err != nil {
						return err
					}
					a.logger.Success("Imported %s with %d components", cfg.ID, len(snap.Components()))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <config-id> <component-type> <uuid>",
			Short: "Validate a component and store it unless blocked",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd)
				if err != nil {
					return err
				}
				defer a.close()

				t, err := models.ParseComponentType(args[1])
				if err != nil {
					return err
				}
				st, err := a.openStore()
				if err != nil {
					return err
				}
				engine, err := a.engine(st)
				if err != nil {
					return err
				}

				v, err := builder.NewBuilder(engine, st, a.logger).Add(cmd.Context(), args[0], t, args[2])
				if err != nil {
					return err
				}
				if err := printVerdict(cmd, a.cfg, v); err != nil {
					return err
				}
				if v.Blocked() {
					return errBlocked
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <config-id> <component-type> <uuid>",
			Short: "Remove a component from a configuration",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd)
				if err != nil {
					return err
				}
				defer a.close()

				t, err := models.ParseComponentType(args[1])
				if err != nil {
					return err
				}
				st, err := a.openStore()
				if err != nil {
					return err
				}
				engine, err := a.engine(st)
				if err != nil {
					return err
				}
				return builder.NewBuilder(engine, st, a.logger).Remove(cmd.Context(), args[0], t, args[2])
			},
		},
		&cobra.Command{
			Use:   "show <config-id>",
			Short: "Show the components of a configuration",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd)
				if err != nil {
					return err
				}
				defer a.close()

				snapshots, err := a.snapshots()
				if err != nil {
					return err
				}
				snap, err := snapshots.GetSnapshot(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if a.cfg.Output == config.OutputJSON {
					return writeJSON(cmd.OutOrStdout(), snap)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Configuration %s %s\n", snap.ConfigID, snap.Name)
				for _, ref := range snap.Components() {
					fmt.Fprintf(out, "  %s\n", ref)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored configurations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd)
				if err != nil {
					return err
				}
				defer a.close()

				st, err := a.openStore()
				if err != nil {
					return err
				}
				configs, err := st.ListConfigurations(cmd.Context())
				if err != nil {
					return err
				}
				if a.cfg.Output == config.OutputJSON {
					return writeJSON(cmd.OutOrStdout(), configs)
				}
				for _, c := range configs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s %s\n", c.ID, c.Name, c.CreatedAt.Format("2006-01-02 15:04"))
				}
				return nil
			},
		},
		newConfigSyncCmd(),
	)
	return cmd
}

func newConfigSyncCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync <file>",
		Short: "Bring stored configurations in line with a YAML file",
		Long: `Sync creates missing configurations, removes components that are no longer
listed and adds new ones through compatibility validation. Blocked components
are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if dryRun {
				a.logger.Warning("Running in DRY-RUN mode - no changes will be made")
			}

			desired, err := loader.NewDataLoader(filepath.Dir(args[0]), a.logger).LoadSnapshotFile(args[0])
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			engine, err := a.engine(st)
			if err != nil {
				return err
			}

			r := reconciler.NewConfigurationReconciler(st, builder.NewBuilder(engine, st, a.logger), a.logger, dryRun)
			results, err := r.Reconcile(cmd.Context(), desired)
			if err != nil {
				return err
			}

			blocked := 0
			for _, res := range results {
				for _, v := range res.Blocked {
					if err := printVerdict(cmd, a.cfg, v); err != nil {
						return err
					}
				}
				blocked += len(res.Blocked)
				a.logger.Info("%s: %d added, %d removed, %d blocked", res.ConfigID, len(res.Added), len(res.Removed), len(res.Blocked))
			}
			if blocked > 0 {
				return errBlocked
			}
			if dryRun {
				a.logger.Warning("DRY RUN COMPLETE: No changes applied")
			} else {
				a.logger.Success("SYNC COMPLETE: %d configurations in line", len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the changes without applying them")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect component definitions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load every definition and report records rejected by validation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			cat, errs, err := a.loadCatalog()
			if err != nil {
				return err
			}

			for _, t := range models.AllComponentTypes {
				specs := cat.List(t)
				inferred := 0
				for _, s := range specs {
					if len(inferredFields(s)) > 0 {
						inferred++
					}
				}
				a.logger.Info("%-12s %3d records (%d with inferred fields)", t, len(specs), inferred)
			}
			for _, e := range errs {
				a.logger.Error("Rejected definition", e)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d invalid definitions", len(errs))
			}
			a.logger.Success("Catalog OK: %d definitions", cat.Len())
			return nil
		},
	})
	return cmd
}

func printVerdict(cmd *cobra.Command, cfg *config.Config, v *models.Verdict) error {
	if cfg.Output == config.OutputJSON {
		return writeJSON(cmd.OutOrStdout(), v)
	}
	renderVerdict(cmd.OutOrStdout(), v)
	return nil
}

// inferredFields returns the fields a record had filled from its notes
func inferredFields(spec models.ComponentSpec) []string {
	if m, ok := spec.(interface{ Inferred() []string }); ok {
		return m.Inferred()
	}
	return nil
}
