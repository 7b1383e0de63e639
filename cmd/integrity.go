package cmd

import (
	"errors"
	"fmt"

	"course-manager/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on course storage",
	Long: `Checks that the storage areas exist, that every referenced course file is stored
and, for the sql store, that the database schema carries every expected column.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		return runIntegrityChecks(cmd, true, true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix storage areas",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, true, false, false)
	},
}

// filesCmd represents the integrity files command
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Check for dangling references and orphaned blobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, false, true, false)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the sql store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, filesCmd, schemaCmd)

	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing storage areas")
	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing storage areas")
}

func runIntegrityChecks(cmd *cobra.Command, runStructure, runFiles, runSchema bool) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	logg := a.logger
	svc := integrity.NewService(a.blobs, a.repo, a.db, a.cfg.Integrity, logg)

	if runStructure {
		logg.Info("Checking storage areas...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}

		if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			names := make([]string, len(missing))
			for i, area := range missing {
				names[i] = string(area)
			}
			logg.Warn("Missing storage areas detected", zap.Strings("missing", names))

			if fixFlag {
				logg.Info("Creating missing storage areas...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return fmt.Errorf("failed to fix structure: %w", err)
				}
				logg.Info("Structure fixed successfully.")
			} else {
				logg.Info("Run with --fix to create missing storage areas.")
			}
		}
	}

	if runFiles {
		logg.Info("Checking course files...")
		report, err := svc.Files(ctx)
		if err != nil {
			return fmt.Errorf("file check failed: %w", err)
		}
		s := report.Summary
		if s.Dangling == 0 && s.Orphans == 0 {
			logg.Info("Course files are consistent.", zap.Int("files", s.TotalItems))
		}
		for _, r := range report.Dangling {
			logg.Warn("Dangling reference",
				zap.String("area", string(r.Area)),
				zap.String("name", r.Name),
				zap.Strings("courses", r.Owners),
			)
		}
		if len(report.Orphans) > 0 {
			logg.Warn("Orphaned blobs detected",
				zap.Int("orphans", s.Orphans),
				zap.Int("protected", s.Protected),
			)
			logg.Info("Run 'reconcile files --purge' to delete them.")
		}
	}

	if runSchema {
		report, err := svc.CheckSchema()
		switch {
		case errors.Is(err, integrity.ErrNoDatabase):
			logg.Info("Collection is not kept in SQL, skipping schema check.")
		case err != nil:
			logg.Error("Schema check failed", zap.Error(err))
		case report.Matched:
			logg.Info("Database schema matches expected definition.", zap.String("driver", report.Driver))
		default:
			logg.Warn("Database schema mismatches found", zap.String("driver", report.Driver))
			for table, tbl := range report.Tables {
				if tbl.Status != "ok" && len(tbl.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	return nil
}
