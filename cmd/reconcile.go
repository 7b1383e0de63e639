package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"course-manager/core/reconcile"
	"course-manager/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile files command
	purgeFiles  bool
	dryRunFiles bool
	yesConfirm  bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile course files between the collection and storage",
	Long: `Reconcile course files to detect dangling references and orphaned blobs.
Supports an optional purge that deletes orphans.`,
}

// filesReconcileCmd compares course references with the stored blobs.
var filesReconcileCmd = &cobra.Command{
	Use:   "files",
	Short: "Reconcile course files (report + optionally purge orphans)",
	Long: `Reconcile the videos and materials referenced by courses with the blobs in storage.

Reports dangling references (referenced but not stored) and orphans (stored but
not referenced). Orphans uploaded within the grace period are never purged.

Examples:
  # Report only
  reconcile files

  # Purge orphans (with interactive confirmation)
  reconcile files --purge

  # Purge with auto-confirm (non-interactive)
  reconcile files --purge --yes`,
	RunE: runFilesReconcile,
}

func init() {
	reconcileCmd.AddCommand(filesReconcileCmd)

	filesReconcileCmd.Flags().BoolVar(&purgeFiles, "purge", false, "Enable purge (delete orphaned blobs)")
	filesReconcileCmd.Flags().BoolVar(&dryRunFiles, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	filesReconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(reconcileCmd)
}

func runFilesReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	l := a.logger
	l.Info("Starting file reconciliation")

	svc := integrity.NewService(a.blobs, a.repo, a.db, a.cfg.Integrity, l)

	opts := reconcile.ReconcileOptions{
		DoPurge: purgeFiles,
		DryRun:  dryRunFiles,
	}

	l.Info("Planning reconciliation...")
	plan, err := svc.Plan(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}

	printReconcileReport(l, plan)

	if !purgeFiles {
		l.Info("No actions requested. Use --purge to delete orphaned blobs.")
		return nil
	}
	if dryRunFiles {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if len(plan.Actions) == 0 {
		l.Info("No actions required based on current flags.")
		return nil
	}

	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}
	opts.Confirmed = true

	l.Info("Applying actions...")
	executed, err := svc.Apply(ctx, plan, opts)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}
	l.Info("Successfully executed actions", zap.Int("count", executed))
	return nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, plan *reconcile.ReconcilePlan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("total_items", s.TotalItems),
		zap.Int("referenced", s.Referenced),
		zap.Int("stored", s.Stored),
		zap.Int("dangling", s.Dangling),
		zap.Int("orphans", s.Orphans),
		zap.Int("protected", s.Protected),
	)

	for _, r := range plan.Results {
		if r.Dangling() {
			l.Warn("Dangling reference",
				zap.String("area", string(r.Area)),
				zap.String("name", r.Name),
				zap.Strings("courses", r.Owners),
			)
		}
	}

	if len(plan.Actions) == 0 {
		return
	}
	l.Info("Planned actions", zap.Int("purge_actions", s.PurgeActions))

	maxShow := min(5, len(plan.Actions))
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("area", string(action.Area)),
			zap.String("name", action.Name),
			zap.String("reason", action.Reason),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
