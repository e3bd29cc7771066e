package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/notice-tracker/internal/config"
	"github.com/donaldgifford/notice-tracker/internal/engine"
	"github.com/donaldgifford/notice-tracker/internal/notify"
	"github.com/donaldgifford/notice-tracker/internal/store"
	"github.com/donaldgifford/notice-tracker/pkg/logger"
	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

var (
	checkSiteKey string
	checkDryRun  bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one check pass and exit",
	Long: "Runs the full check pipeline once against the configured sites and\n" +
		"exits. With --dry-run the pass diffs against the stored snapshots but\n" +
		"sends nothing and persists nothing, so the next real pass sees the\n" +
		"same state.",
	Example: `  notice-tracker check
  notice-tracker check --site aiims
  notice-tracker check --dry-run`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkSiteKey, "site", "", "check only this site key")
	checkCmd.Flags().
		BoolVar(&checkDryRun, "dry-run", false, "diff without dispatching or persisting")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	ctx := cmd.Context()

	backing, err := store.New(ctx, cfg.Store, log)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer func() {
		if err := backing.Close(); err != nil {
			log.Error("store close failed", "error", err)
		}
	}()

	st := backing
	notifier := buildNotifier(cfg, log)
	if checkDryRun {
		st = store.ReadOnly(backing)
		notifier = notify.NewNoOpNotifier(log)
		log.Info("dry run, nothing will be sent or persisted")
	}

	eng := engine.NewEngine(
		st,
		buildFetcher(cfg, log),
		notifier,
		cfg.SiteList(),
		engine.WithLogger(log),
		engine.WithBatchLimit(cfg.Telegram.BatchLimit),
	)

	if checkSiteKey != "" {
		result, err := eng.CheckSiteByKey(ctx, checkSiteKey)
		if err != nil {
			return err
		}
		printSiteResult(result)
		if result.Status == domain.CheckFailed {
			return fmt.Errorf("checking site %s: %s", checkSiteKey, result.Error)
		}
		return nil
	}

	pass, err := eng.RunPass(ctx, domain.TriggerCLI)
	if err != nil {
		return fmt.Errorf("running check pass: %w", err)
	}

	fmt.Printf("Pass %s: %d sites, %d new, %d failed in %s\n",
		pass.ID,
		len(pass.Sites),
		pass.NewTotal(),
		pass.FailedCount(),
		pass.CompletedAt.Sub(pass.StartedAt).Round(time.Millisecond),
	)
	for i := range pass.Sites {
		printSiteResult(pass.Sites[i])
	}
	return nil
}

func printSiteResult(r domain.SiteResult) {
	switch r.Status {
	case domain.CheckFailed:
		fmt.Printf("  %-12s %-7s %s\n", r.SiteKey, r.Status, r.Error)
	case domain.CheckSeeded:
		fmt.Printf("  %-12s %-7s baseline stored with %d notices\n",
			r.SiteKey, r.Status, r.SnapshotSize)
	default:
		fmt.Printf("  %-12s %-7s found=%d new=%d batches=%d snapshot=%d (%dms)\n",
			r.SiteKey, r.Status, r.ItemsFound, r.ItemsNew,
			r.BatchesSent, r.SnapshotSize, r.ElapsedMS)
	}
}
