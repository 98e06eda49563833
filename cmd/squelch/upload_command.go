package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"squelch/internal/capture"
	"squelch/internal/dedup"
	"squelch/internal/journal"
	"squelch/internal/logging"
	"squelch/internal/uploader"
)

func newTestUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-upload <path>",
		Short: "Upload an existing capture pair once, bypassing the watcher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			pair, complete := capture.Resolve(path)
			if !complete {
				return fmt.Errorf("no complete pair for %q (need both .mp3 and .txt)", path)
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			ledger := dedup.NewLedger(cfg.Watcher.HistoryLimit)
			submitter := uploader.New(cfg, ledger, store, logger)
			if err := submitter.Submit(cmd.Context(), pair); err != nil {
				return fmt.Errorf("upload %s: %w", pair.Stem, err)
			}
			return nil
		},
	}
}
