package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"squelch/internal/journal"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show watch configuration and journal summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			colorize := shouldColorize(os.Stdout)
			fmt.Println(renderStatusLine("Watch root", statusInfo, cfg.Paths.WatchDir, colorize))
			fmt.Println(renderStatusLine("Endpoint", statusInfo, cfg.Uploader.APIURL, colorize))
			fmt.Println(renderStatusLine("Settle window", statusInfo, fmt.Sprintf("%ds", cfg.Watcher.SettleSeconds), colorize))

			if daemonRunning(cfg.Paths.LogDir) {
				fmt.Println(renderStatusLine("Daemon", statusOK, "running", colorize))
			} else {
				fmt.Println(renderStatusLine("Daemon", statusWarn, "not running", colorize))
			}

			store, err := journal.Open(cfg)
			if err != nil {
				fmt.Println(renderStatusLine("Journal", statusError, err.Error(), colorize))
				return nil
			}
			defer store.Close()

			stats, err := store.Summarize(cmd.Context())
			if err != nil {
				return fmt.Errorf("summarize journal: %w", err)
			}
			summary := fmt.Sprintf("%d attempts (%d uploaded, %d conflict, %d rejected, %d failed)",
				stats.Total, stats.Uploaded, stats.Conflict, stats.Rejected, stats.Failed)
			kind := statusOK
			if stats.Failed > 0 || stats.Rejected > 0 {
				kind = statusWarn
			}
			fmt.Println(renderStatusLine("Journal", kind, summary, colorize))
			return nil
		},
	}
}

// daemonRunning checks the pid file left by squelch run. Best effort only;
// the flock in the daemon is the authoritative single-instance guard.
func daemonRunning(logDir string) bool {
	data, err := os.ReadFile(filepath.Join(logDir, "squelch.pid"))
	if err != nil {
		return false
	}
	return len(data) > 0
}
