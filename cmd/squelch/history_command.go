package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"squelch/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent upload attempts from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list journal entries: %w", err)
			}
			if len(entries) == 0 {
				fmt.Println("journal is empty")
				return nil
			}

			headers := []string{"When", "Stem", "Talkgroup", "Radio", "Outcome", "HTTP", "Size"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignRight, alignRight}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				httpText := ""
				if entry.HTTPStatus != 0 {
					httpText = strconv.Itoa(entry.HTTPStatus)
				}
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format(time.DateTime),
					truncateStem(entry.Stem, 48),
					entry.TalkgroupID,
					entry.RadioID,
					string(entry.Outcome),
					httpText,
					strconv.FormatInt(entry.TranscriptSize, 10),
				})
			}
			fmt.Println(renderTable(headers, rows, aligns))
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 25, "Maximum entries to show")

	historyCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("removed %d journal entries\n", removed)
			return nil
		},
	})

	return historyCmd
}

func truncateStem(stem string, max int) string {
	if len(stem) <= max {
		return stem
	}
	return stem[:max-1] + "…"
}
