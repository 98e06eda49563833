package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"squelch/internal/capture"
)

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "parse <filename>",
		Short:       "Parse a capture filename and print its identifiers",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := filepath.Base(args[0])
			meta, ok := capture.ParseFilename(name)
			if !ok {
				return fmt.Errorf("%q does not match the capture filename grammar", name)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "timestamp:  %s\n", meta.Timestamp)
			fmt.Fprintf(out, "talkgroup:  %s\n", meta.TalkgroupID)
			fmt.Fprintf(out, "radio:      %s\n", meta.RadioID)
			return nil
		},
	}
}
