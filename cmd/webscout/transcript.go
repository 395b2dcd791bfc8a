package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"webscout/transcript"
)

var (
	transcriptLangs      []string
	transcriptJSON       bool
	transcriptTimestamps bool
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript <video-url-or-id>",
	Short: "Fetch a YouTube video transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := transcript.NewClient(transcript.Options{
			Proxy:   proxy,
			Timeout: timeout,
		})
		if err != nil {
			return err
		}
		segments, err := client.Get(cmd.Context(), args[0], transcriptLangs...)
		if err != nil {
			return err
		}

		if transcriptJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(segments)
		}
		for _, seg := range segments {
			if transcriptTimestamps {
				fmt.Printf("[%s] %s\n", formatOffset(seg.Start), seg.Text)
			} else {
				fmt.Println(strings.TrimSpace(seg.Text))
			}
		}
		return nil
	},
}

func formatOffset(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func init() {
	rootCmd.AddCommand(transcriptCmd)
	transcriptCmd.Flags().StringSliceVar(&transcriptLangs, "lang", nil, "Preferred transcript languages, in order ('any' matches the first track)")
	transcriptCmd.Flags().BoolVar(&transcriptJSON, "json", false, "Emit segments as JSON")
	transcriptCmd.Flags().BoolVar(&transcriptTimestamps, "timestamps", false, "Prefix each line with its start offset")
}
