package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	proxy      string
	timeout    time.Duration
	configPath string
	config     fileConfig

	version string = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "webscout",
	Short: "Talk to free LLM chat endpoints from the terminal",
	Long: `webscout wraps heterogeneous LLM chat endpoints behind one interface.

Pick a provider, send a prompt, and stream the answer back. Conversation
history, prompt optimizers, and persona intros work the same way across
every provider.

Quick start:
  webscout models                     # list providers
  webscout models deepseek            # list a provider's models
  webscout chat "hello there"         # one-shot ask
  webscout chat                       # interactive session
  webscout transcript <video-url>     # fetch a YouTube transcript`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		explicit := cmd.Flags().Changed("config")
		path := configPath
		if path == "" {
			path = defaultConfigPath()
		}
		cfg, err := loadConfig(path, explicit)
		if err != nil {
			return err
		}
		config = cfg
		if !cmd.Flags().Changed("proxy") && config.Proxy != "" {
			proxy = config.Proxy
		}
		if !cmd.Flags().Changed("timeout") {
			d, err := config.timeout()
			if err != nil {
				return err
			}
			if d > 0 {
				timeout = d
			}
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&proxy, "proxy", "", "Proxy URL (http, https, socks5, socks5h)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/webscout/config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
