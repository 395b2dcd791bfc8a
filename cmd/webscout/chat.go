package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"webscout"
	"webscout/providers"
)

var (
	chatProvider   string
	chatModel      string
	chatAPIKey     string
	chatCookies    string
	chatSystem     string
	chatIntro      string
	chatAct        string
	chatOptimizer  string
	chatConvOpt    bool
	chatNoStream   bool
	chatNoHistory  bool
	chatHistoryLoc string
)

var (
	youStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	botStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Send a prompt to a provider",
	Long: `Send a prompt to the selected provider and print the reply.

With a prompt argument the command asks once and exits. Without one it
opens an interactive session; exit with "quit" or Ctrl-D.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyFileDefault(cmd, "provider", &chatProvider, config.Provider)
		applyFileDefault(cmd, "model", &chatModel, config.Model)
		applyFileDefault(cmd, "api-key", &chatAPIKey, config.APIKey)
		applyFileDefault(cmd, "cookies", &chatCookies, config.Cookies)
		applyFileDefault(cmd, "system", &chatSystem, config.System)
		applyFileDefault(cmd, "history-file", &chatHistoryLoc, config.HistoryFile)

		provider, err := providers.New(chatProvider, providers.Options{
			Model:               chatModel,
			APIKey:              chatAPIKey,
			CookiePath:          chatCookies,
			SystemPrompt:        chatSystem,
			Intro:               chatIntro,
			Act:                 chatAct,
			DisableConversation: chatNoHistory,
			Filepath:            chatHistoryLoc,
			Proxy:               proxy,
			Timeout:             timeout,
		})
		if err != nil {
			return err
		}

		askOpts := &webscout.AskOptions{
			Optimizer:        chatOptimizer,
			Conversationally: chatConvOpt,
		}

		if len(args) > 0 {
			return askOnce(cmd.Context(), provider, strings.Join(args, " "), askOpts)
		}
		return interactive(cmd.Context(), provider, askOpts)
	},
}

func applyFileDefault(cmd *cobra.Command, flag string, dst *string, fromFile string) {
	if !cmd.Flags().Changed(flag) && fromFile != "" {
		*dst = fromFile
	}
}

func askOnce(ctx context.Context, provider webscout.Provider, prompt string, opts *webscout.AskOptions) error {
	if chatNoStream {
		resp, err := provider.Ask(ctx, prompt, opts)
		if err != nil {
			return err
		}
		fmt.Println(resp.Text)
		return nil
	}

	st, err := provider.AskStream(ctx, prompt, opts)
	if err != nil {
		return err
	}
	for {
		ev, ok := st.Next()
		if !ok {
			break
		}
		fmt.Print(webscout.GetMessage(ev))
	}
	fmt.Println()
	return st.Err()
}

func interactive(ctx context.Context, provider webscout.Provider, opts *webscout.AskOptions) error {
	fmt.Printf("%s session. Type %q to leave.\n", chatProvider, "quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(youStyle.Render("you") + " > ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}
		if prompt == "quit" || prompt == "exit" {
			return nil
		}

		fmt.Print(botStyle.Render(chatProvider) + " > ")
		if err := askOnce(ctx, provider, prompt, opts); err != nil {
			fmt.Println(errStyle.Render(err.Error()))
		}
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatProvider, "provider", "P", "deepseek", "Provider name (see 'webscout models')")
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "Model id (provider default when empty)")
	chatCmd.Flags().StringVarP(&chatAPIKey, "api-key", "k", "", "API key for providers that need one")
	chatCmd.Flags().StringVar(&chatCookies, "cookies", "", "Path to an exported cookie JSON file")
	chatCmd.Flags().StringVar(&chatSystem, "system", "", "System prompt override")
	chatCmd.Flags().StringVar(&chatIntro, "intro", "", "Conversation intro override")
	chatCmd.Flags().StringVar(&chatAct, "act", "", "Persona from the act library")
	chatCmd.Flags().StringVar(&chatOptimizer, "optimizer", "", "Prompt optimizer name")
	chatCmd.Flags().BoolVar(&chatConvOpt, "conversationally", false, "Apply the optimizer to the assembled prompt")
	chatCmd.Flags().BoolVar(&chatNoStream, "no-stream", false, "Wait for the full reply instead of streaming")
	chatCmd.Flags().BoolVar(&chatNoHistory, "no-history", false, "Disable conversation history")
	chatCmd.Flags().StringVar(&chatHistoryLoc, "history-file", "", "Persist conversation history to this file")
}
