package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"webscout/providers"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("62"))

var modelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "List providers and their models",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			models, ok := providers.ModelsFor(args[0])
			if !ok {
				return fmt.Errorf("unknown provider %q", args[0])
			}
			fmt.Println(headerStyle.Render(args[0]))
			for _, m := range models {
				fmt.Println("  " + m)
			}
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, headerStyle.Render("PROVIDER")+"\t"+headerStyle.Render("MODELS"))
		for _, name := range providers.Names() {
			models, _ := providers.ModelsFor(name)
			fmt.Fprintf(w, "%s\t%d\n", name, len(models))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
