package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"localbrain/internal/app"
	"localbrain/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive chat over the ingested documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Shared(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = tea.NewProgram(tui.New(a.Service), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
