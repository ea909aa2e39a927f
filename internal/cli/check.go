package cli

import (
	"github.com/spf13/cobra"

	"localbrain/internal/app"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured collaborators are reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Shared(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		cmd.Printf("embedder:     %s\n", cfg.Embedder.Type)
		cmd.Printf("vector index: %s\n", cfg.VectorIndex.Type)
		cmd.Printf("generator:    %s @ %s\n", cfg.Generator.OpenAI.Model, cfg.Generator.OpenAI.BaseURL)

		vec, err := a.Embedder.Embed(cmd.Context(), "environment check")
		if err != nil {
			return err
		}
		cmd.Printf("embedding ok: dimension %d\n", len(vec))

		count, err := a.Index.Count(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("index ok:     %d stored chunks\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
