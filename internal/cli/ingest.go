package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"localbrain/internal/app"
)

var ingestChunkSize int

var ingestCmd = &cobra.Command{
	Use:   "ingest [file ...]",
	Short: "Ingest text files into the vector index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Shared(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		chunkSize := ingestChunkSize
		if chunkSize == 0 {
			chunkSize = cfg.Ingest.ChunkSize
		}
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			report, err := a.Service.Ingest(cmd.Context(), filepath.Base(path), string(data), chunkSize)
			if err != nil {
				return fmt.Errorf("ingest %s: %w", path, err)
			}
			preview := report.FirstChunkPreview
			if r := []rune(preview); len(r) > 60 {
				preview = string(r[:60]) + "..."
			}
			cmd.Printf("%s: %d chunks written (first chunk: %q)\n", report.Source, report.ChunksWritten, preview)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().IntVar(&ingestChunkSize, "chunk-size", 0, "characters per chunk (overrides config)")
	rootCmd.AddCommand(ingestCmd)
}
