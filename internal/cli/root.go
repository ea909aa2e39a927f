// Package cli implements the localbrain command tree.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/kataras/golog"
	"github.com/spf13/cobra"

	"localbrain/internal/config"
)

var (
	cfgPath string
	cfg     *config.AppConfig
	log     *golog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "localbrain",
	Short: "Local RAG agent over your own documents",
	Long: `localbrain ingests text documents into a vector index and answers
questions about them with a locally-hosted language model.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		var err error
		if cfgPath == "" {
			cfg, _, err = config.LoadDefault()
		} else {
			cfg, err = config.Load(cfgPath)
		}
		if err != nil {
			return err
		}
		log = golog.New()
		log.SetLevel(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default: ./localbrain.yaml, then ~/.config/localbrain/config.yaml)")
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}
