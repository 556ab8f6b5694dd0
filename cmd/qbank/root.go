package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/qbank/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "qbank",
	Short: "Convert exam PDFs into structured question banks",
	Long: `qbank reads a two-column exam PDF and writes a question bank: every
numbered question with its type (true/false "row" or four-option "mcq"),
options, resolved answer, page regions and the images that belong to it.

Typical flow:
  qbank extract --pdf exam.pdf --slug 2023-test1 --out public/qbank/2023-test1
  qbank tag --in public/qbank/2023-test1/questions.raw.json --out public/qbank/2023-test1/questions.json
  qbank validate --q public/qbank/2023-test1/questions.json --public-root public`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")

	rootCmd.AddCommand(extractCmd, validateCmd, tagCmd, exportCmd, serveCmd)
}

// loadConfig resolves configuration for cmd from the config file,
// environment and the flags set on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// cliLogger logs to stderr so stdout stays free for summaries.
func cliLogger(cfg config.Config) *slog.Logger {
	level, _ := config.ParseLevel(cfg.LogLevel)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
