// Command heartrisk serves the heart disease prediction form and runs
// one-off predictions from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"heartrisk/config"
	"heartrisk/logging"
)

var (
	configPath string
	logLevel   string

	logger *zap.Logger
	level  zap.AtomicLevel
)

var rootCmd = &cobra.Command{
	Use:   "heartrisk",
	Short: "Heart disease risk prediction",
	Long: `heartrisk collects eleven clinical attributes of a patient and asks a
pre-trained classifier whether the patient is at risk of heart disease.

Run "heartrisk serve" for the web form and JSON API, or "heartrisk predict"
for a single prediction in the terminal.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, predictCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file. A missing default file is not an error;
// the built-in defaults are used instead.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path := configPath
	if _, err := os.Stat(path); os.IsNotExist(err) && !cmd.Flags().Changed("config") {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, path, nil
}

func initLogger(cfg *config.Config) {
	logger, level = logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		Service:    "heartrisk",
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
}
