package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	config "github.com/avatarctic/realestate-crm/configs"
)

var rootCmd = &cobra.Command{
	Use:   "crm",
	Short: "Real estate CRM API",
	Long: `Real estate CRM API server.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command. It is called once by main.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads configuration and builds the process logger.
// configs.Load panics when a required variable is missing; that is reported as an error here.
func loadConfig() (cfg *config.Config, logger *logrus.Logger, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("load configuration: %v", r)
		}
	}()

	cfg, err = config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, newLogger(cfg.Log), nil
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if strings.EqualFold(cfg.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}
	return logger
}
