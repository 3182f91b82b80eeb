package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"market-service/internal/config"

	"github.com/spf13/cobra"
)

func setupLogging(logDir string) (*os.File, error) {
	fmt.Println("Log directory:", logDir)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	if absPath, err := filepath.Abs(logFile); err == nil {
		fmt.Printf("Logging to %s\n", absPath)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	return file, nil
}

func newRootCmd() *cobra.Command {
	var logToStdout bool

	root := &cobra.Command{
		Use:   "market-service",
		Short: "Market creation and notification fan-out service",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if logToStdout {
				return nil
			}
			cfg := config.New()
			file, err := setupLogging(cfg.LogDir)
			if err != nil {
				return err
			}
			cobra.OnFinalize(func() { file.Close() })
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&logToStdout, "stdout", false, "log to stdout instead of the dated log file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API, the notification consumer and the close notifier",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), config.New(), modeServe)
			},
		},
		&cobra.Command{
			Use:   "consume",
			Short: "Run only the notification consumer",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), config.New(), modeConsume)
			},
		},
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Printf("market-service exited: %v", err)
		os.Exit(1)
	}
}
