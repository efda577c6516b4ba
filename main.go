package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/daily-budget/cmd/batch"
	"fjacquet/daily-budget/cmd/classify"
	"fjacquet/daily-budget/cmd/history"
	"fjacquet/daily-budget/cmd/redistribute"
	"fjacquet/daily-budget/cmd/root"
	"fjacquet/daily-budget/cmd/serve"
	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load .env first so LOG_LEVEL and BUDGET_* are visible
	config.LoadEnv()

	// 2. Configure global log level before any logger is created
	configureLogLevelDirectly()

	// 3. Initialize root command flags
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(redistribute.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(history.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

// configureLogLevelDirectly sets the global logrus level from LOG_LEVEL
func configureLogLevelDirectly() logrus.Level {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	root.Log.SetLevel(logLevel)
	return logLevel
}

// exitCode is 2 for rejected input and 1 for everything else.
func exitCode(err error) int {
	if budgeterror.IsClientError(err) {
		return 2
	}
	return 1
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
