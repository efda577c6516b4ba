// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/daily-budget/internal/config"
	"fjacquet/daily-budget/internal/container"
	"fjacquet/daily-budget/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	ConfigFile string
	Input      string
	Output     string
	Format     string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "daily-budget",
		Short: "A CLI tool that turns a monthly income into safe daily spending allocations.",
		Long: `daily-budget classifies a monthly income into a tier, adjusts every day of the
period for weekends and month end, and moves surplus or deficit from elapsed
days onto the remaining ones so the period stays within budget.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to daily-budget!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Bootstrap(SharedFlags.ConfigFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			Shutdown()
		},
		SilenceUsage: true,
	}

	// SharedFlags holds the persistent flag values
	SharedFlags = CommonFlags{}

	initOnce     sync.Once
	mu           sync.Mutex
	appConfig    *config.Config
	appContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches ./config.yaml, .daily-budget/, $HOME/.daily-budget/)")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Transactions file (.csv or CAMT.053 .xml)")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory (default stdout)")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "table", "Output format: table, json or csv")
	})
}

// Bootstrap loads the configuration and builds the container. It replaces
// any container built earlier.
func Bootstrap(configFile string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfigFromFile(configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := config.ConfigureLoggingFromConfig(cfg)

	c, err := container.NewContainerWithLogger(cfg, logging.NewLogrusAdapterFromLogger(logger))
	if err != nil {
		return fmt.Errorf("initializing components: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if appContainer != nil {
		_ = appContainer.Close()
	}
	Log = logger
	appConfig = cfg
	appContainer = c
	return nil
}

// Shutdown releases the container's resources.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if appContainer == nil {
		return
	}
	if err := appContainer.Close(); err != nil {
		Log.Warnf("Failed to close resources: %v", err)
	}
	appContainer = nil
}

// GetContainer returns the container built by Bootstrap, or nil.
func GetContainer() *container.Container {
	mu.Lock()
	defer mu.Unlock()
	return appContainer
}

// GetConfig returns the loaded configuration, or nil.
func GetConfig() *config.Config {
	mu.Lock()
	defer mu.Unlock()
	return appConfig
}

// GetLogrusAdapter returns the shared logger behind the logging interface.
func GetLogrusAdapter() logging.Logger {
	if c := GetContainer(); c != nil {
		return c.GetLogger()
	}
	return logging.NewLogrusAdapterFromLogger(Log)
}
