// Command bridge runs the intent bridge with a built-in demo app, mainly for
// smoke-testing a core setup end to end.
package main

import (
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/intentlabs/bridge"
	"github.com/intentlabs/bridge/internal/logging"
)

//go:embed etc/bridge.yaml
var embeddedConfig []byte

var (
	configPath string
	coreURL    string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Expose voice-assistant apps as a REST service registered with a core",
	Long: `bridge binds a local port, registers its apps with the core
orchestrator, and dispatches authenticated REST calls to intent handlers.`,
	SilenceUsage: true,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Serve the built-in demo app until interrupted",
	RunE:  runDemo,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (built-in defaults when omitted)")
	rootCmd.PersistentFlags().StringVar(&coreURL, "core", "", "override the core registration URL")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")
	rootCmd.AddCommand(demoCmd)
}

func loadConfig() (bridge.Config, error) {
	// .env is optional, ignore a missing file.
	_ = godotenv.Load()

	data := embeddedConfig
	if configPath != "" {
		b, err := os.ReadFile(configPath)
		if err != nil {
			return bridge.Config{}, fmt.Errorf("read config: %w", err)
		}
		data = b
	}
	cfg, err := bridge.LoadConfig(data)
	if err != nil {
		return bridge.Config{}, err
	}
	if coreURL != "" {
		cfg.Core.URL = coreURL
	}
	if quiet {
		cfg.Quiet = true
		logging.Disable()
	}
	return cfg, nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return bridge.Serve(ctx, cfg, demoApp())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
