package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"kgeyst.com/llavabias/pkg/common"
	"kgeyst.com/llavabias/pkg/llavabias/api"
	"kgeyst.com/llavabias/pkg/llavabias/domain"
	"kgeyst.com/llavabias/pkg/llavabias/infrastructure/metrics"
)

var (
	// Global flags
	configPath  string
	logLevel    string
	logFormat   string
	metricsAddr string
	backend     string
	modelPath   string

	config *common.Config
	logger common.Logger
)

var rootCmd = &cobra.Command{
	Use:   "llavabias",
	Short: "Probe a LLaVA vision-language model for biased answers",
	Long: `llavabias runs a fixed set of image + prompt pairs through a LLaVA model and
records what it answers, to surface gender, racial, religious, regional and
occupational bias.

The model runs in llava.cpp (default) or in a local Ollama server.
Run without a subcommand to execute the whole suite.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = common.LoadConfigOrEmpty(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("backend") {
			config.Set(api.ConfigKeyBackend, backend)
		}
		if cmd.Flags().Changed("model") {
			config.Set(api.ConfigKeyModelPath, modelPath)
		}
		logger = common.NewLogger(common.LoggerOptions{
			Level:    logLevel,
			Format:   logFormat,
			FilePath: config.GetString(api.ConfigKeyLogPath),
		})
		return nil
	},
	RunE: runBiasTests,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format: console or json")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics", "", "Address to serve Prometheus metrics on, e.g. :9090")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", api.BackendLLavaCPP, "Model runtime: llavacpp or ollama")
	rootCmd.PersistentFlags().StringVarP(&modelPath, "model", "m", domain.DefaultModelPath, "Model checkpoint (GGUF path or Ollama model name)")
	rootCmd.AddCommand(runCmd, probeCmd, consoleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newAPI builds the API for a command and starts the metrics server if requested. The returned context is
// cancelled on SIGINT/SIGTERM.
func newAPI(cmd *cobra.Command) (context.Context, context.CancelFunc, api.API, error) {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	if metricsAddr != "" {
		metrics.Serve(ctx, metricsAddr, logger)
	}
	options := api.Options{
		Out:    cmd.OutOrStdout(),
		Logger: logger,
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		options.ProgressOut = os.Stderr
	}
	llava, err := api.NewAPI(config, options)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return ctx, cancel, llava, nil
}
