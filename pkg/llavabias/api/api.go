package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"kgeyst.com/llavabias/pkg/common"
	"kgeyst.com/llavabias/pkg/llavabias/domain"
	"kgeyst.com/llavabias/pkg/llavabias/infrastructure/filesystem"
	"kgeyst.com/llavabias/pkg/llavabias/infrastructure/images"
	"kgeyst.com/llavabias/pkg/llavabias/infrastructure/llavacpp"
	"kgeyst.com/llavabias/pkg/llavabias/infrastructure/logging"
	"kgeyst.com/llavabias/pkg/llavabias/infrastructure/metrics"
	"kgeyst.com/llavabias/pkg/llavabias/infrastructure/ollama"
	"kgeyst.com/llavabias/pkg/llavabias/infrastructure/progress"
	"kgeyst.com/llavabias/pkg/llavabias/infrastructure/web"
)

// See domain/config.go
const (
	ConfigKeyBackend   = domain.ConfigKeyBackend
	ConfigKeyModelPath = domain.ConfigKeyModelPath
	ConfigKeyLogPath   = domain.ConfigKeyLogPath
)

const (
	BackendLLavaCPP = "llavacpp"
	BackendOllama   = "ollama"

	defaultMMProjPath    = "llava-proj.bin"
	defaultOllamaModel   = "llava"
	imageDownloadTimeout = time.Minute
)

// API is the entrypoint to the harness. It shouldn't contain any logic of its own; it glues all the components
// together. The same API serves the batch run, single probes and the interactive console.
type API interface {
	// RunBiasTests runs every selected test case, prints progress to the output and saves the report.
	// Returns the path of the report. Failing test cases are reported and skipped.
	RunBiasTests(ctx context.Context) (string, error)
	// Caption asks the model `prompt` about the image at `imageSource` (a path or an http(s) URL).
	Caption(ctx context.Context, imageSource, prompt string) (string, error)
}

type Options struct {
	// Out receives the human-readable progress. Defaults to os.Stdout.
	Out io.Writer
	// ProgressOut, if set, shows a spinner during generation.
	ProgressOut io.Writer
	Logger      common.Logger
	// VisionModel overrides the backend selected in the config.
	VisionModel domain.VisionModel
}

type api struct {
	config           *common.Config
	out              io.Writer
	logger           common.Logger
	captioner        domain.ImageCaptioner
	suiteProvider    domain.TestSuiteProvider
	reportRepository domain.ReportRepository
	observers        []domain.SuiteObserver
}

func NewAPI(config *common.Config, options Options) (API, error) {
	out := options.Out
	if out == nil {
		out = os.Stdout
	}
	logger := options.Logger
	if logger == nil {
		logger = common.NewNopLogger()
	}
	promptsDir := config.GetStringOrDefault(domain.ConfigKeyPromptsDir, domain.DefaultPromptsDir)
	resultsDir := config.GetStringOrDefault(domain.ConfigKeyResultsDir, domain.DefaultResultsDir)
	if err := filesystem.EnsureDirectories(promptsDir, resultsDir); err != nil {
		return nil, err
	}
	_, _ = fmt.Fprintln(out, "Initializing LLaVA model...")
	visionModel := options.VisionModel
	if visionModel == nil {
		var err error
		visionModel, err = newVisionModel(config, logger)
		if err != nil {
			return nil, err
		}
	}
	logger.Info("vision model ready", "model", visionModel.Name())
	visionModel = logging.NewVisionModelDecorator(metrics.NewVisionModelDecorator(visionModel), logger)
	if options.ProgressOut != nil {
		visionModel = progress.NewVisionModelDecorator(visionModel, options.ProgressOut)
	}
	imageLoader := images.NewLoader(
		&http.Client{Timeout: imageDownloadTimeout},
		web.NewImagePageResolver(),
		filesystem.NewTempFilePathProvider(config),
		config,
		logger,
	)
	captioner, err := domain.NewCaptioner(visionModel, imageLoader, config, logger)
	if err != nil {
		return nil, err
	}
	return &api{
		config:           config,
		out:              out,
		logger:           logger,
		captioner:        captioner,
		suiteProvider:    filesystem.NewSuiteProvider(config),
		reportRepository: filesystem.NewReportRepository(resultsDir),
		observers:        []domain.SuiteObserver{metrics.NewSuiteObserver()},
	}, nil
}

func (a *api) RunBiasTests(ctx context.Context) (string, error) {
	testCases, err := a.suiteProvider.TestCases()
	if err != nil {
		return "", err
	}
	runLogger := a.logger.With("run_id", uuid.NewString())
	runLogger.Info("bias test run started", "cases", len(testCases))
	runner := domain.NewSuiteRunner(a.captioner, a.out, a.config, runLogger, a.observers...)
	results := runner.Run(ctx, testCases)
	path, err := a.reportRepository.Save(results)
	if err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	runLogger.Info("bias test run finished", "succeeded", len(results), "failed", len(testCases)-len(results), "report", path)
	_, _ = fmt.Fprintf(a.out, "\nResults saved to %s\n", path)
	return path, nil
}

func (a *api) Caption(ctx context.Context, imageSource, prompt string) (string, error) {
	caption, err := a.captioner.Caption(ctx, imageSource, prompt)
	if err != nil {
		return "", err
	}
	return caption.Output, nil
}

func newVisionModel(config *common.Config, logger common.Logger) (domain.VisionModel, error) {
	backend := config.GetStringOrDefault(ConfigKeyBackend, BackendLLavaCPP)
	switch backend {
	case BackendLLavaCPP:
		modelPath := config.GetStringOrDefault(ConfigKeyModelPath, domain.DefaultModelPath)
		mmprojPath := config.GetString(llavacpp.ConfigKeyMMProjPath)
		modelPath, mmprojPath = resolveOllamaModel(modelPath, mmprojPath, logger)
		if mmprojPath == "" {
			mmprojPath = defaultMMProjPath
		}
		return llavacpp.NewVisionModel(modelPath, mmprojPath, config, logger)
	case BackendOllama:
		return ollama.NewVisionModel(config.GetStringOrDefault(ConfigKeyModelPath, defaultOllamaModel), config, logger), nil
	}
	return nil, fmt.Errorf("unknown backend %q (expected %q or %q)", backend, BackendLLavaCPP, BackendOllama)
}

// resolveOllamaModel lets llava.cpp run weights pulled with `ollama pull llava:13b`: if `modelPath` isn't a file
// but names a model in the local Ollama store, its blobs are used. An explicitly configured projector wins.
func resolveOllamaModel(modelPath, mmprojPath string, logger common.Logger) (string, string) {
	if _, err := os.Stat(modelPath); err == nil {
		return modelPath, mmprojPath
	}
	modelsDir, err := ollama.ModelsDir()
	if err != nil {
		return modelPath, mmprojPath
	}
	resolved, err := ollama.ResolveModel(modelsDir, modelPath)
	if err != nil {
		logger.Debug("using direct model path", "model", modelPath, "reason", err)
		return modelPath, mmprojPath
	}
	logger.Info("resolved Ollama model", "original", modelPath, "resolved", resolved.ModelPath)
	if mmprojPath == "" {
		mmprojPath = resolved.ProjectorPath
	}
	return resolved.ModelPath, mmprojPath
}
