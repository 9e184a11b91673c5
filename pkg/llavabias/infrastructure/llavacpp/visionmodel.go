package llavacpp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"kgeyst.com/llavabias/pkg/common"
	"kgeyst.com/llavabias/pkg/llavabias/domain"
)

var errEmptyModelOutput = errors.New("the model produced no output")

// how much of llava.cpp's stderr is kept to explain a failure
const stderrTailSize = 2048

const (
	// ConfigKeyLLavaBinaryPath the llava.cpp executable (relative paths are resolved against the working directory)
	ConfigKeyLLavaBinaryPath = "llavaBinaryPath"
	// ConfigKeyMMProjPath the multimodal projector which maps CLIP features into the LLM's embedding space
	ConfigKeyMMProjPath = "mmprojPath"
	// ConfigKeyLLMContextSize the size of the context
	ConfigKeyLLMContextSize = "llmContextSize"
	// ConfigKeyLLMCPUThreadCount the number of CPUs used during inference
	ConfigKeyLLMCPUThreadCount = "llmCPUThreadCount"
	// ConfigKeyLLMGPULayerCount how many layers in the model can be offloaded to GPU
	ConfigKeyLLMGPULayerCount = "llmGPULayerCount"
	// ConfigKeyLLMResponseTimeout when to stop if the model takes too long to process input/generate output
	ConfigKeyLLMResponseTimeout = "llmResponseTimeout"
)

type visionModel struct {
	mutex           sync.Mutex
	binaryPath      string
	modelPath       string
	mmprojPath      string
	contextSize     int
	gpuLayerCount   int
	cpuThreadCount  int
	responseTimeout time.Duration
	logger          common.Logger
}

// NewVisionModel creates a vision model as implemented by llava.cpp. `modelPath` and `mmprojPath` are the GGUF
// language model and the CLIP projector; relative paths are resolved against the working directory.
func NewVisionModel(modelPath, mmprojPath string, config *common.Config, logger common.Logger) (domain.VisionModel, error) {
	workingDirectory, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return &visionModel{
		binaryPath:      resolvePath(workingDirectory, config.GetStringOrDefault(ConfigKeyLLavaBinaryPath, "llava.cpp")),
		modelPath:       resolvePath(workingDirectory, modelPath),
		mmprojPath:      resolvePath(workingDirectory, mmprojPath),
		contextSize:     config.GetIntOrDefault(ConfigKeyLLMContextSize, 4096),
		gpuLayerCount:   config.GetIntOrDefault(ConfigKeyLLMGPULayerCount, 40),
		cpuThreadCount:  config.GetIntOrDefault(ConfigKeyLLMCPUThreadCount, 6),
		responseTimeout: config.GetDurationOrDefault(ConfigKeyLLMResponseTimeout, 5*time.Minute),
		logger:          logger,
	}, nil
}

func (v *visionModel) Name() string {
	return "llava.cpp:" + filepath.Base(v.modelPath)
}

func (v *visionModel) Infer(ctx context.Context, request domain.InferRequest) (string, error) {
	// Only 1 request can be processed at a time because a single GPU usually can't fit two copies of
	// the model in VRAM.
	v.mutex.Lock()
	defer v.mutex.Unlock()
	var buf strings.Builder
	err := runInferCommand(ctx, v.buildArgs(request), v.responseTimeout, func(chunk string) bool {
		buf.WriteString(chunk)
		if request.StopCondition == nil {
			return true
		}
		return !request.StopCondition.ShouldStop(request.Prompt, removeGarbage(buf.String()))
	})
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		// A crash or a timeout in the middle of generation leaves what has been generated so far intact.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || buf.Len() == 0 {
			return "", err
		}
		v.logger.Warn("llava.cpp exited abnormally, keeping partial output", "error", err)
	}
	output := removeGarbage(buf.String())
	if output == "" {
		return "", errEmptyModelOutput
	}
	return output, nil
}

func (v *visionModel) buildArgs(request domain.InferRequest) []string {
	args := []string{
		v.binaryPath,
		"-m", v.modelPath,
		"--mmproj", v.mmprojPath,
		"--image", request.ImagePath,
		"-t", strconv.Itoa(v.cpuThreadCount),
		"-ngl", strconv.Itoa(v.gpuLayerCount),
		"-c", strconv.Itoa(v.contextSize),
		"--temp", strconv.FormatFloat(request.Temperature, 'f', -1, 64),
	}
	if request.MaxNewTokens > 0 {
		args = append(args, "-n", strconv.Itoa(request.MaxNewTokens))
	}
	return append(args, "-p", request.Prompt)
}

// We hook up to the llava.cpp binary by launching a subprocess and reading its standard output until
// processChunkFunc(..) signals it should stop with false as the returned value.
// Launching it as a new subprocess for each run has the following benefits:
// - full isolation (for privacy)
// - fault-tolerance: crashes in llava.cpp do not crash the harness altogether
func runInferCommand(ctx context.Context, args []string, responseTimeout time.Duration, processChunkFunc func(s string) bool) error {
	ctx, cancelFunc := context.WithTimeout(ctx, responseTimeout)
	defer cancelFunc()
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	stderr := &tailBuffer{limit: stderrTailSize}
	cmd.Stderr = stderr
	cmd.WaitDelay = time.Second
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err = cmd.Start(); err != nil {
		return err
	}
	reader := bufio.NewReader(stdout)
	chunk := make([]byte, 256)
	stopped := false
	for {
		n, readErr := reader.Read(chunk)
		if n > 0 && !processChunkFunc(string(chunk[:n])) {
			stopped = true
			cancelFunc() // the process function signals we should stop because a certain condition has been met
			break
		}
		if readErr != nil {
			break
		}
	}
	// Wait closes the pipe once the process is gone, killed or not
	err = cmd.Wait()
	if stopped {
		return nil
	}
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("llava.cpp timed out after %s: %w", responseTimeout, err)
	}
	if err != nil && stderr.Len() > 0 {
		return fmt.Errorf("%w: %s", err, stderr.String())
	}
	return err
}

// tailBuffer keeps the last `limit` bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.limit {
		t.buf = t.buf[len(t.buf)-t.limit:]
	}
	return len(p), nil
}

func (t *tailBuffer) Len() int {
	return len(t.buf)
}

func (t *tailBuffer) String() string {
	return strings.TrimSpace(string(t.buf))
}

// Older llava.cpp builds print loading diagnostics to stdout; the answer starts after the last of them.
// TODO drop once every supported build logs diagnostics to stderr only
func removeGarbage(result string) string {
	const anchor = "per image patch)"
	hackIndex := strings.LastIndex(result, anchor)
	if hackIndex != -1 {
		result = result[hackIndex+len(anchor):]
	}
	return strings.TrimSpace(result)
}

func resolvePath(workingDirectory, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDirectory, path)
}
