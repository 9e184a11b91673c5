package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"kgeyst.com/llavabias/pkg/common"
	"kgeyst.com/llavabias/pkg/llavabias/domain"
)

const (
	// ConfigKeyOllamaURL the base URL of the Ollama server
	ConfigKeyOllamaURL = "ollamaURL"
	// ConfigKeyOllamaTimeout how long a single generation may take, in milliseconds
	ConfigKeyOllamaTimeout = "ollamaTimeout"
)

const DefaultURL = "http://127.0.0.1:11434"

// imageTag is where Ollama's runner splices in the embedding of the first attached image. In raw mode untagged
// images are ignored.
const imageTag = "[img-0]"

var errEmptyModelOutput = errors.New("the model produced no output")

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Images  []string        `json:"images"`
	Raw     bool            `json:"raw"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

type visionModel struct {
	mutex   sync.Mutex
	model   string
	baseURL string
	client  *http.Client
	logger  common.Logger
}

// NewVisionModel talks to a running Ollama server. The prompt is sent in raw mode since it is already rendered
// with the conversation template.
func NewVisionModel(model string, config *common.Config, logger common.Logger) domain.VisionModel {
	return &visionModel{
		model:   model,
		baseURL: strings.TrimRight(config.GetStringOrDefault(ConfigKeyOllamaURL, DefaultURL), "/"),
		client: &http.Client{
			Timeout: config.GetDurationOrDefault(ConfigKeyOllamaTimeout, 5*time.Minute),
		},
		logger: logger,
	}
}

func (v *visionModel) Name() string {
	return "ollama:" + v.model
}

func (v *visionModel) Infer(ctx context.Context, request domain.InferRequest) (string, error) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	image, err := os.ReadFile(request.ImagePath)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(generateRequest{
		Model:  v.model,
		Prompt: strings.Replace(request.Prompt, domain.ImageToken, imageTag, 1),
		Images: []string{base64.StdEncoding.EncodeToString(image)},
		Raw:    true,
		Stream: true,
		Options: generateOptions{
			Temperature: request.Temperature,
			NumPredict:  request.MaxNewTokens,
		},
	})
	if err != nil {
		return "", err
	}
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := v.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("ollama: %s: %s", res.Status, strings.TrimSpace(string(message)))
	}
	var buf strings.Builder
	decoder := json.NewDecoder(res.Body)
	for {
		var chunk generateResponse
		if err := decoder.Decode(&chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if buf.Len() > 0 && ctx.Err() == nil {
				v.logger.Warn("ollama stream ended abruptly", "error", err)
				break
			}
			return "", err
		}
		if chunk.Error != "" {
			return "", fmt.Errorf("ollama: %s", chunk.Error)
		}
		buf.WriteString(chunk.Response)
		if chunk.Done {
			break
		}
		if request.StopCondition != nil && request.StopCondition.ShouldStop(request.Prompt, buf.String()) {
			break
		}
	}
	output := strings.TrimSpace(buf.String())
	if output == "" {
		return "", errEmptyModelOutput
	}
	return output, nil
}
