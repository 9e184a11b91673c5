package ollama

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultTag         = "latest"
	MediaTypeModel     = "application/vnd.ollama.image.model"
	MediaTypeProjector = "application/vnd.ollama.image.projector"
)

var errNoModelLayer = errors.New("no model layer found in manifest")

type Manifest struct {
	SchemaVersion int     `json:"schemaVersion"`
	Layers        []Layer `json:"layers"`
}

type Layer struct {
	MediaType string `json:"mediaType"`
	Digest    string `json:"digest"`
	Size      int64  `json:"size"`
}

// ResolvedModel points at the GGUF blobs of a locally pulled multimodal model.
type ResolvedModel struct {
	ModelPath string
	// ProjectorPath is empty for text-only models.
	ProjectorPath string
}

// ModelsDir returns where Ollama keeps its manifests and blobs: $OLLAMA_MODELS or ~/.ollama/models.
func ModelsDir() (string, error) {
	if env := os.Getenv("OLLAMA_MODELS"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ollama", "models"), nil
}

// ResolveModel finds the model and projector blobs for a model name such as "llava", "llava:13b" or
// "library/llava:13b" in the Ollama store rooted at `baseDir`. Only the default registry is supported.
func ResolveModel(baseDir, modelName string) (*ResolvedModel, error) {
	name, tag, found := strings.Cut(modelName, ":")
	if !found || tag == "" {
		tag = DefaultTag
	}
	if !strings.Contains(name, "/") {
		name = "library/" + name
	}
	manifestPath := filepath.Join(baseDir, "manifests", "registry.ollama.ai", filepath.FromSlash(name), tag)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("model manifest not found at %s: %w", manifestPath, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", manifestPath, err)
	}
	result := &ResolvedModel{}
	for _, l := range m.Layers {
		switch l.MediaType {
		case MediaTypeModel:
			if result.ModelPath == "" {
				result.ModelPath, err = blobPath(baseDir, l.Digest)
			}
		case MediaTypeProjector:
			if result.ProjectorPath == "" {
				result.ProjectorPath, err = blobPath(baseDir, l.Digest)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if result.ModelPath == "" {
		return nil, errNoModelLayer
	}
	return result, nil
}

// Digest is "sha256:hash", the blob is stored as blobs/sha256-hash.
func blobPath(baseDir, digest string) (string, error) {
	path := filepath.Join(baseDir, "blobs", strings.Replace(digest, ":", "-", 1))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("model blob not found at %s: %w", path, err)
	}
	return path, nil
}
