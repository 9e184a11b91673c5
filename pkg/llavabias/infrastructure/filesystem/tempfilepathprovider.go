package filesystem

import (
	"os"
	"path/filepath"

	"kgeyst.com/llavabias/pkg/common"
)

// ConfigKeyTempDir where preprocessed images are stored
const ConfigKeyTempDir = "tempDir"

type TempFilePathProvider struct {
	tempDirectoryPath string
}

func NewTempFilePathProvider(config *common.Config) *TempFilePathProvider {
	return &TempFilePathProvider{
		tempDirectoryPath: config.GetStringOrDefault(ConfigKeyTempDir, os.TempDir()),
	}
}

func (t *TempFilePathProvider) GetTempFilePath(fileName string) string {
	return filepath.Join(t.tempDirectoryPath, fileName)
}
