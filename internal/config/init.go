package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/temirov/dirsnap/internal/types"
	"github.com/temirov/dirsnap/internal/utils"
)

var defaultFlagExtensions = map[types.FlagID][]string{
	1:  {"py"},
	2:  {"go", "mod"},
	3:  {"js", "jsx", "ts", "tsx"},
	4:  {"java", "kt"},
	5:  {"c", "h", "cpp", "hpp"},
	6:  {"rs", "toml"},
	7:  {"rb"},
	8:  {"md", "txt", "rst"},
	9:  {"json", "yaml", "yml"},
	10: {"sh", "bash", "zsh"},
}

var defaultIgnorePatterns = []string{
	".git/",
	"__pycache__/",
	"*.pyc",
	"node_modules/",
	".venv/",
	"venv/",
	".idea/",
	".vscode/",
	"dist/",
	"build/",
	".DS_Store",
}

const ignoreFileHeader = "# One pattern per line. A trailing slash matches directories only.\n"

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	ConfigPath     string
	IgnoreFilePath string
	Force          bool
}

// InitializeConfiguration writes the default mapping and, when absent, the default global ignore file.
// It returns the mapping path.
func InitializeConfiguration(fileSystem afero.Fs, options InitOptions) (string, error) {
	destinationPath := options.ConfigPath
	if destinationPath == "" {
		return "", errors.New("configuration path is empty")
	}

	if _, statError := fileSystem.Stat(destinationPath); statError == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !errors.Is(statError, fs.ErrNotExist) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, statError)
	}

	configurationDirectory := filepath.Dir(destinationPath)
	if mkdirError := fileSystem.MkdirAll(configurationDirectory, 0o755); mkdirError != nil {
		return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, mkdirError)
	}

	renderedMapping, marshalError := yaml.Marshal(defaultMappingDocument())
	if marshalError != nil {
		return "", fmt.Errorf("encode default configuration: %w", marshalError)
	}
	if writeError := afero.WriteFile(fileSystem, destinationPath, renderedMapping, 0o600); writeError != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, writeError)
	}

	if options.IgnoreFilePath != "" {
		if writeError := writeDefaultIgnoreFile(fileSystem, options.IgnoreFilePath); writeError != nil {
			return "", writeError
		}
	}

	return destinationPath, nil
}

func defaultMappingDocument() mappingDocument {
	document := mappingDocument{
		DefaultOutput: utils.DefaultOutputFileName,
		Flags:         make(map[string][]string, len(defaultFlagExtensions)),
	}
	for flagID, extensions := range defaultFlagExtensions {
		document.Flags[strconv.Itoa(int(flagID))] = extensions
	}
	return document
}

func writeDefaultIgnoreFile(fileSystem afero.Fs, ignoreFilePath string) error {
	exists, existsError := afero.Exists(fileSystem, ignoreFilePath)
	if existsError != nil {
		return fmt.Errorf("inspect ignore file %s: %w", ignoreFilePath, existsError)
	}
	if exists {
		return nil
	}
	content := ignoreFileHeader
	for _, pattern := range defaultIgnorePatterns {
		content += pattern + "\n"
	}
	if writeError := afero.WriteFile(fileSystem, ignoreFilePath, []byte(content), 0o644); writeError != nil {
		return fmt.Errorf("write ignore file to %s: %w", ignoreFilePath, writeError)
	}
	return nil
}
