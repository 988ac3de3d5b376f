package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/temirov/dirsnap/internal/types"
	"github.com/temirov/dirsnap/internal/utils"
)

const (
	configurationGuidanceFormat = "create it with `%s init`"
	warningFlagOutOfRange       = "flag mapping entry outside the supported range dropped"
)

// ErrConfigurationMissing reports that the mapping file does not exist.
var ErrConfigurationMissing = errors.New("configuration file not found")

// ConfigurationError describes a missing or malformed mapping file. It is always fatal.
type ConfigurationError struct {
	Path string
	Err  error
}

func (configurationError *ConfigurationError) Error() string {
	guidance := fmt.Sprintf(configurationGuidanceFormat, utils.ApplicationName)
	return fmt.Sprintf("configuration %s: %v; %s", configurationError.Path, configurationError.Err, guidance)
}

func (configurationError *ConfigurationError) Unwrap() error {
	return configurationError.Err
}

// Mapping is the validated configuration mapping of numeric flags to extension lists.
type Mapping struct {
	Flags         types.FlagTable
	DefaultOutput string
}

type mappingDocument struct {
	DefaultOutput string              `mapstructure:"default_output" yaml:"default_output"`
	Flags         map[string][]string `mapstructure:"flags" yaml:"flags"`
}

// DefaultConfigDirectory returns the global configuration directory of the current user.
func DefaultConfigDirectory() (string, error) {
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		return "", fmt.Errorf("resolve home directory for configuration: %w", homeError)
	}
	return filepath.Join(homeDirectory, filepath.FromSlash(utils.GlobalConfigDirectoryName)), nil
}

// LoadMapping reads the mapping file at path and validates every flag entry.
// Entries whose key is not a flag between 1 and 10 are logged and dropped.
func LoadMapping(fileSystem afero.Fs, path string, logger *zap.Logger) (Mapping, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, statError := fileSystem.Stat(path)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return Mapping{}, &ConfigurationError{Path: path, Err: ErrConfigurationMissing}
		}
		return Mapping{}, &ConfigurationError{Path: path, Err: statError}
	}
	if info.IsDir() {
		return Mapping{}, &ConfigurationError{Path: path, Err: errors.New("path is a directory")}
	}

	reader := viper.New()
	reader.SetFs(fileSystem)
	reader.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		reader.SetConfigType("yaml")
	}
	if readError := reader.ReadInConfig(); readError != nil {
		return Mapping{}, &ConfigurationError{Path: path, Err: fmt.Errorf("read: %w", readError)}
	}
	var document mappingDocument
	if decodeError := reader.Unmarshal(&document); decodeError != nil {
		return Mapping{}, &ConfigurationError{Path: path, Err: fmt.Errorf("decode: %w", decodeError)}
	}

	mapping := Mapping{
		Flags:         types.FlagTable{},
		DefaultOutput: strings.TrimSpace(document.DefaultOutput),
	}
	if mapping.DefaultOutput == "" {
		mapping.DefaultOutput = utils.DefaultOutputFileName
	}
	for key, extensions := range document.Flags {
		flagNumber, parseError := strconv.Atoi(strings.TrimSpace(key))
		flagID := types.FlagID(flagNumber)
		if parseError != nil || !flagID.Valid() {
			logger.Warn(warningFlagOutOfRange, zap.String("flag", key), zap.String("path", path))
			continue
		}
		mapping.Flags[flagID] = utils.NormalizeExtensions(extensions)
	}
	return mapping, nil
}
