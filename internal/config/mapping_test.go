package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/dirsnap/internal/types"
	"github.com/temirov/dirsnap/internal/utils"
)

const mappingPath = "/home/user/.config/dirsnap/config.yaml"

func TestLoadMappingValidatesFlags(testingHandle *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeTestFile(testingHandle, fileSystem, mappingPath, `default_output: out.txt
flags:
  "1": [PY, .pyi]
  "10": [go]
  "11": [rs]
  "zero": [c]
`)
	core, recorded := observer.New(zapcore.WarnLevel)

	mapping, loadError := LoadMapping(fileSystem, mappingPath, zap.New(core))
	require.NoError(testingHandle, loadError)

	assert.Equal(testingHandle, "out.txt", mapping.DefaultOutput)
	assert.Equal(testingHandle, types.FlagTable{1: {"py", "pyi"}, 10: {"go"}}, mapping.Flags)
	assert.Equal(testingHandle, 2, recorded.FilterMessage(warningFlagOutOfRange).Len())
}

func TestLoadMappingDefaultsOutputName(testingHandle *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeTestFile(testingHandle, fileSystem, mappingPath, "flags:\n  \"2\": [go]\n")

	mapping, loadError := LoadMapping(fileSystem, mappingPath, nil)
	require.NoError(testingHandle, loadError)
	assert.Equal(testingHandle, utils.DefaultOutputFileName, mapping.DefaultOutput)

	extensions, lookupError := mapping.Flags.Extensions(2)
	require.NoError(testingHandle, lookupError)
	assert.Equal(testingHandle, []string{"go"}, extensions)

	_, lookupError = mapping.Flags.Extensions(3)
	assert.Error(testingHandle, lookupError)
	_, lookupError = mapping.Flags.Extensions(11)
	assert.Error(testingHandle, lookupError)
}

func TestLoadMappingMissingFileIsConfigurationError(testingHandle *testing.T) {
	_, loadError := LoadMapping(afero.NewMemMapFs(), mappingPath, nil)

	var configurationError *ConfigurationError
	require.True(testingHandle, errors.As(loadError, &configurationError))
	assert.True(testingHandle, errors.Is(loadError, ErrConfigurationMissing))
	assert.Contains(testingHandle, loadError.Error(), utils.ApplicationName+" init")
}

func TestLoadMappingMalformedFileIsConfigurationError(testingHandle *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeTestFile(testingHandle, fileSystem, mappingPath, "flags: [unterminated\n")

	_, loadError := LoadMapping(fileSystem, mappingPath, nil)

	var configurationError *ConfigurationError
	require.True(testingHandle, errors.As(loadError, &configurationError))
	assert.Equal(testingHandle, mappingPath, configurationError.Path)
}

func TestLoadMappingDirectoryIsConfigurationError(testingHandle *testing.T) {
	fileSystem := afero.NewMemMapFs()
	require.NoError(testingHandle, fileSystem.MkdirAll(filepath.Join(filepath.Dir(mappingPath), "dir.yaml"), 0o755))

	_, loadError := LoadMapping(fileSystem, filepath.Join(filepath.Dir(mappingPath), "dir.yaml"), nil)

	var configurationError *ConfigurationError
	assert.True(testingHandle, errors.As(loadError, &configurationError))
}
