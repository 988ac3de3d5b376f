package config

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/dirsnap/internal/utils"
)

const (
	rootDirectory  = "/proj"
	globalIgnore   = "/home/user/.config/dirsnap/ignore"
	compiledGlob   = "*.pyc"
	buildDirectory = "build/"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, fileSystem afero.Fs, filePath string, content string) {
	testingHandle.Helper()
	require.NoError(testingHandle, fileSystem.MkdirAll(filepath.Dir(filePath), 0o755))
	require.NoError(testingHandle, afero.WriteFile(fileSystem, filePath, []byte(content), 0o644))
}

// deniedOpenFs reports a permission failure when opening deniedPath.
type deniedOpenFs struct {
	afero.Fs
	deniedPath string
}

func (fileSystem deniedOpenFs) Open(name string) (afero.File, error) {
	if name == fileSystem.deniedPath {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return fileSystem.Fs.Open(name)
}

func TestLoadIgnoreFilePatternsSkipsBlankAndCommentLines(testingHandle *testing.T) {
	fileSystem := afero.NewMemMapFs()
	ignorePath := filepath.Join(rootDirectory, utils.IgnoreFileName)
	writeTestFile(testingHandle, fileSystem, ignorePath, "# compiled\n"+compiledGlob+"\n\n   \n  "+buildDirectory+"  \n")

	patterns, loadError := LoadIgnoreFilePatterns(fileSystem, ignorePath)
	require.NoError(testingHandle, loadError)
	assert.Equal(testingHandle, []string{compiledGlob, buildDirectory}, patterns)
}

func TestLoadIgnoreFilePatternsMissingFile(testingHandle *testing.T) {
	patterns, loadError := LoadIgnoreFilePatterns(afero.NewMemMapFs(), "/missing/.dirsnapignore")
	require.NoError(testingHandle, loadError)
	assert.Empty(testingHandle, patterns)
}

func TestLoadRootIgnorePatternsPrefersLocalFiles(testingHandle *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeTestFile(testingHandle, fileSystem, globalIgnore, "global-only\n")
	writeTestFile(testingHandle, fileSystem, filepath.Join(rootDirectory, utils.IgnoreFileName), compiledGlob+"\n"+buildDirectory+"\n")
	writeTestFile(testingHandle, fileSystem, filepath.Join(rootDirectory, utils.GitIgnoreFileName), buildDirectory+"\nvendor/\n")

	patterns := LoadRootIgnorePatterns(fileSystem, rootDirectory, IgnoreOptions{
		LocalFileNames: []string{utils.IgnoreFileName, utils.GitIgnoreFileName},
		GlobalFilePath: globalIgnore,
		ExtraPatterns:  []string{"vendor/", " *.log "},
	}, zap.NewNop())

	assert.Equal(testingHandle, []string{compiledGlob, buildDirectory, "vendor/", gitDirectoryPattern, "*.log"}, patterns)
}

func TestLoadRootIgnorePatternsFallsBackToGlobalFile(testingHandle *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeTestFile(testingHandle, fileSystem, globalIgnore, compiledGlob+"\n")
	require.NoError(testingHandle, fileSystem.MkdirAll(rootDirectory, 0o755))

	patterns := LoadRootIgnorePatterns(fileSystem, rootDirectory, IgnoreOptions{
		LocalFileNames: []string{utils.IgnoreFileName},
		GlobalFilePath: globalIgnore,
		IncludeGit:     true,
	}, nil)

	assert.Equal(testingHandle, []string{compiledGlob}, patterns)
}

func TestLoadRootIgnorePatternsWithoutSources(testingHandle *testing.T) {
	patterns := LoadRootIgnorePatterns(afero.NewMemMapFs(), rootDirectory, IgnoreOptions{IncludeGit: true}, nil)
	assert.Empty(testingHandle, patterns)
}

func TestLoadRootIgnorePatternsWarnsOnUnreadableFile(testingHandle *testing.T) {
	memoryFileSystem := afero.NewMemMapFs()
	localIgnorePath := filepath.Join(rootDirectory, utils.IgnoreFileName)
	writeTestFile(testingHandle, memoryFileSystem, localIgnorePath, compiledGlob+"\n")
	writeTestFile(testingHandle, memoryFileSystem, globalIgnore, "global-only\n")
	fileSystem := deniedOpenFs{Fs: memoryFileSystem, deniedPath: localIgnorePath}
	core, recorded := observer.New(zapcore.WarnLevel)

	patterns := LoadRootIgnorePatterns(fileSystem, rootDirectory, IgnoreOptions{
		LocalFileNames: []string{utils.IgnoreFileName},
		GlobalFilePath: globalIgnore,
	}, zap.New(core))

	assert.Equal(testingHandle, []string{gitDirectoryPattern}, patterns)
	assert.Equal(testingHandle, 1, recorded.FilterMessage(warningIgnoreFileUnreadable).Len())
}
