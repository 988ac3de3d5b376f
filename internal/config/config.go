// Package config loads the flag mapping and ignore files consumed by a snapshot run.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/dirsnap/internal/utils"
)

const (
	// gitDirectoryPattern represents the pattern that matches the Git directory.
	gitDirectoryPattern = utils.GitDirectoryName + "/"
	commentPrefix       = "#"

	warningIgnoreFileUnreadable = "ignore file unreadable, using no patterns from it"
)

// IgnoreOptions describes where ignore patterns for a root come from.
type IgnoreOptions struct {
	// LocalFileNames are looked up inside each root, in order.
	LocalFileNames []string
	// GlobalFilePath is consulted only when no local file exists.
	GlobalFilePath string
	// ExtraPatterns are appended after the file patterns.
	ExtraPatterns []string
	// IncludeGit keeps the Git directory in the tree.
	IncludeGit bool
}

// LoadIgnoreFilePatterns reads a specified ignore file and returns its patterns.
// A missing file yields no patterns and no error.
func LoadIgnoreFilePatterns(fileSystem afero.Fs, ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := fileSystem.Open(ignoreFilePath)
	if openFileError != nil {
		if errors.Is(openFileError, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer fileHandle.Close()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("reading %s: %w", ignoreFilePath, scanError)
	}
	return ignorePatterns, nil
}

// LoadRootIgnorePatterns aggregates the ignore patterns for one root directory.
// Local ignore files inside the root replace the global file whenever at least one of them exists.
// Unreadable files are logged and contribute no patterns.
func LoadRootIgnorePatterns(fileSystem afero.Fs, rootDirectoryPath string, options IgnoreOptions, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}

	var sourcePaths []string
	for _, localFileName := range options.LocalFileNames {
		localFilePath := filepath.Join(rootDirectoryPath, localFileName)
		if _, statError := fileSystem.Stat(localFilePath); statError == nil {
			sourcePaths = append(sourcePaths, localFilePath)
		}
	}
	if len(sourcePaths) == 0 && options.GlobalFilePath != "" {
		sourcePaths = append(sourcePaths, options.GlobalFilePath)
	}

	var combinedPatterns []string
	for _, sourcePath := range sourcePaths {
		filePatterns, loadError := LoadIgnoreFilePatterns(fileSystem, sourcePath)
		if loadError != nil {
			logger.Warn(warningIgnoreFileUnreadable, zap.String("path", sourcePath), zap.Error(loadError))
			continue
		}
		combinedPatterns = append(combinedPatterns, filePatterns...)
	}

	if !options.IncludeGit {
		combinedPatterns = append(combinedPatterns, gitDirectoryPattern)
	}

	deduplicatedPatterns := utils.DeduplicatePatterns(combinedPatterns)

	for _, pattern := range options.ExtraPatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if !utils.ContainsString(deduplicatedPatterns, trimmedPattern) {
			deduplicatedPatterns = append(deduplicatedPatterns, trimmedPattern)
		}
	}

	logger.Debug("ignore patterns loaded", zap.String("root", rootDirectoryPath), zap.Strings("sources", sourcePaths), zap.Int("patterns", len(deduplicatedPatterns)))
	return deduplicatedPatterns
}
