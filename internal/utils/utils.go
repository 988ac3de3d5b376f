// Package utils contains general helper functions used across the snapshot tool.
package utils

import (
	"path/filepath"
	"strings"
)

// Ignore file constants used across the project.
const (
	// IgnoreFileName is the name of the project's local ignore file.
	IgnoreFileName = ".dirsnapignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

const directoryPatternSuffix = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// ShouldIgnore reports whether a directory entry is skipped, matching the bare
// entry name against each pattern in order. A pattern ending with a slash only
// matches directories. The first matching pattern wins; malformed globs never match.
func ShouldIgnore(entryName string, isDirectory bool, ignorePatterns []string) bool {
	for _, normalizedPattern := range ignorePatterns {
		if strings.HasSuffix(normalizedPattern, directoryPatternSuffix) {
			if !isDirectory {
				continue
			}
			normalizedPattern = strings.TrimSuffix(normalizedPattern, directoryPatternSuffix)
		}
		isMatched, matchError := filepath.Match(normalizedPattern, entryName)
		if matchError == nil && isMatched {
			return true
		}
	}
	return false
}

// IsPathWithin reports whether candidatePath equals directoryPath or lies below it.
// Both paths are compared in cleaned form; partial segment matches never count.
func IsPathWithin(candidatePath string, directoryPath string) bool {
	cleanCandidate := filepath.Clean(candidatePath)
	cleanDirectory := filepath.Clean(directoryPath)
	if cleanCandidate == cleanDirectory {
		return true
	}
	directoryPrefix := cleanDirectory
	if !strings.HasSuffix(directoryPrefix, string(filepath.Separator)) {
		directoryPrefix += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanCandidate, directoryPrefix)
}

// IsPathWithinAny reports whether candidatePath is within any of the directories.
func IsPathWithinAny(candidatePath string, directoryPaths []string) bool {
	for _, directoryPath := range directoryPaths {
		if IsPathWithin(candidatePath, directoryPath) {
			return true
		}
	}
	return false
}

// ContainsPath reports whether candidatePath exactly equals one of the directories.
func ContainsPath(directoryPaths []string, candidatePath string) bool {
	cleanCandidate := filepath.Clean(candidatePath)
	for _, directoryPath := range directoryPaths {
		if filepath.Clean(directoryPath) == cleanCandidate {
			return true
		}
	}
	return false
}

// AbsolutePaths resolves each path against workingDirectory, cleans it and drops duplicates.
func AbsolutePaths(paths []string, workingDirectory string) []string {
	resolved := make([]string, 0, len(paths))
	for _, pathValue := range paths {
		trimmedPath := strings.TrimSpace(pathValue)
		if trimmedPath == "" {
			continue
		}
		if !filepath.IsAbs(trimmedPath) {
			trimmedPath = filepath.Join(workingDirectory, trimmedPath)
		}
		resolved = append(resolved, filepath.Clean(trimmedPath))
	}
	return DeduplicatePatterns(resolved)
}

// NormalizeExtensions lowercases extensions, strips a leading dot and drops blanks and duplicates.
func NormalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, extension := range extensions {
		trimmedExtension := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(extension), "."))
		if trimmedExtension == "" {
			continue
		}
		normalized = append(normalized, trimmedExtension)
	}
	return DeduplicatePatterns(normalized)
}
