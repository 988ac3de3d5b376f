package utils_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/dirsnap/internal/utils"
)

const (
	directoryName           = "build"
	directoryPattern        = directoryName + "/"
	wildcardCompiledPattern = "*.pyc"
	compiledFileName        = "a.pyc"
	sourceFileName          = "a.py"
)

func TestShouldIgnore(testingHandle *testing.T) {
	testCases := []struct {
		name        string
		entryName   string
		isDirectory bool
		patterns    []string
		expected    bool
	}{
		{name: "no patterns", entryName: sourceFileName, patterns: nil, expected: false},
		{name: "glob matches file", entryName: compiledFileName, patterns: []string{wildcardCompiledPattern}, expected: true},
		{name: "glob misses file", entryName: sourceFileName, patterns: []string{wildcardCompiledPattern}, expected: false},
		{name: "directory pattern matches directory", entryName: directoryName, isDirectory: true, patterns: []string{directoryPattern}, expected: true},
		{name: "directory pattern skips file of same name", entryName: directoryName, isDirectory: false, patterns: []string{directoryPattern}, expected: false},
		{name: "plain pattern matches directory", entryName: directoryName, isDirectory: true, patterns: []string{directoryName}, expected: true},
		{name: "escaped wildcard matches literal name", entryName: "*.txt", patterns: []string{`\*.txt`}, expected: true},
		{name: "escaped wildcard is not a glob", entryName: "notes.txt", patterns: []string{`\*.txt`}, expected: false},
		{name: "glob directory pattern", entryName: "node_modules", isDirectory: true, patterns: []string{"node_*/"}, expected: true},
		{name: "malformed pattern never matches", entryName: "[", patterns: []string{"["}, expected: false},
		{name: "later pattern still consulted", entryName: compiledFileName, patterns: []string{directoryPattern, wildcardCompiledPattern}, expected: true},
		{name: "pattern is not a path", entryName: sourceFileName, patterns: []string{"src/" + sourceFileName}, expected: false},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			result := utils.ShouldIgnore(testCase.entryName, testCase.isDirectory, testCase.patterns)
			assert.Equal(testingHandle, testCase.expected, result)
		})
	}
}

// TestShouldIgnoreDirectoryOnlyPatternsSkipFiles verifies that every directory-only pattern leaves a same-named file untouched.
func TestShouldIgnoreDirectoryOnlyPatternsSkipFiles(testingHandle *testing.T) {
	names := []string{"vendor", "dist", ".cache", "node_modules", "target"}
	for _, name := range names {
		patterns := []string{name + "/"}
		assert.True(testingHandle, utils.ShouldIgnore(name, true, patterns), name)
		assert.False(testingHandle, utils.ShouldIgnore(name, false, patterns), name)
	}
}

func TestIsPathWithin(testingHandle *testing.T) {
	root := filepath.FromSlash("/work/proj")
	testCases := []struct {
		name      string
		candidate string
		expected  bool
	}{
		{name: "same path", candidate: root, expected: true},
		{name: "descendant", candidate: filepath.Join(root, "src", "pkg"), expected: true},
		{name: "sibling sharing prefix", candidate: root + "-old", expected: false},
		{name: "parent", candidate: filepath.Dir(root), expected: false},
		{name: "unclean descendant", candidate: root + string(filepath.Separator) + "src" + string(filepath.Separator) + "..", expected: true},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			assert.Equal(testingHandle, testCase.expected, utils.IsPathWithin(testCase.candidate, root))
		})
	}
	assert.True(testingHandle, utils.IsPathWithin(filepath.FromSlash("/anything"), filepath.FromSlash("/")))
}

func TestContainsPathIsExact(testingHandle *testing.T) {
	directories := []string{filepath.FromSlash("/work/proj/lib")}
	assert.True(testingHandle, utils.ContainsPath(directories, filepath.FromSlash("/work/proj/lib/")))
	assert.False(testingHandle, utils.ContainsPath(directories, filepath.FromSlash("/work/proj/lib/sub")))
	assert.False(testingHandle, utils.ContainsPath(directories, filepath.FromSlash("/work/proj")))
}

func TestAbsolutePaths(testingHandle *testing.T) {
	workingDirectory := filepath.FromSlash("/work")
	resolved := utils.AbsolutePaths([]string{"src", " ", filepath.FromSlash("/abs/dir/"), "src/../src"}, workingDirectory)
	require.Len(testingHandle, resolved, 2)
	assert.Equal(testingHandle, filepath.Join(workingDirectory, "src"), resolved[0])
	assert.Equal(testingHandle, filepath.FromSlash("/abs/dir"), resolved[1])
}

func TestDeduplicatePatterns(testingHandle *testing.T) {
	deduplicated := utils.DeduplicatePatterns([]string{"*.pyc", ".git/", "*.pyc", "build/", ".git/"})
	assert.Equal(testingHandle, []string{"*.pyc", ".git/", "build/"}, deduplicated)
	assert.True(testingHandle, utils.ContainsString(deduplicated, "build/"))
	assert.False(testingHandle, utils.ContainsString(deduplicated, "dist/"))
}

func TestFormatFileSize(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0 B"},
		{name: "zero", bytes: 0, expected: "0 B"},
		{name: "bytes", bytes: 512, expected: "512 B"},
		{name: "one kibibyte", bytes: 1024, expected: "1 KiB"},
		{name: "fractional kibibyte", bytes: 1536, expected: "1.5 KiB"},
		{name: "just below a mebibyte", bytes: 1023 * 1024, expected: "1023 KiB"},
		{name: "ten mebibytes", bytes: 10 * 1024 * 1024, expected: "10 MiB"},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			assert.Equal(testingHandle, testCase.expected, utils.FormatFileSize(testCase.bytes))
		})
	}
}

func TestNormalizeExtensions(testingHandle *testing.T) {
	normalized := utils.NormalizeExtensions([]string{"PY", ".py", " go ", "", ".", "Md"})
	assert.Equal(testingHandle, []string{"py", "go", "md"}, normalized)
}
