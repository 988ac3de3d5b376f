package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/dirsnap/internal/types"
	"github.com/temirov/dirsnap/internal/utils"
)

const (
	directoryDisplaySuffix = "/"

	warningRootMissing       = "root does not exist, skipping"
	warningRootNotDirectory  = "root is not a directory, skipping"
	warningRootUnresolvable  = "root path cannot be resolved, skipping"
	warningPermissionDenied  = "permission denied, skipping directory"
	warningDirectoryListing  = "directory cannot be listed, skipping"
	warningSymlinkDangling   = "symbolic link target cannot be resolved"
	directoryErrorTextFormat = "[Error: %v]"
)

// WalkerOptions configures a Walker.
type WalkerOptions struct {
	FileSystem afero.Fs
	Selection  types.SelectionConfig
	// IncludeContent enables content extraction for files approved by the classifier.
	IncludeContent bool
	// RootPatterns supplies the ignore patterns for an absolute root directory.
	RootPatterns func(rootDirectoryPath string) []string
	Logger       *zap.Logger
}

// Walker traverses root directories depth first and produces render lines.
type Walker struct {
	options WalkerOptions
}

// NewWalker constructs a Walker, defaulting to the operating system filesystem and a no-op logger.
func NewWalker(options WalkerOptions) *Walker {
	if options.FileSystem == nil {
		options.FileSystem = afero.NewOsFs()
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.RootPatterns == nil {
		options.RootPatterns = func(string) []string { return nil }
	}
	return &Walker{options: options}
}

// ResolveRoot converts rootPath to an absolute directory, reporting whether it can be walked.
func (walker *Walker) ResolveRoot(rootPath string) (types.ValidatedRoot, bool) {
	logger := walker.options.Logger
	absolutePath, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		logger.Warn(warningRootUnresolvable, zap.String("root", rootPath), zap.Error(absoluteError))
		return types.ValidatedRoot{}, false
	}
	info, statError := walker.options.FileSystem.Stat(absolutePath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			logger.Warn(warningRootMissing, zap.String("root", rootPath))
		} else {
			logger.Warn(warningRootUnresolvable, zap.String("root", rootPath), zap.Error(statError))
		}
		return types.ValidatedRoot{}, false
	}
	if !info.IsDir() {
		logger.Warn(warningRootNotDirectory, zap.String("root", rootPath))
		return types.ValidatedRoot{}, false
	}
	return types.ValidatedRoot{AbsolutePath: absolutePath, DisplayName: rootDisplayName(absolutePath)}, true
}

// Lines returns the render lines for rootPaths. The sequence is finite and may be
// ranged over again to repeat the traversal. Roots that cannot be walked are logged
// and omitted; consecutive roots are separated by an empty line.
func (walker *Walker) Lines(rootPaths []string) iter.Seq[types.RenderLine] {
	return func(yield func(types.RenderLine) bool) {
		renderedRoots := 0
		for _, rootPath := range rootPaths {
			root, walkable := walker.ResolveRoot(rootPath)
			if !walkable {
				continue
			}
			if renderedRoots > 0 && !yield(types.RenderLine{Kind: types.LineKindSeparator}) {
				return
			}
			renderedRoots++
			if !yield(types.RenderLine{Kind: types.LineKindRoot, Text: root.DisplayName}) {
				return
			}
			ignorePatterns := walker.options.RootPatterns(root.AbsolutePath)
			if !walker.walkDirectory(root.AbsolutePath, "", ignorePatterns, yield) {
				return
			}
		}
	}
}

func (walker *Walker) walkDirectory(directoryPath string, prefix string, ignorePatterns []string, yield func(types.RenderLine) bool) bool {
	entries, listError := walker.listDirectory(directoryPath, ignorePatterns)
	if listError != nil {
		noticeText := fmt.Sprintf(directoryErrorTextFormat, listError)
		if errors.Is(listError, fs.ErrPermission) {
			walker.options.Logger.Warn(warningPermissionDenied, zap.String("directory", directoryPath))
			noticeText = types.PermissionDeniedText
		} else {
			walker.options.Logger.Warn(warningDirectoryListing, zap.String("directory", directoryPath), zap.Error(listError))
		}
		return yield(types.RenderLine{Kind: types.LineKindNotice, Prefix: prefix, Connector: types.ConnectorLast, Text: noticeText})
	}

	for entryIndex, entry := range entries {
		connector := types.ConnectorBranch
		childPrefix := prefix + types.PaddingBranch
		if entryIndex == len(entries)-1 {
			connector = types.ConnectorLast
			childPrefix = prefix + types.PaddingLast
		}

		if entry.IsDirectory {
			if !yield(types.RenderLine{Kind: types.LineKindDirectory, Prefix: prefix, Connector: connector, Text: entry.Name + directoryDisplaySuffix}) {
				return false
			}
			if entry.IsSymlink {
				continue
			}
			if !walker.walkDirectory(entry.Path, childPrefix, ignorePatterns, yield) {
				return false
			}
			continue
		}

		if !yield(types.RenderLine{Kind: types.LineKindFile, Prefix: prefix, Connector: connector, Text: entry.Name}) {
			return false
		}
		if !walker.options.IncludeContent || !entry.HasReadableContent() || !ShouldIncludeContent(directoryPath, fileExtension(entry.Name), walker.options.Selection) {
			continue
		}
		for _, contentLine := range ExtractLines(walker.options.FileSystem, entry.Path, walker.options.Selection.LineLimit) {
			if !yield(types.RenderLine{Kind: types.LineKindContent, Prefix: childPrefix, Text: contentLine}) {
				return false
			}
		}
	}
	return true
}

// listDirectory returns the lexicographically sorted entries of directoryPath that survive the ignore patterns.
func (walker *Walker) listDirectory(directoryPath string, ignorePatterns []string) ([]types.TreeEntry, error) {
	directoryInfos, readError := afero.ReadDir(walker.options.FileSystem, directoryPath)
	if readError != nil {
		return nil, readError
	}
	sort.Slice(directoryInfos, func(left, right int) bool {
		return directoryInfos[left].Name() < directoryInfos[right].Name()
	})

	entries := make([]types.TreeEntry, 0, len(directoryInfos))
	for _, directoryInfo := range directoryInfos {
		entry := walker.describeEntry(directoryPath, directoryInfo)
		if utils.ShouldIgnore(entry.Name, entry.IsDirectory, ignorePatterns) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// describeEntry builds the tree entry for a listed item, resolving symbolic links
// through the filesystem. A dangling link stays a link and never yields content.
func (walker *Walker) describeEntry(directoryPath string, directoryInfo fs.FileInfo) types.TreeEntry {
	entry := types.TreeEntry{
		Path:        filepath.Join(directoryPath, directoryInfo.Name()),
		Name:        directoryInfo.Name(),
		IsDirectory: directoryInfo.IsDir(),
		Mode:        directoryInfo.Mode(),
	}
	if directoryInfo.Mode()&fs.ModeSymlink == 0 {
		return entry
	}
	entry.IsSymlink = true
	targetInfo, statError := walker.options.FileSystem.Stat(entry.Path)
	if statError != nil {
		walker.options.Logger.Warn(warningSymlinkDangling, zap.String("path", entry.Path), zap.Error(statError))
		return entry
	}
	entry.IsDirectory = targetInfo.IsDir()
	entry.Mode = targetInfo.Mode()
	return entry
}

func rootDisplayName(absolutePath string) string {
	baseName := filepath.Base(absolutePath)
	if strings.HasSuffix(baseName, string(filepath.Separator)) {
		return baseName
	}
	return baseName + directoryDisplaySuffix
}

// fileExtension returns the lowercase extension without its dot. Leading dots of
// hidden files are not extensions.
func fileExtension(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimLeft(fileName, ".")), "."))
}
