// Package types defines every cross-package data structure used by the dirsnap CLI.
package types

import (
	"fmt"
	"io/fs"
	"slices"
)

const (
	// MinimumFlagID is the lowest numeric content-selection flag.
	MinimumFlagID FlagID = 1
	// MaximumFlagID is the highest numeric content-selection flag.
	MaximumFlagID FlagID = 10

	// ConnectorBranch precedes every entry that has a following sibling.
	ConnectorBranch = "├── "
	// ConnectorLast precedes the final surviving entry of a listing.
	ConnectorLast = "└── "
	// PaddingBranch extends the prefix below a non-final entry.
	PaddingBranch = "│   "
	// PaddingLast extends the prefix below a final entry.
	PaddingLast = "    "

	// TruncationMarker closes an excerpt that stopped at the line limit.
	TruncationMarker = "..."
	// PermissionDeniedText replaces the children of an unreadable directory.
	PermissionDeniedText = "[Permission Denied]"
)

// FlagID identifies a numeric content-selection flag resolved through the configuration mapping.
type FlagID int

// Valid reports whether the identifier lies in the supported range.
func (id FlagID) Valid() bool {
	return id >= MinimumFlagID && id <= MaximumFlagID
}

// FlagTable maps validated flag identifiers to ordered, lowercase extension lists.
type FlagTable map[FlagID][]string

// Extensions returns the extensions bound to id.
func (table FlagTable) Extensions(id FlagID) ([]string, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("flag %d is outside %d-%d", id, MinimumFlagID, MaximumFlagID)
	}
	extensions, found := table[id]
	if !found {
		return nil, fmt.Errorf("flag %d has no extensions configured", id)
	}
	return slices.Clone(extensions), nil
}

// SelectionConfig is the immutable content-selection policy for one invocation.
// All directory paths are absolute and cleaned.
type SelectionConfig struct {
	ExtensionSet         map[string]struct{}
	ExcludeDirs          []string
	RecursiveExcludeDirs []string
	MultiModeDirs        []string
	IncludeAllExtensions bool
	// LineLimit of zero means every line is extracted.
	LineLimit int
}

// SelectsExtension reports whether files with the lowercase extension are eligible for content.
func (config SelectionConfig) SelectsExtension(extension string) bool {
	if config.IncludeAllExtensions {
		return true
	}
	_, selected := config.ExtensionSet[extension]
	return selected
}

// ValidatedRoot is an absolute root directory that already passed existence checks.
type ValidatedRoot struct {
	AbsolutePath string
	DisplayName  string
}

// TreeEntry is one surviving item of a directory listing.
// Symbolic links are described by their resolved target.
type TreeEntry struct {
	Path        string
	Name        string
	IsDirectory bool
	// IsSymlink marks entries reached through a symbolic link. Linked directories are not descended.
	IsSymlink bool
	Mode      fs.FileMode
}

// HasReadableContent reports whether the entry is a regular file whose content may be extracted.
func (entry TreeEntry) HasReadableContent() bool {
	return !entry.IsDirectory && entry.Mode.IsRegular()
}

// LineKind distinguishes the render lines produced by the walker.
type LineKind int

const (
	// LineKindRoot is the display name of a traversal root.
	LineKindRoot LineKind = iota
	// LineKindDirectory is a directory entry.
	LineKindDirectory
	// LineKindFile is a file entry.
	LineKindFile
	// LineKindContent is an extracted content line nested below a file.
	LineKindContent
	// LineKindNotice is a diagnostic leaf such as a permission failure.
	LineKindNotice
	// LineKindSeparator separates consecutive roots.
	LineKindSeparator
)

// RenderLine is a single line of rendered output.
type RenderLine struct {
	Kind      LineKind
	Prefix    string
	Connector string
	Text      string
}

// String concatenates the line parts.
func (line RenderLine) String() string {
	return line.Prefix + line.Connector + line.Text
}
