// Package commands contains the traversal and selection engine behind a snapshot.
package commands

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/dirsnap/internal/types"
	"github.com/temirov/dirsnap/internal/utils"
)

const (
	warningFlagDropped         = "content flag dropped"
	warningMultiModeExclusion  = "directory is excluded and multi-mode at once; dropped from multi-mode"
	errorNegativeLineLimitText = "line limit must not be negative"
)

// ErrInvalidLineLimit reports a negative line limit.
var ErrInvalidLineLimit = errors.New(errorNegativeLineLimitText)

// SelectionOptions carries the raw content-selection choices of one invocation.
type SelectionOptions struct {
	FlagIDs              []types.FlagID
	Extensions           []string
	IncludeAllExtensions bool
	ExcludeDirs          []string
	RecursiveExcludeDirs []string
	MultiModeDirs        []string
	// LineLimit of zero disables truncation.
	LineLimit        int
	WorkingDirectory string
}

// RequestsContent reports whether any content-selecting option was given.
// Flags outside the supported range do not count.
func (options SelectionOptions) RequestsContent() bool {
	if len(options.Extensions) > 0 || options.IncludeAllExtensions {
		return true
	}
	for _, flagID := range options.FlagIDs {
		if flagID.Valid() {
			return true
		}
	}
	return false
}

// NewSelectionConfig resolves flags through flagTable and builds the immutable selection policy.
// Flags outside the table are logged and dropped. A directory listed both as a
// non-recursive exclusion and as a multi-mode directory is removed from the multi-mode set.
func NewSelectionConfig(options SelectionOptions, flagTable types.FlagTable, logger *zap.Logger) (types.SelectionConfig, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.LineLimit < 0 {
		return types.SelectionConfig{}, fmt.Errorf("%w: %d", ErrInvalidLineLimit, options.LineLimit)
	}

	var requestedExtensions []string
	for _, flagID := range options.FlagIDs {
		flagExtensions, lookupError := flagTable.Extensions(flagID)
		if lookupError != nil {
			logger.Warn(warningFlagDropped, zap.Int("flag", int(flagID)), zap.Error(lookupError))
			continue
		}
		requestedExtensions = append(requestedExtensions, flagExtensions...)
	}
	requestedExtensions = append(requestedExtensions, options.Extensions...)

	extensionSet := make(map[string]struct{})
	for _, extension := range utils.NormalizeExtensions(requestedExtensions) {
		extensionSet[extension] = struct{}{}
	}

	excludeDirs := utils.AbsolutePaths(options.ExcludeDirs, options.WorkingDirectory)
	var multiModeDirs []string
	for _, multiModeDir := range utils.AbsolutePaths(options.MultiModeDirs, options.WorkingDirectory) {
		if utils.ContainsPath(excludeDirs, multiModeDir) {
			logger.Warn(warningMultiModeExclusion, zap.String("directory", multiModeDir))
			continue
		}
		multiModeDirs = append(multiModeDirs, multiModeDir)
	}

	return types.SelectionConfig{
		ExtensionSet:         extensionSet,
		ExcludeDirs:          excludeDirs,
		RecursiveExcludeDirs: utils.AbsolutePaths(options.RecursiveExcludeDirs, options.WorkingDirectory),
		MultiModeDirs:        multiModeDirs,
		IncludeAllExtensions: options.IncludeAllExtensions,
		LineLimit:            options.LineLimit,
	}, nil
}

// ShouldIncludeContent decides whether a file with the lowercase extension, living directly in
// containingDirectory, has its content inlined.
//
// Recursive exclusion dominates. When multi-mode directories exist they are the only
// eligible scope. Otherwise any selected extension qualifies unless its directory is an
// exact, non-recursive exclusion.
func ShouldIncludeContent(containingDirectory string, extension string, config types.SelectionConfig) bool {
	if utils.IsPathWithinAny(containingDirectory, config.RecursiveExcludeDirs) {
		return false
	}
	if len(config.MultiModeDirs) > 0 {
		return utils.IsPathWithinAny(containingDirectory, config.MultiModeDirs) && config.SelectsExtension(extension)
	}
	return config.SelectsExtension(extension) && !utils.ContainsPath(config.ExcludeDirs, containingDirectory)
}
