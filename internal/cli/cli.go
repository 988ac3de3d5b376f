// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/dirsnap/internal/commands"
	"github.com/temirov/dirsnap/internal/config"
	"github.com/temirov/dirsnap/internal/output"
	"github.com/temirov/dirsnap/internal/services/clipboard"
	"github.com/temirov/dirsnap/internal/tokenizer"
	"github.com/temirov/dirsnap/internal/types"
	"github.com/temirov/dirsnap/internal/utils"
)

const (
	addRootFlagName          = "add"
	addRootFlagShorthand     = "a"
	treeOnlyFlagName         = "tree-only"
	treeOnlyFlagShorthand    = "t"
	allExtensionsFlagName    = "all"
	extensionsFlagName       = "ext"
	extensionsFlagShorthand  = "x"
	excludeFlagName          = "exclude"
	recursiveExcludeFlagName = "exclude-recursive"
	recursiveExcludeShort    = "r"
	multiModeFlagName        = "multi"
	multiModeFlagShorthand   = "m"
	lineLimitFlagName        = "lines"
	lineLimitFlagShorthand   = "l"
	outputDirectoryFlagName  = "output-dir"
	outputDirectoryShorthand = "o"
	flagNumbersFlagName      = "flag"
	flagNumbersShorthand     = "f"
	exclusionFlagName        = "e"
	noGitignoreFlagName      = "no-gitignore"
	includeGitFlagName       = "git"
	configFlagName           = "config"
	tokensFlagName           = "tokens"
	modelFlagName            = "model"
	clipboardFlagName        = "clipboard"
	clipboardFlagShorthand   = "c"
	verboseFlagName          = "verbose"
	verboseFlagShorthand     = "v"
	forceFlagName            = "force"
	defaultPath              = "."

	rootUse              = utils.ApplicationName + " [roots...]"
	rootShortDescription = "render a directory tree with optional file excerpts"
	rootLongDescription  = `dirsnap renders a filtered ASCII tree of one or more directories.
Content selection options (numeric flags, --ext, --all) inline the lines of matching
files below their tree entries and write the snapshot to a file instead of stdout.`
	rootUsageExample = `  # Print the tree of the current directory
  dirsnap

  # Inline Python files (flag 1 in the mapping), at most 40 lines each
  dirsnap -1 -l 40 ./service

  # Inline Go files only below cmd and internal
  dirsnap --ext go --multi cmd --multi internal .`
	initUse              = "init"
	initShortDescription = "write the default flag mapping and ignore file"

	addRootFlagDescription          = "additional root directory"
	treeOnlyFlagDescription         = "never inline file content"
	allExtensionsFlagDescription    = "inline files of every extension"
	extensionsFlagDescription       = "extensions to inline in addition to numeric flags"
	excludeFlagDescription          = "directory whose own files are not inlined (non-recursive)"
	recursiveExcludeFlagDescription = "directory whose whole subtree is never inlined"
	multiModeFlagDescription        = "directory forming the exclusive scope for inlined content"
	lineLimitFlagDescription        = "maximum lines inlined per file (0 means all)"
	outputDirectoryFlagDescription  = "directory receiving the snapshot file"
	flagNumbersFlagDescription      = "numeric content flags to apply"
	numericFlagDescriptionFormat    = "inline extensions mapped to flag %d"
	exclusionFlagDescription        = "exclude entry pattern"
	noGitignoreFlagDescription      = "do not use .gitignore"
	includeGitFlagDescription       = "include git directory"
	configFlagDescription           = "path to the flag mapping file"
	tokensFlagDescription           = "report the estimated token count of the snapshot"
	modelFlagDescription            = "tokenizer model to use for token counting"
	clipboardFlagDescription        = "copy the snapshot to the clipboard"
	verboseFlagDescription          = "enable debug logging"
	forceFlagDescription            = "overwrite an existing configuration"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	configDirectoryErrorFormat  = "unable to determine configuration directory: %w"
	configurationWrittenFormat  = "Configuration written to %s\n"

	logTokenEstimate       = "estimated snapshot tokens"
	logTokenCountFailed    = "token counting failed"
	logTokenModelFallback  = "model has no dedicated tokenizer, estimating with cl100k_base"
	logClipboardCopied     = "snapshot copied to clipboard"
	logClipboardCopyFailed = "clipboard copy failed"
)

// Dependencies are the collaborators of a command invocation.
type Dependencies struct {
	FileSystem afero.Fs
	Stdout     io.Writer
	Stderr     io.Writer
	// Logger overrides the logger built from the verbosity flag.
	Logger           *zap.Logger
	WorkingDirectory func() (string, error)
	ConfigDirectory  func() (string, error)
	Clipboard        clipboard.Copier
	NewTokenCounter  func(model string) (tokenizer.Counter, error)
	ColorOutput      bool
}

// Execute runs the dirsnap application against the real environment.
func Execute() error {
	return NewRootCommand(defaultDependencies()).Execute()
}

func defaultDependencies() Dependencies {
	stderrDescriptor := os.Stderr.Fd()
	return Dependencies{
		FileSystem:       afero.NewOsFs(),
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		WorkingDirectory: os.Getwd,
		ConfigDirectory:  config.DefaultConfigDirectory,
		Clipboard:        clipboard.NewService(),
		NewTokenCounter:  tokenizer.NewCounter,
		ColorOutput:      isatty.IsTerminal(stderrDescriptor) || isatty.IsCygwinTerminal(stderrDescriptor),
	}
}

// snapshotOptions stores the flags of the root command.
type snapshotOptions struct {
	extraRoots           []string
	treeOnly             bool
	includeAll           bool
	extensions           []string
	excludeDirs          []string
	recursiveExcludeDirs []string
	multiModeDirs        []string
	lineLimit            int
	outputDirectory      string
	flagNumbers          []int
	numericFlags         [types.MaximumFlagID + 1]bool
	exclusionPatterns    []string
	disableGitignore     bool
	includeGit           bool
	countTokens          bool
	tokenModel           string
	copyToClipboard      bool
}

// globalOptions stores persistent flags shared with subcommands.
type globalOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	var global globalOptions
	var options snapshotOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Version:       utils.GetApplicationVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			logger, loggerError := dependencies.logger(global.verbose)
			if loggerError != nil {
				return loggerError
			}
			defer logger.Sync()
			return runSnapshot(dependencies, logger, global, options, arguments)
		},
	}
	rootCommand.SetOut(dependencies.Stdout)
	rootCommand.SetErr(dependencies.Stderr)

	rootCommand.PersistentFlags().StringVar(&global.configPath, configFlagName, "", configFlagDescription)
	rootCommand.PersistentFlags().BoolVarP(&global.verbose, verboseFlagName, verboseFlagShorthand, false, verboseFlagDescription)
	addSnapshotFlags(rootCommand, &options)

	rootCommand.AddCommand(createInitCommand(dependencies, &global))
	return rootCommand
}

// addSnapshotFlags registers the selection and output flags on the command.
func addSnapshotFlags(command *cobra.Command, options *snapshotOptions) {
	flags := command.Flags()
	flags.StringArrayVarP(&options.extraRoots, addRootFlagName, addRootFlagShorthand, nil, addRootFlagDescription)
	flags.BoolVarP(&options.treeOnly, treeOnlyFlagName, treeOnlyFlagShorthand, false, treeOnlyFlagDescription)
	flags.BoolVar(&options.includeAll, allExtensionsFlagName, false, allExtensionsFlagDescription)
	flags.StringSliceVarP(&options.extensions, extensionsFlagName, extensionsFlagShorthand, nil, extensionsFlagDescription)
	flags.StringArrayVar(&options.excludeDirs, excludeFlagName, nil, excludeFlagDescription)
	flags.StringArrayVarP(&options.recursiveExcludeDirs, recursiveExcludeFlagName, recursiveExcludeShort, nil, recursiveExcludeFlagDescription)
	flags.StringArrayVarP(&options.multiModeDirs, multiModeFlagName, multiModeFlagShorthand, nil, multiModeFlagDescription)
	flags.IntVarP(&options.lineLimit, lineLimitFlagName, lineLimitFlagShorthand, 0, lineLimitFlagDescription)
	flags.StringVarP(&options.outputDirectory, outputDirectoryFlagName, outputDirectoryShorthand, "", outputDirectoryFlagDescription)
	flags.IntSliceVarP(&options.flagNumbers, flagNumbersFlagName, flagNumbersShorthand, nil, flagNumbersFlagDescription)
	for flagID := types.MinimumFlagID; flagID <= types.MaximumFlagID; flagID++ {
		flagName := strconv.Itoa(int(flagID))
		description := fmt.Sprintf(numericFlagDescriptionFormat, flagID)
		if len(flagName) == 1 {
			flags.BoolVarP(&options.numericFlags[flagID], flagName, flagName, false, description)
		} else {
			flags.BoolVar(&options.numericFlags[flagID], flagName, false, description)
		}
	}
	flags.StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	flags.BoolVar(&options.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	flags.BoolVar(&options.includeGit, includeGitFlagName, false, includeGitFlagDescription)
	flags.BoolVar(&options.countTokens, tokensFlagName, false, tokensFlagDescription)
	flags.StringVar(&options.tokenModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	flags.BoolVarP(&options.copyToClipboard, clipboardFlagName, clipboardFlagShorthand, false, clipboardFlagDescription)
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies Dependencies, global *globalOptions) *cobra.Command {
	var force bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			configPath, ignorePath, pathError := dependencies.configPaths(global.configPath)
			if pathError != nil {
				return pathError
			}
			writtenPath, initError := config.InitializeConfiguration(dependencies.FileSystem, config.InitOptions{
				ConfigPath:     configPath,
				IgnoreFilePath: ignorePath,
				Force:          force,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(dependencies.Stderr, configurationWrittenFormat, writtenPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// selectionOptions converts the flags into engine selection options.
func (options snapshotOptions) selectionOptions(workingDirectory string) commands.SelectionOptions {
	var flagIDs []types.FlagID
	for flagID := types.MinimumFlagID; flagID <= types.MaximumFlagID; flagID++ {
		if options.numericFlags[flagID] {
			flagIDs = append(flagIDs, flagID)
		}
	}
	for _, flagNumber := range options.flagNumbers {
		flagIDs = append(flagIDs, types.FlagID(flagNumber))
	}
	return commands.SelectionOptions{
		FlagIDs:              flagIDs,
		Extensions:           options.extensions,
		IncludeAllExtensions: options.includeAll,
		ExcludeDirs:          options.excludeDirs,
		RecursiveExcludeDirs: options.recursiveExcludeDirs,
		MultiModeDirs:        options.multiModeDirs,
		LineLimit:            options.lineLimit,
		WorkingDirectory:     workingDirectory,
	}
}

// runSnapshot renders the requested roots and delivers the snapshot.
func runSnapshot(dependencies Dependencies, logger *zap.Logger, global globalOptions, options snapshotOptions, arguments []string) error {
	workingDirectory, workingDirectoryError := dependencies.WorkingDirectory()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	rootArguments := arguments
	if len(rootArguments) == 0 {
		rootArguments = []string{defaultPath}
	}
	rootPaths := utils.AbsolutePaths(append(append([]string{}, rootArguments...), options.extraRoots...), workingDirectory)

	selectionOptions := options.selectionOptions(workingDirectory)
	contentRequested := selectionOptions.RequestsContent()

	configPath, globalIgnorePath, configPathError := dependencies.configPaths(global.configPath)
	var mapping config.Mapping
	if contentRequested {
		if configPathError != nil {
			return configPathError
		}
		loadedMapping, mappingError := config.LoadMapping(dependencies.FileSystem, configPath, logger)
		if mappingError != nil {
			return mappingError
		}
		mapping = loadedMapping
	}

	selection, selectionError := commands.NewSelectionConfig(selectionOptions, mapping.Flags, logger)
	if selectionError != nil {
		return selectionError
	}

	localIgnoreFiles := []string{utils.IgnoreFileName}
	if !options.disableGitignore {
		localIgnoreFiles = append(localIgnoreFiles, utils.GitIgnoreFileName)
	}
	ignoreOptions := config.IgnoreOptions{
		LocalFileNames: localIgnoreFiles,
		GlobalFilePath: globalIgnorePath,
		ExtraPatterns:  options.exclusionPatterns,
		IncludeGit:     options.includeGit,
	}

	walker := commands.NewWalker(commands.WalkerOptions{
		FileSystem:     dependencies.FileSystem,
		Selection:      selection,
		IncludeContent: contentRequested && !options.treeOnly,
		RootPatterns: func(rootDirectoryPath string) []string {
			return config.LoadRootIgnorePatterns(dependencies.FileSystem, rootDirectoryPath, ignoreOptions, logger)
		},
		Logger: logger,
	})
	snapshot := output.Render(walker.Lines(rootPaths))

	if options.countTokens {
		reportTokens(dependencies, logger, options.tokenModel, snapshot)
	}

	sink := output.Sink{
		FileSystem: dependencies.FileSystem,
		Stdout:     dependencies.Stdout,
		Stderr:     dependencies.Stderr,
		Logger:     logger,
	}
	if dependencies.ColorOutput {
		highlight := color.New(color.FgGreen)
		highlight.EnableColor()
		sink.Highlight = highlight
	}
	sink.Deliver(snapshot, output.DeliveryRequest{
		ContentRequested: contentRequested,
		Roots:            rootPaths,
		WorkingDirectory: workingDirectory,
		OutputDirectory:  options.outputDirectory,
		DefaultFileName:  mapping.DefaultOutput,
	})

	if options.copyToClipboard && dependencies.Clipboard != nil {
		if copyError := dependencies.Clipboard.Copy(snapshot); copyError != nil {
			logger.Warn(logClipboardCopyFailed, zap.Error(copyError))
		} else {
			logger.Info(logClipboardCopied)
		}
	}
	return nil
}

func reportTokens(dependencies Dependencies, logger *zap.Logger, model string, snapshot string) {
	if dependencies.NewTokenCounter == nil {
		return
	}
	if !tokenizer.SupportsModel(model) {
		logger.Warn(logTokenModelFallback, zap.String("model", model))
	}
	counter, counterError := dependencies.NewTokenCounter(model)
	if counterError != nil {
		logger.Warn(logTokenCountFailed, zap.Error(counterError))
		return
	}
	tokens, countError := tokenizer.CountText(counter, snapshot)
	if countError != nil {
		logger.Warn(logTokenCountFailed, zap.Error(countError))
		return
	}
	logger.Info(logTokenEstimate, zap.Int("tokens", tokens), zap.String("model", counter.Name()))
}

// logger returns the injected logger or builds the console logger on the secondary stream.
func (dependencies Dependencies) logger(verbose bool) (*zap.Logger, error) {
	if dependencies.Logger != nil {
		return dependencies.Logger, nil
	}
	logWriter := dependencies.Stderr
	if logWriter == nil {
		logWriter = os.Stderr
	}
	return utils.NewApplicationLogger(verbose, logWriter)
}

// configPaths resolves the mapping file and the global ignore file.
// An explicit mapping path places the global ignore file next to it.
func (dependencies Dependencies) configPaths(explicitConfigPath string) (string, string, error) {
	if explicitConfigPath != "" {
		return explicitConfigPath, filepath.Join(filepath.Dir(explicitConfigPath), utils.GlobalIgnoreFileName), nil
	}
	if dependencies.ConfigDirectory == nil {
		return "", "", fmt.Errorf(configDirectoryErrorFormat, os.ErrNotExist)
	}
	configDirectory, directoryError := dependencies.ConfigDirectory()
	if directoryError != nil {
		return "", "", fmt.Errorf(configDirectoryErrorFormat, directoryError)
	}
	return filepath.Join(configDirectory, utils.ConfigFileName), filepath.Join(configDirectory, utils.GlobalIgnoreFileName), nil
}
