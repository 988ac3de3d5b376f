package output

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/dirsnap/internal/utils"
)

const (
	confirmationFormat = "Output written to %s (%s)\n"

	errorOutputWriteMessage = "cannot write output file, printing snapshot instead"
	warningEmptySnapshot    = "snapshot is empty, nothing written"
)

// DeliveryRequest describes where a snapshot should go.
type DeliveryRequest struct {
	// ContentRequested is true when any content-selecting option was given.
	ContentRequested bool
	// Roots are the absolute root directories named by the invocation.
	Roots            []string
	WorkingDirectory string
	// OutputDirectory receives the snapshot file; empty means WorkingDirectory.
	OutputDirectory string
	// DefaultFileName names the file when the root-derived name does not apply.
	DefaultFileName string
}

// DeliveryResult reports how a snapshot was delivered.
type DeliveryResult struct {
	// FilePath is the written file, empty when the snapshot was printed.
	FilePath string
	// FellBack is true when the file could not be written and the snapshot was printed instead.
	FellBack bool
}

// Sink writes snapshots to the primary stream or to a derived file.
type Sink struct {
	FileSystem afero.Fs
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *zap.Logger
	// Highlight colours the confirmation line when set.
	Highlight *color.Color
}

// ResolveOutputPath derives the snapshot file path. A single root other than the working
// directory names the file after itself; every other case uses the default file name.
func ResolveOutputPath(request DeliveryRequest) string {
	fileName := request.DefaultFileName
	if fileName == "" {
		fileName = utils.DefaultOutputFileName
	}
	if len(request.Roots) == 1 && filepath.Clean(request.Roots[0]) != filepath.Clean(request.WorkingDirectory) {
		baseName := filepath.Base(request.Roots[0])
		if baseName != string(filepath.Separator) && baseName != "." {
			fileName = baseName + utils.OutputFileSuffix
		}
	}
	outputDirectory := request.OutputDirectory
	if outputDirectory == "" {
		outputDirectory = request.WorkingDirectory
	} else if !filepath.IsAbs(outputDirectory) && request.WorkingDirectory != "" {
		outputDirectory = filepath.Join(request.WorkingDirectory, outputDirectory)
	}
	return filepath.Join(outputDirectory, fileName)
}

// Deliver prints the snapshot or, when content was requested, writes it to the derived file.
// A failed write is reported and the snapshot is printed so that nothing is lost.
func (sink *Sink) Deliver(snapshot string, request DeliveryRequest) DeliveryResult {
	logger := sink.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if !request.ContentRequested {
		sink.print(snapshot)
		return DeliveryResult{}
	}
	if snapshot == "" {
		logger.Warn(warningEmptySnapshot)
		return DeliveryResult{}
	}

	outputPath := ResolveOutputPath(request)
	if writeError := sink.write(outputPath, snapshot); writeError != nil {
		logger.Error(errorOutputWriteMessage, zap.String("path", outputPath), zap.Error(writeError))
		sink.print(snapshot)
		return DeliveryResult{FellBack: true}
	}

	confirmation := fmt.Sprintf(confirmationFormat, outputPath, utils.FormatFileSize(int64(len(snapshot))))
	if sink.Stderr == nil {
		return DeliveryResult{FilePath: outputPath}
	}
	if sink.Highlight != nil {
		sink.Highlight.Fprint(sink.Stderr, confirmation)
	} else {
		fmt.Fprint(sink.Stderr, confirmation)
	}
	return DeliveryResult{FilePath: outputPath}
}

func (sink *Sink) print(snapshot string) {
	if snapshot == "" || sink.Stdout == nil {
		return
	}
	fmt.Fprintln(sink.Stdout, snapshot)
}

func (sink *Sink) write(outputPath string, snapshot string) error {
	fileSystem := sink.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	outputDirectory := filepath.Dir(outputPath)
	if mkdirError := fileSystem.MkdirAll(outputDirectory, 0o755); mkdirError != nil {
		return fmt.Errorf("create output directory %s: %w", outputDirectory, mkdirError)
	}
	if writeError := afero.WriteFile(fileSystem, outputPath, []byte(snapshot+"\n"), 0o644); writeError != nil {
		return fmt.Errorf("write %s: %w", outputPath, writeError)
	}
	return nil
}
