package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/temirov/dirsnap/internal/types"
)

const contentReadErrorFormat = "[Error reading file: %v]"

var (
	// ErrInvalidEncoding reports file content that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("content is not valid UTF-8")
	// ErrNotRegularFile reports a path that is a device, pipe, socket or directory.
	ErrNotRegularFile = errors.New("not a regular file")
)

// ExtractLines returns the lines of filePath without their line endings.
// With a positive lineLimit at most lineLimit lines are returned, followed by
// types.TruncationMarker when the file holds anything further. Any failure is
// reported as a single diagnostic line instead of an error.
func ExtractLines(fileSystem afero.Fs, filePath string, lineLimit int) []string {
	lines, readError := readLines(fileSystem, filePath, lineLimit)
	if readError != nil {
		return []string{fmt.Sprintf(contentReadErrorFormat, readError)}
	}
	return lines
}

func readLines(fileSystem afero.Fs, filePath string, lineLimit int) ([]string, error) {
	info, statError := fileSystem.Stat(filePath)
	if statError != nil {
		return nil, statError
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotRegularFile
	}
	fileHandle, openError := fileSystem.Open(filePath)
	if openError != nil {
		return nil, openError
	}
	defer fileHandle.Close()

	reader := bufio.NewReader(fileHandle)
	var lines []string
	for {
		if lineLimit > 0 && len(lines) == lineLimit {
			_, peekError := reader.Peek(1)
			if peekError == nil {
				lines = append(lines, types.TruncationMarker)
			} else if !errors.Is(peekError, io.EOF) {
				return nil, peekError
			}
			return lines, nil
		}

		line, readError := reader.ReadString('\n')
		if line != "" {
			if !utf8.ValidString(line) {
				return nil, ErrInvalidEncoding
			}
			lines = append(lines, trimLineEnding(line))
		}
		if errors.Is(readError, io.EOF) {
			return lines, nil
		}
		if readError != nil {
			return nil, readError
		}
	}
}

func trimLineEnding(line string) string {
	trimmed := strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(trimmed, "\r")
}
