package utils_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/dirsnap/internal/utils"
)

func TestNewApplicationLoggerWritesToWriter(testingHandle *testing.T) {
	testCases := []struct {
		name         string
		verbose      bool
		expectsDebug bool
	}{
		{name: "default level", verbose: false, expectsDebug: false},
		{name: "verbose level", verbose: true, expectsDebug: true},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			var output bytes.Buffer
			logger, loggerError := utils.NewApplicationLogger(testCase.verbose, &output)
			require.NoError(testingHandle, loggerError)

			logger.Debug("debug entry")
			logger.Warn("warning entry")

			assert.Contains(testingHandle, output.String(), "WARN")
			assert.Contains(testingHandle, output.String(), "warning entry")
			assert.Equal(testingHandle, testCase.expectsDebug, bytes.Contains(output.Bytes(), []byte("debug entry")))
		})
	}
}

func TestNewApplicationLoggerRejectsNilWriter(testingHandle *testing.T) {
	_, loggerError := utils.NewApplicationLogger(false, nil)
	assert.Error(testingHandle, loggerError)
}
