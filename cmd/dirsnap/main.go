package main

import (
	"fmt"
	"os"

	"github.com/temirov/dirsnap/internal/cli"
	"github.com/temirov/dirsnap/internal/utils"
)

// main is the entry point for the dirsnap command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false, os.Stderr)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
