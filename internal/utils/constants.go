package utils

const (
	// ApplicationName is used for the command name and configuration directory.
	ApplicationName = "dirsnap"
	// GlobalConfigDirectoryName is the configuration directory below the user's config home.
	GlobalConfigDirectoryName = ".config/" + ApplicationName
	// ConfigFileName is the configuration mapping file name.
	ConfigFileName = "config.yaml"
	// GlobalIgnoreFileName is the fallback ignore file inside the configuration directory.
	GlobalIgnoreFileName = "ignore"
	// DefaultOutputFileName is used when the mapping does not name an output file.
	DefaultOutputFileName = "snapshot.txt"
	// OutputFileSuffix is appended to a single root's base name to form the output file name.
	OutputFileSuffix = "_snapshot.txt"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal execution errors.
	ApplicationExecutionFailedMessage = "dirsnap failed"
)
