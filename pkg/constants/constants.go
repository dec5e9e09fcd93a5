// Package constants provides shared constants used throughout the mnemosyne codebase.
// This includes file permissions, file names, and limits that should be
// consistent across the library store, the registry and the CLI.
package constants

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// File naming constants
const (
	// LibraryExtension is appended to a library name to form its file name
	LibraryExtension = ".json"

	// LockExtension is appended to a library file name to form its lock file
	LockExtension = ".lock"

	// ReviewExtension is appended to a library name to form its review position file
	ReviewExtension = ".review"

	// TempPattern is the os.CreateTemp pattern suffix used for atomic writes
	TempPattern = ".tmp-*"

	// DefaultRegistryFile is the registry file name inside the data directory
	DefaultRegistryFile = "config.json"

	// DefaultDataDir is the default data directory
	DefaultDataDir = "."

	// DefaultConfigName is the config file name (without extension) searched by viper
	DefaultConfigName = ".mnemosyne"

	// EnvPrefix is the environment variable prefix for configuration keys
	EnvPrefix = "MNEMOSYNE"
)

// Formatting constants
const (
	// JSONIndent is the indentation used in library and registry files
	JSONIndent = "    "

	// MaxCellWidth truncates long text in result set tables
	MaxCellWidth = 48
)
