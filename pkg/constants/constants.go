// Package constants provides shared constants used throughout the schemagen
// codebase. This includes file permissions, default artifact names, and other
// configuration values that should be consistent across the application.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Artifact constants define the persisted schema file defaults
const (
	// DefaultExtensionFile is the default file name for the flat extension
	// schema artifact, resolved against the working directory.
	DefaultExtensionFile = "pipeline-schema.extensions.json"

	// DefaultStandardFile is the default file name for the nested standard
	// schema artifact, resolved against the working directory.
	DefaultStandardFile = "pipeline-schema.json"

	// JSONIndent is the indentation used when writing schema artifacts.
	JSONIndent = "  "
)

// Timeout constants
const (
	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 1 * time.Minute
)
