// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Generation fields.
	FieldTarget   = "target"
	FieldLanguage = "language"
	FieldTemplate = "template"
	FieldChanged  = "changed"
	FieldDuration = "duration"

	// Batch fields.
	FieldJobs      = "jobs"
	FieldCount     = "count"
	FieldGenerated = "generated"
	FieldUnchanged = "unchanged"
	FieldFailed    = "failed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
