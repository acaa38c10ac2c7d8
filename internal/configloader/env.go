package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/hypocrite/pkg/config"
)

// envVarPrefix is the prefix for all hypocrite environment variables.
const envVarPrefix = "HYPOCRITE_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"OUTPUT_DIR":       {"output_dir", envTypeString, "Directory for generated C files"},
	"TEMPLATE_DIR":     {"template_dir", envTypeString, "Directory with template overrides"},
	"JOBS":             {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
	"COLOR":            {"color", envTypeString, "Styled output: auto, always, or never"},
	"BACKUPS":          {"backups.enabled", envTypeBool, "Keep the previous output: true or false"},
	"BACKUPS_MODE":     {"backups.mode", envTypeString, "Backup mode: sidecar or none"},
	"WRITE_IF_CHANGED": {"write_if_changed", envTypeBool, "Skip writing unchanged outputs: true or false"},
	"EXTENSIONS":       {"extensions", envTypeSlice, "Comma-separated input extensions for batch mode"},
	"IGNORE":           {"ignore", envTypeSlice, "Comma-separated ignore patterns for batch mode"},
}

// LookupFunc looks up an environment variable, as os.LookupEnv does.
type LookupFunc func(key string) (string, bool)

// LoadFromEnv applies HYPOCRITE_* environment variables to cfg.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromEnv(cfg, os.LookupEnv)
}

func loadFromEnv(cfg *config.Config, lookup LookupFunc) error {
	if cfg == nil {
		return nil
	}

	// Fixed order so the first bad variable reported is stable.
	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)

	for _, suffix := range suffixes {
		envVar := envVarPrefix + suffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}
		if err := applyEnvValue(cfg, envMappings[suffix], value, envVar); err != nil {
			return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
		}
	}

	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated list, trimming each element.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "output_dir":
		cfg.OutputDir = value
	case "template_dir":
		cfg.TemplateDir = value
	case "color":
		cfg.Color = config.ColorMode(value)
	case "backups.mode":
		cfg.Backups.Mode = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "backups.enabled":
		cfg.Backups.Enabled = config.Bool(value)
	case "write_if_changed":
		cfg.WriteIfChanged = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "extensions":
		cfg.Extensions = value
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the environment variable for a config field, or "".
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
