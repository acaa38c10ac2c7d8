package configloader

import "github.com/yaklabco/hypocrite/pkg/config"

// merge combines two configurations, with override taking precedence:
//   - Scalars: override wins when non-zero
//   - Booleans: override wins when set (non-nil)
//   - Slices: override replaces base entirely when non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override.Clone()
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.TemplateDir != "" {
		result.TemplateDir = override.TemplateDir
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled != nil {
		result.Backups.Enabled = config.Bool(*override.Backups.Enabled)
	}
	if override.WriteIfChanged != nil {
		result.WriteIfChanged = config.Bool(*override.WriteIfChanged)
	}

	if override.Extensions != nil {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.Ignore != nil {
		result.Ignore = append([]string(nil), override.Ignore...)
	}

	return result
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
