package config

import (
	"os"

	"gopkg.in/yaml.v3"

	tperrors "github.com/mono-ball/MonoBall-sub005/pkg/errors"
)

// loadAndMerge reads a YAML file and merges it into cfg. A missing file is
// returned unwrapped so callers can test it with os.IsNotExist.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return tperrors.Wrap(err, tperrors.ErrCodeConfigLoad, "reading config").WithContext("path", path)
	}
	return mergeYAML(cfg, data, path)
}

func mergeYAML(cfg *Config, data []byte, path string) error {
	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return tperrors.Wrap(err, tperrors.ErrCodeConfigParse, "parsing YAML").WithContext("path", path)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return tperrors.Wrap(err, tperrors.ErrCodeConfigParse, "parsing YAML").WithContext("path", path)
	}
	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs copies the non-zero fields of override into base. Booleans
// and explicit zeros are copied only when present in raw.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	b, o := &base.Buffer, override.Buffer
	mergeInt(&b.MaxLines, o.MaxLines, raw, "buffer", "max_lines")
	mergeInt(&b.LineHeight, o.LineHeight, raw, "buffer", "line_height")
	mergeInt(&b.LinePadding, o.LinePadding, raw, "buffer", "line_padding")
	mergeInt(&b.MultiClickMS, o.MultiClickMS, raw, "buffer", "multi_click_ms")
	mergeInt(&b.WheelLines, o.WheelLines, raw, "buffer", "wheel_lines")
	mergeInt(&b.ScrollbarWidth, o.ScrollbarWidth, raw, "buffer", "scrollbar_width")
	if fieldSet(raw, "buffer", "auto_scroll") {
		b.AutoScroll = o.AutoScroll
	}
	if fieldSet(raw, "buffer", "border") {
		b.Border = o.Border
	}

	if base.Theme == nil {
		base.Theme = make(map[string]string)
	}
	for role, color := range override.Theme {
		base.Theme[role] = color
	}

	// Category rules replace the defaults wholesale; merging lists by
	// position would mix two rule sets.
	if fieldSet(raw, "categories") {
		base.Categories = append([]CategoryRule(nil), override.Categories...)
	}

	if override.Follow.PollInterval > 0 {
		base.Follow.PollInterval = override.Follow.PollInterval
	}
	mergeInt(&base.Follow.BatchLines, override.Follow.BatchLines, raw, "follow", "batch_lines")

	if fieldSet(raw, "metrics", "listen") {
		base.Metrics.Listen = override.Metrics.Listen
	}
	if fieldSet(raw, "log", "path") {
		base.Log.Path = override.Log.Path
	}
	if override.Log.Level != "" {
		base.Log.Level = override.Log.Level
	}
}

func mergeInt(dst *int, v int, raw map[string]any, path ...string) {
	if v != 0 || fieldSet(raw, path...) {
		*dst = v
	}
}

// fieldSet reports whether the nested key path exists in the raw document.
func fieldSet(raw map[string]any, path ...string) bool {
	if len(path) == 0 || raw == nil {
		return false
	}
	current := any(raw)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return false
		}
		val, ok := m[key]
		if !ok {
			return false
		}
		current = val
	}
	return true
}
