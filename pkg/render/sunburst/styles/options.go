package styles

import (
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/matzehuels/sunburst/pkg/dscc"
)

// Style option keys.
const (
	KeyInstanceID          = "instanceID"
	KeyArcColors           = "arcColors"
	KeyColorSchemeReversed = "colorSchemeReversed"
	KeyFontColor           = "fontColor"
	KeyLegend              = "isLegend"
	KeyLabels              = "isLabeled"
)

// Theme keys read from the host theme.
const (
	ThemeFontFamily = "themeFontFamily"
)

// Default option values.
const (
	DefaultColorScheme = "category10"
	DefaultFontColor   = "#000000"
	DefaultFontOpacity = 1.0
	DefaultFontFamily  = "sans-serif"
)

// Defaults are the values used when the host sets neither value nor
// defaultValue for a key.
var Defaults = map[string]any{
	KeyInstanceID:          "",
	KeyArcColors:           DefaultColorScheme,
	KeyColorSchemeReversed: false,
	KeyFontColor:           map[string]any{"color": DefaultFontColor, "opacity": DefaultFontOpacity},
	KeyLegend:              true,
	KeyLabels:              true,
}

// Resolve returns the effective value of key in style.
func Resolve(style map[string]dscc.StyleEntry, key string) any {
	if e, ok := style[key]; ok {
		if isSet(e.Value) {
			return e.Value
		}
		if isSet(e.DefaultValue) {
			return e.DefaultValue
		}
	}
	return Defaults[key]
}

func isSet(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != "" && t != "undefined"
	default:
		return true
	}
}

// FontColor is the decoded fontColor option.
type FontColor struct {
	Color   string  `mapstructure:"color"`
	Opacity float64 `mapstructure:"opacity"`
}

// Options is the resolved style snapshot for one render pass.
type Options struct {
	InstanceID          string
	ColorScheme         string
	CustomColors        []string
	ColorSchemeReversed bool
	FontColor           string
	FontOpacity         float64
	FontFamily          string
	ShowLegend          bool
	ShowLabels          bool
}

// ResolveOptions reads every style option from style and the font family
// from theme.
func ResolveOptions(style map[string]dscc.StyleEntry, theme map[string]any) Options {
	o := Options{
		InstanceID:          resolveString(style, KeyInstanceID),
		ColorScheme:         DefaultColorScheme,
		ColorSchemeReversed: resolveBool(style, KeyColorSchemeReversed),
		ShowLegend:          resolveBool(style, KeyLegend),
		ShowLabels:          resolveBool(style, KeyLabels),
		FontFamily:          DefaultFontFamily,
	}

	switch v := Resolve(style, KeyArcColors).(type) {
	case string:
		o.ColorScheme = v
	case []any:
		for _, c := range v {
			if s, ok := c.(string); ok {
				o.CustomColors = append(o.CustomColors, s)
			}
		}
	}

	fc := decodeFontColor(Resolve(style, KeyFontColor))
	o.FontColor, o.FontOpacity = fc.Color, fc.Opacity

	if theme != nil {
		if ff := themeValue(theme[ThemeFontFamily]); ff != "" {
			o.FontFamily = ff
		}
	}
	return o
}

func resolveString(style map[string]dscc.StyleEntry, key string) string {
	if s, ok := Resolve(style, key).(string); ok {
		return s
	}
	s, _ := Defaults[key].(string)
	return s
}

func resolveBool(style map[string]dscc.StyleEntry, key string) bool {
	switch v := Resolve(style, key).(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	b, _ := Defaults[key].(bool)
	return b
}

func decodeFontColor(v any) FontColor {
	fc := FontColor{Color: DefaultFontColor, Opacity: DefaultFontOpacity}
	switch t := v.(type) {
	case string:
		fc.Color = t
		return fc
	case map[string]any:
		var out FontColor
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &out,
		})
		if err != nil || dec.Decode(t) != nil {
			return fc
		}
		if out.Color != "" {
			fc.Color = out.Color
		}
		if _, ok := t["opacity"]; ok {
			fc.Opacity = clamp01(out.Opacity)
		}
	}
	return fc
}

// themeValue reads a theme entry that is either a plain string or a
// {value: string} object.
func themeValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if s, ok := t["value"].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func clamp01(f float64) float64 {
	return min(max(f, 0), 1)
}
