// Package styles resolves the host's style configuration into render options.
//
// The host sends each style option as a {value, defaultValue} pair. [Resolve]
// picks the user's value when set, then the configured default, then the
// documented default from [Defaults]. It never fails: a value of the wrong
// type falls back the same way.
//
// [ResolveOptions] reads every option once and returns an immutable
// [Options] snapshot for one render pass. [NewPalette] turns the chosen
// color scheme into per-arc fill colors.
package styles
