// Package config loads circuitplayer's TOML configuration.
//
// Load reads ~/.config/circuitplayer/config.toml unless a path is given. A
// missing file yields Default(); blank strings and omitted keys keep their
// defaults, so a file only needs the settings it changes:
//
//	theme = "amber"
//	volume = 0.5
//
//	[library]
//	dir = "~/Music/wav"
//
//	[circuit]
//	node_count = 40
//	audio_reactive = true
//
// Numeric and boolean circuit options are decoded through pointers so an
// explicit zero or false is distinguishable from an omitted key. Colors are
// validated here; numeric extremes are left for the animator to normalize.
package config
