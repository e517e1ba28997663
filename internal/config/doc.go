// Package config holds wordcount's settings.
//
// Settings come from three sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (see Default).
//  2. A TOML or YAML file, chosen by extension.
//  3. WORDCOUNT_* environment variables.
//
// Example wordcount.toml:
//
//	language  = "markdown"
//	alignment = "right"
//	prefix    = "✎ "
//	log_level = "debug"
//	debounce  = "250ms"
//	script    = "~/.config/wordcount/hooks.lua"
//
//	[[associations]]
//	pattern  = "*.wiki"
//	language = "markdown"
package config
