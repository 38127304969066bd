// Package config loads homer's configuration.
//
// Sources are layered with koanf, later ones overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file, $XDG_CONFIG_HOME/homer/config.toml, or the file named
//     by --config or HOMER_CONFIG
//  3. .homer.toml in the working directory
//  4. HOMER_* environment variables, with "__" separating sections
//  5. command line flags the user actually set
package config
