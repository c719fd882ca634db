// Package configs provides embedded configuration templates for pkgdex.
//
// Templates are embedded at build time with //go:embed so they ship in
// every distribution, source builds included. `pkgdex config init`
// writes UserConfigTemplate to ~/.config/pkgdex/config.yaml (see
// internal/config for the precedence rules).
package configs

import _ "embed"

// UserConfigTemplate is the template for user/machine-level
// configuration, written by `pkgdex config init`.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string
