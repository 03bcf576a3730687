// Package policies embeds the built-in visibility rules into the binary.
package policies

import _ "embed"

// Default is the built-in rules YAML.
//
//go:embed default.yaml
var Default []byte
