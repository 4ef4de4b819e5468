package config

import _ "embed"

//go:embed embedded/defaults.yaml
var defaultsYAML []byte
