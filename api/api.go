// Package api embeds the OpenAPI document of the HR admin API.
package api

import _ "embed"

//go:embed openapi.yml
var Spec []byte
