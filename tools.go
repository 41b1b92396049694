//go:build tools
// +build tools

package tools

import (
	_ "github.com/swaggo/swag/cmd/swag"
)
