package shaders

import (
	_ "embed"
)

//go:embed starfield.wgsl
var StarfieldWGSL string
