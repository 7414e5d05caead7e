package gpu

import (
	"testing"
	"unsafe"

	"github.com/gekko3d/starfield/render/core"
	"github.com/stretchr/testify/assert"
)

// WGSL uniform and vertex layouts are fixed; keep the Go mirrors in sync.
func TestLayouts(t *testing.T) {
	assert.Equal(t, uintptr(160), unsafe.Sizeof(FrameUniforms{}))
	assert.Equal(t, uintptr(16), unsafe.Sizeof(core.StarInstance{}))
	assert.Equal(t, uintptr(128), unsafe.Offsetof(FrameUniforms{}.Viewport))
	assert.Equal(t, uintptr(136), unsafe.Offsetof(FrameUniforms{}.Time))
}
