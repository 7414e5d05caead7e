package starfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type MockModule struct {
	installed bool
	order     *[]string
	name      string
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}
}

func TestAppBuilder_DefaultStages(t *testing.T) {
	app := NewAppBuilder().Build()

	names := make([]string, 0, len(app.stages))
	for _, s := range app.stages {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Prelude", "PreUpdate", "Update", "PostUpdate", "PreRender", "Render", "PostRender", "Finale"}, names)
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	mockModule := &MockModule{}
	builder.UseModule(mockModule)

	assert.Len(t, builder.modules, 1)
	assert.False(t, mockModule.installed, "modules install on Build")
}

func TestAppBuilder_Build_InstallsInOrder(t *testing.T) {
	var order []string
	a := &MockModule{order: &order, name: "a"}
	b := &MockModule{order: &order, name: "b"}

	app := NewAppBuilder().UseModule(a).UseModule(b).Build()

	assert.True(t, a.installed)
	assert.True(t, b.installed)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Len(t, app.modules, 2)
}
