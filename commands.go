package starfield

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// Exit stops the app after the current frame.
func (cmd *Commands) Exit() {
	cmd.app.Stop()
}

// Fail stops the app and makes Run return err.
func (cmd *Commands) Fail(err error) {
	cmd.app.fail(err)
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
