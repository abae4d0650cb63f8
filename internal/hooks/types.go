package hooks

// DefaultTimeout bounds a hook run, in seconds.
const DefaultTimeout = 30

// DefaultShell interprets hook commands.
const DefaultShell = "sh"

// File is the content of .boothsetup.hooks.yml.
type File struct {
	Version int   `yaml:"version"`
	Hooks   Hooks `yaml:"hooks"`
}

// Hooks lists the commands run at points of the wizard's life.
type Hooks struct {
	// PostCommit runs after every successful save, e.g. to restart the
	// photobooth service or regenerate its start script.
	PostCommit *Hook `yaml:"post_commit"`
}

// Hook is one shell command.
type Hook struct {
	Command string            `yaml:"command"`
	Shell   string            `yaml:"shell"`   // default sh
	Timeout int               `yaml:"timeout"` // seconds, default 30
	Env     map[string]string `yaml:"env"`     // extra variables, applied before the record
}

// Commit describes a saved configuration handed to a hook.
type Commit struct {
	Location string // where the record was written
	Record   map[string]any
}
