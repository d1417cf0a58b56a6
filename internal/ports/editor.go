package ports

import "os/exec"

// FileOpener opens exported record files for review
type FileOpener interface {
	// OpenFile opens path in the user's editor and waits for it to exit
	OpenFile(path string) error

	// Command returns the editor process without starting it,
	// for callers that manage the terminal themselves (tea.ExecProcess)
	Command(path string) (*exec.Cmd, error)
}

// URLOpener shows exported records on the published site
type URLOpener interface {
	// OpenDir opens the public page of a record folder below the export root
	OpenDir(dir string) error
}
