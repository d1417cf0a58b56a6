package browser

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"wpkirby/internal/domain"
	"wpkirby/internal/ports"
)

// Kirby drops the sorting number or date in front of a folder name
var numPrefix = regexp.MustCompile(`^\d+_`)

// Opener implements ports.URLOpener for an export tree published at siteURL
type Opener struct {
	root    string
	siteURL string

	// run starts the platform opener; replaced in tests
	run func(name string, args ...string) error
}

// Ensure Opener implements URLOpener
var _ ports.URLOpener = (*Opener)(nil)

// NewOpener creates a new browser opener for the export root
func NewOpener(root, siteURL string) *Opener {
	return &Opener{
		root:    root,
		siteURL: siteURL,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// OpenDir opens the public page of an exported record folder
func (o *Opener) OpenDir(dir string) error {
	u, err := o.BuildURL(dir)
	if err != nil {
		return err
	}
	return o.OpenURL(u)
}

// BuildURL maps a record folder below the export root to its Kirby URL
func (o *Opener) BuildURL(dir string) (string, error) {
	relPath, err := filepath.Rel(o.root, dir)
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}

	if relPath == "." || strings.HasPrefix(relPath, "..") {
		return "", fmt.Errorf("folder is outside the export root: %s", dir)
	}

	segments := strings.Split(filepath.ToSlash(relPath), "/")
	for i, seg := range segments {
		if seg == domain.DraftsDir {
			return "", fmt.Errorf("drafts have no public URL: %s", dir)
		}
		segments[i] = numPrefix.ReplaceAllString(seg, "")
	}

	return domain.JoinURL(o.siteURL, segments...), nil
}

// OpenURL opens uri in the default browser
func (o *Opener) OpenURL(uri string) error {
	switch runtime.GOOS {
	case "darwin":
		return o.run("open", uri)
	case "linux":
		return o.run("xdg-open", uri)
	case "windows":
		return o.run("cmd", "/c", "start", "", uri)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}
