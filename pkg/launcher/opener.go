package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var (
	ErrSpawn               = errors.New("cannot start opener")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// Opener hands a URL to the operating system's default handler.
type Opener interface {
	Open(url string) (*os.Process, error)
}

// CommandOpener runs one fixed external program per platform. Escape, when
// set, rewrites the URL for the program's argument conventions.
type CommandOpener struct {
	Name   string
	Args   []string
	Escape func(string) string
}

// Command returns the command that would open url without starting it.
func (o CommandOpener) Command(url string) *exec.Cmd {
	if o.Escape != nil {
		url = o.Escape(url)
	}
	args := append(append([]string{}, o.Args...), url)
	return exec.Command(o.Name, args...)
}

// Open starts the opener and returns without waiting for it.
func (o CommandOpener) Open(url string) (*os.Process, error) {
	cmd := o.Command(url)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSpawn, o.Name, err)
	}
	return cmd.Process, nil
}

// escapeCmdShell protects the characters cmd.exe treats as command separators.
func escapeCmdShell(url string) string {
	return strings.NewReplacer("&", "^&", "|", "^|", "<", "^<", ">", "^>").Replace(url)
}

// NewOpener returns the opener for goos.
func NewOpener(goos string) (Opener, error) {
	switch goos {
	case "darwin":
		return CommandOpener{Name: "open"}, nil
	case "windows":
		return CommandOpener{Name: "cmd", Args: []string{"/c", "start", "/wait"}, Escape: escapeCmdShell}, nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return CommandOpener{Name: "xdg-open"}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

// DetectOpener returns the opener for the running platform.
func DetectOpener() (Opener, error) {
	return NewOpener(runtime.GOOS)
}
