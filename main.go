package main

import (
	"io"
	"os"
	"time"

	"github.com/borgmon/zooom/pkg/audio"
	"github.com/borgmon/zooom/pkg/launcher"
)

func main() {
	z := &Zooom{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		now:       time.Now,
		newOpener: launcher.DetectOpener,
		playChime: func() error {
			return audio.Play(audio.JoinChime, 2*time.Second)
		},
	}
	os.Exit(z.Execute(os.Args[1:]))
}

// Execute runs the command line and returns the process exit code.
func (z *Zooom) Execute(args []string) int {
	root := z.newRootCmd()
	root.SetArgs(args)
	root.SetIn(z.stdin)
	root.SetOut(z.stdout)
	root.SetErr(z.stderr)

	err := root.Execute()
	if z.log != nil {
		defer func() { _ = z.log.Sync() }()
	}
	if err != nil {
		printError(z.stderr, err)
	}
	return exitCode(err)
}

func printError(w io.Writer, err error) {
	_, _ = io.WriteString(w, "Error: "+err.Error()+"\n")
}
