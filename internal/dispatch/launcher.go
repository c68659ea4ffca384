package dispatch

import (
	"errors"
	"os/exec"
	"runtime"
)

// Launcher starts a configured command without waiting for it.
type Launcher interface {
	Launch(cmd string) error
}

// ShellLauncher hands the command text to the platform shell unchanged.
type ShellLauncher struct{}

func (ShellLauncher) Launch(command string) error {
	shell, shellArg, err := ResolveShell()
	if err != nil {
		return err
	}
	cmd := exec.Command(shell, shellArg, command)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap in the background so finished commands do not linger as zombies.
	go func() { _ = cmd.Wait() }()
	return nil
}

// ResolveShell returns the platform shell and the flag that makes it run a
// command string.
func ResolveShell() (string, string, error) {
	switch runtime.GOOS {
	case "windows":
		return "cmd", "/C", nil
	case "darwin", "linux", "freebsd", "openbsd", "netbsd":
		return "/bin/sh", "-c", nil
	default:
		return "", "", errors.New("unsupported shell")
	}
}
