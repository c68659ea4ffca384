package application

import (
	"context"
	"io"
	"os"
	"os/exec"

	"remotectl/internal/dispatch"
)

// runShell runs the companion command in the foreground with the operator's
// terminal attached and waits for it.
func runShell(ctx context.Context, command string, out io.Writer) error {
	shell, shellArg, err := dispatch.ResolveShell()
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, shell, shellArg, command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = out
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
