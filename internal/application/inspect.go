package application

import (
	"fmt"
	"io"
	"text/tabwriter"

	"remotectl/internal/actions"
	"remotectl/internal/workspace"
)

// Init writes the default files and reports what it created.
func Init(out io.Writer, layout workspace.Layout) error {
	written, err := workspace.Bootstrap(layout)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		fmt.Fprintf(out, "nothing to do, %s already exists\n", layout.ConfigPath)
		return nil
	}
	for _, path := range written {
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	return nil
}

// Check loads the action file and prints the table the server would expose.
func Check(out io.Writer, path string) error {
	cfg, err := actions.Load(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "title: %q\n", cfg.Title)
	if cfg.SessionID != "" {
		fmt.Fprintf(out, "session_id: %s\n", cfg.SessionID)
	}
	if cfg.Port != 0 {
		fmt.Fprintf(out, "port: %d\n", cfg.Port)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tNAME\tID\tCMD\n")
	for i, a := range cfg.Actions {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, a.DisplayName, a.ID, a.Cmd)
	}
	return tw.Flush()
}
