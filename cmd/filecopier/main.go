package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"gitlab.com/tozd/go/errors"

	appErrors "filecopier/internal/errors"
)

// errFilesFailed marks a run that finished with at least one failed file.
var errFilesFailed = errors.New("one or more files failed")

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the command line and maps the outcome to an exit status.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFilesFailed):
		return 2
	default:
		fmt.Fprintln(stderr, appErrors.UserMessage(err))
		if appErrors.IsConfiguration(err) {
			fmt.Fprintln(stderr, "Run 'filecopier --help' for usage.")
		}
		return 1
	}
}
