package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL needs. App satisfies it; tests
// can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	exec(ctx context.Context, cmd string, args []string) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// help, exit and quit are handled here. Command errors are printed and the
// loop carries on; it stops on exit, quit or end of input.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("rewear %s> ", statusFn()))

		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) > 0 {
			cmd, args := parts[0], parts[1:]

			switch cmd {
			case "help":
				printlnFn(helpText(a.isLoggedIn(), a.isAdmin()))

			case "exit", "quit":
				printlnFn("Bye!")
				return

			default:
				if err := a.exec(ctx, cmd, args); err != nil {
					if errors.Is(err, errUnknownCommand) {
						printlnFn("Unknown command:", cmd)
					} else {
						printlnFn("Error:", err.Error())
					}
				}
			}
		}

		if errors.Is(readErr, io.EOF) {
			return
		}
	}
}
