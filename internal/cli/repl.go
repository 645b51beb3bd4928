package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL needs. *App satisfies
// it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Create(ctx context.Context) error
	Update(ctx context.Context) error
	Stats(ctx context.Context) error
	Analytics(ctx context.Context) error
	Watch(ctx context.Context) error
	Theme(ctx context.Context) error
}

// runREPL reads commands line by line and dispatches them. It exits on
// reader EOF or "exit"/"quit". Handlers report their own errors; the loop
// only keeps going. The reader is shared with the interactive prompts so
// no buffered input is lost between them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("td> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, show, create, update, stats, analytics, watch, theme, logout, exit")
			} else {
				printlnFn("Available commands: register, login, theme, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx)

		case "create":
			_ = a.Create(ctx)

		case "update":
			_ = a.Update(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "analytics":
			_ = a.Analytics(ctx)

		case "watch":
			_ = a.Watch(ctx)

		case "theme":
			_ = a.Theme(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", parts[0])
		}
	}
}
