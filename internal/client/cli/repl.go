package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error
	AddUser(ctx context.Context) error
	AddCompany(ctx context.Context) error
	AddVehicle(ctx context.Context) error
	AddPoint(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login, help, exit"
	helpLoggedIn  = "Available commands: list <resource>, refresh <resource>, add-user, add-company, " +
		"add-vehicle, add-point, delete <resource> <id>, export <resource> [save], logout, help, exit\n" +
		"Resources: users, companies, vehicles, points"
)

// runREPL reads commands line by line and dispatches them to a until EOF,
// "exit" or "quit". Handlers report their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ca %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if ctx.Err() != nil {
			return
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "refresh":
			_ = a.Refresh(ctx, args)

		case "add-user":
			_ = a.AddUser(ctx)

		case "add-company":
			_ = a.AddCompany(ctx)

		case "add-vehicle":
			_ = a.AddVehicle(ctx)

		case "add-point":
			_ = a.AddPoint(ctx)

		case "delete", "rm":
			_ = a.Delete(ctx, args)

		case "export":
			_ = a.Export(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
