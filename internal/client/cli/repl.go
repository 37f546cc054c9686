package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Login(ctx context.Context) error
	Identify(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	KYC(ctx context.Context) error
	Permissions(ctx context.Context) error
	Movies(ctx context.Context, args []string) error
	Movie(ctx context.Context, args []string) error
	Contests(ctx context.Context) error
	Ping(ctx context.Context) error
	Stats(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the cinepass CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. The loop exits on scanner EOF or
// when the user types "exit" or "quit".
//
//	Not logged in:
//	  help, login, ping, stats, exit | quit
//
//	Logged in:
//	  help, profile, editprofile, kyc, permissions,
//	  movies [page] [search], movie <id>, contests,
//	  identify, ping, stats, logout, exit | quit
//
// Command errors are printed as their user-facing message.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cinepass %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: profile, editprofile, kyc, permissions, movies [page] [search], movie <id>, contests, identify, ping, stats, logout, exit")
			} else {
				printlnFn("Available commands: login, ping, stats, exit")
			}

		case "login":
			err = a.Login(ctx)

		case "identify":
			err = a.Identify(ctx)

		case "profile":
			err = a.Profile(ctx)

		case "editprofile":
			err = a.EditProfile(ctx)

		case "kyc":
			err = a.KYC(ctx)

		case "permissions":
			err = a.Permissions(ctx)

		case "movies":
			err = a.Movies(ctx, args)

		case "movie":
			if len(args) == 0 {
				printlnFn("Usage: movie <id>")
				continue
			}
			err = a.Movie(ctx, args)

		case "contests":
			err = a.Contests(ctx)

		case "ping":
			err = a.Ping(ctx)

		case "stats":
			err = a.Stats(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("error:", apierr.Message(err, ""))
		}
	}
}
