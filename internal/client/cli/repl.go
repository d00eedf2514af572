package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Signin(ctx context.Context) error
	SignupSocial(ctx context.Context, provider string) error
	SigninSocial(ctx context.Context, provider string) error
	Me(ctx context.Context) error
	Users(ctx context.Context) error
	Rename(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Signout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the signkeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. The loop exits on scanner EOF or
// when the user types "exit" or "quit".
//
//	Signed out:
//	  signup                   create a local account
//	  signin                   sign in with id and password
//	  signup-social [provider] create an account from a social access token
//	  signin-social [provider] sign in with a social access token
//
//	Signed in:
//	  me                       show the current account
//	  users                    list all accounts
//	  rename <msrl>            change an account's display name
//	  delete <msrl>            delete an account
//	  signout                  forget the access token
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sk> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, users, rename <msrl>, delete <msrl>, signout, exit")
			} else {
				printlnFn("Available commands: signup, signin, signup-social [provider], signin-social [provider], exit")
			}

		case "signup":
			_ = a.Signup(ctx)

		case "signin":
			_ = a.Signin(ctx)

		case "signup-social":
			_ = a.SignupSocial(ctx, arg)

		case "signin-social":
			_ = a.SigninSocial(ctx, arg)

		case "me":
			_ = a.Me(ctx)

		case "users":
			_ = a.Users(ctx)

		case "rename", "delete":
			if arg == "" {
				printlnFn("Usage:", cmd, "<msrl>")
				continue
			}
			if cmd == "rename" {
				_ = a.Rename(ctx, arg)
			} else {
				_ = a.Delete(ctx, arg)
			}

		case "signout":
			_ = a.Signout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
