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

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Verify(ctx context.Context) error
	Resend(ctx context.Context) error
	CancelSignup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Settings(ctx context.Context) error
	Federal(ctx context.Context) error
	State(ctx context.Context) error
	Local(ctx context.Context) error
	Random(ctx context.Context) error
	Vote(ctx context.Context) error
	Opinion(ctx context.Context) error
	History(ctx context.Context) error
	Ask(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the YourSay CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help            show available commands
//	  - signup          create an account
//	  - verify          enter the emailed code
//	  - resend          send a new code
//	  - cancel          abandon the signup in progress
//	  - login           authenticate
//	  - exit | quit     leave the program
//
//	Logged in:
//	  - whoami          show your profile
//	  - settings        change zipcode, state and topics
//	  - federal | state | local | random   browse bills
//	  - vote | opinion  take a position on a bill
//	  - history         list your votes and opinions
//	  - ask             ask the assistant about legislation
//	  - logout          log out
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ys %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		if handler, ok := publicCommands(a)[cmd]; ok {
			report(handler(ctx))
			continue
		}

		if handler, ok := privateCommands(a)[cmd]; ok {
			if !a.isLoggedIn() {
				printlnFn("Please log in first.")
				continue
			}
			report(handler(ctx))
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, settings, federal, state, local, random, vote, opinion, history, ask, logout, exit")
			} else {
				printlnFn("Available commands: signup, verify, resend, cancel, login, exit")
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

type handlerFn func(ctx context.Context) error

func publicCommands(a execIface) map[string]handlerFn {
	return map[string]handlerFn{
		"signup": a.Signup,
		"verify": a.Verify,
		"resend": a.Resend,
		"cancel": a.CancelSignup,
		"login":  a.Login,
	}
}

func privateCommands(a execIface) map[string]handlerFn {
	return map[string]handlerFn{
		"logout":   a.Logout,
		"whoami":   a.WhoAmI,
		"settings": a.Settings,
		"federal":  a.Federal,
		"state":    a.State,
		"local":    a.Local,
		"random":   a.Random,
		"vote":     a.Vote,
		"opinion":  a.Opinion,
		"history":  a.History,
		"ask":      a.Ask,
	}
}

func report(err error) {
	if err == nil || errors.Is(err, io.EOF) {
		return
	}
	printlnFn("Error:", describe(err))
}
