// Package main implements the urcuinfo diagnostic CLI.
//
// urcuinfo inspects the go.mod of the module it is run from and reports
// the module path and Go version directive alongside the fence-forcing
// mode urcu selects in the urcuinfo process itself (from the URCU_MODE
// environment variable) and whether the current platform supports signal
// coercion. The mode does not depend on anything read from go.mod.
//
// Usage:
//
//	urcuinfo info         # report go.mod + mode diagnostics for the cwd module
//	urcuinfo version       # show version information
//
// This mirrors the teacher's own cmd/racedetector pattern of reading a
// target module's go.mod before acting on it, here for diagnosis instead
// of AST instrumentation.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/mod/modfile"

	"github.com/kolkov/urcu/urcu"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "info":
		infoCommand(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("urcuinfo version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`urcuinfo - urcu module diagnostics

USAGE:
    urcuinfo <command> [arguments]

COMMANDS:
    info       Report the RCU mode and Go version for the module in the
               current directory (or a directory given as an argument)
    version    Show version information
    help       Show this help message

EXAMPLES:
    urcuinfo info
    urcuinfo info ./cmd/myservice

`)
}

// infoCommand parses go.mod in the given directory (or the current
// directory if args is empty) and reports the Go version directive
// alongside the urcu mode that would be active for a program built there.
func infoCommand(args []string) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	path := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "urcuinfo: reading %s: %v\n", path, err)
		os.Exit(1)
	}

	f, err := modfile.Parse(path, data, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "urcuinfo: parsing %s: %v\n", path, err)
		os.Exit(1)
	}

	modulePath := "(unknown)"
	if f.Module != nil {
		modulePath = f.Module.Mod.Path
	}
	goVersion := "(unspecified)"
	if f.Go != nil {
		goVersion = f.Go.Version
	}

	info := urcu.Inspect()

	fmt.Printf("module:      %s\n", modulePath)
	fmt.Printf("go version:  %s\n", goVersion)
	fmt.Printf("GOOS:        %s\n", runtime.GOOS)
	fmt.Printf("protocol:    %s\n", info.ProtocolVersion)
	fmt.Printf("mode:        %s\n", info.Mode)
	fmt.Printf("signal-coercion available: %v\n", info.SignalCoercionAvailable)
	if info.Mode == urcu.ModeSignalCoerced.String() {
		fmt.Println("note:        signal-coerced mode reserves SIGUSR1 process-wide")
	}
}
