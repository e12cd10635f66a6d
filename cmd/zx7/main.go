// Command zx7 compresses one file into <file>.zx7 using optimal LZ77/LZSS
// parsing in the ZX7 format.
//
// The exit code policy, log level, read-back verification and input size
// limit are taken from the ZX7_* environment variables; see
// convert.OptionsFromEnv.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/andybalholm/zx7/convert"
	"github.com/fatih/color"
	isatty "github.com/mattn/go-isatty"
	"github.com/urfave/cli"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// exitCode is an error carrying the process exit code and a message for
// stderr. An empty message means the failure was already reported.
type exitCode struct {
	Code    int
	Message string
}

func (err exitCode) Error() string {
	return err.Message
}

func runCmdline(args []string, stdout, stderr io.Writer, lookup func(string) (string, bool)) int {
	app := cli.NewApp()
	app.Name = "zx7"
	app.Usage = "Optimal LZ77/LZSS compression into the ZX7 format"
	app.ArgsUsage = "<file>"
	app.Version = Version
	app.Writer = stdout
	app.ErrWriter = stderr

	app.Action = func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return exitCode{convert.ExitUsage, fmt.Sprintf("expected exactly one <file>, got %d arguments", ctx.NArg())}
		}

		opts, err := convert.OptionsFromEnv(lookup)
		if err != nil {
			return exitCode{convert.ExitUsage, err.Error()}
		}
		opts.Stdout = stdout
		opts.Stderr = stderr

		if code := convert.Run(ctx.Args().First(), opts); code != convert.ExitSuccess {
			return exitCode{Code: code}
		}
		return nil
	}

	err := app.Run(args)
	if err == nil {
		return convert.ExitSuccess
	}

	if ec, ok := err.(exitCode); ok {
		if ec.Message != "" {
			fmt.Fprintf(stderr, "%s %s\n", color.RedString("Error:"), ec.Message)
		}
		return ec.Code
	}

	// Flag parsing errors; cli already printed the usage.
	return convert.ExitUsage
}

func main() {
	color.NoColor = !isatty.IsTerminal(os.Stderr.Fd())
	os.Exit(runCmdline(os.Args, os.Stdout, os.Stderr, os.LookupEnv))
}
