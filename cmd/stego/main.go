// Command stego hides text in images and reveals it again.
//
//	stego capacity <image>...
//	stego hide [-o out] [-f format] [-m file] <image> [text]
//	stego reveal <image>...
//	stego serve [-config file] [-addr addr] [-dir dir]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/zoobzio/stego/bmp"
	_ "github.com/zoobzio/stego/jpeg"
	_ "github.com/zoobzio/stego/png"
	_ "github.com/zoobzio/stego/tiff"
)

const usage = `usage: stego <command> [flags] [args]

commands:
  capacity <image>...                         characters each image can hold
  hide [-o out] [-f format] [-m file] <image> [text]
                                              hide text in an image
  reveal <image>...                           print the text hidden in each image
  serve [-config file] [-addr addr] [-dir dir]
                                              run the HTTP service

Run "stego <command> -h" for command flags.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	env := &env{ctx: ctx, stdin: stdin, stdout: stdout, stderr: stderr}

	var err error
	switch args[0] {
	case "capacity":
		err = env.capacity(args[1:])
	case "hide":
		err = env.hide(args[1:])
	case "reveal":
		err = env.reveal(args[1:])
	case "serve":
		err = env.serve(args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "stego: unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		fmt.Fprintf(stderr, "stego: %v\n", err)
		return 1
	}
}

// env carries the streams and context shared by every command.
type env struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// newLogger builds the process logger.
func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
