package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zoobzio/stego"
	"github.com/zoobzio/stego/internal/config"
	"github.com/zoobzio/stego/internal/server"
)

// errUsage reports bad arguments after the usage text has been printed.
var errUsage = errors.New("usage")

func (e *env) flags(name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "usage: stego %s %s\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

// parse parses args; the flag package has already reported any problem.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

type capacityResult struct {
	width, height, capacity int
	format                  string
	err                     error
}

func (e *env) capacity(args []string) error {
	fs := e.flags("capacity", "<image>...")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	results, err := forEach(fs.Args(), func(path string) capacityResult {
		f, err := os.Open(path)
		if err != nil {
			return capacityResult{err: err}
		}
		defer f.Close()

		w, h, format, err := stego.Probe(f)
		if err != nil {
			return capacityResult{err: err}
		}
		return capacityResult{width: w, height: h, format: format, capacity: stego.Capacity(w, h)}
	})
	if err != nil {
		return err
	}

	failed := 0
	for i, r := range results {
		path := fs.Arg(i)
		if r.err != nil {
			failed++
			fmt.Fprintf(e.stderr, "%s: %v\n", path, r.err)
			continue
		}
		fmt.Fprintf(e.stdout, "%s: %d characters (%dx%d %s)\n", path, r.capacity, r.width, r.height, r.format)
	}
	return failures(failed, len(results))
}

func (e *env) hide(args []string) error {
	fs := e.flags("hide", "[-o out] [-f format] [-m file] <image> [text]")
	out := fs.String("o", "", "output path (default encoded_<name>.<ext> next to the input)")
	formatName := fs.String("f", "png", "output format: "+strings.Join(lossless(), ", "))
	messageFile := fs.String("m", "", "read the text from a file, or - for stdin")
	if err := parse(fs, args); err != nil {
		return err
	}

	var text string
	switch {
	case *messageFile != "" && fs.NArg() == 1:
		data, err := e.readMessage(*messageFile)
		if err != nil {
			return err
		}
		text = data
	case *messageFile == "" && fs.NArg() == 2:
		text = fs.Arg(1)
	default:
		fs.Usage()
		return errUsage
	}
	input := fs.Arg(0)

	format, err := stego.Lookup(*formatName)
	if err != nil {
		return err
	}
	proc, err := stego.Use(format)
	if err != nil {
		return err
	}

	src, err := os.Open(input)
	if err != nil {
		return err
	}
	defer src.Close()

	var buf bytes.Buffer
	if err := proc.Hide(e.ctx, src, &buf, text); err != nil {
		return errors.New(stego.HideResult(err).Message)
	}

	dest := *out
	if dest == "" {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		dest = filepath.Join(filepath.Dir(input), "encoded_"+base+format.Extension())
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0o600); err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "%s %s\n", stego.MessageHidden, dest)
	return nil
}

func (e *env) readMessage(name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(e.stdin)
		return string(data), err
	}
	data, err := os.ReadFile(name)
	return string(data), err
}

type revealResult struct {
	text string
	err  error
}

func (e *env) reveal(args []string) error {
	fs := e.flags("reveal", "<image>...")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	proc, err := stego.Use(stego.MustLookup("png"))
	if err != nil {
		return err
	}

	results, err := forEach(fs.Args(), func(path string) revealResult {
		f, err := os.Open(path)
		if err != nil {
			return revealResult{err: err}
		}
		defer f.Close()

		text, err := proc.Reveal(e.ctx, f)
		return revealResult{text: text, err: err}
	})
	if err != nil {
		return err
	}

	prefix := fs.NArg() > 1
	failed := 0
	for i, r := range results {
		path := fs.Arg(i)
		if r.err != nil {
			failed++
			fmt.Fprintf(e.stderr, "%s: %s\n", path, stego.RevealResult("", r.err).Message)
			continue
		}
		if prefix {
			fmt.Fprintf(e.stdout, "%s: %s\n", path, r.text)
		} else {
			fmt.Fprintln(e.stdout, r.text)
		}
	}
	return failures(failed, len(results))
}

func (e *env) serve(args []string) error {
	fs := e.flags("serve", "[-config file] [-addr addr] [-dir dir]")
	configPath := fs.String("config", "", "YAML config file")
	addr := fs.String("addr", "", "listen address (overrides config)")
	dir := fs.String("dir", "", "artifact directory (overrides config)")
	defaultUsage := fs.Usage
	fs.Usage = func() {
		defaultUsage()
		fmt.Fprintln(e.stderr, "\nenvironment:")
		for _, v := range config.Vars() {
			fmt.Fprintf(e.stderr, "  %-24s default %q\n", v.Name, v.Default)
		}
	}
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, nil)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dir != "" {
		cfg.UploadDir = *dir
	}

	level, _ := cfg.Level()
	logger := newLogger(e.stderr, level, cfg.LogFormat)
	return server.Run(e.ctx, cfg, logger)
}

// lossless lists the registered formats that can carry a message.
func lossless() []string {
	var names []string
	for _, name := range stego.Formats() {
		if f, err := stego.Lookup(name); err == nil && f.Lossless() {
			names = append(names, name)
		}
	}
	return names
}

func failures(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d images failed", failed, total)
}
