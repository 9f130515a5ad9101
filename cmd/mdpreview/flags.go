package main

import (
	flag "github.com/spf13/pflag"
)

// cliFlags holds parsed command-line flags.
type cliFlags struct {
	out         string
	lineMapPath string
	serve       bool
	addr        string
	watch       bool
	config      string
	style       string
	noHighlight bool
	verbose     bool
	version     bool
}

// parseFlags parses args (including the program name) and returns the
// flags plus remaining positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	flags := &cliFlags{}

	fs := flag.NewFlagSet("mdpreview", flag.ContinueOnError)
	fs.StringVarP(&flags.out, "out", "o", "", "write rendered HTML to this file (default stdout)")
	fs.StringVar(&flags.lineMapPath, "linemap", "", "write the line map as JSON to this file")
	fs.BoolVar(&flags.serve, "serve", false, "serve a live preview over HTTP")
	fs.StringVar(&flags.addr, "addr", "", "preview server listen address")
	fs.BoolVarP(&flags.watch, "watch", "w", false, "re-render on file changes")
	fs.StringVarP(&flags.config, "config", "c", "", "config file path or name")
	fs.StringVar(&flags.style, "style", "", "chroma highlight style")
	fs.BoolVar(&flags.noHighlight, "no-highlight", false, "disable syntax highlighting")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return flags, fs.Args(), nil
}
