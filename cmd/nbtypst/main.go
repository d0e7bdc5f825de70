/*
Command nbtypst converts Jupyter notebooks, Markdown and HTML documents
into Typst markup, and optionally into PDF.

Usage:

	nbtypst [flags] input.{ipynb,md,html}
	nbtypst -repl html|md

The output file gets a preface which imports a Typst template and sets
title, authors and date. Metadata are taken from the notebook and from a
YAML file next to the input (input.yaml). If the template is missing in
the output folder, a packaged default template is written.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/npillmayer/nbtypst/core/parameters"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'nbtypst.cli'
func tracer() tracing.Trace {
	return tracing.Select("nbtypst.cli")
}

// tracers of the packages of this module
var tracerKeys = []string{
	"nbtypst.cli",
	"nbtypst.typst",
	"nbtypst.html",
	"nbtypst.markdown",
	"nbtypst.notebook",
	"nbtypst.resources",
	"nbtypst.pdf",
}

func main() {
	initDisplay()

	// command line flags
	output := flag.String("o", "", "Output file [default: input with extension .typ]")
	mkpdf := flag.Bool("pdf", false, "Compile the output to PDF")
	template := flag.String("template", "", "Name of the Typst template to import")
	confpath := flag.String("config", "", "YAML configuration file")
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	watch := flag.Bool("watch", false, "Convert again whenever the input changes")
	dump := flag.Bool("dump", false, "Print the Markdown syntax tree")
	repl := flag.String("repl", "", "Interactive mode for input format [html|md]")
	media := flag.String("media", "", "Folder for images [default: media next to the output]")
	flag.Parse()

	// set up configuration and logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf, err := loadConfig(*confpath)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	configureTracing(conf, *tlevel)
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	gconf.Initialize(conf)
	tracer().Infof("Trace level is %s", *tlevel)
	params := parameters.FromConfig(conf)
	if *template != "" {
		params.Push(parameters.P_TEMPLATE, *template)
	}

	if *repl != "" {
		if err := REPL(*repl, params); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(3)
		}
		return
	}
	if flag.NArg() != 1 {
		pterm.Error.Println("Expecting exactly one input file")
		flag.Usage()
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	j := &job{
		input:    flag.Arg(0),
		output:   *output,
		mediaDir: *media,
		pdf:      *mkpdf,
		dump:     *dump,
		params:   params,
	}
	rep, err := j.run(ctx)
	if err != nil {
		pterm.Error.Println(err.Error())
		if !*watch {
			os.Exit(2)
		}
	} else {
		rep.print()
	}
	if *watch {
		if err := watchInput(ctx, j); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(2)
		}
	}
}

// We use pterm for moderately fancy output. Styling is switched off if
// output is not a terminal.
func initDisplay() {
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		pterm.DisableStyling()
	}
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// configureTracing sets the trace level of all tracers of this module,
// unless the configuration sets them.
func configureTracing(conf map[string]interface{}, level string) {
	if _, ok := conf["tracing.adapter"]; !ok {
		conf["tracing.adapter"] = "go"
	}
	for _, key := range tracerKeys {
		if _, ok := conf["trace."+key]; !ok {
			conf["trace."+key] = level
		}
	}
}
