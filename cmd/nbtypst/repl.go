package main

import (
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/nbtypst/core/parameters"
	"github.com/npillmayer/nbtypst/engine/typst"
	nbhtml "github.com/npillmayer/nbtypst/input/html"
	"github.com/npillmayer/nbtypst/input/markdown"
	"github.com/pterm/pterm"
)

// Intp is our interpreter object. It reads snippets of HTML or Markdown,
// terminated by an empty line, and prints their Typst markup.
type Intp struct {
	repl   *readline.Instance
	prompt string
	render func(string) (*typst.Result, error)
}

// REPL starts interactive mode for a given input format.
func REPL(format string, params *parameters.Registers) error {
	intp := &Intp{}
	switch strings.ToLower(format) {
	case "html":
		intp.render = func(s string) (*typst.Result, error) {
			return nbhtml.RenderString(s, nbhtml.WithParameters(params))
		}
	case "md", "markdown":
		intp.render = func(s string) (*typst.Result, error) {
			return markdown.RenderString(s, markdown.WithParameters(params))
		}
	default:
		return core.Error(core.EUNSUPPORTED, "no interactive mode for format %q", format)
	}
	intp.prompt = strings.ToLower(format) + " > "
	repl, err := readline.New(intp.prompt)
	if err != nil {
		return err
	}
	defer repl.Close()
	intp.repl = repl
	pterm.Info.Println("Finish input with an empty line, quit with <ctrl>D")
	intp.loop()
	return nil
}

func (intp *Intp) loop() {
	var input []string
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if strings.TrimSpace(line) != "" {
			input = append(input, line)
			intp.repl.SetPrompt("  … ")
			continue
		}
		if len(input) > 0 {
			intp.show(strings.Join(input, "\n"))
			input = input[:0]
		}
		intp.repl.SetPrompt(intp.prompt)
	}
	if len(input) > 0 {
		intp.show(strings.Join(input, "\n"))
	}
	pterm.Info.Println("Good bye!")
}

// show renders a snippet and prints the result.
func (intp *Intp) show(snippet string) {
	res, err := intp.render(snippet)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	pterm.Println(res.Markup)
	for _, d := range res.Diagnostics.All() {
		pterm.Warning.Println(d.Error())
	}
}
