package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/npillmayer/nbtypst/backend/pdf"
	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/nbtypst/core/locate/resources"
	"github.com/npillmayer/nbtypst/core/parameters"
	"github.com/npillmayer/nbtypst/engine/typst"
	nbhtml "github.com/npillmayer/nbtypst/input/html"
	"github.com/npillmayer/nbtypst/input/markdown"
	"github.com/npillmayer/nbtypst/notebook"
	"github.com/pterm/pterm"
)

// job is a conversion of a single input file.
type job struct {
	input    string
	output   string // empty for input with extension .typ
	mediaDir string // empty for folder media next to the output
	pdf      bool
	dump     bool
	params   *parameters.Registers
}

// report summarizes a conversion.
type report struct {
	input       string
	output      string
	size        int64
	media       int
	template    string // written template, if any
	pdf         string
	diagnostics typst.Diagnostics
}

func (j *job) outputPath() string {
	if j.output != "" {
		return j.output
	}
	return strings.TrimSuffix(j.input, filepath.Ext(j.input)) + ".typ"
}

// run converts the input file and writes the output, the template and
// possibly a PDF.
func (j *job) run(ctx context.Context) (*report, error) {
	out := j.outputPath()
	outdir := filepath.Dir(out)
	mediaDir := j.mediaDir
	if mediaDir == "" {
		mediaDir = filepath.Join(outdir, "media")
	}
	media := resources.NewResolver(mediaDir, outdir)
	media.Download = j.params.B(parameters.P_DOWNLOAD)
	//
	sidecar, err := notebook.ReadSidecar(notebook.SidecarPath(j.input))
	if err != nil {
		return nil, err
	}
	var meta notebook.Meta
	var heading string // title fallback, taken from the document itself
	var res *typst.Result
	switch ext := strings.ToLower(filepath.Ext(j.input)); ext {
	case ".ipynb":
		meta, heading, res, err = j.convertNotebook(ctx, media)
	case ".md", ".markdown":
		meta, heading, res, err = j.convertMarkdown(ctx, media)
	case ".html", ".htm":
		meta, heading, res, err = j.convertHTML(media)
	default:
		err = core.Error(core.EUNSUPPORTED, "unsupported input format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	meta.Complete(sidecar)
	meta.Complete(notebook.Meta{Title: heading})
	//
	doc := notebook.Preface(meta, j.params) + "\n" + res.Markup + "\n"
	if err = os.WriteFile(out, []byte(doc), 0644); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot write %s", out)
	}
	rep := &report{input: j.input, output: out, size: int64(len(doc)), diagnostics: res.Diagnostics}
	tname := j.params.S(parameters.P_TEMPLATE)
	written, err := resources.WriteTemplate(outdir, tname)
	if err != nil {
		return nil, err
	}
	if written {
		rep.template = filepath.Join(outdir, tname)
	}
	if entries, err := os.ReadDir(mediaDir); err == nil {
		rep.media = len(entries)
	}
	if j.pdf {
		rep.pdf = strings.TrimSuffix(out, filepath.Ext(out)) + ".pdf"
		if err = pdf.Compile(ctx, out, rep.pdf); err != nil {
			return rep, err
		}
	}
	return rep, nil
}

func (j *job) convertNotebook(ctx context.Context, media *resources.Resolver) (notebook.Meta, string, *typst.Result, error) {
	nb, err := notebook.ReadFile(j.input)
	if err != nil {
		return notebook.Meta{}, "", nil, err
	}
	if j.dump {
		for i := range nb.Cells {
			if nb.Cells[i].CellType == notebook.MarkdownCell {
				dumpTree(markdown.Parse([]byte(nb.Cells[i].Source)))
			}
		}
	}
	conv := notebook.New(notebook.WithParameters(j.params), notebook.WithMedia(media))
	res, err := conv.Convert(ctx, nb)
	if err != nil {
		return notebook.Meta{}, "", nil, err
	}
	return nb.Meta(), notebook.Title(nb), res, nil
}

func (j *job) convertMarkdown(ctx context.Context, media *resources.Resolver) (notebook.Meta, string, *typst.Result, error) {
	src, err := os.ReadFile(j.input)
	if err != nil {
		return notebook.Meta{}, "", nil, core.WrapError(err, core.EMISSING, "cannot read %s", j.input)
	}
	doc := markdown.Parse(src)
	if j.dump {
		dumpTree(doc)
	}
	var remote []string
	markdown.Walk(doc, func(n markdown.Node) bool {
		if img, ok := n.(*markdown.Image); ok {
			remote = append(remote, img.URL)
		}
		return true
	})
	media.Prefetch(ctx, remote)
	r := markdown.New(markdown.WithResolver(media), markdown.WithParameters(j.params))
	res, err := r.Render(doc)
	if err != nil {
		return notebook.Meta{}, "", nil, err
	}
	return notebook.Meta{}, markdown.Title(doc), res, nil
}

func (j *job) convertHTML(media *resources.Resolver) (notebook.Meta, string, *typst.Result, error) {
	f, err := os.Open(j.input)
	if err != nil {
		return notebook.Meta{}, "", nil, core.WrapError(err, core.EMISSING, "cannot read %s", j.input)
	}
	defer f.Close()
	root, err := nbhtml.Parse(f, j.params.S(parameters.P_PRUNE))
	if err != nil {
		return notebook.Meta{}, "", nil, err
	}
	r := nbhtml.New(nbhtml.WithResolver(media), nbhtml.WithParameters(j.params))
	res, err := r.Render(root)
	if err != nil {
		return notebook.Meta{}, "", nil, err
	}
	return notebook.Meta{}, nbhtml.Title(root), res, nil
}

// print displays a summary of a conversion.
func (rep *report) print() {
	data := pterm.TableData{
		{"Input", rep.input},
		{"Output", rep.output + " (" + humanize.Bytes(uint64(rep.size)) + ")"},
		{"Media files", humanize.Comma(int64(rep.media))},
	}
	if rep.template != "" {
		data = append(data, []string{"Template", rep.template})
	}
	if rep.pdf != "" {
		size := "?"
		if info, err := os.Stat(rep.pdf); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		data = append(data, []string{"PDF", rep.pdf + " (" + size + ")"})
	}
	data = append(data, []string{"Diagnostics", humanize.Comma(int64(rep.diagnostics.Len()))})
	if err := pterm.DefaultTable.WithData(data).Render(); err != nil {
		tracer().Errorf("%v", err)
	}
	for _, err := range rep.diagnostics.All() {
		pterm.Warning.Println(err.Error())
	}
	if rep.diagnostics.Len() == 0 {
		pterm.Success.Printfln("Converted %s", rep.input)
	}
}
