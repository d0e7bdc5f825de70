package notebook

import (
	"context"
	"encoding/base64"
	"sort"
	"strings"

	"github.com/gookit/color"
	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/nbtypst/core/locate/resources"
	"github.com/npillmayer/nbtypst/core/option"
	"github.com/npillmayer/nbtypst/core/parameters"
	"github.com/npillmayer/nbtypst/engine/typst"
	nbhtml "github.com/npillmayer/nbtypst/input/html"
	"github.com/npillmayer/nbtypst/input/markdown"
)

// Converter converts notebooks. A Converter is meant for a single output
// document, as it writes media for this document.
type Converter struct {
	params *parameters.Registers
	media  *resources.Resolver
}

// Option configures a Converter.
type Option func(*Converter)

// WithParameters sets the rendering parameters.
func WithParameters(params *parameters.Registers) Option {
	return func(c *Converter) {
		if params != nil {
			c.params = params
		}
	}
}

// WithMedia sets the resolver for media of the output document.
func WithMedia(media *resources.Resolver) Option {
	return func(c *Converter) {
		if media != nil {
			c.media = media
		}
	}
}

// New creates a converter. Without a media resolver, media are written to
// folder "media" of the current directory.
func New(opts ...Option) *Converter {
	c := &Converter{params: parameters.NewRegisters()}
	for _, opt := range opts {
		opt(c)
	}
	if c.media == nil {
		c.media = resources.NewResolver("media", "")
		c.media.Download = c.params.B(parameters.P_DOWNLOAD)
	}
	return c
}

// Convert converts the cells of a notebook into Typst markup, without a
// preface. Cells are separated by blank lines. Problems within cells are
// reported as diagnostics of the result; an error is returned only if the
// notebook cannot be converted at all.
func (c *Converter) Convert(ctx context.Context, nb *Notebook) (*typst.Result, error) {
	if nb == nil {
		return nil, core.Error(core.EMISSING, "no notebook to convert")
	}
	c = c.local()
	c.params.Push(parameters.P_NBLANGUAGE, nb.Language(c.params.S(parameters.P_NBLANGUAGE)))
	docs := make([]*markdown.Document, len(nb.Cells))
	var remote []string
	for i := range nb.Cells {
		if nb.Cells[i].CellType == MarkdownCell {
			docs[i] = markdown.Parse([]byte(nb.Cells[i].Source))
			remote = append(remote, imageRefs(docs[i])...)
		}
	}
	c.media.Prefetch(ctx, remote)
	//
	diag := &typst.Diagnostics{}
	var parts []string
	for i := range nb.Cells {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cell := &nb.Cells[i]
		var markup string
		switch cell.CellType {
		case MarkdownCell:
			markup = c.markdownCell(cell, docs[i], diag)
		case CodeCell:
			c.params.Begingroup()
			if lang := cell.Language(); lang != "" {
				c.params.Push(parameters.P_NBLANGUAGE, lang)
			}
			markup = c.codeCell(cell, diag)
			c.params.Endgroup()
		case RawCell:
			markup = strings.TrimSpace(cell.Source.String())
		default:
			diag.Report(core.EUNSUPPORTED, "cell %d has unknown type %q", i, cell.CellType)
		}
		if markup != "" {
			parts = append(parts, markup)
		}
	}
	tracer().Infof("converted %d cells, %d diagnostics", len(nb.Cells), diag.Len())
	return &typst.Result{Markup: strings.Join(parts, "\n\n"), Diagnostics: *diag}, nil
}

// local returns a converter for a single conversion, with registers of its
// own. Cell-local parameters are pushed to them.
func (c *Converter) local() *Converter {
	l := *c
	l.params = c.params.Clone()
	return &l
}

// Title returns the title of the first Markdown cell with a heading.
func Title(nb *Notebook) string {
	for i := range nb.Cells {
		if nb.Cells[i].CellType != MarkdownCell {
			continue
		}
		if t := markdown.Title(markdown.Parse([]byte(nb.Cells[i].Source))); t != "" {
			return t
		}
	}
	return ""
}

func (c *Converter) markdownCell(cell *Cell, doc *markdown.Document, diag *typst.Diagnostics) string {
	table, err := resources.DecodeAttachments(c.media.MediaDir, cell.attachments())
	diag.Add(err)
	r := markdown.New(
		markdown.WithResolver(c.media.ForAttachments(table)),
		markdown.WithParameters(c.params),
	)
	res, err := r.Render(doc)
	if err != nil {
		diag.Add(err)
		return ""
	}
	diag.Merge(res.Diagnostics)
	return res.Markup
}

func (c *Converter) codeCell(cell *Cell, diag *typst.Diagnostics) string {
	w := typst.NewWriter()
	if src := strings.TrimRight(cell.Source.String(), "\n"); strings.TrimSpace(src) != "" {
		w.CodeBlock(c.params.S(parameters.P_NBLANGUAGE), src)
	}
	for i := range cell.Outputs {
		c.output(w, &cell.Outputs[i], diag)
	}
	return w.String()
}

func (c *Converter) output(w *typst.Writer, out *Output, diag *typst.Diagnostics) {
	switch out.OutputType {
	case StreamOutput:
		if text := stripANSI(out.Text.String()); strings.TrimSpace(text) != "" {
			w.CodeBlock("text", text)
		}
	case ResultOutput, DisplayOutput:
		c.richOutput(w, out, diag)
	case ErrorOutput:
		text := out.Ename + ": " + out.Evalue
		if len(out.Traceback) > 0 {
			text += "\n" + strings.Join(out.Traceback, "\n")
		}
		w.CodeBlock("text", stripANSI(text))
	default:
		diag.Report(core.EUNSUPPORTED, "output of unknown type %q", out.OutputType)
	}
}

// outputTypes lists the media types of rich outputs we convert, best first.
var outputTypes = []string{
	"image/png", "image/jpeg", "image/svg+xml", "text/latex",
	"text/markdown", "text/html", "text/plain",
}

func (c *Converter) richOutput(w *typst.Writer, out *Output, diag *typst.Diagnostics) {
	for _, mt := range outputTypes {
		data, ok := out.text(mt)
		if !ok {
			continue
		}
		switch mt {
		case "image/png", "image/jpeg":
			c.figure(w, "data:"+mt+";base64,"+data, diag)
		case "image/svg+xml":
			c.figure(w, "data:"+mt+";base64,"+base64.StdEncoding.EncodeToString([]byte(data)), diag)
		case "text/latex":
			w.Math(c.params.S(parameters.P_MATHBLOCK), stripDollars(data), true)
		case "text/markdown":
			res, err := markdown.New(markdown.WithResolver(c.media), markdown.WithParameters(c.params)).
				RenderSource([]byte(data))
			c.embed(w, res, err, diag)
		case "text/html":
			root, err := nbhtml.Parse(strings.NewReader(data), c.params.S(parameters.P_PRUNE))
			if err != nil {
				diag.Add(err)
				return
			}
			res, err := nbhtml.New(nbhtml.WithResolver(c.media), nbhtml.WithParameters(c.params)).Render(root)
			c.embed(w, res, err, diag)
		case "text/plain":
			w.CodeBlock("text", stripANSI(data))
		}
		return
	}
	types := make([]string, 0, len(out.Data))
	for mt := range out.Data {
		types = append(types, mt)
	}
	sort.Strings(types)
	diag.Report(core.EUNSUPPORTED, "output without a supported media type (%s)", strings.Join(types, ", "))
}

func (c *Converter) figure(w *typst.Writer, uri string, diag *typst.Diagnostics) {
	p, err := c.media.Resolve(uri)
	if err != nil {
		diag.Add(err)
		return
	}
	w.StartLine("")
	w.Figure(p, option.String(), c.params.S(parameters.P_IMAGEWIDTH))
	w.Paragraph()
}

// embed writes rendered markup as a block of its own.
func (c *Converter) embed(w *typst.Writer, res *typst.Result, err error, diag *typst.Diagnostics) {
	if err != nil {
		diag.Add(err)
		return
	}
	diag.Merge(res.Diagnostics)
	if res.Markup != "" {
		w.StartLine("")
		w.WriteString(res.Markup)
		w.Paragraph()
	}
}

// stripDollars removes math delimiters around LaTeX output.
func stripDollars(tex string) string {
	tex = strings.TrimSpace(tex)
	for _, d := range []string{"$$", "$"} {
		if len(tex) > 2*len(d) && strings.HasPrefix(tex, d) && strings.HasSuffix(tex, d) {
			return strings.TrimSpace(tex[len(d) : len(tex)-len(d)])
		}
	}
	return tex
}

// stripANSI removes terminal color codes, as found in tracebacks.
func stripANSI(s string) string {
	return color.ClearCode(s)
}

// imageRefs returns the sources of all images of a Markdown document.
func imageRefs(doc *markdown.Document) []string {
	var refs []string
	markdown.Walk(doc, func(n markdown.Node) bool {
		if img, ok := n.(*markdown.Image); ok {
			refs = append(refs, img.URL)
		}
		return true
	})
	return refs
}
