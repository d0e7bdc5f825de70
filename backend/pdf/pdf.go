package pdf

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/schuko/gconf"
	"github.com/pkg/errors"
)

// DefaultBinary is the name of the Typst compiler if configuration key
// `typst.binary` is not set.
const DefaultBinary = "typst"

// Compiler runs `typst compile`.
type Compiler struct {
	Binary string // path or name of the typst executable
	Root   string // project root for the compiler; empty for the input's folder
}

// New creates a compiler for the configured Typst binary.
func New() *Compiler {
	bin := gconf.GetString("typst.binary")
	if bin == "" {
		bin = DefaultBinary
	}
	return &Compiler{Binary: bin}
}

// Compile compiles Typst file typ to PDF file pdf, using the configured
// Typst binary.
func Compile(ctx context.Context, typ, pdf string) error {
	return New().Compile(ctx, typ, pdf)
}

// Compile compiles Typst file typ to PDF file pdf. If pdf is empty, the
// output is written next to typ with extension ".pdf".
//
// A compiler which cannot be found is reported as core.EMISSING. If the
// compiler fails, the error carries code core.EEXTERNAL and the compiler's
// diagnostic output.
func (c *Compiler) Compile(ctx context.Context, typ, pdf string) error {
	if pdf == "" {
		pdf = strings.TrimSuffix(typ, filepath.Ext(typ)) + ".pdf"
	}
	bin := c.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	binary, err := exec.LookPath(bin)
	if err != nil {
		return core.WrapError(err, core.EMISSING, "typst compiler %q not found", bin)
	}
	args := []string{"compile"}
	if c.Root != "" {
		args = append(args, "--root", c.Root)
	}
	args = append(args, typ, pdf)
	tracer().Debugf("running %s %s", binary, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err = cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		out := strings.TrimSpace(stderr.String())
		if out == "" {
			out = strings.TrimSpace(stdout.String())
		}
		err = errors.Wrapf(err, "error running %q: %s", binary, out)
		return core.WrapError(err, core.EEXTERNAL, "typst failed to compile %s", typ)
	}
	tracer().Infof("compiled %s", pdf)
	return nil
}
