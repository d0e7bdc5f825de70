package resources

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/npillmayer/nbtypst/core"
)

type resourceType int

// resource types
const (
	unknownResourceType resourceType = iota
	attachmentResourceType
	imageResourceType
	templateResourceType
)

// NotFound returns an application error for a missing resource.
func NotFound(res string, rtype resourceType) error {
	e := fmt.Errorf("resource missing: %v", res)
	var s string
	switch rtype {
	case attachmentResourceType:
		s = fmt.Sprintf("attachment not found: %s", res)
	case imageResourceType:
		s = fmt.Sprintf("image not found: %s", res)
	case templateResourceType:
		s = fmt.Sprintf("template not found: %s", res)
	default:
		s = fmt.Sprintf("resource not found: %s", res)
	}
	err := core.WrapError(e, core.EMISSING, s)
	return err
}

//go:embed packaged/*
var packaged embed.FS

// --- Templates -------------------------------------------------------------

// Template returns the packaged Typst document template. It defines the
// function `project`, used by the preface of converted documents, and
// imports the math functions of package mitex.
func Template() ([]byte, error) {
	b, err := packaged.ReadFile("packaged/template.typ")
	if err != nil {
		return nil, NotFound("template.typ", templateResourceType)
	}
	return b, nil
}

// WriteTemplate writes the packaged template to dir/name, if no such file
// exists. It returns true if the template has been written.
func WriteTemplate(dir, name string) (bool, error) {
	fpath := filepath.Join(dir, name)
	if _, err := os.Stat(fpath); err == nil {
		tracer().Debugf("template %s exists, leaving it alone", fpath)
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	b, err := Template()
	if err != nil {
		return false, err
	}
	if err = os.WriteFile(fpath, b, 0644); err != nil {
		return false, err
	}
	tracer().Infof("wrote template %s", fpath)
	return true, nil
}

// --- Downloads -------------------------------------------------------------

type pathPlusErr struct {
	path string
	err  error
}

// PathPromise is the promise of a local file path for a media resource.
type PathPromise interface {
	Path() (string, error)
	Await(ctx context.Context) (string, error)
}

type pathLoader struct {
	done   chan struct{}
	result pathPlusErr
}

// Path blocks until the resource has been loaded.
func (loader *pathLoader) Path() (string, error) {
	return loader.Await(context.Background())
}

// Await blocks until the resource has been loaded or ctx is done. A
// promise may be awaited any number of times.
func (loader *pathLoader) Await(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-loader.done:
		return loader.result.path, loader.result.err
	}
}

// ResolveURL starts downloading url into directory dir and returns a
// promise for the path of the local copy. Downloads are cached in the
// user's cache directory.
func ResolveURL(ctx context.Context, dl *Downloader, url, dir string) PathPromise {
	loader := &pathLoader{done: make(chan struct{})}
	go func(loader *pathLoader) {
		defer close(loader.done)
		loader.result.path, loader.result.err = dl.Fetch(ctx, url, dir)
	}(loader)
	return loader
}
