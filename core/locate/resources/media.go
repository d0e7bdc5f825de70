package resources

import (
	"context"
	"encoding/base64"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/nbtypst/engine/typst"
)

// Attachments maps the file name of a notebook cell attachment to the path
// of a local file holding its content.
type Attachments map[string]string

// attachmentTypes lists media types of attachments in order of preference.
var attachmentTypes = []string{"image/png", "image/jpeg", "image/gif", "image/svg+xml", "image/webp"}

// DecodeAttachments writes the attachments of a notebook cell to files in
// dir. Attachments map a file name to a bundle of base64 encoded contents
// for different media types. Files are named by content, so equally named
// attachments of different cells do not collide.
//
// All attachments which can be decoded are returned, even if err is set.
func DecodeAttachments(dir string, attachments map[string]map[string]string) (Attachments, error) {
	table := make(Attachments, len(attachments))
	if len(attachments) == 0 {
		return table, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return table, err
	}
	var errs error
	for _, name := range sortedKeys(attachments) {
		mt, data := pickBundle(attachments[name])
		if mt == "" {
			errs = multierror.Append(errs, core.Error(core.EUNSUPPORTED,
				"attachment %s has no image data", name))
			continue
		}
		ext := filepath.Ext(name)
		if ext == "" {
			ext = MediaExt(mt)
		}
		p, err := writeBase64(dir, data, ext)
		if err != nil {
			errs = multierror.Append(errs, core.WrapError(err, core.EINVALID,
				"cannot decode attachment %s", name))
			continue
		}
		table[name] = p
	}
	return table, errs
}

func pickBundle(bundle map[string]string) (string, string) {
	for _, mt := range attachmentTypes {
		if data, ok := bundle[mt]; ok {
			return mt, data
		}
	}
	return "", ""
}

// writeBase64 decodes base64 data into a file in dir and returns its path.
// Notebook formats wrap base64 data into lines, so white space is dropped.
func writeBase64(dir, data, ext string) (string, error) {
	data = strings.Join(strings.Fields(data), "")
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", err
	}
	fpath := filepath.Join(dir, HashName(data)+ext)
	if _, err = os.Stat(fpath); err == nil {
		return fpath, nil
	}
	return fpath, os.WriteFile(fpath, b, 0644)
}

// --- Resolver --------------------------------------------------------------

// Resolver resolves media references of a document to local files. It
// implements the media resolver interface of the Typst emitters:
//
//   attachment:name   looked up in the attachment table
//   http(s)://…       downloaded into the media folder
//   data:…;base64,…   decoded into the media folder
//   anything else     a local path, used as-is
//
// Paths are returned relative to the folder of the output document if
// possible. A Resolver may be used concurrently.
type Resolver struct {
	MediaDir    string        // folder for downloaded and decoded media
	BaseDir     string        // folder of the output document
	Attachments Attachments   // read-only while rendering
	Download    bool          // download remote media
	Timeout     time.Duration // for a single download
	Downloader  *Downloader

	mu      sync.Mutex
	pending map[string]PathPromise
}

// NewResolver creates a resolver writing media to mediaDir. Remote media
// are downloaded.
func NewResolver(mediaDir, baseDir string) *Resolver {
	return &Resolver{
		MediaDir: mediaDir,
		BaseDir:  baseDir,
		Download: true,
		Timeout:  time.Minute,
		pending:  make(map[string]PathPromise),
	}
}

// Resolve resolves a media reference to a path.
func (r *Resolver) Resolve(ref string) (string, error) {
	return r.resolve(ref, r.Attachments)
}

// ForAttachments returns a resolver for the media of a single notebook
// cell: attachment references are looked up in table, everything else is
// resolved by r, sharing its downloads.
func (r *Resolver) ForAttachments(table Attachments) typst.MediaResolver {
	return cellResolver{r: r, table: table}
}

type cellResolver struct {
	r     *Resolver
	table Attachments
}

func (cr cellResolver) Resolve(ref string) (string, error) {
	return cr.r.resolve(ref, cr.table)
}

func (r *Resolver) resolve(ref string, attachments Attachments) (string, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return "", NotFound("<empty reference>", imageResourceType)
	case strings.HasPrefix(ref, "attachment:"):
		name := strings.TrimPrefix(ref, "attachment:")
		if n, err := url.PathUnescape(name); err == nil {
			name = n
		}
		p, ok := attachments[name]
		if !ok {
			return "", NotFound(name, attachmentResourceType)
		}
		return r.rel(p), nil
	case isRemote(ref):
		if !r.Download {
			return "", core.Error(core.EMISSING, "remote image %s not downloaded", ref)
		}
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout())
		defer cancel()
		p, err := r.fetch(ctx, ref).Await(ctx)
		if err != nil {
			return "", err
		}
		return r.rel(p), nil
	case strings.HasPrefix(ref, "data:"):
		p, err := r.decodeDataURI(ref)
		if err != nil {
			return "", err
		}
		return r.rel(p), nil
	}
	return ref, nil
}

// Prefetch starts downloading all remote references in refs. Downloads run
// concurrently; Resolve will await them.
func (r *Resolver) Prefetch(ctx context.Context, refs []string) {
	if !r.Download {
		return
	}
	for _, ref := range refs {
		if ref = strings.TrimSpace(ref); isRemote(ref) {
			r.fetch(ctx, ref)
		}
	}
}

// fetch returns the download promise for a URL, starting the download if
// not already pending.
func (r *Resolver) fetch(ctx context.Context, ref string) PathPromise {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		r.pending = make(map[string]PathPromise)
	}
	if p, ok := r.pending[ref]; ok {
		return p
	}
	if r.Downloader == nil {
		r.Downloader = NewDownloader()
	}
	if err := os.MkdirAll(r.MediaDir, 0755); err != nil {
		tracer().Errorf("cannot create media folder: %v", err)
	}
	p := ResolveURL(ctx, r.Downloader, ref, r.MediaDir)
	r.pending[ref] = p
	return p
}

func (r *Resolver) timeout() time.Duration {
	if r.Timeout <= 0 {
		return time.Minute
	}
	return r.Timeout
}

// decodeDataURI decodes a base64 data URI into a file.
func (r *Resolver) decodeDataURI(ref string) (string, error) {
	header, data, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", core.Error(core.EUNSUPPORTED, "data URI is not base64 encoded")
	}
	mt := strings.TrimSuffix(header, ";base64")
	ext := MediaExt(mt)
	if ext == "" {
		return "", core.Error(core.EUNSUPPORTED, "data URI of unsupported media type %q", mt)
	}
	if err := os.MkdirAll(r.MediaDir, 0755); err != nil {
		return "", err
	}
	p, err := writeBase64(r.MediaDir, data, ext)
	if err != nil {
		return "", core.WrapError(err, core.EINVALID, "cannot decode data URI")
	}
	return p, nil
}

// rel makes a path relative to the output document's folder, using forward
// slashes.
func (r *Resolver) rel(p string) string {
	if r.BaseDir != "" {
		if abs, err := filepath.Abs(p); err == nil {
			if base, err := filepath.Abs(r.BaseDir); err == nil {
				if rel, err := filepath.Rel(base, abs); err == nil && !strings.HasPrefix(rel, "..") {
					p = rel
				}
			}
		}
	}
	return filepath.ToSlash(p)
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func sortedKeys(m map[string]map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
