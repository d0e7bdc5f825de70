package resources

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nnot really a picture")

func TestTemplate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.resources")
	defer teardown()
	//
	b, err := Template()
	require.NoError(t, err)
	assert.Contains(t, string(b), "#let project(")
	assert.Contains(t, string(b), "mitex")
	//
	dir := t.TempDir()
	written, err := WriteTemplate(dir, "template.typ")
	require.NoError(t, err)
	assert.True(t, written)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.typ"), []byte("// mine"), 0644))
	written, err = WriteTemplate(dir, "mine.typ")
	require.NoError(t, err)
	assert.False(t, written)
	mine, _ := os.ReadFile(filepath.Join(dir, "mine.typ"))
	assert.Equal(t, "// mine", string(mine))
}

func TestNotFound(t *testing.T) {
	err := NotFound("x.png", attachmentResourceType)
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Contains(t, core.UserMessage(err), "attachment not found")
}

func TestAttachments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.resources")
	defer teardown()
	//
	base := t.TempDir()
	media := filepath.Join(base, "media")
	require.NoError(t, os.MkdirAll(media, 0755))
	enc := base64.StdEncoding.EncodeToString(pngBytes)
	table, err := DecodeAttachments(media, map[string]map[string]string{
		"image.png": {"image/png": enc[:10] + "\n" + enc[10:]},
		"notes.txt": {"text/plain": "hello"},
	})
	assert.Error(t, err, "text attachment should be reported")
	require.Contains(t, table, "image.png")
	assert.NotContains(t, table, "notes.txt")
	//
	r := NewResolver(media, base)
	r.Attachments = table
	p, err := r.Resolve("attachment:image.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "media/"), "path %q should be relative", p)
	assert.True(t, strings.HasSuffix(p, ".png"))
	content, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(p)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, content)
	//
	_, err = r.Resolve("attachment:other.png")
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestDataURIAndLocalPaths(t *testing.T) {
	base := t.TempDir()
	r := NewResolver(filepath.Join(base, "media"), base)
	p, err := r.Resolve("data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p, ".png"))
	content, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(p)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, content)
	//
	_, err = r.Resolve("data:text/plain,hello")
	assert.Equal(t, core.EUNSUPPORTED, core.Code(err))
	//
	p, err = r.Resolve(" figures/plot.png ")
	require.NoError(t, err)
	assert.Equal(t, "figures/plot.png", p)
	//
	_, err = r.Resolve("")
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func imageServer(t *testing.T, hits *int32) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(hits, 1)
		switch req.URL.Path {
		case "/img.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(pngBytes)
		case "/plot":
			w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
			w.Write([]byte("<svg/>"))
		default:
			http.NotFound(w, req)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownloads(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.resources")
	defer teardown()
	//
	var hits int32
	srv := imageServer(t, &hits)
	cache := t.TempDir()
	base := t.TempDir()
	r := NewResolver(filepath.Join(base, "media"), base)
	r.Downloader = &Downloader{Client: srv.Client(), CacheDir: cache}
	//
	url := srv.URL + "/img.png"
	r.Prefetch(context.Background(), []string{url, url, "attachment:x.png"})
	p1, err := r.Resolve(url)
	require.NoError(t, err)
	p2, err := r.Resolve(url)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.True(t, strings.HasPrefix(p1, "media/"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	content, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(p1)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, content)
	//
	p, err := r.Resolve(srv.URL + "/plot")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p, ".svg"), "extension from media type, got %q", p)
	//
	_, err = r.Resolve(srv.URL + "/missing.png")
	assert.Equal(t, core.EMISSING, core.Code(err))
	//
	// a second document finds the image in the cache
	base2 := t.TempDir()
	r2 := NewResolver(filepath.Join(base2, "media"), base2)
	r2.Downloader = &Downloader{Client: srv.Client(), CacheDir: cache}
	atomic.StoreInt32(&hits, 0)
	_, err = r2.Resolve(url)
	require.NoError(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestDownloadDisabled(t *testing.T) {
	r := NewResolver(t.TempDir(), "")
	r.Download = false
	_, err := r.Resolve("https://example.org/a.png")
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestMediaExt(t *testing.T) {
	assert.Equal(t, ".png", MediaExt("image/png"))
	assert.Equal(t, ".jpg", MediaExt("image/jpeg"))
	assert.Equal(t, ".svg", MediaExt("image/svg+xml; charset=utf-8"))
	assert.Equal(t, "", MediaExt("not a media type"))
	assert.Equal(t, ".png", urlExt("https://x.org/a/B.PNG?size=2"))
	assert.Equal(t, "", urlExt("https://x.org/plot"))
}

func TestCellResolver(t *testing.T) {
	base := t.TempDir()
	media := filepath.Join(base, "media")
	enc := base64.StdEncoding.EncodeToString(pngBytes)
	table, err := DecodeAttachments(media, map[string]map[string]string{
		"a.png": {"image/png": enc},
	})
	require.NoError(t, err)
	r := NewResolver(media, base)
	cell := r.ForAttachments(table)
	p, err := cell.Resolve("attachment:a.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "media/"))
	_, err = r.Resolve("attachment:a.png")
	assert.Equal(t, core.EMISSING, core.Code(err), "attachments are local to a cell")
	p, err = cell.Resolve("img/local.png")
	require.NoError(t, err)
	assert.Equal(t, "img/local.png", p)
}
