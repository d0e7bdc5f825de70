package resources

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/npillmayer/nbtypst/core"
	"github.com/npillmayer/schuko/gconf"
)

// DefaultAppKey is used for the cache folder if configuration key `app-key`
// is not set.
const DefaultAppKey = "nbtypst"

// Downloader downloads remote media. Downloaded files are kept in a cache
// folder and copied from there on subsequent requests.
type Downloader struct {
	Client   *http.Client
	CacheDir string // empty for no caching
}

// NewDownloader creates a downloader caching in the user's cache directory.
func NewDownloader() *Downloader {
	dl := &Downloader{Client: &http.Client{Timeout: 30 * time.Second}}
	if dir, err := CacheDirPath("media"); err == nil {
		dl.CacheDir = dir
	} else {
		tracer().Errorf("no cache for downloads: %v", err)
	}
	return dl
}

// Fetch makes a local copy of url in directory dir and returns its path.
// The file name is derived from the URL, keeping the extension; if the URL
// has no extension, it is derived from the media type of the response.
func (dl *Downloader) Fetch(ctx context.Context, url, dir string) (string, error) {
	base := HashName(url)
	if p, ok := lookup(dir, base); ok {
		return p, nil
	}
	src, ok := "", false
	if dl.CacheDir != "" {
		src, ok = lookup(dl.CacheDir, base)
	}
	if !ok {
		folder := dl.CacheDir
		if folder == "" {
			folder = dir
		}
		ext := urlExt(url)
		src = filepath.Join(folder, base+ext)
		ctype, err := DownloadCachedFile(ctx, dl.client(), src, url)
		if err != nil {
			return "", err
		}
		if ext == "" {
			if ext = MediaExt(ctype); ext != "" {
				if err = os.Rename(src, src+ext); err != nil {
					return "", err
				}
				src += ext
			}
		}
	}
	target := filepath.Join(dir, filepath.Base(src))
	if target == src {
		return target, nil
	}
	return target, copyFile(target, src)
}

func (dl *Downloader) client() *http.Client {
	if dl.Client == nil {
		return http.DefaultClient
	}
	return dl.Client
}

// DownloadCachedFile will download a url to a local file (usually located in the
// user's cache directory). It returns the media type of the response.
func DownloadCachedFile(ctx context.Context, client *http.Client, filepath string, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", core.WrapError(err, core.EINVALID, "invalid URL %s", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", core.WrapError(err, core.ECONNECTION, "cannot download %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", core.Error(core.EMISSING, "cannot download %s: %s", url, resp.Status)
	}
	tmp := filepath + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return "", core.WrapError(err, core.ECONNECTION, "download of %s interrupted", url)
	}
	if err = out.Close(); err != nil {
		return "", err
	}
	tracer().Debugf("downloaded %s", url)
	return resp.Header.Get("Content-Type"), os.Rename(tmp, filepath)
}

// CacheDirPath checks and possibly creates a folder in the user's cache
// directory. The base cache directory is taken from `os.UserCacheDir()`, plus
// an application specific key, taken as `app-key` from the global configuration.
// Clients may specify a sequence of folder names, which will be appended to
// the base cache path. Non-existing sub-folders will be created as necessary
// (with permissions 755).
func CacheDirPath(subfolders ...string) (string, error) {
	appkey := gconf.GetString("app-key")
	if appkey == "" {
		tracer().Debugf("application key is not set, using %q", DefaultAppKey)
		appkey = DefaultAppKey
	}
	cachedir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	subs := filepath.Join(subfolders...)
	cachedir = filepath.Join(cachedir, appkey, subs)
	tracer().Infof("caching in %s", cachedir)
	_, err = os.Stat(cachedir)
	if os.IsNotExist(err) {
		err = os.MkdirAll(cachedir, 0755)
		if err != nil {
			return "", err
		}
	}
	return cachedir, nil
}

// HashName returns a file name (without extension) derived from the
// content of a resource or its URL.
func HashName(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:10])
}

var mediaExts = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
	"image/bmp":     ".bmp",
}

// MediaExt returns a file extension for a media type, or "".
func MediaExt(mediatype string) string {
	mt, _, err := mime.ParseMediaType(mediatype)
	if err != nil {
		return ""
	}
	if ext, ok := mediaExts[mt]; ok {
		return ext
	}
	if exts, _ := mime.ExtensionsByType(mt); len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// urlExt returns the extension of the path of a URL, if it looks like one.
func urlExt(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if len(ext) < 2 || len(ext) > 5 {
		return ""
	}
	return ext
}

// lookup finds a file named base plus any extension in dir.
func lookup(dir, base string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(dir, base+"*"))
	if err != nil {
		return "", false
	}
	for _, m := range matches {
		if !strings.HasSuffix(m, ".part") {
			return m, true
		}
	}
	return "", false
}

func copyFile(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
