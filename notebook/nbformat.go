package notebook

import (
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/npillmayer/nbtypst/core"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Notebook is a Jupyter notebook (nbformat 4).
type Notebook struct {
	Cells         []Cell   `json:"cells"`
	Metadata      Metadata `json:"metadata"`
	NBFormat      int      `json:"nbformat"`
	NBFormatMinor int      `json:"nbformat_minor"`
}

// Metadata is the notebook-level metadata we care about.
type Metadata struct {
	Kernelspec   *Kernelspec   `json:"kernelspec,omitempty"`
	LanguageInfo *LanguageInfo `json:"language_info,omitempty"`
	Title        string        `json:"title,omitempty"`
	Authors      []Author      `json:"authors,omitempty"`
	Date         string        `json:"date,omitempty"`
}

type Kernelspec struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Language    string `json:"language,omitempty"`
}

type LanguageInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Author is an author of a document.
type Author struct {
	Name        string `json:"name" yaml:"name"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// Cell types
const (
	MarkdownCell = "markdown"
	CodeCell     = "code"
	RawCell      = "raw"
)

// Cell is a notebook cell.
type Cell struct {
	CellType       string                       `json:"cell_type"`
	Source         Source                       `json:"source"`
	Attachments    map[string]map[string]Source `json:"attachments,omitempty"`
	Outputs        []Output                     `json:"outputs,omitempty"`
	ExecutionCount *int                         `json:"execution_count,omitempty"`
	Metadata       CellMetadata                 `json:"metadata"`
}

// CellMetadata is the cell-level metadata we care about. VS Code stores
// the language of a cell which differs from the kernel's language.
type CellMetadata struct {
	VSCode *struct {
		LanguageID string `json:"languageId"`
	} `json:"vscode,omitempty"`
}

// Output types of code cells
const (
	StreamOutput  = "stream"
	ResultOutput  = "execute_result"
	DisplayOutput = "display_data"
	ErrorOutput   = "error"
)

// Output is an output of a code cell.
type Output struct {
	OutputType string                        `json:"output_type"`
	Name       string                        `json:"name,omitempty"` // stdout or stderr
	Text       Source                        `json:"text,omitempty"`
	Data       map[string]jsoniter.RawMessage `json:"data,omitempty"`
	Ename      string                        `json:"ename,omitempty"`
	Evalue     string                        `json:"evalue,omitempty"`
	Traceback  []string                      `json:"traceback,omitempty"`
}

// Source is multi-line text. In notebook files it is stored either as a
// string or as a list of lines.
type Source string

// UnmarshalJSON accepts a string or a list of strings.
func (s *Source) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = Source(str)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(b, &lines); err != nil {
		return errors.Wrap(err, "text is neither a string nor a list of strings")
	}
	*s = Source(strings.Join(lines, ""))
	return nil
}

func (s Source) String() string {
	return string(s)
}

// Read decodes a notebook.
func Read(r io.Reader) (*Notebook, error) {
	nb := &Notebook{}
	if err := json.NewDecoder(r).Decode(nb); err != nil {
		return nil, core.WrapError(errors.Wrap(err, "decoding notebook"), core.EINVALID,
			"input is not a Jupyter notebook")
	}
	if nb.NBFormat < 4 {
		return nil, core.Error(core.EUNSUPPORTED, "notebook format %d not supported, need version 4",
			nb.NBFormat)
	}
	tracer().Debugf("read notebook with %d cells", len(nb.Cells))
	return nb, nil
}

// ReadFile reads a notebook file.
func ReadFile(path string) (*Notebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(errors.Wrapf(err, "opening notebook %q", path), core.EMISSING,
			"cannot open notebook %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Language returns the programming language of the notebook's code cells.
func (nb *Notebook) Language(fallback string) string {
	if li := nb.Metadata.LanguageInfo; li != nil && li.Name != "" {
		return li.Name
	}
	if ks := nb.Metadata.Kernelspec; ks != nil && ks.Language != "" {
		return ks.Language
	}
	return fallback
}

// attachments returns the attachments of a cell as bundles of strings.
func (c *Cell) attachments() map[string]map[string]string {
	if len(c.Attachments) == 0 {
		return nil
	}
	att := make(map[string]map[string]string, len(c.Attachments))
	for name, bundle := range c.Attachments {
		b := make(map[string]string, len(bundle))
		for mt, data := range bundle {
			b[mt] = string(data)
		}
		att[name] = b
	}
	return att
}

// text returns the content of an output for a media type.
func (o *Output) text(mediatype string) (string, bool) {
	raw, ok := o.Data[mediatype]
	if !ok {
		return "", false
	}
	var s Source
	if err := json.Unmarshal(raw, &s); err != nil {
		tracer().Infof("output data of type %s is not text", mediatype)
		return "", false
	}
	return string(s), true
}

// cellMagics maps IPython cell magics to the language of the cell body.
var cellMagics = map[string]string{
	"bash":       "bash",
	"sh":         "sh",
	"html":       "html",
	"javascript": "javascript",
	"js":         "javascript",
	"latex":      "latex",
	"markdown":   "markdown",
	"perl":       "perl",
	"ruby":       "ruby",
	"sql":        "sql",
	"svg":        "svg",
	"python":     "python",
	"python3":    "python",
}

// Language returns the programming language a code cell declares for
// itself, either by a cell magic like `%%bash` on its first line or by
// VS Code cell metadata. It returns "" if the cell uses the notebook's
// language.
func (c *Cell) Language() string {
	first, _, _ := strings.Cut(strings.TrimLeft(c.Source.String(), " \t\n"), "\n")
	if strings.HasPrefix(first, "%%") {
		if fields := strings.Fields(first[2:]); len(fields) > 0 {
			if lang, ok := cellMagics[fields[0]]; ok {
				return lang
			}
		}
	}
	if c.Metadata.VSCode != nil {
		return c.Metadata.VSCode.LanguageID
	}
	return ""
}
