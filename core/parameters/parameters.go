/*
Package parameters holds the rendering parameters of the converter.

Parameters live in registers, similar to how a typesetter keeps its
parameters: a base set of values, initialized with defaults and
optionally overridden from the application configuration, plus a stack of
groups. A renderer may open a group, push values local to a part of the
document (e.g. the language of a single notebook cell), and close the group
again, restoring the previous values.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

import (
	"strconv"

	"github.com/npillmayer/schuko/gconf"
)

// RenderParameter is a key for a rendering parameter.
type RenderParameter int

const (
	none RenderParameter = iota
	P_CODELANG           // default language tag of fenced code
	P_NBLANGUAGE         // programming language of notebook code cells
	P_IMAGEWIDTH         // default width of images, "" for intrinsic size
	P_MATHINLINE         // Typst function wrapping inline math
	P_MATHBLOCK          // Typst function wrapping display math
	P_ANCHORS            // emit heading labels
	P_NORMALIZE          // NFC-normalize text nodes
	P_PRUNE              // CSS selectors of HTML elements to drop before rendering
	P_DOWNLOAD           // download remote images
	P_DATEFORMAT         // Typst date display format of the preface
	P_TEMPLATE           // name of the Typst template file
	P_STOPPER
)

var parameterNames = [...]string{
	"none",
	"P_CODELANG",
	"P_NBLANGUAGE",
	"P_IMAGEWIDTH",
	"P_MATHINLINE",
	"P_MATHBLOCK",
	"P_ANCHORS",
	"P_NORMALIZE",
	"P_PRUNE",
	"P_DOWNLOAD",
	"P_DATEFORMAT",
	"P_TEMPLATE",
	"P_STOPPER",
}

func (p RenderParameter) String() string {
	if p < 0 || int(p) >= len(parameterNames) {
		return "RenderParameter(" + strconv.Itoa(int(p)) + ")"
	}
	return parameterNames[p]
}

// configKeys maps parameters to keys of the application configuration.
var configKeys = map[RenderParameter]string{
	P_CODELANG:   "render.code-lang",
	P_NBLANGUAGE: "notebook.language",
	P_IMAGEWIDTH: "render.image-width",
	P_MATHINLINE: "render.math-inline",
	P_MATHBLOCK:  "render.math-block",
	P_ANCHORS:    "render.anchors",
	P_NORMALIZE:  "render.normalize",
	P_PRUNE:      "html.prune",
	P_DOWNLOAD:   "media.download",
	P_DATEFORMAT: "preface.date-format",
	P_TEMPLATE:   "preface.template",
}

// ConfigKey returns the configuration key for a parameter.
func ConfigKey(p RenderParameter) string {
	return configKeys[p]
}

// Source is a source for configuration values. Any schuko.Configuration
// will do.
type Source interface {
	IsSet(key string) bool
	GetString(key string) string
	GetBool(key string) bool
}

// Global is a Source reading from the global application configuration
// (schuko/gconf).
var Global Source = globalConf{}

type globalConf struct{}

func (globalConf) IsSet(key string) bool       { return gconf.IsSet(key) }
func (globalConf) GetString(key string) string { return gconf.GetString(key) }
func (globalConf) GetBool(key string) bool     { return gconf.GetBool(key) }

// ParameterGroup holds the values pushed within a group.
type ParameterGroup struct {
	params map[RenderParameter]interface{}
	level  int
	next   *ParameterGroup
}

// Registers is a set of rendering parameters.
type Registers struct {
	base       [P_STOPPER]interface{}
	groups     *ParameterGroup
	grouplevel int
}

// ----------------------------------------------------------------------

// NewRegisters creates a set of parameters initialized to defaults.
func NewRegisters() *Registers {
	regs := &Registers{}
	initParameters(&regs.base)
	return regs
}

// FromConfig creates a set of parameters, overriding the defaults with
// values set in src. src may be nil.
func FromConfig(src Source) *Registers {
	regs := NewRegisters()
	if src == nil {
		return regs
	}
	for p, key := range configKeys {
		if !src.IsSet(key) {
			continue
		}
		switch regs.base[p].(type) {
		case bool:
			regs.base[p] = src.GetBool(key)
		default:
			regs.base[p] = src.GetString(key)
		}
	}
	return regs
}

func initParameters(p *[P_STOPPER]interface{}) {
	p[P_CODELANG] = "text"
	p[P_NBLANGUAGE] = "python"
	p[P_IMAGEWIDTH] = ""
	p[P_MATHINLINE] = "mi"
	p[P_MATHBLOCK] = "mimath"
	p[P_ANCHORS] = true
	p[P_NORMALIZE] = true
	p[P_PRUNE] = "script, style, noscript, template"
	p[P_DOWNLOAD] = true
	p[P_DATEFORMAT] = "[year]年[month padding:space]月[day padding:space]日"
	p[P_TEMPLATE] = "template.typ"
}

// Clone returns registers holding the current values of regs as their
// base values. Renderers clone shared registers before opening groups.
func (regs *Registers) Clone() *Registers {
	c := &Registers{}
	for p := range c.base {
		if p > 0 {
			c.base[p] = regs.Get(RenderParameter(p))
		}
	}
	return c
}

// Begingroup opens a group. Values pushed afterwards are local to it.
func (regs *Registers) Begingroup() {
	regs.grouplevel++
}

// Endgroup closes the innermost group, restoring the values from before
// it was opened.
func (regs *Registers) Endgroup() {
	if regs.grouplevel > 0 {
		if regs.groups != nil && regs.groups.level == regs.grouplevel {
			regs.groups = regs.groups.next
		}
		regs.grouplevel--
	}
}

// Push sets a parameter, local to the innermost open group, if any.
func (regs *Registers) Push(key RenderParameter, value interface{}) {
	if regs.grouplevel > 0 {
		var g *ParameterGroup
		if regs.groups == nil || regs.groups.level < regs.grouplevel {
			g = &ParameterGroup{}
			g.params = make(map[RenderParameter]interface{})
			g.level = regs.grouplevel
			g.next = regs.groups
			regs.groups = g
		} else {
			g = regs.groups
		}
		g.params[key] = value
	} else {
		regs.base[key] = value
	}
}

func (regs *Registers) Get(key RenderParameter) interface{} {
	if key <= 0 || key >= P_STOPPER {
		panic("parameter key outside range of render parameters")
	}
	var value interface{}
	if regs.grouplevel > 0 {
		for g := regs.groups; g != nil; g = g.next {
			value = g.params[key]
			if value != nil {
				break
			}
		}
	}
	if value == nil {
		value = regs.base[key]
	}
	return value
}

// S returns a string parameter.
func (regs *Registers) S(key RenderParameter) string {
	return regs.Get(key).(string)
}

// B returns a boolean parameter.
func (regs *Registers) B(key RenderParameter) bool {
	return regs.Get(key).(bool)
}
