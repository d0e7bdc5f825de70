// Package dimen implements dimensions and units.
//
// Dimensions are needed to translate size attributes of HTML elements
// (`<img width="300">`, `width="8cm"`) into Typst lengths.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/nbtypst/core/percent"
)

// Dimen is a dimension type.
// Values are in scaled big points (different from TeX).
type Dimen int32

// Some pre-defined dimensions
const (
	SP   Dimen = 1       // scaled point = BP / 65536
	BP   Dimen = 65536   // big point (PDF) = 1/72 inch
	PX   Dimen = 65536   // "pixels"
	PT   Dimen = 65291   // printers point 1/72.27 inch
	MM   Dimen = 185771  // millimeters
	CM   Dimen = 1857710 // centimeters
	IN   Dimen = 4718592 // inch
)

// Stringer implementation.
func (d Dimen) String() string {
	return fmt.Sprintf("%dsp", int32(d))
}

// Points returns a dimension in big (PDF) points.
func (d Dimen) Points() float64 {
	return float64(d) / float64(BP)
}

// Typst returns a dimension as a Typst length. Typst's `pt` is a big point,
// thus no conversion from printer's points is involved.
func (d Dimen) Typst() string {
	return strconv.FormatFloat(math.Round(d.Points()*100)/100, 'f', -1, 64) + "pt"
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(`^([+\-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+))(%|[a-zA-Z]{2})?$`)

// ParseDimen parses a string to return a dimension. Syntax is CSS Unit,
// decimal fractions are allowed (`8.5cm`).
// If a percentage value is given (`80%`), the second return value will be true
// and the dimension holds the percentage, rounded.
// A number without unit is interpreted as scaled points.
func ParseDimen(s string) (Dimen, bool, error) {
	d := dimenPattern.FindStringSubmatch(strings.TrimSpace(s))
	if len(d) < 2 {
		return 0, false, errors.New("format error parsing dimension")
	}
	scale := SP
	ispcnt := false
	if len(d) > 2 {
		switch strings.ToLower(d[2]) {
		case "pt":
			scale = PT
		case "mm":
			scale = MM
		case "bp", "px":
			scale = BP
		case "cm":
			scale = CM
		case "in":
			scale = IN
		case "sp", "":
			scale = SP
		case "%":
			scale, ispcnt = 1, true
		default:
			return 0, false, fmt.Errorf("unknown unit %q", d[2])
		}
	}
	f, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, false, errors.New("format error parsing dimension")
	}
	f = math.Round(f * float64(scale))
	if math.Abs(f) > math.MaxInt32 {
		return 0, false, errors.New("dimension out of range")
	}
	return Dimen(f), ispcnt, nil
}

// TypstLength converts the value of an HTML size attribute into a Typst
// length. HTML interprets unit-less numbers as pixels, which we map to
// big points. Percentages are clipped to 0…100%.
func TypstLength(attr string) (string, error) {
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return "", errors.New("empty dimension")
	}
	if strings.HasSuffix(attr, "%") {
		p, err := percent.FromString(attr)
		if err != nil {
			return "", err
		}
		return p.String(), nil
	}
	if _, err := strconv.Atoi(attr); err == nil {
		attr += "px"
	}
	d, _, err := ParseDimen(attr)
	if err != nil {
		return "", err
	}
	if d <= 0 {
		return "", errors.New("dimension must be positive")
	}
	return d.Typst(), nil
}
