package option

import (
	"errors"
	"strconv"
)

var ErrNoSuchMatchPattern = errors.New("no such match pattern")
var ErrCannotMatchUnsetValue = errors.New("cannot match unset value")
var ErrCannotMatchValue = errors.New("cannot match value")

type MaybeOption int

const (
	None MaybeOption = iota
	Some
)

// Of is a type used for matching of optional types.
// It will first try to match concrete values, and in case of no match will
// then try the `Some` case.
type Of map[interface{}]interface{}

// Type is a type for optional values.
type Type interface {
	Match(choices interface{}) (interface{}, error)
	Equals(other interface{}) bool
	IsNone() bool
}

// Match will do a standard matching of o against choices.
//
// choices are expected to be of type Of, where keys of the map are either
// concrete values for o, or of type MaybeOption. Values of the map may be
// of any type. A value of type func(interface{}) (interface{}, error) is
// called with o and its results are returned.
//
// If choices is of unknown kind, nil and ErrNoSuchMatchPattern are returned.
func Match(o Type, choices interface{}) (value interface{}, err error) {
	if c, ok := choices.(Of); ok {
		return c.Match(o)
	}
	return nil, ErrNoSuchMatchPattern
}

func (of Of) Match(o Type) (value interface{}, err error) {
	if o.IsNone() {
		if expr, ok := of[None]; ok {
			return valueOrExpr(expr, o)
		}
		return nil, ErrCannotMatchUnsetValue
	}
	for k, expr := range of {
		if _, isOpt := k.(MaybeOption); isOpt {
			continue
		}
		if o.Equals(k) {
			return valueOrExpr(expr, o)
		}
	}
	if expr, ok := of[Some]; ok {
		return valueOrExpr(expr, o)
	}
	tracer().Debugf("option match: no case for %v", o)
	return nil, ErrCannotMatchValue
}

func valueOrExpr(op interface{}, value Type) (interface{}, error) {
	if f, ok := op.(func(interface{}) (interface{}, error)); ok {
		return f(value)
	}
	return op, nil
}

// Safe wraps a Match's return values and drops the error value.
func Safe(x interface{}, err error) interface{} {
	return x
}

// --- StringT ---------------------------------------------------------------

// StringT is an option type for strings. Unlike a plain string it
// distinguishes an empty value from an absent one, which matters for
// HTML attributes like `alt=""`.
type StringT struct {
	s   string
	set bool
}

// SomeString creates an optional string with an initial value of s.
func SomeString(s string) StringT {
	return StringT{s: s, set: true}
}

// String creates an optional string without a value.
func String() StringT {
	return StringT{}
}

func (o StringT) Match(choices interface{}) (value interface{}, err error) {
	return Match(o, choices)
}

// Equals is true if o is set and other is a string equal to its value.
func (o StringT) Equals(other interface{}) bool {
	s, ok := other.(string)
	return ok && o.set && o.s == s
}

// Unwrap returns the value of o, or "" if o is unset.
func (o StringT) Unwrap() string {
	return o.s
}

// IsNone returns true if o is unset.
func (o StringT) IsNone() bool {
	return !o.set
}

// IsEmpty returns true if o is unset or set to the empty string.
func (o StringT) IsEmpty() bool {
	return !o.set || o.s == ""
}

func (o StringT) String() string {
	if !o.set {
		return "String.None"
	}
	return strconv.Quote(o.s)
}

var _ Type = StringT{}
