package option_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/nbtypst/core/option"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestOptionSomeNone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.core")
	defer teardown()
	//
	var y1, y2 interface{}
	x := option.SomeString("qwer")
	t.Logf("x = %v, x.T = %T, x.unwrap = %v", x, x, x.Unwrap())
	y1, _ = x.Match(option.Of{
		option.None: "none",
		option.Some: "[" + x.Unwrap() + "]",
	})
	//
	x = option.String()
	y2, _ = x.Match(option.Of{
		option.None: "No Value",
		option.Some: stringify,
	})
	//
	t.Logf("y1 = %v, y2 = %v", y1, y2)
	if y1.(string) != "[qwer]" {
		t.Errorf("expected SomeString(qwer) to match to [qwer], is %v", y1)
	}
	if y2.(string) != "No Value" {
		t.Errorf("expected unset string to match to No Value, is %v", y2)
	}
}

func TestOptionOf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.core")
	defer teardown()
	//
	x := option.SomeString("")
	y, err := x.Match(option.Of{
		option.None: "absent",
		"":          "empty",
		option.Some: "present",
	})
	if err != nil {
		t.Fatal(err)
	}
	if y.(string) != "empty" {
		t.Errorf("expected SomeString() to match the empty value, is %v", y)
	}
	if !x.IsEmpty() || x.IsNone() {
		t.Errorf("expected SomeString() to be empty but set")
	}
	if option.String().Equals("") {
		t.Errorf("unset string must not equal empty string")
	}
}

func TestOptionErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nbtypst.core")
	defer teardown()
	//
	x := option.SomeString("asdf")
	if _, err := x.Match(option.Of{option.Some: nonsense}); err == nil || err.Error() != "ERROR" {
		t.Errorf("expected error of match function to be returned, got %v", err)
	}
	if _, err := x.Match(option.Of{option.None: "x"}); err != option.ErrCannotMatchValue {
		t.Errorf("expected ErrCannotMatchValue, got %v", err)
	}
	if _, err := option.String().Match(option.Of{option.Some: "x"}); err != option.ErrCannotMatchUnsetValue {
		t.Errorf("expected ErrCannotMatchUnsetValue, got %v", err)
	}
	if _, err := x.Match("asdf"); err != option.ErrNoSuchMatchPattern {
		t.Errorf("expected ErrNoSuchMatchPattern, got %v", err)
	}
}

// ---------------------------------------------------------------------------

func nonsense(x interface{}) (interface{}, error) {
	return nil, errors.New("ERROR")
}

func stringify(x interface{}) (interface{}, error) {
	return fmt.Sprintf("Value = %v", x), nil
}
