package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	err := Error(EUNSUPPORTED, "element <%s> not supported", "iframe")
	assert.Equal(t, EUNSUPPORTED, Code(err))
	assert.Equal(t, "element <iframe> not supported", UserMessage(err))
	assert.Equal(t, "[126] unsupported: element <iframe> not supported", err.Error())
	//
	wrapped := fmt.Errorf("rendering: %w", err)
	assert.Equal(t, EUNSUPPORTED, Code(wrapped), "code must survive wrapping")
}

func TestWrapNil(t *testing.T) {
	err := ErrorWithCode(nil, EMISSING)
	assert.Equal(t, EMISSING, Code(err))
	assert.Equal(t, "not found", UserMessage(err))
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, "", UserMessage(nil))
}

func TestWrapError(t *testing.T) {
	base := errors.New("connection refused")
	err := WrapError(base, ECONNECTION, "cannot download %q", "https://x.org/a.png")
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, ECONNECTION, Code(err))
	assert.Equal(t, EINTERNAL, Code(base), "plain errors are internal")
}
