package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = stderrors.New("sentinel")

func TestWrapKeepsCode(t *testing.T) {
	inner := IOError("failed to open FITS file", errSentinel)
	err := Wrapf(fmt.Errorf("layer: %w", inner), "open %s", "run.lv0")

	assert.Equal(t, CodeIOError, GetCode(err))
	assert.ErrorIs(t, err, errSentinel)
	assert.Equal(t, "open run.lv0: layer: failed to open FITS file: sentinel", err.Error())
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	err := Wrap(errSentinel, "boom")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.True(t, IsAppError(err))
}

func TestNilErrors(t *testing.T) {
	assert.Nil(t, Wrap(nil, "x"))
	assert.Nil(t, Wrapf(nil, "x %d", 1))
	assert.Nil(t, WithCode(CodeNotFound, nil))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeNoData, errSentinel)
	assert.Equal(t, CodeNoData, GetCode(err))
	assert.Equal(t, "sentinel", err.Error())
	assert.ErrorIs(t, err, errSentinel)
}

func TestInvalidParameterNamesParameter(t *testing.T) {
	err := InvalidParameter("NBINS", fmt.Errorf(`"ten" is not an integer`))
	assert.Equal(t, `invalid parameter NBINS: "ten" is not an integer`, err.Error())
	assert.Equal(t, CodeValidationError, err.Code)
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(errSentinel))
	assert.False(t, IsAppError(errSentinel))
}
