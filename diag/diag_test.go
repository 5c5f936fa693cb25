package diag_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/esd-univr/hif-core-sub007/diag"
)

func TestErrorStringIncludesDetail(t *testing.T) {
	err := diag.Wrap(diag.CodeParse, "could not parse XML HIF", errors.New("unexpected EOF"))
	assert.Equal(t, "could not parse XML HIF: unexpected EOF", err.Error())
}

func TestErrorJSONIncludesCode(t *testing.T) {
	err := diag.Error{Code: diag.CodeUnresolved, Message: "symbol not found"}
	assert.Contains(t, err.JSON(), `"code":"ERR_UNRESOLVED"`)
	assert.NotContains(t, err.JSON(), "detail")
}

func TestWrapWithNilInnerOmitsDetail(t *testing.T) {
	err := diag.Wrap(diag.CodeIO, "write failed", nil)
	assert.Equal(t, "write failed", err.Error())
}

func TestCollectorDeduplicatesByMessage(t *testing.T) {
	c := diag.NewCollector()
	c.Warn(diag.CodeUnsupportedType, "four-valued bit replaced")
	c.Warn(diag.CodeUnsupportedType, "four-valued bit replaced")
	c.Warn(diag.CodeUnsupportedType, "a different warning")

	assert.Equal(t, 2, c.Len())
}
