package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgType_ConformsAny(t *testing.T) {
	assert.True(t, ArgTypeAny.conforms("anything at all"))
}

func TestArgType_ConformsInteger(t *testing.T) {
	assert.True(t, ArgTypeInteger.conforms("42"))
	assert.False(t, ArgTypeInteger.conforms("4.2"))
	assert.False(t, ArgTypeInteger.conforms("nope"))
}

func TestArgType_ConformsNumber(t *testing.T) {
	assert.True(t, ArgTypeNumber.conforms("4.2"))
	assert.True(t, ArgTypeNumber.conforms("42"))
	assert.False(t, ArgTypeNumber.conforms("nope"))
}

func TestArgType_ConformsBoolean(t *testing.T) {
	assert.True(t, ArgTypeBoolean.conforms("true"))
	assert.False(t, ArgTypeBoolean.conforms("nope"))
}

func TestArgType_CompositeUnion(t *testing.T) {
	union := ArgTypeInteger | ArgTypeBoolean
	assert.True(t, union.conforms("42"))
	assert.True(t, union.conforms("true"))
	assert.False(t, union.conforms("hello"))
}

func TestDefinitionSource_String(t *testing.T) {
	assert.Equal(t, "builtin", SourceBuiltin.String())
	assert.Equal(t, "extension", SourceExtension.String())
	assert.Equal(t, "third_party", SourceThirdParty.String())
	assert.Equal(t, "unknown", DefinitionSource(99).String())
}

func TestHandlerOutcome_Value(t *testing.T) {
	o := Value("x")
	assert.True(t, o.IsValue())
	assert.Equal(t, "x", o.Value())
}

func TestHandlerOutcome_ValueAnyNormalizes(t *testing.T) {
	o := ValueAny(7)
	assert.True(t, o.IsValue())
	assert.Equal(t, "7", o.Value())
}

func TestHandlerOutcome_RuntimeErrorf(t *testing.T) {
	o := RuntimeErrorf("bad %s", "input")
	assert.True(t, o.IsRuntimeError())
	assert.Equal(t, "bad input", o.Message())
}

func TestHandlerOutcome_InternalErrorfCarriesCause(t *testing.T) {
	cause := errors.New("root cause")
	o := InternalErrorf(cause, "wrapped: %v", cause)
	assert.True(t, o.IsInternalError())
	assert.Equal(t, cause, o.Cause())
}

func TestToken_StringIncludesValueWhenPresent(t *testing.T) {
	tok := newToken(TokenIdent, "name", Position{Line: 1, Column: 1})
	assert.Contains(t, tok.String(), "name")
}

func TestToken_StringOmitsEmptyValue(t *testing.T) {
	tok := newToken(TokenEOF, "", Position{Line: 1, Column: 1})
	assert.NotContains(t, tok.String(), `""`)
}
