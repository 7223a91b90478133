package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(ctx HandlerContext) HandlerOutcome {
	return Value(ctx.Name)
}

func TestRegistry_RegisterAndLookupByNameAndAlias(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{Name: "greet", Aliases: []string{"hi"}, Handler: echoHandler}
	require.NoError(t, reg.RegisterMacro(def))

	got, ok := reg.GetMacro("greet")
	require.True(t, ok)
	assert.Equal(t, "greet", got.Name)

	got, ok = reg.GetMacro("hi")
	require.True(t, ok)
	assert.Equal(t, "greet", got.Name)

	assert.True(t, reg.HasMacro("hi"))
	assert.False(t, reg.HasMacro("nope"))
}

func TestRegistry_RejectsNilDefinition(t *testing.T) {
	reg := NewRegistry(nil)
	assert.Error(t, reg.RegisterMacro(nil))
}

func TestRegistry_RejectsEmptyName(t *testing.T) {
	reg := NewRegistry(nil)
	assert.Error(t, reg.RegisterMacro(&Definition{Handler: echoHandler}))
}

func TestRegistry_RejectsNilHandler(t *testing.T) {
	reg := NewRegistry(nil)
	assert.Error(t, reg.RegisterMacro(&Definition{Name: "x"}))
}

func TestRegistry_RejectsNameCollision(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.RegisterMacro(&Definition{Name: "x", Handler: echoHandler}))
	assert.Error(t, reg.RegisterMacro(&Definition{Name: "x", Handler: echoHandler}))
}

func TestRegistry_RejectsAliasCollidingWithExistingName(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.RegisterMacro(&Definition{Name: "x", Handler: echoHandler}))
	assert.Error(t, reg.RegisterMacro(&Definition{Name: "y", Aliases: []string{"x"}, Handler: echoHandler}))
}

func TestRegistry_FailedRegistrationIsAtomic(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.RegisterMacro(&Definition{Name: "taken", Handler: echoHandler}))

	err := reg.RegisterMacro(&Definition{Name: "fresh", Aliases: []string{"taken"}, Handler: echoHandler})
	require.Error(t, err)
	assert.False(t, reg.HasMacro("fresh"))
}

func TestRegistry_Unregister(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.RegisterMacro(&Definition{Name: "x", Aliases: []string{"y"}, Handler: echoHandler}))
	reg.UnregisterMacro("x")
	assert.False(t, reg.HasMacro("x"))
	assert.False(t, reg.HasMacro("y"))
}

func TestRegistry_UnregisterUnknownIsNoop(t *testing.T) {
	reg := NewRegistry(nil)
	assert.NotPanics(t, func() { reg.UnregisterMacro("nope") })
}

func TestRegistry_ListMacrosSortedByName(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.RegisterMacro(&Definition{Name: "zebra", Handler: echoHandler}))
	require.NoError(t, reg.RegisterMacro(&Definition{Name: "apple", Handler: echoHandler}))

	list := reg.ListMacros()
	require.Len(t, list, 2)
	assert.Equal(t, "apple", list[0].Name)
	assert.Equal(t, "zebra", list[1].Name)
	assert.Equal(t, 2, reg.Count())
}

func TestRegistry_ExecuteMacro_FixedArgsSplit(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{
		Name: "two",
		Args: []ArgSpec{{Name: "a", Required: true}, {Name: "b", Required: true}},
		Handler: func(ctx HandlerContext) HandlerOutcome {
			return Value(ctx.Args[0] + "-" + ctx.Args[1])
		},
	}
	require.NoError(t, reg.RegisterMacro(def))

	outcome := reg.ExecuteMacro(def, "two", []string{"x", "y"}, nil, Range{})
	require.True(t, outcome.IsValue())
	assert.Equal(t, "x-y", outcome.Value())
}

func TestRegistry_ExecuteMacro_VariadicOverflowGoesToList(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{
		Name: "shout",
		List: &ListPolicy{Min: 0, Max: Unbounded},
		Handler: func(ctx HandlerContext) HandlerOutcome {
			assert.Empty(t, ctx.Args)
			return Value(ctx.List[0])
		},
	}
	require.NoError(t, reg.RegisterMacro(def))

	outcome := reg.ExecuteMacro(def, "shout", []string{"hi"}, nil, Range{})
	require.True(t, outcome.IsValue())
	assert.Equal(t, "hi", outcome.Value())
}

func TestRegistry_ExecuteMacro_ListMaxTruncatesOverflow(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{
		Name:       "capped",
		List:       &ListPolicy{Min: 0, Max: 1},
		StrictArgs: false,
		Handler: func(ctx HandlerContext) HandlerOutcome {
			return Value(ctx.Name)
		},
	}
	require.NoError(t, reg.RegisterMacro(def))

	args, list, mismatch := reg.validateAndCoerce(def, []string{"a", "b", "c"})
	assert.Empty(t, args)
	assert.Equal(t, []string{"a"}, list)
	assert.True(t, mismatch)
}

func TestRegistry_ExecuteMacro_StrictArgsMismatchReturnsRuntimeError(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{
		Name:       "strict",
		Args:       []ArgSpec{{Name: "a", Required: true}},
		StrictArgs: true,
		Handler:    echoHandler,
	}
	require.NoError(t, reg.RegisterMacro(def))

	outcome := reg.ExecuteMacro(def, "strict", nil, nil, Range{})
	assert.True(t, outcome.IsRuntimeError())
}

func TestRegistry_ExecuteMacro_NonStrictMismatchStillRuns(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{
		Name: "lenient",
		Args: []ArgSpec{{Name: "a", Required: true}},
		Handler: func(ctx HandlerContext) HandlerOutcome {
			return Value("ran with: " + ctx.Args[0])
		},
	}
	require.NoError(t, reg.RegisterMacro(def))

	outcome := reg.ExecuteMacro(def, "lenient", nil, nil, Range{})
	require.True(t, outcome.IsValue())
	assert.Equal(t, "ran with: ", outcome.Value())
}

func TestRegistry_ExecuteMacro_HandlerPanicBecomesInternalError(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{
		Name: "boom",
		Handler: func(HandlerContext) HandlerOutcome {
			panic("kaboom")
		},
	}
	require.NoError(t, reg.RegisterMacro(def))

	outcome := reg.ExecuteMacro(def, "boom", nil, nil, Range{})
	assert.True(t, outcome.IsInternalError())
}

func TestRegistry_ExecuteMacro_TypeMismatchIsDetected(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{
		Name: "num",
		Args: []ArgSpec{{Name: "n", Types: ArgTypeInteger, Required: true}},
		Handler: func(ctx HandlerContext) HandlerOutcome {
			return Value(ctx.Args[0])
		},
	}
	require.NoError(t, reg.RegisterMacro(def))

	_, _, mismatch := reg.validateAndCoerce(def, []string{"not-a-number"})
	assert.True(t, mismatch)

	_, _, mismatch = reg.validateAndCoerce(def, []string{"42"})
	assert.False(t, mismatch)
}

func TestRegistry_RejectsNegativeListMin(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{Name: "bad", List: &ListPolicy{Min: -1, Max: Unbounded}, Handler: echoHandler}
	assert.Error(t, reg.RegisterMacro(def))
}

func TestRegistry_RejectsNegativeListMaxOtherThanUnbounded(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{Name: "bad", List: &ListPolicy{Min: 0, Max: -2}, Handler: echoHandler}
	assert.Error(t, reg.RegisterMacro(def))
}

func TestRegistry_RejectsMalformedListMaxBelowMin(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{Name: "bad", List: &ListPolicy{Min: 3, Max: 1}, Handler: echoHandler}
	assert.Error(t, reg.RegisterMacro(def))
}

func TestRegistry_RejectsOptionalBeforeRequired(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{
		Name: "bad",
		Args: []ArgSpec{
			{Name: "a", Required: false},
			{Name: "b", Required: true},
		},
		Handler: echoHandler,
	}
	assert.Error(t, reg.RegisterMacro(def))
}

func TestRegistry_AllowsTrailingOptionalArgs(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{
		Name: "ok",
		Args: []ArgSpec{
			{Name: "a", Required: true},
			{Name: "b", Required: false},
		},
		Handler: echoHandler,
	}
	assert.NoError(t, reg.RegisterMacro(def))
}

func TestRegistry_RejectsUnknownArgType(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{
		Name:    "bad",
		Args:    []ArgSpec{{Name: "a", Types: ArgType(1 << 7), Required: true}},
		Handler: echoHandler,
	}
	assert.Error(t, reg.RegisterMacro(def))
}

func TestRegistry_ValidateAndCoerce_AppliesDefaultValue(t *testing.T) {
	reg := NewRegistry(nil)
	def := &Definition{
		Name: "greet",
		Args: []ArgSpec{
			{Name: "name", Required: true},
			{Name: "greeting", Required: false, DefaultValue: "hello"},
		},
		Handler: echoHandler,
	}
	require.NoError(t, reg.RegisterMacro(def))

	args, _, mismatch := reg.validateAndCoerce(def, []string{"Ada"})
	assert.False(t, mismatch)
	require.Len(t, args, 2)
	assert.Equal(t, "Ada", args[0])
	assert.Equal(t, "hello", args[1])
}
