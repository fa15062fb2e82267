package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varick/cfront/diag"
	"github.com/varick/cfront/source"
)

type discardHandler struct{}

func (discardHandler) Handle(*diag.RenderedDiagnostic, *source.Map) {}

func newTestContext(t *testing.T, contents string) (*Context, source.Pos) {
	t.Helper()
	smap := source.NewMap()
	id, err := smap.CreateFile(source.RealFileName("test.c"), source.NewFileContents(contents), nil)
	require.NoError(t, err)
	ctx := NewContext(NewInterner(), diag.NewManager(discardHandler{}, 0), smap)
	return ctx, smap.Source(id).Range.Start()
}

func convertAll(t *testing.T, ctx *Context, basePos source.Pos, input string) []ConvertedToken {
	t.Helper()
	tokenizer := NewTokenizer(input)
	var toks []ConvertedToken
	for {
		raw := tokenizer.NextToken()
		tok, err := ctx.ConvertRaw(&raw, basePos)
		require.NoError(t, err)
		if raw.Kind == RawEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestConvertRawInterning(t *testing.T) {
	input := "foo + foo"
	ctx, basePos := newTestContext(t, input)
	toks := convertAll(t, ctx, basePos, input)

	require.Len(t, toks, 5)
	first, second := toks[0], toks[4]
	assert.Equal(t, Ident, first.Kind.Kind)
	assert.Equal(t, first.Kind.Symbol, second.Kind.Symbol)
	assert.Equal(t, "foo", ctx.Interner.Resolve(first.Kind.Symbol))
}

func TestConvertRawCleansEscapedNewlines(t *testing.T) {
	input := "fo\\\no"
	ctx, basePos := newTestContext(t, input)
	toks := convertAll(t, ctx, basePos, input)

	require.Len(t, toks, 1)
	assert.Equal(t, "foo", ctx.Interner.Resolve(toks[0].Kind.Symbol))
	// The range still covers the escaped newline in the source.
	assert.Equal(t, uint32(5), toks[0].Range.Len())
}

func TestConvertRawNewlineRange(t *testing.T) {
	input := "x\ny"
	ctx, basePos := newTestContext(t, input)
	toks := convertAll(t, ctx, basePos, input)

	require.Len(t, toks, 3)
	newline := toks[1]
	assert.Equal(t, ConvertedNewline, newline.Class)
	assert.Equal(t, uint32(0), newline.Range.Len())
	assert.Equal(t, basePos.Offset(1), newline.Range.Start())
}

func TestConvertRawUnterminated(t *testing.T) {
	input := `"oops`
	ctx, basePos := newTestContext(t, input)

	tokenizer := NewTokenizer(input)
	raw := tokenizer.NextToken()
	_, err := ctx.ConvertRaw(&raw, basePos)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), ctx.Diags.ErrorCount())
}

func TestTokenDisplay(t *testing.T) {
	input := "name 42 <<= \"lit\""
	ctx, basePos := newTestContext(t, input)
	toks := convertAll(t, ctx, basePos, input)

	var displayed []string
	for _, tok := range toks {
		if tok.Class == ConvertedReal {
			displayed = append(displayed, tok.Token().Display(ctx))
		}
	}
	assert.Equal(t, []string{"name", "42", "<<=", "\"lit\""}, displayed)
}
