package pp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varick/cfront/lex"
	"github.com/varick/cfront/source"
)

func newTestProcessor(t *testing.T, src string) (*Processor, *lex.Context) {
	ctx := newPpContext(&recordingHandler{})
	contents := source.NewFileContents(src)
	fileID, err := ctx.Map.CreateFile(source.RealFileName("test.c"), contents, nil)
	require.NoError(t, err)
	return NewProcessor(contents.Src(), ctx.Map.Source(fileID).Range.Start()), ctx
}

func TestProcessorTokens(t *testing.T) {
	p, ctx := newTestProcessor(t, "#define A 1\nx y\n")

	tok, err := p.NextToken(ctx)
	require.NoError(t, err)
	assert.True(t, tok.LineStart)
	assert.True(t, tok.IsDirectiveStart())

	tok, err = p.NextToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "define", tok.Tok.Display(ctx))
	assert.False(t, tok.LineStart)
	assert.False(t, tok.LeadingTrivia)

	peeked, err := p.PeekToken(ctx)
	require.NoError(t, err)
	tok, err = p.NextToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, peeked, tok)
	assert.Equal(t, "A", tok.Tok.Display(ctx))
	assert.True(t, tok.LeadingTrivia)

	require.NoError(t, p.AdvanceToEOD(ctx))

	tok, err = p.NextToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x", tok.Tok.Display(ctx))
	assert.True(t, tok.LineStart)
	assert.False(t, tok.IsDirectiveStart())

	tok, err = p.NextToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "y", tok.Tok.Display(ctx))
	assert.False(t, tok.LineStart)
	assert.True(t, tok.LeadingTrivia)

	tok, err = p.NextToken(ctx)
	require.NoError(t, err)
	assert.True(t, tok.Newline)
	assert.True(t, tok.IsEOD())

	ppt, err := p.NextDirectiveToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, lex.EOF, ppt.Kind().Kind)
}

func TestProcessorNextRealTokenSkipsNewlines(t *testing.T) {
	p, ctx := newTestProcessor(t, "a\n\nb")

	ppt, err := p.NextRealToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", ppt.Tok.Display(ctx))

	ppt, err = p.NextRealToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", ppt.Tok.Display(ctx))
	assert.True(t, ppt.LineStart)
}

func TestDirectiveTokenMapsNewlineToEOF(t *testing.T) {
	p, ctx := newTestProcessor(t, "a\nb")

	ppt, err := p.NextDirectiveToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", ppt.Tok.Display(ctx))

	ppt, err = p.NextDirectiveToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, lex.EOF, ppt.Kind().Kind)

	ppt, err = p.NextDirectiveToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", ppt.Tok.Display(ctx))
}
