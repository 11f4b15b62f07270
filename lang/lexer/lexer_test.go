package lexer

import (
	"testing"

	"github.com/loda-lang/loda-go/lang/token"
	"github.com/stretchr/testify/assert"
)

func TestTokenizeInstruction(t *testing.T) {
	l := New("a000045.asm", "mov $3,1\n")
	toks := l.Tokenize()

	types := make([]token.Type, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []token.Type{
		token.IDENT, token.DOLLAR, token.NUMBER, token.COMMA, token.NUMBER, token.NEWLINE, token.EOF,
	}, types)
	assert.Equal(t, "mov", toks[0].Literal)
	assert.Equal(t, "3", toks[2].Literal)
}

func TestTokenizeIndirectAndComment(t *testing.T) {
	l := New("", "add $$1,$2 ; indirect add\n")
	toks := l.Tokenize()
	assert.Equal(t, token.DOLLARDOLLAR, toks[1].Type)
	var sawComment bool
	for _, tok := range toks {
		if tok.Type == token.COMMENT {
			sawComment = true
			assert.Contains(t, tok.Literal, "indirect add")
		}
	}
	assert.True(t, sawComment)
}

func TestTokenizeNegativeConstant(t *testing.T) {
	l := New("", "mul $3,-1\n")
	toks := l.Tokenize()
	var nums []string
	for _, tok := range toks {
		if tok.Type == token.NUMBER {
			nums = append(nums, tok.Literal)
		}
	}
	assert.Equal(t, []string{"-1"}, nums)
}
