package typify

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lexed struct {
	Kind TokenKind
	Raw  string
}

func lex(t *testing.T, src string) []lexed {
	t.Helper()
	tokens, err := Tokenize(src)
	require.NoError(t, err)
	out := make([]lexed, len(tokens))
	for i, tok := range tokens {
		out[i] = lexed{tok.Kind, tok.Raw}
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []lexed
	}{
		{"undefined", "undefined", []lexed{{TokenUndefined, "undefined"}}},
		{"null", "null", []lexed{{TokenNull, "null"}}},
		{"booleans", "false, true", []lexed{{TokenBoolean, "false"}, {TokenPunctuator, ","}, {TokenBoolean, "true"}}},
		{"string", `"this is text"`, []lexed{{TokenString, `"this is text"`}}},
		{"escaped quote", `"a\"b"`, []lexed{{TokenString, `"a\"b"`}}},
		{"integer", "12", []lexed{{TokenNumber, "12"}}},
		{"fraction", "12.234", []lexed{{TokenNumber, "12.234"}}},
		{"negative", "-10", []lexed{{TokenNumber, "-10"}}},
		{"exponent", "1.222e12", []lexed{{TokenNumber, "1.222e12"}}},
		{"negative exponent", "1.222e-12", []lexed{{TokenNumber, "1.222e-12"}}},
		{"nan", "NaN", []lexed{{TokenNumber, "NaN"}}},
		{"infinity", "Infinity", []lexed{{TokenNumber, "Infinity"}}},
		{"negative infinity", "-Infinity", []lexed{{TokenNumber, "-Infinity"}}},
		{"bigint", "121212n", []lexed{{TokenBigInt, "121212n"}}},
		{"symbol call", "Symbol()", []lexed{{TokenIdentifier, "Symbol"}, {TokenPunctuator, "("}, {TokenPunctuator, ")"}}},
		{"object", `{"a": null}`, []lexed{
			{TokenPunctuator, "{"}, {TokenString, `"a"`}, {TokenPunctuator, ":"}, {TokenNull, "null"}, {TokenPunctuator, "}"},
		}},
		{"object with bigint", `{"a": 1212n}`, []lexed{
			{TokenPunctuator, "{"}, {TokenString, `"a"`}, {TokenPunctuator, ":"}, {TokenBigInt, "1212n"}, {TokenPunctuator, "}"},
		}},
		{"computed key", `{Symbol(): 123}`, []lexed{
			{TokenPunctuator, "{"}, {TokenIdentifier, "Symbol"}, {TokenPunctuator, "("}, {TokenPunctuator, ")"},
			{TokenPunctuator, ":"}, {TokenNumber, "123"}, {TokenPunctuator, "}"},
		}},
		{"array", `[Symbol()]`, []lexed{
			{TokenPunctuator, "["}, {TokenIdentifier, "Symbol"}, {TokenPunctuator, "("}, {TokenPunctuator, ")"}, {TokenPunctuator, "]"},
		}},
		{"whitespace", " \t\r\n[ ]\n", []lexed{{TokenPunctuator, "["}, {TokenPunctuator, "]"}}},
		{"empty", "", []lexed{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lex(t, tt.src)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeValues(t *testing.T) {
	tokens, err := Tokenize(`"1212\"12" 1.5e3 -7n NaN -Infinity true undefined Foo_bar-1`)
	require.NoError(t, err)
	require.Len(t, tokens, 8)

	assert.Equal(t, `1212"12`, tokens[0].Value)
	assert.Equal(t, 1500.0, tokens[1].Value)
	assert.Equal(t, 0, big.NewInt(-7).Cmp(tokens[2].Value.(*big.Int)))
	assert.True(t, math.IsNaN(tokens[3].Value.(float64)))
	assert.True(t, math.IsInf(tokens[4].Value.(float64), -1))
	assert.Equal(t, true, tokens[5].Value)
	assert.Nil(t, tokens[6].Value)
	assert.Equal(t, "Foo_bar-1", tokens[7].Value)
}

func TestTokenizeEscapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"simple", `"\"\\\/\b\f\n\r\t"`, "\"\\/\b\f\n\r\t"},
		{"unicode", `"\u00e9"`, "\u00e9"},
		{"surrogate pair", `"\ud83d\ude00"`, "\U0001F600"},
		{"lone surrogate", `"\ud800x"`, "\uFFFDx"},
		{"raw utf8", `"héllo 世界"`, "héllo 世界"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.src)
			require.NoError(t, err)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.want, tokens[0].Value)
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code ErrorCode
		pos  Position
	}{
		{"unterminated string", `"abc`, ErrCodeUnterminatedString, Position{Offset: 0, Line: 1, Column: 1}},
		{"unterminated escape", `"abc\`, ErrCodeUnterminatedString, Position{Offset: 0, Line: 1, Column: 1}},
		{"invalid escape", `"a\x"`, ErrCodeInvalidEscape, Position{Offset: 2, Line: 1, Column: 3}},
		{"invalid unicode escape", `"\u12g4"`, ErrCodeInvalidEscape, Position{Offset: 1, Line: 1, Column: 2}},
		{"short unicode escape", `"\u12`, ErrCodeInvalidEscape, Position{Offset: 1, Line: 1, Column: 2}},
		{"octal", "012", ErrCodeInvalidNumber, Position{Offset: 0, Line: 1, Column: 1}},
		{"negative octal", "-012", ErrCodeInvalidNumber, Position{Offset: 0, Line: 1, Column: 1}},
		{"trailing decimal", "1.", ErrCodeInvalidNumber, Position{Offset: 0, Line: 1, Column: 1}},
		{"empty exponent", "1e+", ErrCodeInvalidNumber, Position{Offset: 0, Line: 1, Column: 1}},
		{"unexpected character", "[1,\n  @]", ErrCodeUnexpectedChar, Position{Offset: 6, Line: 2, Column: 3}},
		{"column counts runes", `"é" ~`, ErrCodeUnexpectedChar, Position{Offset: 5, Line: 1, Column: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			require.Error(t, err)
			assert.True(t, IsLexError(err))

			var le *LexError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.code, le.Code)
			assert.Equal(t, tt.pos, le.Pos)
		})
	}
}
