package parser_test

import (
	"testing"

	"github.com/sandrolain/gofeel/pkg/parser"
)

type lexerTestCase struct {
	name      string
	input     string
	expected  []parser.Token
	expectErr bool
}

func TestLexerWhitespace(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "no whitespace",
			input: "abc",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "abc", Position: 0},
			},
		},
		{
			name:  "leading whitespace",
			input: "   abc",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "abc", Position: 3},
			},
		},
		{
			name:  "trailing whitespace",
			input: "abc   ",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "abc", Position: 0},
			},
		},
		{
			name:  "mixed whitespace",
			input: " \t\n\r\vabc",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "abc", Position: 5},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerNumbers(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "integer",
			input: "42",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "42", Position: 0},
			},
		},
		{
			name:  "decimal",
			input: "3.14",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "3.14", Position: 0},
			},
		},
		{
			name:  "zero",
			input: "0",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "0", Position: 0},
			},
		},
		{
			name:  "dot without following digit stays a dot token",
			input: "1.foo",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "1", Position: 0},
				{Type: parser.TokenDot, Value: ".", Position: 1},
				{Type: parser.TokenName, Value: "foo", Position: 2},
			},
		},
		{
			name:  "trailing dot stays a dot token",
			input: "1.",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "1", Position: 0},
				{Type: parser.TokenDot, Value: ".", Position: 1},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerMinusDisambiguation(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "subtraction between numbers",
			input: "10 - 5",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "10", Position: 0},
				{Type: parser.TokenMinus, Value: "-", Position: 3},
				{Type: parser.TokenNumber, Value: "5", Position: 5},
			},
		},
		{
			name:  "subtraction without spaces",
			input: "10-5",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "10", Position: 0},
				{Type: parser.TokenMinus, Value: "-", Position: 2},
				{Type: parser.TokenNumber, Value: "5", Position: 3},
			},
		},
		{
			name:  "negative literal at start of input",
			input: "-5",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "-5", Position: 0},
			},
		},
		{
			name:  "negative literal after open paren",
			input: "(-5)",
			expected: []parser.Token{
				{Type: parser.TokenParenOpen, Value: "(", Position: 0},
				{Type: parser.TokenNumber, Value: "-5", Position: 1},
				{Type: parser.TokenParenClose, Value: ")", Position: 3},
			},
		},
		{
			name:  "negative literal after operator",
			input: "a - -5",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "a", Position: 0},
				{Type: parser.TokenMinus, Value: "-", Position: 2},
				{Type: parser.TokenNumber, Value: "-5", Position: 4},
			},
		},
		{
			name:  "negative exponent",
			input: "3 ** -2",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "3", Position: 0},
				{Type: parser.TokenExp, Value: "**", Position: 2},
				{Type: parser.TokenNumber, Value: "-2", Position: 5},
			},
		},
		{
			name:  "minus after closing paren is subtraction",
			input: "(a)-5",
			expected: []parser.Token{
				{Type: parser.TokenParenOpen, Value: "(", Position: 0},
				{Type: parser.TokenName, Value: "a", Position: 1},
				{Type: parser.TokenParenClose, Value: ")", Position: 2},
				{Type: parser.TokenMinus, Value: "-", Position: 3},
				{Type: parser.TokenNumber, Value: "5", Position: 4},
			},
		},
		{
			name:  "minus before name is the operator",
			input: "-x",
			expected: []parser.Token{
				{Type: parser.TokenMinus, Value: "-", Position: 0},
				{Type: parser.TokenName, Value: "x", Position: 1},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerSymbols(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "exponent is lexed greedily",
			input: "2**3",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "2", Position: 0},
				{Type: parser.TokenExp, Value: "**", Position: 1},
				{Type: parser.TokenNumber, Value: "3", Position: 3},
			},
		},
		{
			name:  "separated stars stay multiplications",
			input: "2 * * 3",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "2", Position: 0},
				{Type: parser.TokenMult, Value: "*", Position: 2},
				{Type: parser.TokenMult, Value: "*", Position: 4},
				{Type: parser.TokenNumber, Value: "3", Position: 6},
			},
		},
		{
			name:  "comparison operators",
			input: "a <= b != c >= d",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "a", Position: 0},
				{Type: parser.TokenLessEqual, Value: "<=", Position: 2},
				{Type: parser.TokenName, Value: "b", Position: 5},
				{Type: parser.TokenNotEqual, Value: "!=", Position: 7},
				{Type: parser.TokenName, Value: "c", Position: 10},
				{Type: parser.TokenGreaterEqual, Value: ">=", Position: 12},
				{Type: parser.TokenName, Value: "d", Position: 15},
			},
		},
		{
			name:  "grouping and punctuation",
			input: "{a: [1], b: f(2)}",
			expected: []parser.Token{
				{Type: parser.TokenBraceOpen, Value: "{", Position: 0},
				{Type: parser.TokenName, Value: "a", Position: 1},
				{Type: parser.TokenColon, Value: ":", Position: 2},
				{Type: parser.TokenBracketOpen, Value: "[", Position: 4},
				{Type: parser.TokenNumber, Value: "1", Position: 5},
				{Type: parser.TokenBracketClose, Value: "]", Position: 6},
				{Type: parser.TokenComma, Value: ",", Position: 7},
				{Type: parser.TokenName, Value: "b", Position: 9},
				{Type: parser.TokenColon, Value: ":", Position: 10},
				{Type: parser.TokenName, Value: "f", Position: 12},
				{Type: parser.TokenParenOpen, Value: "(", Position: 13},
				{Type: parser.TokenNumber, Value: "2", Position: 14},
				{Type: parser.TokenParenClose, Value: ")", Position: 15},
				{Type: parser.TokenBraceClose, Value: "}", Position: 16},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerKeywords(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "conditional keywords",
			input: "if x then y else z",
			expected: []parser.Token{
				{Type: parser.TokenIf, Value: "if", Position: 0},
				{Type: parser.TokenName, Value: "x", Position: 3},
				{Type: parser.TokenThen, Value: "then", Position: 5},
				{Type: parser.TokenName, Value: "y", Position: 10},
				{Type: parser.TokenElse, Value: "else", Position: 12},
				{Type: parser.TokenName, Value: "z", Position: 17},
			},
		},
		{
			name:  "boolean and null literals",
			input: "true and false or null",
			expected: []parser.Token{
				{Type: parser.TokenBoolean, Value: "true", Position: 0},
				{Type: parser.TokenAnd, Value: "and", Position: 5},
				{Type: parser.TokenBoolean, Value: "false", Position: 9},
				{Type: parser.TokenOr, Value: "or", Position: 15},
				{Type: parser.TokenNull, Value: "null", Position: 18},
			},
		},
		{
			name:  "keyword prefix stays a name",
			input: "iffy android",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "iffy", Position: 0},
				{Type: parser.TokenName, Value: "android", Position: 5},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerStrings(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "simple string",
			input: `"hello"`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "hello", Position: 1},
			},
		},
		{
			name:  "empty string",
			input: `""`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "", Position: 1},
			},
		},
		{
			name:  "escape sequences are kept raw",
			input: `"a\nb\"c"`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: `a\nb\"c`, Position: 1},
			},
		},
		{
			name:      "unterminated string",
			input:     `"abc`,
			expectErr: true,
		},
		{
			name:      "unterminated string ending in backslash",
			input:     `"abc\`,
			expectErr: true,
		},
	}

	runLexerTests(t, tests)
}

func TestLexerInvalidCharacter(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:      "at sign",
			input:     "a @ b",
			expectErr: true,
		},
		{
			name:      "lone exclamation mark",
			input:     "a ! b",
			expectErr: true,
		},
	}

	runLexerTests(t, tests)
}

func runLexerTests(t *testing.T, tests []lexerTestCase) {
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lexer := parser.NewLexer(test.input)
			tokens := []parser.Token{}

			for {
				tok := lexer.Next()
				if tok.Type == parser.TokenEOF {
					break
				}
				if tok.Type == parser.TokenError {
					if !test.expectErr {
						t.Errorf("unexpected error: %v", lexer.Error())
					}
					return
				}
				tokens = append(tokens, tok)
			}

			if test.expectErr {
				t.Error("expected error but got none")
				return
			}

			if len(tokens) != len(test.expected) {
				t.Errorf("got %d tokens, want %d\nGot: %v\nWant: %v",
					len(tokens), len(test.expected), tokens, test.expected)
				return
			}

			for i, tok := range tokens {
				exp := test.expected[i]
				if tok.Type != exp.Type {
					t.Errorf("token %d: type = %v, want %v", i, tok.Type, exp.Type)
				}
				if tok.Value != exp.Value {
					t.Errorf("token %d: value = %q, want %q", i, tok.Value, exp.Value)
				}
				if tok.Position != exp.Position {
					t.Errorf("token %d: position = %d, want %d", i, tok.Position, exp.Position)
				}
			}
		})
	}
}
