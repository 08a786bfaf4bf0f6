package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/gofeel/pkg/types"
)

const eof = -1

// Lexer converts a FEEL expression into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go"
// technique, extended with one token of lookback state: the type of the
// previously emitted token decides whether a '-' is the subtraction
// operator or the sign of a numeric literal.
type Lexer struct {
	input   string    // Input string being scanned
	length  int       // Length of input string
	start   int       // Start position of current token
	current int       // Current position in input
	width   int       // Width of last rune read
	prev    TokenType // Type of the previously emitted token
	err     error     // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls, so the parser can rely on an explicit end sentinel.
func (l *Lexer) Next() Token {
	t := l.scan()
	if t.Type != TokenError {
		l.prev = t.Type
	}
	return t
}

func (l *Lexer) scan() Token {
	l.skipWhitespace()

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	// Minus disambiguation: after a value-producing token '-' is the
	// binary subtraction operator; otherwise, when a digit follows, it is
	// the sign of a negative numeric literal. "10-5" must therefore lex
	// as [NUMBER(10), MINUS, NUMBER(5)], never as two adjacent literals.
	if ch == '-' {
		if !valueProducing(l.prev) && isDigit(l.peekRune()) {
			return l.scanNumber()
		}
		return l.newToken(TokenMinus)
	}

	// Check for two-character symbols first (e.g., !=, <=, **)
	if rts := lookupSymbol2(ch); rts != nil {
		for _, rt := range rts {
			if l.acceptRune(rt.r) {
				return l.newToken(rt.tt)
			}
		}
	}

	// Check for single-character symbols
	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	// String literals
	if ch == '"' {
		l.ignore()
		return l.scanString(ch)
	}

	// Number literals
	if isDigit(ch) {
		return l.scanNumber()
	}

	// Names and keywords
	if isNameStart(ch) {
		return l.scanName()
	}

	return l.error(types.ErrInvalidCharacter, fmt.Sprintf("Invalid character %q", ch))
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// valueProducing reports whether a token type can end a value, which makes
// a following '-' a binary operator rather than a numeric sign.
func valueProducing(tt TokenType) bool {
	switch tt {
	case TokenNumber, TokenString, TokenName, TokenBoolean, TokenNull,
		TokenParenClose, TokenBracketClose, TokenBraceClose:
		return true
	default:
		return false
	}
}

// scanString reads a string literal from the current position.
// The opening quote has already been consumed. Escape sequences are kept
// raw in the token value; the parser unescapes them.
func (l *Lexer) scanString(quote rune) Token {
Loop:
	for {
		switch l.nextRune() {
		case quote:
			break Loop
		case '\\':
			// Consume escaped character
			if r := l.nextRune(); r != eof {
				break
			}
			fallthrough
		case eof:
			return l.error(types.ErrStringNotClosed, "Unterminated string literal")
		}
	}

	l.backup()
	t := l.newToken(TokenString)
	l.acceptRune(quote)
	l.ignore()
	return t
}

// scanNumber reads a number literal from the current position.
// Any leading sign and first digit have already been consumed.
// Format: -?[0-9]+(\.[0-9]+)?
func (l *Lexer) scanNumber() Token {
	l.acceptAll(isDigit)

	// A '.' joins the number only when immediately followed by a digit;
	// anything else leaves the dot for a separate DOT token so the number
	// before it is never corrupted.
	if l.current+1 < l.length && l.input[l.current] == '.' && isDigit(rune(l.input[l.current+1])) {
		l.current++
		l.width = 1
		l.acceptAll(isDigit)
	}

	return l.newToken(TokenNumber)
}

// scanName reads a name or keyword from the current position.
// Names start with a letter or underscore and continue with letters,
// digits, and underscores. Keywords are: and, or, if, then, else,
// true, false, null.
func (l *Lexer) scanName() Token {
	for {
		ch := l.nextRune()
		if ch == eof {
			break
		}
		if !isNameRune(ch) {
			l.backup()
			break
		}
	}

	t := l.newToken(TokenName)
	if tt := lookupKeyword(t.Value); tt > 0 {
		t.Type = tt
	}
	return t
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(code types.ErrorCode, message string) Token {
	t := l.newToken(TokenError)
	l.err = &types.Error{
		Code:     code,
		Message:  message,
		Position: t.Position,
		Token:    t.Value,
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.err != nil || l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) peekRune() rune {
	if l.current >= l.length {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.current:])
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

func (l *Lexer) skipWhitespace() {
	l.acceptAll(isWhitespace)
	l.ignore()
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
