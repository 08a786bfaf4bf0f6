package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/shopspring/decimal"

	"github.com/sandrolain/gofeel/pkg/types"
)

// Parser implements a recursive descent parser for FEEL expressions.
// It uses Pratt's "Top Down Operator Precedence" algorithm to handle
// operator precedence correctly.
//
// The parser keeps two tokens of lookahead: current and next. The second
// token is needed to recognize a named argument (`name :`) before
// committing to parse the name as an expression.
type Parser struct {
	lexer   *Lexer
	current Token
	next    Token
	depth   int
	arena   *types.NodeArena
	opts    CompileOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: 100,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		lexer: NewLexer(input),
		arena: types.NewNodeArena(),
		opts:  options,
	}

	// Prime current and next
	p.advance()
	p.advance()

	return p
}

// Parse parses the entire expression and returns the compiled Expression.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	if p.current.Type == TokenEOF {
		return nil, p.error(types.ErrEmptyExpression, "Empty expression")
	}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Unexpected token: %s", p.current.Value))
	}

	return types.NewExpression(node, p.lexer.input, p.arena), nil
}

// Operator precedence table (binding power), tightest binds highest.
// Exponentiation right-folds by recursing with prec-1; everything else
// left-folds.
var precedence = map[TokenType]int{
	TokenOr:           10, // or
	TokenAnd:          20, // and
	TokenEqual:        30, // =
	TokenNotEqual:     30, // !=
	TokenLess:         30, // <
	TokenLessEqual:    30, // <=
	TokenGreater:      30, // >
	TokenGreaterEqual: 30, // >=
	TokenPlus:         40, // +
	TokenMinus:        40, // -
	TokenMult:         50, // *
	TokenDiv:          50, // /
	TokenExp:          60, // **
	TokenDot:          80, // .
	TokenParenOpen:    80, // (
}

// unaryBindingPower binds prefix +/- tighter than '**' so that
// "-2 ** 2" parses as "(-2) ** 2".
const unaryBindingPower = 65

// getPrecedence returns the precedence of a token type.
func (p *Parser) getPrecedence(tt TokenType) int {
	if prec, ok := precedence[tt]; ok {
		return prec
	}
	return 0
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.current = p.next
	p.next = p.lexer.Next()
}

// expect checks if the current token matches the expected type and advances.
func (p *Parser) expect(tt TokenType) error {
	if p.current.Type != tt {
		return p.error(types.ErrExpectedToken, fmt.Sprintf("Expected %s but got %s", tt.String(), p.current.Type.String()))
	}
	p.advance()
	return nil
}

// error creates a parser error at the current token.
func (p *Parser) error(code types.ErrorCode, message string) error {
	return &types.Error{
		Code:     code,
		Message:  message,
		Position: p.current.Position,
		Token:    p.current.Value,
	}
}

// parseExpression parses an expression with operator precedence.
// rbp is the right binding power (minimum precedence).
func (p *Parser) parseExpression(rbp int) (*types.ASTNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.opts.MaxDepth {
		return nil, p.error(types.ErrNestingTooDeep, "Expression nesting too deep")
	}

	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	// Parse prefix expression (nud - null denotation)
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	// Parse infix expressions while precedence allows (led - left denotation)
	for rbp < p.getPrecedence(p.current.Type) {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// parsePrefix parses a prefix expression (nud - null denotation).
// These are expressions that don't require a left-hand side.
func (p *Parser) parsePrefix() (*types.ASTNode, error) {
	token := p.current

	switch token.Type {
	case TokenNumber:
		return p.parseNumber()
	case TokenString:
		return p.parseString()
	case TokenBoolean:
		return p.parseBoolean()
	case TokenNull:
		return p.parseNull()
	case TokenName:
		return p.parseName()
	case TokenMinus, TokenPlus:
		return p.parseUnary()
	case TokenIf:
		return p.parseConditional()
	case TokenParenOpen:
		return p.parseGrouping()
	case TokenBracketOpen:
		return p.parseListConstructor()
	case TokenBraceOpen:
		return p.parseContextConstructor()
	case TokenError:
		return nil, p.lexer.Error()
	default:
		return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Unexpected token: %s", token.Type.String()))
	}
}

// parseInfix parses an infix expression (led - left denotation).
// These are expressions that require a left-hand side.
func (p *Parser) parseInfix(left *types.ASTNode) (*types.ASTNode, error) {
	token := p.current

	switch token.Type {
	case TokenParenOpen:
		return p.parseFunctionCall(left)
	case TokenDot:
		return p.parseMember(left)
	case TokenExp:
		// Right-associative: 2**3**2 = 2**(3**2)
		return p.parseBinaryOpRightAssoc(left)
	case TokenPlus, TokenMinus, TokenMult, TokenDiv,
		TokenEqual, TokenNotEqual, TokenLess, TokenLessEqual,
		TokenGreater, TokenGreaterEqual, TokenAnd, TokenOr:
		return p.parseBinaryOp(left)
	default:
		return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Unexpected infix token: %s", token.Type.String()))
	}
}

// unescapeString processes escape sequences in a string literal.
// Handles standard escapes (\n, \t, etc.) and Unicode escapes (\uXXXX),
// including UTF-16 surrogate pairs for characters outside the BMP.
func unescapeString(s string) (string, error) {
	if !strings.Contains(s, "\\") {
		return s, nil // Fast path: no escapes
	}

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			result.WriteByte(s[i])
			continue
		}

		i++ // Skip backslash
		if i >= len(s) {
			return "", fmt.Errorf("invalid escape sequence at end of string")
		}

		switch s[i] {
		case 'n':
			result.WriteByte('\n')
		case 't':
			result.WriteByte('\t')
		case 'r':
			result.WriteByte('\r')
		case 'b':
			result.WriteByte('\b')
		case 'f':
			result.WriteByte('\f')
		case '\\':
			result.WriteByte('\\')
		case '"':
			result.WriteByte('"')
		case '/':
			result.WriteByte('/')
		case 'u':
			// Unicode escape: \uXXXX
			if i+4 >= len(s) {
				return "", fmt.Errorf("invalid \\u escape: not enough characters")
			}
			hex := s[i+1 : i+5]
			codePoint, err := strconv.ParseUint(hex, 16, 16)
			if err != nil {
				return "", fmt.Errorf("invalid \\u escape: %s", hex)
			}
			i += 4

			r := rune(codePoint)

			// High surrogate: expect a low surrogate next
			if r >= 0xD800 && r <= 0xDBFF && i+6 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
				lowHex := s[i+3 : i+7]
				lowCodePoint, err := strconv.ParseUint(lowHex, 16, 16)
				if err == nil {
					low := rune(lowCodePoint)
					if low >= 0xDC00 && low <= 0xDFFF {
						decoded := utf16.Decode([]uint16{uint16(r), uint16(low)})
						if len(decoded) > 0 {
							result.WriteRune(decoded[0])
							i += 6
							continue
						}
					}
				}
			}
			result.WriteRune(r)
		default:
			return "", fmt.Errorf("invalid escape sequence: \\%c", s[i])
		}
	}

	return result.String(), nil
}

// parseString parses a string literal.
func (p *Parser) parseString() (*types.ASTNode, error) {
	node := p.arena.Alloc(types.NodeString, p.current.Position)

	unescaped, err := unescapeString(p.current.Value)
	if err != nil {
		return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Invalid string literal: %v", err))
	}

	node.Value = unescaped
	p.advance()
	return node, nil
}

// parseNumber parses a number literal. The literal text goes straight to
// the decimal parser so exactly representable values stay exact.
func (p *Parser) parseNumber() (*types.ASTNode, error) {
	node := p.arena.Alloc(types.NodeNumber, p.current.Position)

	val, err := decimal.NewFromString(p.current.Value)
	if err != nil {
		return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Invalid number: %s", p.current.Value))
	}

	node.Number = val
	p.advance()
	return node, nil
}

// parseBoolean parses a boolean literal.
func (p *Parser) parseBoolean() (*types.ASTNode, error) {
	node := p.arena.Alloc(types.NodeBoolean, p.current.Position)
	node.Boolean = p.current.Value == "true"
	p.advance()
	return node, nil
}

// parseNull parses a null literal.
func (p *Parser) parseNull() (*types.ASTNode, error) {
	node := p.arena.Alloc(types.NodeNull, p.current.Position)
	p.advance()
	return node, nil
}

// parseName parses a variable reference.
func (p *Parser) parseName() (*types.ASTNode, error) {
	node := p.arena.Alloc(types.NodeName, p.current.Position)
	node.Value = p.current.Value
	p.advance()
	return node, nil
}

// parseUnary parses a prefix sign operator.
// Unary binds tighter than '**', so "-2 ** 2" is "(-2) ** 2".
func (p *Parser) parseUnary() (*types.ASTNode, error) {
	pos := p.current.Position
	op := p.current.Type.String()
	p.advance()

	expr, err := p.parseExpression(unaryBindingPower)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeUnary, pos)
	node.Value = op
	node.LHS = expr

	return node, nil
}

// parseGrouping parses a parenthesized expression. Parentheses are pure
// grouping in FEEL; no new scope is introduced.
func (p *Parser) parseGrouping() (*types.ASTNode, error) {
	p.advance() // Skip '('

	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}

	return expr, nil
}

// parseListConstructor parses a list literal [...].
func (p *Parser) parseListConstructor() (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '['

	node := p.arena.Alloc(types.NodeList, pos)
	node.Expressions = []*types.ASTNode{}

	if p.current.Type == TokenBracketClose {
		p.advance()
		return node, nil
	}

	for {
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		node.Expressions = append(node.Expressions, expr)

		if p.current.Type == TokenBracketClose {
			p.advance()
			break
		}

		if err := p.expect(TokenComma); err != nil {
			return nil, err
		}
	}

	return node, nil
}

// parseContextConstructor parses a context literal {...}.
// Keys are names or strings. Duplicate keys are legal; evaluation applies
// a last-wins policy.
func (p *Parser) parseContextConstructor() (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '{'

	node := p.arena.Alloc(types.NodeContext, pos)
	node.Pairs = []types.Pair{}

	if p.current.Type == TokenBraceClose {
		p.advance()
		return node, nil
	}

	for {
		var key string
		switch p.current.Type {
		case TokenName:
			key = p.current.Value
		case TokenString:
			unescaped, err := unescapeString(p.current.Value)
			if err != nil {
				return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Invalid context key: %v", err))
			}
			key = unescaped
		default:
			return nil, p.error(types.ErrExpectedToken, fmt.Sprintf("Expected context key but got %s", p.current.Type.String()))
		}
		p.advance()

		if err := p.expect(TokenColon); err != nil {
			return nil, err
		}

		value, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}

		node.Pairs = append(node.Pairs, types.Pair{Key: key, Expr: value})

		if p.current.Type == TokenBraceClose {
			p.advance()
			break
		}

		if err := p.expect(TokenComma); err != nil {
			return nil, err
		}
	}

	return node, nil
}

// parseMember parses a context member access (expr.name).
func (p *Parser) parseMember(left *types.ASTNode) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '.'

	if p.current.Type != TokenName {
		return nil, p.error(types.ErrExpectedToken, fmt.Sprintf("Expected member name but got %s", p.current.Type.String()))
	}

	node := p.arena.Alloc(types.NodePath, pos)
	node.LHS = left
	node.Value = p.current.Value
	p.advance()

	return node, nil
}

// parseBinaryOp parses a left-associative binary operator expression.
func (p *Parser) parseBinaryOp(left *types.ASTNode) (*types.ASTNode, error) {
	op := p.current
	prec := p.getPrecedence(op.Type)
	p.advance()

	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeBinary, op.Position)
	node.Value = op.Type.String()
	node.LHS = left
	node.RHS = right

	return node, nil
}

// parseBinaryOpRightAssoc parses a right-associative binary operator by
// recursing with prec-1 so equal-precedence operators fold to the right.
func (p *Parser) parseBinaryOpRightAssoc(left *types.ASTNode) (*types.ASTNode, error) {
	op := p.current
	prec := p.getPrecedence(op.Type)
	p.advance()

	right, err := p.parseExpression(prec - 1)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeBinary, op.Position)
	node.Value = op.Type.String()
	node.LHS = left
	node.RHS = right

	return node, nil
}

// parseFunctionCall parses a function call expression.
// Called when we see an expression followed by '('. Only named functions
// can be called, so the callee must be a plain name.
//
// Each argument is either a bare expression (positional) or
// "param: expression" (named). A single call must be all-positional or
// all-named; the first argument decides the mode.
func (p *Parser) parseFunctionCall(callee *types.ASTNode) (*types.ASTNode, error) {
	if callee.Type != types.NodeName {
		return nil, p.error(types.ErrSyntaxError, "Only named functions can be called")
	}

	pos := p.current.Position
	p.advance() // Skip '('

	node := p.arena.Alloc(types.NodeFunction, pos)
	node.Value = callee.Value

	if p.current.Type == TokenParenClose {
		p.advance()
		return node, nil
	}

	// The first argument decides between positional and named mode.
	named := p.current.Type == TokenName && p.next.Type == TokenColon

	for {
		argIsNamed := p.current.Type == TokenName && p.next.Type == TokenColon
		if argIsNamed != named {
			return nil, p.error(types.ErrMixedArguments, "Cannot mix positional and named arguments in one call")
		}

		if named {
			name := p.current.Value
			p.advance() // Skip name
			p.advance() // Skip ':'

			for _, existing := range node.NamedArgs {
				if existing.Name == name {
					return nil, p.error(types.ErrDuplicateNamedArgument, fmt.Sprintf("Duplicate named argument: %s", name))
				}
			}

			expr, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			node.NamedArgs = append(node.NamedArgs, types.NamedArg{Name: name, Expr: expr})
		} else {
			expr, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			node.Arguments = append(node.Arguments, expr)
		}

		if p.current.Type == TokenParenClose {
			p.advance()
			break
		}

		if err := p.expect(TokenComma); err != nil {
			return nil, err
		}
	}

	return node, nil
}

// parseConditional parses a conditional expression.
// Syntax: if condition then consequent else alternative
// The else branch is mandatory in FEEL.
func (p *Parser) parseConditional() (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip 'if'

	condition, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenThen); err != nil {
		return nil, err
	}

	consequent, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenElse); err != nil {
		return nil, err
	}

	alternative, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeCondition, pos)
	node.LHS = condition
	node.RHS = consequent
	node.Expressions = []*types.ASTNode{alternative}

	return node, nil
}
