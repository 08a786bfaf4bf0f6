package types

import "github.com/shopspring/decimal"

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types for FEEL expressions.
const (
	// Literals
	NodeNumber  NodeType = "number"
	NodeString  NodeType = "string"
	NodeBoolean NodeType = "boolean"
	NodeNull    NodeType = "null"

	// References
	NodeName NodeType = "name" // variable reference
	NodePath NodeType = "path" // context member access a.b

	// Operators
	NodeBinary NodeType = "binary" // +, -, *, /, **, =, and, ...
	NodeUnary  NodeType = "unary"  // -, +

	// Composite forms
	NodeFunction  NodeType = "function"  // name(args...)
	NodeList      NodeType = "list"      // [...]
	NodeContext   NodeType = "context"   // {...}
	NodeCondition NodeType = "condition" // if ... then ... else ...
)

// NamedArg is a function-call argument bound by parameter name.
type NamedArg struct {
	Name string
	Expr *ASTNode
}

// Pair is a single key/value entry of a context literal, in source order.
type Pair struct {
	Key  string
	Expr *ASTNode
}

// ASTNode represents a node in the Abstract Syntax Tree.
// Nodes form a strict tree, are immutable once the parser returns,
// and always carry the source position of the token that produced them.
type ASTNode struct {
	Type     NodeType
	Value    string          // name, string literal, or operator text
	Number   decimal.Decimal // payload for NodeNumber
	Boolean  bool            // payload for NodeBoolean
	Position int

	// Relations
	LHS         *ASTNode   // left operand; condition of NodeCondition
	RHS         *ASTNode   // right operand; then-branch of NodeCondition
	Expressions []*ASTNode // list elements; else-branch of NodeCondition
	Arguments   []*ASTNode // positional function arguments (ordered)
	NamedArgs   []NamedArg // named function arguments (keys unique)
	Pairs       []Pair     // context literal entries (ordered)
}

// NewASTNode creates a new AST node of the specified type.
// Prefer NodeArena.Alloc when parsing to reduce per-node heap allocations.
func NewASTNode(nodeType NodeType, position int) *ASTNode {
	return &ASTNode{
		Type:     nodeType,
		Position: position,
	}
}

// arenaChunkSize is the number of ASTNode values pre-allocated per arena
// chunk. Most FEEL expressions fit in a single chunk.
const arenaChunkSize = 64

// NodeArena is a bump-pointer allocator for ASTNode values.
//
// Instead of allocating each node individually on the heap, the arena
// pre-allocates fixed-size chunks of ASTNode structs and returns pointers
// into them. A typical expression (< 64 nodes) requires only a single
// chunk allocation.
//
// The arena MUST stay alive as long as any pointer returned by Alloc is
// reachable. Attaching the arena to the [Expression] achieves this: the GC
// collects the arena together with the Expression.
//
// NodeArena is NOT thread-safe. Each parser owns its own arena and the
// arena is never shared across goroutines.
type NodeArena struct {
	chunks [][]ASTNode
	pos    int // next free index in the last chunk
}

// NewNodeArena allocates an arena pre-warmed with one initial chunk.
func NewNodeArena() *NodeArena {
	return &NodeArena{
		chunks: [][]ASTNode{make([]ASTNode, arenaChunkSize)},
	}
}

// Alloc returns a pointer to a zero-valued ASTNode inside the arena, with
// Type and Position set. All other fields remain at their zero values and
// must be filled by the caller.
func (a *NodeArena) Alloc(nodeType NodeType, position int) *ASTNode {
	if a.pos >= arenaChunkSize {
		a.chunks = append(a.chunks, make([]ASTNode, arenaChunkSize))
		a.pos = 0
	}
	n := &a.chunks[len(a.chunks)-1][a.pos]
	a.pos++
	n.Type = nodeType
	n.Position = position
	return n
}

// String returns a string representation of the node type.
func (n *ASTNode) String() string {
	return string(n.Type)
}
