package parser

import "strings"

// Node is a parsed type expression.
// Nodes only carry syntax: binding names to types is left to the caller
type Node interface {
	// Offset is the byte offset of the node in the parsed source
	Offset() int
	String() string
	isNode()
}

// Name is a possibly dotted identifier, like int or typing.List
type Name struct {
	Parts []string
	At    int
}

// Index is a subscription, like List[int] or Dict[str, T]
type Index struct {
	Base Node
	Args []Node
	At   int
}

// List is a bracketed argument list, used by Callable[[A, B], R]
type List struct {
	Elems []Node
	At    int
}

// Tuple is a parenthesised sequence. The empty tuple () spells Tuple[()]
type Tuple struct {
	Elems []Node
	At    int
}

// Ellipsis is the literal ...
type Ellipsis struct {
	At int
}

// Str is a quoted nested forward reference
type Str struct {
	Value string
	At    int
}

func (n *Name) Offset() int     { return n.At }
func (n *Index) Offset() int    { return n.At }
func (n *List) Offset() int     { return n.At }
func (n *Tuple) Offset() int    { return n.At }
func (n *Ellipsis) Offset() int { return n.At }
func (n *Str) Offset() int      { return n.At }

func (*Name) isNode()     {}
func (*Index) isNode()    {}
func (*List) isNode()     {}
func (*Tuple) isNode()    {}
func (*Ellipsis) isNode() {}
func (*Str) isNode()      {}

func (n *Name) String() string  { return strings.Join(n.Parts, ".") }
func (n *Index) String() string { return n.Base.String() + "[" + joinNodes(n.Args) + "]" }
func (n *List) String() string  { return "[" + joinNodes(n.Elems) + "]" }
func (n *Tuple) String() string {
	if len(n.Elems) == 1 {
		return "(" + n.Elems[0].String() + ",)"
	}
	return "(" + joinNodes(n.Elems) + ")"
}
func (n *Ellipsis) String() string { return "..." }
func (n *Str) String() string      { return "'" + n.Value + "'" }

func joinNodes(nodes []Node) string {
	strs := make([]string, len(nodes))
	for i, node := range nodes {
		strs[i] = node.String()
	}
	return strings.Join(strs, ", ")
}
