package parser_test

import (
	"testing"

	"github.com/cottand/typex/parser"
	"github.com/cottand/typex/txerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParse(t *testing.T, input string) parser.Node {
	t.Helper()
	node, err := parser.Parse(input)
	require.NoError(t, err, "parsing %q", input)
	return node
}

func TestNoPanics(t *testing.T) {
	inputs := map[string]string{
		"empty":              ``,
		"only spaces":        `   `,
		"open bracket":       `List[`,
		"close bracket":      `]`,
		"dangling dot":       `typing.`,
		"open string":        `List['int`,
		"trailing backslash": `'int\`,
		"unicode":            `Liste[ñ]`,
		"nested brackets":    `[[[[`,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, _ = parser.Parse(input)
			})
		})
	}
}

func TestRoundTrip(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"int", "int"},
		{"  int  ", "int"},
		{"typing.List", "typing.List"},
		{"List[int]", "List[int]"},
		{"Dict[str,List[T]]", "Dict[str, List[T]]"},
		{"Callable[[int, str], None]", "Callable[[int, str], None]"},
		{"Callable[[], None]", "Callable[[], None]"},
		{"Callable[..., int]", "Callable[..., int]"},
		{"Tuple[()]", "Tuple[()]"},
		{"Tuple[int, ...]", "Tuple[int, ...]"},
		{"List['Node']", "List['Node']"},
		{`List["Node"]`, "List['Node']"},
		{"(int)", "int"},
		{"(int,)", "(int,)"},
		{"List[int,]", "List[int]"},
		{"Dict[str, int][T]", "Dict[str, int][T]"},
		{"_private_1", "_private_1"},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, testParse(t, tc.input).String())
		})
	}
}

func TestStructure(t *testing.T) {
	node := testParse(t, "Dict[str, typing.List['T']]")
	index, ok := node.(*parser.Index)
	require.True(t, ok)
	assert.Equal(t, 4, index.Offset())
	assert.Equal(t, []string{"Dict"}, index.Base.(*parser.Name).Parts)
	require.Len(t, index.Args, 2)

	inner, ok := index.Args[1].(*parser.Index)
	require.True(t, ok)
	assert.Equal(t, []string{"typing", "List"}, inner.Base.(*parser.Name).Parts)
	assert.Equal(t, 10, inner.Base.Offset())

	str, ok := inner.Args[0].(*parser.Str)
	require.True(t, ok)
	assert.Equal(t, "T", str.Value)

	callable := testParse(t, "Callable[[int], ...]").(*parser.Index)
	assert.IsType(t, &parser.List{}, callable.Args[0])
	assert.IsType(t, &parser.Ellipsis{}, callable.Args[1])

	empty := testParse(t, "Tuple[()]").(*parser.Index)
	require.IsType(t, &parser.Tuple{}, empty.Args[0])
	assert.Empty(t, empty.Args[0].(*parser.Tuple).Elems)
}

func TestStringEscapes(t *testing.T) {
	str := testParse(t, `'it\'s'`).(*parser.Str)
	assert.Equal(t, "it's", str.Value)
	str = testParse(t, `"List['int']"`).(*parser.Str)
	assert.Equal(t, "List['int']", str.Value)
}

func TestSyntaxErrors(t *testing.T) {
	testCases := []struct {
		input  string
		offset int
	}{
		{"", 0},
		{"List[", 5},
		{"List[]", 5},
		{"int str", 4},
		{"List[int", 8},
		{"Dict[int,, str]", 9},
		{"a.", 2},
		{"a.[", 2},
		{"1", 0},
		{"List[int]]", 9},
		{"'unterminated", 0},
		{"'new\nline'", 4},
		{"(int str)", 5},
		{"List[int] + str", 10},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			_, err := parser.Parse(tc.input)
			require.Error(t, err)
			var syntaxErr txerr.SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tc.input, syntaxErr.Source)
			assert.Equal(t, tc.offset, syntaxErr.Offset, syntaxErr.Msg)
			assert.Equal(t, txerr.Syntax, syntaxErr.Code())
		})
	}
}
