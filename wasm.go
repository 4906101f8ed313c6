//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cottand/typex/cmd"
	"github.com/cottand/typex/txerr"
	"github.com/cottand/typex/types"
)

func main() {
	session := &cmd.Session{Ctx: types.NewTypeCtx(), NS: types.Namespace{}}

	// EvalTypeExpr takes one line, like the repl does, and returns
	// {result, error} where exactly one of the two is set
	js.Global().Set("EvalTypeExpr", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) != 1 {
			return map[string]any{"error": "expected exactly one argument"}
		}
		res, err := session.Line(args[0].String())
		if err != nil {
			return map[string]any{"error": txerr.FormatWithCode(err)}
		}
		return map[string]any{"result": res}
	}))

	// wait indefinitely so that Go does not terminate execution
	// and the function remains available
	<-make(chan struct{})
}
