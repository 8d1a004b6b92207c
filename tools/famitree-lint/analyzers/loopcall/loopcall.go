// Package loopcall reports round-trip calls made once per loop iteration.
package loopcall

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports round-trip calls inside for and range loops.
var Analyzer = &analysis.Analyzer{
	Name:     "loopcall",
	Doc:      "reports storage, index and embedding calls inside loops that should be batched",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// roundTrips maps method names to the call to use instead.
var roundTrips = map[string]string{
	"Embed":        "EmbedBatch",        // ports.Embedder
	"Search":       "one query",         // ports.PersonIndex
	"Delete":       "DeleteAll",         // ports.PersonIndex
	"Save":         "a single Flush",    // ports.Persistence
	"LoadInitial":  "the store's Graph", // ports.Persistence
	"LoadSnapshot": "ListSnapshots",     // ports.RelationalDB
}

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	loops := []ast.Node{
		(*ast.RangeStmt)(nil),
		(*ast.ForStmt)(nil),
	}

	insp.Preorder(loops, func(n ast.Node) {
		var body *ast.BlockStmt
		switch loop := n.(type) {
		case *ast.RangeStmt:
			body = loop.Body
		case *ast.ForStmt:
			body = loop.Body
		}
		if body == nil {
			return
		}

		ast.Inspect(body, func(n ast.Node) bool {
			// Closures run later, not once per iteration.
			if _, ok := n.(*ast.FuncLit); ok {
				return false
			}
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if instead, ok := roundTrips[sel.Sel.Name]; ok {
				pass.Reportf(call.Pos(), "%s called inside loop: use %s", sel.Sel.Name, instead)
			}
			return true
		})
	})

	return nil, nil
}
