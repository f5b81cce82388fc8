package templatable

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// References returns the root variable names and the function names an
// expression uses, each sorted and without duplicates.
func References(expr hcl.Expression) (variables []string, functions []string) {
	if expr == nil {
		return nil, nil
	}

	vars := make(map[string]struct{})
	for _, traversal := range expr.Variables() {
		vars[traversal.RootName()] = struct{}{}
	}

	funcs := make(map[string]struct{})
	// Variables() does not report calls, so walk the syntax tree for them.
	if syntaxExpr, ok := expr.(hclsyntax.Expression); ok {
		hclsyntax.VisitAll(syntaxExpr, func(n hclsyntax.Node) hcl.Diagnostics {
			if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
				funcs[call.Name] = struct{}{}
			}
			return nil
		})
	}

	return sortedKeys(vars), sortedKeys(funcs)
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
