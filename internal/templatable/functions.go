package templatable

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Functions returns the function library lambdas can call.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"concat":  stdlib.ConcatFunc,
		"length":  stdlib.LengthFunc,
		"element": stdlib.ElementFunc,
		"slice":   stdlib.SliceFunc,
		"min":     stdlib.MinFunc,
		"max":     stdlib.MaxFunc,
		"ascii":   ASCIIFunc,
	}
}

// ASCIIFunc converts a string to the list of its ASCII codes. Characters
// outside ASCII are dropped.
var ASCIIFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "str", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.List(cty.Number)),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		var out []cty.Value
		for _, r := range args[0].AsString() {
			if r < 0x80 {
				out = append(out, cty.NumberIntVal(int64(r)))
			}
		}
		if len(out) == 0 {
			return cty.ListValEmpty(cty.Number), nil
		}
		return cty.ListVal(out), nil
	},
})
