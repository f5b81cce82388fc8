package testutil

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/cecplan/internal/config"
)

// Lambda parses src as a deferred expression.
func Lambda(t *testing.T, src string) *config.Lambda {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "lambda", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), diags.Error())
	return &config.Lambda{Expr: expr, Source: src}
}

// LambdaVal is Lambda wrapped into a raw configuration value.
func LambdaVal(t *testing.T, src string) cty.Value {
	t.Helper()
	return config.LambdaVal(Lambda(t, src))
}
