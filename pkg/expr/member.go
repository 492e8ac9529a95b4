package expr

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr/ast"

	"github.com/thegaffer/tal-web-sub003/internal/introspect"
)

// memberFunc is the function member access is rewritten to. It is not
// meant to be called by name.
const memberFunc = "__member"

// memberPatcher rewrites `a.b` and `a[k]` into memberFunc(a, k) so property
// access follows the same rules as the render model and absent values read
// as nil. Method calls keep the native member access.
type memberPatcher struct{}

func (memberPatcher) Visit(node *ast.Node) {
	n, ok := (*node).(*ast.MemberNode)
	if !ok || n.Method {
		return
	}
	ast.Patch(node, &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: memberFunc},
		Arguments: []ast.Node{n.Node, n.Property},
	})
}

func member(params ...any) (any, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("expr: member access takes 2 arguments, got %d", len(params))
	}
	obj, key := params[0], params[1]
	if introspect.IsNil(obj) {
		return nil, nil
	}
	switch k := key.(type) {
	case string:
		v, _ := introspect.Property(obj, k)
		return v, nil
	case nil:
		return nil, nil
	}
	if n, ok := ToNumber(key); ok && n == math.Trunc(n) {
		if v, ok := introspect.Index(obj, int(n)); ok {
			return v, nil
		}
	}
	v, _ := introspect.Property(obj, fmt.Sprint(key))
	return v, nil
}
