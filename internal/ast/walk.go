package ast

// IsUsable reports whether n is a real node. Absent slots in the tree are nil
// pointers; a nil pointer stored in the Node interface is treated as absent too.
func IsUsable(n Node) bool {
	switch v := n.(type) {
	case nil:
		return false
	case *Identifier:
		return v != nil
	case *TypeReference:
		return v != nil
	case *AnonymousField:
		return v != nil
	case *AnonymousType:
		return v != nil
	case *TypeOrAnonymous:
		return v != nil
	case *FunctionArgument:
		return v != nil
	case *FunctionReturnType:
		return v != nil
	case *FunctionType:
		return v != nil
	}
	return true
}

// Walk traverses the tree rooted at n in depth-first order. If fn returns
// false the children of the current node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if !IsUsable(n) || !fn(n) {
		return
	}
	switch v := n.(type) {
	case *TypeReference:
		for _, p := range v.Params {
			Walk(p, fn)
		}
	case *AnonymousField:
		Walk(v.Name, fn)
		Walk(v.Type, fn)
	case *AnonymousType:
		for _, f := range v.Fields {
			Walk(f, fn)
		}
	case *TypeOrAnonymous:
		Walk(v.Type, fn)
		Walk(v.Anonymous, fn)
	case *FunctionArgument:
		Walk(v.Name, fn)
		Walk(v.TypeOrAnonymous, fn)
		Walk(v.FunctionType, fn)
	case *FunctionReturnType:
		Walk(v.TypeOrAnonymous, fn)
		Walk(v.FunctionType, fn)
	case *FunctionType:
		for _, a := range v.Arguments {
			Walk(a, fn)
		}
		Walk(v.ReturnType, fn)
	}
}

// ReferencedTypeNames returns the distinct type names used under n, in
// first-seen order.
func ReferencedTypeNames(n Node) []string {
	var names []string
	seen := make(map[string]bool)
	Walk(n, func(node Node) bool {
		if tr, ok := node.(*TypeReference); ok && !seen[tr.Name] {
			seen[tr.Name] = true
			names = append(names, tr.Name)
		}
		return true
	})
	return names
}
