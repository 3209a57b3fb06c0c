// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

import "github.com/cpmech/gosl/chk"

// SymbolTable maps a symbol name to the expression it stands for (e.g. a
// temperature-dependent sub-expression shared by several parameters).
// Differentiate resolves through it; Evaluate does too (see evaluate.go).
type SymbolTable map[string]*Node

// Differentiate returns d(t)/d(v) without simplifying the result; callers
// should run Simplify afterward. Differentiate and Simplify are kept as
// separate passes so that d(Simplify(t))/dv == Simplify(d(t)/dv) holds
// without either function second-guessing the other.
func Differentiate(t *Node, v string, syms SymbolTable) *Node {
	return differentiate(t, v, syms, 0)
}

const maxSymbolDepth = 64

func differentiate(t *Node, v string, syms SymbolTable, depth int) *Node {
	if t == nil {
		return NumNode(0)
	}
	switch t.Kind {
	case KindNum:
		return NumNode(0)
	case KindSym:
		if t.Sym == v {
			return NumNode(1)
		}
		if def, ok := syms[t.Sym]; ok {
			if depth > maxSymbolDepth {
				chk.Panic("expr: symbol table reference cycle detected at %q", t.Sym)
			}
			return differentiate(def, v, syms, depth+1)
		}
		return NumNode(0)
	}

	switch t.Head {
	case OpAdd:
		args := make([]*Node, len(t.Args))
		for i, a := range t.Args {
			args[i] = differentiate(a, v, syms, depth)
		}
		return OpNode(OpAdd, args...)

	case OpSub:
		return OpNode(OpSub, differentiate(t.Args[0], v, syms, depth), differentiate(t.Args[1], v, syms, depth))

	case OpNeg:
		return OpNode(OpNeg, differentiate(t.Args[0], v, syms, depth))

	case OpMul:
		// generalised product rule: d(prod a_i)/dv = sum_i (da_i/dv * prod_{j!=i} a_j)
		terms := make([]*Node, len(t.Args))
		for i := range t.Args {
			factors := make([]*Node, 0, len(t.Args))
			factors = append(factors, differentiate(t.Args[i], v, syms, depth))
			for j, a := range t.Args {
				if j != i {
					factors = append(factors, a.Clone())
				}
			}
			terms[i] = OpNode(OpMul, factors...)
		}
		return OpNode(OpAdd, terms...)

	case OpDiv:
		u, w := t.Args[0], t.Args[1]
		du := differentiate(u, v, syms, depth)
		dw := differentiate(w, v, syms, depth)
		// (du*w - u*dw) / w^2
		num := OpNode(OpSub, OpNode(OpMul, du, w.Clone()), OpNode(OpMul, u.Clone(), dw))
		den := OpNode(OpPow, w.Clone(), NumNode(2))
		return OpNode(OpDiv, num, den)

	case OpPow:
		base, exp := t.Args[0], t.Args[1]
		if exp.Kind == KindNum {
			// d(u^n)/dv = n * u^(n-1) * du/dv
			n := exp.Num
			dbase := differentiate(base, v, syms, depth)
			return OpNode(OpMul, NumNode(n), OpNode(OpPow, base.Clone(), NumNode(n-1)), dbase)
		}
		// general case u^w: d/dv = u^w * (dw*ln(u) + w*du/u)
		du := differentiate(base, v, syms, depth)
		dw := differentiate(exp, v, syms, depth)
		term1 := OpNode(OpMul, dw, OpNode(OpLn, base.Clone()))
		term2 := OpNode(OpMul, exp.Clone(), OpNode(OpDiv, du, base.Clone()))
		return OpNode(OpMul, t.Clone(), OpNode(OpAdd, term1, term2))

	case OpLn:
		u := t.Args[0]
		return OpNode(OpDiv, differentiate(u, v, syms, depth), u.Clone())

	case OpExp:
		u := t.Args[0]
		return OpNode(OpMul, differentiate(u, v, syms, depth), t.Clone())

	case OpPiec:
		args := make([]*Node, len(t.Args))
		for i, a := range t.Args {
			if i%3 == 0 {
				args[i] = differentiate(a, v, syms, depth)
			} else {
				args[i] = a.Clone()
			}
		}
		return OpNode(OpPiec, args...)
	}

	chk.Panic("expr: Differentiate: unrecognised operator head %q", t.Head)
	return nil
}
