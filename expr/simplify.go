// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

import "math"

// Simplify returns a canonicalised copy of t: constant subtrees are folded,
// neutral elements (+0, *1, *0, /1, ^1, ^0) collapse, and nested +/* of the
// same head are flattened. It is a single bottom-up pass and is idempotent:
// Simplify(Simplify(t)) is structurally identical to Simplify(t).
func Simplify(t *Node) *Node {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KindNum, KindSym:
		return t.Clone()
	}

	switch t.Head {
	case OpAdd:
		return simplifyAdd(t)
	case OpMul:
		return simplifyMul(t)
	case OpSub:
		return simplifySub(t)
	case OpDiv:
		return simplifyDiv(t)
	case OpPow:
		return simplifyPow(t)
	case OpNeg:
		a := Simplify(t.Args[0])
		if a.Kind == KindNum {
			return NumNode(-a.Num)
		}
		if a.Kind == KindOp && a.Head == OpNeg {
			return a.Args[0]
		}
		return OpNode(OpNeg, a)
	case OpLn:
		a := Simplify(t.Args[0])
		if a.Kind == KindNum && a.Num > 0 {
			return NumNode(math.Log(a.Num))
		}
		return OpNode(OpLn, a)
	case OpExp:
		a := Simplify(t.Args[0])
		if a.Kind == KindNum {
			return NumNode(math.Exp(a.Num))
		}
		return OpNode(OpExp, a)
	case OpPiec:
		args := make([]*Node, len(t.Args))
		for i, a := range t.Args {
			if i%3 == 0 {
				args[i] = Simplify(a)
			} else {
				args[i] = a.Clone()
			}
		}
		return OpNode(OpPiec, args...)
	}
	return t.Clone()
}

func simplifyAdd(t *Node) *Node {
	var flat []*Node
	sum := 0.0
	haveNum := false
	for _, a := range t.Args {
		s := Simplify(a)
		if s.Kind == KindOp && s.Head == OpAdd {
			flat = append(flat, s.Args...)
			continue
		}
		flat = append(flat, s)
	}
	var rest []*Node
	for _, a := range flat {
		if a.Kind == KindNum {
			sum += a.Num
			haveNum = true
			continue
		}
		rest = append(rest, a)
	}
	if len(rest) == 0 {
		return NumNode(sum)
	}
	if haveNum && sum != 0 {
		rest = append(rest, NumNode(sum))
	}
	if len(rest) == 1 {
		return rest[0]
	}
	return OpNode(OpAdd, rest...)
}

func simplifyMul(t *Node) *Node {
	var flat []*Node
	for _, a := range t.Args {
		s := Simplify(a)
		if s.Kind == KindOp && s.Head == OpMul {
			flat = append(flat, s.Args...)
			continue
		}
		flat = append(flat, s)
	}
	prod := 1.0
	haveNum := false
	var rest []*Node
	for _, a := range flat {
		if a.Kind == KindNum {
			prod *= a.Num
			haveNum = true
			continue
		}
		rest = append(rest, a)
	}
	if haveNum && prod == 0 {
		return NumNode(0)
	}
	if len(rest) == 0 {
		return NumNode(prod)
	}
	if haveNum && prod != 1 {
		rest = append(rest, NumNode(prod))
	}
	if len(rest) == 1 {
		return rest[0]
	}
	return OpNode(OpMul, rest...)
}

func simplifySub(t *Node) *Node {
	a := Simplify(t.Args[0])
	b := Simplify(t.Args[1])
	if a.Kind == KindNum && b.Kind == KindNum {
		return NumNode(a.Num - b.Num)
	}
	if a.Equal(b) {
		return NumNode(0)
	}
	if IsZero(b) {
		return a
	}
	if IsZero(a) {
		return Simplify(OpNode(OpNeg, b))
	}
	return OpNode(OpSub, a, b)
}

func simplifyDiv(t *Node) *Node {
	a := Simplify(t.Args[0])
	b := Simplify(t.Args[1])
	if b.Kind == KindNum && b.Num == 1 {
		return a
	}
	if a.Kind == KindNum && b.Kind == KindNum {
		return NumNode(a.Num / b.Num)
	}
	if IsZero(a) {
		return NumNode(0)
	}
	return OpNode(OpDiv, a, b)
}

func simplifyPow(t *Node) *Node {
	a := Simplify(t.Args[0])
	b := Simplify(t.Args[1])
	if b.Kind == KindNum {
		switch b.Num {
		case 0:
			return NumNode(1)
		case 1:
			return a
		}
	}
	if a.Kind == KindNum && b.Kind == KindNum {
		return NumNode(math.Pow(a.Num, b.Num))
	}
	return OpNode(OpPow, a, b)
}

// IsZero reports whether Simplify(t) collapses to a literal numeric zero.
func IsZero(t *Node) bool {
	s := Simplify(t)
	return s.Kind == KindNum && s.Num == 0
}
