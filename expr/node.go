// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expr implements the symbolic expression-tree layer used to build,
// simplify, differentiate and evaluate Gibbs-energy expressions.
//
// A tree is a small tagged union (Kind selects which fields are valid)
// rather than an interface-per-node-type hierarchy: CALPHAD energy
// expressions are built and torn down by the thousands during a single
// minimization run, and a concrete struct avoids an allocation-heavy
// interface dispatch for every node visited.
package expr

import "github.com/cpmech/gosl/chk"

// Kind selects which fields of a Node are meaningful.
type Kind int

const (
	KindNum Kind = iota // literal number, held in Num
	KindSym             // named symbol/variable, held in Sym
	KindOp              // n-ary operation, Head selects the operator, Args holds operands
)

// Recognised operator heads. Heads are plain strings (not a closed enum) so
// that new transcendental functions can be added without touching Kind.
const (
	OpAdd  = "+"
	OpSub  = "-"
	OpMul  = "*"
	OpDiv  = "/"
	OpPow  = "^"
	OpLn   = "ln"
	OpExp  = "exp"
	OpNeg  = "neg"  // unary negation, single argument
	OpPiec = "@"    // piecewise-in-temperature: args are (branch, lo, hi) triples, flattened
)

// Node is one element of an expression tree. Trees are built bottom-up and
// never mutated in place: Simplify and Differentiate both return new trees.
type Node struct {
	Kind Kind
	Num  float64
	Sym  string
	Head string
	Args []*Node
}

// NumNode builds a literal numeric node.
func NumNode(v float64) *Node {
	return &Node{Kind: KindNum, Num: v}
}

// SymNode builds a symbol-reference node.
func SymNode(name string) *Node {
	return &Node{Kind: KindSym, Sym: name}
}

// OpNode builds an n-ary operation node.
func OpNode(head string, args ...*Node) *Node {
	return &Node{Kind: KindOp, Head: head, Args: args}
}

// Add, Mul, Pow, Ln, Exp, Neg, Div, Sub are small convenience constructors;
// they do not simplify their result.
func Add(args ...*Node) *Node { return OpNode(OpAdd, args...) }
func Mul(args ...*Node) *Node { return OpNode(OpMul, args...) }
func Sub(a, b *Node) *Node    { return OpNode(OpSub, a, b) }
func Div(a, b *Node) *Node    { return OpNode(OpDiv, a, b) }
func Pow(a, b *Node) *Node    { return OpNode(OpPow, a, b) }
func Ln(a *Node) *Node        { return OpNode(OpLn, a) }
func Exp(a *Node) *Node       { return OpNode(OpExp, a) }
func Neg(a *Node) *Node       { return OpNode(OpNeg, a) }

// Piecewise builds a temperature-bounded node. branches and los/his must be
// parallel slices of equal length: branch i is selected when lo[i] <= T < hi[i].
func Piecewise(branches []*Node, los, his []float64) *Node {
	if len(branches) != len(los) || len(branches) != len(his) {
		chk.Panic("expr: Piecewise requires equal-length branches/los/his, got %d/%d/%d", len(branches), len(los), len(his))
	}
	args := make([]*Node, 0, len(branches)*3)
	for i, b := range branches {
		args = append(args, b, NumNode(los[i]), NumNode(his[i]))
	}
	return OpNode(OpPiec, args...)
}

// Clone returns a deep copy of t.
func (t *Node) Clone() *Node {
	if t == nil {
		return nil
	}
	n := &Node{Kind: t.Kind, Num: t.Num, Sym: t.Sym, Head: t.Head}
	if t.Args != nil {
		n.Args = make([]*Node, len(t.Args))
		for i, a := range t.Args {
			n.Args[i] = a.Clone()
		}
	}
	return n
}

// RenameSym returns a copy of t with every symbol reference equal to a key of
// subs rewritten to the corresponding value. Used to duplicate a phase's
// energy-model ASTs under a new name when a miscibility gap splits one phase
// into two composition sets.
func (t *Node) RenameSym(subs map[string]string) *Node {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KindSym:
		if to, ok := subs[t.Sym]; ok {
			return SymNode(to)
		}
		return SymNode(t.Sym)
	case KindNum:
		return NumNode(t.Num)
	default:
		args := make([]*Node, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.RenameSym(subs)
		}
		return &Node{Kind: KindOp, Head: t.Head, Args: args}
	}
}

// Vars appends the name of every symbol reference in t to out, in
// depth-first order, and returns the extended slice. A symbol referenced
// more than once appears once per reference; no dedup is done.
func (t *Node) Vars(out []string) []string {
	if t == nil {
		return out
	}
	switch t.Kind {
	case KindSym:
		return append(out, t.Sym)
	case KindOp:
		for _, a := range t.Args {
			out = a.Vars(out)
		}
	}
	return out
}

// Equal reports structural equality (not algebraic equivalence): same kind,
// same numeric/symbol/head values, same argument trees in the same order.
func (t *Node) Equal(o *Node) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindNum:
		return t.Num == o.Num
	case KindSym:
		return t.Sym == o.Sym
	case KindOp:
		if t.Head != o.Head || len(t.Args) != len(o.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(o.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}
