// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by Evaluate. Wrap with fmt.Errorf("...: %w", ...)
// at call sites that need extra context; callers compare with errors.Is.
var (
	ErrUndefinedReference = errors.New("expr: undefined reference")
	ErrOutOfRange          = errors.New("expr: piecewise evaluated outside all branch bounds")
	ErrCyclicSymbol        = errors.New("expr: symbol table reference cycle")
)

// Values supplies the numbered-variable values addressed through VarIndex,
// plus the free-standing state variables (T, P, ...) addressed by name.
type Values struct {
	StateVars map[string]float64
	VarIndex  map[string]int
	X         []float64
}

// Evaluate computes the numeric value of t. Symbol references are resolved
// first against vals.StateVars, then vals.VarIndex/vals.X, then syms; an
// unresolved symbol is an error, never a silent zero.
func Evaluate(t *Node, vals Values, syms SymbolTable) (float64, error) {
	return evaluate(t, vals, syms, 0)
}

func evaluate(t *Node, vals Values, syms SymbolTable, depth int) (float64, error) {
	if t == nil {
		return 0, fmt.Errorf("%w: nil node", ErrUndefinedReference)
	}
	switch t.Kind {
	case KindNum:
		return t.Num, nil
	case KindSym:
		if v, ok := vals.StateVars[t.Sym]; ok {
			return v, nil
		}
		if idx, ok := vals.VarIndex[t.Sym]; ok {
			if idx < 0 || idx >= len(vals.X) {
				return 0, fmt.Errorf("%w: %q index %d out of range", ErrUndefinedReference, t.Sym, idx)
			}
			return vals.X[idx], nil
		}
		if def, ok := syms[t.Sym]; ok {
			if depth > maxSymbolDepth {
				return 0, fmt.Errorf("%w: %q", ErrCyclicSymbol, t.Sym)
			}
			return evaluate(def, vals, syms, depth+1)
		}
		return 0, fmt.Errorf("%w: %q", ErrUndefinedReference, t.Sym)
	}

	switch t.Head {
	case OpAdd:
		sum := 0.0
		for _, a := range t.Args {
			v, err := evaluate(a, vals, syms, depth)
			if err != nil {
				return 0, err
			}
			sum += v
		}
		return sum, nil

	case OpMul:
		prod := 1.0
		for _, a := range t.Args {
			v, err := evaluate(a, vals, syms, depth)
			if err != nil {
				return 0, err
			}
			prod *= v
		}
		return prod, nil

	case OpSub:
		a, err := evaluate(t.Args[0], vals, syms, depth)
		if err != nil {
			return 0, err
		}
		b, err := evaluate(t.Args[1], vals, syms, depth)
		if err != nil {
			return 0, err
		}
		return a - b, nil

	case OpDiv:
		a, err := evaluate(t.Args[0], vals, syms, depth)
		if err != nil {
			return 0, err
		}
		b, err := evaluate(t.Args[1], vals, syms, depth)
		if err != nil {
			return 0, err
		}
		return a / b, nil

	case OpPow:
		a, err := evaluate(t.Args[0], vals, syms, depth)
		if err != nil {
			return 0, err
		}
		b, err := evaluate(t.Args[1], vals, syms, depth)
		if err != nil {
			return 0, err
		}
		return math.Pow(a, b), nil

	case OpNeg:
		a, err := evaluate(t.Args[0], vals, syms, depth)
		if err != nil {
			return 0, err
		}
		return -a, nil

	case OpLn:
		a, err := evaluate(t.Args[0], vals, syms, depth)
		if err != nil {
			return 0, err
		}
		return math.Log(a), nil

	case OpExp:
		a, err := evaluate(t.Args[0], vals, syms, depth)
		if err != nil {
			return 0, err
		}
		return math.Exp(a), nil

	case OpPiec:
		T, ok := vals.StateVars["T"]
		if !ok {
			return 0, fmt.Errorf("%w: piecewise node requires state variable T", ErrUndefinedReference)
		}
		for i := 0; i+2 < len(t.Args); i += 3 {
			lo := t.Args[i+1].Num
			hi := t.Args[i+2].Num
			if T >= lo && T < hi {
				return evaluate(t.Args[i], vals, syms, depth)
			}
		}
		return 0, fmt.Errorf("%w: T=%g", ErrOutOfRange, T)
	}

	return 0, fmt.Errorf("%w: unrecognised operator head %q", ErrUndefinedReference, t.Head)
}
