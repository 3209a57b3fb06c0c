// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compset implements CompositionSet: the per-phase bundle of energy
// model ASTs, their first and second partial derivatives, sublattice
// balance constraints, and an orthonormal null-space basis of those
// constraints used for projected-gradient moves on the feasible manifold.
package compset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
	"gonum.org/v1/gonum/mat"

	"github.com/Teslos/pycalphad/conditions"
	"github.com/Teslos/pycalphad/expr"
	"github.com/Teslos/pycalphad/models"
	"github.com/Teslos/pycalphad/phase"
)

// derivKey identifies a second-derivative entry by the pair of
// differentiating variables, stored with i <= j (upper-triangular, by
// index) so (i,j) and (j,i) share one cache slot.
type derivKey struct{ i, j int }

// CompositionSet owns everything needed to evaluate one phase's
// contribution to the global objective: its combined energy AST, every
// nonzero first/second partial derivative, and the null-space basis of its
// sublattice-balance constraints.
type CompositionSet struct {
	PhaseName string
	Phase     phase.Phase
	Params    []phase.Parameter
	Symbols   expr.SymbolTable

	AST *expr.Node

	VarNames []string
	VarIndex map[string]int

	FirstDeriv  map[string]*expr.Node
	SecondDeriv map[derivKey]*expr.Node

	// Z spans the null space of the linearised sublattice-balance
	// constraint matrix A (A*Z == 0); Y spans its row space. Both are
	// populated by BuildConstraintBasis.
	A *mat.Dense
	Y *mat.Dense
	Z *mat.Dense

	fracIdx int // VarIndex[phase.PhaseFracVar(PhaseName)]
}

// New builds a CompositionSet for p: combines every registered energy
// model into one AST, then differentiates it once and twice with respect
// to every variable the phase owns (site fractions plus the phase's own
// fraction variable).
func New(p phase.Phase, params []phase.Parameter, syms expr.SymbolTable) *CompositionSet {
	cs := &CompositionSet{
		PhaseName:   p.Name,
		Phase:       p,
		Params:      params,
		Symbols:     syms,
		AST:         models.BuildAllModels(p, params),
		VarNames:    p.AllSiteFracVars(),
		VarIndex:    map[string]int{},
		FirstDeriv:  map[string]*expr.Node{},
		SecondDeriv: map[derivKey]*expr.Node{},
	}
	for i, name := range cs.VarNames {
		cs.VarIndex[name] = i
	}
	cs.fracIdx = cs.VarIndex[phase.PhaseFracVar(p.Name)]
	cs.buildDerivatives()
	return cs
}

func (cs *CompositionSet) fracVar() string { return phase.PhaseFracVar(cs.PhaseName) }

func (cs *CompositionSet) buildDerivatives() {
	frac := cs.fracVar()
	for _, v := range cs.VarNames {
		var d *expr.Node
		if v == frac {
			// d(energy)/d(phase_frac) = energy itself: Gibbs energy
			// scales linearly with the amount of phase present.
			d = cs.AST.Clone()
		} else {
			d = expr.Simplify(expr.Differentiate(cs.AST, v, cs.Symbols))
		}
		if !expr.IsZero(d) {
			cs.FirstDeriv[v] = d
		}
	}

	for i, vi := range cs.VarNames {
		for j := i; j < len(cs.VarNames); j++ {
			vj := cs.VarNames[j]
			var d *expr.Node
			switch {
			case vi == frac && vj == frac:
				d = expr.NumNode(0)
			case vi == frac:
				d = expr.Simplify(expr.Differentiate(cs.AST, vj, cs.Symbols))
			case vj == frac:
				d = expr.Simplify(expr.Differentiate(cs.AST, vi, cs.Symbols))
			default:
				first := cs.FirstDeriv[vi]
				if first == nil {
					continue
				}
				d = expr.Simplify(expr.Differentiate(first, vj, cs.Symbols))
			}
			if d != nil && !expr.IsZero(d) {
				cs.SecondDeriv[derivKey{i, j}] = d
			}
		}
	}
}

func (cs *CompositionSet) valuesOf(c *conditions.EvalConditions, x []float64) expr.Values {
	return expr.Values{StateVars: c.StateVars, VarIndex: cs.VarIndex, X: x}
}

// EvaluateObjective returns the phase's energy contribution at x (indexed
// by cs.VarIndex).
func (cs *CompositionSet) EvaluateObjective(c *conditions.EvalConditions, x []float64) (float64, error) {
	return expr.Evaluate(cs.AST, cs.valuesOf(c, x), cs.Symbols)
}

// EvaluateObjectiveNamed mirrors the original evaluate_objective(conditions,
// map[string]float64) overload: callers supply values keyed by variable
// name instead of building an index array themselves.
func (cs *CompositionSet) EvaluateObjectiveNamed(c *conditions.EvalConditions, named map[string]float64) (float64, error) {
	x := make([]float64, len(cs.VarNames))
	for name, idx := range cs.VarIndex {
		v, ok := named[name]
		if !ok {
			return 0, fmt.Errorf("compset: %w: %q", expr.ErrUndefinedReference, name)
		}
		x[idx] = v
	}
	return cs.EvaluateObjective(c, x)
}

// EvaluateObjectiveGradient returns the gradient of the phase's
// contribution to the global objective: every entry is scaled by
// x[phase_frac] (chain rule on the phase amount), except the entry for
// phase_frac itself which is the unscaled single-phase gradient.
func (cs *CompositionSet) EvaluateObjectiveGradient(c *conditions.EvalConditions, x []float64) ([]float64, error) {
	grad, err := cs.EvaluateSinglePhaseObjectiveGradient(c, x)
	if err != nil {
		return nil, err
	}
	frac := x[cs.fracIdx]
	for i := range grad {
		if i != cs.fracIdx {
			grad[i] *= frac
		}
	}
	return grad, nil
}

// EvaluateSinglePhaseObjectiveGradient returns the gradient without the
// phase_frac scaling, as used during internal-hull refinement where phase
// fraction is fixed at 1.
func (cs *CompositionSet) EvaluateSinglePhaseObjectiveGradient(c *conditions.EvalConditions, x []float64) ([]float64, error) {
	grad := make([]float64, len(cs.VarNames))
	vals := cs.valuesOf(c, x)
	for v, d := range cs.FirstDeriv {
		val, err := expr.Evaluate(d, vals, cs.Symbols)
		if err != nil {
			return nil, err
		}
		grad[cs.VarIndex[v]] = val
	}
	return grad, nil
}

// EvaluateInternalObjectiveGradient cross-checks the symbolic gradient with
// a centered finite difference (h = 1e-7), via gosl/num.DerivCen5. The
// differentiated function is the phase's contribution to the global
// objective, x[phase_frac] times the phase energy, so every entry
// (phase_frac included) is comparable with EvaluateObjectiveGradient, and
// with EvaluateSinglePhaseObjectiveGradient when x[phase_frac] == 1.
func (cs *CompositionSet) EvaluateInternalObjectiveGradient(c *conditions.EvalConditions, x []float64) ([]float64, error) {
	grad := make([]float64, len(cs.VarNames))
	xc := append([]float64(nil), x...)
	var evalErr error
	for i := range xc {
		f := func(t float64) float64 {
			saved := xc[i]
			xc[i] = t
			v, err := cs.EvaluateObjective(c, xc)
			v *= xc[cs.fracIdx]
			xc[i] = saved
			if err != nil {
				evalErr = err
			}
			return v
		}
		d := num.DerivCen5(x[i], 1e-7, f)
		grad[i] = d
	}
	if evalErr != nil {
		return nil, evalErr
	}
	return grad, nil
}

// EvaluateObjectiveHessianMatrix returns the lower-triangular-filled
// symmetric Hessian as a dense n x n slice-of-slices. A second derivative
// is scaled by x[phase_frac] unless one of the differentiating variables is
// phase_frac itself (the mixed partial w.r.t. phase fraction is the
// single-phase first derivative by construction, already unscaled).
func (cs *CompositionSet) EvaluateObjectiveHessianMatrix(c *conditions.EvalConditions, x []float64) ([][]float64, error) {
	n := len(cs.VarNames)
	H := make([][]float64, n)
	for i := range H {
		H[i] = make([]float64, n)
	}
	vals := cs.valuesOf(c, x)
	frac := x[cs.fracIdx]
	for k, d := range cs.SecondDeriv {
		val, err := expr.Evaluate(d, vals, cs.Symbols)
		if err != nil {
			return nil, err
		}
		if k.i != cs.fracIdx && k.j != cs.fracIdx {
			val *= frac
		}
		H[k.i][k.j] = val
		H[k.j][k.i] = val
	}
	return H, nil
}

// HessianSparsityStructure returns every (i,j), i<=j, that is structurally
// nonzero.
func (cs *CompositionSet) HessianSparsityStructure() [][2]int {
	out := make([][2]int, 0, len(cs.SecondDeriv))
	for k := range cs.SecondDeriv {
		out = append(out, [2]int{k.i, k.j})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a][0] != out[b][0] {
			return out[a][0] < out[b][0]
		}
		return out[a][1] < out[b][1]
	})
	return out
}

// BuildConstraintBasis assembles the sublattice-balance constraint matrix A
// (one row per sublattice, coefficient 1 on each of that sublattice's site
// fraction columns, 0 elsewhere, phase_frac column always 0) and derives
// its null-space basis Z and row-space basis Y via full QR of A^T, using
// gonum.org/v1/gonum/mat's Householder QR.
func (cs *CompositionSet) BuildConstraintBasis() error {
	n := len(cs.VarNames)
	m := len(cs.Phase.Sublattices)
	A := mat.NewDense(m, n, nil)
	for subl, s := range cs.Phase.Sublattices {
		for _, sp := range s.SpeciesNames() {
			col := cs.VarIndex[phase.SiteFracVar(cs.PhaseName, subl, sp)]
			A.Set(subl, col, 1)
		}
	}
	cs.A = A

	var At mat.Dense
	At.CloneFrom(A.T())

	var qr mat.QR
	qr.Factorize(&At)

	var Q mat.Dense
	qr.QTo(&Q)

	rows, _ := Q.Dims()
	if m > rows {
		return fmt.Errorf("compset: %s: ConstraintBasisFailure: rank %d exceeds variable count %d", cs.PhaseName, m, rows)
	}
	cs.Y = mat.DenseCopyOf(Q.Slice(0, rows, 0, m))
	cs.Z = mat.DenseCopyOf(Q.Slice(0, rows, m, rows))

	// invariant check: A*Z ~= 0
	var AZ mat.Dense
	AZ.Mul(cs.A, cs.Z)
	for i := 0; i < AZ.RawMatrix().Rows; i++ {
		for j := 0; j < AZ.RawMatrix().Cols; j++ {
			if abs(AZ.At(i, j)) > 1e-8 {
				chk.Panic("compset: %s: BuildConstraintBasis: A*Z not null at (%d,%d) = %g", cs.PhaseName, i, j, AZ.At(i, j))
			}
		}
	}
	return nil
}

// CloneWithRenamedPhase duplicates cs under newName: every AST, derivative
// and variable name that mentions cs.PhaseName is rewritten via
// expr.Node.RenameSym, following the "phase duplication for miscibility
// gaps" strategy of SPEC_FULL.md §9 -- a pure functional rewrite, no shared
// mutable state. The constraint basis (A, Y, Z) is carried over unchanged:
// it depends only on which columns belong to which sublattice, not on
// their names, so renaming does not invalidate it.
func (cs *CompositionSet) CloneWithRenamedPhase(newName string) *CompositionSet {
	subs := make(map[string]string, len(cs.VarNames))
	for _, v := range cs.VarNames {
		subs[v] = strings.Replace(v, cs.PhaseName, newName, 1)
	}

	renamedPhase := cs.Phase
	renamedPhase.Name = newName

	out := &CompositionSet{
		PhaseName:   newName,
		Phase:       renamedPhase,
		Params:      cs.Params,
		Symbols:     cs.Symbols,
		AST:         cs.AST.RenameSym(subs),
		VarNames:    make([]string, len(cs.VarNames)),
		VarIndex:    make(map[string]int, len(cs.VarIndex)),
		FirstDeriv:  make(map[string]*expr.Node, len(cs.FirstDeriv)),
		SecondDeriv: make(map[derivKey]*expr.Node, len(cs.SecondDeriv)),
		A:           cs.A,
		Y:           cs.Y,
		Z:           cs.Z,
		fracIdx:     cs.fracIdx,
	}
	for i, v := range cs.VarNames {
		nv := subs[v]
		out.VarNames[i] = nv
		out.VarIndex[nv] = i
	}
	for v, d := range cs.FirstDeriv {
		out.FirstDeriv[subs[v]] = d.RenameSym(subs)
	}
	for k, d := range cs.SecondDeriv {
		out.SecondDeriv[k] = d.RenameSym(subs)
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
