// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pycalphad-gmin runs one global-minimization calculation from a
// .sysdef JSON file and a temperature given on the command line; the target
// composition is an equal mole-fraction split over the system's elements.
package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/Teslos/pycalphad/conditions"
	"github.com/Teslos/pycalphad/gmin"
	"github.com/Teslos/pycalphad/phase"
	"github.com/Teslos/pycalphad/sysdef"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".sysdef", true)
	temperature := io.ArgToFloat(1, 1000.0)
	verbose := io.ArgToBool(2, true)

	// message
	if verbose {
		io.PfWhite("\npycalphad-gmin -- CALPHAD-style global Gibbs-energy minimization\n\n")
		io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n\n")

		io.Pf("\n%v\n", io.ArgsTable(
			"system definition file", "fnamepath", fnamepath,
			"temperature [K]", "temperature", temperature,
			"show messages", "verbose", verbose,
		))
	}

	// system definition
	def := sysdef.ReadSystemDef(fnamepath)
	phases := def.BuildPhases()
	params := def.BuildParameters()

	g := gmin.New(phases, params, nil)
	g.Verbose = verbose
	g.SampleOptions.NInit = def.NInit
	g.SampleOptions.NRef = def.NRef
	g.TiePointOptions.CoplanarityAllowance = def.CoplanarityAllowance
	g.TiePointOptions.CriticalEdgeLength = def.CriticalEdgeLength

	// conditions: equal mole fraction split over every element (Run reads
	// only the independent ones; the last element is dependent); a real
	// front-end would read this from the command line or an additional
	// input file.
	conds := conditions.NewEvalConditions(def.Elements, phaseNames(phases))
	conds.StateVars["T"] = temperature
	if n := len(def.Elements); n > 0 {
		for _, el := range def.Elements {
			conds.Xfrac[el] = 1.0 / float64(n)
		}
	}

	// run
	tps, err := g.Run(conds)
	if err != nil {
		chk.Panic("Run failed:\n%v", err)
	}

	if verbose {
		io.Pf("\nfound %d tie point(s):\n", len(tps))
		for _, tp := range tps {
			io.Pf("  %-12s  frac=%.6f  energy=%.6f  x=%v\n", tp.PhaseName, tp.PhaseFraction, tp.Energy, tp.MoleFracs)
		}
	}
}

func phaseNames(phases []phase.Phase) []string {
	out := make([]string, len(phases))
	for i, p := range phases {
		out[i] = p.Name
	}
	return out
}
