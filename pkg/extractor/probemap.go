package extractor

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/LambdaTest/covdiff/pkg/core"
	"github.com/LambdaTest/covdiff/pkg/utils"
	"gopkg.in/yaml.v3"
)

// ProbeMap describes how the probes of one compiled class map onto its source
// lines. It is written next to the class file by the build, e.g.
//
//	class: com/acme/Foo$Inner
//	id: 8f2ab1c9d0e3f417
//	source: Foo.java
//	probes: 4
//	lines:
//	  - line: 10
//	    instructions: [0]
//	  - line: 11
//	    instructions: [1]
//	    branches: [2, 3]
type ProbeMap struct {
	Class  string      `yaml:"class" validate:"required"`
	ID     string      `yaml:"id" validate:"required,hexadecimal,max=18"`
	Source string      `yaml:"source"`
	Probes int         `yaml:"probes" validate:"gte=0"`
	Lines  []LineProbe `yaml:"lines" validate:"dive"`
}

// LineProbe lists the probes guarding the instructions and branches of one line.
type LineProbe struct {
	Line         int   `yaml:"line" validate:"gt=0"`
	Instructions []int `yaml:"instructions" validate:"min=1"`
	Branches     []int `yaml:"branches"`
}

func readProbeMap(fsys fs.FS, name string) (*ProbeMap, core.ClassID, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, 0, err
	}
	pm := new(ProbeMap)
	if err := yaml.Unmarshal(content, pm); err != nil {
		return nil, 0, fmt.Errorf("malformed probe map: %w", err)
	}
	if err := utils.ValidateStruct(pm); err != nil {
		return nil, 0, err
	}
	id, err := core.ParseClassID(pm.ID)
	if err != nil {
		return nil, 0, err
	}
	for _, l := range pm.Lines {
		for _, p := range append(append([]int{}, l.Instructions...), l.Branches...) {
			if p < 0 || p >= pm.Probes {
				return nil, 0, fmt.Errorf("line %d references probe %d, class has %d probes", l.Line, p, pm.Probes)
			}
		}
	}
	return pm, id, nil
}

// coverage derives the class coverage from the probe hits of rec. A nil record
// means the class never ran and every probe counts as missed.
func (pm *ProbeMap) coverage(id core.ClassID, rec *core.ExecutionRecord) (*core.ClassCoverage, error) {
	if rec != nil && len(rec.Probes) != pm.Probes {
		return nil, fmt.Errorf("execution record has %d probes, class has %d", len(rec.Probes), pm.Probes)
	}
	hit := func(p int) bool {
		return rec != nil && rec.Hit(p)
	}

	byLine := make(map[int]*core.Line)
	for _, lp := range pm.Lines {
		line, ok := byLine[lp.Line]
		if !ok {
			line = &core.Line{Number: lp.Line}
			byLine[lp.Line] = line
		}
		line.Instructions = line.Instructions.Add(count(lp.Instructions, hit))
		line.Branches = line.Branches.Add(count(lp.Branches, hit))
	}

	cov := &core.ClassCoverage{ID: id, Name: pm.Class, SourceFile: pm.Source}
	for _, line := range byLine {
		cov.Lines = append(cov.Lines, *line)
	}
	sort.Slice(cov.Lines, func(i, j int) bool {
		return cov.Lines[i].Number < cov.Lines[j].Number
	})
	return cov, nil
}

func count(probes []int, hit func(int) bool) core.Counter {
	var c core.Counter
	for _, p := range probes {
		if hit(p) {
			c.Covered++
		} else {
			c.Missed++
		}
	}
	return c
}
