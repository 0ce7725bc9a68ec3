// Package aggregate rolls bundle coverage up into a total, package, class tree.
package aggregate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/LambdaTest/covdiff/pkg/core"
)

// Unit selects the counter the tree is built from.
type Unit int

// Supported units.
const (
	Lines Unit = iota
	Branches
	Instructions
)

var unitNames = map[Unit]string{
	Lines:        "lines",
	Branches:     "branches",
	Instructions: "instructions",
}

func (u Unit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// ParseUnit parses the name of a unit, case insensitive.
func ParseUnit(s string) (Unit, error) {
	for u, name := range unitNames {
		if strings.EqualFold(s, name) {
			return u, nil
		}
	}
	return Lines, fmt.Errorf("unknown coverage unit %q, expected one of lines, branches, instructions", s)
}

func (u Unit) counter(c *core.ClassCoverage) core.Counter {
	switch u {
	case Branches:
		return c.BranchCounter()
	case Instructions:
		return c.InstructionCounter()
	default:
		return c.LineCounter()
	}
}

// CoverageInfo is one node of the aggregate tree. A parent's totals are the
// sums of its children's totals.
type CoverageInfo struct {
	Name     string
	Total    int
	Covered  int
	children map[string]*CoverageInfo
	order    []string
}

func newInfo(name string) *CoverageInfo {
	return &CoverageInfo{Name: name, children: make(map[string]*CoverageInfo)}
}

// add attaches child and folds its counts into the node. A child with a name
// already present is merged into the existing one.
func (c *CoverageInfo) add(child *CoverageInfo) {
	c.Total += child.Total
	c.Covered += child.Covered
	if c.children == nil {
		c.children = make(map[string]*CoverageInfo)
	}
	existing, ok := c.children[child.Name]
	if !ok {
		c.children[child.Name] = child
		c.order = append(c.order, child.Name)
		return
	}
	if len(child.order) == 0 {
		existing.Total += child.Total
		existing.Covered += child.Covered
		return
	}
	for _, name := range child.order {
		existing.add(child.children[name])
	}
}

// Child returns the named child, or an empty node when there is none.
func (c *CoverageInfo) Child(name string) *CoverageInfo {
	if child, ok := c.children[name]; ok {
		return child
	}
	return &CoverageInfo{Name: name}
}

// Children returns the children in insertion order.
func (c *CoverageInfo) Children() []*CoverageInfo {
	out := make([]*CoverageInfo, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.children[name])
	}
	return out
}

// Missed returns the units that were not covered.
func (c *CoverageInfo) Missed() int {
	return c.Total - c.Covered
}

// Percent returns the covered share in percent, zero for an empty node.
func (c *CoverageInfo) Percent() float64 {
	if c.Total == 0 {
		return 0
	}
	return 100 * float64(c.Covered) / float64(c.Total)
}

type infoJSON struct {
	Name     string          `json:"name"`
	Total    int             `json:"total"`
	Covered  int             `json:"covered"`
	Children []*CoverageInfo `json:"children,omitempty"`
}

// MarshalJSON encodes the node with its children in insertion order.
func (c *CoverageInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(infoJSON{Name: c.Name, Total: c.Total, Covered: c.Covered, Children: c.Children()})
}

// VisitFunc observes a class node once its counts are final. It gets a copy
// and cannot change the tree.
type VisitFunc func(pkg, class string, info CoverageInfo)

// Aggregate builds the coverage tree of bundle, walking packages and classes in
// bundle order. visit may be nil.
func Aggregate(bundle *core.BundleCoverage, unit Unit, visit VisitFunc) *CoverageInfo {
	root := newInfo(bundle.Name)
	for _, p := range bundle.Packages {
		pkg := newInfo(p.Name)
		for _, c := range p.Classes {
			counter := unit.counter(c)
			pkg.add(&CoverageInfo{Name: c.SimpleName(), Total: counter.Total(), Covered: counter.Covered})
		}
		if visit != nil {
			for _, class := range pkg.Children() {
				visit(p.Name, class.Name, *class)
			}
		}
		root.add(pkg)
	}
	return root
}
