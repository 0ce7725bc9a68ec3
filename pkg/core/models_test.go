package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ClassID
		wantErr bool
	}{
		{"round trip", ClassID(0xf00).String(), 0xf00, false},
		{"prefixed upper case", "0xABCDEF", 0xabcdef, false},
		{"not hex", "xyz", 0, true},
		{"too long", "1ffffffffffffffff", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClassID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseClassID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseClassID() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExecutionRecord_Hit(t *testing.T) {
	rec := &ExecutionRecord{Probes: []bool{true, false, true}}
	assert.True(t, rec.Hit(0))
	assert.False(t, rec.Hit(1))
	assert.False(t, rec.Hit(-1))
	assert.False(t, rec.Hit(3))
	assert.Equal(t, 2, rec.HitCount())
}

func TestLine_Status(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want LineStatus
	}{
		{"no instructions", Line{}, Empty},
		{"nothing covered", Line{Instructions: Counter{Missed: 2}}, NotCovered},
		{"everything covered", Line{Instructions: Counter{Covered: 2}}, FullyCovered},
		{"some instructions missed", Line{Instructions: Counter{Missed: 1, Covered: 1}}, PartlyCovered},
		{"some branches missed", Line{Instructions: Counter{Covered: 3}, Branches: Counter{Missed: 1, Covered: 1}}, PartlyCovered},
		{"branches without covered instructions", Line{Instructions: Counter{Missed: 3}, Branches: Counter{Missed: 2}}, NotCovered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.line.Status(); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassCoverage_Counters(t *testing.T) {
	cov := &ClassCoverage{
		Name: "com/acme/Foo$Inner",
		Lines: []Line{
			{Number: 1, Instructions: Counter{Covered: 2}},
			{Number: 2, Instructions: Counter{Missed: 1, Covered: 1}, Branches: Counter{Missed: 1, Covered: 1}},
			{Number: 3, Instructions: Counter{Missed: 4}},
			{Number: 4},
		},
	}
	assert.Equal(t, "com.acme", cov.PackageName())
	assert.Equal(t, "Foo$Inner", cov.SimpleName())
	assert.Equal(t, Counter{Missed: 1, Covered: 2}, cov.LineCounter())
	assert.Equal(t, Counter{Missed: 1, Covered: 1}, cov.BranchCounter())
	assert.Equal(t, Counter{Missed: 5, Covered: 3}, cov.InstructionCounter())
	assert.Equal(t, "", (&ClassCoverage{Name: "Main"}).PackageName())
}

func TestNewBundle(t *testing.T) {
	results := []ClassResult{
		{Location: "b/Two", Coverage: &ClassCoverage{Name: "b/Two"}},
		{Location: "a/One", Coverage: &ClassCoverage{Name: "a/One"}},
		{Location: "a/Bad", Err: errors.New("truncated")},
		{Location: "b/Three", Coverage: &ClassCoverage{Name: "b/Three"}},
	}
	bundle, skipped := NewBundle("baseline", results)
	require.Len(t, bundle.Packages, 2)
	assert.Equal(t, "b", bundle.Packages[0].Name)
	assert.Len(t, bundle.Packages[0].Classes, 2)
	assert.Equal(t, "a", bundle.Packages[1].Name)
	assert.Equal(t, 3, bundle.ClassCount())
	require.Len(t, skipped, 1)
	assert.Equal(t, "a/Bad", skipped[0].Location)
}

func TestClassFilter_Allows(t *testing.T) {
	var all ClassFilter
	assert.True(t, all.Allows(1))
	f := ClassFilter{1: {}}
	assert.True(t, f.Allows(1))
	assert.False(t, f.Allows(2))
}

func TestLineStatus_Text(t *testing.T) {
	for _, s := range []LineStatus{Empty, NotCovered, FullyCovered, PartlyCovered} {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var got LineStatus
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}
	assert.Equal(t, NotCovered|FullyCovered, PartlyCovered)
	var s LineStatus
	assert.Error(t, s.UnmarshalText([]byte("covered")))
	assert.Equal(t, "LineStatus(7)", LineStatus(7).String())
}
