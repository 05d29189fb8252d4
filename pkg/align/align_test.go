package align

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yumyai/gcfnet/pkg/model"
)

// one single-domain gene per entry
func mkBGC(name string, domains ...string) *model.BGC {
	b := &model.BGC{Name: name}
	for i, d := range domains {
		b.Genes = append(b.Genes, &model.Gene{
			GeneID:  name + "_g" + string(rune('a'+i)),
			Strand:  1,
			Domains: []string{d},
		})
	}
	return b
}

func TestGlocalIdentical(t *testing.T) {
	a := mkBGC("A", "x", "y", "z")
	b := mkBGC("B", "x", "y", "z")

	pa := Glocal(a, b)

	assert.False(t, pa.Reverse)
	assert.Equal(t, 3, pa.Length)
	assert.Equal(t, 0, pa.StartA)
	assert.Equal(t, [2]int{0, 3}, pa.RangeA)
	assert.Equal(t, [2]int{0, 3}, pa.RangeB)
}

func TestGlocalReversedOrientation(t *testing.T) {
	a := mkBGC("A", "x", "y", "z")
	b := mkBGC("B", "z", "y", "x")

	pa := Glocal(a, b)

	assert.True(t, pa.Reverse)
	assert.Equal(t, 3, pa.Length)
	assert.Equal(t, [2]int{0, 3}, pa.RangeA)
	assert.Equal(t, [2]int{0, 3}, pa.RangeB)
}

func TestGlocalTieBreaksForward(t *testing.T) {
	// a palindrome matches equally well in both orientations
	a := mkBGC("A", "x")
	b := mkBGC("B", "x")

	pa := Glocal(a, b)

	assert.False(t, pa.Reverse)
	assert.Equal(t, 1, pa.Length)
}

func TestGlocalNoCommonSubstring(t *testing.T) {
	a := mkBGC("A", "x", "y")
	b := mkBGC("B", "p", "q")

	pa := Glocal(a, b)

	assert.Equal(t, 0, pa.Length)
	assert.False(t, pa.Reverse)
	assert.Equal(t, [2]int{0, 2}, pa.RangeA)
	assert.Equal(t, [2]int{0, 2}, pa.RangeB)
}

func TestGlocalSkipsDomainlessGenes(t *testing.T) {
	a := mkBGC("A", "x", "y")
	// insert a domainless gene between x and y
	a.Genes = []*model.Gene{
		a.Genes[0],
		{GeneID: "A_spacer", Strand: 1},
		a.Genes[1],
	}
	b := mkBGC("B", "x", "y")

	pa := Glocal(a, b)

	assert.Equal(t, 2, pa.Length)
	// the matched gene range spans the spacer gene
	assert.Equal(t, [2]int{0, 3}, pa.RangeA)
	assert.Equal(t, [2]int{0, 2}, pa.RangeB)
}

func TestGlocalPartialMatchOffsets(t *testing.T) {
	a := mkBGC("A", "p", "x", "y", "q")
	b := mkBGC("B", "r", "r", "x", "y")

	pa := Glocal(a, b)

	assert.False(t, pa.Reverse)
	assert.Equal(t, 2, pa.Length)
	assert.Equal(t, 1, pa.StartA)
	assert.Equal(t, 2, pa.StartB)
	assert.Equal(t, [2]int{1, 3}, pa.RangeA)
	assert.Equal(t, [2]int{2, 4}, pa.RangeB)
}

func TestGlobalUsesCoreRange(t *testing.T) {
	a := mkBGC("A", "p", "x", "y", "q")
	a.Genes[1].Core = true
	a.Genes[2].Core = true
	b := mkBGC("B", "x", "y")
	b.Genes[0].Core = true
	b.Genes[1].Core = true

	pa := Global(a, b)

	assert.False(t, pa.Reverse)
	assert.Equal(t, [2]int{1, 3}, pa.RangeA)
	assert.Equal(t, [2]int{0, 2}, pa.RangeB)
	assert.Equal(t, 2, pa.Length)
}

func TestGlobalWithoutCoreGenesFallsBackToFullRange(t *testing.T) {
	a := mkBGC("A", "x", "y")
	b := mkBGC("B", "x")

	pa := Global(a, b)

	assert.Equal(t, [2]int{0, 2}, pa.RangeA)
	assert.Equal(t, [2]int{0, 1}, pa.RangeB)
}

func TestZeroDomainBGC(t *testing.T) {
	a := &model.BGC{Name: "A", Genes: []*model.Gene{{GeneID: "A_1", Strand: 1}}}
	b := mkBGC("B", "x")

	pa := Glocal(a, b)

	assert.Equal(t, 0, pa.Length)
	assert.Equal(t, 1, pa.MatchedDomains)
	assert.Equal(t, 1, pa.TotalDomains)
}

func TestAlignModeDispatch(t *testing.T) {
	a := mkBGC("A", "x", "y")
	b := mkBGC("B", "y", "x")

	glocal := Align(a, b, model.ModeAuto)
	global := Align(a, b, model.ModeGlobal)

	assert.True(t, glocal.Reverse)
	assert.False(t, global.Reverse)
}
