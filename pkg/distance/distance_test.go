package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yumyai/gcfnet/pkg/model"
)

// mkBGC builds a BGC with one gene per domain list entry.
func mkBGC(name string, genes ...[]string) *model.BGC {
	b := &model.BGC{Name: name, Product: "terpene"}
	for _, domains := range genes {
		b.Genes = append(b.Genes, &model.Gene{Strand: 1, Domains: domains})
	}
	return b
}

// seqsFor assigns the same aligned sequence per domain id to every
// occurrence in the given BGCs, so identity between them is 1.
func seqsFor(seqByDomain map[string]string, bgcs ...*model.BGC) model.SeqTable {
	table := make(model.SeqTable)
	for _, b := range bgcs {
		seen := make(map[string]int)
		for _, g := range b.Genes {
			for _, d := range g.Domains {
				occ := seen[d]
				seen[d]++
				table[model.OccurrenceKey{BGC: b.Name, Domain: d, Occ: occ}] = seqByDomain[d]
			}
		}
	}
	return table
}

func TestIdenticalPairDistanceZero(t *testing.T) {
	a := mkBGC("A", []string{"dom1"}, []string{"dom2", "dom3"})
	b := mkBGC("B", []string{"dom1"}, []string{"dom2", "dom3"})
	seqs := seqsFor(map[string]string{"dom1": "MKLV", "dom2": "AR-T", "dom3": "GG--"}, a, b)

	c := NewCalculator(seqs, model.ModeGlocal)
	rec := c.Distance(0, 1, a, b, model.ClassMix)

	assert.InDelta(t, 1.0, rec.Jaccard, 1e-9)
	assert.InDelta(t, 1.0, rec.Adjacency, 1e-9)
	assert.InDelta(t, 1.0, rec.Identity, 1e-9)
	assert.InDelta(t, 0.0, rec.Distance, 1e-9)
}

func TestNoSharedDomainsDistanceOne(t *testing.T) {
	a := mkBGC("A", []string{"dom1", "dom2"})
	c := mkBGC("C", []string{"dom3"})
	seqs := seqsFor(map[string]string{"dom1": "AAAA", "dom2": "CCCC", "dom3": "DDDD"}, a, c)

	calc := NewCalculator(seqs, model.ModeGlocal)
	rec := calc.Distance(0, 1, a, c, model.ClassMix)

	assert.Equal(t, 0.0, rec.Jaccard)
	assert.Equal(t, 0.0, rec.Adjacency)
	assert.Equal(t, 0.0, rec.Identity)
	assert.Equal(t, 1.0, rec.Distance)
}

func TestZeroDomainBGCDegrades(t *testing.T) {
	a := &model.BGC{Name: "A", Genes: []*model.Gene{{Strand: 1}}}
	b := mkBGC("B", []string{"dom1"})

	calc := NewCalculator(model.SeqTable{}, model.ModeGlocal)
	rec := calc.Distance(0, 1, a, b, model.ClassMix)

	assert.Equal(t, 1.0, rec.Distance)
	assert.Equal(t, 0.0, rec.Jaccard)
	assert.Equal(t, 0, rec.Length)
}

func TestDistanceSymmetric(t *testing.T) {
	a := mkBGC("A", []string{"dom1"}, []string{"dom2"}, []string{"dom4"})
	b := mkBGC("B", []string{"dom2"}, []string{"dom1"}, []string{"dom3"})
	seqs := seqsFor(map[string]string{
		"dom1": "MKLV", "dom2": "ARTT", "dom3": "GGGG", "dom4": "PPPP",
	}, a, b)
	// diverge one shared sequence so the identity term is non-trivial
	seqs[model.OccurrenceKey{BGC: "B", Domain: "dom1", Occ: 0}] = "MKIV"

	calc := NewCalculator(seqs, model.ModeGlocal)
	ab := calc.Distance(0, 1, a, b, model.ClassMix)
	ba := calc.Distance(0, 1, b, a, model.ClassMix)

	assert.InDelta(t, ab.Distance, ba.Distance, 1e-9)
	assert.InDelta(t, ab.Jaccard, ba.Jaccard, 1e-9)
	assert.InDelta(t, ab.Adjacency, ba.Adjacency, 1e-9)
	assert.InDelta(t, ab.Identity, ba.Identity, 1e-9)
	assert.Equal(t, ab.Reverse, ba.Reverse)
}

func TestDistanceInUnitInterval(t *testing.T) {
	a := mkBGC("A", []string{"dom1", "dom1"}, []string{"dom2"})
	b := mkBGC("B", []string{"dom1"}, []string{"dom3", "dom2"})
	seqs := seqsFor(map[string]string{"dom1": "MML-", "dom2": "AR--", "dom3": "GGGG"}, a, b)

	calc := NewCalculator(seqs, model.ModeGlocal)
	rec := calc.Distance(0, 1, a, b, model.ClassMix)

	assert.GreaterOrEqual(t, rec.Distance, 0.0)
	assert.LessOrEqual(t, rec.Distance, 1.0)
}

func TestAnchorBoostScoresAnchorSubrange(t *testing.T) {
	// shared anchor core, divergent accessory tails
	a := mkBGC("A", []string{"acc1"}, []string{"PF00109"}, []string{"dom2"}, []string{"acc2"})
	b := mkBGC("B", []string{"other1"}, []string{"PF00109"}, []string{"dom2"}, []string{"other2"})
	seqs := seqsFor(map[string]string{
		"PF00109": "MKYT", "dom2": "ARLL",
		"acc1": "AAAA", "acc2": "CCCC", "other1": "DDDD", "other2": "EEEE",
	}, a, b)

	// global mode compares the full gene ranges, so without the anchor
	// boost the divergent tails would drag the Jaccard term down
	calc := NewCalculator(seqs, model.ModeGlobal)
	rec := calc.Distance(0, 1, a, b, model.ClassMix)

	assert.InDelta(t, 1.0, rec.Jaccard, 1e-9)
	assert.InDelta(t, 1.0, rec.Adjacency, 1e-9)
}

func TestMultisetJaccardBoundsDuplicates(t *testing.T) {
	a := map[string]int{"dom1": 2, "dom2": 1}
	b := map[string]int{"dom1": 1, "dom3": 1}

	// inter = 1, union = 2 + 1 + 1
	assert.InDelta(t, 0.25, multisetJaccard(a, b), 1e-9)
}

func TestAlignedIdentityIgnoresSharedGapColumns(t *testing.T) {
	assert.InDelta(t, 1.0, alignedIdentity("AR--T", "AR--T"), 1e-9)
	assert.InDelta(t, 0.5, alignedIdentity("AAAA", "AA--"), 1e-9)
	assert.Equal(t, 0.0, alignedIdentity("", "AAAA"))
	assert.Equal(t, 0.0, alignedIdentity("----", "----"))
}

func TestAdjacencyRespectsReversal(t *testing.T) {
	a := mkBGC("A", []string{"dom1"}, []string{"dom2"}, []string{"dom3"})
	b := mkBGC("B", []string{"dom3"}, []string{"dom2"}, []string{"dom1"})
	seqs := seqsFor(map[string]string{"dom1": "MMMM", "dom2": "AAAA", "dom3": "GGGG"}, a, b)

	calc := NewCalculator(seqs, model.ModeGlocal)
	rec := calc.Distance(0, 1, a, b, model.ClassMix)

	assert.True(t, rec.Reverse)
	assert.InDelta(t, 1.0, rec.Adjacency, 1e-9)
	assert.InDelta(t, 0.0, rec.Distance, 1e-9)
}

func TestWeightsFallBackToMixForUnknownClass(t *testing.T) {
	a := mkBGC("A", []string{"dom1"})
	b := mkBGC("B", []string{"dom1"})
	seqs := seqsFor(map[string]string{"dom1": "MKLV"}, a, b)

	calc := NewCalculator(seqs, model.ModeGlocal)
	known := calc.Distance(0, 1, a, b, model.ClassMix)
	unknown := calc.Distance(0, 1, a, b, "definitely-not-a-class")

	assert.InDelta(t, known.Distance, unknown.Distance, 1e-9)
}
