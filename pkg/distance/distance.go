// Package distance computes the pairwise BGC distance from three
// sub-scores: domain-content Jaccard, neighbor adjacency and aligned
// sequence identity, weighted per predicted class.
package distance

import (
	"math"

	"github.com/yumyai/gcfnet/pkg/align"
	"github.com/yumyai/gcfnet/pkg/model"
)

// Record is the deduplicated distance result for one unordered pair.
// A and B are global BGC indices with A < B. StartA, StartB, Length and
// Reverse carry the alignment seed for the rendering layer.
type Record struct {
	A        int     `json:"a"`
	B        int     `json:"b"`
	Class    string  `json:"class"`
	Distance float64 `json:"distance"`

	Jaccard   float64 `json:"jaccard"`
	Adjacency float64 `json:"adjacency"`
	Identity  float64 `json:"identity"`

	StartA  int  `json:"start_a"`
	StartB  int  `json:"start_b"`
	Length  int  `json:"length"`
	Reverse bool `json:"reverse"`
}

// Calculator evaluates pair distances. All fields are read-only once the
// calculator is handed to the network workers.
type Calculator struct {
	Seqs    model.SeqTable
	Anchors map[string]bool
	Mode    string
}

// NewCalculator uses the default anchor set.
func NewCalculator(seqs model.SeqTable, mode string) *Calculator {
	return &Calculator{Seqs: seqs, Anchors: model.ANCHOR_DOMAINS, Mode: mode}
}

// Distance computes the record for one pair. ai and bi are the global
// indices of a and b; class selects the weight triple. A BGC without any
// domain data degrades the pair to distance 1 with zero sub-scores.
func (c *Calculator) Distance(ai, bi int, a, b *model.BGC, class string) Record {
	rec := Record{A: ai, B: bi, Class: class, Distance: 1.0}
	if a.DomainCount() == 0 || b.DomainCount() == 0 {
		return rec
	}

	pa := align.Align(a, b, c.Mode)
	rec.StartA = pa.StartA
	rec.StartB = pa.StartB
	rec.Length = pa.Length
	rec.Reverse = pa.Reverse

	rangeA, rangeB := pa.RangeA, pa.RangeB

	// Anchor boost: when both sides carry an anchor domain inside the
	// matched region, content terms are scored over the anchor-delimited
	// sub-range so accessory genes cannot wash out the core machinery.
	scoreA, scoreB := rangeA, rangeB
	subA, okA := anchorSubrange(a, rangeA, c.Anchors)
	subB, okB := anchorSubrange(b, rangeB, c.Anchors)
	if okA && okB {
		scoreA, scoreB = subA, subB
	}

	countsA := rangeDomainCounts(a, scoreA)
	countsB := rangeDomainCounts(b, scoreB)
	rec.Jaccard = multisetJaccard(countsA, countsB)
	rec.Adjacency = adjacencyScore(a, b, scoreA, scoreB, pa.Reverse)
	rec.Identity = c.identityScore(a, b, rangeA, rangeB)

	w := model.LookupWeights(class)
	sim := w.Jaccard*rec.Jaccard + w.Adjacency*rec.Adjacency + w.Identity*rec.Identity
	sim = math.Max(0, math.Min(1, sim))
	rec.Distance = 1 - sim
	return rec
}

// rangeDomainCounts tallies domain multiplicity over a gene range.
func rangeDomainCounts(b *model.BGC, r [2]int) map[string]int {
	counts := make(map[string]int)
	for _, g := range b.Genes[r[0]:r[1]] {
		for _, d := range g.Domains {
			counts[d]++
		}
	}
	return counts
}

// multisetJaccard bounds the intersection by the smaller count per domain
// and the union by the larger.
func multisetJaccard(a, b map[string]int) float64 {
	inter, union := 0, 0
	for d, ca := range a {
		cb := b[d]
		inter += min(ca, cb)
		union += max(ca, cb)
	}
	for d, cb := range b {
		if _, seen := a[d]; !seen {
			union += cb
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// adjacencyScore is the multiset Jaccard of ordered neighbor pairs over
// the flattened domain sequences of both score ranges. B is flattened in
// the orientation chosen by the aligner. Two single-domain ranges have no
// pairs to compare and count as fully conserved.
func adjacencyScore(a, b *model.BGC, rangeA, rangeB [2]int, reverse bool) float64 {
	pairsA := neighborPairs(flattenRange(a, rangeA, false))
	pairsB := neighborPairs(flattenRange(b, rangeB, reverse))

	if len(pairsA) == 0 && len(pairsB) == 0 {
		return 1
	}

	inter, union := 0, 0
	for p, ca := range pairsA {
		cb := pairsB[p]
		inter += min(ca, cb)
		union += max(ca, cb)
	}
	for p, cb := range pairsB {
		if _, seen := pairsA[p]; !seen {
			union += cb
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func flattenRange(b *model.BGC, r [2]int, reverse bool) []string {
	var flat []string
	if !reverse {
		for _, g := range b.Genes[r[0]:r[1]] {
			flat = append(flat, g.Domains...)
		}
		return flat
	}
	for i := r[1] - 1; i >= r[0]; i-- {
		g := b.Genes[i]
		for j := len(g.Domains) - 1; j >= 0; j-- {
			flat = append(flat, g.Domains[j])
		}
	}
	return flat
}

func neighborPairs(flat []string) map[[2]string]int {
	pairs := make(map[[2]string]int)
	for i := 0; i+1 < len(flat); i++ {
		pairs[[2]string{flat[i], flat[i+1]}]++
	}
	return pairs
}

// identityScore averages the per-occurrence aligned identity over every
// domain shared inside the matched region, weighted by shared occurrence
// count. Occurrence indices count repeats across the whole BGC in loaded
// gene order, so they address the shared sequence table directly.
func (c *Calculator) identityScore(a, b *model.BGC, rangeA, rangeB [2]int) float64 {
	occA := rangeOccurrences(a, rangeA)
	occB := rangeOccurrences(b, rangeB)

	total := 0
	sum := 0.0
	for dom, listA := range occA {
		listB, ok := occB[dom]
		if !ok {
			continue
		}
		shared := min(len(listA), len(listB))
		for i := 0; i < shared; i++ {
			seqA := c.Seqs[model.OccurrenceKey{BGC: a.Name, Domain: dom, Occ: listA[i]}]
			seqB := c.Seqs[model.OccurrenceKey{BGC: b.Name, Domain: dom, Occ: listB[i]}]
			sum += alignedIdentity(seqA, seqB)
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return sum / float64(total)
}

// rangeOccurrences lists, per domain, the BGC-wide occurrence indices
// that fall inside the gene range.
func rangeOccurrences(b *model.BGC, r [2]int) map[string][]int {
	seen := make(map[string]int)
	inRange := make(map[string][]int)
	for gi, g := range b.Genes {
		for _, d := range g.Domains {
			occ := seen[d]
			seen[d]++
			if gi >= r[0] && gi < r[1] {
				inRange[d] = append(inRange[d], occ)
			}
		}
	}
	return inRange
}

// alignedIdentity counts identical non-gap columns over the columns where
// at least one side has a residue. Missing sequences score 0.
func alignedIdentity(seqA, seqB string) float64 {
	if seqA == "" || seqB == "" {
		return 0
	}
	n := min(len(seqA), len(seqB))
	matches, columns := 0, 0
	for i := 0; i < n; i++ {
		if seqA[i] == '-' && seqB[i] == '-' {
			continue
		}
		columns++
		if seqA[i] == seqB[i] {
			matches++
		}
	}
	if columns == 0 {
		return 0
	}
	return float64(matches) / float64(columns)
}

// anchorSubrange narrows a gene range to the span delimited by genes
// carrying anchor domains. ok is false when the range holds none.
func anchorSubrange(b *model.BGC, r [2]int, anchors map[string]bool) ([2]int, bool) {
	first, last := -1, -1
	for gi := r[0]; gi < r[1]; gi++ {
		for _, d := range b.Genes[gi].Domains {
			if anchors[d] {
				if first == -1 {
					first = gi
				}
				last = gi
				break
			}
		}
	}
	if first == -1 {
		return r, false
	}
	return [2]int{first, last + 1}, true
}
