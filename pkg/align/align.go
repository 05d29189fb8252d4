// Package align finds the best gene-order alignment between two BGCs
// over their per-gene domain-tag tokens.
package align

import (
	"github.com/yumyai/gcfnet/pkg/model"
)

// PairAlignment is the transient result of aligning one BGC pair.
// StartA/StartB/Length describe the LCS seed in domain-gene token
// coordinates; StartB is an offset into B's reversed token order when
// Reverse is set. RangeA and RangeB are the matched gene ranges, half
// open [start, end) in each BGC's own original gene-index space.
type PairAlignment struct {
	StartA  int
	StartB  int
	Length  int
	Reverse bool

	RangeA [2]int
	RangeB [2]int

	MatchedDomains int
	TotalDomains   int
}

// Align aligns two BGCs in the requested mode. ModeAuto resolves to
// glocal, which is also the fallback for unknown modes.
func Align(a, b *model.BGC, mode string) PairAlignment {
	if mode == model.ModeGlobal {
		return Global(a, b)
	}
	return Glocal(a, b)
}

// Global restricts the comparable region to each BGC's core-gene range
// and assumes consistent orientation. BGCs without core genes fall back
// to their full gene range.
func Global(a, b *model.BGC) PairAlignment {
	pa := PairAlignment{
		RangeA: fullOrCoreRange(a),
		RangeB: fullOrCoreRange(b),
	}
	pa.StartA = pa.RangeA[0]
	pa.StartB = pa.RangeB[0]
	pa.Length = min(pa.RangeA[1]-pa.RangeA[0], pa.RangeB[1]-pa.RangeB[0])
	fillDomainCounts(&pa, a, b)
	return pa
}

// Glocal finds the longest common substring of gene tokens between A and
// B, trying B in forward and reversed orientation. The longer match wins;
// ties go to forward orientation, and among equal-length forward matches
// the leftmost (smallest start in A, then in B) is kept. A zero-length
// match degrades to the full unaligned gene ranges with no reversal.
// Tie-breaking makes the result orientation-dependent on the argument
// order, so Glocal(a, b) and Glocal(b, a) can pick different matched
// ranges when equal-length matches cover different genes; callers that
// need symmetric records must align each pair in one canonical order,
// as the network builder does with its A < B pairs.
func Glocal(a, b *model.BGC) PairAlignment {
	seqA := newTokenSeq(a, false)
	seqFwd := newTokenSeq(b, false)
	seqRev := newTokenSeq(b, true)

	fwd := longestCommonSubstring(seqA.tokens, seqFwd.tokens)
	rev := longestCommonSubstring(seqA.tokens, seqRev.tokens)

	best, matchedB, reverse := fwd, seqFwd, false
	if rev.length > fwd.length {
		best, matchedB, reverse = rev, seqRev, true
	}

	if best.length == 0 {
		pa := PairAlignment{
			RangeA: [2]int{0, len(a.Genes)},
			RangeB: [2]int{0, len(b.Genes)},
		}
		fillDomainCounts(&pa, a, b)
		return pa
	}

	pa := PairAlignment{
		StartA:  best.startA,
		StartB:  best.startB,
		Length:  best.length,
		Reverse: reverse,
		RangeA:  seqA.geneRange(best.startA, best.length),
		RangeB:  matchedB.geneRange(best.startB, best.length),
	}
	fillDomainCounts(&pa, a, b)
	return pa
}

// tokenSeq is a BGC's domain-bearing genes as one token per gene, with
// the mapping back to original gene indices. Genes without domains are
// skipped so they can neither seed nor break a match.
type tokenSeq struct {
	tokens  []string
	geneIdx []int
	reverse bool
	total   int // gene count of the source BGC
}

func newTokenSeq(b *model.BGC, reverse bool) *tokenSeq {
	s := &tokenSeq{reverse: reverse, total: len(b.Genes)}
	appendGene := func(g *model.Gene, gi int) {
		if len(g.Domains) == 0 {
			return
		}
		tok := ""
		if reverse {
			for j := len(g.Domains) - 1; j >= 0; j-- {
				tok += g.Domains[j] + ";"
			}
		} else {
			for _, d := range g.Domains {
				tok += d + ";"
			}
		}
		s.tokens = append(s.tokens, tok)
		s.geneIdx = append(s.geneIdx, gi)
	}
	if reverse {
		for i := len(b.Genes) - 1; i >= 0; i-- {
			appendGene(b.Genes[i], i)
		}
	} else {
		for i, g := range b.Genes {
			appendGene(g, i)
		}
	}
	return s
}

// geneRange converts a token window into an original-orientation gene
// range covering the matched genes.
func (s *tokenSeq) geneRange(start, length int) [2]int {
	first := s.geneIdx[start]
	last := s.geneIdx[start+length-1]
	if s.reverse {
		first, last = last, first
	}
	return [2]int{first, last + 1}
}

type lcsMatch struct {
	startA, startB, length int
}

// longestCommonSubstring runs the usual dynamic program, keeping only two
// rows of the table. Strict improvement keeps the leftmost match on ties.
func longestCommonSubstring(ta, tb []string) lcsMatch {
	if len(ta) == 0 || len(tb) == 0 {
		return lcsMatch{}
	}

	best := lcsMatch{}
	prev := make([]int, len(tb)+1)
	curr := make([]int, len(tb)+1)

	for i := 1; i <= len(ta); i++ {
		for j := 1; j <= len(tb); j++ {
			if ta[i-1] != tb[j-1] {
				curr[j] = 0
				continue
			}
			curr[j] = prev[j-1] + 1
			if curr[j] > best.length {
				best = lcsMatch{startA: i - curr[j], startB: j - curr[j], length: curr[j]}
			}
		}
		prev, curr = curr, prev
	}
	return best
}

func fullOrCoreRange(b *model.BGC) [2]int {
	if first, last, ok := b.CoreRange(); ok {
		return [2]int{first, last + 1}
	}
	return [2]int{0, len(b.Genes)}
}

func fillDomainCounts(pa *PairAlignment, a, b *model.BGC) {
	for _, g := range a.Genes[pa.RangeA[0]:pa.RangeA[1]] {
		pa.MatchedDomains += len(g.Domains)
	}
	for _, g := range b.Genes[pa.RangeB[0]:pa.RangeB[1]] {
		pa.MatchedDomains += len(g.Domains)
	}
	pa.TotalDomains = a.DomainCount() + b.DomainCount()
}
