// Package family partitions a class group's distance matrix into gene
// cluster families per cutoff, and optionally merges families into
// clans at a looser cutoff.
package family

import (
	"go.uber.org/zap"

	"github.com/yumyai/gcfnet/logger"
	"github.com/yumyai/gcfnet/pkg/distance"
	"github.com/yumyai/gcfnet/pkg/model"
)

// RepAlignment is the alignment seed of a family's most similar internal
// pair, used downstream to render member alignments.
type RepAlignment struct {
	PairA   int  `json:"pair_a"`
	PairB   int  `json:"pair_b"`
	StartA  int  `json:"start_a"`
	StartB  int  `json:"start_b"`
	Length  int  `json:"length"`
	Reverse bool `json:"reverse"`
}

// Family is one connected component at a fixed cutoff. Members hold
// global indices; InputMembers the same BGCs renumbered into the
// input-only space, with reference members reported by name instead.
type Family struct {
	ID             int          `json:"id"`
	Members        []int        `json:"members"`
	InputMembers   []int        `json:"input_members"`
	ReferenceNames []string     `json:"reference"`
	Representative RepAlignment `json:"representative"`
}

// Clan groups family ids connected at the clan cutoff.
type Clan struct {
	ID       int   `json:"id"`
	Families []int `json:"families"`
}

// Result is the partition for one cutoff.
type Result struct {
	Cutoff   float64  `json:"cutoff"`
	Families []Family `json:"families"`
	Clans    []Clan   `json:"clans,omitempty"`
}

// Options steers one clustering pass over a class group.
type Options struct {
	Cutoffs           []float64
	ClanClustering    bool
	ClanCutoff        float64
	IncludeSingletons bool

	// References marks global indices of curated BGCs; components made
	// entirely of them are pruned.
	References map[int]bool

	// Index renumbers members into the input-only space.
	Index *model.IndexMap
	BGCs  []*model.BGC
}

// Cluster builds the per-cutoff family partitions of one class group.
// Groups with fewer than two members produce no results.
func Cluster(matrix []distance.Record, members []int, opts Options) []Result {
	if len(members) < 2 {
		return nil
	}

	lookup := pairLookup(matrix)
	var results []Result

	for _, cutoff := range opts.Cutoffs {
		g := newGraph()
		if opts.IncludeSingletons {
			for _, m := range members {
				g.addNode(m)
			}
		}
		for _, rec := range matrix {
			if rec.Distance <= cutoff {
				g.addEdge(rec.A, rec.B, rec.Distance)
			}
		}

		res := Result{Cutoff: cutoff}
		pruned := 0
		for _, comp := range g.components() {
			if len(comp) == 1 && !opts.IncludeSingletons {
				continue
			}
			if allReference(comp, opts.References) {
				pruned++
				continue
			}
			fam := Family{ID: len(res.Families), Members: comp}
			fam.Representative = representative(comp, lookup)
			splitMembers(&fam, opts)
			res.Families = append(res.Families, fam)
		}

		if pruned > 0 {
			logger.Info("Pruned reference-only families",
				zap.Float64("cutoff", cutoff), zap.Int("count", pruned))
		}

		if opts.ClanClustering {
			res.Clans = clans(res.Families, lookup, opts.ClanCutoff)
		}
		results = append(results, res)
	}
	return results
}

// PruneReferenceOnly drops connected components made entirely of
// reference BGCs at the given cutoff, removing their matrix rows and
// member entries so neither the edges nor the nodes reach the emitted
// network and annotation files. Run it at the loosest cutoff; the
// per-cutoff pruning in Cluster handles the tighter partitions.
func PruneReferenceOnly(matrix []distance.Record, members []int, refs map[int]bool, cutoff float64) ([]distance.Record, []int) {
	if len(refs) == 0 {
		return matrix, members
	}

	g := newGraph()
	for _, m := range members {
		g.addNode(m)
	}
	for _, rec := range matrix {
		if rec.Distance <= cutoff {
			g.addEdge(rec.A, rec.B, rec.Distance)
		}
	}

	drop := make(map[int]bool)
	for _, comp := range g.components() {
		if allReference(comp, refs) {
			for _, m := range comp {
				drop[m] = true
			}
		}
	}
	if len(drop) == 0 {
		return matrix, members
	}

	keptMatrix := make([]distance.Record, 0, len(matrix))
	for _, rec := range matrix {
		if drop[rec.A] || drop[rec.B] {
			continue
		}
		keptMatrix = append(keptMatrix, rec)
	}
	keptMembers := make([]int, 0, len(members))
	for _, m := range members {
		if drop[m] {
			continue
		}
		keptMembers = append(keptMembers, m)
	}

	logger.Info("Pruned reference-only components from network",
		zap.Float64("cutoff", cutoff), zap.Int("bgcs", len(drop)))
	return keptMatrix, keptMembers
}

func pairLookup(matrix []distance.Record) map[Pair]distance.Record {
	lookup := make(map[Pair]distance.Record, len(matrix))
	for _, rec := range matrix {
		lookup[Pair{rec.A, rec.B}] = rec
	}
	return lookup
}

// Pair keys the matrix lookup, A < B.
type Pair struct {
	A, B int
}

func lookupPair(lookup map[Pair]distance.Record, a, b int) (distance.Record, bool) {
	if a > b {
		a, b = b, a
	}
	rec, ok := lookup[Pair{a, b}]
	return rec, ok
}

func allReference(comp []int, refs map[int]bool) bool {
	if len(refs) == 0 {
		return false
	}
	for _, m := range comp {
		if !refs[m] {
			return false
		}
	}
	return true
}

// representative picks the component's most similar internal pair and
// carries its alignment seed.
func representative(comp []int, lookup map[Pair]distance.Record) RepAlignment {
	best := RepAlignment{PairA: -1, PairB: -1}
	bestDist := 2.0
	for i := 0; i < len(comp); i++ {
		for j := i + 1; j < len(comp); j++ {
			rec, ok := lookupPair(lookup, comp[i], comp[j])
			if !ok || rec.Distance >= bestDist {
				continue
			}
			bestDist = rec.Distance
			best = RepAlignment{
				PairA: rec.A, PairB: rec.B,
				StartA: rec.StartA, StartB: rec.StartB,
				Length: rec.Length, Reverse: rec.Reverse,
			}
		}
	}
	return best
}

// splitMembers renumbers input members into the input-only space and
// lists reference members by name.
func splitMembers(fam *Family, opts Options) {
	if opts.Index == nil {
		return
	}
	for _, m := range fam.Members {
		if idx, ok := opts.Index.InputIndex(m); ok {
			fam.InputMembers = append(fam.InputMembers, idx)
		} else if opts.BGCs != nil {
			fam.ReferenceNames = append(fam.ReferenceNames, opts.BGCs[m].Name)
		}
	}
}

// clans treats each family as a node and connects two families when any
// inter-family pair sits at or below the clan cutoff. Families without a
// qualifying edge become singleton clans.
func clans(families []Family, lookup map[Pair]distance.Record, clanCutoff float64) []Clan {
	g := newGraph()
	for fi := range families {
		g.addNode(fi)
	}
	for fi := 0; fi < len(families); fi++ {
		for fj := fi + 1; fj < len(families); fj++ {
			if familiesLinked(families[fi], families[fj], lookup, clanCutoff) {
				g.addEdge(fi, fj, 0)
			}
		}
	}

	var out []Clan
	for _, comp := range g.components() {
		out = append(out, Clan{ID: len(out), Families: comp})
	}
	return out
}

func familiesLinked(a, b Family, lookup map[Pair]distance.Record, clanCutoff float64) bool {
	for _, ma := range a.Members {
		for _, mb := range b.Members {
			if rec, ok := lookupPair(lookup, ma, mb); ok && rec.Distance <= clanCutoff {
				return true
			}
		}
	}
	return false
}
