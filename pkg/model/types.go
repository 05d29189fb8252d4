package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Gene is one coding sequence inside a BGC, with its ordered domain hits.
type Gene struct {
	GeneID  string   `json:"gene_id"`
	Strand  int      `json:"strand"` // +1 forward, -1 reverse
	Start   int      `json:"start"`
	End     int      `json:"end"`
	Domains []string `json:"domains"` // normalized domain ids, version stripped
	Core    bool     `json:"core"`    // core biosynthetic gene
}

// BGC is the unit being compared and clustered. Read-only for the core;
// built by the ingestion collaborators.
type BGC struct {
	Name      string  `json:"name"`
	Product   string  `json:"product"`
	Class     string  `json:"class"`
	Genes     []*Gene `json:"genes"`
	Reference bool    `json:"reference"` // curated/reference BGC, prunable
}

// DomainCount returns the total number of domain hits across all genes.
func (b *BGC) DomainCount() int {
	n := 0
	for _, g := range b.Genes {
		n += len(g.Domains)
	}
	return n
}

// CoreRange returns the gene-index range [first, last] spanned by core
// biosynthetic genes, or ok=false when the BGC has none.
func (b *BGC) CoreRange() (first, last int, ok bool) {
	first, last = -1, -1
	for i, g := range b.Genes {
		if !g.Core {
			continue
		}
		if first == -1 {
			first = i
		}
		last = i
	}
	if first == -1 {
		return 0, 0, false
	}
	return first, last, true
}

// OccurrenceKey addresses one domain occurrence inside one BGC. The
// occurrence index counts repeats of the same domain id across the whole
// BGC in as-loaded gene order, so the key is unique per aligned sequence.
type OccurrenceKey struct {
	BGC    string
	Domain string
	Occ    int
}

func (k OccurrenceKey) String() string {
	return fmt.Sprintf("%s|%s|%d", k.BGC, k.Domain, k.Occ)
}

// SeqTable maps domain occurrences to their aligned (gap padded) sequence.
// All occurrences of one domain id share the same aligned length. The
// table is read-only during a run and shared across workers.
type SeqTable map[OccurrenceKey]string

// Dataset is the structured input handed to the core by the ingestion
// and alignment collaborators. Aligned sequences arrive keyed by the
// textual occurrence label ("bgc|domain|occ").
type Dataset struct {
	BGCs        []*BGC            `json:"bgcs"`
	AlignedSeqs map[string]string `json:"aligned_seqs"`
}

// SeqTable converts the textual aligned-sequence labels into typed keys.
func (d *Dataset) SeqTable() (SeqTable, error) {
	table := make(SeqTable, len(d.AlignedSeqs))
	for label, seq := range d.AlignedSeqs {
		key, err := ParseOccurrenceLabel(label)
		if err != nil {
			return nil, err
		}
		table[key] = seq
	}
	return table, nil
}

// ParseOccurrenceLabel parses a "bgc|domain|occ" label. BGC names may
// themselves contain '|', so the split is taken from the right.
func ParseOccurrenceLabel(label string) (OccurrenceKey, error) {
	last := strings.LastIndex(label, "|")
	if last < 0 {
		return OccurrenceKey{}, fmt.Errorf("malformed aligned sequence label: %q", label)
	}
	occ, err := strconv.Atoi(label[last+1:])
	if err != nil {
		return OccurrenceKey{}, fmt.Errorf("malformed occurrence index in %q: %w", label, err)
	}
	rest := label[:last]
	mid := strings.LastIndex(rest, "|")
	if mid < 0 {
		return OccurrenceKey{}, fmt.Errorf("malformed aligned sequence label: %q", label)
	}
	return OccurrenceKey{BGC: rest[:mid], Domain: rest[mid+1:], Occ: occ}, nil
}
