package model

// Three index spaces coexist in a run:
//
//   - global: position of a BGC in the loaded dataset
//   - class group: a []int of global indices, one list per class
//   - input-only: position among non-reference BGCs, used for reporting
//
// IndexMap owns the global <-> input-only conversion; class-group lists
// always hold global indices and need no dedicated type.
type IndexMap struct {
	input2global []int
	global2input map[int]int
}

// NewIndexMap builds the input-only numbering, skipping reference BGCs.
func NewIndexMap(bgcs []*BGC) *IndexMap {
	m := &IndexMap{
		global2input: make(map[int]int),
	}
	for gi, bgc := range bgcs {
		if bgc.Reference {
			continue
		}
		m.global2input[gi] = len(m.input2global)
		m.input2global = append(m.input2global, gi)
	}
	return m
}

// InputIndex converts a global index into the input-only space.
// ok is false for reference BGCs, which have no input-only index.
func (m *IndexMap) InputIndex(global int) (int, bool) {
	idx, ok := m.global2input[global]
	return idx, ok
}

// GlobalIndex converts an input-only index back to the global space.
func (m *IndexMap) GlobalIndex(input int) int {
	return m.input2global[input]
}

// InputCount is the number of non-reference BGCs.
func (m *IndexMap) InputCount() int {
	return len(m.input2global)
}

// ReferenceSet collects the global indices of all reference BGCs.
func ReferenceSet(bgcs []*BGC) map[int]bool {
	refs := make(map[int]bool)
	for gi, bgc := range bgcs {
		if bgc.Reference {
			refs[gi] = true
		}
	}
	return refs
}
