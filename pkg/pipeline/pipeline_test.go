package pipeline

import (
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/gcfnet/pkg/model"
	"github.com/yumyai/gcfnet/pkg/store"
)

func mkBGC(name, product string, domains ...string) *model.BGC {
	b := &model.BGC{Name: name, Product: product}
	for _, d := range domains {
		b.Genes = append(b.Genes, &model.Gene{Strand: 1, Domains: []string{d}})
	}
	return b
}

func testDataset() *model.Dataset {
	ds := &model.Dataset{
		BGCs: []*model.BGC{
			mkBGC("A", "terpene", "dom1", "dom2"),
			mkBGC("B", "terpene", "dom1", "dom2"),
			mkBGC("C", "terpene", "dom3"),
		},
		AlignedSeqs: map[string]string{},
	}
	for _, b := range ds.BGCs {
		for _, g := range b.Genes {
			for _, d := range g.Domains {
				ds.AlignedSeqs[b.Name+"|"+d+"|0"] = "MKLV"
			}
		}
	}
	return ds
}

func testConfig() *model.RunConfig {
	return &model.RunConfig{
		Cutoffs:  []float64{0.5},
		Mode:     model.ModeGlocal,
		Cores:    2,
		QueryBGC: -1,
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ClanClustering = true
	cfg.ClanCutoff = 0.1

	_, err := New(testDataset(), cfg, t.TempDir(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrBadConfig)
}

func TestClassGroupsAlwaysIncludeMix(t *testing.T) {
	p, err := New(testDataset(), testConfig(), t.TempDir(), nil)
	require.NoError(t, err)

	groups := p.ClassGroups()
	assert.Equal(t, []int{0, 1, 2}, groups[model.ClassMix])
	assert.Equal(t, []int{0, 1, 2}, groups[model.ClassTerpene])
}

func TestClassGroupsHybridExpansion(t *testing.T) {
	ds := testDataset()
	ds.BGCs = append(ds.BGCs, mkBGC("H", "t1pks.nrps", "dom9"))
	cfg := testConfig()
	cfg.Hybrids = true

	p, err := New(ds, cfg, t.TempDir(), nil)
	require.NoError(t, err)

	groups := p.ClassGroups()
	assert.Contains(t, groups[model.ClassHybrid], 3)
	assert.Contains(t, groups[model.ClassNRPS], 3)
	assert.Contains(t, groups[model.ClassPKSI], 3)
}

func TestRunProducesNetworkAndFamilies(t *testing.T) {
	out := t.TempDir()
	st, err := store.Open(path.Join(out, "results.db"))
	require.NoError(t, err)
	defer st.Close()

	p, err := New(testDataset(), testConfig(), out, st)
	require.NoError(t, err)
	require.NoError(t, p.Run())

	// network file for the mix group exists and has the A-B edge
	raw, err := os.ReadFile(path.Join(out, "mix", "mix_c0.50.network"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "A\tB\tmix\t0.0000")
	assert.NotContains(t, string(raw), "A\tC")

	// A and B ended up in the same stored family
	members, err := st.FamilyMembers(p.RunID, "mix", 0.5, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, members)
}

func TestRunQueryMode(t *testing.T) {
	out := t.TempDir()
	cfg := testConfig()
	cfg.QueryBGC = 0

	p, err := New(testDataset(), cfg, out, nil)
	require.NoError(t, err)
	require.NoError(t, p.Run())

	raw, err := os.ReadFile(path.Join(out, "mix", "mix_c0.50.network"))
	require.NoError(t, err)
	// match full data rows so the header line cannot satisfy the asserts
	assert.Contains(t, string(raw), "\nA\tB\t")
	assert.NotContains(t, string(raw), "\nA\tC\t")
	assert.NotContains(t, string(raw), "\nB\tC\t")
}

func TestRunPrunesReferenceOnlyComponents(t *testing.T) {
	ds := testDataset()
	for _, name := range []string{"R1", "R2"} {
		r := mkBGC(name, "terpene", "dom9")
		r.Reference = true
		ds.BGCs = append(ds.BGCs, r)
		ds.AlignedSeqs[name+"|dom9|0"] = "MKLV"
	}

	out := t.TempDir()
	cfg := testConfig()
	cfg.IncludeSingletons = true

	p, err := New(ds, cfg, out, nil)
	require.NoError(t, err)
	require.NoError(t, p.Run())

	raw, err := os.ReadFile(path.Join(out, "mix", "mix_c0.50.network"))
	require.NoError(t, err)
	// the R1-R2 component is reference-only: no edge, no singleton rows
	assert.NotContains(t, string(raw), "R1")
	assert.NotContains(t, string(raw), "R2")
	assert.Contains(t, string(raw), "\nA\tB\t")

	raw, err = os.ReadFile(path.Join(out, "mix", "Network_Annotations_mix.tsv"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "R1")
	assert.Contains(t, string(raw), "\nA\t")
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()
	fname := path.Join(dir, "bgc_dataset.json")

	ds := testDataset()
	raw, err := json.Marshal(ds)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fname, raw, 0o644))

	loaded, err := LoadDataset(fname)
	require.NoError(t, err)
	assert.Len(t, loaded.BGCs, 3)
	assert.Equal(t, "A", loaded.BGCs[0].Name)

	// duplicate names are rejected
	ds.BGCs = append(ds.BGCs, mkBGC("A", "terpene", "dom1"))
	raw, err = json.Marshal(ds)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fname, raw, 0o644))
	_, err = LoadDataset(fname)
	assert.Error(t, err)

	_, err = LoadDataset(path.Join(dir, "missing.json"))
	assert.Error(t, err)
}
