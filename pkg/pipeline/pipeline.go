// Package pipeline drives a full run: sorting BGCs into class groups,
// building each group's distance network and clustering it into
// families and clans. Class groups run sequentially so only one matrix
// is in memory at a time.
package pipeline

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumyai/gcfnet/logger"
	"github.com/yumyai/gcfnet/pkg/distance"
	"github.com/yumyai/gcfnet/pkg/family"
	"github.com/yumyai/gcfnet/pkg/model"
	"github.com/yumyai/gcfnet/pkg/network"
	"github.com/yumyai/gcfnet/pkg/store"
)

// Pipeline holds everything one run needs. Store is optional; without it
// results only land in the network files.
type Pipeline struct {
	RunID   string
	Config  *model.RunConfig
	Dataset *model.Dataset
	OutDir  string
	Store   *store.Store

	seqs  model.SeqTable
	index *model.IndexMap
	refs  map[int]bool
}

// New validates the configuration and prepares the run. Fails fast on
// configuration errors, before any distance is computed.
func New(ds *model.Dataset, cfg *model.RunConfig, outDir string, st *store.Store) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.QueryBGC >= len(ds.BGCs) {
		return nil, fmt.Errorf("%w: query BGC index %d out of range", model.ErrBadConfig, cfg.QueryBGC)
	}
	seqs, err := ds.SeqTable()
	if err != nil {
		return nil, fmt.Errorf("reading aligned sequences: %w", err)
	}

	p := &Pipeline{
		RunID:   uuid.NewString(),
		Config:  cfg,
		Dataset: ds,
		OutDir:  outDir,
		Store:   st,
		seqs:    seqs,
		index:   model.NewIndexMap(ds.BGCs),
		refs:    model.ReferenceSet(ds.BGCs),
	}

	if st != nil {
		if err := st.CreateRun(p.RunID, cfg.Mode); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ClassGroups sorts the loaded BGCs into class groups of global indices.
// The mix group always holds every BGC. With hybrids enabled, PKS-NRP
// hybrids are also added to the pure NRPS/PKS groups and dotted Others
// products are split into their sub-classes.
func (p *Pipeline) ClassGroups() map[string][]int {
	groups := make(map[string][]int)

	for gi, bgc := range p.Dataset.BGCs {
		groups[model.ClassMix] = append(groups[model.ClassMix], gi)

		class := model.SortClass(bgc.Product)
		groups[class] = append(groups[class], gi)

		if !p.Config.Hybrids {
			continue
		}
		product := strings.ToLower(bgc.Product)
		if class == model.ClassHybrid {
			groups[model.ClassNRPS] = append(groups[model.ClassNRPS], gi)
			if strings.Contains(product, "t1pks") {
				groups[model.ClassPKSI] = append(groups[model.ClassPKSI], gi)
			} else {
				groups[model.ClassPKSOther] = append(groups[model.ClassPKSOther], gi)
			}
		}
		if class == model.ClassOthers && strings.Contains(bgc.Product, ".") {
			sub := make(map[string]bool)
			for _, part := range strings.Split(bgc.Product, ".") {
				sub[model.SortClass(part)] = true
			}
			delete(sub, model.ClassOthers) // already placed there
			for subclass := range sub {
				groups[subclass] = append(groups[subclass], gi)
			}
		}
	}
	return groups
}

// Run processes every class group sequentially. A failed group is
// reported by name and skipped; the others still complete.
func (p *Pipeline) Run() error {
	groups := p.ClassGroups()

	classes := make([]string, 0, len(groups))
	for class := range groups {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	failed := 0
	for _, class := range classes {
		if err := p.runGroup(class, groups[class]); err != nil {
			failed++
			logger.Error("Class group failed, skipping",
				zap.String("class", class), zap.Error(err))
		}
	}
	if failed == len(classes) {
		return fmt.Errorf("all %d class groups failed", failed)
	}
	return nil
}

func (p *Pipeline) runGroup(class string, members []int) error {
	cfg := p.Config

	if cfg.QueryBGC >= 0 && !contains(members, cfg.QueryBGC) {
		logger.Debug("Query BGC not in class, skipping", zap.String("class", class))
		return nil
	}
	if len(members) < 2 {
		return nil
	}
	if p.allReference(members) {
		logger.Info("All members are reference BGCs, skipping", zap.String("class", class))
		return nil
	}

	logger.Info("Processing class group",
		zap.String("class", class), zap.Int("members", len(members)))

	calc := distance.NewCalculator(p.seqs, cfg.Mode)
	builder := network.NewBuilder(p.Dataset.BGCs, calc, cfg.Cores)

	var matrix []distance.Record
	var err error
	if cfg.QueryBGC >= 0 {
		matrix, members, err = builder.BuildQuery(class, cfg.QueryBGC, members, cfg.MaxCutoff())
		if err != nil {
			return err
		}
		if len(members) < 2 {
			// nothing within reach of the query
			return nil
		}
	} else {
		matrix, err = builder.Build(class, network.AllPairs(members))
		if err != nil {
			return err
		}
	}

	matrix, members = family.PruneReferenceOnly(matrix, members, p.refs, cfg.MaxCutoff())
	if len(members) == 0 {
		return nil
	}

	dir := path.Join(p.OutDir, class)
	if err := network.WriteAnnotations(members, p.Dataset.BGCs, dir, class); err != nil {
		return err
	}
	if err := network.WriteNetworkFiles(matrix, members, p.Dataset.BGCs,
		cfg.Cutoffs, dir, class, cfg.IncludeSingletons); err != nil {
		return err
	}

	results := family.Cluster(matrix, members, family.Options{
		Cutoffs:           cfg.Cutoffs,
		ClanClustering:    cfg.ClanClustering,
		ClanCutoff:        cfg.ClanCutoff,
		IncludeSingletons: cfg.IncludeSingletons,
		References:        p.refs,
		Index:             p.index,
		BGCs:              p.Dataset.BGCs,
	})

	for _, res := range results {
		logger.Info("Called gene cluster families",
			zap.String("class", class),
			zap.Float64("cutoff", res.Cutoff),
			zap.Int("families", len(res.Families)),
			zap.Int("clans", len(res.Clans)))
	}

	if p.Store != nil {
		if err := p.Store.SaveMatrix(p.RunID, class, matrix, p.Dataset.BGCs); err != nil {
			return err
		}
		if err := p.Store.SaveResults(p.RunID, class, results, p.Dataset.BGCs); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) allReference(members []int) bool {
	if len(p.refs) == 0 {
		return false
	}
	for _, m := range members {
		if !p.refs[m] {
			return false
		}
	}
	return true
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
