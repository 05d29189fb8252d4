package network

import (
	"fmt"
	"os"
	"path"

	"github.com/yumyai/gcfnet/internal/util"
	"github.com/yumyai/gcfnet/pkg/distance"
	"github.com/yumyai/gcfnet/pkg/model"
)

var networkHeader = "BGC A\tBGC B\tClass\tDistance\tJaccard\tAdjacency\tIdentity\tStart A\tStart B\tLength\tReverse\n"

// WriteNetworkFiles writes one TSV edge list per cutoff under
// dir/<class>_c<cutoff>.network, keeping rows with distance <= cutoff.
// With includeSingletons, members without any qualifying edge are
// appended as self rows so the reporting layer still sees the node.
func WriteNetworkFiles(matrix []distance.Record, members []int, bgcs []*model.BGC,
	cutoffs []float64, dir, class string, includeSingletons bool) error {

	if err := util.EnsureDir(dir); err != nil {
		return fmt.Errorf("creating network folder: %w", err)
	}

	SortMatrix(matrix)

	for _, cutoff := range cutoffs {
		fname := path.Join(dir, fmt.Sprintf("%s_c%.2f.network", class, cutoff))
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("creating network file: %w", err)
		}

		connected := make(map[int]bool)
		if _, err := f.WriteString(networkHeader); err != nil {
			f.Close()
			return err
		}
		for _, rec := range matrix {
			if rec.Distance > cutoff {
				continue
			}
			connected[rec.A] = true
			connected[rec.B] = true
			rev := 0
			if rec.Reverse {
				rev = 1
			}
			row := fmt.Sprintf("%s\t%s\t%s\t%.4f\t%.4f\t%.4f\t%.4f\t%d\t%d\t%d\t%d\n",
				bgcs[rec.A].Name, bgcs[rec.B].Name, rec.Class, rec.Distance,
				rec.Jaccard, rec.Adjacency, rec.Identity,
				rec.StartA, rec.StartB, rec.Length, rev)
			if _, err := f.WriteString(row); err != nil {
				f.Close()
				return err
			}
		}

		if includeSingletons {
			for _, m := range members {
				if connected[m] {
					continue
				}
				row := fmt.Sprintf("%s\t%s\t%s\t%.4f\t0.0000\t0.0000\t0.0000\t0\t0\t0\t0\n",
					bgcs[m].Name, bgcs[m].Name, class, 0.0)
				if _, err := f.WriteString(row); err != nil {
					f.Close()
					return err
				}
			}
		}

		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

// WriteAnnotations writes the per-class member annotation table.
func WriteAnnotations(members []int, bgcs []*model.BGC, dir, class string) error {
	if err := util.EnsureDir(dir); err != nil {
		return fmt.Errorf("creating network folder: %w", err)
	}
	fname := path.Join(dir, fmt.Sprintf("Network_Annotations_%s.tsv", class))
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("creating annotation file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString("BGC\tProduct Prediction\tClass\tReference\n"); err != nil {
		return err
	}
	for _, m := range members {
		b := bgcs[m]
		ref := "no"
		if b.Reference {
			ref = "yes"
		}
		row := fmt.Sprintf("%s\t%s\t%s\t%s\n", b.Name, b.Product, model.SortClass(b.Product), ref)
		if _, err := f.WriteString(row); err != nil {
			return err
		}
	}
	return nil
}
