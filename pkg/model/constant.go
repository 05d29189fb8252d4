package model

import "strings"

// Weights is the per-class weighting of the three distance sub-scores.
// Jaccard + Adjacency + Identity must sum to 1 within a class.
type Weights struct {
	Jaccard   float64 `json:"jaccard"`
	Adjacency float64 `json:"adjacency"`
	Identity  float64 `json:"identity"`
}

// Class groups used when classifying the input. "mix" is the catch-all
// group holding every BGC regardless of predicted class.
const (
	ClassPKSI       = "PKSI"
	ClassPKSOther   = "PKSother"
	ClassNRPS       = "NRPS"
	ClassRiPP       = "RiPPs"
	ClassSaccharide = "Saccharides"
	ClassTerpene    = "Terpene"
	ClassHybrid     = "PKS-NRP_Hybrids"
	ClassOthers     = "Others"
	ClassMix        = "mix"
)

// TODO: load these from a weights file so users can override per class.
var (
	// CLASS_WEIGHTS holds the tuned weight triples per predicted class.
	CLASS_WEIGHTS map[string]Weights = map[string]Weights{
		ClassPKSI:       {Jaccard: 0.22, Adjacency: 0.02, Identity: 0.76},
		ClassPKSOther:   {Jaccard: 0.00, Adjacency: 0.32, Identity: 0.68},
		ClassNRPS:       {Jaccard: 0.31, Adjacency: 0.00, Identity: 0.69},
		ClassRiPP:       {Jaccard: 0.28, Adjacency: 0.01, Identity: 0.71},
		ClassSaccharide: {Jaccard: 0.00, Adjacency: 0.00, Identity: 1.00},
		ClassTerpene:    {Jaccard: 0.20, Adjacency: 0.05, Identity: 0.75},
		ClassHybrid:     {Jaccard: 0.00, Adjacency: 0.22, Identity: 0.78},
		ClassOthers:     {Jaccard: 0.01, Adjacency: 0.02, Identity: 0.97},
		ClassMix:        {Jaccard: 0.20, Adjacency: 0.05, Identity: 0.75},
	}

	// ANCHOR_DOMAINS marks domains core to the biosynthetic machinery.
	// Pairs sharing one of these get their Jaccard/adjacency terms
	// computed over the anchor-delimited sub-range.
	ANCHOR_DOMAINS map[string]bool = map[string]bool{
		"PF00109": true, // ketoacyl-synt
		"PF02801": true, // ketoacyl-synt C
		"PF16197": true, // ketoacyl-synt C-terminal extension
		"PF00501": true, // AMP-binding
		"PF00668": true, // Condensation
		"PF08659": true, // KR
		"PF00975": true, // Thioesterase
		"PF01397": true, // terpene synthase N
		"PF03936": true, // terpene synthase C
		"PF00432": true, // prenyltransferase / squalene oxidase
		"PF00195": true, // chalcone/stilbene synthase N
	}
)

// SortClass maps a predicted product string onto one of the class groups.
func SortClass(product string) string {
	p := strings.ToLower(strings.TrimSpace(product))

	switch {
	case p == "t1pks" || strings.HasPrefix(p, "transat"):
		return ClassPKSI
	case strings.Contains(p, "t2pks") || strings.Contains(p, "t3pks") ||
		strings.Contains(p, "otherks") || strings.Contains(p, "hglks") ||
		p == "arylpolyene" || p == "ladderane" || p == "pufa":
		return ClassPKSOther
	case strings.Contains(p, "t1pks") && strings.Contains(p, "nrps"):
		return ClassHybrid
	case p == "nrps" || strings.Contains(p, "nrps-like") || p == "thioamide-nrp":
		return ClassNRPS
	case strings.Contains(p, "ripp") || p == "lanthipeptide" || p == "lassopeptide" ||
		p == "thiopeptide" || p == "sactipeptide" || p == "bacteriocin" ||
		p == "linaridin" || p == "cyanobactin" || p == "microviridin" ||
		p == "proteusin" || p == "bottromycin" || p == "microcin":
		return ClassRiPP
	case p == "amglyccycl" || p == "oligosaccharide" || p == "cf_saccharide" ||
		p == "saccharide":
		return ClassSaccharide
	case p == "terpene":
		return ClassTerpene
	default:
		if strings.Contains(p, "pks") && strings.Contains(p, "nrps") {
			return ClassHybrid
		}
		return ClassOthers
	}
}

// LookupWeights resolves the weight triple for a class, falling back to
// the mix entry when the class is unknown.
func LookupWeights(class string) Weights {
	if w, ok := CLASS_WEIGHTS[class]; ok {
		return w
	}
	return CLASS_WEIGHTS[ClassMix]
}
