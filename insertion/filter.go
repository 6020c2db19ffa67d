package insertion

import (
	"sort"

	bedinterval "github.com/grailbio/bio/interval"
	pkgerrors "github.com/pkg/errors"

	"github.com/grailbio/base/log"
)

// Filter drops insertions that are biologically implausible or explicitly
// unwanted. The zero value keeps everything.
type Filter struct {
	// RequireFeature keeps only insertions fusing through a splicing feature
	// (SD/SA); those are the ones whose effect on the gene is interpretable.
	RequireFeature bool
	// RequireOrientation drops insertions inside a gene whose transposon
	// orientation is antisense to that gene. Intergenic insertions pass.
	RequireOrientation bool
	// BlacklistGenes drops insertions annotated with any of these gene IDs.
	BlacklistGenes []string
	// blacklistRegions drops insertions positioned inside the region set.
	blacklistRegions *bedinterval.BEDUnion
}

// SetBlacklistRegions configures region-based filtering from "chr:start-end"
// region strings.
func (f *Filter) SetBlacklistRegions(regions []string) error {
	if len(regions) == 0 {
		f.blacklistRegions = nil
		return nil
	}
	entries := make([]bedinterval.Entry, 0, len(regions))
	for _, region := range regions {
		entry, err := bedinterval.ParseRegionString(region)
		if err != nil {
			return pkgerrors.Wrapf(err, "blacklist region %q", region)
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RefName != entries[j].RefName {
			return entries[i].RefName < entries[j].RefName
		}
		return entries[i].Start0 < entries[j].Start0
	})
	union, err := bedinterval.NewBEDUnionFromEntries(entries, bedinterval.NewBEDOpts{})
	if err != nil {
		return err
	}
	f.blacklistRegions = &union
	return nil
}

// Apply returns the insertions that pass all configured filters, preserving
// order.
func (f *Filter) Apply(insertions []Insertion) []Insertion {
	out := make([]Insertion, 0, len(insertions))
	for _, ins := range insertions {
		if reason := f.drop(ins); reason != "" {
			log.Debug.Printf("dropping insertion %s: %s", ins.ID, reason)
			continue
		}
		out = append(out, ins)
	}
	return out
}

func (f *Filter) drop(ins Insertion) string {
	if f.RequireFeature &&
		ins.FeatureType != FeatureSpliceDonor && ins.FeatureType != FeatureSpliceAcceptor {
		return "no splice donor/acceptor feature"
	}
	if f.RequireOrientation && ins.InGene() && !ins.Sense() {
		return "antisense to overlapping gene"
	}
	for _, gene := range f.BlacklistGenes {
		if ins.GeneID == gene {
			return "blacklisted gene"
		}
	}
	if f.blacklistRegions != nil &&
		f.blacklistRegions.ContainsByName(ins.Seqname, bedinterval.PosType(ins.Position)) {
		return "blacklisted region"
	}
	return ""
}
