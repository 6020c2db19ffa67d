package insertion

import (
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"

	"github.com/jrderuiter/im-fusion/fusion"
)

func testInsertions() []Insertion {
	return []Insertion{
		{
			ID: "S1.INS_1", Seqname: "chr11", Position: 1500,
			Strand: fusion.Forward, GeneID: "g1", GeneName: "Trp53",
			GeneStrand: fusion.Forward, FeatureType: FeatureSpliceAcceptor,
		},
		{
			ID: "S1.INS_2", Seqname: "chr4", Position: 7000,
			Strand: fusion.Reverse, // intergenic
		},
		{
			ID: "S1.INS_3", Seqname: "chr15", Position: 61986000,
			Strand: fusion.Reverse, GeneID: "g2", GeneName: "Myc",
			GeneStrand: fusion.Forward, FeatureType: FeatureSpliceDonor,
		},
		{
			ID: "S1.INS_4", Seqname: "chr1", Position: 42,
			Strand: fusion.Forward, GeneID: "g3", GeneName: "En2",
			GeneStrand: fusion.Forward, FeatureType: "LTR",
		},
	}
}

func ids(insertions []Insertion) []string {
	out := make([]string, len(insertions))
	for i, ins := range insertions {
		out[i] = ins.ID
	}
	return out
}

func TestFilterZeroValueKeepsAll(t *testing.T) {
	var f Filter
	out := f.Apply(testInsertions())
	expect.EQ(t, len(out), 4)
}

func TestFilterRequireFeature(t *testing.T) {
	f := Filter{RequireFeature: true}
	out := f.Apply(testInsertions())
	// The intergenic insertion has no feature at all and the LTR one is not a
	// splice donor/acceptor.
	expect.EQ(t, ids(out), []string{"S1.INS_1", "S1.INS_3"})
}

func TestFilterRequireOrientation(t *testing.T) {
	f := Filter{RequireOrientation: true}
	out := f.Apply(testInsertions())
	// INS_3 sits antisense inside Myc; the intergenic INS_2 passes regardless
	// of its orientation.
	expect.EQ(t, ids(out), []string{"S1.INS_1", "S1.INS_2", "S1.INS_4"})
}

func TestFilterBlacklistGenes(t *testing.T) {
	f := Filter{BlacklistGenes: []string{"g1", "g3"}}
	out := f.Apply(testInsertions())
	expect.EQ(t, ids(out), []string{"S1.INS_2", "S1.INS_3"})
}

func TestFilterBlacklistRegions(t *testing.T) {
	var f Filter
	assert.NoError(t, f.SetBlacklistRegions([]string{"chr4:6000-8000", "chr11:1000-2000"}))
	out := f.Apply(testInsertions())
	expect.EQ(t, ids(out), []string{"S1.INS_3", "S1.INS_4"})
}

func TestFilterBadRegionString(t *testing.T) {
	var f Filter
	err := f.SetBlacklistRegions([]string{"chr1:zero-10"})
	expect.True(t, err != nil)
}

func TestFilterCombined(t *testing.T) {
	f := Filter{RequireFeature: true, RequireOrientation: true, BlacklistGenes: []string{"g1"}}
	out := f.Apply(testInsertions())
	expect.EQ(t, len(out), 0)
}
