package fusion

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

const testTransposon = "T2onc"

func singleEndRow() Fusion {
	return Fusion{
		SeqnameA:  testTransposon,
		LocationA: 1462,
		StrandA:   Forward,
		SeqnameB:  "chr3",
		LocationB: 52141095,
		StrandB:   Forward,
		SuppReads: 5,
		FlankA:    10,
		FlankB:    20,
	}
}

func TestExtractTransposonFusionsSingleEnd(t *testing.T) {
	fusions, stats := ExtractTransposonFusions([]Fusion{singleEndRow()}, testTransposon)
	require.Len(t, fusions, 1)
	expect.EQ(t, stats, Stats{Rows: 1, Qualifying: 1})

	// Genome side is endpoint b, so the genome direction is +1 and the
	// transposon direction -1.
	expect.EQ(t, fusions[0], TransposonFusion{
		Seqname:          "chr3",
		AnchorGenome:     52141095,
		AnchorTransposon: 1462,
		FlankGenome:      20,
		FlankTransposon:  -10,
		StrandGenome:     Forward,
		StrandTransposon: Forward,
		SupportJunction:  5,
		SupportSpanning:  0,
	})
}

func TestExtractTransposonFusionsGenomeFirst(t *testing.T) {
	row := Fusion{
		SeqnameA:  "chr11",
		LocationA: 3092,
		StrandA:   Reverse,
		SeqnameB:  testTransposon,
		LocationB: 201,
		StrandB:   Forward,
		SuppReads: 7,
		FlankA:    15,
		FlankB:    30,
	}
	fusions, _ := ExtractTransposonFusions([]Fusion{row}, testTransposon)
	require.Len(t, fusions, 1)

	// Genome side is endpoint a: genome direction -1, transposon +1.
	f := fusions[0]
	expect.EQ(t, f.Seqname, "chr11")
	expect.EQ(t, f.AnchorGenome, 3092)
	expect.EQ(t, f.AnchorTransposon, 201)
	expect.EQ(t, f.FlankGenome, 15)       // 15 * -1 (strand) * -1 (dir)
	expect.EQ(t, f.FlankTransposon, 30)   // 30 * +1 (strand) * +1 (dir)
	expect.EQ(t, f.StrandGenome, Reverse)
	expect.EQ(t, f.StrandTransposon, Forward)
}

func TestExtractTransposonFusionsDropsNonInformative(t *testing.T) {
	both := singleEndRow()
	both.SeqnameB = testTransposon
	neither := singleEndRow()
	neither.SeqnameA = "chr1"

	fusions, stats := ExtractTransposonFusions([]Fusion{both, neither}, testTransposon)
	expect.EQ(t, len(fusions), 0)
	expect.EQ(t, stats, Stats{Rows: 2, BothTransposon: 1, NeitherTransposon: 1})
}

// A single row with mate support switches the support semantics for the
// entire batch, including rows without mate support of their own.
func TestExtractTransposonFusionsPairedEndIsGlobal(t *testing.T) {
	plain := singleEndRow()

	paired := singleEndRow()
	paired.SuppMates = 3
	paired.SuppSpanningMates = 8

	fusions, _ := ExtractTransposonFusions([]Fusion{plain, paired}, testTransposon)
	require.Len(t, fusions, 2)

	expect.EQ(t, fusions[0].SupportJunction, 0) // supp_spanning_mates of the plain row
	expect.EQ(t, fusions[0].SupportSpanning, 0)
	expect.EQ(t, fusions[1].SupportJunction, 8)
	expect.EQ(t, fusions[1].SupportSpanning, 3)
}

func TestIsPairedEnd(t *testing.T) {
	expect.False(t, IsPairedEnd(nil))
	expect.False(t, IsPairedEnd([]Fusion{singleEndRow()}))

	mates := singleEndRow()
	mates.SuppMates = 1
	expect.True(t, IsPairedEnd([]Fusion{singleEndRow(), mates}))

	spanning := singleEndRow()
	spanning.SuppSpanningMates = 2
	expect.True(t, IsPairedEnd([]Fusion{spanning}))
}

func TestTransposonFusionRegions(t *testing.T) {
	f := TransposonFusion{
		AnchorGenome:     100,
		FlankGenome:      -20,
		AnchorTransposon: 1400,
		FlankTransposon:  62,
	}
	start, end := f.GenomeRegion()
	expect.EQ(t, []int{start, end}, []int{80, 100})
	start, end = f.TransposonRegion()
	expect.EQ(t, []int{start, end}, []int{1400, 1462})
}

func TestTransposonFusionMetadata(t *testing.T) {
	f := TransposonFusion{Seqname: "chr1"}
	_, ok := f.Metadata("gene_name")
	expect.False(t, ok)

	g := f.WithMetadata(map[string]string{"gene_name": "Trp53"})
	v, ok := g.Metadata("gene_name")
	expect.True(t, ok)
	expect.EQ(t, v, "Trp53")

	// The original value is untouched.
	_, ok = f.Metadata("gene_name")
	expect.False(t, ok)
}
