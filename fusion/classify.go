package fusion

// Stats summarizes one classification pass over a fusion report.
type Stats struct {
	// Rows is the total number of report rows examined.
	Rows int
	// Qualifying is the number of rows classified as gene-transposon fusions.
	Qualifying int
	// BothTransposon counts rows where both endpoints lie in the transposon.
	BothTransposon int
	// NeitherTransposon counts rows where neither endpoint does.
	NeitherTransposon int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Rows += o.Rows
	s.Qualifying += o.Qualifying
	s.BothTransposon += o.BothTransposon
	s.NeitherTransposon += o.NeitherTransposon
	return s
}

// IsPairedEnd reports whether the report was produced from a paired-end
// library. The decision is global: a single row with mate support marks the
// whole batch as paired-end.
//
// A batch mixing single- and paired-end lanes would be misclassified here;
// Tophat2 runs are per-library so this does not occur in practice, but the
// inference is deliberately kept batch-wide for compatibility.
func IsPairedEnd(fusions []Fusion) bool {
	for _, f := range fusions {
		if f.SuppMates > 0 || f.SuppSpanningMates > 0 {
			return true
		}
	}
	return false
}

// ExtractTransposonFusions selects the report rows that represent a
// genome-transposon junction and converts them to TransposonFusions.
//
// A row qualifies iff exactly one endpoint seqname equals transposonName.
// Rows where both or neither endpoint match are dropped silently; they carry
// no usable insertion signal. Input order is preserved.
func ExtractTransposonFusions(fusions []Fusion, transposonName string) ([]TransposonFusion, Stats) {
	paired := IsPairedEnd(fusions)

	out := make([]TransposonFusion, 0, len(fusions))
	stats := Stats{Rows: len(fusions)}
	for _, f := range fusions {
		aIsTransposon := f.SeqnameA == transposonName
		bIsTransposon := f.SeqnameB == transposonName
		switch {
		case aIsTransposon && bIsTransposon:
			stats.BothTransposon++
		case !aIsTransposon && !bIsTransposon:
			stats.NeitherTransposon++
		default:
			out = append(out, classify(f, aIsTransposon, paired))
			stats.Qualifying++
		}
	}
	return out, stats
}

// endpoint is one side of a raw fusion row together with the directional
// sign derived from the physical side (a or b) it occupies.
type endpoint struct {
	seqname  string
	location int
	strand   Strand
	flank    int
	dir      int
}

func classify(f Fusion, aIsTransposon bool, paired bool) TransposonFusion {
	a := endpoint{f.SeqnameA, f.LocationA, f.StrandA, f.FlankA, -1}
	b := endpoint{f.SeqnameB, f.LocationB, f.StrandB, f.FlankB, 1}

	// The genome endpoint keeps its side's sign; the transposon endpoint
	// takes the opposite one. Multiplied by the endpoint strand this yields
	// the signed flank, encoding which side of the breakpoint the flanking
	// sequence extends toward.
	genome, transposon := a, b
	if aIsTransposon {
		genome, transposon = b, a
	}
	transposon.dir = -genome.dir

	supportJunction, supportSpanning := f.SuppReads, 0
	if paired {
		supportJunction, supportSpanning = f.SuppSpanningMates, f.SuppMates
	}

	return TransposonFusion{
		Seqname:          genome.seqname,
		AnchorGenome:     genome.location,
		AnchorTransposon: transposon.location,
		FlankGenome:      genome.flank * int(genome.strand) * genome.dir,
		FlankTransposon:  transposon.flank * int(transposon.strand) * transposon.dir,
		StrandGenome:     genome.strand,
		StrandTransposon: transposon.strand,
		SupportJunction:  supportJunction,
		SupportSpanning:  supportSpanning,
	}
}
