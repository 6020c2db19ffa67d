package insertion

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	pkgerrors "github.com/pkg/errors"

	"github.com/jrderuiter/im-fusion/fusion"
)

// Feature types with splicing behavior; insertions fusing through any other
// feature type are not biologically interpretable as gene traps.
const (
	FeatureSpliceDonor    = "SD"
	FeatureSpliceAcceptor = "SA"
)

// Feature is one annotated element of the transposon sequence, e.g. a splice
// donor of its gene-trap cassette.
type Feature struct {
	Name string
	// Start and End are coordinates within the transposon sequence, Start < End.
	Start int
	End   int
	// Strand is the feature's orientation within the transposon.
	Strand fusion.Strand
	// Type is a feature class such as "SD" or "SA".
	Type string
}

// featureRow mirrors the columns of the transposon feature table.
type featureRow struct {
	Name   string
	Start  int
	End    int
	Strand int
	Type   string
}

// ReadFeaturesFile reads the transposon feature table: tab-separated with a
// header row and columns name, start, end, strand (1/-1) and type.
func ReadFeaturesFile(ctx context.Context, path string) ([]Feature, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	features, err := ReadFeatures(in.Reader(ctx))
	if err != nil {
		_ = in.Close(ctx)
		return nil, pkgerrors.Wrap(err, path)
	}
	return features, in.Close(ctx)
}

// ReadFeatures parses the transposon feature table from r.
func ReadFeatures(r io.Reader) ([]Feature, error) {
	tsvReader := tsv.NewReader(r)
	tsvReader.HasHeaderRow = true

	var features []Feature
	var row featureRow
	for {
		if err := tsvReader.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		feature, err := row.toFeature()
		if err != nil {
			return nil, err
		}
		features = append(features, feature)
	}
	return features, nil
}

func (r featureRow) toFeature() (Feature, error) {
	if r.Name == "" || r.Type == "" {
		return Feature{}, fmt.Errorf("feature %+v: name and type are required", r)
	}
	if r.Start >= r.End {
		return Feature{}, fmt.Errorf("feature %s: start %d is not before end %d", r.Name, r.Start, r.End)
	}
	var strand fusion.Strand
	switch r.Strand {
	case 1:
		strand = fusion.Forward
	case -1:
		strand = fusion.Reverse
	default:
		return Feature{}, fmt.Errorf("feature %s: strand must be 1 or -1, got %d", r.Name, r.Strand)
	}
	return Feature{Name: r.Name, Start: r.Start, End: r.End, Strand: strand, Type: r.Type}, nil
}
