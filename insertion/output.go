package insertion

import (
	"context"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

var outputColumns = []string{
	"id", "seqname", "position", "strand",
	"sample_id", "gene_id", "gene_name",
	"feature_name", "feature_type",
	"support_junction", "support_spanning", "support", "ffpm",
}

// WriteFile writes the insertion table to path as TSV with a header row.
func WriteFile(ctx context.Context, path string, insertions []Insertion) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)

	w := tsv.NewWriter(out.Writer(ctx))
	for _, col := range outputColumns {
		w.WriteString(col)
	}
	if err := w.EndLine(); err != nil {
		return err
	}
	for _, ins := range insertions {
		w.WriteString(ins.ID)
		w.WriteString(ins.Seqname)
		w.WriteString(strconv.Itoa(ins.Position))
		w.WriteString(ins.Strand.String())
		w.WriteString(ins.SampleID)
		w.WriteString(orNA(ins.GeneID))
		w.WriteString(orNA(ins.GeneName))
		w.WriteString(orNA(ins.FeatureName))
		w.WriteString(orNA(ins.FeatureType))
		w.WriteString(strconv.Itoa(ins.SupportJunction))
		w.WriteString(strconv.Itoa(ins.SupportSpanning))
		w.WriteString(strconv.Itoa(ins.Support))
		w.WriteString(strconv.FormatFloat(ins.FFPM, 'g', 6, 64))
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}

func orNA(s string) string {
	if s == "" {
		return "NA"
	}
	return s
}
