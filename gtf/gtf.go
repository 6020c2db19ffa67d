// Package gtf reads gene records from reference GTF annotation files.
package gtf

import (
	"bufio"
	"context"
	"io"
	"sort"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	pkgerrors "github.com/pkg/errors"
)

// Gene is one gene body from a GTF file.
type Gene struct {
	// GeneID and GeneName come from the gene_id / gene_name attributes.
	// GeneName falls back to GeneID when the annotation lacks names.
	GeneID   string
	GeneName string
	Chrom    string
	// Start and End are 1-based inclusive, as in the GTF itself.
	Start int
	End   int
	// Strand is '+' or '-'.
	Strand byte
}

// record mirrors the nine GTF columns.
type record struct {
	Chrom      string
	Source     string
	Feature    string
	Start      int
	End        int
	Score      string // unused, may be "."
	Strand     string
	Frame      string
	Attributes string
}

// ReadGenes reads the gene records from the GTF at path, transparently
// decompressing gzipped files. Genes are returned sorted by chromosome and
// start position. Annotations that carry no explicit "gene" features (some
// UCSC exports) yield gene bodies synthesized from their transcript spans.
func ReadGenes(ctx context.Context, path string) ([]Gene, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	var r io.Reader = in.Reader(ctx)
	r, _ = compress.NewReaderPath(r, in.Name())
	genes, err := readGenes(r)
	if err != nil {
		_ = in.Close(ctx)
		return nil, pkgerrors.Wrap(err, path)
	}
	return genes, in.Close(ctx)
}

func readGenes(r io.Reader) ([]Gene, error) {
	scanner := tsv.NewReader(bufio.NewReaderSize(r, 64<<10))
	scanner.Comment = '#'
	scanner.LazyQuotes = true

	var genes []Gene
	synthesized := map[string]int{} // gene_id -> index into genes
	sawGeneFeature := false
	attrs := map[string]string{}
	var line record
	for {
		if err := scanner.Read(&line); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if line.Feature != "gene" && line.Feature != "transcript" {
			continue
		}
		parseAttributes(attrs, line.Attributes)
		id := attrs["gene_id"]
		name := attrs["gene_name"]
		if name == "" {
			name = id
		}
		strand := byte('+')
		if line.Strand == "-" {
			strand = '-'
		}

		if line.Feature == "gene" {
			if !sawGeneFeature {
				// Drop any transcript-synthesized genes; explicit records win.
				genes = genes[:0]
				sawGeneFeature = true
			}
			genes = append(genes, Gene{
				GeneID: id, GeneName: name, Chrom: line.Chrom,
				Start: line.Start, End: line.End, Strand: strand,
			})
			continue
		}
		if sawGeneFeature {
			continue
		}
		// Extend a synthesized gene body with this transcript's span.
		if i, ok := synthesized[id]; ok {
			if line.Start < genes[i].Start {
				genes[i].Start = line.Start
			}
			if line.End > genes[i].End {
				genes[i].End = line.End
			}
			continue
		}
		synthesized[id] = len(genes)
		genes = append(genes, Gene{
			GeneID: id, GeneName: name, Chrom: line.Chrom,
			Start: line.Start, End: line.End, Strand: strand,
		})
	}
	sort.Slice(genes, func(i, j int) bool {
		if genes[i].Chrom != genes[j].Chrom {
			return genes[i].Chrom < genes[j].Chrom
		}
		return genes[i].Start < genes[j].Start
	})
	return genes, nil
}

// parseAttributes parses the GTF attribute column ('key "value"; ...') into
// the given map, clearing it first.
func parseAttributes(parsed map[string]string, attributes string) {
	for k := range parsed {
		delete(parsed, k)
	}
	for _, field := range strings.Split(strings.TrimSpace(attributes), ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		pair := strings.SplitN(field, " ", 2)
		if len(pair) != 2 {
			continue
		}
		parsed[pair[0]] = strings.Trim(pair[1], "\"")
	}
}
