package insertion

import (
	"strings"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"

	"github.com/jrderuiter/im-fusion/fusion"
)

const featuresHeader = "name\tstart\tend\tstrand\ttype\n"

func TestReadFeatures(t *testing.T) {
	in := featuresHeader +
		"En2SA\t1462\t1602\t-1\tSA\n" +
		"SD\t6023\t6112\t1\tSD\n" +
		"LTR\t1\t250\t1\tLTR\n"
	features, err := ReadFeatures(strings.NewReader(in))
	assert.NoError(t, err)
	assert.EQ(t, len(features), 3)

	expect.EQ(t, features[0], Feature{
		Name: "En2SA", Start: 1462, End: 1602, Strand: fusion.Reverse, Type: "SA",
	})
	expect.EQ(t, features[1].Strand, fusion.Forward)
	expect.EQ(t, features[2].Type, "LTR")
}

func TestReadFeaturesEmpty(t *testing.T) {
	features, err := ReadFeatures(strings.NewReader(featuresHeader))
	assert.NoError(t, err)
	expect.EQ(t, len(features), 0)
}

func TestReadFeaturesRejectsBadRows(t *testing.T) {
	for _, row := range []string{
		"En2SA\t1462\t1602\t0\tSA",   // strand must be 1 or -1
		"En2SA\t1602\t1462\t-1\tSA",  // start not before end
		"En2SA\t1462\t1462\t-1\tSA",  // empty span
		"\t1462\t1602\t-1\tSA",       // missing name
		"En2SA\t1462\t1602\t-1\t",    // missing type
	} {
		_, err := ReadFeatures(strings.NewReader(featuresHeader + row + "\n"))
		expect.True(t, err != nil)
	}
}
