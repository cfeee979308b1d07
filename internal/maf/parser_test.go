package maf

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ParseVariants(t *testing.T) {
	testFile := findTestFile(t, "sample.maf")

	parser, err := NewParser(testFile)
	require.NoError(t, err)
	defer parser.Close()

	cols := parser.Columns()
	assert.Equal(t, 4, cols.Chromosome)
	assert.Equal(t, 5, cols.StartPosition)
	assert.Equal(t, 10, cols.ReferenceAllele)
	assert.Equal(t, 12, cols.TumorSeqAllele2)
	assert.Equal(t, 13, cols.TumorSampleBarcode)

	// KRAS G12C
	v, ann, err := parser.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "12", v.Chrom)
	assert.Equal(t, int64(25398285), v.Pos)
	assert.Equal(t, "C", v.Ref)
	assert.Equal(t, "A", v.Alt)
	assert.Equal(t, "KRAS", ann.HugoSymbol)
	assert.Equal(t, "missense_variant", ann.Consequence)
	assert.Equal(t, "p.G12C", ann.HGVSpShort)
	assert.Equal(t, "TCGA-PAAD-01", ann.SampleID)
	assert.Equal(t, "GRCh37", ann.NCBIBuild)
	assert.Equal(t, int64(25398285), ann.EndPosition)

	// TERT promoter
	v, ann, err = parser.Next()
	require.NoError(t, err)
	assert.Equal(t, "5", v.Chrom)
	assert.Equal(t, "5'Flank", ann.VariantClassification)
	assert.Empty(t, ann.HGVSpShort)

	// MYC enhancer region, chr-prefixed
	v, _, err = parser.Next()
	require.NoError(t, err)
	assert.Equal(t, "chr8", v.Chrom)
	assert.Equal(t, "8_128413305_G/T", v.Key())

	count := 3
	var last *Annotation
	for {
		v, ann, err := parser.Next()
		require.NoError(t, err)
		if v == nil {
			break
		}
		if ann.HugoSymbol == "TP53" {
			assert.Equal(t, "C", v.Ref)
			assert.Equal(t, "", v.Alt)
			assert.True(t, v.IsIndel())
		}
		last = ann
		count++
	}
	assert.Equal(t, 6, count)
	require.NotNil(t, last)
	assert.Equal(t, "PTEN", last.HugoSymbol)
}

func TestParser_Gzip(t *testing.T) {
	raw, err := os.ReadFile(findTestFile(t, "sample.maf"))
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "data_mutations.txt.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	parser, err := NewParser(path)
	require.NoError(t, err)
	defer parser.Close()

	n := 0
	for {
		v, _, err := parser.Next()
		require.NoError(t, err)
		if v == nil {
			break
		}
		n++
	}
	assert.Equal(t, 6, n)
}

func TestParser_Header(t *testing.T) {
	parser, err := NewParser(findTestFile(t, "sample.maf"))
	require.NoError(t, err)
	defer parser.Close()

	assert.True(t, strings.HasPrefix(parser.Header(), "Hugo_Symbol\t"))
	assert.Equal(t, 2, parser.LineNumber())
}

func TestParser_MissingRequiredColumn(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("Hugo_Symbol\tChromosome\tStart_Position\tReference_Allele\n"))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Line)
	assert.Contains(t, perr.Message, ColTumorSeqAllele2)
}

func TestParser_EmptyInput(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("#comment only\n\n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "no header line found", perr.Message)
}

func TestParser_BadRows(t *testing.T) {
	header := "Chromosome\tStart_Position\tReference_Allele\tTumor_Seq_Allele2\n"

	t.Run("invalid position", func(t *testing.T) {
		p, err := NewParserFromReader(strings.NewReader(header + "1\tabc\tA\tG\n"))
		require.NoError(t, err)
		_, _, err = p.Next()
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 2, perr.Line)
	})

	t.Run("short row", func(t *testing.T) {
		p, err := NewParserFromReader(strings.NewReader(header + "1\t100\n"))
		require.NoError(t, err)
		_, _, err = p.Next()
		assert.Error(t, err)
	})

	t.Run("last line without newline", func(t *testing.T) {
		p, err := NewParserFromReader(strings.NewReader(header + "1\t100\t-\tT"))
		require.NoError(t, err)
		v, ann, err := p.Next()
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, "", v.Ref)
		assert.Equal(t, "T", v.Alt)
		assert.Empty(t, ann.SampleID)

		v, _, err = p.Next()
		assert.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestParseError(t *testing.T) {
	err := &ParseError{Line: 42, Message: "required column not found"}
	assert.Equal(t, "maf parse error at line 42: required column not found", err.Error())
}

func TestAnnotation_ConsequenceTerms(t *testing.T) {
	tests := []struct {
		ann  Annotation
		want string
	}{
		{Annotation{Consequence: "missense_variant", VariantClassification: "Silent"}, "missense_variant"},
		{Annotation{VariantClassification: "3'UTR"}, "3_prime_UTR_variant"},
		{Annotation{VariantClassification: "IGR"}, "intergenic_variant"},
		{Annotation{VariantClassification: "Something_Else"}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ann.ConsequenceTerms())
	}
}

// findTestFile locates a test file in the testdata directory.
func findTestFile(t *testing.T, name string) string {
	t.Helper()

	paths := []string{
		filepath.Join("testdata", name),
		filepath.Join("..", "..", "testdata", name),
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	t.Fatalf("Test file not found: %s", name)
	return ""
}
