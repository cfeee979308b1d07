package vcf

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, p *Parser) []string {
	t.Helper()
	var keys []string
	for {
		v, ann, err := p.Next()
		require.NoError(t, err)
		if v == nil {
			return keys
		}
		require.NotNil(t, ann)
		keys = append(keys, v.Key())
	}
}

func TestParser_Sample(t *testing.T) {
	p, err := NewParser(findTestFile(t, "sample.vcf"))
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, []string{"TUMOR-01"}, p.SampleNames())

	v, ann, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "12_25398285_C/A", v.Key())
	assert.Equal(t, "KRAS", ann.HugoSymbol)
	assert.Equal(t, "missense_variant", ann.Consequence)
	assert.Equal(t, "p.G12C", ann.HGVSpShort)
	assert.Equal(t, "SNP", ann.VariantType)
	assert.Equal(t, "TUMOR-01", ann.SampleID)

	// Multi-allelic records are split, the symbolic allele is skipped.
	assert.Equal(t, []string{
		"8_128413305_G/T",
		"8_128413305_G/C",
		"17_7577121_C/",
		"5_1295228_/A",
	}, readAll(t, p))
}

func TestParser_Header(t *testing.T) {
	p, err := NewParser(findTestFile(t, "sample.vcf"))
	require.NoError(t, err)
	defer p.Close()

	header := p.Header()
	require.NotEmpty(t, header)
	assert.Equal(t, "##fileformat=VCFv4.2", header[0])
	assert.True(t, strings.HasPrefix(header[len(header)-1], "#CHROM"))
	assert.Equal(t, 5, p.LineNumber())
}

func TestParser_Gzip(t *testing.T) {
	raw, err := os.ReadFile(findTestFile(t, "sample.vcf"))
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "sample.vcf.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()
	assert.Len(t, readAll(t, p), 5)
}

func TestTrimAnchor(t *testing.T) {
	tests := []struct {
		name     string
		ref, alt string
		want     string
		wantType string
	}{
		{"snv", "A", "C", "1_100_A/C", "SNP"},
		{"mnv", "AT", "CG", "1_100_AT/CG", "ONP"},
		{"deletion", "ATG", "A", "1_101_TG/", "DEL"},
		{"insertion", "A", "ATT", "1_100_/TT", "INS"},
		{"complex", "AT", "G", "1_100_AT/G", "DEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n1\t100\t.\t" + tt.ref + "\t" + tt.alt + "\t.\t.\t.\n"
			p, err := NewParserFromReader(strings.NewReader(in))
			require.NoError(t, err)
			v, ann, err := p.Next()
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Key())
			assert.Equal(t, tt.wantType, ann.VariantType)
		})
	}
}

func TestParser_Errors(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("1\t100\t.\tA\tC\t.\t.\t.\n"))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Line)

	_, err = NewParserFromReader(strings.NewReader("##fileformat=VCFv4.2\n"))
	assert.ErrorAs(t, err, &pe)

	p, err := NewParserFromReader(strings.NewReader("#CHROM\tPOS\n1\tabc\t.\tA\tC\t.\t.\t.\n2\t5\n"))
	require.NoError(t, err)
	_, _, err = p.Next()
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "invalid position: abc")
	_, _, err = p.Next()
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "vcf parse error at line 3: expected at least 8 columns, found 2", pe.Error())
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
