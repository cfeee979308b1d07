// Package vcf reads somatic mutations from VCF files so they can be
// screened like MAF rows.
package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inodb/vibe-enhancer/internal/maf"
	"github.com/inodb/vibe-enhancer/internal/variant"
)

// INFO keys read into the mutation annotation. The first present key wins.
var (
	geneKeys        = []string{"SYMBOL", "GENE", "Hugo_Symbol"}
	consequenceKeys = []string{"Consequence", "CSQ_CONSEQUENCE"}
	hgvspKeys       = []string{"HGVSp_Short", "HGVSp"}
)

// Parser reads variants from a VCF file. Multi-allelic records are split
// and alleles are trimmed to the MAF convention so keys match signal
// records keyed from MAF coordinates.
type Parser struct {
	reader      *bufio.Reader
	file        *os.File
	gzipReader  *gzip.Reader
	lineNumber  int
	header      []string
	sampleNames []string

	pending []pendingVariant
}

type pendingVariant struct {
	v   *variant.Variant
	ann *maf.Annotation
}

// NewParser opens a plain or gzipped VCF. "-" reads stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	p := &Parser{file: file}

	br := bufio.NewReader(file)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read vcf header: %w", err)
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = br
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{reader: bufio.NewReader(r)}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++
		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "##") {
			p.header = append(p.header, line)
			continue
		}
		if strings.HasPrefix(line, "#CHROM") {
			p.header = append(p.header, line)
			if fields := strings.Split(line, "\t"); len(fields) > 9 {
				p.sampleNames = fields[9:]
			}
			return nil
		}
		return &ParseError{Line: p.lineNumber, Message: "expected #CHROM header line"}
	}
	return &ParseError{Line: p.lineNumber, Message: "no #CHROM header line found"}
}

// Next returns the next variant with an annotation built from INFO.
// It returns nil values when the file is exhausted.
func (p *Parser) Next() (*variant.Variant, *maf.Annotation, error) {
	for len(p.pending) == 0 {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil, nil, nil
			}
			return nil, nil, fmt.Errorf("read variant line: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		if p.pending, err = p.parseLine(line); err != nil {
			return nil, nil, err
		}
	}

	next := p.pending[0]
	p.pending = p.pending[1:]
	return next.v, next.ann, nil
}

func (p *Parser) parseLine(line string) ([]pendingVariant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least 8 columns, found %d", len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	info := parseInfo(fields[7])
	var sample string
	if len(p.sampleNames) > 0 {
		sample = p.sampleNames[0]
	}

	var out []pendingVariant
	for _, alt := range strings.Split(fields[4], ",") {
		if alt == "." || alt == "*" || strings.HasPrefix(alt, "<") {
			continue
		}
		v := &variant.Variant{Chrom: fields[0], Pos: pos, ID: fields[2], Ref: fields[3], Alt: alt}
		trimAnchor(v)
		out = append(out, pendingVariant{
			v: v,
			ann: &maf.Annotation{
				HugoSymbol:  firstOf(info, geneKeys),
				Consequence: firstOf(info, consequenceKeys),
				HGVSpShort:  firstOf(info, hgvspKeys),
				VariantType: variantType(v),
				SampleID:    sample,
				EndPosition: v.Pos + int64(max(len(v.Ref), 1)) - 1,
			},
		})
	}
	return out, nil
}

// trimAnchor drops the shared leading base VCF puts on indels. Deletions
// then start at the first deleted base; insertions keep the anchor
// position, as in MAF.
func trimAnchor(v *variant.Variant) {
	if len(v.Ref) == len(v.Alt) || v.Ref == "" || v.Alt == "" || v.Ref[0] != v.Alt[0] {
		return
	}
	deletion := len(v.Ref) > len(v.Alt)
	v.Ref = v.Ref[1:]
	v.Alt = v.Alt[1:]
	if deletion {
		v.Pos++
	}
}

func variantType(v *variant.Variant) string {
	switch {
	case v.Ref == "":
		return "INS"
	case v.Alt == "":
		return "DEL"
	case len(v.Ref) == 1 && len(v.Alt) == 1:
		return "SNP"
	case len(v.Ref) == len(v.Alt):
		return "ONP"
	case len(v.Ref) > len(v.Alt):
		return "DEL"
	default:
		return "INS"
	}
}

// parseInfo parses the INFO field; flags map to "true".
func parseInfo(info string) map[string]string {
	result := make(map[string]string)
	if info == "." {
		return result
	}
	for _, kv := range strings.Split(info, ";") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			v = "true"
		}
		result[k] = v
	}
	return result
}

func firstOf(info map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := info[k]; ok && v != "." {
			return v
		}
	}
	return ""
}

// Header returns the VCF header lines.
func (p *Parser) Header() []string {
	return p.header
}

// SampleNames returns sample names from the #CHROM header line.
func (p *Parser) SampleNames() []string {
	return p.sampleNames
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during VCF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
