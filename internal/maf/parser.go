// Package maf reads cBioPortal mutation exports in Mutation Annotation
// Format (data_mutations.txt), plain or gzipped.
package maf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inodb/vibe-enhancer/internal/variant"
)

// MAF column names read by the parser.
const (
	ColHugoSymbol            = "Hugo_Symbol"
	ColChromosome            = "Chromosome"
	ColStartPosition         = "Start_Position"
	ColEndPosition           = "End_Position"
	ColVariantClassification = "Variant_Classification"
	ColVariantType           = "Variant_Type"
	ColReferenceAllele       = "Reference_Allele"
	ColTumorSeqAllele2       = "Tumor_Seq_Allele2"
	ColTumorSampleBarcode    = "Tumor_Sample_Barcode"
	ColConsequence           = "Consequence"
	ColHGVSpShort            = "HGVSp_Short"
	ColTranscriptID          = "Transcript_ID"
	ColNCBIBuild             = "NCBI_Build"
)

// ColumnIndices holds the position of each known column, -1 when absent.
type ColumnIndices struct {
	HugoSymbol            int
	Chromosome            int
	StartPosition         int
	EndPosition           int
	VariantClassification int
	VariantType           int
	ReferenceAllele       int
	TumorSeqAllele2       int
	TumorSampleBarcode    int
	Consequence           int
	HGVSpShort            int
	TranscriptID          int
	NCBIBuild             int
}

// Annotation carries the per-mutation MAF fields used for context
// derivation and reporting.
type Annotation struct {
	HugoSymbol            string
	Consequence           string
	VariantClassification string
	HGVSpShort            string
	TranscriptID          string
	VariantType           string
	NCBIBuild             string
	SampleID              string
	EndPosition           int64
}

// Parser reads mutations from a MAF file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	columns    ColumnIndices
	headerLine string
	done       bool
}

// NewParser opens a MAF file. Gzipped input is detected by magic bytes;
// "-" reads from stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open maf file: %w", err)
	}

	p := &Parser{file: file}
	br := bufio.NewReader(file)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
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

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{reader: bufio.NewReader(r)}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// readLine returns the next non-empty, non-comment line with its line
// ending removed. ok is false at end of input.
func (p *Parser) readLine() (line string, ok bool, err error) {
	for !p.done {
		line, err = p.reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return "", false, fmt.Errorf("read maf line: %w", err)
			}
			p.done = true
			if line == "" {
				break
			}
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, true, nil
	}
	return "", false, nil
}

func (p *Parser) parseHeader() error {
	line, ok, err := p.readLine()
	if err != nil {
		return err
	}
	if !ok {
		return &ParseError{Line: p.lineNumber, Message: "no header line found"}
	}
	p.headerLine = line
	return p.parseColumnIndices(line)
}

func (p *Parser) parseColumnIndices(headerLine string) error {
	p.columns = ColumnIndices{
		HugoSymbol: -1, Chromosome: -1, StartPosition: -1, EndPosition: -1,
		VariantClassification: -1, VariantType: -1, ReferenceAllele: -1,
		TumorSeqAllele2: -1, TumorSampleBarcode: -1, Consequence: -1,
		HGVSpShort: -1, TranscriptID: -1, NCBIBuild: -1,
	}
	targets := map[string]*int{
		ColHugoSymbol:            &p.columns.HugoSymbol,
		ColChromosome:            &p.columns.Chromosome,
		ColStartPosition:         &p.columns.StartPosition,
		ColEndPosition:           &p.columns.EndPosition,
		ColVariantClassification: &p.columns.VariantClassification,
		ColVariantType:           &p.columns.VariantType,
		ColReferenceAllele:       &p.columns.ReferenceAllele,
		ColTumorSeqAllele2:       &p.columns.TumorSeqAllele2,
		ColTumorSampleBarcode:    &p.columns.TumorSampleBarcode,
		ColConsequence:           &p.columns.Consequence,
		ColHGVSpShort:            &p.columns.HGVSpShort,
		ColTranscriptID:          &p.columns.TranscriptID,
		ColNCBIBuild:             &p.columns.NCBIBuild,
	}
	for i, col := range strings.Split(headerLine, "\t") {
		if idx, ok := targets[strings.TrimSpace(col)]; ok && *idx == -1 {
			*idx = i
		}
	}

	required := []struct {
		name string
		idx  int
	}{
		{ColChromosome, p.columns.Chromosome},
		{ColStartPosition, p.columns.StartPosition},
		{ColReferenceAllele, p.columns.ReferenceAllele},
		{ColTumorSeqAllele2, p.columns.TumorSeqAllele2},
	}
	for _, r := range required {
		if r.idx == -1 {
			return &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("required column '%s' not found in header", r.name),
			}
		}
	}
	return nil
}

// Next reads the next mutation and its annotation.
// Returns nil, nil, nil when there are no more mutations.
func (p *Parser) Next() (*variant.Variant, *Annotation, error) {
	line, ok, err := p.readLine()
	if err != nil || !ok {
		return nil, nil, err
	}
	return p.parseLine(line)
}

func (p *Parser) parseLine(line string) (*variant.Variant, *Annotation, error) {
	fields := strings.Split(line, "\t")

	minCols := max(p.columns.Chromosome, p.columns.StartPosition, p.columns.ReferenceAllele, p.columns.TumorSeqAllele2)
	if len(fields) <= minCols {
		return nil, nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", minCols+1, len(fields)),
		}
	}

	pos, err := strconv.ParseInt(strings.TrimSpace(fields[p.columns.StartPosition]), 10, 64)
	if err != nil {
		return nil, nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[p.columns.StartPosition]),
		}
	}

	// MAF writes "-" for the empty side of an indel.
	ref := fields[p.columns.ReferenceAllele]
	alt := fields[p.columns.TumorSeqAllele2]
	if ref == "-" {
		ref = ""
	}
	if alt == "-" {
		alt = ""
	}

	v := &variant.Variant{
		Chrom: fields[p.columns.Chromosome],
		Pos:   pos,
		ID:    ".",
		Ref:   ref,
		Alt:   alt,
	}

	field := func(idx int) string {
		if idx >= 0 && idx < len(fields) {
			return fields[idx]
		}
		return ""
	}
	ann := &Annotation{
		HugoSymbol:            field(p.columns.HugoSymbol),
		Consequence:           field(p.columns.Consequence),
		VariantClassification: field(p.columns.VariantClassification),
		HGVSpShort:            field(p.columns.HGVSpShort),
		TranscriptID:          field(p.columns.TranscriptID),
		VariantType:           field(p.columns.VariantType),
		NCBIBuild:             field(p.columns.NCBIBuild),
		SampleID:              field(p.columns.TumorSampleBarcode),
	}
	if end, err := strconv.ParseInt(strings.TrimSpace(field(p.columns.EndPosition)), 10, 64); err == nil {
		ann.EndPosition = end
	}

	return v, ann, nil
}

// Header returns the MAF header line.
func (p *Parser) Header() string {
	return p.headerLine
}

// Columns returns the parsed column indices.
func (p *Parser) Columns() ColumnIndices {
	return p.columns
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

// ParseError represents an error during MAF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("maf parse error at line %d: %s", e.Line, e.Message)
}
