// Package csvimport reads delimited exports into header keyed rows.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Parser reads a CSV stream whose first line is a header
type Parser struct {
	delimiter  rune
	lazyQuotes bool
	skipRows   int
	headers    []string
	headerMap  map[string]int
	line       int
	reader     *csv.Reader
}

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *Parser) { p.delimiter = d }
}

// WithLazyQuotes enables lazy quote handling
func WithLazyQuotes(lazy bool) ParserOption {
	return func(p *Parser) { p.lazyQuotes = lazy }
}

// WithSkippedRows drops n rows right after the header, such as a row
// describing each column
func WithSkippedRows(n int) ParserOption {
	return func(p *Parser) { p.skipRows = n }
}

// NewParser wraps r, strips a UTF-8 BOM and reads the header line
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		delimiter:  ',',
		lazyQuotes: true,
		headerMap:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\xef\xbb\xbf" {
		_, _ = br.Discard(3)
	}
	head, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if !validUTF8Prefix(head) {
		return nil, ErrInvalidEncoding
	}

	p.reader = csv.NewReader(br)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = p.lazyQuotes
	p.reader.FieldsPerRecord = -1

	if err := p.readHeader(); err != nil {
		return nil, err
	}
	for i := 0; i < p.skipRows; i++ {
		if _, err := p.reader.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return p, nil
			}
			return nil, fmt.Errorf("failed to skip row %d: %w", p.line+1, err)
		}
		p.line++
	}
	return p, nil
}

// validUTF8Prefix tolerates a multi-byte rune cut at the end of the window
func validUTF8Prefix(b []byte) bool {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}
		b = b[:len(b)-1]
	}
	return utf8.Valid(b)
}

func (p *Parser) readHeader() error {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	p.line = 1

	p.headers = make([]string, len(record))
	for i, h := range record {
		h = strings.TrimSpace(h)
		p.headers[i] = h
		p.headerMap[h] = i
	}
	return nil
}

// Headers returns the parsed header names
func (p *Parser) Headers() []string {
	return p.headers
}

// MissingHeaders returns the required headers absent from the file
func (p *Parser) MissingHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := p.headerMap[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data line keyed by header
type Row struct {
	Line int
	Data map[string]string
}

// Get returns the trimmed value of a column, empty when absent
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty reports whether every value of the row is empty
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// Next reads the next row. It returns io.EOF at the end of the stream.
func (p *Parser) Next() (*Row, error) {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	p.line++
	if err != nil {
		return nil, NewRowError(p.line, "", ErrCodeMalformedRow, err.Error())
	}

	row := &Row{Line: p.line, Data: make(map[string]string, len(p.headers))}
	for i, header := range p.headers {
		if i < len(record) {
			row.Data[header] = strings.TrimSpace(record[i])
		} else {
			row.Data[header] = ""
		}
	}
	return row, nil
}

// All reads every remaining non-empty row
func (p *Parser) All() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		if !row.IsEmpty() {
			rows = append(rows, row)
		}
	}
}
