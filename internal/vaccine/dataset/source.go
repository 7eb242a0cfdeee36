package dataset

import (
	"bytes"
	"compress/bzip2"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
)

type format int

const (
	formatCSV format = iota
	formatGzip
	formatBzip2
	formatXZ
	formatXLSX
)

func (f format) String() string {
	switch f {
	case formatGzip:
		return "csv+gzip"
	case formatBzip2:
		return "csv+bzip2"
	case formatXZ:
		return "csv+xz"
	case formatXLSX:
		return "xlsx"
	default:
		return "csv"
	}
}

var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicBzip2 = []byte("BZh")
	magicXZ    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	magicZip   = []byte{'P', 'K', 0x03, 0x04}
)

// detectFormat sniffs the leading bytes; the file extension is not trusted.
func detectFormat(head []byte) format {
	switch {
	case bytes.HasPrefix(head, magicGzip):
		return formatGzip
	case bytes.HasPrefix(head, magicBzip2):
		return formatBzip2
	case bytes.HasPrefix(head, magicXZ):
		return formatXZ
	case bytes.HasPrefix(head, magicZip):
		return formatXLSX
	default:
		return formatCSV
	}
}

// readRows decodes raw file bytes into a header row followed by data rows.
func readRows(raw []byte) ([][]string, format, error) {
	f := detectFormat(raw)

	var r io.Reader = bytes.NewReader(raw)
	switch f {
	case formatXLSX:
		rows, err := readXLSX(raw)
		return rows, f, err
	case formatGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, f, fmt.Errorf("%w: gzip: %v", ErrDatasetMalformed, err)
		}
		defer gz.Close()
		r = gz
	case formatBzip2:
		r = bzip2.NewReader(r)
	case formatXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, f, fmt.Errorf("%w: xz: %v", ErrDatasetMalformed, err)
		}
		r = xr
	}

	rows, err := readCSV(r)
	return rows, f, err
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %v", ErrDatasetMalformed, err)
		}
		rows = append(rows, rec)
	}

	return rows, nil
}

// readXLSX returns the rows of the first sheet.
func readXLSX(raw []byte) ([][]string, error) {
	book, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", ErrDatasetMalformed, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: xlsx has no sheets", ErrDatasetMalformed)
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", ErrDatasetMalformed, err)
	}

	return rows, nil
}
