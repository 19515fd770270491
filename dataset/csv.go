package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/arloliu/ll5fit/compress"
	"github.com/arloliu/ll5fit/format"
)

// ReadCSV reads two-column x,y records.
//
// Lines starting with '#' and blank lines are skipped. The first record may be a
// header; it is recognised by failing to parse as numbers. Fields may be separated by
// commas and surrounded by spaces.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var x, y []float64
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		line, _ := cr.FieldPos(0)
		if len(rec) != 2 {
			return nil, fmt.Errorf("%w: line %d has %d fields, want 2", ErrMalformed, line, len(rec))
		}

		xv, xErr := parseField(rec[0])
		yv, yErr := parseField(rec[1])
		if xErr != nil || yErr != nil {
			if first {
				continue
			}

			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, errors.Join(xErr, yErr))
		}
		x = append(x, xv)
		y = append(y, yv)
	}

	return New(x, y)
}

func parseField(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// Parse reads a dataset from CSV bytes compressed with c.
func Parse(data []byte, c format.CompressionType) (*Dataset, error) {
	codec, err := compress.GetCodec(c)
	if err != nil {
		return nil, err
	}

	plain, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress %s dataset: %w", c, err)
	}

	return ReadCSV(bytes.NewReader(plain))
}

// Load reads a CSV dataset from path. A .zst, .sz/.s2, or .lz4 suffix selects the
// decompressor.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ds, err := Parse(data, format.CompressionFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	ds.Name = path

	return ds, nil
}

// WriteCSV writes the dataset as an x,y CSV with a header row, using the shortest
// representation that parses back to the same float64.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y"}); err != nil {
		return err
	}

	rec := make([]string, 2)
	for i := range d.X {
		rec[0] = strconv.FormatFloat(d.X[i], 'g', -1, 64)
		rec[1] = strconv.FormatFloat(d.Y[i], 'g', -1, 64)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// Save writes the dataset as CSV to path, compressed according to its suffix.
func (d *Dataset) Save(path string) error {
	return compress.WriteFile(path, d.WriteCSV)
}
