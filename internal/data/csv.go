package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

var (
	// ErrMalformedCSV is wrapped by every ReadCSV parse failure.
	ErrMalformedCSV = errors.New("data: malformed csv")

	// ErrLabelCount is returned when a Dataset has a different number of rows and labels.
	ErrLabelCount = errors.New("data: label count does not match rows")
)

// WriteCSV stores ds with a header f0..f{D-1},label. Parent directories are created.
func WriteCSV(path string, ds Dataset) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := EncodeCSV(f, ds); err != nil {
		return err
	}
	return f.Close()
}

// EncodeCSV is WriteCSV over an arbitrary writer.
func EncodeCSV(w io.Writer, ds Dataset) error {
	if len(ds.Y) != len(ds.X) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrLabelCount, len(ds.X), len(ds.Y))
	}
	cw := csv.NewWriter(w)
	dims := ds.Dimensions()
	header := make([]string, 0, dims+1)
	for j := 0; j < dims; j++ {
		header = append(header, "f"+strconv.Itoa(j))
	}
	header = append(header, "label")
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, dims+1)
	for i, row := range ds.X {
		if len(row) != dims {
			return fmt.Errorf("data: row %d has %d features, want %d", i, len(row), dims)
		}
		for j, v := range row {
			rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		rec[dims] = strconv.Itoa(ds.Y[i])
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV loads a file written by WriteCSV: one header row, label in the last column.
func ReadCSV(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	return DecodeCSV(f)
}

// DecodeCSV parses the WriteCSV format from r.
func DecodeCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(rows) < 2 {
		return Dataset{}, fmt.Errorf("%w: no data rows", ErrMalformedCSV)
	}
	width := len(rows[0])
	if width < 2 {
		return Dataset{}, fmt.Errorf("%w: need at least one feature and a label", ErrMalformedCSV)
	}
	ds := Dataset{X: make([][]float64, 0, len(rows)-1), Y: make([]int, 0, len(rows)-1)}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		x := make([]float64, width-1)
		for j := 0; j < width-1; j++ {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return Dataset{}, fmt.Errorf("%w: line %d column %d: %v", ErrMalformedCSV, i+1, j+1, err)
			}
			x[j] = v
		}
		label, err := strconv.ParseFloat(row[width-1], 64)
		if err != nil || label != float64(int(label)) {
			return Dataset{}, fmt.Errorf("%w: line %d: label %q is not an integer", ErrMalformedCSV, i+1, row[width-1])
		}
		ds.X = append(ds.X, x)
		ds.Y = append(ds.Y, int(label))
	}
	return ds, nil
}
