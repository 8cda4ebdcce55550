package zcompare

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Catalog column names consumed by the selection and figure code.
const (
	ColNumber   = "NUMBER"
	ColZNIRISS  = "Z_NIRISS"
	ColZFlag    = "Z_FLAG"
	ColZSpec    = "zmed_prev"
	ColZPhot    = "zphot_astrodeep"
	ColPhotFlag = "flag_astrodeep"
)

// Catalog is a column-addressed table of float values. Blank or
// non-numeric cells are stored as NaN.
type Catalog struct {
	names []string
	cols  map[string][]float64
	rows  int
}

// LoadCatalog reads a CSV catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("zcompare: %w", err)
	}
	defer f.Close()

	return ReadCatalog(f)
}

// ReadCatalog parses a CSV catalog. The first record is the header;
// every further record must have the same number of fields.
func ReadCatalog(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("zcompare: reading header: %w", err)
	}

	names := make([]string, len(header))
	cols := make(map[string][]float64, len(header))
	for i, name := range header {
		names[i] = strings.TrimSpace(name)
		cols[names[i]] = nil
	}

	rows := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("zcompare: reading row %d: %w", rows+1, err)
		}

		for i, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				v = math.NaN()
			}

			cols[names[i]] = append(cols[names[i]], v)
		}

		rows++
	}

	return &Catalog{names: names, cols: cols, rows: rows}, nil
}

// Rows returns the number of catalog entries.
func (c *Catalog) Rows() int { return c.rows }

// Names returns the column names in file order.
func (c *Catalog) Names() []string { return c.names }

// Column returns the named column.
func (c *Catalog) Column(name string) ([]float64, error) {
	col, ok := c.cols[name]
	if !ok {
		return nil, fmt.Errorf("zcompare: catalog has no column %q", name)
	}

	return col, nil
}
