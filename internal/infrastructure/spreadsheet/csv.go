package spreadsheet

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

type csvDirectory struct {
	dir string
}

func (d csvDirectory) Rows(sheet string) ([][]string, error) {
	path := filepath.Join(d.dir, sheet+".csv")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrSheetNotFound, "sheet %s (%s)", sheet, path)
		}
		return nil, errors.Wrapf(err, "open sheet %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %s", path)
	}
	return rows, nil
}

func (csvDirectory) Close() error { return nil }
