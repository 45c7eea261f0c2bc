package spreadsheet

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"
)

type xlsxFile struct {
	file *excelize.File
}

func openXLSX(path string) (*xlsxFile, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	return &xlsxFile{file: f}, nil
}

// Rows reads raw cell values so dates arrive as serial numbers regardless of cell styles.
func (x *xlsxFile) Rows(sheet string) ([][]string, error) {
	if idx, err := x.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.Wrapf(ErrSheetNotFound, "sheet %s", sheet)
	}

	rows, err := x.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %s", sheet)
	}
	return rows, nil
}

func (x *xlsxFile) Close() error {
	return x.file.Close()
}

// excelSerialToTime assumes the 1900 date system, the default for workbooks saved by Excel
// and LibreOffice.
func excelSerialToTime(serial float64) (time.Time, error) {
	return excelize.ExcelDateToTime(serial, false)
}
