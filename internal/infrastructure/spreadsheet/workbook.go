package spreadsheet

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commander-stats/internal/domain/reconcile"
)

var (
	ErrSheetNotFound  = errors.New("sheet not found")
	ErrColumnNotFound = errors.New("column not found")
)

type Options struct {
	RosterSheet   string
	RosterColumn  string
	RegisterSheet string
	// DateColumns hold Excel serial dates in xlsx files; they are rendered as ISO-8601 text.
	DateColumns []string
}

func DefaultOptions() Options {
	return Options{
		RosterSheet:   "players",
		RosterColumn:  "NOME",
		RegisterSheet: "REG",
		DateColumns:   []string{reconcile.DefaultColumns().Date},
	}
}

type sheetReader interface {
	Rows(sheet string) ([][]string, error)
	Close() error
}

// Workbook reads the roster and the match register from an .xlsx file or from a directory
// holding one <sheet>.csv per sheet.
type Workbook struct {
	path        string
	opts        Options
	reader      sheetReader
	serialDates bool
}

func Open(path string, opts Options) (*Workbook, error) {
	defaults := DefaultOptions()
	if opts.RosterSheet == "" {
		opts.RosterSheet = defaults.RosterSheet
	}
	if opts.RosterColumn == "" {
		opts.RosterColumn = defaults.RosterColumn
	}
	if opts.RegisterSheet == "" {
		opts.RegisterSheet = defaults.RegisterSheet
	}
	if opts.DateColumns == nil {
		opts.DateColumns = defaults.DateColumns
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open source %s", path)
	}

	w := &Workbook{path: path, opts: opts}
	switch {
	case info.IsDir():
		w.reader = csvDirectory{dir: path}
	case strings.EqualFold(filepath.Ext(path), ".xlsx"), strings.EqualFold(filepath.Ext(path), ".xlsm"):
		r, err := openXLSX(path)
		if err != nil {
			return nil, err
		}
		w.reader = r
		w.serialDates = true
	default:
		return nil, errors.Newf("unsupported source %s: expected an .xlsx file or a directory of .csv sheets", path)
	}

	return w, nil
}

func (w *Workbook) Close() error {
	if w == nil || w.reader == nil {
		return nil
	}
	return w.reader.Close()
}

// Roster returns the trimmed, non-blank player names in sheet order.
func (w *Workbook) Roster(ctx context.Context) ([]string, error) {
	rows, err := w.table(ctx, w.opts.RosterSheet)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		if _, ok := rows[0].Cells[w.opts.RosterColumn]; !ok {
			return nil, errors.Wrapf(ErrColumnNotFound, "sheet %s column %s", w.opts.RosterSheet, w.opts.RosterColumn)
		}
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name := row.Get(w.opts.RosterColumn); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func (w *Workbook) Register(ctx context.Context) ([]reconcile.SourceRow, error) {
	rows, err := w.table(ctx, w.opts.RegisterSheet)
	if err != nil {
		return nil, err
	}
	if !w.serialDates {
		return rows, nil
	}

	for _, row := range rows {
		for _, col := range w.opts.DateColumns {
			if raw, ok := row.Cells[col]; ok {
				row.Cells[col] = serialToISO(raw)
			}
		}
	}
	return rows, nil
}

// table maps every data row by header. Line numbers are 1-based sheet rows, header included.
func (w *Workbook) table(ctx context.Context, sheet string) ([]reconcile.SourceRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := w.reader.Rows(sheet)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	header := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	out := make([]reconcile.SourceRow, 0, len(raw)-1)
	for i, values := range raw[1:] {
		if blankRow(values) {
			continue
		}
		cells := make(map[string]string, len(header))
		for col, name := range header {
			if name == "" {
				continue
			}
			if col < len(values) {
				cells[name] = values[col]
			} else {
				cells[name] = ""
			}
		}
		out = append(out, reconcile.SourceRow{Line: i + 2, Cells: cells})
	}
	return out, nil
}

func blankRow(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// serialToISO renders an Excel serial date. Text that is not a serial is returned untouched.
func serialToISO(raw string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || serial <= 0 {
		return raw
	}

	t, err := excelSerialToTime(serial)
	if err != nil {
		return raw
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.DateTime)
}
