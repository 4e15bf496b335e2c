// Package export renders ledger and registry data as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/govalues/money"
	"github.com/xuri/excelize/v2"

	"github.com/tinoosan/fluxo/internal/ledger"
	"github.com/tinoosan/fluxo/internal/slug"
)

const (
	currencyFormat = `"R$" #,##0.00`
	dateFormat     = "yyyy-mm-dd"
	headerColor    = "4472C4"
	zebraColor     = "F2F2F2"
)

// FileName returns the download name for a workbook, e.g. "lancamentos_2026-01-01_2026-01-31.xlsx".
func FileName(kind string, parts ...string) string { return slug.FileName(kind, "xlsx", parts...) }

// book wraps an excelize file with the shared styles.
type book struct {
	f        *excelize.File
	header   int
	money    int
	date     int
	zebra    int
	bold     int
	sheetIdx int
}

func newBook() (*book, error) {
	f := excelize.NewFile()
	b := &book{f: f}
	var err error
	cf, df := currencyFormat, dateFormat
	if b.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return nil, err
	}
	if b.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &cf, Alignment: &excelize.Alignment{Horizontal: "right"}}); err != nil {
		return nil, err
	}
	if b.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &df, Alignment: &excelize.Alignment{Horizontal: "center"}}); err != nil {
		return nil, err
	}
	if b.zebra, err = f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Color: []string{zebraColor}, Pattern: 1}}); err != nil {
		return nil, err
	}
	if b.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, err
	}
	return b, nil
}

// sheet returns the name after creating it; the first call renames the default sheet.
func (b *book) sheet(name string) (string, error) {
	if b.sheetIdx == 0 {
		b.sheetIdx++
		return name, b.f.SetSheetName("Sheet1", name)
	}
	b.sheetIdx++
	_, err := b.f.NewSheet(name)
	return name, err
}

type column struct {
	title string
	width float64
	kind  int // 0 text, 1 money, 2 date
}

const (
	kindText = iota
	kindMoney
	kindDate
)

// table writes a header row plus data rows, with frozen header and filter.
func (b *book) table(sheet string, cols []column, rows [][]any) error {
	for i, c := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := b.f.SetCellValue(sheet, cell, c.title); err != nil {
			return err
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := b.f.SetColWidth(sheet, name, name, c.width); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := b.f.SetCellStyle(sheet, "A1", last, b.header); err != nil {
		return err
	}
	for r, row := range rows {
		rowNum := r + 2
		for i, v := range row {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)
			if err := b.f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
			switch cols[i].kind {
			case kindMoney:
				err := b.f.SetCellStyle(sheet, cell, cell, b.money)
				if err != nil {
					return err
				}
			case kindDate:
				err := b.f.SetCellStyle(sheet, cell, cell, b.date)
				if err != nil {
					return err
				}
			default:
				if rowNum%2 == 0 {
					if err := b.f.SetCellStyle(sheet, cell, cell, b.zebra); err != nil {
						return err
					}
				}
			}
		}
	}
	if err := b.f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(len(cols), len(rows)+1)
	return b.f.AutoFilter(sheet, "A1:"+end, nil)
}

// pairs writes label/value rows under a merged title, starting at row 1.
func (b *book) pairs(sheet, title string, rows [][2]any, moneyValues bool) error {
	if err := b.f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	if err := b.f.MergeCell(sheet, "A1", "B1"); err != nil {
		return err
	}
	if err := b.f.SetCellStyle(sheet, "A1", "B1", b.header); err != nil {
		return err
	}
	_ = b.f.SetColWidth(sheet, "A", "A", 26)
	_ = b.f.SetColWidth(sheet, "B", "B", 18)
	for i, p := range rows {
		a, v := fmt.Sprintf("A%d", i+3), fmt.Sprintf("B%d", i+3)
		if err := b.f.SetCellValue(sheet, a, p[0]); err != nil {
			return err
		}
		if err := b.f.SetCellValue(sheet, v, p[1]); err != nil {
			return err
		}
		_ = b.f.SetCellStyle(sheet, a, a, b.bold)
		if moneyValues {
			_ = b.f.SetCellStyle(sheet, v, v, b.money)
		}
	}
	return nil
}

func (b *book) write(w io.Writer) error {
	b.f.SetActiveSheet(0)
	if err := b.f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return b.f.Close()
}

// amount converts to a float cell value; the workbook is for display only.
func amount(cents int64) float64 { return float64(cents) / 100 }

func value(a money.Amount) float64 { return amount(ledger.Cents(a)) }

// day parses YYYY-MM-DD into a date cell, falling back to the raw text.
func day(s string) any {
	if t, err := time.Parse(ledger.DateLayout, s); err == nil {
		return t
	}
	return s
}
