// Package export renders a user's financial history as downloadable
// reports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/money-gurus/guru-server/internal/model"
)

var headerRow = []string{
	"Month", "Income", "Recurring Costs", "Leisure", "Savings",
	"Emergency Fund", "Investments", "Guru Score", "Savings Rate %",
}

// Report bundles everything needed to render one export.
type Report struct {
	User    model.User
	Entries []model.MonthEntry
	Now     time.Time
}

// WriteCSV renders the report as CSV with a small preamble, mirroring
// the layout users already download.
func (r Report) WriteCSV(w io.Writer) error {
	printer := message.NewPrinter(language.English)

	cw := csv.NewWriter(w)
	preamble := [][]string{
		{fmt.Sprintf("MoneyGuru Financial History - %s", r.User.Username)},
		{fmt.Sprintf("Exported on: %s", r.Now.Format("2006-01-02"))},
		{fmt.Sprintf("Currency: %s", r.User.CurrencySymbol)},
		{fmt.Sprintf("Total months: %s", printer.Sprintf("%d", len(r.Entries)))},
		{},
		headerRow,
	}
	for _, row := range preamble {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write csv preamble")
		}
	}

	for _, e := range r.Entries {
		row := []string{
			e.Month,
			formatAmount(e.Income),
			formatAmount(e.Recurring),
			formatAmount(e.Leisure),
			formatAmount(e.Savings),
			formatAmount(e.Emergency),
			formatAmount(e.Investment),
			strconv.Itoa(e.Score),
			strconv.Itoa(e.SavingsRatePct()),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "export: write csv row %s", e.ID)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteXLSX renders the report as a single-sheet workbook.
func (r Report) WriteXLSX(w io.Writer) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("History")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	title := sheet.AddRow()
	title.AddCell().Value = fmt.Sprintf("MoneyGuru Financial History - %s", r.User.Username)
	meta := sheet.AddRow()
	meta.AddCell().Value = fmt.Sprintf("Exported on %s, currency %s",
		r.Now.Format("2006-01-02"), r.User.CurrencySymbol)
	sheet.AddRow()

	header := sheet.AddRow()
	for _, h := range headerRow {
		header.AddCell().Value = h
	}

	for _, e := range r.Entries {
		row := sheet.AddRow()
		row.AddCell().Value = e.Month
		for _, v := range []float64{e.Income, e.Recurring, e.Leisure, e.Savings, e.Emergency, e.Investment} {
			row.AddCell().SetFloat(v)
		}
		row.AddCell().SetInt(e.Score)
		row.AddCell().SetInt(e.SavingsRatePct())
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
