// Package export renders transaction reports as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"household-finance/internal/domain/transactions"
)

const (
	SheetName   = "Transactions"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	Filename    = "transactions.xlsx"

	NoDataLabel       = "No data for the selected period"
	TotalIncomeLabel  = "Total income:"
	TotalExpenseLabel = "Total expense:"
	BalanceLabel      = "Balance:"
)

var columns = []struct {
	header string
	width  float64
}{
	{"Date", 15},
	{"Type", 12},
	{"Category", 20},
	{"Amount", 15},
	{"Description", 30},
}

// WriteTransactions writes rows, in the given order, to w as an XLSX
// workbook followed by income, expense and balance totals.
func WriteTransactions(w io.Writer, rows []transactions.TransactionView) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, 0, len(columns))
	for i, column := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := file.SetColWidth(SheetName, name, name, column.width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
		header = append(header, column.header)
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	row := 1
	if err := setRow(file, row, header); err != nil {
		return err
	}
	if err := file.SetRowStyle(SheetName, row, row, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	if len(rows) == 0 {
		if err := setRow(file, row+1, []interface{}{NoDataLabel}); err != nil {
			return err
		}
		return write(file, w)
	}

	var income, expense int64
	for _, transaction := range rows {
		row++
		description := ""
		if transaction.Description != nil {
			description = *transaction.Description
		}
		if err := setRow(file, row, []interface{}{
			transaction.Date.Format(time.DateOnly),
			typeLabel(transaction.Type),
			transaction.Category,
			transaction.Amount,
			description,
		}); err != nil {
			return err
		}

		if transaction.Type == transactions.TypeIncome {
			income += transaction.Amount
		} else {
			expense += transaction.Amount
		}
	}

	row += 2
	totals := [][]interface{}{
		{TotalIncomeLabel, "", "", income},
		{TotalExpenseLabel, "", "", expense},
		{BalanceLabel, "", "", income - expense},
	}
	for i, values := range totals {
		if err := setRow(file, row+i, values); err != nil {
			return err
		}
	}
	if err := file.SetRowStyle(SheetName, row, row+len(totals)-1, bold); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}

	return write(file, w)
}

func typeLabel(kind string) string {
	if kind == transactions.TypeIncome {
		return "Income"
	}
	return "Expense"
}

func setRow(file *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := file.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func write(file *excelize.File, w io.Writer) error {
	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
