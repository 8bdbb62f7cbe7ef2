package exports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/tealeg/xlsx/v3"
)

const timestampLayout = "2006-01-02 15:04:05"

var columns = []string{
	"id", "sku", "name", "unit_cost", "price", "quantity",
	"min_quantity", "barcode", "active", "created_at", "updated_at",
}

// WriteCSV renders the item table as CSV. The header row is always
// written, even for an empty list. Timestamps are rendered in loc.
func WriteCSV(w io.Writer, list []models.Item, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, item := range list {
		if err := cw.Write(itemRow(item, loc)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteXLSX renders the item table as a single-sheet workbook.
func WriteXLSX(w io.Writer, list []models.Item, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Items")
	if err != nil {
		return fmt.Errorf("add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range columns {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for _, item := range list {
		row := sheet.AddRow()
		for _, value := range itemRow(item, loc) {
			row.AddCell().Value = value
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func itemRow(item models.Item, loc *time.Location) []string {
	barcode := ""
	if item.Barcode != nil {
		barcode = *item.Barcode
	}
	return []string{
		strconv.FormatInt(item.ID, 10),
		item.SKU,
		item.Name,
		item.UnitCost.String(),
		item.Price.String(),
		strconv.Itoa(item.Quantity),
		strconv.Itoa(item.MinQuantity),
		barcode,
		strconv.FormatBool(item.Active),
		item.CreatedAt.In(loc).Format(timestampLayout),
		item.UpdatedAt.In(loc).Format(timestampLayout),
	}
}
