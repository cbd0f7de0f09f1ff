package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"bookstore-service/internal/models"
	"github.com/xuri/excelize/v2"
)

const templateSheet = "Products"

// WriteCSVTemplate writes the template header row.
func WriteCSVTemplate(w io.Writer, template models.ImportTemplate) error {
	writer := csv.NewWriter(w)

	headers := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
	}
	if err := writer.Write(headers); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSXTemplate writes a workbook with a styled Products header row and an
// Instructions sheet describing every column. Required headers carry " *".
func WriteXLSXTemplate(w io.Writer, template models.ImportTemplate) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}
	requiredStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := col.Name
		style := headerStyle
		if col.Required {
			headerText = col.Name + " *"
			style = requiredStyle
		}
		f.SetCellValue(templateSheet, cell, headerText)
		f.SetCellStyle(templateSheet, cell, cell, style)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(templateSheet, colName, colName, 20)
	}

	const instructions = "Instructions"
	if _, err := f.NewSheet(instructions); err != nil {
		return err
	}
	f.SetCellValue(instructions, "A1", "Product Import Instructions")
	f.SetCellValue(instructions, "A3", "MATCHING RULES:")
	f.SetCellValue(instructions, "A4", "- A row updates the product with the same handle, or the same title ignoring case. Otherwise a product is created.")
	f.SetCellValue(instructions, "A5", "- productType (or categoryName) is matched against existing categories by slug or name. \"Books\" and \"Book\" are the same category.")
	f.SetCellValue(instructions, "A6", "- Missing categories are created automatically using the singular name.")
	f.SetCellValue(instructions, "A7", "- Rows missing title or price are reported and skipped; the rest of the file is still imported.")
	f.SetCellValue(instructions, "A8", "- A category name needs at least one letter (a-z) or digit; a name like \"!!!\" fails its row.")

	f.SetCellValue(instructions, "A10", "Column Definitions:")
	f.SetCellValue(instructions, "A11", "Column")
	f.SetCellValue(instructions, "B11", "Description")
	f.SetCellValue(instructions, "C11", "Required")
	f.SetCellValue(instructions, "D11", "Type")
	f.SetCellValue(instructions, "E11", "Example")

	for i, col := range template.Columns {
		row := i + 12
		required := "Optional"
		if col.Required {
			required = "Required"
		}
		f.SetCellValue(instructions, fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue(instructions, fmt.Sprintf("B%d", row), col.Description)
		f.SetCellValue(instructions, fmt.Sprintf("C%d", row), required)
		f.SetCellValue(instructions, fmt.Sprintf("D%d", row), col.Type)
		f.SetCellValue(instructions, fmt.Sprintf("E%d", row), col.Example)
	}

	f.SetColWidth(instructions, "A", "A", 25)
	f.SetColWidth(instructions, "B", "B", 60)
	f.SetColWidth(instructions, "C", "C", 15)
	f.SetColWidth(instructions, "D", "D", 15)
	f.SetColWidth(instructions, "E", "E", 40)

	sheetIdx, _ := f.GetSheetIndex(templateSheet)
	f.SetActiveSheet(sheetIdx)

	return f.Write(w)
}
