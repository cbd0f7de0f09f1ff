package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"bookstore-service/internal/models"
	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyFile      = errors.New("file must have a header row and at least one data row")
	ErrMissingColumns = errors.New("missing required columns")
)

// requiredColumns must appear in the header of every imported file.
var requiredColumns = []string{"title", "price"}

// CheckColumns reports which required columns a normalized header lacks.
func CheckColumns(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// ParseCSV reads a CSV file whose first record is the header.
func ParseCSV(file io.Reader) ([]models.ImportRow, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var records [][]string
	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", lineNum+1, err)
		}
		records = append(records, record)
		lineNum++
	}

	return buildRows(headers, records)
}

// ParseXLSX reads the "Products" sheet of a workbook, or its first sheet.
func ParseXLSX(file io.Reader) ([]models.ImportRow, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	sheetName := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, "Products") {
			sheetName = name
			break
		}
	}

	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(excelRows) == 0 {
		return nil, ErrEmptyFile
	}

	return buildRows(excelRows[0], excelRows[1:])
}

// buildRows maps each record onto the header. Short records leave the
// remaining columns blank and fully blank records are skipped.
func buildRows(header []string, records [][]string) ([]models.ImportRow, error) {
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = normalizeHeader(h)
	}
	if err := CheckColumns(headers); err != nil {
		return nil, err
	}

	var rows []models.ImportRow
	for _, record := range records {
		if isBlankRecord(record) {
			continue
		}
		values := make(map[string]any, len(headers))
		for i, h := range headers {
			if !isKnownColumn(h) || i >= len(record) {
				continue
			}
			values[h] = strings.TrimSpace(record[i])
		}
		rows = append(rows, RowFromMap(values))
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

// isBlankRecord reports an empty line. A record of empty cells such as ",,"
// is not blank: it is kept so it fails validation and row numbers stay aligned.
func isBlankRecord(record []string) bool {
	return len(record) == 0 || (len(record) == 1 && record[0] == "")
}
