// Package transfer moves the product catalog in and out of xlsx
// spreadsheets: a full export and an all-or-nothing import keyed by SKU.
package transfer

import (
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelContentType is the MIME type for xlsx payloads.
const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Products"

// Row maps header name to the trimmed cell value for one data row. Cells
// beyond the header width are dropped; short rows leave values absent.
type Row map[string]string

// ReadRows parses the first sheet of an xlsx file. Headers are returned
// separately so callers can check them even when the file has no data rows.
// Any parse failure comes back as a CodecError.
func ReadRows(r io.Reader) ([]string, []Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, &CodecError{Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, &CodecError{Err: errors.New("no sheets found")}
	}

	excelRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, &CodecError{Err: err}
	}
	if len(excelRows) == 0 {
		return nil, nil, &CodecError{Err: errors.New("missing header row")}
	}

	headers := make([]string, len(excelRows[0]))
	for i, h := range excelRows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(excelRows)-1)
	for _, excelRow := range excelRows[1:] {
		row := make(Row, len(headers))
		for i, value := range excelRow {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

// WriteRows renders a header row plus one row per entry, in header order,
// and returns the finished xlsx bytes.
func WriteRows(headers []string, rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range rows {
		for i, h := range headers {
			cell, err := excelize.CoordinatesToCellName(i+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, row[h]); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
