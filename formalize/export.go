package formalize

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultOutputPath = "result.xlsx"

	siteHeader = "site"
	xlsxSheet  = "Sheet1"
)

// ErrUnknownFormat is returned by ExportTable for output paths it has no writer for.
var ErrUnknownFormat = errors.New("unknown output format")

func headerRow() []string {
	ret := []string{siteHeader}
	for _, metric := range Metrics {
		ret = append(ret, string(metric))
	}

	return ret
}

// WriteCSV writes the table as CSV, one row per site, leaving missing cells empty.
func WriteCSV(w io.Writer, table *ComparisonTable) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(headerRow()); err != nil {
		return err
	}

	for _, site := range table.rows {
		row := []string{string(site)}
		for _, metric := range Metrics {
			reading, ok := table.Cell(metric, site)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, reading.Raw)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// jsonNumber returns the raw token when it is already a JSON number. Tokens such as ".5" or
// "0x1p-2" parse as floats but are not, and are re-rendered from the value.
func jsonNumber(reading Reading) string {
	if fastjson.Validate(reading.Raw) == nil {
		return reading.Raw
	}
	return strconv.FormatFloat(reading.Value, 'g', -1, 64)
}

// WriteJSON writes the table column-wise, {metric: {site: value}}, with null for missing cells.
func WriteJSON(w io.Writer, table *ComparisonTable) error {
	var arena fastjson.Arena

	root := arena.NewObject()
	for _, metric := range Metrics {
		values := arena.NewObject()
		for _, site := range table.rows {
			reading, ok := table.Cell(metric, site)
			if !ok {
				values.Set(string(site), arena.NewNull())
				continue
			}
			values.Set(string(site), arena.NewNumberString(jsonNumber(reading)))
		}
		root.Set(string(metric), values)
	}

	_, err := w.Write(root.MarshalTo(nil))
	return err
}

// WriteXLSX saves the table as a workbook at path, replacing any existing file.
func WriteXLSX(path string, table *ComparisonTable) error {
	f := excelize.NewFile()
	defer f.Close()

	for index, header := range headerRow() {
		cell, err := excelize.CoordinatesToCellName(index+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(xlsxSheet, cell, header); err != nil {
			return err
		}
	}

	for rowIndex, site := range table.rows {
		cell, err := excelize.CoordinatesToCellName(1, rowIndex+2)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(xlsxSheet, cell, string(site)); err != nil {
			return err
		}

		for metricIndex, metric := range Metrics {
			reading, ok := table.Cell(metric, site)
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(metricIndex+2, rowIndex+2)
			if err != nil {
				return err
			}
			// stored as the numeric text of the log, no float round trip
			if err := f.SetCellDefault(xlsxSheet, cell, reading.Raw); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func writeFile(path string, table *ComparisonTable, write func(io.Writer, *ComparisonTable) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f, table); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// ExportTable writes the table to path, picking the format from its extension (.xlsx, .csv or
// .json). An existing file is overwritten.
func ExportTable(path string, table *ComparisonTable) error {
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		err = WriteXLSX(path, table)
	case ".csv":
		err = writeFile(path, table, WriteCSV)
	case ".json":
		err = writeFile(path, table, WriteJSON)
	default:
		return errors.Wrapf(ErrUnknownFormat, "cannot export to %s", path)
	}
	if err != nil {
		return errors.Wrapf(err, "could not export to %s", path)
	}

	return nil
}
