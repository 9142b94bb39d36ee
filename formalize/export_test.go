package formalize

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
	"github.com/xuri/excelize/v2"
	"gotest.tools/v3/assert"
)

func fullTable(t *testing.T) *ComparisonTable {
	t.Helper()

	before := mustParse(t, courseraLog)
	after := mustParse(t, "IDS(Illegal):coursera.org.pcap:detected:0.004100\nCompression:coursera.org.pcap:elapsed:0.031000:size:507059:out:460000\n")
	pure := mustParse(t, "IDS(Illegal):coursera.org.pcap:detected:0.001\nCompression:coursera.org.pcap:elapsed:0.02:size:507059:out:507059\n")

	return Aggregate(before, after, pure)
}

var fullTableRow = []string{
	"coursera.org.pcap",
	"0.003605", "0.004100", "0.001",
	"0.028319", "0.031000", "0.02",
	"507059", "467527", "460000",
}

func TestWriteCSV_SingleRow(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, WriteCSV(&buf, fullTable(t)))

	records, err := csv.NewReader(&buf).ReadAll()
	assert.NilError(t, err)
	assert.DeepEqual(t, records, [][]string{
		{
			"site",
			"IDS_time_before", "IDS_time_after", "IDS_time_pure",
			"Compression_time_before", "Compression_time_after", "Compression_time_pure",
			"input_size", "output_size_before", "output_size_after",
		},
		fullTableRow,
	})
}

func TestWriteCSV_MissingCellsAreEmpty(t *testing.T) {
	table := Aggregate(mustParse(t, "IDS(Illegal):A:detected:1.0\n"), mustParse(t, ""), mustParse(t, ""))

	var buf bytes.Buffer
	assert.NilError(t, WriteCSV(&buf, table))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, len(lines), 2)
	assert.Equal(t, lines[1], "A,1.0,,,,,,,,")
}

func TestWriteJSON(t *testing.T) {
	table := Aggregate(mustParse(t, "IDS(Illegal):A:detected:1.0\n"), mustParse(t, "IDS(Illegal):A:detected:1.50\n"), mustParse(t, ""))

	var buf bytes.Buffer
	assert.NilError(t, WriteJSON(&buf, table))

	assert.Equal(t, buf.String(), `{"IDS_time_before":{"A":1.0},"IDS_time_after":{"A":1.50},"IDS_time_pure":{"A":null},`+
		`"Compression_time_before":{"A":null},"Compression_time_after":{"A":null},"Compression_time_pure":{"A":null},`+
		`"input_size":{"A":null},"output_size_before":{"A":null},"output_size_after":{"A":null}}`)
}

func TestWriteXLSX_SingleRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.xlsx")
	assert.NilError(t, WriteXLSX(path, fullTable(t)))

	f, err := excelize.OpenFile(path)
	assert.NilError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(xlsxSheet, "J1")
	assert.NilError(t, err)
	assert.Equal(t, header, "output_size_after")

	for index, expected := range fullTableRow {
		cell, err := excelize.CoordinatesToCellName(index+1, 2)
		assert.NilError(t, err)

		value, err := f.GetCellValue(xlsxSheet, cell, excelize.Options{RawCellValue: true})
		assert.NilError(t, err)
		assert.Equal(t, value, expected, "cell %s", cell)
	}

	rows, err := f.GetRows(xlsxSheet)
	assert.NilError(t, err)
	assert.Equal(t, len(rows), 2)
}

func TestWriteJSON_RerendersNonJSONNumbers(t *testing.T) {
	before := mustParse(t, strings.Join([]string{
		"IDS(Illegal):a:d:.5",
		"IDS(Illegal):b:d:+5",
		"IDS(Illegal):c:d:05",
		"IDS(Illegal):d:d:0x1p-2",
		"IDS(Illegal):e:d:5.",
		"IDS(Illegal):f:d:1e-3",
		"IDS(Illegal):g:d:-0.250",
	}, "\n"))
	table := Aggregate(before, mustParse(t, ""), mustParse(t, ""))

	var buf bytes.Buffer
	assert.NilError(t, WriteJSON(&buf, table))

	assert.NilError(t, fastjson.ValidateBytes(buf.Bytes()))
	assert.Assert(t, strings.HasPrefix(buf.String(),
		`{"IDS_time_before":{"a":0.5,"b":5,"c":5,"d":0.25,"e":5,"f":1e-3,"g":-0.250},`), buf.String())
}

func TestWriteXLSX_MissingCellsAreEmpty(t *testing.T) {
	table := Aggregate(mustParse(t, "IDS(Illegal):A:detected:1.0\n"), mustParse(t, ""), mustParse(t, ""))
	path := filepath.Join(t.TempDir(), "result.xlsx")
	assert.NilError(t, WriteXLSX(path, table))

	f, err := excelize.OpenFile(path)
	assert.NilError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(xlsxSheet, "B2", excelize.Options{RawCellValue: true})
	assert.NilError(t, err)
	assert.Equal(t, value, "1.0")

	for column := 3; column <= len(Metrics)+1; column += 1 {
		cell, err := excelize.CoordinatesToCellName(column, 2)
		assert.NilError(t, err)

		value, err := f.GetCellValue(xlsxSheet, cell)
		assert.NilError(t, err)
		assert.Equal(t, value, "", "cell %s", cell)
	}
}

func TestExportTable_PicksFormatAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	table := fullTable(t)

	csvPath := filepath.Join(dir, "result.csv")
	assert.NilError(t, os.WriteFile(csvPath, []byte("stale content that is much longer than nothing\n"), 0644))
	assert.NilError(t, ExportTable(csvPath, table))

	content, err := os.ReadFile(csvPath)
	assert.NilError(t, err)
	assert.Assert(t, strings.HasPrefix(string(content), "site,IDS_time_before,"))
	assert.Assert(t, !strings.Contains(string(content), "stale"))

	jsonPath := filepath.Join(dir, "result.JSON")
	assert.NilError(t, ExportTable(jsonPath, table))
	content, err = os.ReadFile(jsonPath)
	assert.NilError(t, err)
	assert.Assert(t, strings.HasPrefix(string(content), `{"IDS_time_before":{"coursera.org.pcap":0.003605}`))

	xlsxPath := filepath.Join(dir, "result.xlsx")
	assert.NilError(t, ExportTable(xlsxPath, table))
	assert.NilError(t, ExportTable(xlsxPath, table))
	_, err = os.Stat(xlsxPath)
	assert.NilError(t, err)
}

func TestExportTable_UnknownFormat(t *testing.T) {
	err := ExportTable(filepath.Join(t.TempDir(), "result.txt"), fullTable(t))

	assert.Equal(t, errors.Cause(err), ErrUnknownFormat)
}

func TestExportTable_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "result.csv")

	err := ExportTable(path, fullTable(t))

	assert.ErrorContains(t, err, "could not export to")
	assert.Assert(t, os.IsNotExist(errors.Cause(err)))
}
