package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/doctree"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func page(text string) *doctree.DocTree {
	return &doctree.DocTree{Title: "doc", Children: []*doctree.DocNode{{Text: text, Page: 1}}}
}

func sampleReport(withSales bool) *report.Report {
	vesting := page("Vested Stocks 2024\n" +
		"01.03.2022 AB1 15.03.2024 10.00 1500.00 60\n" +
		"01.03.2022 AB2 15.03.2024 10.00 1500.00 40\n" +
		"ESPP (Employee Stock Purchase Plan)\n" +
		"202401 20 45.00 38.25\n")
	var sales *doctree.DocTree
	if withSales {
		sales = page("Jan-16-2024 Jun-01-2020 3.5000 $549.75 $1,175.99\n")
	}
	return report.New(vesting, sales, report.Options{TaxYear: 2024}, nil)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport(true).Records()))

	want := strings.Join([]string{
		"section,key,date,quantity",
		"vested,15.03.2024,2024-03-15,60",
		"vested,15.03.2024,2024-03-15,40",
		"espp,202401,,20",
		"sales,Jan-16-2024,2024-01-16,3.5000",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_NoRowsStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "section,key,date,quantity\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleReport(true)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Records", "By date", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Records")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Section", "Key", "Date", "Quantity"}, rows[0])
	assert.Equal(t, []string{"vested", "15.03.2024", "2024-03-15", "60"}, rows[1])
	assert.Equal(t, []string{"espp", "202401", "", "20"}, rows[3])

	byDate, err := f.GetRows("By date")
	require.NoError(t, err)
	require.Len(t, byDate, 3)
	assert.Equal(t, []string{"vested", "15.03.2024", "100"}, byDate[1])
	assert.Equal(t, []string{"sales", "Jan-16-2024", "3.5"}, byDate[2])

	net, err := f.GetCellValue("Summary", "A5")
	require.NoError(t, err)
	assert.Equal(t, "Net position (remaining)", net)
	v, err := f.GetCellValue("Summary", "B5")
	require.NoError(t, err)
	assert.Equal(t, "116.5", v)
}

func TestWriteXLSX_NoSummaryWithoutSales(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleReport(false)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Records", "By date"}, f.GetSheetList())
}

func TestFormatForFile(t *testing.T) {
	f, err := FormatForFile("out/records.XLSX")
	require.NoError(t, err)
	assert.Equal(t, XLSX, f)

	f, err = FormatForFile("records.csv")
	require.NoError(t, err)
	assert.Equal(t, CSV, f)

	_, err = FormatForFile("records.json")
	assert.Error(t, err)
}
