package stocks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(lines ...string) string {
	return strings.Join(lines, "\n")
}

func TestScanner_VestedScenario(t *testing.T) {
	pages := []string{page(
		"Vested Stocks 2024",
		"Award Date Award ID Date Price",
		"01.03.2022 AB123 15.03.2024 10.00 1500.00 150",
		"Total 150",
	)}

	res := NewScanner(VestingProfile(2024), nil).Scan(pages)

	vested := res.Of(SectionVested)
	require.Len(t, vested, 1)
	assert.Equal(t, Record{FieldVestDate: "15.03.2024", FieldShares: "150"}, vested[0])
	assert.Equal(t, 1, res.HeadersSkipped)

	entries := Aggregate(vested, FieldVestDate, FieldShares)
	require.Len(t, entries, 1)
	assert.Equal(t, "15.03.2024", entries[0].Key)
	assert.Equal(t, 150.0, entries[0].Quantity)
}

func TestScanner_IgnoresOtherTaxYear(t *testing.T) {
	pages := []string{page(
		"Vested Stocks 2023",
		"01.03.2022 AB123 15.03.2023 10.00 1500.00 150",
	)}

	res := NewScanner(VestingProfile(2024), nil).Scan(pages)
	assert.Empty(t, res.Of(SectionVested))
}

func TestScanner_VestedThenESPP(t *testing.T) {
	pages := []string{page(
		"Salary certificate 2024",
		"Vested Stocks 2024",
		"Award Date Award ID Vest Date Award Price Market Value Shares",
		"Date ID Date Date Price",
		"01.03.2022 AB123 15.03.2024 10.00 1500.00 150",
		"01.03.2022 AB124 15.06.2024 10.00 1'200.00 120",
		"270",
		"ESPP (Employee Stock Purchase Plan)",
		"Off Period Purchased FMV Purchase",
		"Shares Price Price",
		"202401 10 45.00 38.25",
		"CHF 1'234.00",
		"2024B 12.5 46.00 39.10",
		"H1-2024 7 46.00 39.10",
		"Total amount CHF 2'000.00",
		"202402 99 45.00 38.25",
	)}

	res := NewScanner(VestingProfile(2024), nil).Scan(pages)

	assert.Equal(t, []Record{
		{FieldVestDate: "15.03.2024", FieldShares: "150"},
		{FieldVestDate: "15.06.2024", FieldShares: "120"},
	}, res.Of(SectionVested))
	assert.Equal(t, []Record{
		{FieldOffPeriod: "202401", FieldPurchasedShares: "10"},
		{FieldOffPeriod: "2024B", FieldPurchasedShares: "12.5"},
	}, res.Of(SectionESPP))
	assert.Equal(t, 4, res.HeadersSkipped)
	assert.Equal(t, 1, res.RowsSkipped)
}

func TestScanner_SectionCarriesAcrossPages(t *testing.T) {
	pages := []string{
		page("Vested Stocks 2024", "01.03.2022 AB1 15.03.2024 10.00 1500.00 150"),
		page("01.03.2022 AB2 15.09.2024 10.00 1500.00 30"),
	}

	res := NewScanner(VestingProfile(2024), nil).Scan(pages)
	vested := res.Of(SectionVested)
	require.Len(t, vested, 2)
	assert.Equal(t, "15.09.2024", vested[1][FieldVestDate])
}

func TestScanner_MalformedRowTolerance(t *testing.T) {
	pages := []string{page(
		"Vested Stocks 2024",
		"01.03.2022 AB1 15.03.2024 10.00 1500.00 150",
		"01.03.2022 AB2 broken",
		"01.03.2022 AB3 2024-03-15 10.00 1500.00 70",
		"01.03.2022 AB4 15.06.2024 10.00 1500.00 20",
	)}

	var res Result
	require.NotPanics(t, func() {
		res = NewScanner(VestingProfile(2024), nil).Scan(pages)
	})
	vested := res.Of(SectionVested)
	require.Len(t, vested, 2)
	assert.Equal(t, "150", vested[0][FieldShares])
	assert.Equal(t, "20", vested[1][FieldShares])
	assert.Equal(t, 2, res.RowsSkipped)
}

func TestScanner_SalesScenario(t *testing.T) {
	pages := []string{page(
		"Custom transaction summary",
		"Date sold Date acquired Quantity Cost basis Proceeds Gain/loss",
		"Jan-16-2024 Jun-01-2020 3.0000 $549.75 $1,175.99 + $626.24 USD DO",
		"Total $1,175.99",
	)}

	res := NewScanner(SalesProfile(), nil).Scan(pages)
	sales := res.Of(SectionSales)
	require.Len(t, sales, 1)
	assert.Equal(t, Record{FieldDateSold: "Jan-16-2024", FieldQuantity: "3.0000"}, sales[0])
}

func TestScanner_EmptyInput(t *testing.T) {
	for _, pages := range [][]string{nil, {}, {""}} {
		res := NewScanner(VestingProfile(2024), nil).Scan(pages)
		assert.Zero(t, res.Count())
	}
}

func TestScanner_NumericESPPRowsKept(t *testing.T) {
	text := "ESPP (Employee Stock Purchase Plan)\n202401 10 45.00 38.25\n202407 12.5 51.00 43.35"
	res := NewScanner(VestingProfile(2024), nil).Scan([]string{text})

	assert.Equal(t, []Record{
		{FieldOffPeriod: "202401", FieldPurchasedShares: "10"},
		{FieldOffPeriod: "202407", FieldPurchasedShares: "12.5"},
	}, res.Of(SectionESPP))
	assert.Equal(t, 22.5, Total(res.Of(SectionESPP), FieldPurchasedShares))
}
