package stocks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(VestedSchema(2024), ESPPSchema())
	idle := ScanState{}
	vested := ScanState{Active: SectionVested}
	espp := ScanState{Active: SectionESPP}

	tests := []struct {
		name string
		line string
		st   ScanState
		want LineClass
	}{
		{"vested marker", "Vested Stocks 2024", idle, LineClass{Kind: LineSectionStart, Section: SectionVested}},
		{"espp marker ends vested", "ESPP (Employee Stock Purchase Plan)", vested, LineClass{Kind: LineSectionStart, Section: SectionESPP}},
		{"idle row", "01.03.2022 AB123 15.03.2024 10.00 1500.00 150", idle, LineClass{Kind: LineNoise}},
		{"vested terminator", "ESPP summary", vested, LineClass{Kind: LineSectionEnd}},
		{"espp total amount", "Total amount CHF 1'000.00", espp, LineClass{Kind: LineSectionEnd}},
		{"blank", "   ", vested, LineClass{Kind: LineNoise}},
		{"award header", "Award Date Award ID Date Price", vested, LineClass{Kind: LineHeader}},
		{"date header", "Date Date Price", vested, LineClass{Kind: LineHeader}},
		{"espp header", "Off Period Purchased", espp, LineClass{Kind: LineHeader}},
		{"total line", "1'500.00", vested, LineClass{Kind: LineNoise}},
		{"total with comma", "12,345.50", vested, LineClass{Kind: LineNoise}},
		{"numeric vested line", "202401 10 45.00 38.25", vested, LineClass{Kind: LineNoise}},
		{"currency continuation", "CHF 4'211.50", espp, LineClass{Kind: LineNoise}},
		{"vested row", "01.03.2022 AB123 15.03.2024 10.00 1500.00 150", vested, LineClass{Kind: LineData}},
		{"espp row", "202401 10 45.00 38.25", espp, LineClass{Kind: LineData}},
		{"espp bare number", "1'500.00", espp, LineClass{Kind: LineData}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.line, tt.st))
		})
	}
}

func TestClassifier_BoundaryBeatsData(t *testing.T) {
	c := NewClassifier(VestedSchema(2024), ESPPSchema())
	line := "202401 10 Page 3"

	// The same line is a valid ESPP row on its own.
	_, err := ESPPSchema().Extract(line)
	assert.NoError(t, err)

	got := c.Classify(line, ScanState{Active: SectionESPP})
	assert.Equal(t, LineSectionEnd, got.Kind)
}

func TestSchema_Extract(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		line    string
		want    Record
		wantErr error
	}{
		{
			name:   "vested row",
			schema: VestedSchema(2024),
			line:   "01.03.2022  AB123\t15.03.2024 10.00 1500.00 150 extra",
			want:   Record{FieldVestDate: "15.03.2024", FieldShares: "150"},
		},
		{
			name:    "vested too few tokens",
			schema:  VestedSchema(2024),
			line:    "01.03.2022 AB123 15.03.2024",
			wantErr: ErrTooFewTokens,
		},
		{
			name:    "vested date with two parts",
			schema:  VestedSchema(2024),
			line:    "01.03.2022 AB123 15.03 10.00 1500.00 150",
			wantErr: ErrInvalidField,
		},
		{
			name:   "espp numeric period",
			schema: ESPPSchema(),
			line:   "202401 10",
			want:   Record{FieldOffPeriod: "202401", FieldPurchasedShares: "10"},
		},
		{
			name:   "espp alphanumeric period",
			schema: ESPPSchema(),
			line:   "2024A 12.5 45.00",
			want:   Record{FieldOffPeriod: "2024A", FieldPurchasedShares: "12.5"},
		},
		{
			name:    "espp alphanumeric period with text shares",
			schema:  ESPPSchema(),
			line:    "2024A n/a",
			wantErr: ErrInvalidField,
		},
		{
			name:    "espp single token",
			schema:  ESPPSchema(),
			line:    "202401",
			wantErr: ErrTooFewTokens,
		},
		{
			name:   "sale row",
			schema: SalesSchema(),
			line:   "Jan-16-2024 Jun-01-2020 3.0000 $549.75 $1,175.99 + $626.24 USD DO",
			want:   Record{FieldDateSold: "Jan-16-2024", FieldQuantity: "3.0000"},
		},
		{
			name:    "sale row without amount",
			schema:  SalesSchema(),
			line:    "Jan-16-2024 Jun-01-2020 3.0000",
			wantErr: ErrNoMatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.schema.Extract(tt.line)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
