package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = ` Region ,BRAND,Year,market_size_usd,avg_price_usd,doses_sold_million,growth_rate_percent,Insight,notes
  Asia ,Pfizer,2021,1200.5,19.5,61.2,4.5,Strong uptake,x
Asia,Pfizer,2020,1000,18,55,n/a,,y
Africa,Moderna,2020.0,abc,-3,12,-2.5,Early stage
Europe,Sinovac,2022,900,21
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "vaccines.csv", []byte(sampleCSV))

	tbl, err := Load(context.Background(), path, Options{Now: fixedNow})
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Len())

	all := tbl.Filter(entity.Filter{})

	africa := all[0]
	assert.Equal(t, "Africa", africa.Region)
	assert.Equal(t, 2020, africa.Year)
	assert.False(t, africa.MarketSizeUSD.Valid, "unparseable cell is missing")
	assert.False(t, africa.AvgPriceUSD.Valid, "negative price is missing")
	assert.Equal(t, entity.Some(12), africa.DosesSoldMillion)
	assert.Equal(t, entity.Some(-2.5), africa.GrowthRatePercent, "growth may be negative")

	asia2020, asia2021 := all[1], all[2]
	assert.Equal(t, 2020, asia2020.Year)
	assert.Equal(t, "", asia2020.Insight)
	assert.False(t, asia2020.GrowthRatePercent.Valid)
	assert.Equal(t, "Asia", asia2021.Region, "region is trimmed")
	assert.Equal(t, entity.Some(1200.5), asia2021.MarketSizeUSD)
	assert.Equal(t, "Strong uptake", asia2021.Insight)

	europe := all[3]
	assert.Equal(t, entity.Some(21), europe.AvgPriceUSD)
	assert.False(t, europe.DosesSoldMillion.Valid, "short row has empty trailing cells")
	assert.Equal(t, "", europe.Insight)

	info := tbl.Info()
	assert.Equal(t, path, info.Source)
	assert.Equal(t, 4, info.Records)
	assert.Len(t, info.Fingerprint, 64)
	assert.Equal(t, fixedNow(), info.LoadedAt)
}

func TestLoadFailures(t *testing.T) {
	header := "region,brand,year,market_size_usd,avg_price_usd,doses_sold_million,growth_rate_percent,insight\n"

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "empty file", content: "", wantErr: ErrDatasetMalformed},
		{name: "missing column", content: "region,brand,year\nAsia,Pfizer,2020\n", wantErr: ErrDatasetMalformed},
		{name: "bad year", content: header + "Asia,Pfizer,2020\nAsia,Pfizer,twenty,1,1,1,1,x\n", wantErr: ErrDatasetMalformed},
		{name: "fractional year", content: header + "Asia,Pfizer,2020.5,1,1,1,1,x\n", wantErr: ErrDatasetMalformed},
		{name: "year before 1900", content: header + "Asia,Pfizer,1899,1,1,1,1,x\n", wantErr: ErrDatasetMalformed},
		{name: "empty brand", content: header + "Asia, ,2020,1,1,1,1,x\n", wantErr: ErrDatasetMalformed},
		{name: "broken quoting", content: header + "Asia,\"Pfizer,2020,1,1,1,1,x\n", wantErr: ErrDatasetMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "data.csv", []byte(tt.content))
			_, err := Load(context.Background(), path, Options{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	path := writeFile(t, "data.csv", []byte("region,brand,year,market_size_usd,avg_price_usd,doses_sold_million,growth_rate_percent,insight\n"))
	tbl, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), Options{})
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestLoadOptionsValidation(t *testing.T) {
	path := writeFile(t, "data.csv", []byte(sampleCSV))

	_, err := Load(context.Background(), path, Options{HashKey: []byte("short")})
	assert.ErrorIs(t, err, ErrInvalidHashKey)

	_, err = Load(context.Background(), path, Options{Imputation: "mean"})
	assert.Error(t, err)
}

func TestLoadCompressedSources(t *testing.T) {
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var xzBuf bytes.Buffer
	xw, err := xz.NewWriter(&xzBuf)
	require.NoError(t, err)
	_, err = xw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, xw.Close())

	// names do not match contents on purpose, detection uses magic bytes
	for name, data := range map[string][]byte{"a.csv": gz.Bytes(), "b.dat": xzBuf.Bytes()} {
		t.Run(name, func(t *testing.T) {
			tbl, err := Load(context.Background(), writeFile(t, name, data), Options{})
			require.NoError(t, err)
			assert.Equal(t, 4, tbl.Len())
		})
	}
}

func TestLoadXLSX(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	rows := [][]any{
		{"region", "brand", "year", "market_size_usd", "avg_price_usd", "doses_sold_million", "growth_rate_percent", "insight"},
		{"Asia", "Pfizer", 2021, 1500, 20, 75, 5.5, "Growing"},
		{"Asia", "Pfizer", 2020, 1000, 19, 50, 4, ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(sheet, cell, &row))
	}
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, book.Close())

	tbl, err := Load(context.Background(), writeFile(t, "vaccines.xlsx", buf.Bytes()), Options{})
	require.NoError(t, err)

	all := tbl.Filter(entity.Filter{})
	require.Len(t, all, 2)
	assert.Equal(t, 2020, all[0].Year)
	assert.Equal(t, entity.Some(1500), all[1].MarketSizeUSD)
	assert.Equal(t, "Growing", all[1].Insight)
}

func TestFingerprint(t *testing.T) {
	a := writeFile(t, "a.csv", []byte(sampleCSV))
	b := writeFile(t, "b.csv", []byte(sampleCSV+"Oceania,Novavax,2021,1,1,1,1,x\n"))

	ta, err := Load(context.Background(), a, Options{})
	require.NoError(t, err)
	ta2, err := Load(context.Background(), a, Options{})
	require.NoError(t, err)
	tb, err := Load(context.Background(), b, Options{})
	require.NoError(t, err)

	assert.Equal(t, ta.Info().Fingerprint, ta2.Info().Fingerprint)
	assert.NotEqual(t, ta.Info().Fingerprint, tb.Info().Fingerprint)
}

func TestLoadForwardFill(t *testing.T) {
	content := `region,brand,year,market_size_usd,avg_price_usd,doses_sold_million,growth_rate_percent,insight
Asia,Pfizer,2022,,,30,,
Asia,Pfizer,2020,100,10,,2,
Asia,Pfizer,2021,,11,20,,
Europe,Pfizer,2020,,,,,
`
	path := writeFile(t, "data.csv", []byte(content))

	tbl, err := Load(context.Background(), path, Options{Imputation: ImputeForwardFill})
	require.NoError(t, err)

	all := tbl.Filter(entity.Filter{})
	require.Len(t, all, 4)

	assert.Equal(t, entity.Some(0), all[0].DosesSoldMillion, "series start is zero-filled")
	assert.Equal(t, entity.Some(100), all[1].MarketSizeUSD, "carried from 2020")
	assert.Equal(t, entity.Some(2), all[2].GrowthRatePercent, "carried through 2021")
	assert.Equal(t, entity.Some(11), all[2].AvgPriceUSD)
	assert.Equal(t, entity.Some(0), all[3].MarketSizeUSD, "other series does not inherit")
}
