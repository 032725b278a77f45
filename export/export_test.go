package export

import (
	"os"
	"path/filepath"
	"testing"

	"divcalendar/dividend"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	march = []dividend.Record{
		{Company: "Acme Corp (AC)", ExDate: "01/03/2025", PayDate: "15/03/2025", DivPercent: "2.5%", Amount: "$0.50"},
		{Company: "Beta Inc", ExDate: "02/03/2025", PayDate: "16/03/2025", DivPercent: "1.2%", Amount: "€0.30", ISIN: "BETA", Ticker: "BETA"},
	}
	may = []dividend.Record{
		{Company: "Delta plc", ExDate: "03/05/2025", PayDate: "31/05/2025", DivPercent: "4.0%", Amount: "£0.12"},
	}
)

func TestWorkbookRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dividends_2025.xlsx")
	periods := dividend.Periods{
		{Label: "March", Records: march},
		{Label: "April"},
		{Label: "May", Records: may},
	}

	require.NoError(t, WriteWorkbook(path, periods, Options{WithSymbols: true}, zap.NewNop()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"March", "May"}, f.GetSheetList())
	rows, err := f.GetRows("March")
	require.NoError(t, err)
	assert.Equal(t, []string{"Company", "Ex-Date", "Pay Date", "Div.%", "Amount", "ISIN", "Symbol"}, rows[0])
	require.NoError(t, f.Close())

	got, err := ReadWorkbook(path)
	require.NoError(t, err)
	want := dividend.Periods{
		{Label: "March", Records: march},
		{Label: "May", Records: may},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ReadWorkbook mismatch (-want +got):\n%s", diff)
	}

	last, err := LastSheet(got)
	require.NoError(t, err)
	assert.Equal(t, "May", last.Label)
}

func TestWorkbookWithoutSymbolColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteWorkbook(path, dividend.Periods{{Label: "March", Records: march}}, Options{}, zap.NewNop()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("March")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{"Beta Inc", "02/03/2025", "16/03/2025", "1.2%", "€0.30"}, rows[2])
}

func TestEmptyExportWritesNothing(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	xlsxPath := filepath.Join(dir, "empty.xlsx")
	require.NoError(t, WriteWorkbook(xlsxPath, dividend.Periods{{Label: "March"}}, Options{}, log))
	assert.NoFileExists(t, xlsxPath)

	csvPath := filepath.Join(dir, "empty.csv")
	written, err := WriteCSV(csvPath, nil, Options{}, log)
	require.NoError(t, err)
	assert.Empty(t, written)
	assert.NoFileExists(t, csvPath)

	assert.Equal(t, 2, logs.FilterMessage("no dividend data to save").Len())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteCSVSinglePeriod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies_dividends.csv")
	written, err := WriteCSV(path, dividend.Periods{{Label: "calendar", Records: march}}, Options{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{path}, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Company,Ex-Date,Pay Date,Div.%,Amount\n"+
			"Acme Corp (AC),01/03/2025,15/03/2025,2.5%,$0.50\n"+
			"Beta Inc,02/03/2025,16/03/2025,1.2%,€0.30\n",
		string(data))
}

func TestWriteCSVPerPeriodWithSymbols(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dividends.csv")
	periods := dividend.Periods{
		{Label: "March", Records: march},
		{Label: "April"},
		{Label: "May", Records: may},
	}

	written, err := WriteCSV(path, periods, Options{WithSymbols: true}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "dividends_March.csv"),
		filepath.Join(dir, "dividends_May.csv"),
	}, written)

	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Company,Ex-Date,Pay Date,Div.%,Amount,ISIN,Symbol\n")
	assert.Contains(t, string(data), "Beta Inc,02/03/2025,16/03/2025,1.2%,€0.30,BETA,BETA\n")
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "March", sheetName("March", 0))
	assert.Equal(t, "Sheet3", sheetName(" [/] ", 2))
	assert.Equal(t, "2025-03-02", sheetName("2025-03-02", 0))
	assert.Len(t, []rune(sheetName("A very long label that does not fit in a sheet tab", 0)), maxSheetName)
}

func TestReadWorkbookMissingFile(t *testing.T) {
	_, err := ReadWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestWorkbookCollidingLabelsKeepEverySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dividends.xlsx")
	long := "Dividends paid in the first half of March"
	periods := dividend.Periods{
		{Label: "March", Records: march},
		{Label: "march", Records: may},
		{Label: long, Records: march[:1]},
		{Label: long + " again", Records: may},
	}

	require.NoError(t, WriteWorkbook(path, periods, Options{WithSymbols: true}, zap.NewNop()))

	got, err := ReadWorkbook(path)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "March", got[0].Label)
	assert.Equal(t, "march_2", got[1].Label)
	assert.Equal(t, "Dividends paid in the first hal", got[2].Label)
	assert.Equal(t, "Dividends paid in the first h_2", got[3].Label)
	assert.Equal(t, march, got[0].Records)
	assert.Equal(t, may, got[1].Records)
	assert.Equal(t, march[:1], got[2].Records)
	assert.Equal(t, may, got[3].Records)
}

func TestWriteCSVCollidingLabels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dividends.csv")
	periods := dividend.Periods{
		{Label: "March", Records: march},
		{Label: "March", Records: may},
	}

	written, err := WriteCSV(path, periods, Options{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "dividends_March.csv"),
		filepath.Join(dir, "dividends_March_2.csv"),
	}, written)

	data, err := os.ReadFile(written[1])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Delta plc")
	assert.NotContains(t, string(data), "Beta Inc")
}

func TestSheetNamesUnique(t *testing.T) {
	names := make(sheetNames)
	assert.Equal(t, "May", names.next("May", 0))
	assert.Equal(t, "MAY_2", names.next("MAY", 1))
	assert.Equal(t, "May_3", names.next("May", 2))
	assert.Equal(t, "Sheet4", names.next("", 3))
}
