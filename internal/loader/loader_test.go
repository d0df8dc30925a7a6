package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/ledger-scanner/internal/config"
	"github.com/ginjaninja78/ledger-scanner/internal/csvparser"
	"github.com/ginjaninja78/ledger-scanner/internal/ledger"
)

type stubReader struct {
	name string
	exts []string
	rows ledger.Ledger
	err  error
}

func (s *stubReader) Name() string         { return s.name }
func (s *stubReader) Extensions() []string { return s.exts }

func (s *stubReader) Read(string) (ledger.Ledger, error) { return s.rows, s.err }

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(config.Default())

	assert.Equal(t, []string{".csv", ".xlsm", ".xlsx"}, r.Extensions())
	assert.True(t, r.Supports("bok.CSV"))
	assert.True(t, r.Supports("dir/bok.xlsm"))
	assert.False(t, r.Supports("bok.xls"))
	assert.False(t, r.Supports("bok"))
}

func TestRegistry_LoadUnsupported(t *testing.T) {
	r := DefaultRegistry(config.Default())

	_, err := r.Load("report.PDF")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, `unsupported file format ".pdf" (supported: .csv, .xlsm, .xlsx)`, err.Error())
}

func TestRegistry_LoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bok.csv")
	require.NoError(t, os.WriteFile(path, []byte("Dato;Beløp\n2024-01-06;200000\n"), 0o644))

	cfg := config.Default()
	cfg.CSV.Delimiter = ";"

	rows, err := DefaultRegistry(cfg).Load(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	amount, ok := rows[0].Decimal(ledger.FieldAmount)
	require.True(t, ok)
	assert.Equal(t, "200000", amount.String())
}

func TestRegistry_LoadWorkbookSheet(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Hovedbok")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Hovedbok", "A1", &[]interface{}{"Bilag"}))
	require.NoError(t, f.SetSheetRow("Hovedbok", "A2", &[]interface{}{7}))

	path := filepath.Join(t.TempDir(), "bok.xlsm")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := config.Default()
	cfg.Sheet = "Hovedbok"

	rows, err := DefaultRegistry(cfg).Load(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ledger.NumberValue(7), rows[0].Key(ledger.FieldVoucherNumber))
}

func TestRegistry_LoadReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tom.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := DefaultRegistry(config.Default()).Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, csvparser.ErrEmptyFile)
	assert.Equal(t, "could not read the file: CSV file is empty", err.Error())
}

func TestRegistry_Register(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	r.Register(&stubReader{name: "stub", exts: []string{".TXT"}, err: boom})

	assert.NotNil(t, r.Get(".txt"))
	assert.Nil(t, r.Get(".csv"))

	_, err := r.Load("a.txt")
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() {
		r.Register(&stubReader{name: "other", exts: []string{".txt"}})
	})
}
