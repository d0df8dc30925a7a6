package scanner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ledger-scanner/internal/ledger"
)

// entry builds a row with the four recognised fields.
func entry(line int, date, amount, description, voucher ledger.Value) *ledger.Row {
	return ledger.NewRow(line,
		ledger.Field{Name: ledger.FieldDate, Value: date},
		ledger.Field{Name: ledger.FieldAmount, Value: amount},
		ledger.Field{Name: ledger.FieldDescription, Value: description},
		ledger.Field{Name: ledger.FieldVoucherNumber, Value: voucher},
	)
}

func text(s string) ledger.Value { return ledger.TextValue(s) }
func num(f float64) ledger.Value { return ledger.NumberValue(f) }
func null() ledger.Value         { return ledger.NullValue() }

func voucherRow(line int, v ledger.Value) *ledger.Row {
	return ledger.NewRow(line, ledger.Field{Name: ledger.FieldVoucherNumber, Value: v})
}

// exampleRows is the reference ledger: rows 2 and 3 are weekend postings with
// large amounts sharing voucher 2, rows 1 and 3 lack a description.
func exampleRows() ledger.Ledger {
	return ledger.Ledger{
		entry(1, text("2024-01-01"), num(50_000), text(""), num(1)),
		entry(2, text("2024-01-06"), num(200_000), text("Kjøp"), num(2)),
		entry(3, text("2024-01-07"), num(-150_000), null(), num(2)),
		entry(4, text("2024-01-02"), num(1_000), text("Salg"), num(3)),
	}
}

// lines returns the source line numbers of rows, for readable assertions.
func lines(rows ledger.Ledger) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Line()
	}
	return out
}

// assertSubset checks that every result row is one of the input rows.
func assertSubset(t *testing.T, input, result ledger.Ledger) {
	t.Helper()
	assert.LessOrEqual(t, len(result), len(input))
	for _, r := range result {
		found := false
		for _, in := range input {
			if in == r {
				found = true
				break
			}
		}
		assert.True(t, found, "row at line %d is not an input row", r.Line())
	}
}

func TestMissingDescription(t *testing.T) {
	rows := exampleRows()
	result := MissingDescription(rows)

	require.Len(t, result, 2)
	assert.Same(t, rows[0], result[0])
	assert.Same(t, rows[2], result[1])
}

func TestMissingDescription_Variants(t *testing.T) {
	rows := ledger.Ledger{
		ledger.NewRow(1),
		ledger.NewRow(2, ledger.Field{Name: ledger.FieldDescription, Value: null()}),
		ledger.NewRow(3, ledger.Field{Name: ledger.FieldDescription, Value: text(" \t\n")}),
		ledger.NewRow(4, ledger.Field{Name: ledger.FieldDescription, Value: text(" x ")}),
		ledger.NewRow(5, ledger.Field{Name: ledger.FieldDescription, Value: num(0)}),
	}

	assert.Equal(t, []int{1, 2, 3}, lines(MissingDescription(rows)))
}

func TestLargeAmounts(t *testing.T) {
	rows := exampleRows()
	result := LargeAmounts(rows, 100_000)

	require.Len(t, result, 2)
	assert.Same(t, rows[1], result[0])
	assert.Same(t, rows[2], result[1])
}

func TestLargeAmounts_ThresholdIsInclusive(t *testing.T) {
	rows := ledger.Ledger{
		entry(1, null(), num(99_999.99), null(), null()),
		entry(2, null(), num(100_000), null(), null()),
		entry(3, null(), num(-100_000), null(), null()),
		entry(4, null(), text("100000.00"), null(), null()),
	}

	assert.Equal(t, []int{2, 3, 4}, lines(LargeAmounts(rows, DefaultThreshold)))
}

func TestLargeAmounts_SkipsNonNumeric(t *testing.T) {
	rows := ledger.Ledger{
		ledger.NewRow(1),
		entry(2, null(), null(), null(), null()),
		entry(3, null(), text("mye penger"), null(), null()),
		entry(4, null(), text("1 000 000"), null(), null()),
		entry(5, null(), num(math.NaN()), null(), null()),
		entry(6, null(), text(" 250000 "), null(), null()),
	}

	assert.Equal(t, []int{6}, lines(LargeAmounts(rows, DefaultThreshold)))
}

func TestLargeAmounts_InfiniteAndRoundedAmounts(t *testing.T) {
	rows := ledger.Ledger{
		entry(1, null(), num(math.Inf(1)), null(), null()),
		entry(2, null(), num(math.Inf(-1)), null(), null()),
		entry(3, null(), text("inf"), null(), null()),
		entry(4, null(), text("-Infinity"), null(), null()),
		entry(5, null(), text("99999.999999999999999"), null(), null()),
		entry(6, null(), text("nan"), null(), null()),
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, lines(LargeAmounts(rows, DefaultThreshold)))
}

func TestLargeAmounts_NonFiniteThreshold(t *testing.T) {
	rows := exampleRows()

	assert.Empty(t, LargeAmounts(rows, math.NaN()))
	assert.Empty(t, LargeAmounts(rows, math.Inf(1)))
	assert.Len(t, LargeAmounts(rows, math.Inf(-1)), 4)
	assert.Len(t, LargeAmounts(rows, 0), 4)

	infinite := ledger.Ledger{entry(1, null(), num(math.Inf(-1)), null(), null())}
	assert.Len(t, LargeAmounts(infinite, math.Inf(1)), 1)
	assert.Empty(t, LargeAmounts(infinite, math.NaN()))
}

func TestWeekendEntries(t *testing.T) {
	rows := exampleRows()
	result := WeekendEntries(rows)

	require.Len(t, result, 2)
	assert.Same(t, rows[1], result[0])
	assert.Same(t, rows[2], result[1])
}

func TestWeekendEntries_EveryWeekday(t *testing.T) {
	// 2024-03-04 is a Monday.
	days := []string{
		"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07",
		"2024-03-08", "2024-03-09", "2024-03-10",
	}
	var rows ledger.Ledger
	for i, d := range days {
		rows = append(rows, entry(i+1, text(d), null(), null(), null()))
	}

	assert.Equal(t, []int{6, 7}, lines(WeekendEntries(rows)))
}

func TestWeekendEntries_SkipsUnparsable(t *testing.T) {
	rows := ledger.Ledger{
		ledger.NewRow(1),
		entry(2, null(), null(), null(), null()),
		entry(3, text("06.01.2024"), null(), null(), null()),
		entry(4, num(45297), null(), null(), null()),
		entry(5, text("2024-01-06 00:00:00"), null(), null(), null()),
	}

	assert.Equal(t, []int{5}, lines(WeekendEntries(rows)))
}

func TestDuplicateVouchers(t *testing.T) {
	rows := exampleRows()
	result := DuplicateVouchers(rows)

	require.Len(t, result, 2)
	// Second occurrence first, then the held-back first occurrence.
	assert.Same(t, rows[2], result[0])
	assert.Same(t, rows[1], result[1])
}

func TestDuplicateVouchers_Ordering(t *testing.T) {
	rows := ledger.Ledger{
		voucherRow(1, num(10)),
		voucherRow(2, num(20)),
		voucherRow(3, num(10)),
		voucherRow(4, num(30)),
		voucherRow(5, num(10)),
		voucherRow(6, num(20)),
		voucherRow(7, num(10)),
	}

	assert.Equal(t, []int{3, 1, 5, 6, 2, 7}, lines(DuplicateVouchers(rows)))
}

func TestDuplicateVouchers_KeySemantics(t *testing.T) {
	rows := ledger.Ledger{
		voucherRow(1, num(2)),
		voucherRow(2, text("2")),
		ledger.NewRow(3),
		voucherRow(4, null()),
		voucherRow(5, text("A-1")),
		voucherRow(6, text("A-1")),
	}

	// Absent and null voucher numbers pair up; 2 and "2" do not.
	assert.Equal(t, []int{4, 3, 6, 5}, lines(DuplicateVouchers(rows)))
}

func TestDuplicateVouchers_NoDuplicates(t *testing.T) {
	rows := ledger.Ledger{voucherRow(1, num(1)), voucherRow(2, num(2))}
	assert.Empty(t, DuplicateVouchers(rows))
}

func TestScans_EmptyLedger(t *testing.T) {
	for _, f := range ScanAll(nil, DefaultThreshold) {
		assert.NotNil(t, f.Rows, f.Label)
		assert.Empty(t, f.Rows, f.Label)
	}
}

func TestScans_ResultsAreSubsets(t *testing.T) {
	rows := append(exampleRows(),
		voucherRow(5, num(2)),
		ledger.NewRow(6),
		entry(7, text("2024-01-13"), text("x"), text(" "), num(3)),
	)

	for _, f := range ScanAll(rows, DefaultThreshold) {
		assertSubset(t, rows, f.Rows)
	}
}

func TestScans_DoNotModifyInput(t *testing.T) {
	rows := exampleRows()
	before := make(ledger.Ledger, len(rows))
	copy(before, rows)

	ScanAll(rows, DefaultThreshold)

	for i := range rows {
		assert.Same(t, before[i], rows[i])
		assert.Equal(t, before[i].Fields(), rows[i].Fields())
	}
}
