package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/rentbook/internal/taxprep"
	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
)

func sampleTransactions() []*transaction.Transaction {
	return []*transaction.Transaction{
		{
			Date:         time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			Amount:       decimal.RequireFromString("-1800.00"),
			Vendor:       new("Acme Plumbing"),
			Category:     new("Plumbing repair"),
			IsFlagged:    true,
			FlagReason:   new("Unusually high maintenance cost: $1,800.00"),
			PropertyName: "Sunset Apartments",
		},
		{
			Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Amount:       decimal.RequireFromString("-125.50"),
			Vendor:       new("Home Depot"),
			Category:     new("Maintenance"),
			PropertyName: "Sunset Apartments",
		},
		{
			Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Amount: decimal.RequireFromString("2500"),
		},
	}
}

func sampleReport() *taxprep.Report {
	report := taxprep.Aggregate(sampleTransactions(), 2024)
	return &report
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	defer f.Close()

	assert.Equal(t, []string{summarySheet, transactionsSheet}, f.GetSheetList())

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 5)
	assert.Equal(t, "Schedule E 2024", summary[0][0])
	assert.Equal(t, []string{"Category", "Transactions", "Total"}, summary[1])
	assert.Equal(t, "Repairs", summary[2][0])
	assert.Equal(t, "1", summary[2][1])
	assert.Equal(t, "Cleaning and Maintenance", summary[3][0])
	assert.Equal(t, "Total deductions", summary[4][0])

	total, err := f.GetCellValue(summarySheet, "C5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1925.5", total)

	rows, err := f.GetRows(transactionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, []string{"2024-03-02", "Sunset Apartments", "Acme Plumbing", "Plumbing repair", "Repairs"}, rows[1][:5])
	assert.Equal(t, "TRUE", rows[1][6])
	assert.Equal(t, "Unusually high maintenance cost: $1,800.00", rows[1][7])

	amount, err := f.GetCellValue(transactionsSheet, "F3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "-125.5", amount)
}

func TestWriteXLSX_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, &taxprep.Report{Year: 2023, TotalDeductions: decimal.Zero}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	defer f.Close()

	rows, err := f.GetRows(transactionsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestGenerateSummary(t *testing.T) {
	want := "Schedule E deductions for 2024\n" +
		"* Repairs | 1 | $1,800.00\n" +
		"* Cleaning and Maintenance | 1 | $125.50\n" +
		"Total deductions: $1,925.50\n"

	assert.Equal(t, want, GenerateSummary(sampleReport()))

	assert.Equal(t, "Schedule E deductions for 2023\nNo deductible expenses recorded.\n",
		GenerateSummary(&taxprep.Report{Year: 2023}))
}

func TestService_Export(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(sampleTransactions(), nil)

	dir := filepath.Join(t.TempDir(), "out")

	path, err := NewService(taxprep.NewService(transaction.NewService(repo))).Export(context.Background(), 2024, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "rentbook-schedule-e-2024.xlsx"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
