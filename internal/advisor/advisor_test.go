package advisor

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/logger"
	"github.com/MrJamesThe3rd/rentbook/internal/reasoning"
	"github.com/MrJamesThe3rd/rentbook/internal/taxprep"
	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
)

func repair(amount, vendor string) *transaction.Transaction {
	tx := &transaction.Transaction{
		Date:     time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.RequireFromString(amount),
		Category: new("Repairs"),
	}
	if vendor != "" {
		tx.Vendor = new(vendor)
	}

	return tx
}

func sampleReport() *taxprep.Report {
	report := taxprep.Aggregate([]*transaction.Transaction{
		repair("-3500", "Acme Roofing"),
		repair("-2500", ""),
		repair("-2499.99", "Handyman"),
		{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(-1200), Category: new("Insurance")},
	}, 2024)

	return &report
}

func TestHighValueRepairs(t *testing.T) {
	got := HighValueRepairs(sampleReport())

	require.Len(t, got, 2)
	assert.Equal(t, "-3500", got[0].Amount.String())
	assert.Equal(t, "-2500", got[1].Amount.String())

	assert.Empty(t, HighValueRepairs(&taxprep.Report{Year: 2024}))
}

func TestBuildPrompt(t *testing.T) {
	got := buildPrompt(sampleReport())

	assert.Contains(t, got, "categories for 2024")
	assert.Contains(t, got, "- Repairs: $8,499.99 (3 transactions)")
	assert.Contains(t, got, "- Insurance: $1,200.00 (1 transactions)")
	assert.Contains(t, got, "Total deductions: $9,699.99")
	assert.Contains(t, got, "- $3,500.00 on 2024-06-12 from Acme Roofing")
	assert.Contains(t, got, "- $2,500.00 on 2024-06-12 from Unknown vendor")
	assert.NotContains(t, got, "Handyman")

	empty := buildPrompt(&taxprep.Report{Year: 2023})
	assert.Contains(t, empty, "- none recorded")
	assert.Contains(t, empty, "None\n")
}

func TestReview(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []Suggestion
		wantErr  error
	}{
		{
			name: "Valid",
			response: "```json\n" + `{"suggestions":[` +
				`{"type":"low_category","category":"Travel","title":"Missing Travel Expenses","description":"You have $0 in Travel."},` +
				`{"type":"capitalization","category":"Repairs","title":"Capitalize roof","description":"Roof replacement.","amount":3500}` +
				`]}` + "\n```",
			want: []Suggestion{
				{Type: KindLowCategory, Category: "Travel", Title: "Missing Travel Expenses", Description: "You have $0 in Travel."},
				{Type: KindCapitalization, Category: "Repairs", Title: "Capitalize roof", Description: "Roof replacement.", Amount: new(decimal.NewFromInt(3500))},
			},
		},
		{
			name:     "Empty",
			response: `{"suggestions":[]}`,
			want:     []Suggestion{},
		},
		{
			name:     "NotArray",
			response: `{"suggestions":{"type":"low_category"}}`,
			wantErr:  apperr.ErrValidation,
		},
		{
			name:     "Missing",
			response: `{"advice":[]}`,
			wantErr:  apperr.ErrValidation,
		},
		{
			name:     "UnknownType",
			response: `{"suggestions":[{"type":"audit_risk","title":"t","description":"d"}]}`,
			wantErr:  apperr.ErrValidation,
		},
		{
			name:     "MissingTitle",
			response: `{"suggestions":[{"type":"low_category","description":"d"}]}`,
			wantErr:  apperr.ErrValidation,
		},
		{
			name:     "SurroundingProse",
			response: `Here is my advice: {"suggestions":[]} Good luck!`,
			wantErr:  apperr.ErrValidation,
		},
		{
			name:     "NotJSON",
			response: "I cannot help with that.",
			wantErr:  apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := reasoning.NewMockClient(ctrl)

			client.EXPECT().
				Complete(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req reasoning.Request) (string, error) {
					assert.Equal(t, systemPrompt, req.System)
					assert.InDelta(t, 0.3, req.Temperature, 0.001)

					return tt.response, nil
				})

			got, err := Review(context.Background(), client, sampleReport())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.Len(t, got, len(tt.want))

			for i := range tt.want {
				assert.Equal(t, tt.want[i].Type, got[i].Type)
				assert.Equal(t, tt.want[i].Title, got[i].Title)
				assert.Equal(t, tt.want[i].Description, got[i].Description)
				assert.Equal(t, tt.want[i].Category, got[i].Category)

				if tt.want[i].Amount == nil {
					assert.Nil(t, got[i].Amount)
					continue
				}

				require.NotNil(t, got[i].Amount)
				assert.True(t, tt.want[i].Amount.Equal(*got[i].Amount))
			}
		})
	}
}

func TestReview_LogsRejectedResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := reasoning.NewMockClient(ctrl)
	client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(`{"advice":[]}`, nil)

	var buf bytes.Buffer
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(&buf))

	_, err := Review(ctx, client, sampleReport())
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"response_bytes":13`)
}

func TestReview_ClientError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := reasoning.NewMockClient(ctrl)
	client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", apperr.External("calling reasoning service", context.DeadlineExceeded))

	_, err := Review(context.Background(), client, sampleReport())
	assert.ErrorIs(t, err, apperr.ErrExternalService)
}

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	client := reasoning.NewMockClient(ctrl)

	repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return([]*transaction.Transaction{repair("-4000", "Acme Roofing")}, nil)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req reasoning.Request) (string, error) {
			assert.Contains(t, req.Prompt, "- $4,000.00 on 2024-06-12 from Acme Roofing")
			return `{"suggestions":[]}`, nil
		})

	svc := NewService(taxprep.NewService(transaction.NewService(repo)), client)

	got, err := svc.Suggest(context.Background(), 2024)
	require.NoError(t, err)
	assert.Empty(t, got)
}
