package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
)

func TestService_List(t *testing.T) {
	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
			wantErr: false,
		},
		{
			name: "Error",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantLen: 0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Recent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), transaction.ListFilter{Newest: true, Limit: 20}).
		Return([]*transaction.Transaction{{ID: uuid.New()}}, nil)

	got, err := transaction.NewService(repo).Recent(context.Background(), 20)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_CreateForStatement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	etx := transaction.NewMockExtractionTx(ctrl)
	svc := transaction.NewService(repo)

	statementID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Date:     date,
			Amount:   decimal.RequireFromString("-125.50"),
			Vendor:   new("Home Depot"),
			Category: new("Maintenance"),
		},
		{
			Date:       date,
			Amount:     decimal.RequireFromString("-2500"),
			Vendor:     new("ABC Plumbing"),
			IsFlagged:  true,
			FlagReason: new("Unusually high maintenance cost: $2,500.00"),
		},
	}

	repo.EXPECT().BeginExtraction(gomock.Any(), statementID).Return(etx, nil)
	etx.EXPECT().
		CreateTransactions(gomock.Any(), gomock.Len(2)).
		DoAndReturn(func(_ context.Context, txs []*transaction.Transaction) error {
			for _, tx := range txs {
				assert.Equal(t, statementID, tx.StatementID)
				tx.ID = uuid.New()
			}

			return nil
		})
	etx.EXPECT().Commit().Return(nil)
	etx.EXPECT().Rollback().Return(nil)

	txs, err := svc.CreateForStatement(context.Background(), statementID, params)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("-125.5")))
	assert.True(t, txs[1].IsFlagged)
	assert.NotEqual(t, uuid.Nil, txs[1].ID)
}

func TestService_CreateForStatement_AlreadyExtracted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	statementID := uuid.New()

	repo.EXPECT().BeginExtraction(gomock.Any(), statementID).Return(nil, transaction.ErrAlreadyExtracted)

	_, err := transaction.NewService(repo).CreateForStatement(context.Background(), statementID, []transaction.CreateParams{
		{Amount: decimal.NewFromInt(-1)},
	})
	assert.ErrorIs(t, err, transaction.ErrAlreadyExtracted)
}

func TestService_CreateForStatement_InsertFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	etx := transaction.NewMockExtractionTx(ctrl)
	statementID := uuid.New()

	repo.EXPECT().BeginExtraction(gomock.Any(), statementID).Return(etx, nil)
	etx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(errors.New("constraint violation"))
	etx.EXPECT().Rollback().Return(nil)

	txs, err := transaction.NewService(repo).CreateForStatement(context.Background(), statementID, []transaction.CreateParams{
		{Amount: decimal.NewFromInt(-1)},
	})
	assert.Error(t, err)
	assert.Nil(t, txs)
}

func TestService_CreateForStatement_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)

	txs, err := transaction.NewService(repo).CreateForStatement(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestTransaction_Direction(t *testing.T) {
	expense := &transaction.Transaction{Amount: decimal.RequireFromString("-10")}
	income := &transaction.Transaction{Amount: decimal.RequireFromString("1500")}
	zero := &transaction.Transaction{}

	assert.True(t, expense.IsExpense())
	assert.False(t, expense.IsIncome())
	assert.True(t, income.IsIncome())
	assert.False(t, zero.IsExpense())
	assert.False(t, zero.IsIncome())
}
