package statement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/rentbook/internal/statement"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *statement.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *statement.MockRepository) {
				m.EXPECT().
					CreateStatement(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, st *statement.Statement) error {
						assert.Equal(t, "https://drive.example/file/1", st.ExternalReference)
						st.ID = uuid.New()

						return nil
					})
			},
		},
		{
			name: "Duplicate",
			setupMock: func(m *statement.MockRepository) {
				m.EXPECT().CreateStatement(gomock.Any(), gomock.Any()).Return(statement.ErrDuplicate)
			},
			wantErr: statement.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := statement.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := statement.NewService(repo).Create(context.Background(), statement.CreateParams{
				Date:              time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				ExternalReference: "https://drive.example/file/1",
				PropertyID:        uuid.New(),
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_References(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := statement.NewMockRepository(ctrl)

	repo.EXPECT().ListReferences(gomock.Any()).Return([]string{"a", "b"}, nil)

	got, err := statement.NewService(repo).References(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "a")

	repo.EXPECT().ListReferences(gomock.Any()).Return(nil, errors.New("db error"))

	_, err = statement.NewService(repo).References(context.Background())
	assert.Error(t, err)
}

func TestSummary_NeedsAnalysis(t *testing.T) {
	text := "statement body"
	empty := ""

	assert.True(t, (&statement.Summary{Statement: statement.Statement{RawText: &text}}).NeedsAnalysis())
	assert.False(t, (&statement.Summary{Statement: statement.Statement{RawText: &text}, TransactionCount: 3}).NeedsAnalysis())
	assert.False(t, (&statement.Summary{Statement: statement.Statement{RawText: &empty}}).NeedsAnalysis())
	assert.False(t, (&statement.Summary{}).NeedsAnalysis())
}
