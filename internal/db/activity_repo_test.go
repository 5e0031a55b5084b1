package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_CountByCity(t *testing.T) {
	db := new(mockDBTX)
	repo := NewActivityRepository(db)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), []any{"Lisbon", "Portugal"}).
		Return(&mockRow{scanFn: func(dest ...any) error {
			*(dest[0].(*int)) = 17
			return nil
		}})

	count, err := repo.CountByCity(context.Background(), "Lisbon", "Portugal")
	require.NoError(t, err)
	assert.Equal(t, 17, count)
}

func TestActivityRepository_ListByCity(t *testing.T) {
	db := new(mockDBTX)
	repo := NewActivityRepository(db)

	created := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	rows := newMockRows([][]any{
		{"act-1", "Castelo de S. Jorge", "Lisbon", "Portugal", "culture", 38.7139, -9.1335, 0.9, 0.8, created},
		{"act-2", "Time Out Market", "Lisbon", "Portugal", "food", 38.7071, -9.1458, nil, 0.7, created},
	})

	db.On("Query", mock.Anything, mock.AnythingOfType("string"), []any{"Lisbon", "Portugal"}).
		Return(rows, nil)

	nodes, err := repo.ListByCity(context.Background(), "Lisbon", "Portugal")
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, "act-1", nodes[0].ID)
	assert.Equal(t, "culture", nodes[0].Category)
	require.NotNil(t, nodes[0].ConvergenceScore)
	assert.InDelta(t, 0.9, *nodes[0].ConvergenceScore, 1e-9)

	// Nullable convergence score stays nil for under-annotated nodes.
	assert.Nil(t, nodes[1].ConvergenceScore)
	require.NotNil(t, nodes[1].AuthorityScore)
	assert.InDelta(t, 0.7, *nodes[1].AuthorityScore, 1e-9)
}
