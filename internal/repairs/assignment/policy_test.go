package assignment

import (
	"testing"

	"repair_portal_backend/internal/repairs/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func worker(id string, tasks int) domain.Worker {
	return domain.Worker{ID: id, Email: id + "@example.com", Name: id, Active: true, TaskCount: tasks}
}

func TestSelectLeastLoaded(t *testing.T) {
	tests := []struct {
		name    string
		pool    []domain.Worker
		wantID  string
		wantAny bool
	}{
		{"empty pool", nil, "", false},
		{"single worker", []domain.Worker{worker("a", 7)}, "a", true},
		{"minimum wins", []domain.Worker{worker("a", 3), worker("b", 1), worker("c", 2)}, "b", true},
		{"tie goes to first", []domain.Worker{worker("a", 2), worker("b", 1), worker("c", 1)}, "b", true},
		{"all tied", []domain.Worker{worker("x", 0), worker("y", 0)}, "x", true},
		{
			"inactive skipped",
			[]domain.Worker{{ID: "idle", TaskCount: 0, Active: false}, worker("b", 4)},
			"b", true,
		},
		{
			"all inactive",
			[]domain.Worker{{ID: "a"}, {ID: "b"}},
			"", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectLeastLoaded(tt.pool)
			require.Equal(t, tt.wantAny, ok)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestSelectLeastLoadedIsDeterministic(t *testing.T) {
	pool := []domain.Worker{worker("a", 5), worker("b", 2), worker("c", 2), worker("d", 9)}
	first, _ := SelectLeastLoaded(pool)
	for i := 0; i < 100; i++ {
		got, ok := SelectLeastLoaded(pool)
		require.True(t, ok)
		assert.Equal(t, first.ID, got.ID)
	}
	assert.Equal(t, "b", first.ID)
}
