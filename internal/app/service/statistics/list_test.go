package statistics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListPro_RejectsUnknownSortColumn(t *testing.T) {
	svc := NewService(nil, zap.NewNop().Sugar())

	_, err := svc.ListPro(context.Background(), &ListProRequest{SortBy: "plan; drop table"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported sort column")
}

func TestListPro_DefaultSortColumnWhitelisted(t *testing.T) {
	_, ok := sortableColumns["created_at"]
	assert.True(t, ok)
}
