package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dexter-eng/bidextract/internal/entity"
	"github.com/dexter-eng/bidextract/internal/repository"
)

func TestRunHistoryXLSX(t *testing.T) {
	store, err := repository.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	docID, err := store.GetOrCreateDocument(ctx, "/tmp/a.pdf", "abc", 0, 0)
	require.NoError(t, err)

	runID, err := store.StartRun(ctx, docID, "gpt-test", "0.2")
	require.NoError(t, err)
	require.NoError(t, store.RecordRunMetrics(ctx, runID, 900, 120, true, "req-1"))
	require.NoError(t, store.FinishRun(ctx, runID, entity.RunStatusSuccess, ""))

	data, err := NewService(store, nil).RunHistoryXLSX(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Runs")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Run ID", rows[0][0])
	assert.Equal(t, "Status", rows[0][1])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "success", rows[1][1])
	assert.Equal(t, "gpt-test", rows[1][2])
	assert.Equal(t, "TRUE", rows[1][3])
}

func TestRunHistoryXLSXEmptyLedger(t *testing.T) {
	store, err := repository.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	defer store.Close()

	data, err := NewService(store, nil).RunHistoryXLSX(context.Background(), 10)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Runs")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
