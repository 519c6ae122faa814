package store

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportExcelSeedsBack(t *testing.T) {
	src := openSQLiteStore(t)
	seedCategories(t, src)
	insert(t, src, "What is the capital of Peru?", 3)
	insert(t, src, "Who discovered penicillin?", 1)
	ctx := context.Background()

	raw, err := src.ExportExcel(ctx)
	require.NoError(t, err)

	data, rowErrs, err := ParseExcelSeed(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Len(t, data.Categories, 6)
	require.Len(t, data.Questions, 2)
	assert.Equal(t, int64(3), data.Questions[0].Category)

	dst := openSQLiteStore(t)
	report, err := dst.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, report.SuccessRows)

	got, err := dst.ListQuestionsByCategory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Who discovered penicillin?", got[0].Question)
}
