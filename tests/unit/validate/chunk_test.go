package validate_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"insureport/internal/domain"
	"insureport/internal/port"
	"insureport/internal/validate"
	"insureport/mocks"
)

func TestPartition(t *testing.T) {
	cases := []struct {
		name      string
		pageCount int
		want      []validate.PageRange
	}{
		{"single page", 1, []validate.PageRange{{From: 1, To: 1}}},
		{"small document stays whole", 8, []validate.PageRange{{From: 1, To: 8}}},
		{"boundary of single chunk", 10, []validate.PageRange{{From: 1, To: 10}}},
		{"mid-size splits three ways", 11, []validate.PageRange{{From: 1, To: 4}, {From: 5, To: 8}, {From: 9, To: 11}}},
		{"even three-way split", 15, []validate.PageRange{{From: 1, To: 5}, {From: 6, To: 10}, {From: 11, To: 15}}},
		{"boundary of three chunks", 21, []validate.PageRange{{From: 1, To: 7}, {From: 8, To: 14}, {From: 15, To: 21}}},
		{"large splits four ways", 22, []validate.PageRange{{From: 1, To: 6}, {From: 7, To: 12}, {From: 13, To: 17}, {From: 18, To: 22}}},
		{"remainder goes to leading chunks", 25, []validate.PageRange{{From: 1, To: 7}, {From: 8, To: 13}, {From: 14, To: 19}, {From: 20, To: 25}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, validate.Partition(tc.pageCount))
		})
	}
}

func TestPartition_CoversEveryPageOnce(t *testing.T) {
	for pages := 1; pages <= 100; pages++ {
		ranges := validate.Partition(pages)
		next := 1
		for _, r := range ranges {
			require.Equal(t, next, r.From, "pages=%d", pages)
			require.GreaterOrEqual(t, r.To, r.From, "pages=%d", pages)
			next = r.To + 1
		}
		require.Equal(t, pages+1, next, "pages=%d", pages)
	}
}

func TestPartition_NoPages(t *testing.T) {
	assert.Nil(t, validate.Partition(0))
}

func chunkResponse(t *testing.T, seqNo int, insurer string, premium float64) string {
	t.Helper()
	return recordJSON(t, &domain.ValidatedRecord{
		Contracts: []domain.Contract{
			{SequenceNo: seqNo, Insurer: insurer, ContractDate: "2020-01-01", MonthlyPremium: premium, PaymentStatus: domain.PaymentActive},
		},
		DiagnosisItems: []domain.DiagnosisItem{
			{CoverageName: "암진단-" + insurer, RecommendedAmount: 100, InsuredAmount: 100},
		},
		TotalPremium: premium,
	})
}

func documentMatcher(payload []byte) interface{} {
	return mock.MatchedBy(func(in port.InvokeInput) bool {
		return bytes.Equal(in.Document, payload)
	})
}

func TestChunkProcessor_PartialFailure(t *testing.T) {
	doc := []byte("%PDF-1.7 fifteen pages")
	draft := testDraft()

	slicer := new(mocks.MockDocumentSlicer)
	slicer.On("PageCount", doc).Return(15, nil)
	slicer.On("ExtractPages", doc, 1, 5).Return([]byte("chunk-1"), nil)
	slicer.On("ExtractPages", doc, 6, 10).Return([]byte("chunk-2"), nil)
	slicer.On("ExtractPages", doc, 11, 15).Return([]byte("chunk-3"), nil)

	b := mocks.NewMockModelBackend(domain.BackendModelA)
	b.On("Invoke", mock.Anything, documentMatcher([]byte("chunk-1"))).
		Return(chunkResponse(t, 1, "삼성생명", 100000), nil)
	b.On("Invoke", mock.Anything, documentMatcher([]byte("chunk-2"))).
		Return("", errors.New("timeout"))
	b.On("Invoke", mock.Anything, documentMatcher([]byte("chunk-3"))).
		Return(chunkResponse(t, 3, "한화생명", 50000), nil)

	proc := validate.NewChunkProcessor(b, slicer)
	rec, meta, err := proc.Run(context.Background(), doc, draft)

	require.NoError(t, err)
	require.NotNil(t, rec)

	require.Len(t, rec.Contracts, 2)
	assert.Equal(t, "삼성생명", rec.Contracts[0].Insurer)
	assert.Equal(t, "한화생명", rec.Contracts[1].Insurer)
	assert.Equal(t, 150000.0, rec.TotalPremium)

	assert.Equal(t, 3, meta.ChunkCount)
	assert.Equal(t, 1, meta.FailedChunks)
	assert.Equal(t, "parallel", meta.Mode)
	assert.Equal(t, domain.BackendModelA, meta.BackendUsed)

	require.Len(t, meta.Chunks, 3)
	assert.Equal(t, "ok", meta.Chunks[0].Status)
	assert.Equal(t, "failed", meta.Chunks[1].Status)
	assert.Contains(t, meta.Chunks[1].Error, "timeout")
	assert.Equal(t, "ok", meta.Chunks[2].Status)
}

func TestChunkProcessor_AllChunksFail(t *testing.T) {
	doc := []byte("%PDF-1.7 fifteen pages")

	slicer := new(mocks.MockDocumentSlicer)
	slicer.On("PageCount", doc).Return(15, nil)
	slicer.On("ExtractPages", doc, mock.Anything, mock.Anything).Return([]byte("chunk"), nil)

	b := mocks.NewMockModelBackend(domain.BackendModelA)
	b.On("Invoke", mock.Anything, mock.Anything).Return("", errors.New("unreachable"))

	proc := validate.NewChunkProcessor(b, slicer)
	rec, meta, err := proc.Run(context.Background(), doc, testDraft())

	assert.Nil(t, rec)
	require.ErrorIs(t, err, domain.ErrAllChunksFailed)
	require.NotNil(t, meta)
	assert.Equal(t, 3, meta.FailedChunks)
}

func TestChunkProcessor_ExtractionFailureMarksChunk(t *testing.T) {
	doc := []byte("%PDF-1.7 twelve pages")

	slicer := new(mocks.MockDocumentSlicer)
	slicer.On("PageCount", doc).Return(12, nil)
	slicer.On("ExtractPages", doc, 1, 4).Return([]byte("chunk-1"), nil)
	slicer.On("ExtractPages", doc, 5, 8).Return(nil, errors.New("corrupt xref"))
	slicer.On("ExtractPages", doc, 9, 12).Return([]byte("chunk-3"), nil)

	b := mocks.NewMockModelBackend(domain.BackendModelA)
	b.On("Invoke", mock.Anything, mock.Anything).Return(chunkResponse(t, 1, "삼성생명", 100000), nil)

	proc := validate.NewChunkProcessor(b, slicer)
	rec, meta, err := proc.Run(context.Background(), doc, testDraft())

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, meta.FailedChunks)
	assert.Contains(t, meta.Chunks[1].Error, "extracting pages 5-8")
	// The failed chunk's payload is never sent to the backend.
	b.AssertNumberOfCalls(t, "Invoke", 2)
}
