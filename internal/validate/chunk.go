package validate

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"insureport/internal/domain"
	"insureport/internal/port"
)

// Chunk partition policy: small documents go whole, mid-size documents split
// three ways, anything larger four ways.
const (
	singleChunkMaxPages = 10
	threeChunkMaxPages  = 21
	maxChunkCount       = 4
)

// PageRange is an inclusive 1-based page span.
type PageRange struct {
	From int
	To   int
}

// ChunkOutcome is one chunk's result: either a normalized record or the error
// that marks it as failed. Failed chunks are excluded from the merge but kept
// for the metadata block.
type ChunkOutcome struct {
	Index  int
	Range  PageRange
	Record *domain.ValidatedRecord
	Err    error
}

// Partition splits a page count into chunk ranges. Sizes are balanced: the
// remainder pages go to the leading chunks, so 25 pages yield 7/6/6/6 and 15
// pages yield 5/5/5.
func Partition(pageCount int) []PageRange {
	if pageCount < 1 {
		return nil
	}

	target := maxChunkCount
	switch {
	case pageCount <= singleChunkMaxPages:
		target = 1
	case pageCount <= threeChunkMaxPages:
		target = 3
	}

	base := pageCount / target
	rem := pageCount % target

	ranges := make([]PageRange, 0, target)
	start := 1
	for i := 0; i < target; i++ {
		size := base
		if i < rem {
			size++
		}
		end := start + size - 1
		if end > pageCount {
			end = pageCount
		}
		ranges = append(ranges, PageRange{From: start, To: end})
		start = end + 1
	}
	return ranges
}

// ChunkProcessor validates oversized documents by splitting them into page
// ranges, invoking one backend directly per chunk (not the escalation chain),
// and merging the per-chunk results.
type ChunkProcessor struct {
	backend port.ModelBackend
	slicer  port.DocumentSlicer
}

func NewChunkProcessor(backend port.ModelBackend, slicer port.DocumentSlicer) *ChunkProcessor {
	return &ChunkProcessor{backend: backend, slicer: slicer}
}

// Run processes the whole document through the chunked path and returns the
// merged record plus per-chunk diagnostics. A failing chunk never aborts its
// siblings; only total failure is an error.
func (p *ChunkProcessor) Run(ctx context.Context, doc []byte, draft *domain.DraftRecord) (*domain.ValidatedRecord, *domain.ValidateMeta, error) {
	start := time.Now()

	pageCount, err := p.slicer.PageCount(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("counting pages: %w", err)
	}

	ranges := Partition(pageCount)
	outcomes := make([]ChunkOutcome, len(ranges))
	payloads := make([][]byte, len(ranges))

	// Extract all chunk payloads concurrently. The source document is
	// read-only, so no coordination is needed.
	var wg sync.WaitGroup
	for i, r := range ranges {
		outcomes[i] = ChunkOutcome{Index: i, Range: r}
		wg.Add(1)
		go func(i int, r PageRange) {
			defer wg.Done()
			payload, err := p.slicer.ExtractPages(doc, r.From, r.To)
			if err != nil {
				outcomes[i].Err = fmt.Errorf("extracting pages %d-%d: %w", r.From, r.To, err)
				return
			}
			payloads[i] = payload
		}(i, r)
	}
	wg.Wait()

	// Invoke the backend once per chunk, concurrently. Size-driven chunk
	// boundaries don't align with logical sections, so every chunk gets the
	// full draft as its hint.
	apiStart := time.Now()
	for i := range outcomes {
		if outcomes[i].Err != nil {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := port.InvokeInput{Document: payloads[i], ContentType: "application/pdf", Draft: draft}
			text, err := p.backend.Invoke(ctx, input)
			if err != nil {
				outcomes[i].Err = err
				return
			}
			rec, err := Normalize(text, p.backend.ID())
			if err != nil {
				outcomes[i].Err = err
				return
			}
			rec.Confidence = Score(rec)
			outcomes[i].Record = rec
		}(i)
	}
	wg.Wait()
	apiTime := time.Since(apiStart)

	meta := &domain.ValidateMeta{
		APITimeMs:   apiTime.Milliseconds(),
		BackendUsed: p.backend.ID(),
		Mode:        "parallel",
		ChunkCount:  len(outcomes),
	}
	for _, o := range outcomes {
		info := domain.ChunkInfo{Index: o.Index, FirstPage: o.Range.From, LastPage: o.Range.To, Status: "ok"}
		if o.Err != nil {
			log.Printf("validate.ChunkProcessor: chunk %d (pages %d-%d) failed: %v", o.Index, o.Range.From, o.Range.To, o.Err)
			info.Status = "failed"
			info.Error = o.Err.Error()
			meta.FailedChunks++
		}
		meta.Chunks = append(meta.Chunks, info)
	}

	if meta.FailedChunks == len(outcomes) {
		meta.ProcessingTimeMs = time.Since(start).Milliseconds()
		return nil, meta, fmt.Errorf("%w: %d of %d chunks", domain.ErrAllChunksFailed, meta.FailedChunks, len(outcomes))
	}

	merged := Merge(outcomes)
	meta.ProcessingTimeMs = time.Since(start).Milliseconds()
	return merged, meta, nil
}
