package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"invoicr/internal/config"
	"invoicr/internal/domain"
	"invoicr/internal/extract"
	"invoicr/internal/port"
	"invoicr/internal/present"
	"invoicr/internal/raster"
	"invoicr/internal/reconcile"
	"invoicr/internal/tabular"
)

// BatchResult is everything one request's pipeline run produced. Per-page
// failures never abort sibling pages or files; they are recorded as error
// page records plus a human-readable error string.
type BatchResult struct {
	Records        []domain.PageRecord
	Fragments      []tabular.Fragment
	FilesProcessed int
	PagesProcessed int
	Errors         []string
}

// AnyExtracted reports whether at least one page yielded a record.
func (r *BatchResult) AnyExtracted() bool { return len(r.Records) > 0 }

// BatchService runs the extraction-and-reconciliation pipeline for one
// request. Files are traversed sequentially, then pages within a file; each
// page's extraction call is the only suspension point. All state is local to
// the request.
type BatchService struct {
	rasterizer port.Rasterizer
	extractor  *extract.Extractor
	reconciler *reconcile.Reconciler
	upload     *config.UploadConfig
}

// NewBatchService wires the pipeline stages together. Generator handles are
// injected through the extractor and reconciler rather than being created on
// first use, so tests can substitute deterministic stubs.
func NewBatchService(rasterizer port.Rasterizer, extractor *extract.Extractor, reconciler *reconcile.Reconciler, upload *config.UploadConfig) *BatchService {
	return &BatchService{
		rasterizer: rasterizer,
		extractor:  extractor,
		reconciler: reconciler,
		upload:     upload,
	}
}

// ProcessBatch validates the uploads and runs rasterize -> extract ->
// fragment for every page of every file. Validation failure rejects the
// batch before any extraction work begins.
func (s *BatchService) ProcessBatch(ctx context.Context, files []UploadedFile) (*BatchResult, error) {
	if err := ValidateFiles(files, s.upload); err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for i := range files {
		file := &files[i]
		contentType := file.EffectiveContentType()
		log.Printf("service.BatchService: processing file %s (%s, %d bytes)",
			file.Filename, contentType, len(file.Data))

		pages, err := s.rasterizer.Rasterize(file.Data, contentType)
		if err != nil {
			kind := "image"
			if raster.IsPDF(contentType) {
				kind = "PDF"
			}
			msg := fmt.Sprintf("Error processing %s %s: %v", kind, file.Filename, err)
			result.Errors = append(result.Errors, msg)
			log.Print("service.BatchService: " + msg)
			continue
		}

		fileProcessed := false
		for _, page := range pages {
			rec, err := s.extractor.Extract(ctx, extract.PageInput{
				Image:      page,
				SourceFile: file.Filename,
				TotalPages: len(pages),
				FileType:   contentType,
			})
			if err != nil {
				msg := fmt.Sprintf("Error processing page %d of %s: %v", page.Number, file.Filename, err)
				result.Errors = append(result.Errors, msg)
				log.Print("service.BatchService: " + msg)
				result.Records = append(result.Records,
					domain.NewErrorPageRecord(file.Filename, page.Number, len(pages), contentType, err))
				continue
			}

			result.Records = append(result.Records, rec)
			result.PagesProcessed++
			fileProcessed = true

			if fragment := tabular.Clean(tabular.BuildFragment(rec)); !fragment.Empty() {
				result.Fragments = append(result.Fragments, fragment)
			}
		}
		if fileProcessed {
			result.FilesProcessed++
		}
	}

	log.Printf("service.BatchService: batch done: %d files, %d pages, %d errors",
		result.FilesProcessed, result.PagesProcessed, len(result.Errors))
	return result, nil
}

// BuildTable reconciles, merges, and presents the batch's fragments as the
// flat output table. Model-assisted reconciliation degradation is non-fatal:
// the deterministic synonym table is applied instead. Returns ErrNoData when
// no rows survive.
func (s *BatchService) BuildTable(ctx context.Context, result *BatchResult) (present.OutputTable, error) {
	if len(result.Fragments) == 0 {
		return present.OutputTable{}, domain.ErrNoData
	}

	reconciled, err := s.reconciler.Reconcile(ctx, result.Fragments)
	if err != nil {
		if !errors.Is(err, domain.ErrReconcileDegraded) {
			return present.OutputTable{}, err
		}
		log.Print("service.BatchService: using rule-based column reconciliation")
		reconciled = reconcile.SimpleReconcile(result.Fragments)
	}

	merged := tabular.Merge(reconciled)
	if merged.Empty() {
		return present.OutputTable{}, domain.ErrNoData
	}

	table := present.BuildOutputTable(merged)
	if table.Empty() {
		return present.OutputTable{}, domain.ErrNoData
	}
	return table, nil
}
