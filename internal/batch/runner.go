package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spacesedan/postlens/internal/analysis"
	"github.com/spacesedan/postlens/internal/models"
)

type FileResult struct {
	Path   string
	Record *models.AnalysisRecord
	Err    error
}

// ProgressFunc is called after every file with the number finished so far.
type ProgressFunc func(done, total int)

type Runner struct {
	service *analysis.Service
	workers int
}

func NewRunner(service *analysis.Service, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{service: service, workers: workers}
}

// FormatFor picks markdown handling from the file extension.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return models.FORMAT_MARKDOWN
	default:
		return models.FORMAT_PLAIN
	}
}

// AnalyzeFile reads and analyzes one file. name is recorded as the filename.
func (r *Runner) AnalyzeFile(ctx context.Context, path, name string) FileResult {
	text, err := ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("[Batch] read %s: %w", path, err)}
	}

	record, err := r.service.Analyze(ctx, models.AnalysisRequest{
		Source:   models.SOURCE_CLI,
		Filename: name,
		Text:     text,
		Format:   FormatFor(path),
	})
	return FileResult{Path: path, Record: record, Err: err}
}

// Run analyzes files with a fixed pool of workers. Results keep the order of
// files; a canceled ctx marks the remaining files with ctx.Err().
func (r *Runner) Run(ctx context.Context, root string, files []string, progress ProgressFunc) []FileResult {
	results := make([]FileResult, len(files))
	jobs := make(chan int)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)

	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				path := files[i]
				name, err := filepath.Rel(root, path)
				if err != nil {
					name = filepath.Base(path)
				}
				results[i] = r.AnalyzeFile(ctx, path, filepath.ToSlash(name))

				if progress != nil {
					mu.Lock()
					done++
					progress(done, len(files))
					mu.Unlock()
				}
			}
		}()
	}

	next := 0
feed:
	for ; next < len(files); next++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- next:
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(files); i++ {
		results[i] = FileResult{Path: files[i], Err: ctx.Err()}
	}
	return results
}
