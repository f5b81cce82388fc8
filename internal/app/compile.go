package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/cecplan/internal/ctxlog"
	"github.com/specialistvlad/cecplan/internal/lower"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/schema"
)

// Result is the outcome for one configuration file.
type Result struct {
	Filename string
	Config   *schema.Config
	// Program is nil when the file was only validated.
	Program *plan.Program
}

// FileError ties a failure to the file it came from.
type FileError struct {
	Filename string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Validate loads and validates every configuration file under paths.
func (a *App) Validate(ctx context.Context, paths []string) ([]*Result, error) {
	return a.process(ctx, paths, false)
}

// Compile loads, validates, and lowers every configuration file under
// paths. Results are in file order.
func (a *App) Compile(ctx context.Context, paths []string) ([]*Result, error) {
	return a.process(ctx, paths, true)
}

// process handles files concurrently. Failures of all files are joined;
// a contract violation in any file is re-raised on the calling goroutine.
func (a *App) process(ctx context.Context, paths []string, lowered bool) ([]*Result, error) {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)

	files, err := a.expand(paths)
	if err != nil {
		return nil, err
	}
	s := a.Schema()
	logger.Debug("Processing configuration files.", zap.Int("files", len(files)), zap.Int("generation", s.Generation))

	results := make([]*Result, len(files))
	errs := make([]error, len(files))
	panics := make([]any, len(files))

	var g errgroup.Group
	if a.config.Workers > 0 {
		g.SetLimit(a.config.Workers)
	}
	for i, file := range files {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					panics[i] = r
				}
			}()
			results[i], errs[i] = a.processFile(ctx, s, file, lowered)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range panics {
		if r != nil {
			panic(r)
		}
	}

	var failed []error
	for i, err := range errs {
		if err != nil {
			failed = append(failed, &FileError{Filename: files[i], Err: err})
		}
	}
	if len(failed) > 0 {
		logger.Info("Configuration rejected.", zap.Int("files", len(files)), zap.Int("failed", len(failed)))
		return nil, errors.Join(failed...)
	}

	logger.Info("Configuration accepted.", zap.Int("files", len(files)), zap.Bool("lowered", lowered))
	return results, nil
}

func (a *App) processFile(ctx context.Context, s *schema.Schema, file string, lowered bool) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With(zap.String("file", file))
	ctx = ctxlog.WithLogger(ctx, logger)

	doc, err := a.load(ctx, file)
	if err != nil {
		return nil, err
	}
	cfg, err := s.Validate(ctx, doc.Component)
	if err != nil {
		return nil, err
	}
	res := &Result{Filename: file, Config: cfg}
	if !lowered {
		return res, nil
	}

	p, err := lower.New(a.registry).Lower(ctx, cfg, s.Generation)
	if err != nil {
		return nil, err
	}
	logger.Debug("Configuration lowered.", zap.Int("instructions", len(p.Instructions())))
	res.Program = p
	return res, nil
}
