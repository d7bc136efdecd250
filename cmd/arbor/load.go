package main

import (
	"context"
	"path/filepath"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/adapters/process"
	"github.com/aretw0/arbor/pkg/domain"
)

func loadDocument(ctx context.Context, path string) (*domain.Document, error) {
	loader, err := file.NewLoader(path)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx)
}

// newEngine returns an engine with the builtins plus RunProcess when a
// processes file is configured.
func (a *app) newEngine(opts ...arbor.Option) (*arbor.Engine, error) {
	eng := arbor.New(append([]arbor.Option{arbor.WithLogger(a.logger)}, opts...)...)
	if a.cfg.Run.Processes == "" {
		return eng, nil
	}

	procs, err := process.LoadProcesses(a.cfg.Run.Processes)
	if err != nil {
		return nil, err
	}
	runner := process.NewRunner(
		process.WithRegistry(procs),
		process.WithBaseDir(filepath.Dir(a.cfg.Run.Processes)),
	)
	if err := eng.Register(process.Manifest(runner)); err != nil {
		return nil, err
	}
	a.logger.Debug("Registered processes", "file", a.cfg.Run.Processes, "names", runner.Names())
	return eng, nil
}
