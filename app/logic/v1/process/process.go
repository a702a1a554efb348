package process

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/swgwatch/swgwatch/app/core"
	v1 "github.com/swgwatch/swgwatch/app/logic/v1"
	"github.com/swgwatch/swgwatch/pkg/safe"
)

// Process owns the background sync schedule. Each job re-checks the
// freshness gate itself, so running a job early or twice is harmless.
type Process struct {
	cron *cron.Cron
	core *core.Core
}

func NewProcess(core *core.Core) *Process {
	return &Process{
		cron: cron.New(),
		core: core,
	}
}

func (p *Process) Start() {
	p.cron.AddFunc("@every 30m", func() {
		safe.Run(func() {
			if _, err := v1.NewSyncLogic(context.Background(), p.core).SyncCurrentResources(false); err != nil {
				slog.Error("scheduled resource sync failed", slog.String("error", err.Error()))
			}
		})
	})

	p.cron.AddFunc("@every 6h", func() {
		safe.Run(func() {
			if _, err := v1.NewClassTreeLogic(context.Background(), p.core).SyncResourceTree(false); err != nil {
				slog.Error("scheduled tree import failed", slog.String("error", err.Error()))
			}
		})
	})

	p.cron.AddFunc("@every 1h", func() {
		safe.Run(func() {
			if _, err := v1.NewSalesLogic(context.Background(), p.core).ExtractUnprocessed(); err != nil {
				slog.Error("scheduled sale extraction failed", slog.String("error", err.Error()))
			}
		})
	})

	p.cron.Start()
	slog.Info("background sync schedule started")
}

func (p *Process) Stop() {
	ctx := p.cron.Stop()
	<-ctx.Done()
	slog.Info("background sync schedule stopped")
}
