package moderation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/logger"
)

// Sweeper runs the periodic expiry sweep in the background. It ticks at a
// fixed resolution and sweeps each guild once its configured interval has
// elapsed, so guilds with different sweep intervals share one goroutine.
type Sweeper struct {
	svc        *Service
	resolution time.Duration
	stop       chan struct{}
	wg         sync.WaitGroup

	mu        sync.Mutex
	lastSweep map[string]time.Time
	running   bool
}

// NewSweeper builds a sweeper over the given service. The resolution is
// how often guild intervals are checked, not how often guilds are swept.
func NewSweeper(svc *Service, resolution time.Duration) *Sweeper {
	if resolution <= 0 {
		resolution = time.Hour
	}
	return &Sweeper{
		svc:        svc,
		resolution: resolution,
		stop:       make(chan struct{}),
		lastSweep:  make(map[string]time.Time),
	}
}

// Start launches the sweep loop. Calling Start twice is a no-op.
func (sw *Sweeper) Start(ctx context.Context) {
	sw.mu.Lock()
	if sw.running {
		sw.mu.Unlock()
		return
	}
	sw.running = true
	sw.mu.Unlock()

	sw.wg.Add(1)
	go func() {
		defer sw.wg.Done()
		ticker := time.NewTicker(sw.resolution)
		defer ticker.Stop()

		logger.System("Barrido de expiración de advertencias iniciado", "Sweeper")
		for {
			select {
			case <-ticker.C:
				sw.sweepDue(ctx)
			case <-sw.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the sweep loop and waits for an in-flight pass to finish.
func (sw *Sweeper) Stop() {
	sw.mu.Lock()
	if !sw.running {
		sw.mu.Unlock()
		return
	}
	sw.running = false
	sw.mu.Unlock()

	close(sw.stop)
	sw.wg.Wait()
	logger.System("Barrido de expiración detenido", "Sweeper")
}

// sweepDue sweeps every guild whose configured interval has elapsed since
// its last sweep. Errors are logged and skipped; the sweep is idempotent
// and the next tick retries.
func (sw *Sweeper) sweepDue(ctx context.Context) {
	guilds, err := sw.svc.infractions.ListGuilds(ctx)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudieron listar los servidores para el barrido: %v", err), "Sweeper")
		return
	}

	now := sw.svc.clock.Now()
	for _, guildID := range guilds {
		cfg, err := sw.svc.GuildConfig(ctx, guildID)
		if err != nil {
			logger.Warn(fmt.Sprintf("Config no disponible para %s: %v", guildID, err), "Sweeper")
			continue
		}

		sw.mu.Lock()
		last := sw.lastSweep[guildID]
		due := last.IsZero() || now.Sub(last) >= cfg.SweepInterval
		if due {
			sw.lastSweep[guildID] = now
		}
		sw.mu.Unlock()
		if !due {
			continue
		}

		expired, err := sw.svc.ExpireSweep(ctx, guildID)
		if err != nil {
			logger.Warn(fmt.Sprintf("Barrido fallido en %s: %v", guildID, err), "Sweeper")
			continue
		}
		if expired > 0 {
			logger.Info(fmt.Sprintf("Barrido en %s: %d advertencias expiradas", guildID, expired), "Sweeper")
		}
	}
}
