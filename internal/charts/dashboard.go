package charts

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"gemscope/internal/dataprocessing"
	"gemscope/internal/infrastructure"
)

// RenderDashboard renders every panel concurrently and returns them in
// Panels order. The result is only read, so panels share it freely.
func (r *Renderer) RenderDashboard(ctx context.Context, format Format, res *dataprocessing.Result) ([]Image, error) {
	start := time.Now()
	panels := Panels()
	images := make([]Image, len(panels))

	g, gctx := errgroup.WithContext(ctx)
	for i, panel := range panels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := r.Render(panel, format, res)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		infrastructure.WithError(r.logger, err).ErrorContext(ctx, "dashboard render failed")
		return nil, err
	}

	empty := 0
	for _, img := range images {
		if img.Empty {
			empty++
		}
	}
	r.logger.DebugContext(ctx, "dashboard rendered",
		slog.Int("panels", len(images)),
		slog.Int("empty", empty),
		slog.Duration("duration", time.Since(start)))
	return images, nil
}
