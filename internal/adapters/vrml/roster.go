package vrml

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/vrml-tools/vrml-bot/internal/domain"
)

// FetchFullRoster walks every roster page of game. The first page gives the
// total and page size; the rest are fetched concurrently. Players come back
// in page order. Pages that fail are skipped and reported in the returned
// error next to the players that did load; only a failed first page yields
// no players.
func (c *Client) FetchFullRoster(ctx context.Context, game string) ([]domain.PlayerSummary, error) {
	first, err := c.RosterPage(ctx, game, 1)
	if err != nil {
		return nil, crerr.Wrapf(err, "roster %s: first page", game)
	}

	perPage := first.PerPage
	if perPage <= 0 {
		perPage = len(first.Players)
	}
	offsets := pageOffsets(first.PosMin, first.Total, perPage)

	pages := make([][]domain.PlayerSummary, len(offsets))
	errs := make([]error, len(offsets))
	p := pool.New().WithMaxGoroutines(c.pageWorkers)
	for i, off := range offsets {
		p.Go(func() {
			page, err := c.RosterPage(ctx, game, off)
			if err != nil {
				c.log.Warn("skipping roster page",
					zap.String("game", game), zap.Int("pos_min", off), zap.Error(err))
				errs[i] = crerr.Wrapf(err, "roster %s: page at %d", game, off)
				return
			}
			pages[i] = page.Players
		})
	}
	p.Wait()

	out := make([]domain.PlayerSummary, 0, first.Total)
	out = append(out, first.Players...)
	for _, players := range pages {
		out = append(out, players...)
	}
	return out, crerr.Join(errs...)
}

// pageOffsets lists the start positions after the first page.
func pageOffsets(start, total, perPage int) []int {
	if perPage <= 0 || total <= 0 {
		return nil
	}
	if start <= 0 {
		start = 1
	}
	var offs []int
	for off := start + perPage; off <= total; off += perPage {
		offs = append(offs, off)
	}
	return offs
}
