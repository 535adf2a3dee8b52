package cache

import (
	"context"

	"filmsocial/backend/internal/hub"

	"go.uber.org/zap"
)

// Invalidator returns a hub listener that drops cached entries made stale by an event.
// Relationship changes drop every user listing; film changes drop the film and all film listings.
func Invalidator(c Cache, log *zap.Logger) hub.Listener {
	return func(ctx context.Context, event hub.Event) {
		var err error
		switch event.Type {
		case hub.EventRelationshipChanged:
			err = c.DelPrefix(ctx, UsersPrefix)
		case hub.EventFilmChanged:
			if p, ok := event.Payload.(hub.FilmChanged); ok {
				err = c.Del(ctx, FilmKey(p.FilmID))
			}
			if delErr := c.DelPrefix(ctx, FilmsPrefix); err == nil {
				err = delErr
			}
		default:
			return
		}
		if err != nil {
			log.Warn("cache invalidation failed", zap.String("event", event.Type), zap.Error(err))
		}
	}
}
