package state

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/example/fooddash/pkg/normalize"
)

func (a *App) reloadFavorites(ctx context.Context, userID string, epoch uint64) error {
	seq := a.stamp(sliceFavorites)
	rows, err := a.gw.ListFavorites(ctx, userID)
	if err != nil {
		return err
	}
	set := normalize.FavoriteSet(rows)
	a.commit(sliceFavorites, epoch, seq, func() { a.favorites = set })
	return nil
}

// ToggleFavorite flips membership. Like every other mutation it is
// write-then-reload, so a double toggle always lands back on the persisted
// original set.
func (a *App) ToggleFavorite(ctx context.Context, productID string) error {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return err
	}

	a.mu.Lock()
	_, present := a.favorites[productID]
	a.mu.Unlock()

	if present {
		err = a.gw.DeleteFavorite(ctx, userID, productID)
	} else {
		err = a.gw.InsertFavorite(ctx, userID, productID)
	}
	if err != nil {
		return err
	}
	a.auditLog(userID, "toggle_favorite", productID, bson.M{"favorited": !present})
	return a.reloadFavorites(ctx, userID, epoch)
}

func (a *App) IsFavorite(productID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.favorites[productID]
	return ok
}

// Favorites returns the product ids sorted for stable presentation; the set
// itself carries no ordering.
func (a *App) Favorites() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.favorites))
	for id := range a.favorites {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
