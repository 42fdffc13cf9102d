package osuapi

import (
	"context"
	"fmt"
)

// Background loads the raw cover art of a beatmap set. Load never fails:
// any download problem yields Fallback instead.
type Background struct {
	Client   *Client
	SetID    int
	Fallback []byte

	// OnFallback, when set, is told why the fallback was used.
	OnFallback func(error)
}

// CoverURL returns the full-size cover for the beatmap set.
func (b *Background) CoverURL() string {
	return fmt.Sprintf("%s/beatmaps/%d/covers/raw.jpg", b.Client.AssetsURL, b.SetID)
}

// Load returns the cover bytes or the fallback image.
func (b *Background) Load(ctx context.Context) []byte {
	data, err := b.Client.getImage(ctx, b.CoverURL())
	if err != nil {
		if b.OnFallback != nil {
			b.OnFallback(err)
		}
		return b.Fallback
	}
	return data
}
