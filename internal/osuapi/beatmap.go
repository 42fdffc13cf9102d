package osuapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/linuxmatters/osuthumb/internal/score"
)

// Beatmap is the subset of beatmap metadata the thumbnail shows.
type Beatmap struct {
	ID         int
	SetID      int
	Title      string
	Artist     string
	Version    string // difficulty name
	Creator    string
	StarRating float64
	MaxCombo   int
	BPM        float64
}

// rawBeatmap mirrors get_beatmaps, which encodes every number as a string.
type rawBeatmap struct {
	BeatmapID        string `json:"beatmap_id"`
	BeatmapsetID     string `json:"beatmapset_id"`
	Title            string `json:"title"`
	Artist           string `json:"artist"`
	Version          string `json:"version"`
	Creator          string `json:"creator"`
	DifficultyRating string `json:"difficultyrating"`
	MaxCombo         string `json:"max_combo"`
	BPM              string `json:"bpm"`
}

// Beatmap looks a beatmap up by its MD5 hash. Only the difficulty increasing
// mods are sent, since those are the ones that change the star rating.
func (c *Client) Beatmap(ctx context.Context, hash string, mods score.Mods) (*Beatmap, error) {
	params := url.Values{}
	params.Set("h", hash)
	params.Set("mods", strconv.FormatUint(uint64(mods.DifficultyIncrease()), 10))

	var raw []rawBeatmap
	if err := c.getJSON(ctx, "get_beatmaps", params, &raw); err != nil {
		return nil, fmt.Errorf("beatmap %s: %w", hash, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("beatmap %s: %w", hash, ErrNotFound)
	}

	return raw[0].sanitize()
}

func (r rawBeatmap) sanitize() (*Beatmap, error) {
	var p numberParser
	b := &Beatmap{
		ID:         p.parseInt("beatmap_id", r.BeatmapID),
		SetID:      p.parseInt("beatmapset_id", r.BeatmapsetID),
		Title:      r.Title,
		Artist:     r.Artist,
		Version:    r.Version,
		Creator:    r.Creator,
		StarRating: p.parseFloat("difficultyrating", r.DifficultyRating),
		MaxCombo:   p.optionalInt(r.MaxCombo),
		BPM:        p.optionalFloat(r.BPM),
	}
	if p.err != nil {
		return nil, p.err
	}
	return b, nil
}

// numberParser converts the API's string numbers, keeping the first error.
type numberParser struct {
	err error
}

func (p *numberParser) parseInt(field, s string) int {
	n, err := strconv.Atoi(s)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%w: field %s: %q is not an integer", ErrRequest, field, s)
	}
	return n
}

func (p *numberParser) parseFloat(field, s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%w: field %s: %q is not a number", ErrRequest, field, s)
	}
	return f
}

// optionalInt tolerates null fields, which the API sends for some maps.
func (p *numberParser) optionalInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func (p *numberParser) optionalFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
