package osuapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/linuxmatters/osuthumb/internal/score"
)

// rawScore mirrors one get_scores entry.
type rawScore struct {
	Count300    string `json:"count300"`
	Count100    string `json:"count100"`
	Count50     string `json:"count50"`
	CountMiss   string `json:"countmiss"`
	MaxCombo    string `json:"maxcombo"`
	EnabledMods string `json:"enabled_mods"`
	PP          string `json:"pp"`
}

// Performance returns the performance value osu! awarded to the submitted
// score matching the replay's judgements, combo and mods.
func (c *Client) Performance(ctx context.Context, s *score.Summary, beatmapID int) (float64, error) {
	params := url.Values{}
	params.Set("b", strconv.Itoa(beatmapID))
	params.Set("u", s.Username)
	params.Set("type", "string")
	params.Set("mods", strconv.FormatUint(uint64(s.Mods), 10))

	var raw []rawScore
	if err := c.getJSON(ctx, "get_scores", params, &raw); err != nil {
		return 0, fmt.Errorf("scores for %s on %d: %w", s.Username, beatmapID, err)
	}

	for _, r := range raw {
		if !r.matches(s) {
			continue
		}
		pp, err := strconv.ParseFloat(r.PP, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: score has no pp value %q", ErrNotFound, r.PP)
		}
		return pp, nil
	}
	return 0, fmt.Errorf("no submitted score for %s on %d matches the replay: %w", s.Username, beatmapID, ErrNotFound)
}

func (r rawScore) matches(s *score.Summary) bool {
	var p numberParser
	same := p.parseInt("count300", r.Count300) == s.Count300 &&
		p.parseInt("count100", r.Count100) == s.Count100 &&
		p.parseInt("count50", r.Count50) == s.Count50 &&
		p.parseInt("countmiss", r.CountMiss) == s.CountMiss &&
		p.parseInt("maxcombo", r.MaxCombo) == s.MaxCombo
	return same && p.err == nil
}

// FixedPerformance reports a configured performance value for every score.
type FixedPerformance float64

// Performance returns the fixed value.
func (f FixedPerformance) Performance(context.Context, *score.Summary, int) (float64, error) {
	return float64(f), nil
}
