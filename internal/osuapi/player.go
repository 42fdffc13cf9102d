package osuapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Player is a resolved osu! account with its avatar image bytes.
type Player struct {
	ID       int
	Username string
	Avatar   []byte
}

type rawUser struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// ResolvePlayer finds a player by name and downloads their avatar.
func (c *Client) ResolvePlayer(ctx context.Context, username string) (*Player, error) {
	params := url.Values{}
	params.Set("u", username)
	params.Set("type", "string")

	var raw []rawUser
	if err := c.getJSON(ctx, "get_user", params, &raw); err != nil {
		return nil, fmt.Errorf("player %s: %w", username, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("player %s: %w", username, ErrNotFound)
	}

	id, err := strconv.Atoi(raw[0].UserID)
	if err != nil {
		return nil, fmt.Errorf("player %s: %w: user_id %q", username, ErrRequest, raw[0].UserID)
	}

	avatar, err := c.getImage(ctx, c.AvatarURL+"/"+strconv.Itoa(id))
	if err != nil {
		return nil, fmt.Errorf("avatar for %s: %w", username, err)
	}

	return &Player{ID: id, Username: raw[0].Username, Avatar: avatar}, nil
}
