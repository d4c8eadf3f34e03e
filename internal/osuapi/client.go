// Package osuapi is a small client for the osu! v2 web API: OAuth token
// exchange, beatmap metadata lookup and .osz downloads. It exists so the
// CLI can feed real map files to the parser; the parser itself never
// touches the network.
package osuapi

import (
	"context"
	"fmt"
	"time"

	"github.com/levigross/grequests"
	"github.com/rs/zerolog/log"
)

const apiBase = "https://osu.ppy.sh/api/v2"

// maxLookupIDs is the API's cap on a single beatmap lookup.
const maxLookupIDs = 50

// BeatmapInfo is the subset of the API's beatmap document the tooling uses.
type BeatmapInfo struct {
	ID               int        `json:"id"`
	BeatmapsetID     int        `json:"beatmapset_id"`
	Mode             string     `json:"mode"`
	Status           string     `json:"status"`
	Version          string     `json:"version"`
	DifficultyRating float64    `json:"difficulty_rating"`
	Checksum         string     `json:"checksum"`
	Beatmapset       Beatmapset `json:"beatmapset"`
}

// Beatmapset is the containing set of a beatmap.
type Beatmapset struct {
	ID           int          `json:"id"`
	Artist       string       `json:"artist"`
	Title        string       `json:"title"`
	Creator      string       `json:"creator"`
	Status       string       `json:"status"`
	Availability Availability `json:"availability"`
}

// Availability flags sets that must not be downloaded.
type Availability struct {
	DownloadDisabled bool    `json:"download_disabled"`
	MoreInformation  *string `json:"more_information"`
}

// Client talks to the osu! website with a shared token, session cookie and
// rate limiter.
type Client struct {
	token   *Token
	session string
	lim     *limiter
}

// NewClient fetches an OAuth token and returns a ready client. session may
// be empty when .osz downloads are not needed.
func NewClient(ctx context.Context, clientID int, clientSecret, session string) (*Client, error) {
	tok, err := FetchToken(ctx, clientID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("fetch oauth token: %w", err)
	}
	return &Client{token: tok, session: session, lim: newLimiter()}, nil
}

// Close releases the client's rate-limiter resources.
func (c *Client) Close() {
	c.lim.close()
}

type lookupQuery struct {
	IDs []int `url:"ids[]"`
}

// LookupBeatmaps fetches metadata for up to 50 beatmap ids in one request.
func (c *Client) LookupBeatmaps(ctx context.Context, ids []int) ([]BeatmapInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > maxLookupIDs {
		return nil, fmt.Errorf("cannot request more than %d beatmaps at once", maxLookupIDs)
	}

	release := c.lim.acquire()
	c.lim.wait()
	defer release()

	resp, err := grequests.Get(apiBase+"/beatmaps", grequests.FromRequestOptions(&grequests.RequestOptions{
		Context:     ctx,
		QueryStruct: &lookupQuery{IDs: ids},
		Headers: map[string]string{
			"Accept":        "application/json",
			"Authorization": c.token.TokenType + " " + c.token.AccessToken,
		},
		RequestTimeout: 2 * time.Minute,
	}))
	if err != nil {
		return nil, fmt.Errorf("send beatmap lookup: %w", err)
	}
	defer resp.Close()

	if !resp.Ok {
		return nil, fmt.Errorf("beatmap lookup: status %d, body: %s", resp.StatusCode, resp.String())
	}

	var out struct {
		Beatmaps []BeatmapInfo `json:"beatmaps"`
	}
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("decode beatmap lookup: %w", err)
	}
	log.Debug().Int("requested", len(ids)).Int("returned", len(out.Beatmaps)).Msg("Beatmap lookup")
	return out.Beatmaps, nil
}
