package osuapi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/levigross/grequests"
)

const tokenURL = "https://osu.ppy.sh/oauth/token"

// Token models the osu! OAuth client-credentials response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// FetchToken exchanges application credentials for a public-scope token.
func FetchToken(ctx context.Context, clientID int, clientSecret string) (*Token, error) {
	resp, err := grequests.Post(tokenURL, grequests.FromRequestOptions(&grequests.RequestOptions{
		Context: ctx,
		Data: map[string]string{
			"client_id":     strconv.Itoa(clientID),
			"client_secret": clientSecret,
			"grant_type":    "client_credentials",
			"scope":         "public",
		},
		Headers: map[string]string{
			"Accept": "application/json",
		},
		RequestTimeout: 15 * time.Second,
	}))
	if err != nil {
		return nil, fmt.Errorf("send token request: %w", err)
	}
	defer resp.Close()

	if !resp.Ok {
		return nil, fmt.Errorf("osu oauth error: status %d, body: %s", resp.StatusCode, resp.String())
	}

	var tok Token
	if err := resp.JSON(&tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return &tok, nil
}
