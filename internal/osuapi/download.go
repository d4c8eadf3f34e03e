package osuapi

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/levigross/grequests"
	"github.com/rs/zerolog/log"
)

// DownloadBeatmapset fetches a set's .osz archive and returns its .osu
// entries keyed by file name. Directory entries and nested paths inside the
// archive are skipped; legitimate sets keep their .osu files at the root.
func (c *Client) DownloadBeatmapset(ctx context.Context, setID int) (map[string][]byte, error) {
	if c.session == "" {
		return nil, fmt.Errorf("downloading sets requires an osu_session cookie")
	}

	release := c.lim.acquire()
	c.lim.wait()
	defer release()

	url := fmt.Sprintf("https://osu.ppy.sh/beatmapsets/%d/download", setID)
	log.Info().Int("set", setID).Msg("Downloading beatmapset")

	resp, err := grequests.Get(url, grequests.FromRequestOptions(&grequests.RequestOptions{
		Context: ctx,
		Headers: map[string]string{
			"Referer": fmt.Sprintf("https://osu.ppy.sh/beatmapsets/%d", setID),
		},
		Cookies: []*http.Cookie{
			{Name: "osu_session", Value: c.session},
		},
		RequestTimeout: 10 * time.Minute,
	}))
	if err != nil {
		return nil, fmt.Errorf("download set %d: %w", setID, err)
	}
	defer resp.Close()

	body := resp.Bytes()
	if !resp.Ok {
		return nil, fmt.Errorf("download set %d: status %d", setID, resp.StatusCode)
	}
	if strings.Contains(string(body), "Slow down, play more.") {
		return nil, fmt.Errorf("download set %d: rate limited", setID)
	}

	return extractOsuFiles(setID, body)
}

func extractOsuFiles(setID int, osz []byte) (map[string][]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(osz), int64(len(osz)))
	if err != nil {
		return nil, fmt.Errorf("open osz for set %d: %w", setID, err)
	}

	osuFiles := make(map[string][]byte)
	for _, file := range zr.File {
		if !strings.HasSuffix(file.Name, ".osu") {
			continue
		}
		if file.FileInfo().IsDir() {
			log.Warn().Int("set", setID).Str("entry", file.Name).Msg("Skipping directory entry named .osu")
			continue
		}
		if strings.ContainsAny(file.Name, "/\\") {
			log.Warn().Int("set", setID).Str("entry", file.Name).Msg("Skipping nested .osu entry")
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in set %d: %w", file.Name, setID, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s in set %d: %w", file.Name, setID, err)
		}
		osuFiles[file.Name] = data
	}

	if len(osuFiles) == 0 {
		return nil, fmt.Errorf("no .osu files in set %d", setID)
	}
	return osuFiles, nil
}
