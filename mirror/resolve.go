package mirror

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Target selects what Resolve asks the authority for: a known room by
// code, a fresh private room, or matchmaking into a public room of Lang.
type Target struct {
	Code   string
	Create bool
	Lang   int
}

// Resolve performs the /play handshake against baseURL and returns the
// socket URL to dial, ticket included when the authority issues one.
func Resolve(ctx context.Context, client *http.Client, baseURL string, target Target) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	form := url.Values{}
	form.Set("lang", strconv.Itoa(target.Lang))
	if target.Code != "" {
		form.Set("id", target.Code)
	} else if target.Create {
		form.Set("create", "1")
	}

	endpoint := strings.TrimSuffix(baseURL, "/") + "/play"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return strings.TrimSpace(string(body)), nil
	case http.StatusNotFound:
		return "", ErrRoomNotFound
	default:
		return "", fmt.Errorf("play: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
