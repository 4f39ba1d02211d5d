package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/newswire/apiserver/types"
	"golang.org/x/oauth2"
)

const (
	defaultPostEndpoint = "https://api.x.com/2/tweets"
	postTimeout         = 10 * time.Second
)

// Poster publishes posts on behalf of a connected account using its
// stored OAuth2 tokens.
type Poster struct {
	endpoint string
}

// NewPoster constructs a poster against the platform's API.
func NewPoster() *Poster {
	return &Poster{endpoint: defaultPostEndpoint}
}

// NewPosterWithEndpoint constructs a poster against a custom endpoint,
// used in tests.
func NewPosterWithEndpoint(endpoint string) *Poster {
	return &Poster{endpoint: endpoint}
}

// Post publishes the text with the connection's access token. The
// platform handles token expiry with 401s; refresh is left to the
// account owner re-connecting.
func (p *Poster) Post(ctx context.Context, conn types.SocialConnection, text string) error {
	token := &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		TokenType:    conn.TokenType,
		Expiry:       conn.Expiry,
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("encode post payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, postTimeout)
	defer cancel()

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build post request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("post rejected with status %d: %s", resp.StatusCode, body)
	}

	return nil
}
