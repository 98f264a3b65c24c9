package yahoo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	xhttp "TradeSentry/pkg/http"
)

type searchEnvelope struct {
	News []newsItem `json:"news"`
}

// newsItem accepts both the flat and the content-nested headline shapes.
type newsItem struct {
	Title   string `json:"title"`
	Content *struct {
		Title string `json:"title"`
	} `json:"content"`
}

func (n newsItem) headline() string {
	if n.Content != nil && strings.TrimSpace(n.Content.Title) != "" {
		return strings.TrimSpace(n.Content.Title)
	}
	return strings.TrimSpace(n.Title)
}

// Headlines returns up to limit recent headlines for symbol.
func (c *Client) Headlines(ctx context.Context, symbol string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	var env searchEnvelope
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v1/finance/search",
		Headers: map[string]string{
			"User-Agent": c.userAgent,
			"Accept":     "application/json",
		},
		QueryParams: map[string][]string{
			"q":           {symbol},
			"newsCount":   {strconv.Itoa(limit)},
			"quotesCount": {"0"},
		},
	}, &env)
	if err != nil {
		return nil, fmt.Errorf("news search %s: %w", symbol, err)
	}

	out := make([]string, 0, limit)
	for _, item := range env.News {
		if len(out) == limit {
			break
		}
		if h := item.headline(); h != "" {
			out = append(out, h)
		}
	}
	return out, nil
}
