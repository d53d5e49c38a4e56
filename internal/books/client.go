// Package books enriches bare book titles with metadata from the Google
// Books volumes API.
package books

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"book-scanner/backend/internal/model"
)

const (
	// DefaultBaseURL is the public Google Books API root.
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	// MaxDescriptionLength caps the description carried back to clients.
	MaxDescriptionLength = 200

	// lookupTimeout bounds a single volume lookup.
	lookupTimeout = 15 * time.Second
)

// Client queries the Google Books volumes API. The API is public and
// unauthenticated, so outbound calls go through a politeness limiter.
type Client struct {
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client. An empty baseURL selects the public API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: lookupTimeout},
		limiter: rate.NewLimiter(rate.Limit(10), 10),
	}
}

// volume mirrors the slice of the volumes API response we care about.
type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		PublishedDate       string   `json:"publishedDate"`
		Description         string   `json:"description"`
		PageCount           int      `json:"pageCount"`
		Categories          []string `json:"categories"`
		AverageRating       float64  `json:"averageRating"`
		PreviewLink         string   `json:"previewLink"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks struct {
			Thumbnail      string `json:"thumbnail"`
			SmallThumbnail string `json:"smallThumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

// Lookup queries the API for a single title, restricted to books and at
// most one match. A missing match is not an error: it returns a record
// with Found=false.
func (c *Client) Lookup(ctx context.Context, title string) (model.EnrichedBook, error) {
	record := model.EnrichedBook{Title: title}

	if err := c.limiter.Wait(ctx); err != nil {
		return record, err
	}

	q := url.Values{}
	q.Set("q", "intitle:"+title)
	q.Set("maxResults", "1")
	q.Set("printType", "books")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/volumes?"+q.Encode(), nil)
	if err != nil {
		return record, fmt.Errorf("failed to create volumes request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return record, fmt.Errorf("volumes lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return record, fmt.Errorf("volumes API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out struct {
		TotalItems int      `json:"totalItems"`
		Items      []volume `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return record, fmt.Errorf("failed to decode volumes response: %w", err)
	}
	if len(out.Items) == 0 {
		return record, nil
	}

	fill(&record, out.Items[0])
	return record, nil
}

func fill(record *model.EnrichedBook, v volume) {
	info := v.VolumeInfo

	record.Found = true
	record.GoogleBooksID = v.ID
	record.Authors = info.Authors
	record.PublishedDate = info.PublishedDate
	record.Description = truncate(info.Description, MaxDescriptionLength)
	record.PageCount = info.PageCount
	record.Categories = info.Categories
	record.AverageRating = info.AverageRating
	record.PreviewLink = info.PreviewLink

	record.Thumbnail = info.ImageLinks.Thumbnail
	if record.Thumbnail == "" {
		record.Thumbnail = info.ImageLinks.SmallThumbnail
	}

	for _, id := range info.IndustryIdentifiers {
		identifier := id.Identifier
		switch id.Type {
		case "ISBN_10":
			record.ISBN10 = &identifier
		case "ISBN_13":
			record.ISBN13 = &identifier
		}
	}
}

// EnrichAll looks up every title concurrently and reassembles the results
// in input order. A failed lookup becomes Found=false with the error
// message embedded in its slot; it never fails the batch. The result list
// always has exactly one entry per input title.
func (c *Client) EnrichAll(ctx context.Context, titles []string) []model.EnrichedBook {
	results := make([]model.EnrichedBook, len(titles))

	g, gctx := errgroup.WithContext(ctx)
	for i, title := range titles {
		i, title := i, title
		g.Go(func() error {
			record, err := c.Lookup(gctx, title)
			if err != nil {
				log.Printf("[WARN] Book lookup failed title=%q: %v", title, err)
				record = model.EnrichedBook{Title: title, Error: err.Error()}
			}
			results[i] = record
			return nil
		})
	}
	_ = g.Wait() // lookups never return errors, failures are embedded per slot

	return results
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
