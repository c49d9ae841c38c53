package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/h2non/filetype"
)

const coverLookupTimeout = 5 * time.Second

type CoverService struct {
	client  *http.Client
	baseURL string
}

func NewCoverService() *CoverService {
	return &CoverService{
		client:  &http.Client{Timeout: coverLookupTimeout},
		baseURL: "https://www.googleapis.com/books/v1/volumes",
	}
}

type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			ImageLinks struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// DeriveCoverURL looks a title up in the Google Books index and returns its
// thumbnail URL after checking the bytes behind it really are an image.
// Advisory only: every failure path returns "".
func (s *CoverService) DeriveCoverURL(ctx context.Context, title string) string {
	ctx, cancel := context.WithTimeout(ctx, coverLookupTimeout)
	defer cancel()

	lookup := s.baseURL + "?maxResults=1&q=" + url.QueryEscape("intitle:"+title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookup, nil)
	if err != nil {
		return ""
	}
	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info("cover lookup failed", "title", title, "err", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var payload volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	if len(payload.Items) == 0 {
		return ""
	}

	thumbnail := payload.Items[0].VolumeInfo.ImageLinks.Thumbnail
	if thumbnail == "" {
		return ""
	}
	thumbnail = strings.Replace(thumbnail, "http://", "https://", 1)
	if !s.looksLikeImage(ctx, thumbnail) {
		return ""
	}
	return thumbnail
}

func (s *CoverService) looksLikeImage(ctx context.Context, imageURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	// filetype only needs the first few hundred bytes.
	head := make([]byte, 512)
	n, _ := io.ReadFull(resp.Body, head)
	return filetype.IsImage(head[:n])
}
