package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const statusAliveText = "Upwork is UP"

// StatusService probes the Upwork status page and reports whether the
// service declares itself up.
type StatusService struct {
	client  *http.Client
	pageURL string
	log     *zap.Logger
}

func NewStatusService(pageURL string, log *zap.Logger) *StatusService {
	return &StatusService{
		client:  &http.Client{Timeout: 15 * time.Second},
		pageURL: pageURL,
		log:     log.With(zap.String("component", "status")),
	}
}

// PageURL returns the probed page address for display in replies.
func (s *StatusService) PageURL() string {
	return s.pageURL
}

// IsAlive fetches the status page and checks its status banner.
func (s *StatusService) IsAlive(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL, nil)
	if err != nil {
		return false, fmt.Errorf("build status request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetch status page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("status page status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return false, fmt.Errorf("parse status page: %w", err)
	}

	banner := strings.TrimSpace(doc.Find("#statusbar_text").Text())
	return banner == statusAliveText, nil
}
