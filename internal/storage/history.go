package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/brandpulse/ai-visibility/internal/models"
)

const (
	historyRoot     = "checks"
	timestampLayout = "20060102T150405.000Z"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// History persists check results as checks/<brand-slug>/<timestamp>.json
type History struct {
	backend StorageInterface
}

// NewHistory wraps a storage backend
func NewHistory(backend StorageInterface) *History {
	return &History{backend: backend}
}

// Slug turns a brand name into a storage path segment
func Slug(brand string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(brand), "-"), "-")
	if slug == "" {
		return "brand"
	}
	return slug
}

// Key returns the storage name of a check
func Key(check models.AICheckResult) string {
	return fmt.Sprintf("%s/%s/%s.json", historyRoot, Slug(check.Brand), check.CheckedAt.UTC().Format(timestampLayout))
}

// Save stores a check and returns its key
func (h *History) Save(ctx context.Context, check models.AICheckResult) (string, error) {
	data, err := json.Marshal(check)
	if err != nil {
		return "", fmt.Errorf("failed to marshal check: %w", err)
	}

	key := Key(check)
	if err := h.backend.Store(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

// Load returns up to limit checks of a brand, newest first. Unreadable
// entries are skipped. limit <= 0 returns every entry.
func (h *History) Load(ctx context.Context, brand string, limit int) ([]models.AICheckResult, error) {
	names, err := h.backend.List(ctx, fmt.Sprintf("%s/%s/", historyRoot, Slug(brand)))
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	// timestamps sort lexically
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	checks := make([]models.AICheckResult, 0, len(names))
	for _, name := range names {
		if limit > 0 && len(checks) == limit {
			break
		}

		data, err := h.backend.Retrieve(ctx, name)
		if err != nil {
			logrus.WithError(err).WithField("blob", name).Warn("Skipping unreadable history entry")
			continue
		}

		var check models.AICheckResult
		if err := json.Unmarshal(data, &check); err != nil {
			logrus.WithError(err).WithField("blob", name).Warn("Skipping malformed history entry")
			continue
		}
		checks = append(checks, check)
	}

	return checks, nil
}
