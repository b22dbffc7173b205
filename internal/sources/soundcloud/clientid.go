package soundcloud

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/adrg/xdg"
	"go.uber.org/zap"
)

var ErrClientIDNotFound = errors.New("soundcloud client_id not found")

var clientIDRegex = regexp.MustCompile(`client_id=([a-zA-Z0-9]+)`)

// KeyCache persists the discovered client_id between runs.
type KeyCache interface {
	Load() (string, error)
	Store(id string) error
}

type FileKeyCache struct {
	Path string
}

func DefaultKeyCache() (*FileKeyCache, error) {
	path, err := xdg.CacheFile(filepath.Join("music-tagger", "soundcloud.key"))
	if err != nil {
		return nil, fmt.Errorf("soundcloud key path: %w", err)
	}
	return &FileKeyCache{Path: path}, nil
}

func (c *FileKeyCache) Load() (string, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *FileKeyCache) Store(id string) error {
	return os.WriteFile(c.Path, []byte(id), 0o600)
}

// clientID returns the client_id to use. With refresh set, or when nothing
// is known yet, it is scraped from the web player's scripts.
func (s *Source) clientID(ctx context.Context, refresh bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !refresh {
		if s.id != "" {
			return s.id, nil
		}
		if s.cache != nil {
			if id, err := s.cache.Load(); err == nil && id != "" {
				s.id = id
				return id, nil
			}
		}
	}

	id, err := s.discover(ctx)
	if err != nil {
		return "", err
	}
	s.id = id
	s.logger.Debug("discovered soundcloud client_id")

	if s.cache != nil {
		if err := s.cache.Store(id); err != nil {
			s.logger.Warn("could not store soundcloud client_id", zap.Error(err))
		}
	}
	return id, nil
}

func (s *Source) discover(ctx context.Context) (string, error) {
	scripts, err := s.scriptURLs(ctx)
	if err != nil {
		return "", err
	}

	for _, src := range scripts {
		body, err := s.client.GetBody(ctx, src)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}
		js, err := io.ReadAll(body)
		body.Close()
		if err != nil {
			continue
		}
		if m := clientIDRegex.FindSubmatch(js); m != nil {
			return string(m[1]), nil
		}
	}
	return "", ErrClientIDNotFound
}

// scriptURLs lists the absolute script sources on the web player's page.
func (s *Source) scriptURLs(ctx context.Context) ([]string, error) {
	body, err := s.client.GetBody(ctx, s.webBase)
	if err != nil {
		return nil, fmt.Errorf("soundcloud page: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("soundcloud page: %w", err)
	}

	base, err := url.Parse(s.webBase)
	if err != nil {
		return nil, err
	}

	var out []string
	doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" || strings.Contains(src, "cookielaw.org") {
			return
		}
		ref, err := url.Parse(src)
		if err != nil {
			return
		}
		out = append(out, base.ResolveReference(ref).String())
	})
	return out, nil
}
