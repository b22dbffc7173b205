package spotify

import (
	"context"
	"encoding/base32"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	jsoniter "github.com/json-iterator/go"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"music-tagger/internal/sources"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	WebTokenURL = "https://open.spotify.com/api/token"

	browserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

type Credentials struct {
	ID     string
	Secret string
}

// NewHTTPClient returns a client that authorizes every request. With
// credentials it uses the client credentials flow; without, it falls back to
// the anonymous web player token. Tokens are kept in cache when it is not
// nil.
func NewHTTPClient(ctx context.Context, creds Credentials, cache TokenCache) *http.Client {
	var base oauth2.TokenSource
	if creds.ID != "" && creds.Secret != "" {
		cfg := &clientcredentials.Config{
			ClientID:     creds.ID,
			ClientSecret: creds.Secret,
			TokenURL:     spotifyauth.TokenURL,
		}
		base = cfg.TokenSource(ctx)
	} else {
		base = NewWebTokenSource(ctx, WebTokenURL)
	}

	if cache != nil {
		base = &cachedTokenSource{cache: cache, base: base}
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, base))
}

// TokenCache persists access tokens between runs.
type TokenCache interface {
	Load() (*oauth2.Token, error)
	Store(*oauth2.Token) error
}

// FileTokenCache stores the token as JSON in a file.
type FileTokenCache struct {
	Path string
}

// DefaultTokenCache keeps the token in the user's cache directory.
func DefaultTokenCache() (*FileTokenCache, error) {
	path, err := xdg.CacheFile(filepath.Join("music-tagger", "spotify-token.json"))
	if err != nil {
		return nil, fmt.Errorf("token cache path: %w", err)
	}
	return &FileTokenCache{Path: path}, nil
}

func (c *FileTokenCache) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode token cache: %w", err)
	}
	return &tok, nil
}

func (c *FileTokenCache) Store(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Path, data, 0o600)
}

type cachedTokenSource struct {
	cache TokenCache
	base  oauth2.TokenSource
}

func (s *cachedTokenSource) Token() (*oauth2.Token, error) {
	if tok, err := s.cache.Load(); err == nil && tok.Valid() {
		return tok, nil
	}
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	// A token that cannot be cached is still usable.
	_ = s.cache.Store(tok)
	return tok, nil
}

// webTokenSource fetches the anonymous token the web player uses. The
// endpoint wants a TOTP code derived from a secret shipped in the player.
type webTokenSource struct {
	ctx    context.Context
	url    string
	client *sources.Client
	now    func() time.Time
}

func NewWebTokenSource(ctx context.Context, tokenURL string) oauth2.TokenSource {
	return &webTokenSource{
		ctx:    ctx,
		url:    tokenURL,
		client: sources.NewClient(0, http.Header{"User-Agent": {browserAgent}}),
		now:    time.Now,
	}
}

type webToken struct {
	AccessToken string `json:"accessToken"`
	ExpiresAtMs int64  `json:"accessTokenExpirationTimestampMs"`
	ClientID    string `json:"clientId"`
	IsAnonymous bool   `json:"isAnonymous"`
}

func (s *webTokenSource) Token() (*oauth2.Token, error) {
	code, version, err := totpCode(s.now())
	if err != nil {
		return nil, fmt.Errorf("spotify totp: %w", err)
	}

	q := url.Values{}
	q.Set("reason", "init")
	q.Set("productType", "web-player")
	q.Set("totp", code)
	q.Set("totpVer", strconv.Itoa(version))
	q.Set("totpServer", code)

	var res webToken
	if err := s.client.GetJSON(s.ctx, s.url+"?"+q.Encode(), &res); err != nil {
		return nil, fmt.Errorf("spotify web token: %w", err)
	}
	if res.AccessToken == "" {
		return nil, fmt.Errorf("spotify web token: empty token: %w", sources.ErrUnauthorized)
	}

	return &oauth2.Token{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		Expiry:      time.UnixMilli(res.ExpiresAtMs),
	}, nil
}

const totpVersion = 61

var totpSecret = []byte{44, 55, 47, 42, 70, 40, 34, 114, 76, 74, 50, 111, 120, 97, 75, 76, 94, 102, 43, 69, 49, 120, 118, 80, 64, 78}

// totpCode derives the player secret and returns the code for now with the
// secret's version.
func totpCode(now time.Time) (string, int, error) {
	var joined strings.Builder
	for i, b := range totpSecret {
		joined.WriteString(strconv.Itoa(int(b ^ byte(i%33+9))))
	}

	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(joined.String()))
	key, err := otp.NewKeyFromURL("otpauth://totp/secret?secret=" + secret)
	if err != nil {
		return "", 0, err
	}

	code, err := totp.GenerateCode(key.Secret(), now)
	if err != nil {
		return "", 0, err
	}
	return code, totpVersion, nil
}
