package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dharmasatrya/farefinder/internal/cache"
	"github.com/dharmasatrya/farefinder/internal/models"
	"github.com/dharmasatrya/farefinder/internal/providers"
)

type rawAirport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"country"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

// BuildLabel renders the display label for an airport:
// "City (CODE)" when the name adds nothing, "City – Name (CODE)" when the
// city is not part of the name, otherwise "Name (CODE)".
func BuildLabel(code, name, city string) string {
	if name == "" || name == city {
		if city != "" {
			return fmt.Sprintf("%s (%s)", city, code)
		}
		return code
	}
	if city != "" && !strings.Contains(name, city) {
		return fmt.Sprintf("%s – %s (%s)", city, name, code)
	}
	return fmt.Sprintf("%s (%s)", name, code)
}

func ParseAirports(body []byte) ([]models.AirportRecord, error) {
	var raw []rawAirport
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	out := make([]models.AirportRecord, 0, len(raw))
	for _, a := range raw {
		if a.Code == "" {
			continue
		}
		out = append(out, models.AirportRecord{
			Code:        a.Code,
			Label:       BuildLabel(a.Code, a.Name, a.City.Name),
			CountryCode: a.Country.Code,
			CountryName: a.Country.Name,
		})
	}
	return out, nil
}

type LoaderConfig struct {
	BaseURL        string
	Locale         string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	UserAgent      string
}

func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		BaseURL:        providers.DefaultRyanairBaseURL,
		Locale:         "pl",
		ConnectTimeout: 3 * time.Second,
		ReadTimeout:    8 * time.Second,
		UserAgent:      "Mozilla/5.0",
	}
}

type Loader struct {
	config LoaderConfig
	client *http.Client
	cache  cache.Cache
}

func NewLoader(cfg LoaderConfig, c cache.Cache) *Loader {
	def := DefaultLoaderConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Locale == "" {
		cfg.Locale = def.Locale
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = def.ConnectTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if c == nil {
		c = cache.NewNoOpCache()
	}

	return &Loader{
		config: cfg,
		client: providers.NewHTTPClient(cfg.ConnectTimeout, cfg.ReadTimeout),
		cache:  c,
	}
}

// Load never fails. When the upstream list cannot be fetched it falls back
// to the cached snapshot, and to an empty index when there is none.
func (l *Loader) Load(ctx context.Context) *Index {
	airports, err := l.fetch(ctx)
	if err == nil && len(airports) > 0 {
		if err := l.cache.SetAirports(ctx, l.config.Locale, airports); err != nil {
			log.Printf("Failed to cache airport list: %v", err)
		}
		log.Printf("Loaded %d airports", len(airports))
		return NewIndex(airports)
	}
	if err == nil {
		err = errors.New("empty airport list")
	}
	log.Printf("Airport list unavailable: %v", err)

	if cached, ok := l.cache.GetAirports(ctx, l.config.Locale); ok {
		log.Printf("Using cached airport list (%d airports)", len(cached))
		return NewIndex(cached)
	}

	log.Println("Starting with no airports")
	return NewIndex(nil)
}

func (l *Loader) fetch(ctx context.Context) ([]models.AirportRecord, error) {
	endpoint := fmt.Sprintf("%s/api/views/locate/5/airports/%s/active", l.config.BaseURL, l.config.Locale)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", l.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("airports: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}

	return ParseAirports(body)
}
