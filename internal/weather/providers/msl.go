package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/mars-weather/internal/mars"
	"github.com/i474232898/mars-weather/internal/weather"
)

// DefaultMSLFeedURL is the Curiosity REMS weather feed.
const DefaultMSLFeedURL = "https://mars.nasa.gov/rss/api/?feed=weather&category=msl&feedtype=json"

// ErrEmptyFeed is returned when the feed decodes but holds no usable sol.
var ErrEmptyFeed = errors.New("feed contains no usable sols")

var validate = validator.New()

// rawSole mirrors one entry of the feed's "soles" array. Every value arrives as
// a string; unused fields are ignored.
type rawSole struct {
	ID              string `json:"id"`
	TerrestrialDate string `json:"terrestrial_date" validate:"omitempty,datetime=2006-01-02"`
	Sol             string `json:"sol" validate:"required"`
	MinTemp         string `json:"min_temp"`
	MaxTemp         string `json:"max_temp"`
	Sunrise         string `json:"sunrise" validate:"omitempty,datetime=15:04"`
	Sunset          string `json:"sunset" validate:"omitempty,datetime=15:04"`
}

type rawFeed struct {
	Soles []rawSole `json:"soles"`
}

// MSLProvider implements the weather.Fetcher interface for the Curiosity feed.
type MSLProvider struct {
	name    string
	feedURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewMSLProvider(client *http.Client, feedURL string, logger *zap.Logger) *MSLProvider {
	if feedURL == "" {
		feedURL = DefaultMSLFeedURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MSLProvider{
		name:    "msl-rems",
		feedURL: feedURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newCircuitBreaker("msl-rems"),
		logger:  logger.Named("msl"),
	}
}

// WithBackoff overrides the retry policy.
func (p *MSLProvider) WithBackoff(b BackoffConfig) *MSLProvider {
	p.httpCfg.Backoff = b
	return p
}

func (p *MSLProvider) Name() string {
	return p.name
}

func (p *MSLProvider) Fetch(ctx context.Context) (map[mars.Sol]weather.Reading, error) {
	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, p.feedURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload rawFeed
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	readings := make(map[mars.Sol]weather.Reading, len(payload.Soles))
	for i, raw := range payload.Soles {
		r, err := raw.toReading()
		if err != nil {
			p.logger.Warn("skipping feed record",
				zap.Int("index", i),
				zap.String("id", raw.ID),
				zap.Error(err),
			)
			continue
		}
		// Later duplicates win.
		readings[r.Sol] = r
	}

	if len(readings) == 0 {
		return nil, ErrEmptyFeed
	}
	return readings, nil
}

func (raw rawSole) toReading() (weather.Reading, error) {
	if err := validate.Struct(raw); err != nil {
		return weather.Reading{}, err
	}

	sol, err := strconv.ParseInt(strings.TrimSpace(raw.Sol), 10, 64)
	if err != nil {
		return weather.Reading{}, fmt.Errorf("sol %q: %w", raw.Sol, err)
	}

	return weather.Reading{
		Sol:             mars.Sol(sol),
		MinTemp:         parseOptionalInt(raw.MinTemp),
		MaxTemp:         parseOptionalInt(raw.MaxTemp),
		Sunrise:         raw.Sunrise,
		Sunset:          raw.Sunset,
		ID:              raw.ID,
		TerrestrialDate: raw.TerrestrialDate,
	}, nil
}

// parseOptionalInt maps anything that is not an integer (the feed uses "--")
// to nil.
func parseOptionalInt(s string) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
