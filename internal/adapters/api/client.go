package api

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/avelardi/polisbot/internal/application/common"
	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
	"github.com/avelardi/polisbot/internal/infrastructure/config"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = time.Second
)

// PolisClient implements common.GameClient against the game's AJAX
// endpoints. All requests go through one authenticated session, throttled
// so the bot stays under the server's radar.
type PolisClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	cookie      string
	maxRetries  int
	backoffBase time.Duration
}

// NewPolisClient creates a game client from configuration.
func NewPolisClient(cfg *config.GameConfig) *PolisClient {
	jar, _ := cookiejar.New(nil)
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	retries := cfg.MaxRetries
	if retries == 0 {
		retries = defaultMaxRetries
	}
	return &PolisClient{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 1),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		cookie:      cfg.SessionCookie,
		maxRetries:  retries,
		backoffBase: defaultBackoffBase,
	}
}

// ListCities returns the player's own cities, parsed from the related-city
// data embedded in the city view.
func (c *PolisClient) ListCities(ctx context.Context) ([]common.CityRef, error) {
	html, err := c.get(ctx, "/index.php?view=city")
	if err != nil {
		return nil, err
	}
	cities, err := parseOwnCities(html)
	if err != nil {
		return nil, err
	}
	if len(cities) == 0 {
		return nil, shared.NewDataError("no own cities in city view response")
	}
	return cities, nil
}

// ListBuildings returns the production buildings in one city's overview.
func (c *PolisClient) ListBuildings(ctx context.Context, cityID int) ([]common.BuildingRef, error) {
	html, err := c.get(ctx, fmt.Sprintf("/index.php?view=city&cityId=%d", cityID))
	if err != nil {
		return nil, err
	}
	return parseCityBuildings(html, cityID)
}

// GetBuildingDetail fetches one building's view and decodes its cost
// table, action token and queue state.
func (c *PolisClient) GetBuildingDetail(ctx context.Context, ref common.BuildingRef) (*recruitment.Building, error) {
	body, err := c.get(ctx, fmt.Sprintf(
		"/index.php?view=%s&cityId=%d&position=%d&backgroundView=city&currentCityId=%d&ajax=1",
		ref.Kind, ref.CityID, ref.Position, ref.CityID))
	if err != nil {
		return nil, err
	}

	envelope, err := decodeEnvelope(body)
	if err != nil {
		return nil, shared.NewTransportError("decoding building response", err)
	}

	building := &recruitment.Building{
		CityID:         ref.CityID,
		CityName:       ref.CityName,
		Position:       ref.Position,
		Kind:           ref.Kind,
		Level:          ref.Level,
		IsBusy:         ref.IsBusy,
		QueueRemaining: envelope.QueueRemaining(),
		Units:          map[int]recruitment.UnitType{},
		ActionToken:    envelope.ActionToken(),
		TokenFresh:     envelope.ActionToken() != "",
	}

	units, err := envelope.SliderUnits(string(ref.Kind))
	if err != nil {
		return nil, err
	}
	building.Units = units

	return building, nil
}

// GetCitySnapshot reads the city's current resources and citizen count.
func (c *PolisClient) GetCitySnapshot(ctx context.Context, cityID int) (shared.ResourceSet, error) {
	html, err := c.get(ctx, fmt.Sprintf("/index.php?view=city&cityId=%d", cityID))
	if err != nil {
		return shared.ResourceSet{}, err
	}
	return parseCitySnapshot(html)
}

// GetGrowthRate scrapes the citizen growth per hour from the town hall
// view. Position 0 is always the town hall. Returns 0 when no pattern
// matches; the caller treats that as unknown.
func (c *PolisClient) GetGrowthRate(ctx context.Context, cityID int) (float64, error) {
	body, err := c.get(ctx, fmt.Sprintf(
		"/index.php?view=townHall&cityId=%d&position=0&backgroundView=city&currentCityId=%d&ajax=1",
		cityID, cityID))
	if err != nil {
		return 0, err
	}

	envelope, err := decodeEnvelope(body)
	if err != nil {
		return 0, shared.NewTransportError("decoding town hall response", err)
	}
	return extractGrowthRate(envelope), nil
}

// SubmitOrder posts one recruitment order. The game sends no structured
// confirmation; success is the absence of a transport error.
func (c *PolisClient) SubmitOrder(ctx context.Context, cityID, position int, token string, units map[int]int) error {
	form := url.Values{}
	form.Set("action", "BuildUnits")
	form.Set("actionRequest", token)
	form.Set("cityId", strconv.Itoa(cityID))
	form.Set("position", strconv.Itoa(position))
	for unitID, qty := range units {
		form.Set(strconv.Itoa(unitID), strconv.Itoa(qty))
	}

	_, err := c.post(ctx, "/index.php", form)
	return err
}

// Logout releases the game session.
func (c *PolisClient) Logout(ctx context.Context) error {
	_, err := c.get(ctx, "/index.php?action=logout")
	return err
}

func (c *PolisClient) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *PolisClient) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, form)
}

// do performs one rate-limited request with retries and exponential
// backoff plus jitter on transient failures.
func (c *PolisClient) do(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.backoffBase * time.Duration(1<<(attempt-1))
			jitter := time.Duration(rand.Int63n(int64(c.backoffBase)))
			select {
			case <-time.After(backoff + jitter):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		var bodyReader io.Reader
		if form != nil {
			bodyReader = strings.NewReader(form.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return nil, shared.NewTransportError("building request", err)
		}
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		if c.cookie != "" {
			req.Header.Set("Cookie", c.cookie)
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, shared.NewTransportError(
				fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, path), nil)
		}

		return body, nil
	}

	return nil, shared.NewTransportError(
		fmt.Sprintf("request failed after %d attempts", c.maxRetries+1), lastErr)
}
