package nhl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/retry"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL   = "https://statsapi.web.nhl.com/api/v1"
	DefaultUserAgent = "Mozilla/5.0 (compatible; GoalieService/1.0)"
)

// ErrUpstream marks every failure to fetch or decode an upstream resource
var ErrUpstream = errors.New("upstream fetch failed")

// Options configures the NHL API client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Retry     *retry.Policy
	Logger    logrus.FieldLogger
}

// Client handles NHL stats API requests
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	retry      *retry.Policy
	logger     logrus.FieldLogger
}

// New creates a new NHL API client
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Retry == nil {
		opts.Retry = retry.NewPolicy(1, 0)
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	return &Client{
		baseURL: opts.BaseURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent: opts.UserAgent,
		retry:     opts.Retry,
		logger:    opts.Logger.WithField("component", "nhl"),
	}
}

// FetchSchedule fetches the schedule for a date.
// If date is zero, fetches whatever the API considers "today".
func (c *Client) FetchSchedule(ctx context.Context, date time.Time) (*ScheduleResponse, error) {
	endpoint := c.baseURL + "/schedule"
	if !date.IsZero() {
		endpoint += "?date=" + date.Format("2006-01-02")
	}

	var out ScheduleResponse
	if err := c.fetch(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchBoxscore fetches a game's boxscore
func (c *Client) FetchBoxscore(ctx context.Context, gamePk int64) (*BoxscoreResponse, error) {
	endpoint := fmt.Sprintf("%s/game/%d/boxscore", c.baseURL, gamePk)

	var out BoxscoreResponse
	if err := c.fetch(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchGameLog fetches a player's season game log.
// An empty season asks for the current one.
func (c *Client) FetchGameLog(ctx context.Context, playerID int64, season string) (*GameLogResponse, error) {
	q := url.Values{}
	q.Set("stats", "gameLog")
	if season != "" {
		q.Set("season", season)
	}
	endpoint := fmt.Sprintf("%s/people/%d/stats?%s", c.baseURL, playerID, q.Encode())

	var out GameLogResponse
	if err := c.fetch(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchLiveFeed fetches a game's full play-by-play feed
func (c *Client) FetchLiveFeed(ctx context.Context, gamePk int64) (*LiveFeedResponse, error) {
	endpoint := fmt.Sprintf("%s/game/%d/feed/live", c.baseURL, gamePk)

	var out LiveFeedResponse
	if err := c.fetch(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// fetch makes an HTTP GET request and decodes the JSON body into dest
func (c *Client) fetch(ctx context.Context, endpoint string, dest interface{}) error {
	start := time.Now()

	err := c.retry.Execute(ctx, func() error {
		return c.get(ctx, endpoint, dest)
	})

	entry := c.logger.WithFields(logrus.Fields{
		"url":         endpoint,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Debug("upstream request failed")
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	entry.Debug("upstream request ok")

	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("NHL API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
