// Package api is the HTTP adapter for the live platform's heartbeat,
// sign-in, treasure-box and event-room endpoints. It speaks two surfaces:
// signed client-app requests authenticated by an access token, and web
// requests authenticated by a browsing-session cookie.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/bilive-keeper/internal/domain"
	"github.com/bnema/bilive-keeper/internal/ports"
)

const (
	defaultBaseURL        = "https://api.live.bilibili.com"
	defaultRequestTimeout = 30 * time.Second
	maxResponseBytes      = 1 << 20

	defaultAppKey    = "1d8b6e7d45233436"
	defaultAppSecret = "560c52ccd288fed045859ed18bffd973"
	defaultBuild     = "5130400"
)

type Config struct {
	BaseURL        string
	AppKey         string
	AppSecret      string
	HTTPClient     *http.Client
	RequestTimeout time.Duration

	// HeartbeatRoomID is the room reported by the token heartbeat; the
	// endpoint requires one even when nobody is watching a room.
	HeartbeatRoomID int64
}

type Client struct {
	baseURL         string
	appKey          string
	appSecret       string
	httpClient      *http.Client
	requestTimeout  time.Duration
	heartbeatRoomID int64
}

var _ ports.LiveClient = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return nil, errors.New("api base url host is required")
	}

	appKey := cfg.AppKey
	if appKey == "" {
		appKey = defaultAppKey
	}
	appSecret := cfg.AppSecret
	if appSecret == "" {
		appSecret = defaultAppSecret
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	heartbeatRoomID := cfg.HeartbeatRoomID
	if heartbeatRoomID <= 0 {
		heartbeatRoomID = 23058
	}

	return &Client{
		baseURL:         baseURL,
		appKey:          appKey,
		appSecret:       appSecret,
		httpClient:      httpClient,
		requestTimeout:  requestTimeout,
		heartbeatRoomID: heartbeatRoomID,
	}, nil
}

func (c *Client) SessionHeartbeat(ctx context.Context, s domain.Session) (domain.HeartbeatReply, error) {
	var env heartEnvelope
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/User/userOnlineHeart", s.Cookie, "", &env); err != nil {
		return domain.HeartbeatReply{}, fmt.Errorf("session heartbeat: %w", err)
	}

	return domain.HeartbeatReply{Code: env.Code, Msg: env.Msg}, nil
}

func (c *Client) TokenHeartbeat(ctx context.Context, s domain.Session) (domain.HeartbeatReply, error) {
	body := fmt.Sprintf("room_id=%d&scale=xxhdpi", c.heartbeatRoomID)

	var env heartEnvelope
	if err := c.do(ctx, http.MethodPost, c.signedURL("/mobile/userOnlineHeart", s), "", body, &env); err != nil {
		return domain.HeartbeatReply{}, fmt.Errorf("token heartbeat: %w", err)
	}

	return domain.HeartbeatReply{Code: env.Code, Msg: env.Msg}, nil
}

func (c *Client) SignInfo(ctx context.Context, s domain.Session) (domain.SignInfo, error) {
	var env signInfoEnvelope
	if err := c.do(ctx, http.MethodGet, c.signedURL("/AppUser/getSignInfo", s), "", "", &env); err != nil {
		return domain.SignInfo{}, fmt.Errorf("sign info: %w", err)
	}

	return domain.SignInfo{
		Code:        env.Code,
		Status:      env.Data.Status,
		HadSignDays: env.Data.HadSignDays,
	}, nil
}

func (c *Client) CurrentTask(ctx context.Context, s domain.Session) (domain.ClaimTask, error) {
	var env taskEnvelope
	if err := c.do(ctx, http.MethodGet, c.signedURL("/mobile/freeSilverCurrentTask", s), "", "", &env); err != nil {
		return domain.ClaimTask{}, fmt.Errorf("current task: %w", err)
	}

	return env.task(), nil
}

func (c *Client) ClaimAward(ctx context.Context, s domain.Session) (domain.AwardReply, error) {
	var env awardEnvelope
	if err := c.do(ctx, http.MethodGet, c.signedURL("/mobile/freeSilverAward", s), "", "", &env); err != nil {
		return domain.AwardReply{}, fmt.Errorf("claim award: %w", err)
	}

	return env.award(), nil
}

func (c *Client) CurrentTaskWeb(ctx context.Context, s domain.Session) (domain.ClaimTask, error) {
	target := fmt.Sprintf("%s/FreeSilver/getCurrentTask?_=%d", c.baseURL, time.Now().UnixMilli())

	var env taskEnvelope
	if err := c.do(ctx, http.MethodGet, target, s.Cookie, "", &env); err != nil {
		return domain.ClaimTask{}, fmt.Errorf("current task: %w", err)
	}

	return env.task(), nil
}

func (c *Client) CaptchaImage(ctx context.Context, s domain.Session) ([]byte, error) {
	target := fmt.Sprintf("%s/freeSilver/getCaptcha?ts=%d", c.baseURL, time.Now().UnixMilli())

	image, err := c.doRaw(ctx, http.MethodGet, target, s.Cookie, "")
	if err != nil {
		return nil, fmt.Errorf("captcha image: %w", err)
	}
	if len(image) == 0 {
		return nil, errors.New("captcha image: empty response")
	}

	return image, nil
}

func (c *Client) ClaimAwardWeb(ctx context.Context, s domain.Session, task domain.ClaimTask, answer int) (domain.AwardReply, error) {
	query := url.Values{}
	query.Set("time_start", strconv.FormatInt(task.TimeStart, 10))
	query.Set("time_end", strconv.FormatInt(task.TimeEnd, 10))
	query.Set("captcha", strconv.Itoa(answer))
	query.Set("_", strconv.FormatInt(time.Now().UnixMilli(), 10))

	var env awardEnvelope
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/FreeSilver/getAward?"+query.Encode(), s.Cookie, "", &env); err != nil {
		return domain.AwardReply{}, fmt.Errorf("claim award: %w", err)
	}

	return env.award(), nil
}

func (c *Client) RoomInfo(ctx context.Context, id domain.RoomID) (domain.RoomInfo, error) {
	target := fmt.Sprintf("%s/live/getInfo?roomid=%d", c.baseURL, int64(id))

	var env roomEnvelope
	if err := c.do(ctx, http.MethodGet, target, "", "", &env); err != nil {
		return domain.RoomInfo{}, fmt.Errorf("room info: %w", err)
	}

	return domain.RoomInfo{Code: env.Code, MasterID: env.Data.MasterID}, nil
}

func (c *Client) EventIndex(ctx context.Context, s domain.Session, masterID int64) (domain.EventIndex, error) {
	target := fmt.Sprintf("%s/eventRoom/index?ruid=%d", c.baseURL, masterID)

	var env eventIndexEnvelope
	if err := c.do(ctx, http.MethodGet, target, s.Cookie, "", &env); err != nil {
		return domain.EventIndex{}, fmt.Errorf("event index: %w", err)
	}

	return domain.EventIndex{
		Code:      env.Code,
		Heart:     env.Data.Heart,
		HeartTime: env.Data.HeartTime,
	}, nil
}

func (c *Client) EventHeartbeat(ctx context.Context, s domain.Session, id domain.RoomID) (domain.EventHeartReply, error) {
	target := fmt.Sprintf("%s/eventRoom/heart?roomid=%d", c.baseURL, int64(id))

	var env eventHeartEnvelope
	if err := c.do(ctx, http.MethodPost, target, s.Cookie, "", &env); err != nil {
		return domain.EventHeartReply{}, fmt.Errorf("event heartbeat: %w", err)
	}

	return domain.EventHeartReply{Code: env.Code, Heart: env.Data.Heart}, nil
}

// signedURL builds a client-app URL: the account's access token plus the
// app identity parameters, signed with the app secret.
func (c *Client) signedURL(path string, s domain.Session) string {
	values := url.Values{}
	values.Set("access_key", s.AccessToken)
	values.Set("actionKey", "appkey")
	values.Set("appkey", c.appKey)
	values.Set("build", defaultBuild)
	values.Set("device", "android")
	values.Set("mobi_app", "android")
	values.Set("platform", "android")
	values.Set("ts", strconv.FormatInt(time.Now().Unix(), 10))

	return c.baseURL + path + "?" + signQuery(values, c.appSecret)
}

func (c *Client) do(ctx context.Context, method, target, cookie, body string, out any) error {
	payload, err := c.doRaw(ctx, method, target, cookie, body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) doRaw(ctx context.Context, method, target, cookie, body string) ([]byte, error) {
	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(requestCtx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return payload, nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.requestTimeout)
}
