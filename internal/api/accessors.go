// internal/api/accessors.go
//
// One typed method per backend operation. Each returns the envelope the
// endpoint produces; list accessors build their query strings from the
// documented filter keys only, omitting unset values.

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// AuthResponse is the payload of login and register.
type AuthResponse struct {
	User         User   `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse is the payload of a token refresh.
type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Authentication

func (c *Client) Login(ctx context.Context, username, password string) (Envelope[AuthResponse], error) {
	body := map[string]string{"username": username, "password": password}
	return request[AuthResponse](c, ctx, http.MethodPost, "/auth/login", nil, body)
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (Envelope[AuthResponse], error) {
	return request[AuthResponse](c, ctx, http.MethodPost, "/auth/register", nil, req)
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (Envelope[RefreshResponse], error) {
	body := map[string]string{"refreshToken": refreshToken}
	return request[RefreshResponse](c, ctx, http.MethodPost, "/auth/refresh", nil, body)
}

func (c *Client) LogoutRemote(ctx context.Context) (Envelope[struct{}], error) {
	return request[struct{}](c, ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// User profile

func (c *Client) Profile(ctx context.Context) (Envelope[User], error) {
	return request[User](c, ctx, http.MethodGet, "/user/profile", nil, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, update User) (Envelope[User], error) {
	return request[User](c, ctx, http.MethodPut, "/user/profile", nil, update)
}

// Jobs

// JobFilter holds the documented job list filters. Zero values are omitted
// from the query string.
type JobFilter struct {
	Status   JobStatus
	Priority JobPriority
	Search   string
	Page     int
	Limit    int
}

func (f JobFilter) query() url.Values {
	q := url.Values{}
	setString(q, "status", string(f.Status))
	setString(q, "priority", string(f.Priority))
	setString(q, "search", f.Search)
	setInt(q, "page", f.Page)
	setInt(q, "limit", f.Limit)
	return q
}

func (c *Client) Jobs(ctx context.Context, filter JobFilter) (Envelope[Page[Job]], error) {
	return request[Page[Job]](c, ctx, http.MethodGet, "/jobs", filter.query(), nil)
}

func (c *Client) Job(ctx context.Context, id string) (Envelope[Job], error) {
	return request[Job](c, ctx, http.MethodGet, "/jobs/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateJob(ctx context.Context, req CreateJobRequest) (Envelope[Job], error) {
	return request[Job](c, ctx, http.MethodPost, "/jobs", nil, req)
}

func (c *Client) AcceptJob(ctx context.Context, id string) (Envelope[Job], error) {
	return request[Job](c, ctx, http.MethodPost, "/jobs/"+url.PathEscape(id)+"/accept", nil, nil)
}

func (c *Client) CancelJob(ctx context.Context, id string) (Envelope[Job], error) {
	return request[Job](c, ctx, http.MethodPost, "/jobs/"+url.PathEscape(id)+"/cancel", nil, nil)
}

// Nodes

func (c *Client) Nodes(ctx context.Context) (Envelope[[]Node], error) {
	return request[[]Node](c, ctx, http.MethodGet, "/nodes", nil, nil)
}

func (c *Client) Node(ctx context.Context, id string) (Envelope[Node], error) {
	return request[Node](c, ctx, http.MethodGet, "/nodes/"+url.PathEscape(id), nil, nil)
}

func (c *Client) RegisterNode(ctx context.Context, req RegisterNodeRequest) (Envelope[Node], error) {
	return request[Node](c, ctx, http.MethodPost, "/nodes", nil, req)
}

func (c *Client) UpdateNode(ctx context.Context, id string, update Node) (Envelope[Node], error) {
	return request[Node](c, ctx, http.MethodPut, "/nodes/"+url.PathEscape(id), nil, update)
}

func (c *Client) DeleteNode(ctx context.Context, id string) (Envelope[struct{}], error) {
	return request[struct{}](c, ctx, http.MethodDelete, "/nodes/"+url.PathEscape(id), nil, nil)
}

// Metrics

func (c *Client) Metrics(ctx context.Context, timeframe string) (Envelope[NetworkMetrics], error) {
	return request[NetworkMetrics](c, ctx, http.MethodGet, "/metrics", timeframeQuery(timeframe, "24h"), nil)
}

func (c *Client) NodeMetrics(ctx context.Context, nodeID, timeframe string) (Envelope[NodeMetrics], error) {
	path := "/nodes/" + url.PathEscape(nodeID) + "/metrics"
	return request[NodeMetrics](c, ctx, http.MethodGet, path, timeframeQuery(timeframe, "24h"), nil)
}

// Achievements

func (c *Client) Achievements(ctx context.Context) (Envelope[[]Achievement], error) {
	return request[[]Achievement](c, ctx, http.MethodGet, "/achievements", nil, nil)
}

func (c *Client) UserAchievements(ctx context.Context) (Envelope[[]UserAchievement], error) {
	return request[[]UserAchievement](c, ctx, http.MethodGet, "/user/achievements", nil, nil)
}

// Insights

func (c *Client) Insights(ctx context.Context, timeframe string) (Envelope[[]Insight], error) {
	return request[[]Insight](c, ctx, http.MethodGet, "/insights", timeframeQuery(timeframe, "7d"), nil)
}

// Wallet

func (c *Client) Wallet(ctx context.Context) (Envelope[Wallet], error) {
	return request[Wallet](c, ctx, http.MethodGet, "/wallet", nil, nil)
}

// TransactionFilter holds the documented transaction list filters.
type TransactionFilter struct {
	Type  TransactionType
	Page  int
	Limit int
}

func (f TransactionFilter) query() url.Values {
	q := url.Values{}
	setString(q, "type", string(f.Type))
	setInt(q, "page", f.Page)
	setInt(q, "limit", f.Limit)
	return q
}

func (c *Client) Transactions(ctx context.Context, filter TransactionFilter) (Envelope[Page[Transaction]], error) {
	return request[Page[Transaction]](c, ctx, http.MethodGet, "/wallet/transactions", filter.query(), nil)
}

func (c *Client) Withdraw(ctx context.Context, amount float64, address string) (Envelope[Transaction], error) {
	return request[Transaction](c, ctx, http.MethodPost, "/wallet/withdraw", nil, WithdrawRequest{Amount: amount, Address: address})
}

// Settings

func (c *Client) Settings(ctx context.Context) (Envelope[UserSettings], error) {
	return request[UserSettings](c, ctx, http.MethodGet, "/user/settings", nil, nil)
}

func (c *Client) UpdateSettings(ctx context.Context, settings UserSettings) (Envelope[UserSettings], error) {
	return request[UserSettings](c, ctx, http.MethodPut, "/user/settings", nil, settings)
}

// Notifications

// NotificationFilter holds the documented notification list filters.
// Unread is tri-state so "false" is distinguishable from unset.
type NotificationFilter struct {
	Page   int
	Limit  int
	Unread *bool
}

func (f NotificationFilter) query() url.Values {
	q := url.Values{}
	setInt(q, "page", f.Page)
	setInt(q, "limit", f.Limit)
	if f.Unread != nil {
		q.Set("unread", strconv.FormatBool(*f.Unread))
	}
	return q
}

func (c *Client) Notifications(ctx context.Context, filter NotificationFilter) (Envelope[Page[Notification]], error) {
	return request[Page[Notification]](c, ctx, http.MethodGet, "/notifications", filter.query(), nil)
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) (Envelope[struct{}], error) {
	return request[struct{}](c, ctx, http.MethodPost, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) (Envelope[struct{}], error) {
	return request[struct{}](c, ctx, http.MethodPost, "/notifications/read-all", nil, nil)
}

func setString(q url.Values, key, value string) {
	if strings.TrimSpace(value) != "" {
		q.Set(key, value)
	}
}

func setInt(q url.Values, key string, value int) {
	if value > 0 {
		q.Set(key, strconv.Itoa(value))
	}
}

func timeframeQuery(timeframe, fallback string) url.Values {
	if strings.TrimSpace(timeframe) == "" {
		timeframe = fallback
	}
	q := url.Values{}
	q.Set("timeframe", timeframe)
	return q
}
