package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "https://open.feishu.cn"

// Config holds the Bitable target. RawTextField must match the column name
// in the table exactly, otherwise the API rejects the record.
type Config struct {
	AppID        string
	AppSecret    string
	BaseAppToken string // Base ID / app_token
	TableID      string // tblxxx
	RawTextField string
}

// ConfigFromEnv reads the FEISHU_* variables. Call godotenv.Load first if a
// .env file is used.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		AppID:        os.Getenv("FEISHU_APP_ID"),
		AppSecret:    os.Getenv("FEISHU_APP_SECRET"),
		BaseAppToken: os.Getenv("FEISHU_BASE_APP_TOKEN"),
		TableID:      os.Getenv("FEISHU_TABLE_ID"),
		RawTextField: os.Getenv("FEISHU_RAW_TEXT_FIELD"),
	}

	missing := ""
	switch {
	case cfg.AppID == "":
		missing = "FEISHU_APP_ID"
	case cfg.AppSecret == "":
		missing = "FEISHU_APP_SECRET"
	case cfg.BaseAppToken == "":
		missing = "FEISHU_BASE_APP_TOKEN"
	case cfg.TableID == "":
		missing = "FEISHU_TABLE_ID"
	case cfg.RawTextField == "":
		missing = "FEISHU_RAW_TEXT_FIELD"
	}
	if missing != "" {
		return Config{}, fmt.Errorf("feishu config: %s is not set", missing)
	}

	return cfg, nil
}

type Client struct {
	cfg     Config
	baseURL string
	client  *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:     cfg,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type tokenRequest struct {
	AppID     string `json:"app_id"`
	AppSecret string `json:"app_secret"`
}

type tokenResponse struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
}

// TenantAccessToken fetches a short-lived tenant token. Every table call
// needs one; the token is not cached because uploads happen in one burst
// right after a run.
func (c *Client) TenantAccessToken(ctx context.Context) (string, error) {
	url := c.baseURL + "/open-apis/auth/v3/tenant_access_token/internal"

	var resp tokenResponse
	if err := c.postJSON(ctx, url, "", tokenRequest{AppID: c.cfg.AppID, AppSecret: c.cfg.AppSecret}, &resp); err != nil {
		return "", fmt.Errorf("requesting tenant_access_token: %w", err)
	}
	if resp.Code != 0 {
		return "", fmt.Errorf("tenant_access_token request failed: code=%d msg=%s", resp.Code, resp.Msg)
	}

	return resp.TenantAccessToken, nil
}

type createRecordRequest struct {
	Fields map[string]any `json:"fields"`
}

type createRecordResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Record struct {
			RecordID string `json:"record_id"`
		} `json:"record"`
	} `json:"data"`
}

// CreateRecord appends one row to the Bitable with only the raw OCR text
// filled in. AI columns configured on the table pick it up from there.
func (c *Client) CreateRecord(ctx context.Context, rawText string) (string, error) {
	token, err := c.TenantAccessToken(ctx)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/open-apis/bitable/v1/apps/%s/tables/%s/records", c.baseURL, c.cfg.BaseAppToken, c.cfg.TableID)
	req := createRecordRequest{Fields: map[string]any{c.cfg.RawTextField: rawText}}

	var resp createRecordResponse
	if err := c.postJSON(ctx, url, token, req, &resp); err != nil {
		return "", fmt.Errorf("creating record: %w", err)
	}
	if resp.Code != 0 {
		return "", fmt.Errorf("creating record failed: code=%d msg=%s", resp.Code, resp.Msg)
	}

	return resp.Data.Record.RecordID, nil
}

func (c *Client) postJSON(ctx context.Context, url, token string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshaling response: %w", err)
	}

	return nil
}
