package feishu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testConfig() Config {
	return Config{
		AppID:        "cli_test",
		AppSecret:    "secret",
		BaseAppToken: "bascnTest",
		TableID:      "tblTest",
		RawTextField: "原始OCR文本",
	}
}

func TestCreateRecord(t *testing.T) {
	// Arrange
	var gotAuth string
	var gotFields map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/open-apis/auth/v3/tenant_access_token/internal":
			var req map[string]string
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decoding token request: %v", err)
			}
			if req["app_id"] != "cli_test" || req["app_secret"] != "secret" {
				t.Errorf("unexpected credentials: %v", req)
			}
			json.NewEncoder(w).Encode(map[string]any{"code": 0, "tenant_access_token": "t-abc"})
		case "/open-apis/bitable/v1/apps/bascnTest/tables/tblTest/records":
			gotAuth = r.Header.Get("Authorization")
			var req struct {
				Fields map[string]any `json:"fields"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decoding record request: %v", err)
			}
			gotFields = req.Fields
			json.NewEncoder(w).Encode(map[string]any{
				"code": 0,
				"data": map[string]any{"record": map[string]any{"record_id": "recXYZ"}},
			})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig())
	client.baseURL = server.URL

	// Act
	recordID, err := client.CreateRecord(context.Background(), "灯带 3.4 米\n价格 3.8 元")

	// Assert
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}
	if recordID != "recXYZ" {
		t.Errorf("expected record ID recXYZ, got %q", recordID)
	}
	if gotAuth != "Bearer t-abc" {
		t.Errorf("expected Bearer token header, got %q", gotAuth)
	}
	if gotFields["原始OCR文本"] != "灯带 3.4 米\n价格 3.8 元" {
		t.Errorf("expected raw text field, got %v", gotFields)
	}
}

func TestCreateRecord_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/open-apis/auth/v3/tenant_access_token/internal" {
			json.NewEncoder(w).Encode(map[string]any{"code": 0, "tenant_access_token": "t-abc"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"code": 1254043, "msg": "FieldNameNotFound"})
	}))
	defer server.Close()

	client := NewClient(testConfig())
	client.baseURL = server.URL

	_, err := client.CreateRecord(context.Background(), "text")
	if err == nil {
		t.Fatalf("expected error for non-zero code, got none")
	}
}

func TestTenantAccessToken_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": 10003, "msg": "invalid app_secret"})
	}))
	defer server.Close()

	client := NewClient(testConfig())
	client.baseURL = server.URL

	_, err := client.TenantAccessToken(context.Background())
	if err == nil {
		t.Fatalf("expected error for rejected credentials, got none")
	}
}

func TestConfigFromEnv_Missing(t *testing.T) {
	for _, key := range []string{"FEISHU_APP_ID", "FEISHU_APP_SECRET", "FEISHU_BASE_APP_TOKEN", "FEISHU_TABLE_ID", "FEISHU_RAW_TEXT_FIELD"} {
		t.Setenv(key, "")
	}

	if _, err := ConfigFromEnv(); err == nil {
		t.Errorf("expected error for empty environment, got none")
	}
}

func TestConfigFromEnv_Complete(t *testing.T) {
	t.Setenv("FEISHU_APP_ID", "cli_test")
	t.Setenv("FEISHU_APP_SECRET", "secret")
	t.Setenv("FEISHU_BASE_APP_TOKEN", "bascnTest")
	t.Setenv("FEISHU_TABLE_ID", "tblTest")
	t.Setenv("FEISHU_RAW_TEXT_FIELD", "原始OCR文本")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}
	if cfg.TableID != "tblTest" || cfg.RawTextField != "原始OCR文本" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}
