package hub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zhouzirui/lingua-channel/internal/config"
)

func testConfigs(url string) (config.HubConfig, config.ChannelConfig) {
	return config.HubConfig{URL: url, AuthKey: "hub-secret", Timeout: time.Second},
		config.ChannelConfig{Name: "Chan", Endpoint: "http://localhost:5001", AuthKey: "chan-secret", TypeOfService: "aiweb24:chat"}
}

func TestRegisterSendsIdentityWithHubKey(t *testing.T) {
	var got Registration
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/channels" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "authkey hub-secret" {
			t.Errorf("unexpected authorization %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode err: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	hubCfg, chanCfg := testConfigs(srv.URL)
	if err := NewRegistrar(hubCfg, chanCfg, srv.Client(), nil).Register(context.Background()); err != nil {
		t.Fatalf("Register err: %v", err)
	}

	want := Registration{Name: "Chan", Endpoint: "http://localhost:5001", AuthKey: "chan-secret", TypeOfService: "aiweb24:chat"}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestRegisterNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()

	hubCfg, chanCfg := testConfigs(srv.URL)
	err := NewRegistrar(hubCfg, chanCfg, nil, nil).Register(context.Background())
	if !errors.Is(err, ErrRegistrationRejected) {
		t.Fatalf("expected ErrRegistrationRejected, got %v", err)
	}
}

func TestRegisterUnreachable(t *testing.T) {
	hubCfg, chanCfg := testConfigs("http://127.0.0.1:1")
	if err := NewRegistrar(hubCfg, chanCfg, nil, nil).Register(context.Background()); err == nil {
		t.Fatal("expected error for unreachable hub")
	}
}
