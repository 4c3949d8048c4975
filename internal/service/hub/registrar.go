package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/zhouzirui/lingua-channel/internal/config"
	"github.com/zhouzirui/lingua-channel/internal/logging"
)

// ErrRegistrationRejected is returned when the hub answers with a non-200 status.
var ErrRegistrationRejected = errors.New("hub rejected channel registration")

// Registration is the payload advertised to the hub.
type Registration struct {
	Name          string `json:"name"`
	Endpoint      string `json:"endpoint"`
	AuthKey       string `json:"authkey"`
	TypeOfService string `json:"type_of_service"`
}

// Registrar announces this channel to the hub.
type Registrar struct {
	hub     config.HubConfig
	channel config.ChannelConfig
	client  *http.Client
	logger  *logging.Logger
}

// NewRegistrar builds a registrar; client may be nil.
func NewRegistrar(hub config.HubConfig, channel config.ChannelConfig, client *http.Client, logger *logging.Logger) *Registrar {
	if client == nil {
		client = &http.Client{Timeout: hub.Timeout}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Registrar{hub: hub, channel: channel, client: client, logger: logger}
}

// Register posts the channel identity to {hub}/channels, authorized with the
// hub key. It makes a single attempt.
func (r *Registrar) Register(ctx context.Context) error {
	payload, err := json.Marshal(Registration{
		Name:          r.channel.Name,
		Endpoint:      r.channel.Endpoint,
		AuthKey:       r.channel.AuthKey,
		TypeOfService: r.channel.TypeOfService,
	})
	if err != nil {
		return fmt.Errorf("failed to encode registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.hub.URL+"/channels", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build registration request: %w", err)
	}
	req.Header.Set("Authorization", "authkey "+r.hub.AuthKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach hub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		r.logger.Errorf("[hub] error creating channel: %d %s", resp.StatusCode, bytes.TrimSpace(body))
		return fmt.Errorf("%w: status %d", ErrRegistrationRejected, resp.StatusCode)
	}

	r.logger.Infof("[hub] registered channel name=%q endpoint=%s", r.channel.Name, r.channel.Endpoint)
	return nil
}
