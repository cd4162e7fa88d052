package ecos

import (
	"context"
	"time"
)

// BlockingClient exposes the same operations as Client without a
// context.Context: every call performs its round-trip and returns only when
// the full response is available. It is a thin view over the shared session,
// so the two surfaces cannot diverge; a Client and the BlockingClient
// obtained from it share one token pair.
type BlockingClient struct {
	c *Client
}

// Blocking returns the blocking surface of the session.
func (c *Client) Blocking() *BlockingClient {
	return &BlockingClient{c: c}
}

// NewBlocking creates a session and returns its blocking surface.
func NewBlocking(opts ...Option) (*BlockingClient, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Blocking(), nil
}

// Client returns the context-aware surface of the same session.
func (b *BlockingClient) Client() *Client {
	return b.c
}

// BaseURL returns the resolved API base URL.
func (b *BlockingClient) BaseURL() string {
	return b.c.BaseURL()
}

// Tokens returns the current token pair.
func (b *BlockingClient) Tokens() Tokens {
	return b.c.Tokens()
}

// SetTokens replaces the token pair.
func (b *BlockingClient) SetTokens(t Tokens) {
	b.c.SetTokens(t)
}

// Login authenticates and stores the issued token pair on the session.
func (b *BlockingClient) Login(email, password string) error {
	return b.c.Login(context.Background(), email, password)
}

// GetUser returns the account details of the logged-in user.
func (b *BlockingClient) GetUser() (*User, error) {
	return b.c.GetUser(context.Background())
}

// GetHomes returns the homes of the account.
func (b *BlockingClient) GetHomes() ([]Home, error) {
	return b.c.GetHomes(context.Background())
}

// GetDevices returns the devices of a home.
func (b *BlockingClient) GetDevices(homeID string) ([]Device, error) {
	return b.c.GetDevices(context.Background(), homeID)
}

// GetAllDevices returns the devices of every home of the account.
func (b *BlockingClient) GetAllDevices() ([]Device, error) {
	return b.c.GetAllDevices(context.Background())
}

// GetTodayDeviceData returns the 5-minute power series of the current day.
func (b *BlockingClient) GetTodayDeviceData(deviceID string) (*PowerTimeseries, error) {
	return b.c.GetTodayDeviceData(context.Background(), deviceID)
}

// GetRealtimeHomeData returns the current power snapshot for a home.
func (b *BlockingClient) GetRealtimeHomeData(homeID string) (*HomeRuntime, error) {
	return b.c.GetRealtimeHomeData(context.Background(), homeID)
}

// GetRealtimeDeviceData returns the current power snapshot for a device.
func (b *BlockingClient) GetRealtimeDeviceData(deviceID string) (*DeviceRuntime, error) {
	return b.c.GetRealtimeDeviceData(context.Background(), deviceID)
}

// GetHistory returns aggregated home energy for a period.
func (b *BlockingClient) GetHistory(deviceID string, startDate time.Time, periodType int) (*History, error) {
	return b.c.GetHistory(context.Background(), deviceID, startDate, periodType)
}

// GetInsight returns energy metrics and statistics of a device for a period.
func (b *BlockingClient) GetInsight(deviceID string, startDate time.Time, periodType int) (*Insight, error) {
	return b.c.GetInsight(context.Background(), deviceID, startDate, periodType)
}
