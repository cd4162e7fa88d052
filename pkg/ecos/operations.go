package ecos

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gmasse/ecos-go/pkg/log"
)

// GetUser returns the account details of the logged-in user.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	log.Ctx(ctx).DebugContext(ctx, "getting ecos user")
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	var user User
	if err := c.invoke(ctx, http.MethodGet, "/api/client/settings/user/info", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetHomes returns the homes of the account. The virtual shared-devices home
// (homeType 0) always carries the SharedDevicesName display name.
func (c *Client) GetHomes(ctx context.Context) ([]Home, error) {
	log.Ctx(ctx).DebugContext(ctx, "getting ecos home list")
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	var homes []Home
	if err := c.invoke(ctx, http.MethodGet, "/api/client/v2/home/family/query", nil, &homes); err != nil {
		return nil, err
	}
	return homes, nil
}

// GetDevices returns the devices of a home. An unknown home id surfaces as
// *HomeDoesNotExistError.
func (c *Client) GetDevices(ctx context.Context, homeID string) ([]Device, error) {
	log.Ctx(ctx).DebugContext(ctx, "getting ecos devices", slog.String("homeID", homeID))
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	var devices []Device
	err := c.invoke(ctx, http.MethodGet, "/api/client/v2/home/device/query",
		map[string]any{"homeId": homeID}, &devices)
	if err != nil {
		var apiErr *ApiResponseError
		if errors.As(err, &apiErr) && apiErr.Code == codeHomeDoesNotExist {
			return nil, &HomeDoesNotExistError{HomeID: homeID, Err: apiErr}
		}
		return nil, err
	}
	return devices, nil
}

// GetAllDevices returns the devices of every home of the account.
func (c *Client) GetAllDevices(ctx context.Context) ([]Device, error) {
	log.Ctx(ctx).DebugContext(ctx, "getting ecos devices for every home")
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	var devices []Device
	if err := c.invoke(ctx, http.MethodGet, "/api/client/home/device/list", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// GetTodayDeviceData returns the 5-minute power series of the current day,
// from midnight until now, for a device.
func (c *Client) GetTodayDeviceData(ctx context.Context, deviceID string) (*PowerTimeseries, error) {
	log.Ctx(ctx).DebugContext(ctx, "getting ecos current day data", slog.String("deviceID", deviceID))
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	var ts PowerTimeseries
	err := c.invoke(ctx, http.MethodPost, "/api/client/home/now/device/realtime",
		map[string]any{"deviceId": deviceID}, &ts)
	if err != nil {
		var apiErr *ApiResponseError
		if errors.As(err, &apiErr) && apiErr.Code == codeUnauthorizedDevice {
			return nil, &UnauthorizedDeviceError{DeviceID: deviceID, Err: apiErr}
		}
		return nil, err
	}
	return &ts, nil
}

// GetRealtimeHomeData returns the current power snapshot for a home.
func (c *Client) GetRealtimeHomeData(ctx context.Context, homeID string) (*HomeRuntime, error) {
	log.Ctx(ctx).DebugContext(ctx, "getting ecos realtime home data", slog.String("homeID", homeID))
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	var rt HomeRuntime
	err := c.invoke(ctx, http.MethodGet, "/api/client/v2/home/device/runData",
		map[string]any{"homeId": homeID}, &rt)
	if err != nil {
		var apiErr *ApiResponseError
		if errors.As(err, &apiErr) && apiErr.Code == codeHomeDoesNotExist {
			return nil, &HomeDoesNotExistError{HomeID: homeID, Err: apiErr}
		}
		return nil, err
	}
	return &rt, nil
}

// GetRealtimeDeviceData returns the current power snapshot for a device.
func (c *Client) GetRealtimeDeviceData(ctx context.Context, deviceID string) (*DeviceRuntime, error) {
	log.Ctx(ctx).DebugContext(ctx, "getting ecos realtime device data", slog.String("deviceID", deviceID))
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	var rt DeviceRuntime
	err := c.invoke(ctx, http.MethodPost, "/api/client/home/now/device/runData",
		map[string]any{"deviceId": deviceID}, &rt)
	if err != nil {
		var apiErr *ApiResponseError
		if errors.As(err, &apiErr) && apiErr.Code == codeUnauthorizedDevice {
			return nil, &UnauthorizedDeviceError{DeviceID: deviceID, Err: apiErr}
		}
		return nil, err
	}
	return &rt, nil
}

// GetHistory returns aggregated home energy for a period. The start date is
// sent as epoch seconds. periodType selects the window:
//
//	0 = daily values of the calendar month of startDate
//	1 = daily values of the last 4 days (startDate ignored)
//	2, 3 = daily values of the current month (startDate ignored)
//	4 = total for the current month (startDate ignored)
func (c *Client) GetHistory(ctx context.Context, deviceID string, startDate time.Time, periodType int) (*History, error) {
	log.Ctx(ctx).DebugContext(ctx, "getting ecos history",
		slog.String("deviceID", deviceID), slog.Int("periodType", periodType))
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	var history History
	err := c.invoke(ctx, http.MethodPost, "/api/client/home/history/home", map[string]any{
		"deviceId":   deviceID,
		"timestamp":  startDate.Unix(),
		"periodType": periodType,
	}, &history)
	if err != nil {
		return nil, translateDeviceError(err, deviceID)
	}
	return &history, nil
}

// GetInsight returns energy metrics and statistics of a device for a period.
// The start date is sent as epoch milliseconds; this differs from GetHistory
// and is a vendor quirk. periodType selects the window:
//
//	0 = 5-minute power for the calendar day of startDate (no Consumption)
//	1 = not implemented by the vendor
//	2 = daily energy for the calendar month of startDate (no PowerTimeseries)
//	3 = not implemented by the vendor
//	4 = monthly energy for the calendar year of startDate (no PowerTimeseries)
//	5 = yearly energy (no PowerTimeseries)
func (c *Client) GetInsight(ctx context.Context, deviceID string, startDate time.Time, periodType int) (*Insight, error) {
	log.Ctx(ctx).DebugContext(ctx, "getting ecos insight",
		slog.String("deviceID", deviceID), slog.Int("periodType", periodType))
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	var insight Insight
	err := c.invoke(ctx, http.MethodPost, "/api/client/v2/device/three/device/insight", map[string]any{
		"deviceId":   deviceID,
		"timestamp":  startDate.UnixMilli(),
		"periodType": periodType,
	}, &insight)
	if err != nil {
		return nil, translateDeviceError(err, deviceID)
	}
	return &insight, nil
}

// translateDeviceError maps the vendor codes shared by the history and
// insight operations onto their semantic error types. Unknown codes pass
// through untouched.
func translateDeviceError(err error, deviceID string) error {
	var apiErr *ApiResponseError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Code {
	case codeUnauthorizedDevice:
		return &UnauthorizedDeviceError{DeviceID: deviceID, Err: apiErr}
	case codeParameterVerificationFailed:
		return &ParameterVerificationFailedError{Err: apiErr}
	}
	return err
}
