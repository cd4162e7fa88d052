// Command ecosctl logs in to the ECOS cloud API and dumps the account's
// homes, devices and current power data as JSON. It is a smoke-test tool,
// not a full CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gmasse/ecos-go/pkg/ecos"
	"github.com/gmasse/ecos-go/pkg/log"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
)

func main() {
	datacenter := lflag.String("ecos-datacenter", "", "regional deployment to talk to (CN, EU or AU)")
	apiURL := lflag.String("ecos-url", "", "explicit API base URL, takes precedence over the datacenter")
	email := lflag.String("ecos-email", "", "account email, used to log in on demand")
	password := lflag.String("ecos-password", "", "account password")
	accessToken := lflag.String("ecos-access-token", "", "access token from an earlier session")
	refreshToken := lflag.String("ecos-refresh-token", "", "refresh token from an earlier session")
	deviceID := lflag.String("device-id", "", "device to dump power data for, defaults to the first device found")

	// parse flags
	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var opts []ecos.Option
	if *datacenter != "" {
		opts = append(opts, ecos.WithDatacenter(ecos.Datacenter(*datacenter)))
	}
	if *apiURL != "" {
		opts = append(opts, ecos.WithURL(*apiURL))
	}
	if *email != "" {
		opts = append(opts, ecos.WithCredentials(*email, *password))
	}
	if *accessToken != "" {
		opts = append(opts, ecos.WithTokens(*accessToken, *refreshToken))
	}

	client, err := ecos.New(opts...)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to create client", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, client, *deviceID); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "ecosctl failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *ecos.Client, deviceID string) error {
	user, err := client.GetUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	dump("user", user)

	homes, err := client.GetHomes(ctx)
	if err != nil {
		return fmt.Errorf("failed to get homes: %w", err)
	}
	dump("homes", homes)

	for _, home := range homes {
		devices, err := client.GetDevices(ctx, home.ID)
		if err != nil {
			return fmt.Errorf("failed to get devices for home %s: %w", home.ID, err)
		}
		dump("devices:"+home.ID, devices)
		if deviceID == "" && len(devices) > 0 {
			deviceID = devices[0].ID
		}

		runtime, err := client.GetRealtimeHomeData(ctx, home.ID)
		if err != nil {
			return fmt.Errorf("failed to get realtime data for home %s: %w", home.ID, err)
		}
		dump("runtime:"+home.ID, runtime)
	}

	if deviceID == "" {
		log.Ctx(ctx).InfoContext(ctx, "no device found, skipping power data")
		return nil
	}

	today, err := client.GetTodayDeviceData(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("failed to get today data for device %s: %w", deviceID, err)
	}
	dump("today:"+deviceID, today)

	runtime, err := client.GetRealtimeDeviceData(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("failed to get realtime data for device %s: %w", deviceID, err)
	}
	dump("runtime:"+deviceID, runtime)
	return nil
}

func dump(name string, v any) {
	out, err := json.MarshalIndent(map[string]any{name: v}, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(out))
}
