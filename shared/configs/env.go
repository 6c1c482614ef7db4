package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Skribblers/skribbler/policy"
	"github.com/Skribblers/skribbler/protocol"
	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	AllowedOrigins   []string
	PublicURL        string
	LogLevel         string
	LogPretty        bool
	JWTKey           []byte
	TicketTTL        time.Duration
	PostgresURL      string
	ReverseDrawOrder bool
	DefaultSettings  protocol.Settings
	UpstreamURL      string
}

func defaults() Config {
	return Config{
		Port:            "5000",
		AllowedOrigins:  []string{"http://localhost:3000"},
		PublicURL:       "http://localhost:5000",
		LogLevel:        "info",
		TicketTTL:       time.Minute,
		DefaultSettings: policy.DefaultSettings(0),
	}
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Unset keys keep their defaults; malformed ones fail.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := defaults()
	var err error

	if v, ok := lookup("PORT"); ok {
		if _, err := strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("PORT: %w", err)
		}
		c.Port = v
	}
	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("PUBLIC_URL"); ok {
		c.PublicURL = strings.TrimSuffix(v, "/")
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("LOG_PRETTY"); ok {
		if c.LogPretty, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("LOG_PRETTY: %w", err)
		}
	}
	if v, ok := lookup("JWT_KEY"); ok {
		c.JWTKey = []byte(v)
	}
	if v, ok := lookup("TICKET_TTL"); ok {
		if c.TicketTTL, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("TICKET_TTL: %w", err)
		}
	}
	if v, ok := lookup("POSTGRES_URL"); ok {
		c.PostgresURL = v
	}
	if v, ok := lookup("REVERSE_DRAW_ORDER"); ok {
		if c.ReverseDrawOrder, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("REVERSE_DRAW_ORDER: %w", err)
		}
	}
	if v, ok := lookup("DEFAULT_SETTINGS"); ok {
		if c.DefaultSettings, err = parseSettings(v); err != nil {
			return Config{}, fmt.Errorf("DEFAULT_SETTINGS: %w", err)
		}
	}
	if v, ok := lookup("UPSTREAM_URL"); ok {
		c.UpstreamURL = v
	}
	return c, nil
}

func splitList(v string) []string {
	list := []string{}
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func parseSettings(v string) (protocol.Settings, error) {
	var s protocol.Settings
	parts := strings.Split(v, ",")
	if len(parts) != protocol.SettingsCount {
		return s, fmt.Errorf("want %d values, got %d", protocol.SettingsCount, len(parts))
	}
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return s, err
		}
		s[i] = n
	}
	return s, policy.CheckSettings(s)
}
