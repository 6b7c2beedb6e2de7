package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/vrml-tools/vrml-bot/internal/infra/storage"
)

type Config struct {
	DiscordToken string
	// DiscordGuildIDs to register commands in; empty means global commands
	DiscordGuildIDs []string
	AdminUserID     string

	VRMLBaseURL     string
	VRMLSiteURL     string
	VRMLMaxAttempts int
	VRMLRPS         float64 // 0 disables the client side limiter

	DataDir  string
	HTTPAddr string
	// OpsSecret guards POST /admin/refresh; empty disables it
	OpsSecret string

	RefreshWeekday     time.Weekday
	RefreshHourUTC     int
	RefreshConcurrency int

	LogLevel string
	Dev      bool
}

func (c Config) PlayerIndexPath() string { return filepath.Join(c.DataDir, storage.PlayerIndexFileName) }
func (c Config) GuildDir() string { return filepath.Join(c.DataDir, "guilds") }

// Load reads the environment. Only DISCORD_BOT_TOKEN is required when
// requireToken is set; everything else has a default.
func Load(requireToken bool) (Config, error) {
	var errs []error
	get := func(k string, req bool, def string) string {
		v := strings.TrimSpace(os.Getenv(k))
		if v == "" && req {
			errs = append(errs, crerr.Newf("missing env %s", k))
		}
		if v == "" {
			return def
		}
		return v
	}
	getInt := func(k string, def int) int {
		raw := get(k, false, "")
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, crerr.Wrapf(err, "env %s", k))
			return def
		}
		return n
	}

	cfg := Config{
		DiscordToken:       get("DISCORD_BOT_TOKEN", requireToken, ""),
		DiscordGuildIDs:    splitList(get("DISCORD_GUILD_IDS", false, "")),
		AdminUserID:        get("ADMIN_USER_ID", false, ""),
		VRMLBaseURL:        strings.TrimRight(get("VRML_BASE_URL", false, "https://api.vrmasterleague.com"), "/"),
		VRMLSiteURL:        strings.TrimRight(get("VRML_SITE_URL", false, "https://vrmasterleague.com"), "/"),
		VRMLMaxAttempts:    getInt("VRML_MAX_ATTEMPTS", 10),
		DataDir:            get("DATA_DIR", false, "data"),
		HTTPAddr:           get("HTTP_ADDR", false, ":8080"),
		OpsSecret:          get("OPS_SECRET", false, ""),
		RefreshHourUTC:     getInt("REFRESH_HOUR_UTC", 0),
		RefreshConcurrency: getInt("REFRESH_CONCURRENCY", 10),
		LogLevel:           get("LOG_LEVEL", false, "info"),
	}

	if raw := get("VRML_RPS", false, ""); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps < 0 {
			errs = append(errs, crerr.Newf("env VRML_RPS: invalid value %q", raw))
		}
		cfg.VRMLRPS = rps
	}
	if raw := get("DEV", false, ""); raw != "" {
		dev, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, crerr.Wrap(err, "env DEV"))
		}
		cfg.Dev = dev
	}

	wd, err := ParseWeekday(get("REFRESH_WEEKDAY", false, "monday"))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.RefreshWeekday = wd

	if cfg.RefreshHourUTC < 0 || cfg.RefreshHourUTC > 23 {
		errs = append(errs, crerr.Newf("env REFRESH_HOUR_UTC: %d is not an hour", cfg.RefreshHourUTC))
	}
	if cfg.VRMLMaxAttempts < 1 {
		errs = append(errs, crerr.New("env VRML_MAX_ATTEMPTS: must be at least 1"))
	}
	if cfg.RefreshConcurrency < 1 {
		errs = append(errs, crerr.New("env REFRESH_CONCURRENCY: must be at least 1"))
	}

	if err := crerr.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseWeekday accepts full or three letter English day names.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Monday, crerr.Newf("env REFRESH_WEEKDAY: unknown day %q", s)
}
