package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/securedrop/internal/flagx"
	"github.com/dmitrijs2005/securedrop/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "30s" or as integer nanoseconds. Zero values mean "not set" and leave the
// corresponding Config field untouched.
type JsonConfig struct {
	ServerEndpointURL   string         `json:"server_endpoint_url"`
	SessionDBPath       string         `json:"session_db_path"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	DefaultExpiryHours  int            `json:"default_expiry_hours"`
	DefaultMaxDownloads int            `json:"default_max_downloads"`
	PageSize            int            `json:"page_size"`
}

// parseJson overlays Config with values loaded from a JSON file resolved
// via the -c/-config flags. When no file is given, nothing changes. Read or
// unmarshal errors panic; config problems should stop startup.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointURL != "" {
		cfg.ServerEndpointURL = jc.ServerEndpointURL
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.DefaultExpiryHours != 0 {
		cfg.DefaultExpiryHours = jc.DefaultExpiryHours
	}
	if jc.DefaultMaxDownloads != 0 {
		cfg.DefaultMaxDownloads = jc.DefaultMaxDownloads
	}
	if jc.PageSize != 0 {
		cfg.PageSize = jc.PageSize
	}
}
