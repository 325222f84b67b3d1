package postgrest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// envConfigsTable holds key/value settings grouped by section and subsection.
const envConfigsTable = "env_configs"

// envConfigRow is one row of the env_configs table.
type envConfigRow struct {
	Section    string `json:"section"`
	Subsection string `json:"subsection"`
	Key        string `json:"key"`
	Value      string `json:"value"`
}

// envConfigMapping maps section/subsection/key of env_configs to a config key.
var envConfigMapping = map[[2]string]map[string]string{
	{"services", "exchange-api"}: {
		"port": "PORT",
	},
	{"exchange", "api"}: {
		"base_url": "EXCHANGE_API_BASE_URL",
		"auth_key": "EXCHANGE_API_AUTH_KEY",
	},
	{"exchange", "database"}: {
		"table_name": "EXCHANGE_RATES_TABLE",
	},
	{"exchange", "scheduler"}: {
		"enabled":             "SCHEDULER_ENABLED",
		"daily_update_hour":   "SCHEDULER_DAILY_UPDATE_HOUR",
		"daily_update_minute": "SCHEDULER_DAILY_UPDATE_MINUTE",
	},
}

// LoadEnvConfigOverlay reads the service settings kept in the env_configs table
// behind the PostgREST server at baseURL and returns them keyed by config key.
// The PostgREST address itself is assembled from services/postgrest-api host and port.
func LoadEnvConfigOverlay(ctx context.Context, baseURL string, timeout time.Duration) (map[string]string, error) {
	client := NewClient(baseURL, timeout)
	overlay := map[string]string{}

	for section, keys := range envConfigMapping {
		rows, err := client.envConfigs(ctx, section[0], section[1])
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			key := strings.ReplaceAll(strings.TrimSpace(row.Key), "-", "_")
			if target, ok := keys[key]; ok {
				overlay[target] = strings.TrimSpace(row.Value)
			}
		}
	}

	rows, err := client.envConfigs(ctx, "services", "postgrest-api")
	if err != nil {
		return nil, err
	}
	host, port := "", ""
	for _, row := range rows {
		switch strings.TrimSpace(row.Key) {
		case "host":
			host = strings.TrimSpace(row.Value)
		case "port":
			port = strings.TrimSpace(row.Value)
		}
	}
	if host != "" && port != "" {
		overlay["POSTGREST_URL"] = "http://" + host + ":" + port
	}
	return overlay, nil
}

func (c *Client) envConfigs(ctx context.Context, section, subsection string) ([]envConfigRow, error) {
	var rows []envConfigRow
	_, err := c.doJSON(ctx, request{
		method: http.MethodGet,
		table:  envConfigsTable,
		query: url.Values{
			"section":    {"eq." + section},
			"subsection": {"eq." + subsection},
		},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s/%s settings: %w", section, subsection, err)
	}
	return rows, nil
}
