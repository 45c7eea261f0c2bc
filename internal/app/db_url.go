package app

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/riskibarqy/commander-stats/internal/config"
)

// postgresApplicationName tags the ETL's session in pg_stat_activity.
const postgresApplicationName = "commander-etl"

type dsnParam struct {
	key   string
	value string
}

// dataSource returns the DSN handed to the driver and the db.system trace attribute.
func dataSource(cfg config.Config) (string, string) {
	if cfg.DBDriver == config.DriverDuckDB {
		return cfg.DatabaseURL(), "duckdb"
	}
	return postgresDSN(cfg.DatabaseURL(), cfg.DBDisablePreparedBinary), "postgresql"
}

// postgresDSN adds the ETL's session defaults to a lib/pq connection string. Binary results for
// prepared statements are turned off when the warehouse sits behind a transaction pooler.
// Values already present in raw win. Both URL and key=value forms are accepted.
func postgresDSN(raw string, disablePreparedBinary bool) string {
	raw = strings.TrimSpace(raw)
	params := []dsnParam{{key: "application_name", value: postgresApplicationName}}
	if disablePreparedBinary {
		params = append(params, dsnParam{key: "disable_prepared_binary_result", value: "yes"})
	}

	if !strings.Contains(raw, "://") {
		present := keywordDSN(raw)
		for _, p := range params {
			if _, ok := present[p.key]; !ok {
				raw += " " + p.key + "=" + p.value
			}
		}
		return strings.TrimSpace(raw)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := parsed.Query()
	for _, p := range params {
		if query.Get(p.key) == "" {
			query.Set(p.key, p.value)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// databaseName is the db.name trace attribute: the duckdb file stem, or the postgres database.
func databaseName(cfg config.Config) string {
	if cfg.DBDriver == config.DriverDuckDB {
		path := cfg.DatabaseURL()
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if name == "" || name == "." {
			return "memory"
		}
		return name
	}

	raw := strings.TrimSpace(cfg.DBURL)
	if strings.Contains(raw, "://") {
		if parsed, err := url.Parse(raw); err == nil {
			return strings.TrimPrefix(parsed.Path, "/")
		}
		return ""
	}
	return keywordDSN(raw)["dbname"]
}

func keywordDSN(raw string) map[string]string {
	out := make(map[string]string)
	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		out[key] = strings.Trim(value, `"'`)
	}
	return out
}
