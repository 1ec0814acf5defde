package config

import (
	"encoding/json"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port         string `json:"port"`
	TemplatesDir string `json:"templatesDir"`
	ExportRoot   string `json:"exportRoot"` // local directory bundles are exported to
	DBURL        string `json:"dbUrl"`      // empty: apply is disabled
	AutoApply    bool   `json:"autoApply"`  // apply the schema after every generate

	AIEndpoint string   `json:"aiEndpoint"` // empty: suggestions are disabled
	AIAPIKey   string   `json:"aiApiKey"`
	AITimeout  Duration `json:"aiTimeout"`

	LogMode    string `json:"logMode"` // dev | prod
	SystemName string `json:"systemName"`
}

// Duration reads "30s"-style strings from JSON.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func def() Config {
	return Config{
		Port:         "8080",
		TemplatesDir: "templates",
		ExportRoot:   "export",
		AITimeout:    Duration{30 * time.Second},
		LogMode:      "dev",
	}
}

func loadJSON(path string, c Config) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvBool(k string, fallback bool) bool {
	if v, ok := os.LookupEnv(k); ok {
		if b, ok := parseBool(v); ok {
			return b
		}
	}
	return fallback
}

func getenvDuration(k string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return fallback
}

func parseBool(v string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	}
	return false, false
}

// Load layers defaults, the JSON file at jsonPath (when present), MODELFORGE_*
// environment variables and finally args. A -config flag naming another
// file restarts the chain from that file.
func Load(jsonPath string, args []string) (Config, error) {
	cfg := def()

	if st, err := os.Stat(jsonPath); err == nil && !st.IsDir() {
		c2, err := loadJSON(jsonPath, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = c2
	}

	cfg.Port = getenv("MODELFORGE_PORT", cfg.Port)
	cfg.TemplatesDir = getenv("MODELFORGE_TEMPLATES_DIR", cfg.TemplatesDir)
	cfg.ExportRoot = getenv("MODELFORGE_EXPORT_ROOT", cfg.ExportRoot)
	cfg.DBURL = getenv("MODELFORGE_DB_URL", cfg.DBURL)
	cfg.AutoApply = getenvBool("MODELFORGE_AUTO_APPLY", cfg.AutoApply)
	cfg.AIEndpoint = getenv("MODELFORGE_AI_ENDPOINT", cfg.AIEndpoint)
	cfg.AIAPIKey = getenv("MODELFORGE_AI_API_KEY", cfg.AIAPIKey)
	cfg.AITimeout.Duration = getenvDuration("MODELFORGE_AI_TIMEOUT", cfg.AITimeout.Duration)
	cfg.LogMode = getenv("MODELFORGE_LOG_MODE", cfg.LogMode)
	cfg.SystemName = getenv("MODELFORGE_SYSTEM_NAME", cfg.SystemName)

	fs := flag.NewFlagSet("modelforge", flag.ContinueOnError)
	configPath := fs.String("config", jsonPath, "Path to config JSON")
	port := fs.String("port", cfg.Port, "HTTP port")
	templates := fs.String("templates", cfg.TemplatesDir, "Starter templates directory")
	export := fs.String("export-root", cfg.ExportRoot, "Directory bundles are exported to")
	db := fs.String("db", cfg.DBURL, "Postgres URL (empty = apply disabled)")
	auto := fs.String("auto-apply", strconv.FormatBool(cfg.AutoApply), "Apply schema after generate (true/false)")
	aiEndpoint := fs.String("ai-endpoint", cfg.AIEndpoint, "Suggestion service URL")
	aiTimeout := fs.Duration("ai-timeout", cfg.AITimeout.Duration, "Suggestion request timeout")
	logMode := fs.String("log", cfg.LogMode, "Log mode (dev/prod)")
	system := fs.String("system", cfg.SystemName, "Default system name for headers")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *configPath != jsonPath {
		return Load(*configPath, withoutFlag(args, "config"))
	}

	cfg.Port = strings.TrimSpace(*port)
	cfg.TemplatesDir = strings.TrimSpace(*templates)
	cfg.ExportRoot = strings.TrimSpace(*export)
	cfg.DBURL = strings.TrimSpace(*db)
	if b, ok := parseBool(*auto); ok {
		cfg.AutoApply = b
	}
	cfg.AIEndpoint = strings.TrimSpace(*aiEndpoint)
	cfg.AITimeout.Duration = *aiTimeout
	cfg.LogMode = strings.TrimSpace(*logMode)
	cfg.SystemName = strings.TrimSpace(*system)
	return cfg, nil
}

// withoutFlag drops -name/--name (with a separate or "=" value) from args.
func withoutFlag(args []string, name string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := strings.TrimLeft(args[i], "-")
		if a == name {
			i++
			continue
		}
		if strings.HasPrefix(a, name+"=") {
			continue
		}
		out = append(out, args[i])
	}
	return out
}
