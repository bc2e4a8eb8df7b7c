package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath       = "."
	defaultBackendURL = "http://localhost:8088/api"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Backend configures the outbound client for the remote REST backend.
	Backend *BackendConfig `json:"backend" yaml:"backend"`

	// Cache configures the query cache windows.
	Cache *CacheConfig `json:"cache" yaml:"cache"`

	// Session configures durable session storage and identity refresh.
	Session *SessionConfig `json:"session" yaml:"session"`
}

// BackendConfig defines how the remote REST backend is reached.
type BackendConfig struct {
	BaseURL      string        `json:"baseUrl" yaml:"baseUrl"`
	Timeout      time.Duration `json:"timeout" yaml:"timeout"`
	MaxRetries   int           `json:"maxRetries" yaml:"maxRetries"`
	RetryBackoff time.Duration `json:"retryBackoff" yaml:"retryBackoff"`
}

// CacheConfig defines staleness and refresh windows for cached queries.
type CacheConfig struct {
	StaleTime       time.Duration `json:"staleTime" yaml:"staleTime"`
	RefetchInterval time.Duration `json:"refetchInterval" yaml:"refetchInterval"`
	GCTime          time.Duration `json:"gcTime" yaml:"gcTime"`
}

// SessionConfig defines where the session token is persisted and how long
// a resolved identity stays fresh before a profile refetch.
type SessionConfig struct {
	FilePath         string        `json:"filePath" yaml:"filePath"`
	ProfileStaleTime time.Duration `json:"profileStaleTime" yaml:"profileStaleTime"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: BACKEND_BASEURL -> backend.baseUrl (not backend.baseurl)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults fills in the windows the original dashboard relied on:
// a tens-of-seconds request timeout, 2 retries with a 2s pause, 10s query
// staleness, 30s periodic refresh, 5m cache retention and a 5m identity
// staleness window.
func (c *Config) applyDefaults() {
	if c.Backend == nil {
		c.Backend = &BackendConfig{}
	}
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		c.Backend.BaseURL = defaultBackendURL
	}
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = 30 * time.Second
	}
	if c.Backend.MaxRetries <= 0 {
		c.Backend.MaxRetries = 2
	}
	if c.Backend.RetryBackoff <= 0 {
		c.Backend.RetryBackoff = 2 * time.Second
	}

	if c.Cache == nil {
		c.Cache = &CacheConfig{}
	}
	if c.Cache.StaleTime <= 0 {
		c.Cache.StaleTime = 10 * time.Second
	}
	if c.Cache.RefetchInterval <= 0 {
		c.Cache.RefetchInterval = 30 * time.Second
	}
	if c.Cache.GCTime <= 0 {
		c.Cache.GCTime = 5 * time.Minute
	}

	if c.Session == nil {
		c.Session = &SessionConfig{}
	}
	if c.Session.ProfileStaleTime <= 0 {
		c.Session.ProfileStaleTime = 5 * time.Minute
	}
	if strings.TrimSpace(c.Session.FilePath) == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			c.Session.FilePath = filepath.Join(dir, "medash", "session.json")
		} else {
			c.Session.FilePath = filepath.Join(".", "session.json")
		}
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
