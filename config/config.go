package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"

	defaultAccessTTL       = 5 * time.Minute
	defaultRefreshTTL      = 24 * time.Hour
	defaultStateTTL        = 10 * time.Minute
	defaultChallengeMaxAge = 300
	defaultChallengeCookie = "__security"
	defaultCompletionPath  = "/auth/finalsteps"
	defaultErrorRedirect   = "/?error=Registration%20failed"
	defaultScope           = "owner"
	defaultProviderTimeout = 10 * time.Second
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		// LegacyStatus answers every outcome except redirects and not-found with 200,
		// leaving the envelope's status field as the only discriminator.
		LegacyStatus bool `json:"legacyStatus" yaml:"legacyStatus"`
		Timeouts     struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Database struct {
		AutoMigrate bool `json:"autoMigrate" yaml:"autoMigrate"`
	} `json:"database" yaml:"database"`

	SecretKey SecretKeyConfig `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	Providers ProvidersConfig `json:"providers" yaml:"providers"`

	// PubSub configuration for auth event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

// SecretKeyConfig holds the signing secrets for issued credentials.
type SecretKeyConfig struct {
	Access    string `json:"access" yaml:"access"`
	Refresh   string `json:"refresh" yaml:"refresh"`
	Challenge string `json:"challenge" yaml:"challenge"`
}

// AuthConfig defines session issuance and sign-in flow configuration
type AuthConfig struct {
	AccessTTL       time.Duration `json:"accessTTL" yaml:"accessTTL"`
	RefreshTTL      time.Duration `json:"refreshTTL" yaml:"refreshTTL"`
	ChallengeCookie string        `json:"challengeCookie" yaml:"challengeCookie"`
	ChallengeMaxAge int           `json:"challengeMaxAge" yaml:"challengeMaxAge"`
	InsecureCookie  bool          `json:"insecureCookie" yaml:"insecureCookie"`
	CompletionPath  string        `json:"completionPath" yaml:"completionPath"`
	ErrorRedirect   string        `json:"errorRedirect" yaml:"errorRedirect"`
	RequireState    bool          `json:"requireState" yaml:"requireState"`
	StateTTL        time.Duration `json:"stateTTL" yaml:"stateTTL"`
	DefaultScope    string        `json:"defaultScope" yaml:"defaultScope"`
	BcryptCost      int           `json:"bcryptCost" yaml:"bcryptCost"`
}

// ProvidersConfig holds the app credentials of every supported identity provider.
type ProvidersConfig struct {
	Google   *ProviderConfig `json:"google" yaml:"google"`
	Facebook *ProviderConfig `json:"facebook" yaml:"facebook"`
}

// ProviderConfig describes one OAuth2 application registered with a provider.
// Endpoint URLs are optional and fall back to the provider's public endpoints.
type ProviderConfig struct {
	ClientID     string        `json:"clientId" yaml:"clientId"`
	ClientSecret string        `json:"clientSecret" yaml:"clientSecret"`
	RedirectURI  string        `json:"redirectUri" yaml:"redirectUri"`
	Scopes       []string      `json:"scopes" yaml:"scopes"`
	AuthURL      string        `json:"authUrl" yaml:"authUrl"`
	TokenURL     string        `json:"tokenUrl" yaml:"tokenUrl"`
	ProfileURL   string        `json:"profileUrl" yaml:"profileUrl"`
	Timeout      time.Duration `json:"timeout" yaml:"timeout"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

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

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// ENV_VAR_NAME is aligned with existing YAML keys, e.g. SECRETKEY_ACCESS -> secretKey.access.
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if cfg.Postgres != nil {
		// Replicas come from POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, ...
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

// applyDefaults fills the zero values the flow cannot run without.
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.AccessTTL <= 0 {
		cfg.Auth.AccessTTL = defaultAccessTTL
	}
	if cfg.Auth.RefreshTTL <= 0 {
		cfg.Auth.RefreshTTL = defaultRefreshTTL
	}
	if cfg.Auth.StateTTL <= 0 {
		cfg.Auth.StateTTL = defaultStateTTL
	}
	if cfg.Auth.ChallengeCookie == "" {
		cfg.Auth.ChallengeCookie = defaultChallengeCookie
	}
	if cfg.Auth.ChallengeMaxAge <= 0 {
		cfg.Auth.ChallengeMaxAge = defaultChallengeMaxAge
	}
	if cfg.Auth.CompletionPath == "" {
		cfg.Auth.CompletionPath = defaultCompletionPath
	}
	if cfg.Auth.ErrorRedirect == "" {
		cfg.Auth.ErrorRedirect = defaultErrorRedirect
	}
	if cfg.Auth.DefaultScope == "" {
		cfg.Auth.DefaultScope = defaultScope
	}

	for _, p := range []*ProviderConfig{cfg.Providers.Google, cfg.Providers.Facebook} {
		if p != nil && p.Timeout <= 0 {
			p.Timeout = defaultProviderTimeout
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

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
