package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/containerpak/cpakstore/internal/server"
	"github.com/containerpak/cpakstore/pkg/catalog"
	cerrors "github.com/containerpak/cpakstore/pkg/errors"
	"github.com/containerpak/cpakstore/pkg/snapshot"
)

// Cache modes accepted by --cache.
const (
	cacheNone   = "none"
	cacheFile   = "file"
	cacheMemory = "memory"
	cacheRedis  = "redis"
)

var cacheModes = []string{cacheNone, cacheFile, cacheMemory, cacheRedis}

// envPrefix is prepended to every configuration key when read from the
// environment, so index_url becomes CPAKSTORE_INDEX_URL.
const envPrefix = "CPAKSTORE"

// Configuration keys.
const (
	keyIndexURL        = "index_url"
	keyCategoriesURL   = "categories_url"
	keyRawHost         = "raw_host"
	keyCache           = "cache"
	keyCacheDir        = "cache_dir"
	keyCacheTTL        = "cache_ttl"
	keyCacheScope      = "cache_scope"
	keyRedisAddr       = "redis_addr"
	keyRetries         = "retries"
	keyTimeout         = "timeout"
	keyListen          = "listen"
	keyMongoURI        = "mongo_uri"
	keyMongoDatabase   = "mongo_database"
	keyMongoCollection = "mongo_collection"
)

// Config is the resolved CLI configuration.
type Config struct {
	IndexURL      string
	CategoriesURL string
	RawHost       string

	Cache      string        // none, file, memory or redis
	CacheDir   string        // file cache location, XDG cache dir when empty
	CacheTTL   time.Duration // lifetime of cached documents and probes
	CacheScope string        // optional key prefix shared by one store
	RedisAddr  string

	Retries int           // extra attempts after a transient failure
	Timeout time.Duration // per request

	Listen string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// ConfigFile is the file the values were read from, if any.
	ConfigFile string
}

// setDefaults registers the default for every key.
func setDefaults(v *viper.Viper) {
	v.SetDefault(keyIndexURL, catalog.DefaultIndexURL)
	v.SetDefault(keyCategoriesURL, catalog.DefaultCategoriesURL)
	v.SetDefault(keyRawHost, catalog.DefaultRawHost)
	v.SetDefault(keyCache, cacheNone)
	v.SetDefault(keyCacheTTL, time.Hour)
	v.SetDefault(keyRedisAddr, "localhost:6379")
	v.SetDefault(keyRetries, 0)
	v.SetDefault(keyTimeout, 10*time.Second)
	v.SetDefault(keyListen, server.DefaultListen)
	v.SetDefault(keyMongoDatabase, snapshot.DefaultMongoDatabase)
	v.SetDefault(keyMongoCollection, snapshot.DefaultMongoCollection)
}

// loadConfig reads configuration in order of precedence:
//  1. Command-line flags bound to v
//  2. Environment variables (CPAKSTORE_*)
//  3. .env.local and .env in the working directory
//  4. Config file (--config, or .cpakstore.yaml in the home or working directory)
//  5. Defaults
//
// A missing config file is only an error when it was named explicitly.
func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	loadEnvFiles()

	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".cpakstore")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		IndexURL:        v.GetString(keyIndexURL),
		CategoriesURL:   v.GetString(keyCategoriesURL),
		RawHost:         v.GetString(keyRawHost),
		Cache:           strings.ToLower(v.GetString(keyCache)),
		CacheDir:        v.GetString(keyCacheDir),
		CacheTTL:        v.GetDuration(keyCacheTTL),
		CacheScope:      v.GetString(keyCacheScope),
		RedisAddr:       v.GetString(keyRedisAddr),
		Retries:         v.GetInt(keyRetries),
		Timeout:         v.GetDuration(keyTimeout),
		Listen:          v.GetString(keyListen),
		MongoURI:        v.GetString(keyMongoURI),
		MongoDatabase:   v.GetString(keyMongoDatabase),
		MongoCollection: v.GetString(keyMongoCollection),
		ConfigFile:      v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be caught by later stages.
func (c *Config) Validate() error {
	if !isCacheMode(c.Cache) {
		return cerrors.New(cerrors.ErrCodeInvalidInput,
			"cache must be one of %s, got %q", strings.Join(cacheModes, ", "), c.Cache)
	}
	if c.Retries < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "retries must not be negative")
	}
	if c.Timeout < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "timeout must not be negative")
	}
	return c.catalogOptions().Validate()
}

func (c *Config) catalogOptions() catalog.Options {
	return catalog.Options{
		IndexURL:      c.IndexURL,
		CategoriesURL: c.CategoriesURL,
		RawHost:       c.RawHost,
	}
}

func isCacheMode(s string) bool {
	for _, m := range cacheModes {
		if s == m {
			return true
		}
	}
	return false
}

// loadEnvFiles loads .env.local and then .env. godotenv never overrides a
// variable that is already set, so .env.local wins over .env and the real
// environment wins over both.
func loadEnvFiles() {
	for _, f := range []string{".env.local", ".env"} {
		_ = godotenv.Load(f)
	}
}
