package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Snapshot SnapshotConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// DatabaseConfig selects and configures the snapshot store. Driver is either
// "postgres" or "sqlite"; the sqlite path keeps the whole snapshot in a single
// local file and bootstraps it from the CSV directory when missing.
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// SnapshotConfig locates the historical CSV snapshot and the optional
// S3-compatible bucket it can be fetched from.
type SnapshotConfig struct {
	Dir              string
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageRegion    string
	StorageUseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_DRIVER", "sqlite")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "scm")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("SQLITE_PATH", "./data/scm.db")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_TTL_SECONDS", 300)
		viper.SetDefault("SNAPSHOT_DIR", "./data/snapshot")
		viper.SetDefault("SNAPSHOT_STORAGE_ENDPOINT", "")
		viper.SetDefault("SNAPSHOT_STORAGE_REGION", "")
		viper.SetDefault("SNAPSHOT_STORAGE_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Driver:     viper.GetString("DB_DRIVER"),
				Host:       viper.GetString("DB_HOST"),
				Port:       viper.GetString("DB_PORT"),
				User:       viper.GetString("DB_USER"),
				Password:   viper.GetString("DB_PASSWORD"),
				DBName:     viper.GetString("DB_NAME"),
				SSLMode:    viper.GetString("DB_SSLMODE"),
				SQLitePath: viper.GetString("SQLITE_PATH"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				TTLSeconds:    viper.GetInt("CACHE_TTL_SECONDS"),
			},
			Snapshot: SnapshotConfig{
				Dir:              viper.GetString("SNAPSHOT_DIR"),
				StorageEndpoint:  viper.GetString("SNAPSHOT_STORAGE_ENDPOINT"),
				StorageAccessKey: viper.GetString("SNAPSHOT_STORAGE_ACCESS_KEY"),
				StorageSecretKey: viper.GetString("SNAPSHOT_STORAGE_SECRET_KEY"),
				StorageBucket:    viper.GetString("SNAPSHOT_STORAGE_BUCKET"),
				StorageRegion:    viper.GetString("SNAPSHOT_STORAGE_REGION"),
				StorageUseSSL:    viper.GetBool("SNAPSHOT_STORAGE_USE_SSL"),
			},
		}
	})

	return instance
}
