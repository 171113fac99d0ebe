package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Booking  BookingConfig  `yaml:"booking"`
	Fixtures FixturesConfig `yaml:"fixtures"`
	Worker   WorkerConfig   `yaml:"worker"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type HTTPConfig struct {
	Address      string `yaml:"address" validate:"required"`
	SwaggerDir   string `yaml:"swagger_dir"`
	SecureCookie bool   `yaml:"secure_cookie"`
}

type GRPCConfig struct {
	Address string `yaml:"address" validate:"required"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type StorageConfig struct {
	Driver   string `yaml:"driver" validate:"oneof=file redis postgres mongo memory"`
	FilePath string `yaml:"file_path" validate:"required_if=Driver file"`
}

// Shared reports whether separate processes see the same data through this driver.
func (s StorageConfig) Shared() bool {
	return s.Driver != DriverMemory
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled reports whether a redis server is configured at all.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type AuthConfig struct {
	JWTSecret          string `yaml:"jwt_secret" validate:"required,min=16"`
	TokenTTLMinutes    int    `yaml:"token_ttl_minutes" validate:"gt=0"`
	SessionIdleMinutes int    `yaml:"session_idle_minutes" validate:"gt=0"`
	BcryptCost         int    `yaml:"bcrypt_cost" validate:"gte=4,lte=31"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

func (a AuthConfig) SessionIdle() time.Duration {
	return time.Duration(a.SessionIdleMinutes) * time.Minute
}

type BookingConfig struct {
	HoldTTLMinutes     int `yaml:"hold_ttl_minutes" validate:"gt=0"`
	FlightsCacheTTL    int `yaml:"flights_cache_ttl_seconds" validate:"gte=0"`
	PaymentDelayMillis int `yaml:"payment_delay_ms" validate:"gte=0"`
	CancelDelayMillis  int `yaml:"cancel_delay_ms" validate:"gte=0"`
}

func (b BookingConfig) HoldTTL() time.Duration {
	return time.Duration(b.HoldTTLMinutes) * time.Minute
}

func (b BookingConfig) CacheTTL() time.Duration {
	return time.Duration(b.FlightsCacheTTL) * time.Second
}

func (b BookingConfig) PaymentDelay() time.Duration {
	return time.Duration(b.PaymentDelayMillis) * time.Millisecond
}

func (b BookingConfig) CancelDelay() time.Duration {
	return time.Duration(b.CancelDelayMillis) * time.Millisecond
}

// FixturesConfig points at replacement fixture files. Empty paths use the embedded defaults.
type FixturesConfig struct {
	AirportsPath string `yaml:"airports_path"`
	FlightsPath  string `yaml:"flights_path"`
}

type WorkerConfig struct {
	ExpirationSweepSeconds int `yaml:"expiration_sweep_seconds" validate:"gt=0"`
}

func (w WorkerConfig) SweepInterval() time.Duration {
	return time.Duration(w.ExpirationSweepSeconds) * time.Second
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML document, expanding ${VAR} references from the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func Default() *Config {
	return &Config{
		HTTP:    HTTPConfig{Address: ":8080"},
		GRPC:    GRPCConfig{Address: ":9090"},
		Log:     LogConfig{Level: "info", Format: "json"},
		Storage: StorageConfig{Driver: DriverFile, FilePath: "data/flymate.json"},
		Mongo:   MongoConfig{Database: "flymate", Collection: "documents"},
		Kafka: KafkaConfig{
			BookingTopic: "bookings",
			GroupID:      "flymate-worker",
		},
		Auth: AuthConfig{
			TokenTTLMinutes:    24 * 60,
			SessionIdleMinutes: 5,
			BcryptCost:         10,
		},
		Booking: BookingConfig{
			HoldTTLMinutes:     15,
			FlightsCacheTTL:    60,
			PaymentDelayMillis: 1500,
			CancelDelayMillis:  1000,
		},
		Worker: WorkerConfig{ExpirationSweepSeconds: 60},
	}
}
