package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"larvatrack/internal/lifecycle"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	Group    string
	Consumer string
}

type StorageConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	BucketPhotos string
	UseSSL       bool
	Region       string
}

type SecurityConfig struct {
	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTAccessTTL     time.Duration
	JWTRefreshTTL    time.Duration
	SignatureSecret  string
	MaxSessions      int
}

// LifecycleConfig overrides the engine tunables. Field names mirror
// lifecycle.Params; the table maps are keyed by the engine's enum string
// values (e.g. lifecycle.basevaliditydays.transient).
type LifecycleConfig struct {
	WeightContent  float64
	WeightCamera   float64
	WeightGPS      float64
	GPSProximityKm float64

	BaseValidityDays           map[string]int
	RiskMultipliers            map[string]float64
	TransientHighRiskBonusDays int
	WeatherFactors             map[string]float64

	FullConfidenceThreshold float64
	LowConfidenceThreshold  float64
	MidConfidenceFactor     float64
	ValidationBonusFactor   float64

	ExpiringSoonWindowDays int
	AlertDebounceHours     int
	AlertGraceHours        int
}

type SweepConfig struct {
	Schedule      string
	LookAheadDays int
	ClaimInterval time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Lifecycle        LifecycleConfig
	Sweep            SweepConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("LARVATRACK")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// EngineParams merges configured overrides onto the engine defaults. Only
// keys present in the config replace defaults, so a partial table is fine.
func (c LifecycleConfig) EngineParams() lifecycle.Params {
	p := lifecycle.DefaultParams()

	if c.WeightContent > 0 {
		p.WeightContent = c.WeightContent
	}
	if c.WeightCamera > 0 {
		p.WeightCamera = c.WeightCamera
	}
	if c.WeightGPS > 0 {
		p.WeightGPS = c.WeightGPS
	}
	if c.GPSProximityKm > 0 {
		p.GPSProximityKm = c.GPSProximityKm
	}
	for key, days := range c.BaseValidityDays {
		if days > 0 {
			p.BaseValidityDays[lifecycle.PersistenceType(key)] = days
		}
	}
	for key, mult := range c.RiskMultipliers {
		if mult > 0 {
			p.RiskMultipliers[lifecycle.RiskLevel(key)] = mult
		}
	}
	if c.TransientHighRiskBonusDays > 0 {
		p.TransientHighRiskBonusDays = c.TransientHighRiskBonusDays
	}
	for key, factor := range c.WeatherFactors {
		if factor > 0 {
			p.WeatherFactors[lifecycle.WeatherCondition(key)] = factor
		}
	}
	if c.FullConfidenceThreshold > 0 {
		p.FullConfidenceThreshold = c.FullConfidenceThreshold
	}
	if c.LowConfidenceThreshold > 0 {
		p.LowConfidenceThreshold = c.LowConfidenceThreshold
	}
	if c.MidConfidenceFactor > 0 {
		p.MidConfidenceFactor = c.MidConfidenceFactor
	}
	if c.ValidationBonusFactor > 0 {
		p.ValidationBonusFactor = c.ValidationBonusFactor
	}
	if c.ExpiringSoonWindowDays > 0 {
		p.ExpiringSoonWindowDays = c.ExpiringSoonWindowDays
	}
	if c.AlertDebounceHours > 0 {
		p.AlertDebounceHours = c.AlertDebounceHours
	}
	if c.AlertGraceHours > 0 {
		p.AlertGraceHours = c.AlertGraceHours
	}

	return p
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "detections:alerts")
	v.SetDefault("redis.group", "alert-workers")
	v.SetDefault("redis.consumer", "worker-1")

	v.SetDefault("storage.bucketphotos", "larvatrack-photos")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.jwtaccessttl", "15m")
	v.SetDefault("security.jwtrefreshttl", "720h") // 30 days
	v.SetDefault("security.maxsessions", 10)

	v.SetDefault("sweep.schedule", "0 0 */1 * * *") // hourly
	v.SetDefault("sweep.lookaheaddays", 1)
	v.SetDefault("sweep.claiminterval", "60s")
}
