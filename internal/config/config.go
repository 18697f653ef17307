package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"erbench"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address          string `envconfig:"ERBENCH_ADDRESS" default:":3443"`
	MetricsAddress   string `envconfig:"ERBENCH_METRICS_ADDRESS" default:":8080"`
	BaseUrl          string `envconfig:"ERBENCH_BASE_URL" default:"https://localhost:3443"`
	LogLevel         string `envconfig:"ERBENCH_LOG_LEVEL" default:"info"`
	AuthToken        string `envconfig:"ERBENCH_AUTH_TOKEN" default:""`
	MigrationsFolder string `envconfig:"ERBENCH_MIGRATIONS_FOLDER" default:""`
	Kafka            kafkaConfig
}

type kafkaConfig struct {
	Brokers  []string `envconfig:"ERBENCH_KAFKA_BROKERS" default:""`
	Topic    string   `envconfig:"ERBENCH_KAFKA_TOPIC" default:""`
	ClientID string   `envconfig:"ERBENCH_KAFKA_CLIENT_ID" default:"erbench-api"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a config built only from defaults and the current
// environment, without touching the singleton. Used by tests.
func NewDefault() *Config {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		panic(err)
	}
	return cfg
}
