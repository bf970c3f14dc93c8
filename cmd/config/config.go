package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var loadConfigOnce sync.Once
var configInstance AppConfig

func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		viper.SetEnvPrefix("tenant_registry")
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.SetConfigName("server")
		viper.AddConfigPath("config")
		viper.AddConfigPath("/config")
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		configInstance = AppConfig{
			General: GeneralConfig{
				LogLevel:    viper.GetString("general.log_level"),
				Environment: viper.GetString("general.environment"),
			},
			Postgresql: PostgresqlConfig{
				URL: viper.GetString("database.url"),
				DSN: viper.GetString("database.dsn"),
			},
			Kafka: KafkaConfig{
				Brokers: viper.GetStringSlice("kafka.brokers"),
				Group:   viper.GetString("kafka.group"),
			},
			Keycloak: KeycloakConfig{
				ServerURL:           viper.GetString("keycloak.server_url"),
				AdminUsername:       viper.GetString("keycloak.admin_username"),
				AdminPassword:       viper.GetString("keycloak.admin_password"),
				DefaultClientID:     viper.GetString("keycloak.default_client_id"),
				DefaultClientSecret: viper.GetString("keycloak.default_client_secret"),
				DefaultAdminRole:    viper.GetString("keycloak.default_admin_role"),
			},
			Reconciliation: ReconciliationConfig{
				IntervalSeconds: viper.GetInt("reconciliation.interval_seconds"),
			},
		}
	})

	return configInstance
}

type AppConfig struct {
	General        GeneralConfig
	Kafka          KafkaConfig
	Postgresql     PostgresqlConfig
	Keycloak       KeycloakConfig
	Reconciliation ReconciliationConfig
}

type GeneralConfig struct {
	LogLevel    string
	Environment string
}

type KafkaConfig struct {
	Brokers []string
	Group   string
}

type PostgresqlConfig struct {
	URL string
	DSN string
}

type KeycloakConfig struct {
	ServerURL           string
	AdminUsername       string
	AdminPassword       string
	DefaultClientID     string
	DefaultClientSecret string
	DefaultAdminRole    string
}

type ReconciliationConfig struct {
	IntervalSeconds int
}
