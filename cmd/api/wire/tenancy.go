//go:build wireinject
// +build wireinject

package wire

import (
	"os"
	"time"

	"tenant-registry-server/cmd/config"
	"tenant-registry-server/internal/infra/async"
	"tenant-registry-server/internal/infra/pubsub"
	"tenant-registry-server/internal/infra/sql"
	"tenant-registry-server/internal/tenancy/httpapi"
	"tenant-registry-server/internal/tenancy/identity"
	"tenant-registry-server/internal/tenancy/persistence"
	"tenant-registry-server/internal/tenancy/usecases"

	"github.com/google/wire"
)

func InitializeTenantController(broker async.InternalBroker) (*httpapi.TenantController, error) {
	wire.Build(
		TenancySet,
		usecases.NewTenantProvisioner,
		wire.Bind(new(usecases.TenantProvisioner), new(*usecases.SagaTenantProvisioner)),
		usecases.NewTenantService,
		wire.Bind(new(usecases.TenantService), new(*usecases.SimpleTenantService)),
		httpapi.NewTenantController,
	)

	return nil, nil
}

func InitializeReconciliationWorker(broker async.InternalBroker) (*usecases.ReconciliationWorker, error) {
	wire.Build(
		TenancySet,
		provideTicker,
		usecases.NewReconciliationWorker,
	)
	return nil, nil
}

var TenancySet = wire.NewSet(
	provideAppConfig,
	provideDatabase,
	providePubSubFactory,
	providePublisherFactory,
	provideConsumerFactory,
	persistence.NewTenantRepository,
	wire.Bind(new(usecases.TenantRepository), new(*persistence.SimpleTenantRepository)),
	provideSchemaDatabase,
	persistence.NewSchemaManager,
	wire.Bind(new(usecases.SchemaProvisioner), new(*persistence.SchemaManager)),
	provideKeycloakConfig,
	identity.NewKeycloakClient,
	wire.Bind(new(usecases.IdentityProvider), new(*identity.KeycloakClient)),
)

func provideAppConfig() config.AppConfig {
	return config.LoadConfig()
}

func provideDatabase(config config.AppConfig) sql.ORM {
	env, ok := os.LookupEnv("ENV")
	if !ok {
		env = "production"
	}

	if env == "local" {
		orm, err := sql.NewMemoryORM("tenants")
		if err != nil {
			panic(err)
		}

		return orm
	}

	orm, err := sql.NewPosgreORM(config.Postgresql.DSN)
	if err != nil {
		panic(err)
	}

	return orm
}

func provideSchemaDatabase(config config.AppConfig) sql.Database {
	db := sql.NewPosgreDatabase(config.Postgresql.URL)
	if err := db.Open(); err != nil {
		panic(err)
	}

	return db
}

func providePubSubFactory(config config.AppConfig) *pubsub.Factory {
	env, ok := os.LookupEnv("ENV")
	if !ok {
		env = "production"
	}

	return pubsub.NewFactory(pubsub.FactoryOptions{
		Environment:   env,
		KafkaBrokers:  config.Kafka.Brokers,
		ConsumerGroup: config.Kafka.Group,
	})
}

func providePublisherFactory(factory *pubsub.Factory) pubsub.PublisherFactory {
	return factory.GetPublisherFactory()
}

func provideConsumerFactory(factory *pubsub.Factory) pubsub.ConsumerFactory {
	return factory.GetConsumerFactory()
}

func provideKeycloakConfig(config config.AppConfig) identity.Config {
	return identity.Config{
		ServerURL:           config.Keycloak.ServerURL,
		AdminUsername:       config.Keycloak.AdminUsername,
		AdminPassword:       config.Keycloak.AdminPassword,
		DefaultClientID:     config.Keycloak.DefaultClientID,
		DefaultClientSecret: config.Keycloak.DefaultClientSecret,
		DefaultAdminRole:    config.Keycloak.DefaultAdminRole,
	}
}

func provideTicker(config config.AppConfig) *time.Ticker {
	interval := config.Reconciliation.IntervalSeconds
	if interval <= 0 {
		interval = 60
	}

	return time.NewTicker(time.Duration(interval) * time.Second)
}
