//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/driveloop/service-rental/internal/application"
	bookingDomain "github.com/driveloop/service-rental/internal/domain/booking"
	bookingEvents "github.com/driveloop/service-rental/internal/events"
	"github.com/driveloop/service-rental/internal/payments"
	"github.com/driveloop/service-rental/internal/repository"
	"github.com/driveloop/service-rental/pkg/kafka"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// rentalStack holds wired-up booking service components.
type rentalStack struct {
	Service         *application.BookingService
	Consumer        *bookingEvents.PaymentEventConsumer
	CleanupProducer func()
}

// seedIDs are the fixture rows every integration test starts from.
type seedIDs struct {
	UserID     uuid.UUID
	VehicleID  uuid.UUID
	LocationID uuid.UUID
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_rental",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_rental sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.UserModel{},
		&repository.VehicleModel{},
		&repository.LocationModel{},
		&repository.BookingModel{},
		&repository.PaymentModel{},
	))

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, bookingDomain.TopicBookingEvents, bookingDomain.TopicPaymentEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupRentalStack wires up the full booking service stack.
func setupRentalStack(t *testing.T, db *gorm.DB, brokers []string) *rentalStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	bookingRepo := repository.NewGormBookingRepository(db)
	users := repository.NewGormUserDirectory(db)
	vehicles := repository.NewGormVehicleCatalog(db)
	locations := repository.NewGormLocationDirectory(db)
	refunds := payments.NewProviderRefundProcessor(logger)
	pricing := bookingDomain.NewStandardPricingStrategy()
	producer := kafka.NewProducer(brokers, logger)

	svc := application.NewBookingService(bookingRepo, users, vehicles, locations, refunds, pricing, producer, logger)

	groupID := fmt.Sprintf("test-rental-%s", uuid.New().String()[:8])
	consumer := bookingEvents.NewPaymentEventConsumer(brokers, groupID, svc, logger)

	return &rentalStack{
		Service:         svc,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedFixtures inserts a renter, a vehicle and a pickup location.
func seedFixtures(t *testing.T, db *gorm.DB) seedIDs {
	t.Helper()
	ids := seedIDs{
		UserID:     uuid.New(),
		VehicleID:  uuid.New(),
		LocationID: uuid.New(),
	}

	require.NoError(t, db.Create(&repository.UserModel{
		ID:       ids.UserID,
		FullName: "Integration Tester",
		Email:    fmt.Sprintf("tester-%s@example.com", ids.UserID.String()[:8]),
		Phone:    "+60123456789",
		IsActive: true,
	}).Error)

	require.NoError(t, db.Create(&repository.VehicleModel{
		ID:        ids.VehicleID,
		Make:      "Toyota",
		Model:     "Corolla",
		DailyRate: 50.00,
	}).Error)

	require.NoError(t, db.Create(&repository.LocationModel{
		ID:   ids.LocationID,
		Name: "Downtown Branch",
	}).Error)

	return ids
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForBookingStatus polls the bookings table until the status matches.
func waitForBookingStatus(t *testing.T, db *gorm.DB, bookingID uuid.UUID, expectedStatus string, timeout time.Duration) repository.BookingModel {
	t.Helper()
	var result repository.BookingModel
	require.Eventually(t, func() bool {
		var model repository.BookingModel
		err := db.Where("id = ?", bookingID).First(&model).Error
		if err != nil {
			return false
		}
		if model.Status == expectedStatus {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "booking did not transition to %s", expectedStatus)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
