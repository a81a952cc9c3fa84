package nats_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	nats2 "audiopress/internal/adapters/eventbroker/nats"
	"audiopress/internal/config"
	"audiopress/internal/core/domain"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupNATSContainer(t *testing.T) (string, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "nats:2.10-alpine",
		ExposedPorts: []string{"4222/tcp"},
		Cmd:          []string{"-js"},
		WaitingFor:   wait.ForLog("Server is ready"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "4222")
	require.NoError(t, err)

	cleanup := func() {
		_ = container.Terminate(ctx)
	}

	return "nats://" + host + ":" + port.Port(), cleanup
}

func TestPublisher_EnsuresStream(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	cfg := config.NATSConfig{
		URL:           natsURL,
		StreamName:    "AUDIOPRESS_TEST",
		SubjectPrefix: "audio.artifact",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Act
	publisher, err := nats2.NewNATSPublisher(ctx, cfg, logger)

	// Assert
	require.NoError(t, err)
	defer publisher.Close()

	nc, err := nats.Connect(natsURL)
	require.NoError(t, err)
	defer nc.Close()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	stream, err := js.Stream(ctx, cfg.StreamName)
	require.NoError(t, err)
	info, err := stream.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"audio.artifact.>"}, info.Config.Subjects)
}

func TestPublisher_Publish(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	cfg := config.NATSConfig{
		URL:           natsURL,
		StreamName:    "AUDIOPRESS_TEST",
		SubjectPrefix: "audio.artifact",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	publisher, err := nats2.NewNATSPublisher(ctx, cfg, logger)
	require.NoError(t, err)
	defer publisher.Close()

	event := domain.ArtifactEvent{
		Type:        domain.EventTypeArtifactReady,
		ArtifactID:  uuid.New(),
		SizeBytes:   4096,
		ContentType: domain.ContentTypeOGG,
		OccurredAt:  time.Now().UTC(),
	}

	// Act
	err = publisher.Publish(ctx, event)
	require.NoError(t, err)

	// Assert - read the event back through an ephemeral consumer
	nc, err := nats.Connect(natsURL)
	require.NoError(t, err)
	defer nc.Close()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	cons, err := js.CreateOrUpdateConsumer(ctx, cfg.StreamName, jetstream.ConsumerConfig{
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: "audio.artifact.ready",
	})
	require.NoError(t, err)

	msg, err := cons.Next(jetstream.FetchMaxWait(3 * time.Second))
	require.NoError(t, err)
	require.NoError(t, msg.Ack())

	var received domain.ArtifactEvent
	require.NoError(t, json.Unmarshal(msg.Data(), &received))
	assert.Equal(t, event.Type, received.Type)
	assert.Equal(t, event.ArtifactID, received.ArtifactID)
	assert.Equal(t, event.SizeBytes, received.SizeBytes)
	assert.Equal(t, event.ContentType, received.ContentType)
	assert.WithinDuration(t, event.OccurredAt, received.OccurredAt, time.Second)
}

func TestPublisher_PublishEachEventType(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	cfg := config.NATSConfig{
		URL:           natsURL,
		StreamName:    "AUDIOPRESS_TEST",
		SubjectPrefix: "audio.artifact",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	publisher, err := nats2.NewNATSPublisher(ctx, cfg, logger)
	require.NoError(t, err)
	defer publisher.Close()

	types := []domain.EventType{
		domain.EventTypeArtifactReady,
		domain.EventTypeArtifactFailed,
		domain.EventTypeArtifactExpired,
		domain.EventTypeArtifactEvicted,
	}

	// Act
	for _, eventType := range types {
		err := publisher.Publish(ctx, domain.ArtifactEvent{
			Type:       eventType,
			ArtifactID: uuid.New(),
			OccurredAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	// Assert - each type landed on its own subject
	nc, err := nats.Connect(natsURL)
	require.NoError(t, err)
	defer nc.Close()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	stream, err := js.Stream(ctx, cfg.StreamName)
	require.NoError(t, err)
	info, err := stream.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(types)), info.State.Msgs)
}

func TestPublisher_PublishAfterClose(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	cfg := config.NATSConfig{
		URL:           natsURL,
		StreamName:    "AUDIOPRESS_TEST",
		SubjectPrefix: "audio.artifact",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	publisher, err := nats2.NewNATSPublisher(ctx, cfg, logger)
	require.NoError(t, err)

	// Act
	require.NoError(t, publisher.Close())
	err = publisher.Publish(ctx, domain.ArtifactEvent{
		Type:       domain.EventTypeArtifactReady,
		ArtifactID: uuid.New(),
		OccurredAt: time.Now().UTC(),
	})

	// Assert
	assert.Error(t, err)
}
