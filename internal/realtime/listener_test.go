package realtime

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	pgContainerName   = "pg-realtime-test-carwash"
	pgPort            = "5433"
	pgTestUser        = "test"
	pgTestPassword    = "test"
	pgTestDB          = "carwash"
	connectionTimeout = 3 * time.Second
)

var pgPool *pgxpool.Pool

func TestMain(m *testing.M) {
	dockerPool, err := dockertest.NewPool("")
	if err == nil {
		err = dockerPool.Client.Ping()
	}
	if err != nil {
		logrus.Warnf("docker is not available, listener tests are skipped - %v", err)
		os.Exit(m.Run())
	}

	postgres, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Name:       pgContainerName,
		Repository: "postgres",
		Tag:        "15",
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", pgTestUser),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", pgTestPassword),
			fmt.Sprintf("POSTGRES_DB=%s", pgTestDB),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"5432/tcp": {{HostIP: "localhost", HostPort: fmt.Sprintf("%s/tcp", pgPort)}},
		},
	})
	if err != nil {
		logrus.Fatalf("failed to start postgresql - %v", err)
	}

	pgUri := fmt.Sprintf("postgres://%s:%s@localhost:%s/%s?sslmode=disable&pool_max_conns=2", pgTestUser, pgTestPassword, pgPort, pgTestDB)
	err = dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()

		var err error
		pgPool, err = pgxpool.Connect(ctx, pgUri)
		if err != nil {
			return err
		}
		return pgPool.Ping(ctx)
	})
	if err != nil {
		logrus.Fatalf("failed to establish connection to postgresql - %v", err)
	}

	code := m.Run()

	pgPool.Close()
	if err := dockerPool.Purge(postgres); err != nil {
		logrus.Fatalf("failed to purge postgresql - %v", err)
	}
	os.Exit(code)
}

type channelPublisher chan Envelope

func (p channelPublisher) Publish(env Envelope) {
	p <- env
}

func TestPgListener(t *testing.T) {
	if pgPool == nil {
		t.Skip("postgresql is not available")
	}

	published := make(channelPublisher, 16)
	listener := NewPgListener(pgPool, published, TableCustomers)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- listener.Listen(ctx)
	}()

	t.Log("committed notification is published")
	{
		payload := `{"table":"customers","type":"UPDATE","record":` + string(customerJSON(4)) + `}`
		require.Eventually(t, func() bool {
			if _, err := pgPool.Exec(context.Background(), "SELECT pg_notify($1, $2)", TableCustomers, payload); err != nil {
				return false
			}
			select {
			case env := <-published:
				return env.Table == TableCustomers && env.Type == OpUpdate
			case <-time.After(100 * time.Millisecond):
				return false
			}
		}, 10*time.Second, 200*time.Millisecond)
	}

	t.Log("listener stops with context")
	{
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			require.Fail(t, "listener didn't stop")
		}
	}

	t.Log("pooled connections don't keep subscriptions after listener stops")
	{
		conns := pgPool.AcquireAllIdle(context.Background())
		require.NotEmpty(t, conns)
		for _, conn := range conns {
			var listening int
			err := conn.QueryRow(context.Background(), "SELECT count(*) FROM pg_listening_channels()").Scan(&listening)
			conn.Release()
			require.NoError(t, err)
			require.Zero(t, listening, "connection returned to pool is still subscribed")
		}
	}
}
