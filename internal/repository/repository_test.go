package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	apperrors "github.com/WeDoCheapies/website/internal/errors"
	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/pkg/db/transactor"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const connectionTimeout = 3 * time.Second

const (
	pgContainerName = "pg-test-carwash"
	pgNetworkName   = "carwash-test-net"
	pgPort          = "5432"
	pgTestUser      = "test"
	pgTestPassword  = "test"
	pgTestDB        = "carwash"
)

var pgPool *pgxpool.Pool

func TestMain(m *testing.M) {
	// build docker pool
	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		logrus.Warnf("docker is not available, repository tests are skipped - %v", err)
		os.Exit(m.Run())
	}

	if err := dockerPool.Client.Ping(); err != nil {
		logrus.Warnf("docker is not available, repository tests are skipped - %v", err)
		os.Exit(m.Run())
	}

	// create network for containers
	network, err := dockerPool.Client.CreateNetwork(docker.CreateNetworkOptions{Name: pgNetworkName})
	if err != nil {
		logrus.Fatalf("failed to create network - %v", err)
	}

	// start postgres
	postgres, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Name:       pgContainerName,
		Repository: "postgres",
		Tag:        "15",
		NetworkID:  network.ID,
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

	// run migrations
	flywayCmd := []string{
		fmt.Sprintf("-url=jdbc:postgresql://%s:%s/%s", pgContainerName, pgPort, pgTestDB),
		fmt.Sprintf("-user=%s", pgTestUser),
		fmt.Sprintf("-password=%s", pgTestPassword),
		"-connectRetries=5",
		"migrate",
	}

	migrationsPath, err := filepath.Abs("../../migrations")
	if err != nil {
		logrus.Fatalf("failed to find migrations path - %v", err)
	}

	flyway, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "flyway/flyway",
		Tag:        "latest",
		NetworkID:  network.ID,
		Cmd:        flywayCmd,
		Mounts:     []string{fmt.Sprintf("%s:/flyway/sql", migrationsPath)},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		logrus.Fatalf("failed to start flyway migrations - %v", err)
	}

	// waiting for flyway container to be destroyed
	err = dockerPool.Retry(func() error {
		if _, ok := dockerPool.ContainerByName(flyway.Container.Name); ok {
			return errors.New("flyway migrations are still in progress")
		}
		return nil
	})
	if err != nil {
		logrus.Fatalf("failed to await flyway migrations - %v", err)
	}

	// connect to postgres
	pgUri := fmt.Sprintf("postgres://%s:%s@localhost:%s/%s?sslmode=disable", pgTestUser, pgTestPassword, pgPort, pgTestDB)
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

	if err := dockerPool.Client.RemoveNetwork(network.ID); err != nil {
		logrus.Fatalf("failed to remove network - %v", err)
	}

	os.Exit(code)
}

type repositories struct {
	customers CustomerRepository
	washTypes WashTypeRepository
	vehicles  VehicleRepository
	washes    WashRepository
}

// setup skips test without database and truncates all tables
func setup(t *testing.T) repositories {
	t.Helper()
	if pgPool == nil {
		t.Skip("postgresql is not available")
	}

	_, err := pgPool.Exec(context.Background(), "TRUNCATE washes, vehicles, wash_types, customers CASCADE")
	require.NoError(t, err)

	trx := transactor.NewPgxWithinTransactionExecutor(pgPool)
	return repositories{
		customers: NewPostgresCustomerRepository(trx),
		washTypes: NewPostgresWashTypeRepository(trx),
		vehicles:  NewPostgresVehicleRepository(trx),
		washes:    NewPostgresWashRepository(trx),
	}
}

func createCustomer(t *testing.T, repo CustomerRepository, washCount int) *model.Customer {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	c := &model.Customer{
		ID:        uuid.NewString(),
		Name:      "Thabo Nkosi",
		Phone:     "+27821234567",
		Email:     "thabo@example.com",
		WashCount: washCount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func createWashType(t *testing.T, repo WashTypeRepository, small, bakkie string) *model.WashType {
	t.Helper()
	now := time.Now().UTC()
	wt := &model.WashType{
		ID:             uuid.NewString(),
		Name:           "Full valet",
		Description:    "Inside and out",
		PriceSmallCar:  decimal.RequireFromString(small),
		PriceBakkieSUV: decimal.RequireFromString(bakkie),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, repo.Create(context.Background(), wt))
	return wt
}

func createWash(t *testing.T, repo WashRepository, customerID string, wt *model.WashType, free bool, performedAt time.Time) *model.Wash {
	t.Helper()
	w := &model.Wash{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		WashTypeID:  wt.ID,
		CarType:     model.CarSizeSmall,
		Price:       wt.PriceSmallCar,
		WasFree:     free,
		PerformedAt: performedAt,
		CreatedAt:   performedAt,
	}
	require.NoError(t, repo.Create(context.Background(), w))
	return w
}

// incrementConcurrently releases n increments of the same customer at once
func incrementConcurrently(t *testing.T, repo CustomerRepository, id string, n int, now time.Time) {
	t.Helper()

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := repo.Increment(context.Background(), id, now); err != nil {
				errs <- err
			}
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

func TestCustomerLedger(t *testing.T) {
	repos := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Log("two terminals adding a wash to the same customer at 4 both count")
	{
		c := createCustomer(t, repos.customers, 4)
		incrementConcurrently(t, repos.customers, c.ID, 2, now)

		stored, err := repos.customers.FindByID(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, 6, stored.WashCount)
		require.NotNil(t, stored.LastVisit)
	}

	t.Log("concurrent increments below threshold are never lost")
	{
		c := createCustomer(t, repos.customers, 0)
		incrementConcurrently(t, repos.customers, c.ID, 5, now)

		stored, err := repos.customers.FindByID(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, 5, stored.WashCount)
	}

	t.Log("concurrent increments never exceed the threshold")
	{
		c := createCustomer(t, repos.customers, 4)
		incrementConcurrently(t, repos.customers, c.ID, 4, now)

		stored, err := repos.customers.FindByID(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, model.FreeWashThreshold, stored.WashCount)
	}

	t.Log("increment reports count before the change")
	{
		c := createCustomer(t, repos.customers, 5)

		change, err := repos.customers.Increment(ctx, c.ID, now)
		require.NoError(t, err)
		require.NotNil(t, change)
		require.Equal(t, 5, change.Before)
		require.Equal(t, 6, change.Customer.WashCount)
		require.True(t, change.EarnedFreeWash())
	}

	t.Log("redemption below threshold changes nothing")
	{
		c := createCustomer(t, repos.customers, 5)

		change, err := repos.customers.Redeem(ctx, c.ID, now)
		require.NoError(t, err)
		require.Nil(t, change)

		stored, err := repos.customers.FindByID(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, 5, stored.WashCount)
		require.Nil(t, stored.LastRedeemedAt)
	}

	t.Log("redemption resets count and stamps redemption time")
	{
		c := createCustomer(t, repos.customers, 6)

		change, err := repos.customers.Redeem(ctx, c.ID, now)
		require.NoError(t, err)
		require.NotNil(t, change)
		require.Equal(t, 6, change.Before)
		require.Zero(t, change.Customer.WashCount)
		require.NotNil(t, change.Customer.LastRedeemedAt)
	}

	t.Log("decrement stops at zero")
	{
		c := createCustomer(t, repos.customers, 1)

		change, err := repos.customers.Decrement(ctx, c.ID, now)
		require.NoError(t, err)
		require.NotNil(t, change)
		require.Zero(t, change.Customer.WashCount)

		change, err = repos.customers.Decrement(ctx, c.ID, now)
		require.NoError(t, err)
		require.Nil(t, change)
	}

	t.Log("adjusting missing customer returns nil change")
	{
		change, err := repos.customers.Increment(ctx, uuid.NewString(), now)
		require.NoError(t, err)
		require.Nil(t, change)
	}
}

func TestCustomerRecount(t *testing.T) {
	repos := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	wt := createWashType(t, repos.washTypes, "80.00", "120.00")

	t.Log("only paid washes after last redemption are counted")
	{
		c := createCustomer(t, repos.customers, 0)

		// two paid washes before redemption must not count
		createWash(t, repos.washes, c.ID, wt, false, now.Add(-72*time.Hour))
		createWash(t, repos.washes, c.ID, wt, false, now.Add(-71*time.Hour))
		createWash(t, repos.washes, c.ID, wt, true, now.Add(-48*time.Hour))

		_, err := pgPool.Exec(ctx, "UPDATE customers SET last_redeemed_at = $2 WHERE id = $1", c.ID, now.Add(-48*time.Hour))
		require.NoError(t, err)

		createWash(t, repos.washes, c.ID, wt, false, now.Add(-24*time.Hour))
		createWash(t, repos.washes, c.ID, wt, false, now.Add(-time.Hour))

		change, err := repos.customers.Recount(ctx, c.ID, now)
		require.NoError(t, err)
		require.NotNil(t, change)
		require.Equal(t, 2, change.Customer.WashCount)
	}

	t.Log("recount is capped at threshold")
	{
		c := createCustomer(t, repos.customers, 0)
		for i := 0; i < 8; i++ {
			createWash(t, repos.washes, c.ID, wt, false, now.Add(-time.Duration(i+1)*time.Hour))
		}

		change, err := repos.customers.Recount(ctx, c.ID, now)
		require.NoError(t, err)
		require.Equal(t, model.FreeWashThreshold, change.Customer.WashCount)
	}
}

func TestCustomerProfile(t *testing.T) {
	repos := setup(t)
	ctx := context.Background()

	t.Log("profile update keeps wash count")
	{
		c := createCustomer(t, repos.customers, 3)
		reg := "CA 123-456"

		updated, err := repos.customers.UpdateProfile(ctx, c.ID, model.CustomerProfile{
			Name:            "Thabo M. Nkosi",
			Phone:           c.Phone,
			Email:           "thabo.nkosi@example.com",
			CarRegistration: &reg,
		}, time.Now().UTC())
		require.NoError(t, err)
		require.NotNil(t, updated)
		require.Equal(t, "Thabo M. Nkosi", updated.Name)
		require.Equal(t, reg, *updated.CarRegistration)
		require.Equal(t, 3, updated.WashCount)
	}

	t.Log("update of missing customer returns nil")
	{
		updated, err := repos.customers.UpdateProfile(ctx, uuid.NewString(), model.CustomerProfile{Name: "nobody"}, time.Now().UTC())
		require.NoError(t, err)
		require.Nil(t, updated)
	}

	t.Log("customer delete cascades to vehicles and washes")
	{
		wt := createWashType(t, repos.washTypes, "80.00", "120.00")
		c := createCustomer(t, repos.customers, 1)
		w := createWash(t, repos.washes, c.ID, wt, false, time.Now().UTC())

		deleted, err := repos.customers.DeleteByID(ctx, c.ID)
		require.NoError(t, err)
		require.True(t, deleted)

		stored, err := repos.washes.FindByID(ctx, w.ID)
		require.NoError(t, err)
		require.Nil(t, stored)

		deleted, err = repos.customers.DeleteByID(ctx, c.ID)
		require.NoError(t, err)
		require.False(t, deleted)
	}
}

func TestWashPriceSnapshot(t *testing.T) {
	repos := setup(t)
	ctx := context.Background()

	wt := createWashType(t, repos.washTypes, "80.00", "120.00")
	c := createCustomer(t, repos.customers, 0)
	w := createWash(t, repos.washes, c.ID, wt, false, time.Now().UTC())

	t.Log("catalog price change doesn't touch recorded wash")
	{
		wt.PriceSmallCar = decimal.RequireFromString("95.00")
		wt.UpdatedAt = time.Now().UTC()
		updated, err := repos.washTypes.Update(ctx, wt)
		require.NoError(t, err)
		require.NotNil(t, updated)

		stored, err := repos.washes.FindByID(ctx, w.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.True(t, decimal.RequireFromString("80.00").Equal(stored.Price))
		require.True(t, decimal.RequireFromString("95.00").Equal(stored.WashType.PriceSmallCar))
		require.Nil(t, stored.Vehicle)
	}

	t.Log("wash of unknown wash type is rejected")
	{
		missing := &model.WashType{ID: uuid.NewString(), PriceSmallCar: decimal.RequireFromString("10.00")}
		err := repos.washes.Create(ctx, &model.Wash{
			ID:          uuid.NewString(),
			CustomerID:  c.ID,
			WashTypeID:  missing.ID,
			CarType:     model.CarSizeSmall,
			Price:       missing.PriceSmallCar,
			PerformedAt: time.Now().UTC(),
			CreatedAt:   time.Now().UTC(),
		})
		require.ErrorIs(t, err, apperrors.ErrCatalogEntryMissing)
	}

	t.Log("referenced wash type can't be deleted")
	{
		deleted, err := repos.washTypes.DeleteByID(ctx, wt.ID)
		require.ErrorIs(t, err, apperrors.ErrWashTypeInUse)
		require.False(t, deleted)
	}

	t.Log("history is ordered newest first")
	{
		older := createWash(t, repos.washes, c.ID, wt, false, time.Now().UTC().Add(-time.Hour))

		history, err := repos.washes.FindByCustomer(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		require.Equal(t, w.ID, history[0].ID)
		require.Equal(t, older.ID, history[1].ID)
	}
}

func TestVehiclePrimary(t *testing.T) {
	repos := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	c := createCustomer(t, repos.customers, 0)
	newVehicle := func(primary bool) *model.Vehicle {
		return &model.Vehicle{
			ID:           uuid.NewString(),
			CustomerID:   c.ID,
			Registration: "GP " + uuid.NewString()[:6],
			IsPrimary:    primary,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	first := newVehicle(true)
	require.NoError(t, repos.vehicles.Create(ctx, first))

	t.Log("second primary vehicle violates single primary index")
	{
		err := repos.vehicles.Create(ctx, newVehicle(true))
		require.ErrorIs(t, err, apperrors.ErrPrimaryVehicleTaken)
	}

	t.Log("primary flag is moved between vehicles")
	{
		second := newVehicle(false)
		require.NoError(t, repos.vehicles.Create(ctx, second))

		require.NoError(t, repos.vehicles.UnsetPrimary(ctx, c.ID, second.ID, now))
		ok, err := repos.vehicles.SetPrimary(ctx, second.ID, now)
		require.NoError(t, err)
		require.True(t, ok)

		vehicles, err := repos.vehicles.FindByCustomer(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, vehicles, 2)

		primaries := 0
		for _, v := range vehicles {
			if v.IsPrimary {
				primaries++
				require.Equal(t, second.ID, v.ID)
			}
		}
		require.Equal(t, 1, primaries)

		count, err := repos.vehicles.CountByCustomer(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, 2, count)
	}

	t.Log("washes keep history when vehicle is deleted")
	{
		wt := createWashType(t, repos.washTypes, "80.00", "120.00")
		w := createWash(t, repos.washes, c.ID, wt, false, now)
		_, err := pgPool.Exec(ctx, "UPDATE washes SET vehicle_id = $2 WHERE id = $1", w.ID, first.ID)
		require.NoError(t, err)

		deleted, err := repos.vehicles.DeleteByID(ctx, first.ID)
		require.NoError(t, err)
		require.True(t, deleted)

		stored, err := repos.washes.FindByID(ctx, w.ID)
		require.NoError(t, err)
		require.Nil(t, stored.VehicleID)
		require.Nil(t, stored.Vehicle)
	}
}
