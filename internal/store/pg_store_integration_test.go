package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	cerrors "github.com/prasit/catalog_service/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "CATALOG_SKIP_INTEGRATION_TESTS"

// ProductStoreSuite exercises PgStore against a real PostgreSQL container.
type ProductStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       ProductStore
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite starts a PostgreSQL container, applies migrations and builds the store.
func (s *ProductStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dbName := "catalog"
	dbUser := "user"
	dbPassword := "password"

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	wd, _ := os.Getwd()
	migrationsPath := filepath.Join(wd, "..", "..", "migrations")
	m, err := migrate.New("file://"+migrationsPath, connStr)
	require.NoError(s.T(), err, "Failed to create migrate instance")
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		_, _ = m.Close()
		require.NoError(s.T(), err, "Failed to apply migrations")
	}
	s.logger.Info("Migrations applied for integration tests")

	s.store = NewPgStore(s.dbPool)
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *ProductStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest truncates the products table so every test starts clean.
func (s *ProductStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE products RESTART IDENTITY")
	require.NoError(s.T(), err, "Failed to truncate products table")
}

func (s *ProductStoreSuite) insert(code, name string, price float64, imageFilename *string) *Product {
	p, err := s.store.Insert(s.ctx, InsertParams{
		ProductCode:   code,
		Name:          name,
		Price:         price,
		ImageFilename: imageFilename,
		CreatedAt:     time.Now().UTC(),
	})
	require.NoError(s.T(), err)
	return p
}

func (s *ProductStoreSuite) TestInsertAndFindByCode() {
	image := "P001.png"
	created := s.insert("P001", "Widget", 9.99, &image)

	assert.NotZero(s.T(), created.ID)
	assert.False(s.T(), created.CreatedAt.IsZero())

	found, err := s.store.FindByCode(s.ctx, "P001")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, found.ID)
	assert.Equal(s.T(), "Widget", found.Name)
	assert.InDelta(s.T(), 9.99, found.Price, 0.0001)
	require.NotNil(s.T(), found.ImageFilename)
	assert.Equal(s.T(), "P001.png", *found.ImageFilename)
	assert.WithinDuration(s.T(), created.CreatedAt, found.CreatedAt, time.Millisecond)
}

func (s *ProductStoreSuite) TestFindByCodeNotFound() {
	_, err := s.store.FindByCode(s.ctx, "GHOST")
	assert.ErrorIs(s.T(), err, cerrors.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestInsertDuplicateCode() {
	s.insert("P001", "Widget", 9.99, nil)

	_, err := s.store.Insert(s.ctx, InsertParams{
		ProductCode: "P001",
		Name:        "Copy",
		Price:       1,
		CreatedAt:   time.Now().UTC(),
	})
	assert.ErrorIs(s.T(), err, cerrors.ErrDuplicateCode)

	// exactly one live record per code
	list, err := s.store.FindAll(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 1)
}

func (s *ProductStoreSuite) TestFindAllOrderedNewestFirst() {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, p := range []InsertParams{
		{ProductCode: "OLD", Name: "Oldest", Price: 1, CreatedAt: base},
		{ProductCode: "TIE1", Name: "First of tie", Price: 2, CreatedAt: base.Add(time.Hour)},
		{ProductCode: "TIE2", Name: "Second of tie", Price: 3, CreatedAt: base.Add(time.Hour)},
	} {
		_, err := s.store.Insert(s.ctx, p)
		require.NoError(s.T(), err)
	}

	list, err := s.store.FindAll(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 3)
	assert.Equal(s.T(), "TIE2", list[0].ProductCode)
	assert.Equal(s.T(), "TIE1", list[1].ProductCode)
	assert.Equal(s.T(), "OLD", list[2].ProductCode)
}

func (s *ProductStoreSuite) TestFindAllEmpty() {
	list, err := s.store.FindAll(s.ctx)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), list)
}

func (s *ProductStoreSuite) TestDeleteByCode() {
	s.insert("P001", "Widget", 9.99, nil)

	require.NoError(s.T(), s.store.DeleteByCode(s.ctx, "P001"))

	_, err := s.store.FindByCode(s.ctx, "P001")
	assert.ErrorIs(s.T(), err, cerrors.ErrProductNotFound)

	// deleting again reports not-found rather than failing hard
	assert.ErrorIs(s.T(), s.store.DeleteByCode(s.ctx, "P001"), cerrors.ErrProductNotFound)
}

func TestProductStoreSuite(t *testing.T) {
	if os.Getenv(skipIntegrationTests) != "" {
		t.Skip("Skipping integration tests")
	}
	suite.Run(t, new(ProductStoreSuite))
}
