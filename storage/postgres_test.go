//go:build integration

package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Skribblers/skribbler/migrations"
	"github.com/Skribblers/skribbler/storage"
	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var repo *storage.PostgresWords

func TestMain(m *testing.M) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine3.22",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testusername"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithHostConfigModifier(func(hostConfig *container.HostConfig) {
			hostConfig.Tmpfs = map[string]string{"/var/lib/postgresql/data": "rw"}
		}),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		panic(err)
	}

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	if err := migrations.Migrate(connString); err != nil {
		panic(err)
	}

	repo, err = storage.NewPostgresWords(ctx, connString)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	repo.Close()
	postgresContainer.Terminate(ctx)
	os.Exit(code)
}

func allWords(t *testing.T, lang int) []string {
	t.Helper()
	rows, err := repo.Pool().Query(context.Background(), "SELECT word FROM words WHERE lang = $1", lang)
	require.NoError(t, err)
	defer rows.Close()

	var words []string
	for rows.Next() {
		var word string
		require.NoError(t, rows.Scan(&word))
		words = append(words, word)
	}
	require.NoError(t, rows.Err())
	return words
}

func TestGenerate(t *testing.T) {
	t.Run("seeded words are random and unique", func(t *testing.T) {
		words := repo.Generate(0, 5)
		assert.Len(t, words, 5)

		seen := map[string]bool{}
		for _, w := range words {
			assert.False(t, seen[w], "duplicate word %s", w)
			assert.NotEmpty(t, w)
			seen[w] = true
		}
		assert.Subset(t, allWords(t, 0), words)
	})

	t.Run("count of 0 returns an empty slice", func(t *testing.T) {
		assert.Empty(t, repo.Generate(0, 0))
	})

	t.Run("more than available", func(t *testing.T) {
		words := repo.Generate(0, 10000)
		assert.NotEmpty(t, words)
		assert.Len(t, words, len(allWords(t, 0)))
	})

	t.Run("languages are separate", func(t *testing.T) {
		assert.Empty(t, repo.Generate(27, 3))

		require.NoError(t, repo.AddWords(context.Background(), 27, []string{"arbre", "maison", "arbre"}))
		assert.ElementsMatch(t, []string{"arbre", "maison"}, repo.Generate(27, 3))
	})
}
