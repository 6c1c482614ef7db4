package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const queryTimeout = 2 * time.Second

// PostgresWords draws candidate words from the words table.
type PostgresWords struct {
	pool *pgxpool.Pool
}

func NewPostgresWords(ctx context.Context, connString string) (*PostgresWords, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresWords{pool: pool}, nil
}

func (pw *PostgresWords) Close() {
	pw.pool.Close()
}

// Generate implements game.RandomWordsGenerator. It returns up to count
// random words of the language, or an empty slice if the query fails.
func (pw *PostgresWords) Generate(lang, count int) []string {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := pw.pool.Query(ctx, `SELECT word FROM words WHERE lang = $1 ORDER BY RANDOM() LIMIT $2`, lang, count)
	if err != nil {
		log.Error().Err(err).Int("lang", lang).Msg("word query failed")
		return []string{}
	}
	defer rows.Close()

	words := make([]string, 0, count)
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			continue
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Int("lang", lang).Msg("reading words failed")
	}
	return words
}

// AddWords inserts words for a language, skipping ones already present.
func (pw *PostgresWords) AddWords(ctx context.Context, lang int, words []string) error {
	_, err := pw.pool.Exec(ctx,
		`INSERT INTO words(lang, word) SELECT $1, unnest($2::text[]) ON CONFLICT DO NOTHING`,
		lang, words)
	return err
}
