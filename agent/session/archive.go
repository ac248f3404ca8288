package session

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// TranscriptRow is one archived message. Unlike the TTL-bounded session
// store, the archive is append-only and never expires.
type TranscriptRow struct {
	bun.BaseModel `bun:"table:transcripts,alias:t"`

	ID        int64     `bun:"id,pk,autoincrement"`
	SessionID string    `bun:"session_id,notnull"`
	Role      string    `bun:"role,notnull"`
	Content   string    `bun:"content,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

type ArchiveConfig struct {
	URL     string        `envconfig:"URL" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

// TranscriptArchive persists completed rounds to Postgres. It is best-effort
// by contract: callers log archive errors and never fail the request on them.
type TranscriptArchive struct {
	db      *bun.DB
	timeout time.Duration
	now     func() time.Time
}

func NewTranscriptArchive(cfg ArchiveConfig) (*TranscriptArchive, error) {
	dsn := strings.TrimSpace(cfg.URL)
	if dsn == "" {
		return nil, errors.New("archive database url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	return &TranscriptArchive{
		db:      db,
		timeout: timeout,
		now:     time.Now,
	}, nil
}

// Init creates the transcripts table when it does not exist yet.
func (a *TranscriptArchive) Init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	_, err := a.db.NewCreateTable().
		Model((*TranscriptRow)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// ArchiveRound inserts both messages of a round in one statement.
func (a *TranscriptArchive) ArchiveRound(ctx context.Context, sessionID string, user, assistant Message) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}

	now := a.now().UTC()
	rows := []TranscriptRow{
		{SessionID: sessionID, Role: string(user.Role), Content: user.Content, CreatedAt: now},
		{SessionID: sessionID, Role: string(assistant.Role), Content: assistant.Content, CreatedAt: now},
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	_, err := a.db.NewInsert().Model(&rows).Exec(ctx)
	return err
}

func (a *TranscriptArchive) Close() error {
	return a.db.Close()
}
