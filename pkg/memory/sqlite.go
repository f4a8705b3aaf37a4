// Персистентная память на SQLite.
package memory

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ilkoid/kimono-ai/pkg/llm"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session    TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session, id);
`

// SQLite — память диалога, переживающая перезапуск процесса.
//
// Одна база может хранить несколько бесед, разделённых session.
// Пара (human, ai) пишется в одной транзакции: либо оба сообщения,
// либо ни одного.
type SQLite struct {
	db      *sql.DB
	session string
}

// NewSQLite открывает (и при необходимости инициализирует) базу.
//
// path — путь к файлу базы или ":memory:" для тестов.
func NewSQLite(path, session string) (*SQLite, error) {
	if session == "" {
		return nil, fmt.Errorf("sqlite memory: session must not be empty")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite memory: open %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite memory: init schema: %w", err)
	}

	return &SQLite{db: db, session: session}, nil
}

// Load возвращает историю беседы в порядке записи.
func (s *SQLite) Load(ctx context.Context) ([]llm.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM messages WHERE session = ? ORDER BY id`,
		s.session)
	if err != nil {
		return nil, fmt.Errorf("sqlite memory: load: %w", err)
	}
	defer rows.Close()

	var messages []llm.Message
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("sqlite memory: scan: %w", err)
		}
		messages = append(messages, llm.Message{Role: llm.Role(role), Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite memory: rows: %w", err)
	}
	return messages, nil
}

// Save пишет пару реплик в одной транзакции.
func (s *SQLite) Save(ctx context.Context, human, ai llm.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite memory: begin: %w", err)
	}

	const insert = `INSERT INTO messages (session, role, content) VALUES (?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insert, s.session, string(human.Role), human.Content); err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite memory: insert human turn: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insert, s.session, string(ai.Role), ai.Content); err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite memory: insert ai turn: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite memory: commit: %w", err)
	}
	return nil
}

// Clear удаляет историю текущей беседы.
func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM messages WHERE session = ?`, s.session); err != nil {
		return fmt.Errorf("sqlite memory: clear: %w", err)
	}
	return nil
}

// Close закрывает соединение с базой.
func (s *SQLite) Close() error {
	return s.db.Close()
}

var _ Memory = (*SQLite)(nil)
