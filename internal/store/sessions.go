package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Mythic-botz/Rename/internal/sequence"
)

// Begin creates a session for userID and reports false when one already exists.
func (s *Store) Begin(ctx context.Context, userID, chatID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sequence_sessions (user_id, chat_id, started_at) VALUES (?, ?, ?)
         ON CONFLICT(user_id) DO NOTHING`,
		userID, chatID, s.timestamp(),
	)
	if err != nil {
		return false, fmt.Errorf("insert session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("session rows affected: %w", err)
	}
	return affected == 1, nil
}

// Append adds file to the user's session and reports false when there is none.
func (s *Store) Append(ctx context.Context, userID int64, file sequence.File) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sequence_files (user_id, file_id, file_name)
         SELECT ?, ?, ? WHERE EXISTS (SELECT 1 FROM sequence_sessions WHERE user_id = ?)`,
		userID, file.FileID, file.FileName, userID,
	)
	if err != nil {
		return false, fmt.Errorf("insert session file: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("file rows affected: %w", err)
	}
	return affected == 1, nil
}

// AddMessage records a transient message id for later deletion.
func (s *Store) AddMessage(ctx context.Context, userID, messageID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sequence_messages (user_id, message_id)
         SELECT ?, ? WHERE EXISTS (SELECT 1 FROM sequence_sessions WHERE user_id = ?)`,
		userID, messageID, userID,
	)
	if err != nil {
		return fmt.Errorf("insert session message: %w", err)
	}
	return nil
}

// Get returns the user's session without modifying it.
func (s *Store) Get(ctx context.Context, userID int64) (sequence.Session, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sequence.Session{}, false, fmt.Errorf("begin session read: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	return loadSession(ctx, tx, userID)
}

// Pop removes the user's session and returns what it held. The read and the
// delete share one transaction.
func (s *Store) Pop(ctx context.Context, userID int64) (sequence.Session, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sequence.Session{}, false, fmt.Errorf("begin session pop: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	session, ok, err := loadSession(ctx, tx, userID)
	if err != nil || !ok {
		return session, ok, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sequence_sessions WHERE user_id = ?", userID); err != nil {
		return sequence.Session{}, false, fmt.Errorf("delete session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return sequence.Session{}, false, fmt.Errorf("commit session pop: %w", err)
	}
	return session, true, nil
}

// ActiveSessions lists the users with an open session.
func (s *Store) ActiveSessions(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT user_id FROM sequence_sessions ORDER BY started_at")
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()
	var users []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

func loadSession(ctx context.Context, tx *sql.Tx, userID int64) (sequence.Session, bool, error) {
	var (
		session   = sequence.Session{UserID: userID}
		startedAt string
	)
	err := tx.QueryRowContext(ctx,
		"SELECT chat_id, started_at FROM sequence_sessions WHERE user_id = ?", userID,
	).Scan(&session.ChatID, &startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sequence.Session{}, false, nil
	}
	if err != nil {
		return sequence.Session{}, false, fmt.Errorf("query session: %w", err)
	}
	session.StartedAt = parseTime(startedAt)

	files, err := tx.QueryContext(ctx,
		"SELECT file_id, file_name FROM sequence_files WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return sequence.Session{}, false, fmt.Errorf("query session files: %w", err)
	}
	for files.Next() {
		var f sequence.File
		if err := files.Scan(&f.FileID, &f.FileName); err != nil {
			files.Close()
			return sequence.Session{}, false, fmt.Errorf("scan session file: %w", err)
		}
		session.Files = append(session.Files, f)
	}
	if err := files.Close(); err != nil {
		return sequence.Session{}, false, fmt.Errorf("close session files: %w", err)
	}

	messages, err := tx.QueryContext(ctx,
		"SELECT message_id FROM sequence_messages WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return sequence.Session{}, false, fmt.Errorf("query session messages: %w", err)
	}
	defer messages.Close()
	for messages.Next() {
		var id int64
		if err := messages.Scan(&id); err != nil {
			return sequence.Session{}, false, fmt.Errorf("scan session message: %w", err)
		}
		session.MessageIDs = append(session.MessageIDs, id)
	}
	if err := messages.Err(); err != nil {
		return sequence.Session{}, false, fmt.Errorf("iterate session messages: %w", err)
	}
	return session, true, nil
}

var _ sequence.Store = (*Store)(nil)
