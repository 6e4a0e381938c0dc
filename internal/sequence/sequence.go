package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSessionActive is returned by Start when the user already has a session.
	ErrSessionActive = errors.New("sequence already active")
	// ErrNoSession is returned by End when the user has no session.
	ErrNoSession = errors.New("no active sequence")
	// ErrSessionEmpty is returned by End when the session collected no files.
	ErrSessionEmpty = errors.New("no files received in sequence")
)

// File is one entry collected during a session.
type File struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
}

// Session is the persisted state of one user's active sequence.
type Session struct {
	UserID     int64
	ChatID     int64
	Files      []File
	MessageIDs []int64
	StartedAt  time.Time
}

// Store persists sessions. Implementations must apply each call atomically.
type Store interface {
	// Begin creates a session and reports false when one already exists.
	Begin(ctx context.Context, userID, chatID int64) (bool, error)
	// Append adds a file and reports false when no session exists.
	Append(ctx context.Context, userID int64, file File) (bool, error)
	// AddMessage records a transient message to delete when the session ends.
	AddMessage(ctx context.Context, userID, messageID int64) error
	// Pop removes and returns the session.
	Pop(ctx context.Context, userID int64) (Session, bool, error)
	// Get returns the session without modifying it.
	Get(ctx context.Context, userID int64) (Session, bool, error)
}

// Channel delivers replies and files back to the user.
type Channel interface {
	Reply(ctx context.Context, chatID int64, text string) (int64, error)
	SendFile(ctx context.Context, chatID int64, fileID, caption string) error
	DeleteMessages(ctx context.Context, chatID int64, ids []int64) error
}

// RateLimitError is returned by Channel.SendFile when the remote side asks the
// sender to back off.
type RateLimitError struct {
	Wait time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: retry after %s", e.Wait)
}

// Clock abstracts waiting so tests can observe pacing.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RealClock sleeps on wall-clock time.
func RealClock() Clock { return realClock{} }

// User-facing notices.
const (
	NoticeStarted = "**Sequence started! Send your files...**"
	NoticeActive  = "**A sequence is already active! Use end to finish it.**"
	NoticeNone    = "**No active sequence found!**\n**Use start to begin one.**"
	NoticeEmpty   = "**No files received in this sequence!**"
	NoticeFailed  = "**Failed to process sequence! Check logs for details.**"
)

// Notice returns the message shown to the user for a Batcher error.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSessionActive):
		return NoticeActive
	case errors.Is(err, ErrNoSession):
		return NoticeNone
	case errors.Is(err, ErrSessionEmpty):
		return NoticeEmpty
	default:
		return NoticeFailed
	}
}

// SendingNotice announces a dispatch of n files.
func SendingNotice(n int) string {
	return fmt.Sprintf("**Sequence completed!\nSending %d files in order...**", n)
}

// Caption is the caption attached to each dispatched file.
func Caption(name string) string {
	return "**" + name + "**"
}
