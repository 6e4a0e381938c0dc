package sequence

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Mythic-botz/Rename/internal/logging"
	"github.com/Mythic-botz/Rename/internal/services"
)

const (
	defaultPacing         = 500 * time.Millisecond
	defaultRateLimitGrace = time.Second
)

// Options configures a Batcher. Zero values select the defaults.
type Options struct {
	Pacing         time.Duration
	RateLimitGrace time.Duration
	Clock          Clock
	Logger         *slog.Logger
}

// Report summarizes one dispatched session.
type Report struct {
	Total  int
	Sent   int
	Failed int
	Order  []File
}

// Batcher drives sequence sessions.
type Batcher struct {
	store   Store
	channel Channel
	clock   Clock
	logger  *slog.Logger
	pacing  time.Duration
	grace   time.Duration

	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewBatcher constructs a Batcher.
func NewBatcher(store Store, channel Channel, opts Options) *Batcher {
	b := &Batcher{
		store:   store,
		channel: channel,
		clock:   opts.Clock,
		logger:  logging.NewComponentLogger(opts.Logger, "sequence"),
		pacing:  opts.Pacing,
		grace:   opts.RateLimitGrace,
		locks:   make(map[int64]*userLock),
	}
	if b.clock == nil {
		b.clock = RealClock()
	}
	if b.pacing == 0 {
		b.pacing = defaultPacing
	}
	if b.grace == 0 {
		b.grace = defaultRateLimitGrace
	}
	return b
}

func (b *Batcher) lock(userID int64) func() {
	b.mu.Lock()
	l, ok := b.locks[userID]
	if !ok {
		l = &userLock{}
		b.locks[userID] = l
	}
	l.refs++
	b.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		b.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(b.locks, userID)
		}
		b.mu.Unlock()
	}
}

// Start opens a session for userID and posts the start notice to chatID.
func (b *Batcher) Start(ctx context.Context, chatID, userID int64) error {
	unlock := b.lock(userID)
	defer unlock()
	ctx = services.WithUserID(services.WithStage(ctx, "sequence"), userID)

	created, err := b.store.Begin(ctx, userID, chatID)
	if err != nil {
		return services.Wrap(services.ErrTransient, "sequence", "start", "", err)
	}
	if !created {
		return ErrSessionActive
	}

	msgID, err := b.channel.Reply(ctx, chatID, NoticeStarted)
	if err != nil {
		logging.WithContext(ctx, b.logger).Warn("start notice not delivered", logging.Error(err))
		return nil
	}
	if err := b.store.AddMessage(ctx, userID, msgID); err != nil {
		logging.WithContext(ctx, b.logger).Warn("start notice not recorded", logging.Error(err))
	}
	logging.WithContext(ctx, b.logger).Info("sequence started")
	return nil
}

// Add appends file to the user's session. It reports false when the user has
// no session, in which case the caller handles the file normally.
func (b *Batcher) Add(ctx context.Context, userID int64, file File) (bool, error) {
	unlock := b.lock(userID)
	defer unlock()

	added, err := b.store.Append(ctx, userID, file)
	if err != nil {
		return false, services.Wrap(services.ErrTransient, "sequence", "add", file.FileName, err)
	}
	if added {
		logging.WithContext(services.WithUserID(ctx, userID), b.logger).Debug("file queued in sequence",
			logging.String(logging.FieldFile, file.FileName),
		)
	}
	return added, nil
}

// Show returns the user's current session.
func (b *Batcher) Show(ctx context.Context, userID int64) (Session, bool, error) {
	unlock := b.lock(userID)
	defer unlock()
	return b.store.Get(ctx, userID)
}

// End closes the user's session and sends its files in canonical order.
// ErrNoSession and ErrSessionEmpty are returned without contacting the
// channel; the caller shows Notice(err).
func (b *Batcher) End(ctx context.Context, chatID, userID int64) (Report, error) {
	unlock := b.lock(userID)
	defer unlock()
	ctx = services.WithUserID(services.WithStage(ctx, "sequence"), userID)
	logger := logging.WithContext(ctx, b.logger)

	session, ok, err := b.store.Pop(ctx, userID)
	if err != nil {
		return Report{}, services.Wrap(services.ErrTransient, "sequence", "end", "", err)
	}
	if !ok {
		return Report{}, ErrNoSession
	}
	if len(session.Files) == 0 {
		return Report{}, ErrSessionEmpty
	}

	ordered := Sort(session.Files)
	report := Report{Total: len(ordered), Order: ordered}
	if _, err := b.channel.Reply(ctx, chatID, SendingNotice(len(ordered))); err != nil {
		logger.Warn("sending notice not delivered", logging.Error(err))
	}

	for i, file := range ordered {
		if err := b.send(ctx, chatID, file); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Failed++
			logger.Error("sequence file not sent",
				logging.String(logging.FieldFile, file.FileName),
				logging.Error(err),
			)
			continue
		}
		report.Sent++
		if i < len(ordered)-1 {
			if err := b.clock.Sleep(ctx, b.pacing); err != nil {
				return report, err
			}
		}
	}

	if len(session.MessageIDs) > 0 {
		if err := b.channel.DeleteMessages(ctx, chatID, session.MessageIDs); err != nil {
			logger.Warn("transient messages not deleted", logging.Error(err))
		}
	}
	logger.Info("sequence dispatched",
		logging.Int("sent", report.Sent),
		logging.Int("failed", report.Failed),
	)
	return report, nil
}

// send delivers one file, waiting out rate limits for as long as the remote
// side keeps asking.
func (b *Batcher) send(ctx context.Context, chatID int64, file File) error {
	for {
		err := b.channel.SendFile(ctx, chatID, file.FileID, Caption(file.FileName))
		var limited *RateLimitError
		if !errors.As(err, &limited) {
			return err
		}
		wait := limited.Wait + b.grace
		logging.WithContext(ctx, b.logger).Warn("rate limited; retrying",
			logging.String(logging.FieldFile, file.FileName),
			logging.Duration("wait", wait),
		)
		if err := b.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}
