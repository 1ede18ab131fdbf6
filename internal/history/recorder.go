package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/FluidXR/adbctl/internal/adb"
)

// Recorder is an adb.Runner that stores every invocation it forwards.
type Recorder struct {
	next    adb.Runner
	db      *DB
	session string
	logger  zerolog.Logger
}

// NewRecorder wraps next. All commands it records share one session ID.
func NewRecorder(next adb.Runner, db *DB, logger zerolog.Logger) *Recorder {
	return &Recorder{next: next, db: db, session: uuid.NewString(), logger: logger}
}

// Session returns the ID attached to commands recorded by r.
func (r *Recorder) Session() string {
	return r.session
}

func (r *Recorder) Run(ctx context.Context, args []string) (string, error) {
	start := time.Now()
	out, err := r.next.Run(ctx, args)

	serial, rest := adb.SplitSerial(args)
	c := Command{
		Session:   r.session,
		Serial:    serial,
		Args:      rest,
		Output:    out,
		StartedAt: start,
		Duration:  time.Since(start),
	}
	if err != nil {
		c.Status = -1
		c.Error = err.Error()
		var failed *adb.CommandFailedError
		if errors.As(err, &failed) {
			c.Status = failed.Status
		}
	}
	if _, rerr := r.db.RecordCommand(c); rerr != nil {
		r.logger.Warn().Err(rerr).Msg("could not record adb command")
	}
	return out, err
}
