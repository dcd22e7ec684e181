// Package forwarder copies a source message into destination chats one at a
// time. Each destination is independent: a failure is logged, journaled and
// reported, and the remaining destinations are still attempted.
package forwarder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/edgard/relaybot/internal/database"
	"github.com/edgard/relaybot/internal/logger"
	"github.com/edgard/relaybot/internal/registry"
)

// Copier is the platform primitive used to re-post a message. *bot.Bot satisfies it.
type Copier interface {
	CopyMessage(ctx context.Context, params *bot.CopyMessageParams) (*models.MessageID, error)
}

// Journal receives one record per copy attempt.
type Journal interface {
	RecordDelivery(ctx context.Context, d *database.Delivery) error
}

// SourceRef identifies the message to copy.
type SourceRef struct {
	ChatID    int64
	MessageID int
}

// Outcome is the result of copying into one destination.
type Outcome struct {
	Target          registry.Entry
	CopiedMessageID int
	Err             error
}

// OK reports whether the copy succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Report collects the outcomes of one Forward call in target order.
type Report struct {
	BatchID  string
	Source   SourceRef
	Outcomes []Outcome
}

// Succeeded returns the outcomes that were delivered.
func (r Report) Succeeded() []Outcome {
	return r.filter(true)
}

// Failed returns the outcomes that were not delivered.
func (r Report) Failed() []Outcome {
	return r.filter(false)
}

func (r Report) filter(ok bool) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.OK() == ok {
			out = append(out, o)
		}
	}
	return out
}

// Options tunes a Forwarder. Zero values fall back to defaults.
type Options struct {
	// RatePerSecond caps copy calls per second across all Forward calls.
	RatePerSecond int
	// CopyTimeout bounds a single copy call.
	CopyTimeout time.Duration
	// Journal, when set, records every attempt.
	Journal Journal
}

const (
	defaultRatePerSecond = 20
	defaultCopyTimeout   = 15 * time.Second
)

// Forwarder fans a message out to destinations sequentially.
type Forwarder struct {
	copier      Copier
	journal     Journal
	limiter     *rate.Limiter
	copyTimeout time.Duration
	logger      *slog.Logger
	newBatchID  func() string
}

// New builds a Forwarder around copier.
func New(copier Copier, log *slog.Logger, opts Options) *Forwarder {
	if log == nil {
		log = logger.Discard()
	}
	rps := opts.RatePerSecond
	if rps <= 0 {
		rps = defaultRatePerSecond
	}
	timeout := opts.CopyTimeout
	if timeout <= 0 {
		timeout = defaultCopyTimeout
	}

	return &Forwarder{
		copier:      copier,
		journal:     opts.Journal,
		limiter:     rate.NewLimiter(rate.Limit(rps), rps),
		copyTimeout: timeout,
		logger:      log.With("component", "forwarder"),
		newBatchID:  uuid.NewString,
	}
}

// Forward copies src into every target in order and returns one Outcome per target.
// It never stops early on a failed destination. If ctx is cancelled the
// remaining destinations are reported with the context error.
func (f *Forwarder) Forward(ctx context.Context, src SourceRef, targets []registry.Entry) Report {
	report := Report{
		BatchID:  f.newBatchID(),
		Source:   src,
		Outcomes: make([]Outcome, 0, len(targets)),
	}
	log := f.logger.With("batch_id", report.BatchID, "from_chat_id", src.ChatID, "message_id", src.MessageID)
	log.InfoContext(ctx, "Forwarding message", "targets", len(targets))

	for _, target := range targets {
		outcome := f.copyOne(ctx, src, target)
		if outcome.OK() {
			log.InfoContext(ctx, "Successfully forwarded message to target",
				"target_chat_id", target.ID, "target_name", target.Name, "copied_message_id", outcome.CopiedMessageID)
		} else {
			log.ErrorContext(ctx, "Failed to forward message to target",
				"target_chat_id", target.ID, "target_name", target.Name, "error", outcome.Err)
		}
		f.record(ctx, report.BatchID, src, outcome)
		report.Outcomes = append(report.Outcomes, outcome)
	}

	log.InfoContext(ctx, "Finished forwarding message",
		"targets", len(targets), "failed", len(report.Failed()))
	return report
}

func (f *Forwarder) copyOne(ctx context.Context, src SourceRef, target registry.Entry) Outcome {
	outcome := Outcome{Target: target}

	if err := f.limiter.Wait(ctx); err != nil {
		outcome.Err = fmt.Errorf("rate limiter: %w", err)
		return outcome
	}

	copyCtx, cancel := context.WithTimeout(ctx, f.copyTimeout)
	defer cancel()

	msgID, err := f.copier.CopyMessage(copyCtx, &bot.CopyMessageParams{
		ChatID:     target.ID,
		FromChatID: src.ChatID,
		MessageID:  src.MessageID,
	})
	if err != nil {
		outcome.Err = err
		return outcome
	}
	if msgID != nil {
		outcome.CopiedMessageID = msgID.ID
	}
	return outcome
}

func (f *Forwarder) record(ctx context.Context, batchID string, src SourceRef, outcome Outcome) {
	if f.journal == nil {
		return
	}

	d := &database.Delivery{
		BatchID:         batchID,
		SourceChatID:    src.ChatID,
		SourceMessageID: src.MessageID,
		TargetChatID:    outcome.Target.ID,
		TargetName:      outcome.Target.Name,
		CopiedMessageID: outcome.CopiedMessageID,
		Success:         outcome.OK(),
	}
	if outcome.Err != nil {
		d.Error = outcome.Err.Error()
	}

	// Journal even when the command context was cancelled mid-broadcast.
	if err := f.journal.RecordDelivery(context.WithoutCancel(ctx), d); err != nil {
		f.logger.WarnContext(ctx, "Failed to journal delivery",
			"batch_id", batchID, "target_chat_id", outcome.Target.ID, "error", err)
	}
}
