package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/observability/telemetry"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/ports"
)

// Sink receives resolved speech events. Events arrive in completion order,
// each tagged with its ordinal; the client reorders. Send is called from a
// single goroutine.
type Sink interface {
	Send(event domain.SpeechEvent) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(event domain.SpeechEvent) error

func (f SinkFunc) Send(event domain.SpeechEvent) error { return f(event) }

const defaultWorkers = 4

// Orchestrator synthesizes a turn's text segments concurrently on a bounded
// worker pool and pushes each result to the sink as soon as it resolves.
// The stream completes only once every segment has resolved; a failed
// segment does not cancel its siblings and is never retried here.
type Orchestrator struct {
	synth   ports.SpeechSynthesizer
	workers int
	log     *zap.Logger
}

func NewOrchestrator(synth ports.SpeechSynthesizer, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		synth:   synth,
		workers: defaultWorkers,
		log:     log,
	}
}

// Stream fans out synthesis for the ordered segments. It returns nil only
// when every segment synthesized and reached the sink; otherwise the first
// failure is returned after all segments have resolved. Successes already
// delivered are not retracted.
func (o *Orchestrator) Stream(ctx context.Context, segments []string, sink Sink) error {
	if len(segments) == 0 {
		return nil
	}

	jobs := make(chan domain.SpeechTask)
	results := make(chan domain.SpeechTask)

	workers := o.workers
	if workers > len(segments) {
		workers = len(segments)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range jobs {
				started := time.Now()
				audio, err := o.synth.Synthesize(ctx, task.Text)
				telemetry.SpeechTaskDuration.Observe(time.Since(started).Seconds())
				task.Audio = audio
				task.Err = err
				results <- task
			}
		}()
	}

	go func() {
		for i, text := range segments {
			jobs <- domain.SpeechTask{Order: i, Text: text}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for task := range results {
		if task.Err != nil {
			telemetry.SpeechTasksTotal.WithLabelValues("error").Inc()
			o.log.Warn("speech task failed",
				zap.Int("order", task.Order),
				zap.Error(task.Err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("speech: segment %d: %w", task.Order, task.Err)
			}
			continue
		}

		telemetry.SpeechTasksTotal.WithLabelValues("ok").Inc()
		event := domain.SpeechEvent{
			Order:       task.Order,
			Message:     task.Text,
			AudioBase64: base64.StdEncoding.EncodeToString(task.Audio),
		}
		if err := sink.Send(event); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("speech: deliver segment %d: %w", task.Order, err)
		}
	}

	return firstErr
}
