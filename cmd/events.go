package cmd

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"ytbulkedit/domain/model"
	"ytbulkedit/infrastructure/realtime"
	"ytbulkedit/usecase"
)

const queueSize = 256

// runBatch runs the batch on one goroutine and prints its events on another.
func runBatch(ctx context.Context, out, status io.Writer, queue *realtime.Queue,
	batch func(context.Context) (*usecase.BatchResult, error)) (*usecase.BatchResult, error) {
	var res *usecase.BatchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer queue.Close()
		var err error
		res, err = batch(gctx)
		return err
	})
	g.Go(func() error {
		for evt := range queue.Events() {
			printEvent(out, status, evt)
		}
		return nil
	})
	return res, g.Wait()
}

// printEvent writes result lines to out and progress to status.
func printEvent(out, status io.Writer, evt model.Event) {
	switch p := evt.Payload.(type) {
	case model.LogPayload:
		fmt.Fprintln(out, p.Line)
	case model.ProgressPayload:
		fmt.Fprintf(status, "[%d/%d] %s (%d quota units left)\n", p.Index, p.Total, p.ItemID, p.Remaining)
	case model.QuotaSnapshot:
		fmt.Fprintf(status, "Daily quota exhausted: %d of %d units used. Remaining items will likely fail until the quota resets.\n", p.Used, p.Limit)
	case model.CompletePayload:
		fmt.Fprintf(status, "%s finished: %d succeeded, %d failed\n", p.Operation, p.Succeeded, p.Failed)
	case model.ErrorPayload:
		fmt.Fprintf(status, "Error: %s\n", p.Message)
	}
}
