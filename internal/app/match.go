package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/specialistvlad/cecplan/internal/actions"
	"github.com/specialistvlad/cecplan/internal/cec"
	"github.com/specialistvlad/cecplan/internal/ctxlog"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/registry"
	"github.com/specialistvlad/cecplan/internal/trigger"
)

// Firing is a trigger a received frame fires.
type Firing struct {
	Filename string
	Trigger  trigger.Bound
	Sends    []Send
}

// Send is the frame one send action of a fired trigger would transmit.
type Send struct {
	ID      plan.Identifier
	Message cec.Message
	// Err is set when a lambda fails for this frame.
	Err error
}

// Match compiles the configurations under paths and reports which triggers
// the frame fires and what their send actions would transmit.
func (a *App) Match(ctx context.Context, paths []string, frame string) ([]Firing, error) {
	msg, err := cec.ParseFrame(frame)
	if err != nil {
		return nil, err
	}
	results, err := a.Compile(ctx, paths)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(a.withLogger(ctx))
	var out []Firing
	for _, res := range results {
		for _, bound := range trigger.Match(res.Program, msg) {
			f := Firing{Filename: res.Filename, Trigger: bound}
			for _, id := range registry.Chain(res.Program, bound.ID) {
				if id.Kind != cec.KindSendAction {
					continue
				}
				sent, err := actions.PreviewSend(res.Program, id, msg)
				f.Sends = append(f.Sends, Send{ID: id, Message: sent, Err: err})
			}
			out = append(out, f)
		}
	}
	logger.Debug("Frame matched.", zap.Stringer("frame", msg), zap.Int("firings", len(out)))
	return out, nil
}

// WriteMatches reports firings for frame.
func (a *App) WriteMatches(frame string, firings []Firing) {
	if len(firings) == 0 {
		fmt.Fprintf(a.outW, "no trigger fires for %s\n", frame)
		return
	}
	for _, f := range firings {
		fmt.Fprintf(a.outW, "%s: %s fires (%s)\n", f.Filename, f.Trigger.ID.Name, f.Trigger.Filter)
		for _, s := range f.Sends {
			if s.Err != nil {
				fmt.Fprintf(a.outW, "  %s fails: %v\n", s.ID.Name, s.Err)
				continue
			}
			fmt.Fprintf(a.outW, "  %s sends %s\n", s.ID.Name, s.Message)
		}
	}
}
