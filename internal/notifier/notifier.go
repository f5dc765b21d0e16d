// Package notifier forwards monitoring notifications to Telegram.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"sentry_telegram/internal/dispatch"
	"sentry_telegram/internal/model"
	"sentry_telegram/internal/recipient"
	"sentry_telegram/internal/render"
)

// OptionSource returns the raw option values stored for a project.
type OptionSource interface {
	ProjectOptions(ctx context.Context, project string) (map[string]string, error)
}

// Notifier runs the render, paginate and dispatch pipeline.
type Notifier struct {
	options    OptionSource
	renderer   *render.Renderer
	dispatcher *dispatch.Dispatcher
	log        *slog.Logger
}

// New creates a Notifier.
func New(options OptionSource, renderer *render.Renderer, dispatcher *dispatch.Dispatcher, log *slog.Logger) *Notifier {
	return &Notifier{
		options:    options,
		renderer:   renderer,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Notify forwards notif to every chat configured for its project and returns
// the result of the last message sent. It is a no-op returning nil when the
// project has no token or chat list, or none of the chats is valid.
func (n *Notifier) Notify(ctx context.Context, notif *model.Notification) (*dispatch.Result, error) {
	project := notif.Event.Project.Slug

	raw, err := n.options.ProjectOptions(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	opts := model.ParseOptions(raw)
	if !opts.Configured() {
		n.log.Debug("project not configured, skipping", "project", project)
		return nil, nil
	}

	msg, err := n.renderer.Render(ctx, notif, opts)
	if err != nil {
		return nil, fmt.Errorf("render message: %w", err)
	}
	pages := render.Paginate(msg.Body, render.PageSize)

	recipients := recipient.Parse(opts.ChatID)
	if len(recipients) == 0 {
		n.log.Warn("no valid chat ids configured", "project", project, "chat_id", opts.ChatID)
		return nil, nil
	}

	n.log.Debug("forwarding notification",
		"project", project, "group_id", notif.Event.Group.ID,
		"recipients", len(recipients), "pages", len(pages))

	res, err := n.dispatcher.Dispatch(ctx, opts.Token, recipients, pages)
	if err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}

	n.log.Info("notification forwarded",
		"project", project, "group_id", notif.Event.Group.ID,
		"messages", len(recipients)*len(pages), "ok", res.OK())
	return res, nil
}
