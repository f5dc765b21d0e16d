// Package dispatch delivers rendered pages to Telegram chats.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Result is the outcome of a single sendMessage call.
type Result struct {
	Recipient string
	Page      int
	Response  *tgbotapi.APIResponse
	// Err is set when Telegram answered with ok=false.
	Err error
}

// OK reports whether Telegram accepted the message.
func (r *Result) OK() bool {
	return r != nil && r.Err == nil && r.Response != nil && r.Response.Ok
}

// Dispatcher sends pages to recipients one request at a time.
type Dispatcher struct {
	client   tgbotapi.HTTPClient
	endpoint string
	pause    Pauser
	log      *slog.Logger
}

// New creates a Dispatcher that talks to the public Bot API through client
// and runs pause after every send.
func New(client tgbotapi.HTTPClient, pause Pauser, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client:   client,
		endpoint: tgbotapi.APIEndpoint,
		pause:    pause,
		log:      log,
	}
}

// Dispatch sends every page to every recipient, recipient by recipient and
// pages in order. Only the result of the last send is returned; earlier
// results are logged and discarded. Nothing is sent, and nil is returned,
// when recipients is empty.
//
// A message rejected by Telegram is not an error: it is recorded in the
// result and sending continues. Transport failures stop the run and are
// returned as is, without retry.
func (d *Dispatcher) Dispatch(ctx context.Context, token string, recipients, pages []string) (*Result, error) {
	if len(recipients) == 0 {
		return nil, nil
	}

	bot := d.botFor(token)

	var last *Result
	for _, to := range recipients {
		for i, page := range pages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			res, err := d.send(bot, to, i+1, page)
			if err != nil {
				return nil, err
			}
			last = res

			if err := d.pause.Pause(ctx); err != nil {
				return nil, err
			}
		}
	}
	return last, nil
}

func (d *Dispatcher) send(bot *tgbotapi.BotAPI, to string, page int, text string) (*Result, error) {
	// ChannelUsername is passed through verbatim as chat_id, which keeps
	// numeric ids exactly as configured.
	msg := tgbotapi.NewMessageToChannel(to, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	resp, err := bot.Request(msg)

	var apiErr *tgbotapi.Error
	switch {
	case errors.As(err, &apiErr):
		d.log.Warn("telegram rejected message", "chat_id", to, "page", page, "code", apiErr.Code, "error", err)
		return &Result{Recipient: to, Page: page, Response: resp, Err: err}, nil
	case err != nil:
		return nil, fmt.Errorf("send message to %s: %w", to, err)
	}

	d.log.Debug("message sent", "chat_id", to, "page", page)
	return &Result{Recipient: to, Page: page, Response: resp}, nil
}

// botFor builds a client for token without the getMe round trip that
// tgbotapi.NewBotAPI performs.
func (d *Dispatcher) botFor(token string) *tgbotapi.BotAPI {
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: d.client,
		Buffer: 100,
	}
	bot.SetAPIEndpoint(d.endpoint)
	return bot
}
