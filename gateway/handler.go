package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const maxUpdateBytes = 1 << 20

// Fixed user-facing messages. The bot's surface language is Ukrainian.
const (
	welcomeMessage = "Привіт, я Тася! Можу відповісти на запитання, запам'ятати факти про тебе або перекласти текст українською. Напиши мені щось."
	textOnlyNotice = "Я розумію лише текстові повідомлення."
	failureApology = "Вибач, щось пішло не так. Спробуй, будь ласка, ще раз."
)

type update struct {
	UpdateID      int64            `json:"update_id"`
	Message       *incomingMessage `json:"message"`
	EditedMessage *incomingMessage `json:"edited_message"`
}

type incomingMessage struct {
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
	Text string `json:"text"`
}

type WebhookHandler struct {
	pipeline Pipeline
	sender   Sender
	gate     chan struct{}
	logger   zerolog.Logger
}

func NewWebhookHandler(pipeline Pipeline, sender Sender, concurrency int, logger zerolog.Logger) *WebhookHandler {
	if concurrency <= 0 {
		concurrency = 20
	}
	return &WebhookHandler{
		pipeline: pipeline,
		sender:   sender,
		gate:     make(chan struct{}, concurrency),
		logger:   logger,
	}
}

// Handle always acknowledges with 200. Telegram redelivers on any other
// status, and redelivering a request we cannot parse or process never helps.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusOK)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateBytes))
	if err != nil {
		h.logger.Warn().Err(err).Msg("webhook body read failed")
		return
	}

	var upd update
	if err := json.Unmarshal(body, &upd); err != nil {
		h.logger.Warn().Err(err).Msg("webhook payload is not valid json")
		return
	}

	msg := upd.Message
	if msg == nil {
		msg = upd.EditedMessage
	}
	if msg == nil || msg.Chat.ID == 0 {
		return
	}

	h.process(r, msg)
}

func (h *WebhookHandler) process(r *http.Request, msg *incomingMessage) {
	ctx := r.Context()
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		h.deliver(ctx, chatID, welcomeMessage)
		return
	case text == "":
		h.deliver(ctx, chatID, textOnlyNotice)
		return
	}

	select {
	case h.gate <- struct{}{}:
	case <-ctx.Done():
		return
	}
	reply, err := h.pipeline.Ask(ctx, strconv.FormatInt(chatID, 10), text)
	<-h.gate

	if err != nil {
		h.logger.Error().
			Int64("chat_id", chatID).
			Err(err).
			Msg("pipeline failed for webhook update")
		h.deliver(ctx, chatID, failureApology)
		return
	}
	if strings.TrimSpace(reply) == "" {
		return
	}
	h.deliver(ctx, chatID, reply)
}

// deliver sends and logs; a failed outbound delivery never changes the
// webhook acknowledgement.
func (h *WebhookHandler) deliver(ctx context.Context, chatID int64, text string) {
	if err := h.sender.SendMessage(ctx, chatID, text); err != nil {
		h.logger.Error().
			Int64("chat_id", chatID).
			Err(err).
			Msg("outbound delivery failed")
	}
}
