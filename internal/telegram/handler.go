package telegram

import (
	"context"
	"sync"

	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"github.com/omriShneor/schedule_bot/internal/dialogue"
)

// Conversation answers one inbound message.
type Conversation interface {
	Handle(ctx context.Context, msg dialogue.Message) []dialogue.Reply
}

// Replier delivers outbound messages to a peer.
type Replier interface {
	SendText(ctx context.Context, peer tg.InputPeerClass, text string, markup tg.ReplyMarkupClass) error
	SendDocument(ctx context.Context, peer tg.InputPeerClass, doc dialogue.Attachment, caption string, markup tg.ReplyMarkupClass) error
}

// Handler turns private text messages into dialogue turns. Each message is
// handled on its own goroutine.
type Handler struct {
	conversation  Conversation
	labels        Labeler
	defaultLocale string
	replier       Replier
	logger        *zap.SugaredLogger

	mu    sync.RWMutex
	users map[int64]*tg.User // Cache of user info
	wg    sync.WaitGroup
}

// NewHandler creates a new Telegram message handler
func NewHandler(conversation Conversation, labels Labeler, defaultLocale string, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		conversation:  conversation,
		labels:        labels,
		defaultLocale: defaultLocale,
		logger:        logger,
		users:         make(map[int64]*tg.User),
	}
}

// HandleUpdate processes a Telegram update
func (h *Handler) HandleUpdate(ctx context.Context, update tg.UpdatesClass) {
	switch u := update.(type) {
	case *tg.Updates:
		h.cacheUsers(u.Users)
		for _, upd := range u.Updates {
			h.handleSingleUpdate(ctx, upd)
		}
	case *tg.UpdatesCombined:
		h.cacheUsers(u.Users)
		for _, upd := range u.Updates {
			h.handleSingleUpdate(ctx, upd)
		}
	case *tg.UpdateShort:
		h.handleSingleUpdate(ctx, u.Update)
	case *tg.UpdateShortMessage:
		if u.Out {
			return
		}
		h.dispatch(ctx, u.UserID, u.Message)
	}
}

// Wait blocks until every in-flight turn has finished.
func (h *Handler) Wait() {
	h.wg.Wait()
}

func (h *Handler) cacheUsers(users []tg.UserClass) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, u := range users {
		if user, ok := u.(*tg.User); ok {
			h.users[user.ID] = user
		}
	}
}

func (h *Handler) user(id int64) (*tg.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	u, ok := h.users[id]
	return u, ok
}

func (h *Handler) handleSingleUpdate(ctx context.Context, update tg.UpdateClass) {
	upd, ok := update.(*tg.UpdateNewMessage)
	if !ok {
		return
	}

	message, ok := upd.Message.(*tg.Message)
	if !ok || message.Out {
		return
	}

	// Only private chats
	peer, ok := message.PeerID.(*tg.PeerUser)
	if !ok {
		return
	}
	h.dispatch(ctx, peer.UserID, message.Message)
}

func (h *Handler) dispatch(ctx context.Context, userID int64, text string) {
	if text == "" {
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.respond(ctx, userID, text)
	}()
}

func (h *Handler) respond(ctx context.Context, userID int64, text string) {
	locale, peer := h.defaultLocale, tg.InputPeerClass(&tg.InputPeerUser{UserID: userID})
	if u, ok := h.user(userID); ok {
		if u.Bot {
			return
		}
		if u.LangCode != "" {
			locale = u.LangCode
		}
		peer = &tg.InputPeerUser{UserID: u.ID, AccessHash: u.AccessHash}
	}

	replies := h.conversation.Handle(ctx, dialogue.Message{UserID: userID, Text: text, Locale: locale})
	if h.replier == nil {
		h.logger.Warnw("no replier bound, dropping replies", "user", userID, "count", len(replies))
		return
	}

	for _, r := range replies {
		m := markup(h.labels, locale, r.Keyboard)

		var err error
		if r.Attachment != nil {
			err = h.replier.SendDocument(ctx, peer, *r.Attachment, r.Text, m)
		} else {
			err = h.replier.SendText(ctx, peer, r.Text, m)
		}
		if err != nil {
			h.logger.Errorw("failed to send reply", "user", userID, "error", err)
			return
		}
	}
}
