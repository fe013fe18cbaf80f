package telegram

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"github.com/omriShneor/schedule_bot/internal/dialogue"
)

// Client manages the Telegram connection
type Client struct {
	botToken    string
	client      *telegram.Client
	api         *tg.Client
	handler     *Handler
	connected   bool
	mu          sync.RWMutex
	updatesChan chan tg.UpdatesClass
	logger      *zap.SugaredLogger
}

// ClientConfig holds configuration for the Telegram client
type ClientConfig struct {
	APIID       int
	APIHash     string
	BotToken    string
	SessionPath string
	Handler     *Handler
	Logger      *zap.SugaredLogger
}

// NewClient creates a new Telegram client and binds it as the handler's
// replier.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIID == 0 || cfg.APIHash == "" {
		return nil, fmt.Errorf("Telegram API ID and API Hash are required")
	}
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("Telegram bot token is required")
	}
	if cfg.Handler == nil {
		return nil, fmt.Errorf("Telegram handler is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}

	c := &Client{
		botToken:    cfg.BotToken,
		handler:     cfg.Handler,
		updatesChan: make(chan tg.UpdatesClass, 100),
		logger:      cfg.Logger,
	}

	c.client = telegram.NewClient(cfg.APIID, cfg.APIHash, telegram.Options{
		Logger:         cfg.Logger.Desugar().Named("gotd"),
		SessionStorage: &FileSessionStorage{Path: cfg.SessionPath},
		UpdateHandler:  c,
	})
	cfg.Handler.replier = c

	return c, nil
}

// Run connects, logs in as the bot and processes updates until ctx is
// cancelled. In-flight turns are drained before it returns.
func (c *Client) Run(ctx context.Context) error {
	err := c.client.Run(ctx, func(ctx context.Context) error {
		c.mu.Lock()
		c.api = c.client.API()
		c.mu.Unlock()

		status, err := c.client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to get auth status: %w", err)
		}
		if !status.Authorized {
			if _, err := c.client.Auth().Bot(ctx, c.botToken); err != nil {
				return fmt.Errorf("failed to log in as bot: %w", err)
			}
			c.logger.Info("Telegram: bot logged in")
		} else {
			c.logger.Info("Telegram: already authorized")
		}

		c.mu.Lock()
		c.connected = true
		c.mu.Unlock()

		c.updateLoop(ctx)
		return ctx.Err()
	})

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
	c.handler.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("telegram client stopped: %w", err)
	}
	return nil
}

// IsConnected returns whether the client is connected and authenticated
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Handle implements telegram.UpdateHandler
func (c *Client) Handle(_ context.Context, u tg.UpdatesClass) error {
	select {
	case c.updatesChan <- u:
	default:
		c.logger.Warn("Telegram: updates channel full, dropping update")
	}
	return nil
}

func (c *Client) updateLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-c.updatesChan:
			c.handler.HandleUpdate(ctx, update)
		}
	}
}

// GetAPI returns the raw Telegram API client
func (c *Client) GetAPI() *tg.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.api
}

func (c *Client) readyAPI() (*tg.Client, error) {
	api := c.GetAPI()
	if api == nil {
		return nil, fmt.Errorf("client not connected")
	}
	return api, nil
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, peer tg.InputPeerClass, text string, markup tg.ReplyMarkupClass) error {
	api, err := c.readyAPI()
	if err != nil {
		return err
	}

	req := &tg.MessagesSendMessageRequest{
		Peer:     peer,
		Message:  text,
		RandomID: int64(rand.Uint64()),
	}
	if markup != nil {
		req.ReplyMarkup = markup
	}
	if _, err := api.MessagesSendMessage(ctx, req); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendDocument uploads doc and sends it with caption.
func (c *Client) SendDocument(ctx context.Context, peer tg.InputPeerClass, doc dialogue.Attachment, caption string, markup tg.ReplyMarkupClass) error {
	api, err := c.readyAPI()
	if err != nil {
		return err
	}

	file, err := uploader.NewUploader(api).FromBytes(ctx, doc.Filename, doc.Data)
	if err != nil {
		return fmt.Errorf("failed to upload document: %w", err)
	}

	req := &tg.MessagesSendMediaRequest{
		Peer: peer,
		Media: &tg.InputMediaUploadedDocument{
			File:     file,
			MimeType: doc.MIME,
			Attributes: []tg.DocumentAttributeClass{
				&tg.DocumentAttributeFilename{FileName: doc.Filename},
			},
		},
		Message:  caption,
		RandomID: int64(rand.Uint64()),
	}
	if markup != nil {
		req.ReplyMarkup = markup
	}
	if _, err := api.MessagesSendMedia(ctx, req); err != nil {
		return fmt.Errorf("failed to send document: %w", err)
	}
	return nil
}
