package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/romanzzaa/stock-tracker-bot/internal/domain"
	"github.com/romanzzaa/stock-tracker-bot/internal/usecase"
)

const helpText = `Available commands:
/price <ticker> - Get current price of a stock.
/sma <ticker> <short_period> <long_period> - Get SMA crossover graph, periods are 9 and 20 by default.
/graph <ticker> <period> - Get price graph of a stock, period is 1d, 5d, 1mo, 3mo, 6mo, 1y (default), 2y, 5y, 10y, ytd, max.
/track <ticker> <buy_price> - Track a stock for periodic price updates.
/untrack <ticker> - Stop tracking a stock.
/tracks - Show tracked stocks.`

// Handler - Telegram command front end. A thin adapter: it parses text
// commands, calls the core and renders replies. All writes go through
// the same TrackingRepository the sweep loop reads.
type Handler struct {
	bot      *tgbotapi.BotAPI
	repo     domain.TrackingRepository
	quotes   domain.QuoteProvider
	renderer domain.ChartRenderer
	updater  *usecase.UpdateService
	allowed  map[int64]bool
	logger   *slog.Logger
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	repo domain.TrackingRepository,
	quotes domain.QuoteProvider,
	renderer domain.ChartRenderer,
	updater *usecase.UpdateService,
	allowedIDs []int64,
	logger *slog.Logger,
) *Handler {
	allowed := make(map[int64]bool, len(allowedIDs))
	for _, id := range allowedIDs {
		allowed[id] = true
	}
	return &Handler{
		bot:      bot,
		repo:     repo,
		quotes:   quotes,
		renderer: renderer,
		updater:  updater,
		allowed:  allowed,
		logger:   logger,
	}
}

func (h *Handler) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				go h.handleMessage(ctx, update.Message)
			}
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		return
	}

	userID := msg.From.ID
	command := msg.Command()

	// /start and /help stay open so strangers learn what this is
	switch command {
	case "start":
		h.send(msg.Chat.ID, "Welcome! Use /price <ticker> to get the current price of a stock.\nUse /help for more commands.")
		return
	case "help":
		h.send(msg.Chat.ID, helpText)
		return
	}

	if !h.allowed[userID] {
		h.logger.Warn("unauthorized command",
			slog.Int64("user_id", userID),
			slog.String("command", command))
		h.send(msg.Chat.ID, "Unauthorized access.")
		return
	}

	h.logger.Info("command received",
		slog.Int64("user_id", userID),
		slog.String("command", command))

	args := msg.CommandArguments()
	switch command {
	case "price":
		h.cmdPrice(ctx, msg, args)
	case "graph":
		h.cmdGraph(ctx, msg, args)
	case "sma":
		h.cmdSMA(ctx, msg, args)
	case "track":
		h.cmdTrack(ctx, msg, args)
	case "untrack":
		h.cmdUntrack(ctx, msg, args)
	case "tracks":
		h.cmdTracks(ctx, msg)
	default:
		h.send(msg.Chat.ID, "Unknown command. Use /help.")
	}
}

// --- Commands ---

func (h *Handler) cmdPrice(ctx context.Context, msg *tgbotapi.Message, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		h.send(msg.Chat.ID, "usage: /price TICKER")
		return
	}
	ticker := NormalizeTicker(fields[0])

	line, err := h.updater.QuoteLine(ctx, ticker)
	if err != nil {
		h.logger.Error("price lookup failed",
			slog.String("ticker", ticker), slog.String("error", err.Error()))
		h.send(msg.Chat.ID, "Invalid ticker symbol.")
		return
	}
	h.send(msg.Chat.ID, line)
}

func (h *Handler) cmdGraph(ctx context.Context, msg *tgbotapi.Message, args string) {
	ticker, period, err := parseGraphArgs(args)
	if err != nil {
		h.send(msg.Chat.ID, err.Error())
		return
	}

	// Tracked tickers get their buy price drawn on on-demand graphs too.
	opts := domain.ChartOptions{Title: fmt.Sprintf("Price Graph for %s", ticker)}
	if tracking, err := h.repo.GetByUserAndTicker(ctx, msg.From.ID, ticker); err == nil && tracking != nil {
		opts.BuyPrice = tracking.BuyPrice
	}

	series, err := h.quotes.History(ctx, ticker, period)
	if err != nil {
		h.logger.Error("history fetch failed",
			slog.String("ticker", ticker), slog.String("error", err.Error()))
		h.send(msg.Chat.ID, "Error generating price graph.")
		return
	}

	img, err := h.renderer.Render(series, opts)
	if err != nil {
		h.logger.Error("graph render failed",
			slog.String("ticker", ticker), slog.String("error", err.Error()))
		h.send(msg.Chat.ID, "Error generating price graph.")
		return
	}

	h.sendPhoto(msg.Chat.ID, fmt.Sprintf("Price graph for %s with period %s:", ticker, period), img)
}

func (h *Handler) cmdSMA(ctx context.Context, msg *tgbotapi.Message, args string) {
	ticker, short, long, err := parseSMAArgs(args)
	if err != nil {
		h.send(msg.Chat.ID, err.Error())
		return
	}

	series, err := h.quotes.History(ctx, ticker, "1y")
	if err != nil {
		h.logger.Error("history fetch failed",
			slog.String("ticker", ticker), slog.String("error", err.Error()))
		h.send(msg.Chat.ID, "Error generating SMA graph.")
		return
	}

	img, err := h.renderer.Render(series, domain.ChartOptions{
		Title:      fmt.Sprintf("SMA Crossover for %s", ticker),
		SMAPeriods: []int{short, long},
	})
	if err != nil {
		h.logger.Error("sma render failed",
			slog.String("ticker", ticker), slog.String("error", err.Error()))
		h.send(msg.Chat.ID, "Error generating SMA graph.")
		return
	}

	h.sendPhoto(msg.Chat.ID,
		fmt.Sprintf("SMA Crossover graph for %s with short period %d and long period %d:", ticker, short, long),
		img)
}

func (h *Handler) cmdTrack(ctx context.Context, msg *tgbotapi.Message, args string) {
	ticker, buy, err := parseTrackArgs(args)
	if err != nil {
		h.send(msg.Chat.ID, err.Error())
		return
	}

	tracking := &domain.Tracking{
		UserID:   msg.From.ID,
		Ticker:   ticker,
		BuyPrice: buy,
	}

	err = h.repo.Create(ctx, tracking)
	if errors.Is(err, domain.ErrDuplicateTracking) {
		h.send(msg.Chat.ID, fmt.Sprintf("Already tracking %s. Use /untrack first to change the buy price.", ticker))
		return
	}
	if err != nil {
		h.logger.Error("track failed",
			slog.String("ticker", ticker), slog.String("error", err.Error()))
		h.send(msg.Chat.ID, "Error tracking the ticker.")
		return
	}

	h.send(msg.Chat.ID, fmt.Sprintf("Tracking %s for price updates.", ticker))
}

func (h *Handler) cmdUntrack(ctx context.Context, msg *tgbotapi.Message, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		h.send(msg.Chat.ID, "usage: /untrack TICKER")
		return
	}
	ticker := NormalizeTicker(fields[0])

	removed, err := h.repo.Delete(ctx, msg.From.ID, ticker)
	if err != nil {
		h.logger.Error("untrack failed",
			slog.String("ticker", ticker), slog.String("error", err.Error()))
		h.send(msg.Chat.ID, "Error untracking the ticker.")
		return
	}
	if !removed {
		h.send(msg.Chat.ID, fmt.Sprintf("You are not tracking %s.", ticker))
		return
	}
	h.send(msg.Chat.ID, fmt.Sprintf("Untracked %s.", ticker))
}

func (h *Handler) cmdTracks(ctx context.Context, msg *tgbotapi.Message) {
	trackings, err := h.repo.ListByUser(ctx, msg.From.ID)
	if err != nil {
		h.logger.Error("list trackings failed", slog.String("error", err.Error()))
		h.send(msg.Chat.ID, "Error fetching tracked tickers.")
		return
	}

	if len(trackings) == 0 {
		h.send(msg.Chat.ID, "No tracked tickers.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Tracked tickers:\n")
	for _, t := range trackings {
		if t.HasBuyPrice() {
			fmt.Fprintf(&sb, "- %s (Buy Price: %s)\n", t.Ticker, t.BuyPrice.String())
		} else {
			fmt.Fprintf(&sb, "- %s\n", t.Ticker)
		}
	}
	h.send(msg.Chat.ID, sb.String())
}

// --- Helpers ---

func (h *Handler) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("reply failed", slog.Int64("chat_id", chatID), slog.String("error", err.Error()))
	}
}

func (h *Handler) sendPhoto(chatID int64, caption string, image []byte) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "chart.png", Bytes: image})
	photo.Caption = caption
	if _, err := h.bot.Send(photo); err != nil {
		h.logger.Error("photo reply failed", slog.Int64("chat_id", chatID), slog.String("error", err.Error()))
	}
}
