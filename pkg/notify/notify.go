package notify

import (
	"context"
	"fmt"

	"routeaura/pkg/config"
	"routeaura/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(New)

// Notifier pushes operational alerts to the admin Telegram chat.
// Delivery is best-effort: a failed send is logged, never returned fatal.
type Notifier interface {
	BookingCreated(ctx context.Context, reference, route, date string, seats int)
	BookingCancelled(ctx context.Context, reference string)
}

type Params struct {
	fx.In

	Config config.IConfig
	Logger logger.Logger
}

type notifier struct {
	logger logger.Logger
	bot    *tgbotapi.BotAPI
	chatID int64
}

func New(p Params) Notifier {
	n := &notifier{
		logger: p.Logger,
		chatID: p.Config.GetInt64("telegram.admin_chat_id"),
	}

	token := p.Config.GetString("telegram.bot_token")
	if token == "" {
		p.Logger.Warn(context.TODO(), "notify: bot token not set, notifications disabled")
		return n
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		p.Logger.Warn(context.TODO(), "notify: failed to init bot, notifications disabled", zap.Error(err))
		return n
	}
	n.bot = bot

	return n
}

func (n *notifier) BookingCreated(ctx context.Context, reference, route, date string, seats int) {
	n.send(ctx, fmt.Sprintf("New booking %s\n%s on %s, %d seat(s)", reference, route, date, seats))
}

func (n *notifier) BookingCancelled(ctx context.Context, reference string) {
	n.send(ctx, fmt.Sprintf("Booking %s cancelled", reference))
}

func (n *notifier) send(ctx context.Context, text string) {
	if n.bot == nil || n.chatID == 0 {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Warn(ctx, "notify: failed to send message", zap.Error(err))
	}
}
