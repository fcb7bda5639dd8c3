package notify

import (
	"context"
	"time"

	"roomhive/config"
	accountRepo "roomhive/database/repository/account"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Notifier delivers a push notification to an account. Delivery is best
// effort: failures are logged and never fail the triggering request.
type Notifier interface {
	Push(ctx context.Context, accountID, title, body string)
}

// FCMNotifier delivers pushes through Firebase Cloud Messaging.
type FCMNotifier struct {
	client   *messaging.Client
	accounts accountRepo.AccountRepository
	logger   *zap.Logger
}

// NewFCMNotifier initializes the Firebase app and Messaging client.
func NewFCMNotifier(accounts accountRepo.AccountRepository, logger *zap.Logger) (*FCMNotifier, error) {
	ctx := context.Background()
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCMNotifier{client: client, accounts: accounts, logger: logger}, nil
}

// Push sends one notification to the account's registered device.
func (n *FCMNotifier) Push(ctx context.Context, accountID, title, body string) {
	acc, err := n.accounts.GetByID(accountID)
	if err != nil || acc == nil || acc.FCMToken == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	msg := &messaging.Message{
		Token: acc.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	if _, err := n.client.Send(ctx, msg); err != nil {
		n.logger.Warn("failed to send push notification",
			zap.String("accountID", accountID), zap.Error(err))
	}
}

// NoopNotifier discards notifications; used when FCM is not configured.
type NoopNotifier struct{}

func (NoopNotifier) Push(context.Context, string, string, string) {}
