package fcm

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
}

// NewClient creates a new FCM client using the provided credentials file
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("[FCM] Client initialized successfully")
	return &Client{
		messagingClient: messagingClient,
	}, nil
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title string
	Body  string
	Icon  string
}

// SendResult is the delivery outcome for a single device token.
type SendResult struct {
	Token string
	Err   error
	// Permanent marks tokens FCM will never deliver to again
	// (invalid or no longer registered).
	Permanent bool
}

// SendToDevices sends one notification payload to multiple device tokens in a
// single batched dispatch. Results are positionally aligned with tokens.
func (c *Client) SendToDevices(ctx context.Context, tokens []string, notification NotificationData) ([]SendResult, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: notification.Title,
				Body:  notification.Body,
				Icon:  notification.Icon,
			},
		},
	}

	response, err := c.messagingClient.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	log.Printf("[FCM] Multicast sent: %d success, %d failures", response.SuccessCount, response.FailureCount)

	results := make([]SendResult, len(response.Responses))
	for i, resp := range response.Responses {
		result := SendResult{Token: tokens[i]}
		if resp.Error != nil {
			result.Err = resp.Error
			result.Permanent = messaging.IsUnregistered(resp.Error) || errorutils.IsInvalidArgument(resp.Error)
		}
		results[i] = result
	}
	return results, nil
}
