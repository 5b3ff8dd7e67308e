package notify

import (
	"fmt"
	"time"

	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/google/uuid"
)

// NewOrderNotifications builds one dashboard notification per merchant user
// for a freshly created order.
func NewOrderNotifications(order *model.Order, userIDs []string, at time.Time) []model.Notification {
	notifications := make([]model.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		id := order.ID
		notifications = append(notifications, model.Notification{
			ID:         uuid.New(),
			MerchantID: order.MerchantID,
			UserID:     userID,
			Type:       "order",
			Title:      "New order received",
			Message:    fmt.Sprintf("Order %s from %s for %.2f", order.CustomOrderID, order.Customer.Name, order.Total),
			OrderID:    &id,
			Read:       false,
			CreatedAt:  at,
		})
	}
	return notifications
}
