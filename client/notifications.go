package client

import "context"

// Notifications is the store of /notifications addressed to the user.
type Notifications struct {
	*Collection[UserNotification]
}

func NewNotifications(c *Client) *Notifications {
	return &Notifications{Collection: NewCollection[UserNotification](c, "/notifications", "notification")}
}

// MarkAsRead sends the notification with read set.
func (n *Notifications) MarkAsRead(ctx context.Context, id ID) error {
	payload, ok := n.Find(id)
	if !ok {
		payload = UserNotification{ID: id}
	}
	payload.Read = true
	_, err := n.Update(ctx, id, payload)
	return err
}

func (n *Notifications) Remove(ctx context.Context, id ID) error {
	return n.Delete(ctx, id)
}

// UnreadCount counts the locally held unread notifications.
func (n *Notifications) UnreadCount() int {
	count := 0
	for _, item := range n.Items() {
		if !item.Read {
			count++
		}
	}
	return count
}
