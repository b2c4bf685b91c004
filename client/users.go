package client

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
)

// Users is the store of /users.
type Users struct {
	*Collection[User]

	blockingMu sync.RWMutex
	blocking   ID
}

func NewUsers(c *Client) *Users {
	return &Users{Collection: NewCollection[User](c, "/users", "user")}
}

// Block blocks or unblocks a user and reloads the list.
func (u *Users) Block(ctx context.Context, id ID, block bool) error {
	u.setBlocking(id)
	defer u.setBlocking("")

	action := "/user/unblock/"
	if block {
		action = "/user/block/"
	}
	path := APIPrefix + action + url.PathEscape(id.String())
	if _, err := send[struct{}](ctx, u.client, &request{method: http.MethodPost, path: path, body: struct{}{}}); err != nil {
		logger.Log(ctx).Error(ctx, "failed to change user block state",
			zap.String("id", id.String()), zap.Bool("block", block), zap.Error(err))
		return err
	}
	_, err := u.FetchList(ctx)
	return err
}

// Blocking returns the user whose block state is being changed, if any.
func (u *Users) Blocking() ID {
	u.blockingMu.RLock()
	defer u.blockingMu.RUnlock()
	return u.blocking
}

func (u *Users) setBlocking(id ID) {
	u.blockingMu.Lock()
	defer u.blockingMu.Unlock()
	u.blocking = id
}
