package client

import (
	"context"
	"net/url"
	"sync"
)

// Chats is the store of /chats scoped to one subject.
type Chats struct {
	*Collection[Chat]

	subjectMu sync.RWMutex
	subject   string
}

func NewChats(c *Client) *Chats {
	return &Chats{Collection: NewCollection[Chat](c, "/chats", "chat")}
}

// FetchBySubject lists the chats of subjectUUID; an empty subject is a no-op.
func (c *Chats) FetchBySubject(ctx context.Context, subjectUUID string) ([]Chat, error) {
	if subjectUUID == "" {
		return nil, nil
	}
	c.subjectMu.Lock()
	c.subject = subjectUUID
	c.subjectMu.Unlock()
	return c.fetchList(ctx, c.path+"/subject/"+url.PathEscape(subjectUUID))
}

// Subject returns the subject of the last list.
func (c *Chats) Subject() string {
	c.subjectMu.RLock()
	defer c.subjectMu.RUnlock()
	return c.subject
}

// Create posts chat and reloads the chats of its subject.
func (c *Chats) Create(ctx context.Context, chat Chat) (*Chat, error) {
	created, err := c.Collection.Create(ctx, chat)
	if err != nil {
		return nil, err
	}
	subject := chat.SubjectUUID
	if subject == "" {
		subject = created.SubjectUUID
	}
	if _, err = c.FetchBySubject(ctx, subject); err != nil {
		return created, err
	}
	return created, nil
}

// Update puts chat and reloads the chats of the current subject.
func (c *Chats) Update(ctx context.Context, id ID, chat Chat) (*Chat, error) {
	updated, err := c.Collection.Update(ctx, id, chat)
	if err != nil {
		return nil, err
	}
	if _, err = c.FetchBySubject(ctx, c.Subject()); err != nil {
		return updated, err
	}
	return updated, nil
}

// Delete removes the chat and reloads the chats of the current subject.
func (c *Chats) Delete(ctx context.Context, id ID) error {
	if err := c.Collection.Delete(ctx, id); err != nil {
		return err
	}
	_, err := c.FetchBySubject(ctx, c.Subject())
	return err
}

func (c *Chats) Reset() {
	c.Collection.Reset()
	c.subjectMu.Lock()
	c.subject = ""
	c.subjectMu.Unlock()
}
