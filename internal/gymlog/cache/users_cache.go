package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2beens/gymlog/internal/gymlog/sessions"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	usersKey           = "users"
	DefaultUsersTTL    = time.Minute
	defaultUsersSizeMB = 1
)

type usersLister interface {
	ListUsers(ctx context.Context) ([]string, error)
}

// UsersCache keeps the alias registry in process for a short while.
type UsersCache struct {
	cache      *freecache.Cache
	lister     usersLister
	ttlSeconds int
}

func NewUsersCache(lister usersLister, sizeMB int, ttl time.Duration) *UsersCache {
	if sizeMB <= 0 {
		sizeMB = defaultUsersSizeMB
	}
	if ttl < time.Second {
		ttl = DefaultUsersTTL
	}
	megabyte := 1024 * 1024
	return &UsersCache{
		cache:      freecache.NewCache(sizeMB * megabyte),
		lister:     lister,
		ttlSeconds: int(ttl.Seconds()),
	}
}

func (c *UsersCache) ListUsers(ctx context.Context) ([]string, error) {
	if usersBytes, err := c.cache.Get([]byte(usersKey)); err == nil {
		var users []string
		if err := json.Unmarshal(usersBytes, &users); err == nil {
			return users, nil
		} else {
			log.Errorf("users cache: unmarshal: %s", err)
		}
	}

	users, err := c.lister.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	usersBytes, err := json.Marshal(users)
	if err != nil {
		log.Errorf("users cache: marshal: %s", err)
		return users, nil
	}
	if err := c.cache.Set([]byte(usersKey), usersBytes, c.ttlSeconds); err != nil {
		log.Errorf("users cache: set: %s", err)
	}

	return users, nil
}

func (c *UsersCache) IsValidUser(ctx context.Context, name string) (bool, error) {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return false, err
	}
	return sessions.ContainsUser(users, name), nil
}
