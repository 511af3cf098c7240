package repositories

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

// Utility helpers
func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

var sf singleflight.Group

// cachedUser keeps the password hash that user.User hides from JSON.
type cachedUser struct {
	*user.User
	Hash string `json:"password_hash"`
}

func (c cachedUser) unwrap() *user.User {
	u := *c.User
	u.PasswordHash = c.Hash
	return &u
}

func userIDKey(id int64) string        { return "user:id:" + strconv.FormatInt(id, 10) }
func userEmailKey(email string) string { return "user:email:" + email }
func userNameKey(name string) string   { return "user:username:" + name }

// CachingUserRepository caches single-user lookups, which back every
// authenticated request. Lists and role counts always hit the inner repository.
type CachingUserRepository struct {
	inner ports.UserRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingUserRepository(inner ports.UserRepository, cache ports.Cache, ttl time.Duration) ports.UserRepository {
	return &CachingUserRepository{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachingUserRepository) store(ctx context.Context, u *user.User) {
	entry := cachedUser{User: u, Hash: u.PasswordHash}
	cacheSetSilently(c.cache, ctx, userIDKey(u.ID), entry, c.ttl)
	cacheSetSilently(c.cache, ctx, userEmailKey(u.Email), entry, c.ttl)
	cacheSetSilently(c.cache, ctx, userNameKey(u.Username), entry, c.ttl)
}

func (c *CachingUserRepository) evict(ctx context.Context, u *user.User) {
	if c.cache == nil || u == nil {
		return
	}
	_ = c.cache.Delete(ctx, userIDKey(u.ID))
	_ = c.cache.Delete(ctx, userEmailKey(u.Email))
	_ = c.cache.Delete(ctx, userNameKey(u.Username))
}

// lookup serves key from cache, coalescing concurrent misses into one load.
func (c *CachingUserRepository) lookup(ctx context.Context, key string, load func() (*user.User, error)) (*user.User, error) {
	if v, ok := cacheGet[cachedUser](c.cache, ctx, key); ok && v.User != nil {
		return v.unwrap(), nil
	}
	res, err, _ := sf.Do(key, func() (any, error) {
		u, err := load()
		if err != nil {
			return nil, err
		}
		c.store(ctx, u)
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	// copy so callers never share the singleflight result
	u := *res.(*user.User)
	return &u, nil
}

func (c *CachingUserRepository) Create(ctx context.Context, u *user.User) error {
	return c.inner.Create(ctx, u)
}

func (c *CachingUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return c.lookup(ctx, userIDKey(id), func() (*user.User, error) { return c.inner.GetByID(ctx, id) })
}

func (c *CachingUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return c.lookup(ctx, userEmailKey(email), func() (*user.User, error) { return c.inner.GetByEmail(ctx, email) })
}

func (c *CachingUserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return c.lookup(ctx, userNameKey(username), func() (*user.User, error) { return c.inner.GetByUsername(ctx, username) })
}

func (c *CachingUserRepository) Update(ctx context.Context, u *user.User) error {
	// Need the previous email and username to drop their keys
	previous, _ := c.inner.GetByID(ctx, u.ID)
	if err := c.inner.Update(ctx, u); err != nil {
		return err
	}
	c.evict(ctx, previous)
	c.store(ctx, u)
	return nil
}

func (c *CachingUserRepository) Delete(ctx context.Context, id int64) error {
	current, _ := c.inner.GetByID(ctx, id)
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	if current != nil {
		c.evict(ctx, current)
	} else if c.cache != nil {
		_ = c.cache.Delete(ctx, userIDKey(id))
	}
	return nil
}

func (c *CachingUserRepository) List(ctx context.Context, params user.ListParams) ([]*user.User, error) {
	return c.inner.List(ctx, params)
}

func (c *CachingUserRepository) CountByRole(ctx context.Context, role user.UserRole) (int, error) {
	return c.inner.CountByRole(ctx, role)
}

var _ ports.UserRepository = (*CachingUserRepository)(nil)
