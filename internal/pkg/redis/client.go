// internal/pkg/redis/client.go
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrCacheMiss 表示键不存在。
var ErrCacheMiss = errors.New("redis: cache miss")

// Client 是 go-redis 的一个薄封装，只暴露本仓库用到的缓存原语。
type Client struct {
	rdb *goredis.Client
}

// NewClient 按地址创建客户端。
func NewClient(addr string) *Client {
	return &Client{
		rdb: goredis.NewClient(&goredis.Options{Addr: addr}),
	}
}

// Get 读取 key，miss 时返回 ErrCacheMiss。
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

// Set 写入 key 并设置过期时间。
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Del 删除若干 key。
func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// Close 关闭底层连接池。
func (c *Client) Close() error {
	return c.rdb.Close()
}
