package mock

import (
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Redis is a fresh miniredis instance scoped to one scenario.
type Redis struct {
	Client *redis.Client
	server *miniredis.Miniredis
}

// NewRedis starts a new miniredis server and returns a client bound to
// it. Each call returns an isolated instance; the caller must Close it
// when the scenario finishes.
func NewRedis() (*Redis, error) {
	server, err := miniredis.Run()
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr: server.Addr(),
	})

	return &Redis{Client: client, server: server}, nil
}

// Close shuts down the client and the miniredis server.
func (r *Redis) Close() error {
	err := r.Client.Close()
	r.server.Close()
	return err
}
