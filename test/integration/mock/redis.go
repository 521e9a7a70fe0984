package mock

import (
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Redis bundles a miniredis instance with a client connected to it.
type Redis struct {
	backend *miniredis.Miniredis
	Client  *redis.Client
}

// NewRedis starts an in-process redis for the general tier.
func NewRedis() (*Redis, error) {
	backend, err := miniredis.Run()
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{Addr: backend.Addr()})
	return &Redis{backend: backend, Client: client}, nil
}

// Addr returns the listen address of the in-process redis.
func (r *Redis) Addr() string {
	return r.backend.Addr()
}

// Close stops the client and the backend.
func (r *Redis) Close() {
	_ = r.Client.Close()
	r.backend.Close()
}
