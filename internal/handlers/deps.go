package handlers

import (
	"github.com/JakubEth/gramytu/internal/chat"
	"github.com/JakubEth/gramytu/internal/services"
	"github.com/redis/go-redis/v9"
)

var (
	chatHub     *chat.Hub
	chatStore   chat.GormStore
	announcer   *services.Announcer
	redisClient *redis.Client

	// Domain is the cookie domain for the auth token.
	Domain string
)

type Dependencies struct {
	Hub       *chat.Hub
	Announcer *services.Announcer
	Redis     *redis.Client
	Domain    string
}

// Configure wires the shared collaborators used by the handlers.
func Configure(deps Dependencies) {
	chatHub = deps.Hub
	if chatHub == nil {
		chatHub = chat.NewHub(chatStore)
	}

	announcer = deps.Announcer
	redisClient = deps.Redis
	Domain = deps.Domain
}
