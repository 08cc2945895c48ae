package service

import (
	"github.com/arjun/party-games-website/internal/config"
	"github.com/arjun/party-games-website/internal/repository"
)

type Services struct {
	Auth *AuthService
	Room *RoomService
	Game *GameService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos.User, repos.Session, cfg),
		Room: NewRoomService(repos, cfg),
		Game: NewGameService(repos, cfg),
	}
}
