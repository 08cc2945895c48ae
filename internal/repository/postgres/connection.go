package postgres

import (
	"context"

	"github.com/arjun/party-games-website/internal/domain"
	"github.com/arjun/party-games-website/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
		&domain.Room{},
		&domain.RoomPlayer{},
		&domain.RoundRecord{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:        NewUserRepository(db),
		Session:     NewSessionRepository(db),
		Room:        NewRoomRepository(db),
		RoomPlayer:  NewRoomPlayerRepository(db),
		RoundRecord: NewRoundRecordRepository(db),
		Atomic:      &atomicRunner{db: db},
	}
}

// atomicRunner binds a fresh Repositories to a gorm transaction so guarded
// mutations read and write through the same unit of atomicity.
type atomicRunner struct {
	db *gorm.DB
}

func (a *atomicRunner) RunInTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
