package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Rishabh1623/shopmetrics/internal/domain/auth/model"
	customErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
)

type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func (p *PostgresUserRepo) CreateUser(ctx context.Context, user model.User) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&user)
	if err := res.Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		return uuid.Nil, customErrors.WrapInternal(err, "CreateUser")
	}
	return user.ID, nil
}

func (p *PostgresUserRepo) CreateProfile(ctx context.Context, profile model.Profile) error {
	res := p.db.WithContext(ctx).Create(&profile)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "CreateProfile")
	}
	return nil
}

func (p *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("email = ?", email).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByEmail")
	}

	return u, nil
}

func (p *PostgresUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByID")
	}

	return u, nil
}

func (p *PostgresUserRepo) GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	var pr model.Profile
	res := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&pr)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Profile{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Profile{}, customErrors.WrapInternal(err, "GetProfile")
	}

	return pr, nil
}

func (p *PostgresUserRepo) UpdateProfile(ctx context.Context, profile model.Profile) error {
	res := p.db.WithContext(ctx).Save(&profile)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateProfile")
	}
	return nil
}
