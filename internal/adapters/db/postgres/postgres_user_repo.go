package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	customErrors "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/model"
)

type PostgresAccountRepo struct {
	db *gorm.DB
}

func NewPostgresAccountRepo(db *gorm.DB) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: db}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (p *PostgresAccountRepo) CreateAccount(ctx context.Context, a model.Account) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&a)
	if err := res.Error; err != nil {
		if isDuplicate(err) {
			return uuid.Nil, customErrors.NewAlreadyExists("username or email already taken")
		}
		return uuid.Nil, customErrors.WrapInternal(err, "CreateAccount")
	}
	return a.ID, nil
}

func (p *PostgresAccountRepo) first(ctx context.Context, op string, query string, arg any) (model.Account, error) {
	var a model.Account
	res := p.db.WithContext(ctx).Where(query, arg).First(&a)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Account{}, customErrors.NewNotFound("account")
	}
	if err := res.Error; err != nil {
		return model.Account{}, customErrors.WrapInternal(err, op)
	}
	return a, nil
}

func (p *PostgresAccountRepo) GetAccountByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	return p.first(ctx, "GetAccountByID", "id = ?", id)
}

func (p *PostgresAccountRepo) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	return p.first(ctx, "GetAccountByEmail", "email = ?", email)
}

func (p *PostgresAccountRepo) GetAccountByUsername(ctx context.Context, username string) (model.Account, error) {
	return p.first(ctx, "GetAccountByUsername", "username = ?", username)
}

func (p *PostgresAccountRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var n int64
	res := p.db.WithContext(ctx).Model(&model.Account{}).
		Where("username = ? OR email = ?", username, email).
		Count(&n)
	if err := res.Error; err != nil {
		return false, customErrors.WrapInternal(err, "ExistsByUsernameOrEmail")
	}
	return n > 0, nil
}

func (p *PostgresAccountRepo) UpdateProfile(ctx context.Context, id uuid.UUID, upd model.ProfileUpdate) (model.Account, error) {
	// struct Updates skips zero fields, so empty values keep the stored ones
	res := p.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(model.Account{
		FullName:   upd.FullName,
		Email:      upd.Email,
		Avatar:     upd.Avatar,
		CoverImage: upd.CoverImage,
	})
	if err := res.Error; err != nil {
		if isDuplicate(err) {
			return model.Account{}, customErrors.NewAlreadyExists("email already taken")
		}
		return model.Account{}, customErrors.WrapInternal(err, "UpdateProfile")
	}
	return p.GetAccountByID(ctx, id)
}

func (p *PostgresAccountRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res := p.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash": passwordHash,
		"refresh_token": "",
	})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdatePassword")
	}
	if res.RowsAffected == 0 {
		return customErrors.NewNotFound("account")
	}
	return nil
}

func (p *PostgresAccountRepo) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	res := p.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Update("refresh_token", token)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "SetRefreshToken")
	}
	if res.RowsAffected == 0 {
		return customErrors.NewNotFound("account")
	}
	return nil
}

func (p *PostgresAccountRepo) RotateRefreshToken(ctx context.Context, id uuid.UUID, current, next string) (bool, error) {
	if current == "" {
		return false, nil
	}
	res := p.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ? AND refresh_token = ?", id, current).
		Update("refresh_token", next)
	if err := res.Error; err != nil {
		return false, customErrors.WrapInternal(err, "RotateRefreshToken")
	}
	return res.RowsAffected == 1, nil
}
