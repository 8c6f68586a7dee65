package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/app/auth/password"
	customErrors "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/model"
	repo "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/repo"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/media"
	lg "github.com/Miraines/MoonyAndStarry/tube-service/internal/infra/log"
)

type authService struct {
	accounts repo.AccountRepo
	tokens   repo.TokenRepo
	jwtUtil  jwt.JWTUtil
	hasher   password.Hasher
	uploader media.Uploader
	v        *validator.Validate
	log      *zap.Logger
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.PublicAccount, error)
	Login(context.Context, dto.LoginDTO) (model.Session, error)
	Logout(ctx context.Context, accountID uuid.UUID, access jwt.AccessClaims) error
	Refresh(context.Context, dto.RefreshDTO) (model.TokenPair, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, in dto.ChangePasswordDTO) error
	Authenticate(ctx context.Context, accessToken string) (model.PublicAccount, jwt.AccessClaims, error)
}

func New(
	ar repo.AccountRepo,
	tr repo.TokenRepo,
	jm jwt.JWTUtil,
	h password.Hasher,
	up media.Uploader,
	v *validator.Validate,
	log *zap.Logger,
) Service {
	return &authService{
		accounts: ar, tokens: tr, jwtUtil: jm, hasher: h, uploader: up, v: v, log: log,
	}
}

func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (model.PublicAccount, error) {
	in.Normalize()

	for _, f := range []string{in.Username, in.Email, strings.TrimSpace(in.Password), in.FullName} {
		if f == "" {
			return model.PublicAccount{}, customErrors.NewInvalidArgument("all fields are required")
		}
	}
	if in.AvatarPath == "" {
		return model.PublicAccount{}, customErrors.NewInvalidArgument("avatar is required")
	}
	if err := a.v.Struct(in); err != nil {
		return model.PublicAccount{}, customErrors.NewInvalidArgument(err.Error())
	}

	exists, err := a.accounts.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return model.PublicAccount{}, err
	}
	if exists {
		return model.PublicAccount{}, customErrors.NewAlreadyExists("user with this email or username already exists")
	}

	passwordHash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return model.PublicAccount{}, err
	}

	avatarURL, err := a.uploader.Upload(ctx, in.AvatarPath)
	if err != nil || avatarURL == "" {
		a.log.Warn("avatar upload failed", lg.Email(in.Email), zap.Error(err))
		return model.PublicAccount{}, customErrors.NewInvalidArgument("avatar upload failed")
	}

	var coverURL string
	if in.CoverImagePath != "" {
		// cover upload failure leaves the cover empty
		if coverURL, err = a.uploader.Upload(ctx, in.CoverImagePath); err != nil {
			a.log.Warn("cover image upload failed", lg.Email(in.Email), zap.Error(err))
			coverURL = ""
		}
	}

	account := model.Account{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		FullName:     in.FullName,
		Avatar:       avatarURL,
		CoverImage:   coverURL,
	}
	id, err := a.accounts.CreateAccount(ctx, account)
	if err != nil {
		a.removeMedia(ctx, avatarURL, coverURL)
		return model.PublicAccount{}, err
	}

	created, err := a.accounts.GetAccountByID(ctx, id)
	if err != nil {
		return model.PublicAccount{}, customErrors.WrapInternal(err, "Register")
	}
	return created.Public(), nil
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.Session, error) {
	in.Normalize()
	if in.Email == "" && in.Username == "" {
		return model.Session{}, customErrors.NewInvalidArgument("username or email is required")
	}
	if err := a.v.Struct(in); err != nil {
		return model.Session{}, customErrors.NewInvalidArgument(err.Error())
	}

	var (
		account model.Account
		err     error
	)
	if in.Email != "" {
		account, err = a.accounts.GetAccountByEmail(ctx, in.Email)
	} else {
		account, err = a.accounts.GetAccountByUsername(ctx, in.Username)
	}
	if err != nil {
		if customErrors.IsNotFound(err) {
			return model.Session{}, customErrors.NewNotFound("user does not exist")
		}
		return model.Session{}, err
	}

	ok, err := a.hasher.Verify(in.Password, account.PasswordHash)
	if err != nil {
		return model.Session{}, err
	}
	if !ok {
		return model.Session{}, customErrors.ErrInvalidCredentials
	}

	pair, err := a.issueTokens(account)
	if err != nil {
		return model.Session{}, err
	}
	// last write wins: a new login supersedes any other session
	if err := a.accounts.SetRefreshToken(ctx, account.ID, pair.RefreshToken); err != nil {
		return model.Session{}, err
	}

	return model.Session{Account: account.Public(), Tokens: pair}, nil
}

func (a *authService) Logout(ctx context.Context, accountID uuid.UUID, access jwt.AccessClaims) error {
	if err := a.accounts.SetRefreshToken(ctx, accountID, ""); err != nil {
		return err
	}

	if access.ID != "" && access.ExpiresAt != nil {
		if err := a.tokens.RevokeAccess(ctx, access.ID, access.ExpiresAt.Time); err != nil {
			a.log.Warn("revoke access token", zap.String("account", accountID.String()), zap.Error(err))
		}
	}
	return nil
}

func (a *authService) Refresh(ctx context.Context, in dto.RefreshDTO) (model.TokenPair, error) {
	presented := strings.TrimSpace(in.RefreshToken)
	if presented == "" {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	claims, err := a.jwtUtil.ValidateRefreshToken(presented)
	if err != nil {
		if customErrors.IsTokenExpired(err) {
			a.log.Debug("expired refresh token presented")
		}
		return model.TokenPair{}, err
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}
	account, err := a.accounts.GetAccountByID(ctx, uid)
	switch {
	case customErrors.IsNotFound(err):
		return model.TokenPair{}, customErrors.ErrInvalidToken
	case err != nil:
		return model.TokenPair{}, err
	}

	if subtle.ConstantTimeCompare([]byte(presented), []byte(account.RefreshToken)) != 1 {
		a.log.Info("superseded refresh token presented", zap.String("account", uid.String()))
		return model.TokenPair{}, customErrors.ErrRefreshTokenMismatch
	}

	pair, err := a.issueTokens(account)
	if err != nil {
		return model.TokenPair{}, err
	}
	rotated, err := a.accounts.RotateRefreshToken(ctx, uid, presented, pair.RefreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}
	if !rotated {
		// a concurrent refresh or logout got there first
		return model.TokenPair{}, customErrors.ErrRefreshTokenMismatch
	}
	return pair, nil
}

func (a *authService) ChangePassword(ctx context.Context, accountID uuid.UUID, in dto.ChangePasswordDTO) error {
	if strings.TrimSpace(in.NewPassword) == "" || in.OldPassword == "" {
		return customErrors.NewInvalidArgument("old and new password are required")
	}
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	account, err := a.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	ok, err := a.hasher.Verify(in.OldPassword, account.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return customErrors.ErrInvalidCredentials
	}

	hash, err := a.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	return a.accounts.UpdatePassword(ctx, accountID, hash)
}

func (a *authService) Authenticate(ctx context.Context, accessToken string) (model.PublicAccount, jwt.AccessClaims, error) {
	if accessToken == "" {
		return model.PublicAccount{}, jwt.AccessClaims{}, customErrors.ErrInvalidToken
	}

	claims, err := a.jwtUtil.ValidateAccessToken(accessToken)
	if err != nil {
		return model.PublicAccount{}, jwt.AccessClaims{}, err
	}

	revoked, err := a.tokens.IsAccessRevoked(ctx, claims.ID)
	if err != nil {
		return model.PublicAccount{}, jwt.AccessClaims{}, customErrors.WrapInternal(err, "Authenticate")
	}
	if revoked {
		return model.PublicAccount{}, jwt.AccessClaims{}, customErrors.ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.PublicAccount{}, jwt.AccessClaims{}, customErrors.ErrInvalidToken
	}
	account, err := a.accounts.GetAccountByID(ctx, uid)
	switch {
	case customErrors.IsNotFound(err):
		return model.PublicAccount{}, jwt.AccessClaims{}, customErrors.ErrInvalidToken
	case err != nil:
		return model.PublicAccount{}, jwt.AccessClaims{}, err
	}
	return account.Public(), claims, nil
}

func (a *authService) issueTokens(account model.Account) (model.TokenPair, error) {
	at, atExp, _, err := a.jwtUtil.GenerateAccessToken(jwt.AccessIdentity{
		AccountID: account.ID,
		Username:  account.Username,
		FullName:  account.FullName,
		Email:     account.Email,
	})
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	rt, rtExp, _, err := a.jwtUtil.GenerateRefreshToken(account.ID)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateRefreshToken")
	}

	now := time.Now()
	return model.TokenPair{
		AccessToken:  at,
		RefreshToken: rt,
		AccessTTL:    atExp.Sub(now),
		RefreshTTL:   rtExp.Sub(now),
		AccountID:    account.ID,
	}, nil
}

// removeMedia deletes uploads that no stored account references.
func (a *authService) removeMedia(ctx context.Context, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := a.uploader.Remove(ctx, url); err != nil {
			a.log.Warn("orphaned media left in storage", zap.String("url", url), zap.Error(err))
		}
	}
}
