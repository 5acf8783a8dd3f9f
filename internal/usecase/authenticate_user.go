package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
)

type AuthenticateUserUseCase struct {
	Repo   entity.UserRepositoryInterface
	Hasher PasswordHasher
	Tokens TokenManager
}

func NewAuthenticateUserUseCase(repo entity.UserRepositoryInterface, hasher PasswordHasher, tokens TokenManager) *AuthenticateUserUseCase {
	return &AuthenticateUserUseCase{Repo: repo, Hasher: hasher, Tokens: tokens}
}

func invalidCredentials() *DomainError {
	return &DomainError{Code: CodeUnauthorized, Message: "invalid credentials", Err: entity.ErrInvalidCredentials}
}

func (uc *AuthenticateUserUseCase) Execute(ctx context.Context, input AuthenticateUserInput) (*AuthenticateUserOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, invalidCredentials()
	}

	user, err := uc.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, invalidCredentials()
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to load user", Err: err}
	}

	ok, err := uc.Hasher.Compare(user.PasswordHash, input.Password)
	if err != nil {
		return nil, &TechnicalError{Code: "HASH_ERROR", Message: "failed to check password", Err: err}
	}
	if !ok {
		return nil, invalidCredentials()
	}

	session, err := uc.Tokens.Issue(user)
	if err != nil {
		return nil, &TechnicalError{Code: "TOKEN_ERROR", Message: "failed to issue session", Err: err}
	}

	return &AuthenticateUserOutput{User: user, Session: session}, nil
}

// Authenticate exchanges credentials for a session.
func (uc *AuthenticateUserUseCase) Authenticate(ctx context.Context, email, password string) (*entity.Session, error) {
	out, err := uc.Execute(ctx, AuthenticateUserInput{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return out.Session, nil
}
