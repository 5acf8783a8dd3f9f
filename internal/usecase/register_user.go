package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
)

type RegisterUserUseCase struct {
	Repo      entity.UserRepositoryInterface
	Hasher    PasswordHasher
	Validator *Validator
	Logger    logrus.FieldLogger
}

func NewRegisterUserUseCase(repo entity.UserRepositoryInterface, hasher PasswordHasher, validator *Validator, logger logrus.FieldLogger) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		Repo:      repo,
		Hasher:    hasher,
		Validator: validator,
		Logger:    logger,
	}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, input RegisterUserInput) (*entity.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)

	if errs := uc.Validator.ValidateRegisterInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	hash, err := uc.Hasher.Hash(input.Password)
	if err != nil {
		return nil, &TechnicalError{Code: "HASH_ERROR", Message: "failed to hash password", Err: err}
	}

	user, err := entity.NewUser(input.Name, input.Email, hash)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error(), Err: err}
	}

	if err := uc.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, &DomainError{Code: CodeEmailConflict, Message: "email already registered", Err: err}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to create user", Err: err}
	}

	uc.Logger.WithFields(logrus.Fields{"module": "usecase", "user_id": user.ID}).Info("user registered")
	return user, nil
}

// Register adapts Execute to the activation sequence.
func (uc *RegisterUserUseCase) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	return uc.Execute(ctx, RegisterUserInput{Name: name, Email: email, Password: password})
}
