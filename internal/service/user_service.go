package service

import (
	"context"
	"errors"
	"fmt"
	"waveBackend/internal/auth"
	"waveBackend/internal/logger"
	"waveBackend/internal/models"
	"waveBackend/internal/repository"
	"waveBackend/internal/upload"

	"go.uber.org/zap"
)

type UserService struct {
	repo       UserRepository
	tokens     *auth.JWTManager
	blobs      BlobStorage
	adminEmail string
}

func NewUserService(repo UserRepository, tokens *auth.JWTManager, blobs BlobStorage, adminEmail string) UserService {
	return UserService{
		repo:       repo,
		tokens:     tokens,
		blobs:      blobs,
		adminEmail: adminEmail,
	}
}

type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	Role         string
	Skills       string
	Mobile       string
	WorkPlatform string
	Latitude     *float64
	Longitude    *float64
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	switch {
	case in.Username == "":
		return nil, NewValidationError("username", "обязательное поле")
	case in.Email == "":
		return nil, NewValidationError("email", "обязательное поле")
	case in.Password == "":
		return nil, NewValidationError("password", "обязательное поле")
	case in.Role == "":
		return nil, NewValidationError("role", "обязательное поле")
	}

	if in.Role != "user" && in.Role != "seeker" {
		return nil, NewValidationError("role", "допустимы только 'user' и 'seeker'")
	}

	if _, err := s.repo.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, NewDuplicate("email", ToDetail("email", in.Email))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("проверка email: %w", err)
	}

	if _, err := s.repo.GetUserByUsername(ctx, in.Username); err == nil {
		return nil, NewDuplicate("имя пользователя", ToDetail("username", in.Username))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("проверка имени: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("хэширование пароля: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Skills:       in.Skills,
		Mobile:       in.Mobile,
		WorkPlatform: in.WorkPlatform,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		IsAdmin:      in.Email == s.adminEmail,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}

	logger.Info("Service: Пользователь зарегистрирован",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role))
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, NewValidationError("email/password", "обязательные поля")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// не раскрываем, что именно не подошло
			return "", nil, NewUnauthorized("неверный email или пароль")
		}
		return "", nil, fmt.Errorf("получение пользователя: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, NewUnauthorized("неверный email или пароль")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("выпуск токена: %w", err)
	}

	logger.Info("Service: Успешный вход", zap.Int64("user_id", user.ID))
	return token, user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("пользователь", id)
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return user, nil
}

// IsAdmin отдаёт признак администратора, им пользуется HTTP-middleware.
func (s *UserService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("получение пользователя: %w", err)
	}
	return user.IsAdmin, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение пользователей: %w", err)
	}
	return users, nil
}

func (s *UserService) UpdateLocation(ctx context.Context, userID int64, lat, lon *float64) (*models.User, error) {
	if lat == nil || lon == nil {
		return nil, NewValidationError("latitude/longitude", "обязательные поля")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("пользователь", userID)
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	if err := s.repo.UpdateUserLocation(ctx, userID, *lat, *lon); err != nil {
		return nil, fmt.Errorf("обновление геопозиции: %w", err)
	}

	user.Latitude = lat
	user.Longitude = lon
	return user, nil
}

func (s *UserService) UploadProfileImage(ctx context.Context, userID int64, data []byte, filename string) (string, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", NewNotFound("пользователь", userID)
		}
		return "", fmt.Errorf("получение пользователя: %w", err)
	}

	url, err := s.blobs.Store(data, fmt.Sprintf("profile_%d_%s", userID, filename))
	if err != nil {
		if errors.Is(err, upload.ErrBadExtension) {
			return "", NewValidationError("image", "допустимы только PNG, JPG, JPEG и GIF")
		}
		if errors.Is(err, upload.ErrTooLarge) {
			return "", NewValidationError("image", "файл больше 16 МБ")
		}
		return "", fmt.Errorf("сохранение картинки: %w", err)
	}

	if err := s.repo.SetUserImage(ctx, userID, url); err != nil {
		return "", fmt.Errorf("обновление image_url: %w", err)
	}

	return url, nil
}
