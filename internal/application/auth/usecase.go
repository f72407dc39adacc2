package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/domain"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
	"github.com/jhoicas/hr-onboarding-api/pkg/jwt"
	"github.com/jhoicas/hr-onboarding-api/pkg/logger"
)

const invalidCredentials = "Invalid email or password"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase proveedor de identidad: login con bcrypt y emisión de JWT.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log.Component("auth")}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y password incorrecto responden igual.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.Validation("email and password are required", missing(email, in.Password), nil)
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Unauthorized(invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn().Str("user_id", user.ID).Msg("password incorrecto")
		return nil, domain.Unauthorized(invalidCredentials)
	}
	if !user.IsActive {
		return nil, domain.Forbidden("User account is inactive")
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, jwt.Identity{
		UserID:       user.ID,
		DepartmentID: user.DepartmentID,
		Permissions:  user.Permissions,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("login")
	return &dto.LoginResponse{
		Token: token,
		User:  ToUserResponse(user),
	}, nil
}

// ActiveUser devuelve el usuario si sigue existiendo y activo; el middleware lo consulta
// en cada petición para que desactivar surta efecto antes de que expire el token.
func (uc *AuthUseCase) ActiveUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.Unauthorized("User not found or inactive")
	}
	return user, nil
}

// HashPassword bcrypt con el costo por defecto.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func missing(email, password string) []string {
	var out []string
	if email == "" {
		out = append(out, "email")
	}
	if password == "" {
		out = append(out, "password")
	}
	return out
}

// ToUserResponse proyección pública del usuario (sin hash).
func ToUserResponse(u *entity.User) dto.UserResponse {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return dto.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		DepartmentID: u.DepartmentID,
		Permissions:  perms,
		IsActive:     u.IsActive,
	}
}
