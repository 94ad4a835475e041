package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/SundayYogurt/bachelor-point/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// LocalsPrincipal is the fiber locals key the auth middleware stores the caller under.
const LocalsPrincipal = "principal"

type Auth struct {
	Secret string
	// TTL of zero issues tokens without an exp claim.
	TTL time.Duration
}

func SetupAuth(s string, ttl time.Duration) Auth {
	return Auth{
		Secret: s,
		TTL:    ttl,
	}
}

func (a Auth) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("unable to hash password")
	}
	return string(hashed), nil
}

func (a Auth) VerifyPassword(plain, hashed string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func (a Auth) GenerateToken(p domain.Principal) (string, error) {
	if p.StudentID == "" || p.Email == "" {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"student_id": p.StudentID,
		"email":      p.Email,
		"role":       p.Role,
		"status":     p.Status,
		"iat":        now.Unix(),
	}
	if a.TTL > 0 {
		claims["exp"] = now.Add(a.TTL).Unix()
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}
	return tokenStr, nil
}

// VerifyToken accepts "Bearer <token>" or a bare token.
func (a Auth) VerifyToken(tokenString string) (dto.TokenClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return dto.TokenClaims{}, errors.New("missing token")
	}

	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		parts := strings.SplitN(tokenString, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			return dto.TokenClaims{}, errors.New("invalid token format")
		}
		tokenString = strings.TrimSpace(parts[1])
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dto.TokenClaims{}, errors.New("token expired")
		}
		return dto.TokenClaims{}, errors.New("token parse error")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return dto.TokenClaims{}, errors.New("invalid token claims")
	}

	expiry, hasExp := claims["exp"].(float64)
	if !hasExp && a.TTL > 0 {
		return dto.TokenClaims{}, errors.New("missing expiry")
	}

	studentID, _ := claims["student_id"].(string)
	email, _ := claims["email"].(string)
	if studentID == "" || email == "" {
		return dto.TokenClaims{}, errors.New("invalid token claims")
	}
	role, _ := claims["role"].(string)
	status, _ := claims["status"].(string)
	iat, _ := claims["iat"].(float64)

	return dto.TokenClaims{
		StudentID: studentID,
		Email:     email,
		Role:      role,
		Status:    status,
		Iat:       iat,
		Expiry:    expiry,
	}, nil
}

func (a Auth) GetCurrentPrincipal(ctx *fiber.Ctx) (domain.Principal, error) {
	p, ok := ctx.Locals(LocalsPrincipal).(domain.Principal)
	if !ok || p.StudentID == "" {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}
