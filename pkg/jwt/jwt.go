package jwt

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims es el contrato de claims que espera la API de inventario.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

// Generate genera un token JWT firmado que incluye userID, companyID y role.
func Generate(secret, userID, companyID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve sus claims.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}

// refreshMargin antelación con la que se renueva el token antes de expirar.
const refreshMargin = 30 * time.Second

// ServiceTokenSource firma tokens de servicio para llamar al backend y los reutiliza
// mientras les quede vigencia. Guarda uno por empresa.
type ServiceTokenSource struct {
	Secret     string
	Issuer     string
	UserID     string
	CompanyID  string // empresa por defecto, sin llamante autenticado
	Role       string
	ExpMinutes int

	mu    sync.Mutex
	cache map[string]cachedToken
	now   func() time.Time
}

type cachedToken struct {
	value   string
	expires time.Time
}

// Token devuelve un token vigente para la empresa por defecto.
func (s *ServiceTokenSource) Token() (string, error) {
	return s.TokenFor(s.CompanyID)
}

// TokenFor devuelve un token vigente para companyID, firmando uno nuevo si hace falta.
func (s *ServiceTokenSource) TokenFor(companyID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	if c, ok := s.cache[companyID]; ok && now().Add(refreshMargin).Before(c.expires) {
		return c.value, nil
	}

	exp := s.ExpMinutes
	if exp <= 0 {
		exp = 5
	}
	tok, err := Generate(s.Secret, s.UserID, companyID, s.Role, s.Issuer, exp)
	if err != nil {
		return "", err
	}
	if s.cache == nil {
		s.cache = map[string]cachedToken{}
	}
	s.cache[companyID] = cachedToken{value: tok, expires: now().Add(time.Duration(exp) * time.Minute)}
	return tok, nil
}
