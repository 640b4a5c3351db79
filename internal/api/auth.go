package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims 管理员 token，Addr 必须等于配置的管理员地址
type AdminClaims struct {
	Addr string `json:"addr"`
	jwt.RegisteredClaims
}

// GenerateAdminToken 签发 HS256 管理员 token
func GenerateAdminToken(addr, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Addr: addr,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAdminToken 校验签名与过期时间
func ParseAdminToken(tokenStr, secret string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

var errNotAdmin = errors.New("admin access required")

// AdminAuth secret 为空时不鉴权（测试网模式）
func AdminAuth(secret, adminAddress string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := ParseAdminToken(strings.TrimPrefix(h, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if !strings.EqualFold(claims.Addr, adminAddress) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errNotAdmin.Error()})
			return
		}
		c.Set("addr", claims.Addr)
		c.Next()
	}
}
