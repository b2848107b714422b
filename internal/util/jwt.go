package util

import (
	"board-backend/config"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// GenerateToken 为指定用户签发有效期24小时的令牌
func GenerateToken(customerID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"customer_id": customerID,
		"exp":         time.Now().Add(time.Hour * 24).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateToken 校验令牌并返回其中的用户ID
func ValidateToken(tokenString string) (int, error) {
	if tokenString == "" {
		return 0, errors.New("令牌为空")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		customerID, ok := claims["customer_id"].(float64)
		if !ok {
			return 0, errors.New("无效的用户ID")
		}
		return int(customerID), nil
	}

	return 0, errors.New("无效的令牌")
}

// RefreshToken 基于仍然有效的旧令牌签发新令牌
func RefreshToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return "", err
	}

	// 签名合法但缺少用户ID声明的令牌同样拒绝
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		customerID, ok := claims["customer_id"].(float64)
		if !ok {
			return "", errors.New("无效的用户ID")
		}
		return GenerateToken(int(customerID))
	}

	return "", errors.New("无效的令牌")
}
