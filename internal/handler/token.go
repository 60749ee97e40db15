package handler

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidToken 表单令牌缺失、被篡改或已过期
var ErrInvalidToken = errors.New("invalid form token")

// TokenTTL 表单令牌有效期
const TokenTTL = 12 * time.Hour

// TokenSigner 用会话密钥签发表单防伪令牌
type TokenSigner struct {
	secret []byte
	now    func() time.Time
}

// NewTokenSigner 创建签名器
func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), now: time.Now}
}

// Issue 签发令牌：nonce.unix时间.签名
func (s *TokenSigner) Issue() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	payload := hex.EncodeToString(nonce) + "." + strconv.FormatInt(s.now().Unix(), 10)
	return payload + "." + s.sign(payload), nil
}

// Verify 校验令牌签名和有效期
func (s *TokenSigner) Verify(token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(s.sign(payload))) {
		return ErrInvalidToken
	}

	issued, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ErrInvalidToken
	}
	if s.now().Sub(time.Unix(issued, 0)) > TokenTTL {
		return ErrInvalidToken
	}
	return nil
}

func (s *TokenSigner) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
