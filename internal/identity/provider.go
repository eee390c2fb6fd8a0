// Package identity 解析本机身份与访问令牌
package identity

import (
	"fmt"

	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"
	"github.com/haierkeys/fast-note-offline-client/pkg/util"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 访问令牌中的声明
type Claims struct {
	UID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// Provider 持有当前用户身份与令牌
type Provider struct {
	token      string
	uid        int64
	clientName string
}

// New 解析令牌并确定本机客户端名称
// secret 非空时校验签名，空则只解析声明（离线调试用）
// token 为空时以本地身份运行，远端请求在取令牌时被拒绝
func New(token, secret string) (*Provider, error) {
	if token == "" {
		return &Provider{clientName: util.GetMachineID()}, nil
	}

	claims := &Claims{}
	var err error
	if secret != "" {
		_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
	} else {
		parser := jwt.NewParser()
		_, _, err = parser.ParseUnverified(token, claims)
	}
	if err != nil {
		return nil, xerrors.NewAppError(code.ErrorAuthToken, err)
	}
	if claims.UID <= 0 {
		return nil, xerrors.NewAppError(code.ErrorAuthToken, fmt.Errorf("token carries no uid"))
	}

	return &Provider{
		token:      token,
		uid:        claims.UID,
		clientName: util.GetMachineID(),
	}, nil
}

// Token 实现 remote.TokenProvider
func (p *Provider) Token() (string, error) {
	if p.token == "" {
		return "", xerrors.NewAppError(code.ErrorAuthToken, fmt.Errorf("no auth token configured"))
	}
	return p.token, nil
}

// UID 当前用户ID
func (p *Provider) UID() int64 {
	return p.uid
}

// ClientName 本机客户端标识
func (p *Provider) ClientName() string {
	return p.clientName
}

// SignToken 用密钥签发访问令牌，导出给联调与测试使用
func SignToken(uid int64, secret string) (string, error) {
	claims := &Claims{UID: uid}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", xerrors.NewAppError(code.ErrorAuthToken, err)
	}
	return signed, nil
}
