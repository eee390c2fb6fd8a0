package util

import (
	"crypto/rand"
	"math/big"
)

const randomCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GetRandomString 生成指定长度的随机字符串
func GetRandomString(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(randomCharset)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand 失败时退化为固定字符
			b[i] = randomCharset[0]
			continue
		}
		b[i] = randomCharset[idx.Int64()]
	}
	return string(b)
}
