package util

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
)

// EncodeMD5 计算字符串的 MD5 摘要
func EncodeMD5(value string) string {
	m := md5.Sum([]byte(value))
	return hex.EncodeToString(m[:])
}

// EncodeSHA256 计算字符串的 SHA256 摘要
func EncodeSHA256(value string) string {
	s := sha256.Sum256([]byte(value))
	return hex.EncodeToString(s[:])
}
