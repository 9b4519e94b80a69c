package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize = 16
	keySize  = 32

	// DefaultIterations PBKDF2 默认迭代次数
	DefaultIterations = 100000
)

// ErrMalformedHash 存储的哈希不是 salt:hash 格式
var ErrMalformedHash = errors.New("密码哈希格式无效")

// Hasher PBKDF2-HMAC-SHA256 密码哈希器
//
// 存储格式为 "saltHex:hashHex"。
// 历史用户（初始化迁移创建）使用 hex(SHA-256(password + saltHex))，同样是 salt:hash 格式。
type Hasher struct {
	iterations int
}

// NewHasher 创建哈希器，iterations <= 0 时使用默认值
func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{iterations: iterations}
}

// Hash 生成随机盐并计算 PBKDF2 哈希
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("生成盐失败: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, h.iterations, keySize, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// Result 校验结果
type Result struct {
	Match bool
	// Legacy 为 true 表示通过单轮 SHA-256 校验，调用方应重新哈希
	Legacy bool
}

// Verify 校验密码
// 先尝试 PBKDF2；不匹配（或盐无法解码）时回退到单轮 SHA-256
func (h *Hasher) Verify(password, stored string) (Result, error) {
	saltHex, hashHex, ok := strings.Cut(stored, ":")
	if !ok || hashHex == "" {
		return Result{}, ErrMalformedHash
	}

	want, err := hex.DecodeString(hashHex)
	if err != nil {
		return Result{}, ErrMalformedHash
	}

	if salt, err := hex.DecodeString(saltHex); err == nil && len(salt) > 0 {
		key := pbkdf2.Key([]byte(password), salt, h.iterations, len(want), sha256.New)
		if subtle.ConstantTimeCompare(key, want) == 1 {
			return Result{Match: true}, nil
		}
	}

	sum := sha256.Sum256([]byte(password + saltHex))
	if subtle.ConstantTimeCompare(sum[:], want) == 1 {
		return Result{Match: true, Legacy: true}, nil
	}

	return Result{}, nil
}

// LegacyHash 生成单轮 SHA-256 哈希（仅用于 hrctl 生成初始化数据与测试）
func LegacyHash(password, saltHex string) string {
	sum := sha256.Sum256([]byte(password + saltHex))
	return saltHex + ":" + hex.EncodeToString(sum[:])
}
