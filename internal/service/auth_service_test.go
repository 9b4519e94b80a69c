package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AlanDanielGC/hr-hub-main-sub001/config"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/dto"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/model"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/password"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/redis"
)

// ── 测试辅助 ──

var testClient = dto.ClientInfo{IP: "10.0.0.7", UserAgent: "go-test"}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		SessionTTL:        24 * time.Hour,
		MaxFailedAttempts: 5,
		PBKDF2Iterations:  1000,
		MinPasswordLength: 8,
	}
}

type authFixture struct {
	svc      *authService
	mocks    *mockRepos
	cache    *mockSessionCache
	notifier *mockNotifier
	now      time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo, mocks := newMockRepos()
	cache := newMockSessionCache()
	notifier := &mockNotifier{}
	svc := NewAuthService(testAuthConfig(), repo, cache, notifier, zap.NewNop()).(*authService)

	f := &authFixture{
		svc:      svc,
		mocks:    mocks,
		cache:    cache,
		notifier: notifier,
		now:      time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	svc.now = func() time.Time { return f.now }
	return f
}

// seedUser 写入一个使用 PBKDF2 哈希的用户
func (f *authFixture) seedUser(t *testing.T, username, plain string, roles ...string) *model.User {
	t.Helper()
	hash, err := f.svc.hasher.Hash(plain)
	if err != nil {
		t.Fatalf("生成哈希失败: %v", err)
	}
	name := username
	u := &model.User{
		Username:     &name,
		Email:        username + "@rrhh.mx",
		PasswordHash: hash,
		FullName:     strings.ToUpper(username),
		Status:       "active",
	}
	if err := f.mocks.user.Create(context.Background(), u); err != nil {
		t.Fatalf("写入用户失败: %v", err)
	}
	f.mocks.role.roles[u.ID] = append(f.mocks.role.roles[u.ID], roles...)
	return u
}

// seedSession 直接写入会话
func (f *authFixture) seedSession(userID, token string, expiresAt time.Time) {
	f.mocks.session.sessions[token] = &model.UserSession{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
}

// ═══════════════════════════════════════════════════════════
// Login
// ═══════════════════════════════════════════════════════════

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ana", "secreto123", model.RoleAdminRRHH)
	area := &model.Area{Name: "Operaciones"}
	f.mocks.profile.profiles = append(f.mocks.profile.profiles, &model.Profile{UserID: &user.ID, Area: area})
	user.FailedLoginAttempts = 2

	resp, err := f.svc.Login(context.Background(), &dto.LoginRequest{Username: "  ANA ", Password: "secreto123"}, testClient)
	if err != nil {
		t.Fatalf("期望登录成功，实际: %v", err)
	}
	if resp.Session.Token == "" {
		t.Fatal("期望返回会话令牌")
	}
	if !resp.Session.ExpiresAt.Equal(f.now.Add(24 * time.Hour)) {
		t.Errorf("期望会话 24 小时后过期，实际: %v", resp.Session.ExpiresAt)
	}
	if resp.User.Department != "Operaciones" {
		t.Errorf("期望部门取区域名，实际: %s", resp.User.Department)
	}
	if len(resp.Roles) != 1 || resp.Roles[0] != model.RoleAdminRRHH {
		t.Errorf("期望角色 [admin_rrhh]，实际: %v", resp.Roles)
	}
	if user.FailedLoginAttempts != 0 {
		t.Errorf("期望失败次数清零，实际: %d", user.FailedLoginAttempts)
	}
	if user.LastLoginAt == nil || !user.LastLoginAt.Equal(f.now) {
		t.Error("期望更新 last_login_at")
	}
	if _, ok := f.mocks.session.sessions[resp.Session.Token]; !ok {
		t.Error("期望会话写入数据库")
	}
	if _, ok := f.cache.sessions[resp.Session.Token]; !ok {
		t.Error("期望会话写入缓存")
	}
	a := f.mocks.audit.last()
	if a == nil || a.Action != model.AuditLogin || !a.Success {
		t.Errorf("期望写入成功登录审计，实际: %+v", a)
	}
	if a != nil && (a.IPAddress == nil || *a.IPAddress != testClient.IP) {
		t.Error("期望审计记录客户端 IP")
	}
}

func TestLogin_MissingCredentials(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Login(context.Background(), &dto.LoginRequest{Username: "ana"}, testClient)
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("期望 ErrMissingCredentials，实际: %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Login(context.Background(), &dto.LoginRequest{Username: "nadie", Password: "x"}, testClient)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
	a := f.mocks.audit.last()
	if a == nil || a.Action != model.AuditFailedLogin || a.Success {
		t.Fatalf("期望写入失败登录审计，实际: %+v", a)
	}
	if a.Metadata["reason"] != "user_not_found" {
		t.Errorf("期望 reason=user_not_found，实际: %v", a.Metadata["reason"])
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ana", "secreto123")

	_, err := f.svc.Login(context.Background(), &dto.LoginRequest{Username: "ana", Password: "incorrecta"}, testClient)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
	if user.FailedLoginAttempts != 1 {
		t.Errorf("期望失败次数为 1，实际: %d", user.FailedLoginAttempts)
	}
	if user.IsLocked {
		t.Error("第一次失败不应锁定")
	}
	if len(f.mocks.session.sessions) != 0 {
		t.Error("密码错误不应创建会话")
	}
}

// 读取到的 user 落后于数据库时，以累加后的计数判定锁定
func TestRecordFailedLogin_UsesStoredCounter(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ana", "secreto123")
	stale := *user
	user.FailedLoginAttempts = 4

	err := f.svc.recordFailedLogin(context.Background(), &stale, testClient)
	if !errors.Is(err, ErrAccountJustLocked) {
		t.Fatalf("期望 ErrAccountJustLocked，实际: %v", err)
	}
	if user.FailedLoginAttempts != 5 || !user.IsLocked {
		t.Errorf("期望失败次数为 5 且已锁定，实际: locked=%v attempts=%d", user.IsLocked, user.FailedLoginAttempts)
	}
	if a := f.mocks.audit.last(); a == nil || a.Metadata["failed_attempts"] != 5 {
		t.Errorf("期望审计记录 failed_attempts=5，实际: %+v", a)
	}
}

func TestLogin_LockoutAfterMaxAttempts(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ana", "secreto123")
	user.FailedLoginAttempts = 4

	_, err := f.svc.Login(context.Background(), &dto.LoginRequest{Username: "ana", Password: "incorrecta"}, testClient)
	if !errors.Is(err, ErrAccountJustLocked) {
		t.Fatalf("期望 ErrAccountJustLocked，实际: %v", err)
	}
	if !user.IsLocked || user.FailedLoginAttempts != 5 {
		t.Errorf("期望锁定且失败次数为 5，实际: locked=%v attempts=%d", user.IsLocked, user.FailedLoginAttempts)
	}
	if len(f.notifier.messages) != 1 || !strings.Contains(f.notifier.messages[0], user.Email) {
		t.Errorf("期望发送一条包含邮箱的锁定通知，实际: %v", f.notifier.messages)
	}
	a := f.mocks.audit.last()
	if a == nil || a.Metadata["locked"] != true {
		t.Errorf("期望审计标记 locked=true，实际: %+v", a)
	}

	// 锁定后即使密码正确也拒绝
	_, err = f.svc.Login(context.Background(), &dto.LoginRequest{Username: "ana", Password: "secreto123"}, testClient)
	if !errors.Is(err, ErrAccountLocked) {
		t.Errorf("期望 ErrAccountLocked，实际: %v", err)
	}
}

func TestLogin_LegacyHashUpgraded(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "legacy", "irrelevante")
	user.PasswordHash = password.LegacyHash("admin123", "a1b2c3d4")

	if _, err := f.svc.Login(context.Background(), &dto.LoginRequest{Username: "legacy", Password: "admin123"}, testClient); err != nil {
		t.Fatalf("期望旧版哈希可登录，实际: %v", err)
	}
	if strings.HasPrefix(user.PasswordHash, "a1b2c3d4:") {
		t.Error("期望旧版哈希被升级")
	}
	res, err := f.svc.hasher.Verify("admin123", user.PasswordHash)
	if err != nil || !res.Match || res.Legacy {
		t.Errorf("期望升级后为 PBKDF2 哈希，实际: %+v, %v", res, err)
	}
}

// ═══════════════════════════════════════════════════════════
// Signup
// ═══════════════════════════════════════════════════════════

func TestSignup_FirstUserBecomesSuperadmin(t *testing.T) {
	f := newAuthFixture(t)
	resp, err := f.svc.Signup(context.Background(), &dto.SignupRequest{
		Username: "Root",
		Email:    "Root@RRHH.mx",
		Password: "superseguro",
		FullName: "Administrador",
		Role:     model.RoleAdminRRHH,
	}, "", testClient)
	if err != nil {
		t.Fatalf("期望首个用户创建成功，实际: %v", err)
	}
	if resp.User.Role != model.RoleSuperadmin {
		t.Errorf("期望首个用户为 superadmin，实际: %s", resp.User.Role)
	}
	if resp.User.Username != "root" || resp.User.Email != "root@rrhh.mx" {
		t.Errorf("期望用户名与邮箱转小写，实际: %s / %s", resp.User.Username, resp.User.Email)
	}
	if roles := f.mocks.role.roles[resp.User.ID]; len(roles) != 1 || roles[0] != model.RoleSuperadmin {
		t.Errorf("期望写入 superadmin 角色，实际: %v", roles)
	}
	if a := f.mocks.audit.last(); a == nil || a.Action != model.AuditSignup {
		t.Errorf("期望写入 signup 审计，实际: %+v", a)
	}
}

func TestSignup_RequiresAdminWhenUsersExist(t *testing.T) {
	f := newAuthFixture(t)
	req := &dto.SignupRequest{Username: "nuevo", Email: "nuevo@rrhh.mx", Password: "superseguro", FullName: "Nuevo"}

	// 无令牌
	f.seedUser(t, "ana", "secreto123")
	_, err := f.svc.Signup(context.Background(), req, "", testClient)
	if !errors.Is(err, ErrSessionMissing) {
		t.Errorf("期望 ErrSessionMissing，实际: %v", err)
	}

	// 非管理员
	plain := f.seedUser(t, "plain", "secreto123")
	f.seedSession(plain.ID, "tok-plain", f.now.Add(time.Hour))
	_, err = f.svc.Signup(context.Background(), req, "tok-plain", testClient)
	if !errors.Is(err, ErrNotAdmin) {
		t.Errorf("期望 ErrNotAdmin，实际: %v", err)
	}
}

func TestSignup_ByAdmin(t *testing.T) {
	f := newAuthFixture(t)
	admin := f.seedUser(t, "root", "secreto123", model.RoleSuperadmin)
	f.seedSession(admin.ID, "tok-admin", f.now.Add(time.Hour))

	resp, err := f.svc.Signup(context.Background(), &dto.SignupRequest{
		Username: "rh", Email: "rh@rrhh.mx", Password: "superseguro", FullName: "Recursos",
	}, "tok-admin", testClient)
	if err != nil {
		t.Fatalf("期望创建成功，实际: %v", err)
	}
	if resp.User.Role != model.RoleAdminRRHH {
		t.Errorf("期望默认角色 admin_rrhh，实际: %s", resp.User.Role)
	}

	_, err = f.svc.Signup(context.Background(), &dto.SignupRequest{
		Username: "rh", Email: "rh@rrhh.mx", Password: "superseguro", FullName: "Recursos",
	}, "tok-admin", testClient)
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("期望重复用户返回 ErrUserExists，实际: %v", err)
	}

	_, err = f.svc.Signup(context.Background(), &dto.SignupRequest{
		Username: "otro", Email: "otro@rrhh.mx", Password: "superseguro", FullName: "Otro", Role: "gerente",
	}, "tok-admin", testClient)
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("期望 ErrInvalidRole，实际: %v", err)
	}
}

func TestSignup_Validation(t *testing.T) {
	f := newAuthFixture(t)
	tests := []struct {
		name string
		req  dto.SignupRequest
		want error
	}{
		{"缺少姓名", dto.SignupRequest{Username: "a", Email: "a@b.mx", Password: "superseguro"}, ErrSignupFields},
		{"缺少邮箱", dto.SignupRequest{Username: "a", Password: "superseguro", FullName: "A"}, ErrSignupFields},
		{"密码过短", dto.SignupRequest{Username: "a", Email: "a@b.mx", Password: "corta", FullName: "A"}, ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Signup(context.Background(), &tt.req, "", testClient)
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// Logout / Verify / ResetPassword
// ═══════════════════════════════════════════════════════════

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ana", "secreto123")
	f.seedSession(user.ID, "tok", f.now.Add(time.Hour))
	f.cache.sessions["tok"] = redis.CachedSession{UserID: user.ID, ExpiresAt: f.now.Add(time.Hour)}

	if err := f.svc.Logout(context.Background(), "tok", testClient); err != nil {
		t.Fatalf("期望登出成功，实际: %v", err)
	}
	if _, ok := f.mocks.session.sessions["tok"]; ok {
		t.Error("期望删除数据库会话")
	}
	if _, ok := f.cache.sessions["tok"]; ok {
		t.Error("期望删除缓存会话")
	}
	if a := f.mocks.audit.last(); a == nil || a.Action != model.AuditLogout {
		t.Errorf("期望写入 logout 审计，实际: %+v", a)
	}

	// 未知令牌视为成功
	if err := f.svc.Logout(context.Background(), "desconocido", testClient); err != nil {
		t.Errorf("期望未知令牌登出成功，实际: %v", err)
	}
	if err := f.svc.Logout(context.Background(), "", testClient); !errors.Is(err, ErrSessionMissing) {
		t.Errorf("期望 ErrSessionMissing，实际: %v", err)
	}
}

func TestVerify(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ana", "secreto123", model.RoleSuperadmin)
	dept := "Finanzas"
	user.Department = &dept
	f.seedSession(user.ID, "tok", f.now.Add(time.Hour))

	resp, err := f.svc.Verify(context.Background(), "tok")
	if err != nil {
		t.Fatalf("期望校验成功，实际: %v", err)
	}
	if resp.User.ID != user.ID || resp.User.Department != "Finanzas" {
		t.Errorf("期望返回用户信息并回退到用户部门，实际: %+v", resp.User)
	}
	if len(f.mocks.session.touched) != 1 {
		t.Error("期望刷新会话活跃时间")
	}
}

func TestVerify_ExpiredSession(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ana", "secreto123")
	f.seedSession(user.ID, "tok", f.now.Add(-time.Minute))

	if _, err := f.svc.Verify(context.Background(), "tok"); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("期望 ErrSessionInvalid，实际: %v", err)
	}
	if _, err := f.svc.Verify(context.Background(), "nope"); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("期望未知令牌返回 ErrSessionInvalid，实际: %v", err)
	}
}

func TestVerify_CacheErrorFallsBackToDB(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ana", "secreto123")
	f.seedSession(user.ID, "tok", f.now.Add(time.Hour))
	f.cache.getErr = errors.New("redis caído")

	if _, err := f.svc.Verify(context.Background(), "tok"); err != nil {
		t.Errorf("期望缓存故障时回退数据库，实际: %v", err)
	}
}

func TestAuthenticate_UsesCache(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ana", "secreto123", model.RoleAdminRRHH)
	// 仅缓存中存在
	f.cache.sessions["tok"] = redis.CachedSession{UserID: user.ID, ExpiresAt: f.now.Add(time.Hour)}

	p, err := f.svc.Authenticate(context.Background(), "tok")
	if err != nil {
		t.Fatalf("期望命中缓存，实际: %v", err)
	}
	if p.UserID != user.ID || !p.IsAdmin() {
		t.Errorf("期望管理员主体，实际: %+v", p)
	}
}

func TestResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	admin := f.seedUser(t, "root", "secreto123", model.RoleSuperadmin)
	f.seedSession(admin.ID, "tok-admin", f.now.Add(time.Hour))
	target := f.seedUser(t, "ana", "secreto123")
	target.IsLocked = true
	target.FailedLoginAttempts = 5

	err := f.svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{UserID: target.ID, NewPassword: "nuevaclave"}, "tok-admin", testClient)
	if err != nil {
		t.Fatalf("期望重置成功，实际: %v", err)
	}
	if target.IsLocked || target.FailedLoginAttempts != 0 {
		t.Error("期望重置后解锁并清零失败次数")
	}
	if res, _ := f.svc.hasher.Verify("nuevaclave", target.PasswordHash); !res.Match {
		t.Error("期望新密码生效")
	}
	a := f.mocks.audit.last()
	if a == nil || a.Action != model.AuditPasswordReset || a.Metadata["reset_by"] != admin.ID {
		t.Errorf("期望审计记录 reset_by，实际: %+v", a)
	}

	err = f.svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{UserID: "nope", NewPassword: "nuevaclave"}, "tok-admin", testClient)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
	err = f.svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{UserID: target.ID, NewPassword: "corta"}, "tok-admin", testClient)
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("期望 ErrPasswordTooShort，实际: %v", err)
	}
	err = f.svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{UserID: target.ID}, "tok-admin", testClient)
	if !errors.Is(err, ErrResetFields) {
		t.Errorf("期望 ErrResetFields，实际: %v", err)
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	f := newAuthFixture(t)
	f.seedSession("u1", "old", f.now.Add(-time.Hour))
	f.seedSession("u1", "new", f.now.Add(time.Hour))

	n, err := f.svc.CleanupExpiredSessions(context.Background())
	if err != nil {
		t.Fatalf("期望清理成功，实际: %v", err)
	}
	if n != 1 {
		t.Errorf("期望删除 1 条，实际: %d", n)
	}
	if _, ok := f.mocks.session.sessions["new"]; !ok {
		t.Error("未过期会话不应被删除")
	}
}

func TestNewAuthService_NilCache(t *testing.T) {
	repo, mocks := newMockRepos()
	svc := NewAuthService(testAuthConfig(), repo, nil, nil, zap.NewNop())
	mocks.session.sessions["tok"] = &model.UserSession{UserID: "u1", Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	mocks.role.roles["u1"] = []string{model.RoleSuperadmin}

	p, err := svc.Authenticate(context.Background(), "tok")
	if err != nil || p.UserID != "u1" {
		t.Errorf("期望无缓存时直接查库，实际: %+v, %v", p, err)
	}
}
