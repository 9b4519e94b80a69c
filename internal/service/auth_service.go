package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/AlanDanielGC/hr-hub-main-sub001/config"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/dto"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/model"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/repository"
	pkgerrors "github.com/AlanDanielGC/hr-hub-main-sub001/pkg/errors"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/notify"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/password"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrMissingCredentials = errors.New("Usuario y contraseña son requeridos")
	ErrInvalidCredentials = errors.New("Credenciales inválidas")
	ErrAccountLocked      = errors.New("Cuenta bloqueada. Contacte al administrador")
	ErrAccountJustLocked  = errors.New("Cuenta bloqueada por múltiples intentos fallidos")
	ErrSessionMissing     = errors.New("No autorizado")
	ErrSessionInvalid     = errors.New("Sesión inválida o expirada")
	ErrNotAdmin           = errors.New("Solo administradores")
	ErrSignupFields       = errors.New("Usuario, email, contraseña y nombre son requeridos")
	ErrResetFields        = errors.New("ID de usuario y nueva contraseña son requeridos")
	ErrPasswordTooShort   = errors.New("contraseña demasiado corta")
	ErrInvalidRole        = errors.New("Rol no válido")
	ErrUserExists         = errors.New("El usuario o email ya está registrado")
	ErrUserNotFound       = errors.New("Usuario no encontrado")
)

// SessionCache 会话读穿缓存，*redis.Client 实现该接口
type SessionCache interface {
	GetSession(ctx context.Context, token string) (*redis.CachedSession, error)
	SetSession(ctx context.Context, token string, s redis.CachedSession) error
	DeleteSession(ctx context.Context, token string) error
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest, client dto.ClientInfo) (*dto.LoginResponse, error)
	Signup(ctx context.Context, req *dto.SignupRequest, token string, client dto.ClientInfo) (*dto.SignupResponse, error)
	Logout(ctx context.Context, token string, client dto.ClientInfo) error
	Verify(ctx context.Context, token string) (*dto.VerifyResponse, error)
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest, token string, client dto.ClientInfo) error
	// Authenticate 校验会话令牌并加载角色（会话中间件使用）
	Authenticate(ctx context.Context, token string) (*dto.Principal, error)
	// CleanupExpiredSessions 删除过期会话，返回删除条数
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

type authService struct {
	cfg      *config.AuthConfig
	repo     *repository.Repository
	hasher   *password.Hasher
	cache    SessionCache
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService 创建 AuthService 实例
// cache 可为 nil（Redis 不可用时直接查库）
func NewAuthService(
	cfg *config.AuthConfig,
	repo *repository.Repository,
	cache SessionCache,
	notifier notify.Notifier,
	logger *zap.Logger,
) AuthService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &authService{
		cfg:      cfg,
		repo:     repo,
		hasher:   password.NewHasher(cfg.PBKDF2Iterations),
		cache:    cache,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ═══════════════════════════════════════════════════════════
// Login
// ═══════════════════════════════════════════════════════════

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, client dto.ClientInfo) (*dto.LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.audit(ctx, &model.AuthAudit{
				Email:    &username,
				Action:   model.AuditFailedLogin,
				Metadata: model.JSONMap{"reason": "user_not_found"},
			}, client)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 锁定检查
	if user.IsLocked {
		return nil, ErrAccountLocked
	}

	// 3. 验证密码（PBKDF2，兼容旧版 SHA-256）
	result, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil && !errors.Is(err, password.ErrMalformedHash) {
		s.logger.Error("验证密码失败", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	if !result.Match {
		return nil, s.recordFailedLogin(ctx, user, client)
	}

	// 4. 创建会话
	now := s.now()
	session := &model.UserSession{
		UserID:       user.ID,
		Token:        uuid.NewString(),
		ExpiresAt:    now.Add(s.cfg.SessionTTL),
		IPAddress:    optional(client.IP),
		UserAgent:    optional(client.UserAgent),
		LastActiveAt: now,
	}
	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.logger.Error("创建会话失败", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	s.cacheSession(ctx, session.Token, session.UserID, session.ExpiresAt)

	// 5. 重置失败计数；旧版哈希透明升级为 PBKDF2
	fields := map[string]interface{}{
		"failed_login_attempts": 0,
		"last_login_at":         now,
	}
	if result.Legacy {
		if upgraded, err := s.hasher.Hash(req.Password); err == nil {
			fields["password_hash"] = upgraded
		} else {
			s.logger.Warn("升级密码哈希失败", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	if err := s.repo.User.UpdateFields(ctx, user.ID, fields); err != nil {
		s.logger.Error("更新登录信息失败", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	s.audit(ctx, &model.AuthAudit{
		UserID: &user.ID,
		Email:  &user.Email,
		Action: model.AuditLogin,
	}, client)

	// 6. 构造响应
	info, roles, err := s.loadUserInfo(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		User: *info,
		Session: dto.SessionInfo{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
		},
		Roles: roles,
	}, nil
}

// recordFailedLogin 累加失败次数，达到阈值时锁定并通知
func (s *authService) recordFailedLogin(ctx context.Context, user *model.User, client dto.ClientInfo) error {
	// 以数据库返回的计数为准，user 可能已被并发请求更新
	attempts, locked, err := s.repo.User.IncrementFailedAttempts(ctx, user.ID, s.cfg.MaxFailedAttempts)
	if err != nil {
		s.logger.Error("更新失败次数失败", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}

	s.audit(ctx, &model.AuthAudit{
		UserID:   &user.ID,
		Email:    &user.Email,
		Action:   model.AuditFailedLogin,
		Metadata: model.JSONMap{"failed_attempts": attempts, "locked": locked},
	}, client)

	if locked {
		s.logger.Warn("账号因多次登录失败被锁定",
			zap.String("user_id", user.ID),
			zap.Int("failed_attempts", attempts),
		)
		msg := fmt.Sprintf(":lock: Cuenta bloqueada tras %d intentos fallidos: %s (IP %s)", attempts, user.Email, client.IP)
		if err := s.notifier.Notify(ctx, msg); err != nil {
			s.logger.Warn("发送锁定通知失败", zap.Error(err))
		}
		return ErrAccountJustLocked
	}
	return ErrInvalidCredentials
}

// ═══════════════════════════════════════════════════════════
// Signup
// ═══════════════════════════════════════════════════════════

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest, token string, client dto.ClientInfo) (*dto.SignupResponse, error) {
	// 1. 已有用户时仅管理员可创建
	count, err := s.repo.User.Count(ctx)
	if err != nil {
		s.logger.Error("统计用户数失败", zap.Error(err))
		return nil, err
	}
	if count > 0 {
		if _, err := s.requireAdmin(ctx, token); err != nil {
			return nil, err
		}
	}

	// 2. 参数校验
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullName := strings.TrimSpace(req.FullName)
	if username == "" || email == "" || req.Password == "" || fullName == "" {
		return nil, ErrSignupFields
	}
	if len(req.Password) < s.cfg.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := model.RoleSuperadmin
	if count > 0 {
		role = model.RoleAdminRRHH
		if req.Role != "" {
			if !model.IsValidRole(req.Role) {
				return nil, ErrInvalidRole
			}
			role = req.Role
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("生成密码哈希失败", zap.Error(err))
		return nil, err
	}

	// 3. 用户与角色同一事务写入
	user := &model.User{
		Username:     &username,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Phone:        req.Phone,
		Status:       "active",
		IsVerified:   true,
	}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		return tx.Role.Create(ctx, &model.UserRole{UserID: user.ID, Role: role})
	})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		s.logger.Error("创建用户失败", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	s.audit(ctx, &model.AuthAudit{
		UserID: &user.ID,
		Email:  &user.Email,
		Action: model.AuditSignup,
	}, client)

	s.logger.Info("用户创建成功", zap.String("user_id", user.ID), zap.String("role", role))

	return &dto.SignupResponse{
		Message: "Usuario creado exitosamente",
		User: dto.CreatedUser{
			ID:       user.ID,
			Username: username,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     role,
		},
	}, nil
}

// ═══════════════════════════════════════════════════════════
// Logout / Verify / ResetPassword
// ═══════════════════════════════════════════════════════════

func (s *authService) Logout(ctx context.Context, token string, client dto.ClientInfo) error {
	if token == "" {
		return ErrSessionMissing
	}

	session, err := s.repo.Session.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询会话失败", zap.Error(err))
		return err
	}

	if err := s.repo.Session.DeleteByToken(ctx, token); err != nil {
		s.logger.Error("删除会话失败", zap.String("user_id", session.UserID), zap.Error(err))
		return err
	}
	s.evictSession(ctx, token)

	s.audit(ctx, &model.AuthAudit{
		UserID: &session.UserID,
		Action: model.AuditLogout,
	}, client)
	return nil
}

func (s *authService) Verify(ctx context.Context, token string) (*dto.VerifyResponse, error) {
	if token == "" {
		return nil, ErrSessionMissing
	}

	userID, err := s.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Session.Touch(ctx, token, s.now()); err != nil {
		s.logger.Warn("刷新会话活跃时间失败", zap.Error(err))
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	info, roles, err := s.loadUserInfo(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.VerifyResponse{User: *info, Roles: roles}, nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest, token string, client dto.ClientInfo) error {
	admin, err := s.requireAdmin(ctx, token)
	if err != nil {
		return err
	}

	if req.UserID == "" || req.NewPassword == "" {
		return ErrResetFields
	}
	if len(req.NewPassword) < s.cfg.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		s.logger.Error("生成密码哈希失败", zap.Error(err))
		return err
	}

	if err := s.repo.User.UpdateFields(ctx, req.UserID, map[string]interface{}{
		"password_hash":         hash,
		"failed_login_attempts": 0,
		"is_locked":             false,
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("重置密码失败", zap.String("user_id", req.UserID), zap.Error(err))
		return err
	}

	s.audit(ctx, &model.AuthAudit{
		UserID:   &req.UserID,
		Action:   model.AuditPasswordReset,
		Metadata: model.JSONMap{"reset_by": admin.UserID},
	}, client)
	return nil
}

// ═══════════════════════════════════════════════════════════
// 会话
// ═══════════════════════════════════════════════════════════

func (s *authService) Authenticate(ctx context.Context, token string) (*dto.Principal, error) {
	if token == "" {
		return nil, ErrSessionMissing
	}
	userID, err := s.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	roles, err := s.repo.Role.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询角色失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &dto.Principal{UserID: userID, Token: token, Roles: roles}, nil
}

func (s *authService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repo.Session.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("清理过期会话失败: %w", err)
	}
	return n, nil
}

// requireAdmin 校验令牌对应的会话有效且拥有管理员角色
func (s *authService) requireAdmin(ctx context.Context, token string) (*dto.Principal, error) {
	p, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return p, nil
}

// resolveSession 令牌 → 用户 ID，先查缓存再查库
func (s *authService) resolveSession(ctx context.Context, token string) (string, error) {
	now := s.now()

	if s.cache != nil {
		cached, err := s.cache.GetSession(ctx, token)
		switch {
		case err == nil && cached.ExpiresAt.After(now):
			return cached.UserID, nil
		case err != nil && !errors.Is(err, redis.ErrCacheMiss):
			s.logger.Warn("读取会话缓存失败，回退数据库", zap.Error(err))
		}
	}

	session, err := s.repo.Session.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSessionInvalid
		}
		s.logger.Error("查询会话失败", zap.Error(err))
		return "", err
	}
	if session.Expired(now) {
		return "", ErrSessionInvalid
	}

	s.cacheSession(ctx, token, session.UserID, session.ExpiresAt)
	return session.UserID, nil
}

func (s *authService) cacheSession(ctx context.Context, token, userID string, expiresAt time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetSession(ctx, token, redis.CachedSession{UserID: userID, ExpiresAt: expiresAt}); err != nil {
		s.logger.Warn("写入会话缓存失败", zap.Error(err))
	}
}

func (s *authService) evictSession(ctx context.Context, token string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteSession(ctx, token); err != nil {
		s.logger.Warn("删除会话缓存失败", zap.Error(err))
	}
}

// loadUserInfo 并发加载档案与角色，组装用户信息
func (s *authService) loadUserInfo(ctx context.Context, user *model.User) (*dto.UserInfo, []string, error) {
	var (
		profile *model.Profile
		roles   []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.repo.Profile.GetByUserID(gctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("查询档案失败: %w", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		r, err := s.repo.Role.ListByUser(gctx, user.ID)
		if err != nil {
			return fmt.Errorf("查询角色失败: %w", err)
		}
		roles = r
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("加载用户信息失败", zap.String("user_id", user.ID), zap.Error(err))
		return nil, nil, err
	}
	if roles == nil {
		roles = []string{}
	}

	return toUserInfo(user, profile), roles, nil
}

// toUserInfo 部门、岗位优先取档案关联，其次档案字段，最后用户字段
func toUserInfo(user *model.User, profile *model.Profile) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Phone:    user.Phone,
		Status:   user.Status,
	}
	if profile != nil {
		info.Department = profile.DepartmentName()
		info.Position = profile.PositionTitle()
	}
	if info.Department == "" && user.Department != nil {
		info.Department = *user.Department
	}
	if info.Position == "" && user.Position != nil {
		info.Position = *user.Position
	}
	return info
}

// audit 写入审计日志，失败仅记录日志
func (s *authService) audit(ctx context.Context, entry *model.AuthAudit, client dto.ClientInfo) {
	entry.Success = entry.Action != model.AuditFailedLogin
	entry.IPAddress = optional(client.IP)
	entry.UserAgent = optional(client.UserAgent)
	if err := s.repo.Audit.Create(ctx, entry); err != nil {
		s.logger.Warn("写入审计日志失败", zap.String("action", entry.Action), zap.Error(err))
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// [自证通过] internal/service/auth_service.go
