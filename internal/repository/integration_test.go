//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/model"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/repository"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/database"
	pkgerrors "github.com/AlanDanielGC/hr-hub-main-sub001/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=rrhh password=rrhh_password dbname=rrhh_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 表结构依赖枚举类型，使用正式迁移而非 AutoMigrate
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "执行迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// createTestUser 创建测试用户并返回清理函数
func createTestUser(t *testing.T) (*model.User, func()) {
	t.Helper()
	n := time.Now().UnixNano()
	username := fmt.Sprintf("user%d", n)
	user := &model.User{
		Username:     &username,
		Email:        fmt.Sprintf("user%d@empresa.mx", n),
		PasswordHash: "00:00",
		FullName:     "Usuario de Prueba",
		Status:       "active",
	}
	if err := testDB.Create(user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return user, func() {
		testDB.Where("id = ?", user.ID).Delete(&model.User{})
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	user, cleanup := createTestUser(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Role.Create(ctx, &model.UserRole{UserID: user.ID, Role: model.RoleAdminRRHH}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望返回 boom，实际: %v", err)
	}

	roles, err := repo.Role.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("查询角色失败: %v", err)
	}
	if len(roles) != 0 {
		t.Errorf("期望回滚后无角色，实际: %v", roles)
	}
}

func TestTransaction_Commit(t *testing.T) {
	user, cleanup := createTestUser(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		return tx.Role.Create(ctx, &model.UserRole{UserID: user.ID, Role: model.RoleSuperadmin})
	})
	if err != nil {
		t.Fatalf("事务提交失败: %v", err)
	}

	roles, _ := repo.Role.ListByUser(ctx, user.ID)
	if len(roles) != 1 || roles[0] != model.RoleSuperadmin {
		t.Errorf("期望 [superadmin]，实际: %v", roles)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Unique Constraint
// ═══════════════════════════════════════════════════════════

func TestUser_DuplicateEmail(t *testing.T) {
	user, cleanup := createTestUser(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	dup := &model.User{
		Email:        user.Email,
		PasswordHash: "00:00",
		FullName:     "Duplicado",
	}
	err := repo.User.Create(context.Background(), dup)
	if err == nil {
		testDB.Where("id = ?", dup.ID).Delete(&model.User{})
		t.Fatal("期望唯一约束违反，但创建成功了")
	}
	if !pkgerrors.IsUniqueViolation(err) {
		t.Errorf("期望唯一约束错误，实际: %v", err)
	}
}

func TestUser_IncrementFailedAttempts_Concurrent(t *testing.T) {
	user, cleanup := createTestUser(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := repo.User.IncrementFailedAttempts(ctx, user.ID, 5); err != nil {
				t.Errorf("累加失败次数失败: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := repo.User.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}
	if got.FailedLoginAttempts != workers || !got.IsLocked {
		t.Errorf("期望并发累加到 %d 且已锁定，实际: attempts=%d locked=%v", workers, got.FailedLoginAttempts, got.IsLocked)
	}

	if _, _, err := repo.User.IncrementFailedAttempts(ctx, "00000000-0000-0000-0000-000000000000", 5); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望不存在的用户返回 ErrRecordNotFound，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Sessions
// ═══════════════════════════════════════════════════════════

func TestSession_DeleteExpired(t *testing.T) {
	user, cleanup := createTestUser(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	now := time.Now()

	expired := &model.UserSession{UserID: user.ID, Token: fmt.Sprintf("exp-%d", now.UnixNano()), ExpiresAt: now.Add(-time.Hour)}
	alive := &model.UserSession{UserID: user.ID, Token: fmt.Sprintf("ok-%d", now.UnixNano()), ExpiresAt: now.Add(time.Hour)}
	for _, s := range []*model.UserSession{expired, alive} {
		if err := repo.Session.Create(ctx, s); err != nil {
			t.Fatalf("创建会话失败: %v", err)
		}
	}

	n, err := repo.Session.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpired 失败: %v", err)
	}
	if n < 1 {
		t.Errorf("期望至少删除 1 条，实际: %d", n)
	}
	if _, err := repo.Session.GetByToken(ctx, expired.Token); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("过期会话应被删除，实际: %v", err)
	}
	if _, err := repo.Session.GetByToken(ctx, alive.Token); err != nil {
		t.Errorf("有效会话不应被删除: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Device Commands
// ═══════════════════════════════════════════════════════════

func TestCommand_ClaimNextPending_Order(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	deviceID := fmt.Sprintf("ESP32-%d", time.Now().UnixNano())
	defer testDB.Where("device_id = ?", deviceID).Delete(&model.DeviceCommand{})

	first := &model.DeviceCommand{DeviceID: deviceID, CommandType: model.CommandEnroll, Payload: model.JSONMap{"biometric_id": 1}, Status: model.CommandPending, CreatedAt: time.Now().Add(-time.Minute)}
	second := &model.DeviceCommand{DeviceID: deviceID, CommandType: model.CommandEnroll, Payload: model.JSONMap{"biometric_id": 2}, Status: model.CommandPending, CreatedAt: time.Now()}
	for _, c := range []*model.DeviceCommand{second, first} {
		if err := repo.Command.Create(ctx, c); err != nil {
			t.Fatalf("创建指令失败: %v", err)
		}
	}

	got, err := repo.Command.ClaimNextPending(ctx, deviceID)
	if err != nil {
		t.Fatalf("ClaimNextPending 失败: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("期望先领取最早的指令 %s，实际: %s", first.ID, got.ID)
	}
	if got.Status != model.CommandProcessing {
		t.Errorf("期望状态 processing，实际: %s", got.Status)
	}

	stored, _ := repo.Command.GetByID(ctx, first.ID)
	if stored.Status != model.CommandProcessing {
		t.Errorf("数据库中状态应为 processing，实际: %s", stored.Status)
	}
}

func TestCommand_ClaimNextPending_Concurrent(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	deviceID := fmt.Sprintf("ESP32-%d", time.Now().UnixNano())
	defer testDB.Where("device_id = ?", deviceID).Delete(&model.DeviceCommand{})

	cmd := &model.DeviceCommand{DeviceID: deviceID, CommandType: model.CommandEnroll, Payload: model.JSONMap{"biometric_id": 7}, Status: model.CommandPending}
	if err := repo.Command.Create(ctx, cmd); err != nil {
		t.Fatalf("创建指令失败: %v", err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claimed int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Command.ClaimNextPending(ctx, deviceID); err == nil {
				mu.Lock()
				claimed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if claimed != 1 {
		t.Errorf("同一指令应只被领取一次，实际: %d", claimed)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Attendance
// ═══════════════════════════════════════════════════════════

func TestAttendance_GetLatestForDay(t *testing.T) {
	user, cleanup := createTestUser(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	rec := &model.AttendanceRecord{
		UserID:         user.ID,
		AttendanceDate: day,
		ScheduledStart: "09:00:00",
		ScheduledEnd:   "18:00:00",
		CheckIn:        &checkIn,
		Status:         model.AttendancePresent,
	}
	if err := repo.Attendance.Create(ctx, rec); err != nil {
		t.Fatalf("创建考勤失败: %v", err)
	}
	defer testDB.Where("id = ?", rec.ID).Delete(&model.AttendanceRecord{})

	got, err := repo.Attendance.GetLatestForDay(ctx, user.ID, day)
	if err != nil {
		t.Fatalf("GetLatestForDay 失败: %v", err)
	}
	if got.ID != rec.ID || got.CheckOut != nil {
		t.Errorf("期望未签退记录 %s，实际: %+v", rec.ID, got)
	}
	if got.ScheduledStart != "09:00:00" {
		t.Errorf("期望 scheduled_start=09:00:00，实际: %s", got.ScheduledStart)
	}

	if _, err := repo.Attendance.GetLatestForDay(ctx, user.ID, day.AddDate(0, 0, 1)); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("次日应无记录，实际: %v", err)
	}
}
