package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/model"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/repository"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/redis"
)

// ── Mock 聚合 ──

type mockRepos struct {
	user       *mockUserRepo
	role       *mockRoleRepo
	session    *mockSessionRepo
	audit      *mockAuditRepo
	profile    *mockProfileRepo
	attendance *mockAttendanceRepo
	command    *mockCommandRepo
	template   *mockTemplateRepo
	event      *mockEventRepo
	candidate  *mockCandidateRepo
	contract   *mockContractRepo
	document   *mockDocumentRepo
	vacation   *mockVacationRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		user:       &mockUserRepo{users: make(map[string]*model.User)},
		role:       &mockRoleRepo{roles: make(map[string][]string)},
		session:    &mockSessionRepo{sessions: make(map[string]*model.UserSession)},
		audit:      &mockAuditRepo{},
		profile:    &mockProfileRepo{},
		attendance: &mockAttendanceRepo{},
		command:    &mockCommandRepo{commands: make(map[string]*model.DeviceCommand)},
		template:   &mockTemplateRepo{templates: make(map[string]*model.BiometricTemplate)},
		event:      &mockEventRepo{},
		candidate:  &mockCandidateRepo{byEmail: make(map[string]*model.RecruitmentCandidate)},
		contract:   &mockContractRepo{contracts: make(map[string]*model.Contract)},
		document:   &mockDocumentRepo{},
		vacation:   &mockVacationRepo{requests: make(map[string]*model.VacationRequest)},
	}
	repo := &repository.Repository{
		User:       m.user,
		Role:       m.role,
		Session:    m.session,
		Audit:      m.audit,
		Profile:    m.profile,
		Attendance: m.attendance,
		Command:    m.command,
		Template:   m.template,
		Event:      m.event,
		Candidate:  m.candidate,
		Contract:   m.contract,
		Document:   m.document,
		Vacation:   m.vacation,
	}
	return repo, m
}

var idSeq struct {
	sync.Mutex
	n int
}

func nextID(prefix string) string {
	idSeq.Lock()
	defer idSeq.Unlock()
	idSeq.n++
	return fmt.Sprintf("%s-%d", prefix, idSeq.n)
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email || (u.Username != nil && user.Username != nil && *u.Username == *user.Username) {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == "" {
		user.ID = nextID("user")
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username != nil && *u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepo) IncrementFailedAttempts(_ context.Context, id string, maxAttempts int) (int, bool, error) {
	u, ok := m.users[id]
	if !ok {
		return 0, false, gorm.ErrRecordNotFound
	}
	u.FailedLoginAttempts++
	u.IsLocked = u.IsLocked || u.FailedLoginAttempts >= maxAttempts
	return u.FailedLoginAttempts, u.IsLocked, nil
}

func (m *mockUserRepo) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "failed_login_attempts":
			u.FailedLoginAttempts = v.(int)
		case "is_locked":
			u.IsLocked = v.(bool)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "last_login_at":
			t := v.(time.Time)
			u.LastLoginAt = &t
		}
	}
	return nil
}

// ── Mock RoleRepository ──

type mockRoleRepo struct {
	roles     map[string][]string
	createErr error
}

func (m *mockRoleRepo) Create(_ context.Context, role *model.UserRole) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.roles[role.UserID] = append(m.roles[role.UserID], role.Role)
	return nil
}

func (m *mockRoleRepo) ListByUser(_ context.Context, userID string) ([]string, error) {
	return m.roles[userID], nil
}

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	sessions map[string]*model.UserSession
	touched  []string
}

func (m *mockSessionRepo) Create(_ context.Context, s *model.UserSession) error {
	if s.ID == "" {
		s.ID = nextID("session")
	}
	m.sessions[s.Token] = s
	return nil
}

func (m *mockSessionRepo) GetByToken(_ context.Context, token string) (*model.UserSession, error) {
	if s, ok := m.sessions[token]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) Touch(_ context.Context, token string, at time.Time) error {
	if s, ok := m.sessions[token]; ok {
		s.LastActiveAt = at
		m.touched = append(m.touched, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteByToken(_ context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for token, s := range m.sessions {
		if s.ExpiresAt.Before(before) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}

// ── Mock AuditRepository ──

type mockAuditRepo struct {
	entries []*model.AuthAudit
}

func (m *mockAuditRepo) Create(_ context.Context, a *model.AuthAudit) error {
	m.entries = append(m.entries, a)
	return nil
}

func (m *mockAuditRepo) last() *model.AuthAudit {
	if len(m.entries) == 0 {
		return nil
	}
	return m.entries[len(m.entries)-1]
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	profiles []*model.Profile
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	for _, p := range m.profiles {
		if p.UserID != nil && *p.UserID == userID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) GetByBiometricID(_ context.Context, biometricID int) (*model.Profile, error) {
	for _, p := range m.profiles {
		if p.BiometricID != nil && *p.BiometricID == biometricID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) SetBiometricID(_ context.Context, userID string, biometricID int) error {
	for _, p := range m.profiles {
		if p.BiometricID != nil && *p.BiometricID == biometricID && (p.UserID == nil || *p.UserID != userID) {
			return gorm.ErrDuplicatedKey
		}
	}
	for _, p := range m.profiles {
		if p.UserID != nil && *p.UserID == userID {
			bid := biometricID
			p.BiometricID = &bid
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records []*model.AttendanceRecord
}

func (m *mockAttendanceRepo) GetLatestForDay(_ context.Context, userID string, day time.Time) (*model.AttendanceRecord, error) {
	key := day.Format("2006-01-02")
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.UserID == userID && r.AttendanceDate.Format("2006-01-02") == key {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Create(_ context.Context, r *model.AttendanceRecord) error {
	if r.ID == "" {
		r.ID = nextID("att")
	}
	m.records = append(m.records, r)
	return nil
}

func (m *mockAttendanceRepo) Update(_ context.Context, r *model.AttendanceRecord) error {
	for i, existing := range m.records {
		if existing.ID == r.ID {
			m.records[i] = r
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) match(f repository.AttendanceFilter) []model.AttendanceRecord {
	var out []model.AttendanceRecord
	for _, r := range m.records {
		if f.UserID != "" && r.UserID != f.UserID {
			continue
		}
		if f.From != nil && r.AttendanceDate.Before(*f.From) {
			continue
		}
		if f.To != nil && r.AttendanceDate.After(*f.To) {
			continue
		}
		out = append(out, *r)
	}
	return out
}

func (m *mockAttendanceRepo) List(_ context.Context, f repository.AttendanceFilter, offset, limit int) ([]model.AttendanceRecord, int64, error) {
	all := m.match(f)
	total := int64(len(all))
	if offset >= len(all) {
		return []model.AttendanceRecord{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockAttendanceRepo) ListAll(_ context.Context, f repository.AttendanceFilter) ([]model.AttendanceRecord, error) {
	return m.match(f), nil
}

// ── Mock CommandRepository ──

type mockCommandRepo struct {
	commands map[string]*model.DeviceCommand
}

func (m *mockCommandRepo) Create(_ context.Context, c *model.DeviceCommand) error {
	if c.ID == "" {
		c.ID = nextID("cmd")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	m.commands[c.ID] = c
	return nil
}

func (m *mockCommandRepo) GetByID(_ context.Context, id string) (*model.DeviceCommand, error) {
	if c, ok := m.commands[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCommandRepo) ClaimNextPending(_ context.Context, deviceID string) (*model.DeviceCommand, error) {
	var pending []*model.DeviceCommand
	for _, c := range m.commands {
		if c.DeviceID == deviceID && c.Status == model.CommandPending {
			pending = append(pending, c)
		}
	}
	if len(pending) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	pending[0].Status = model.CommandProcessing
	return pending[0], nil
}

func (m *mockCommandRepo) UpdateStatus(_ context.Context, id, status string, payload model.JSONMap) error {
	c, ok := m.commands[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Status = status
	c.Payload = payload
	return nil
}

// ── Mock TemplateRepository ──

type mockTemplateRepo struct {
	templates map[string]*model.BiometricTemplate
}

func (m *mockTemplateRepo) Create(_ context.Context, t *model.BiometricTemplate) error {
	if t.ID == "" {
		t.ID = nextID("tpl")
	}
	m.templates[t.ID] = t
	return nil
}

func (m *mockTemplateRepo) GetByID(_ context.Context, id string) (*model.BiometricTemplate, error) {
	if t, ok := m.templates[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTemplateRepo) ListByUser(_ context.Context, userID string) ([]model.BiometricTemplate, error) {
	var out []model.BiometricTemplate
	for _, t := range m.templates {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockTemplateRepo) UpdateStatus(_ context.Context, id, status string) error {
	t, ok := m.templates[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Status = status
	return nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events []*model.BiometricEvent
}

func (m *mockEventRepo) Create(_ context.Context, e *model.BiometricEvent) error {
	if e.ID == "" {
		e.ID = nextID("evt")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockEventRepo) List(_ context.Context, userID string, limit int) ([]model.BiometricEvent, error) {
	var out []model.BiometricEvent
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		e := m.events[i]
		if userID != "" && (e.UserID == nil || *e.UserID != userID) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockEventRepo) byType(eventType string) []*model.BiometricEvent {
	var out []*model.BiometricEvent
	for _, e := range m.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// ── Mock CandidateRepository ──

type mockCandidateRepo struct {
	byEmail map[string]*model.RecruitmentCandidate
}

func (m *mockCandidateRepo) GetByEmail(_ context.Context, email string) (*model.RecruitmentCandidate, error) {
	if c, ok := m.byEmail[email]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ContractRepository ──

type mockContractRepo struct {
	contracts map[string]*model.Contract
}

func (m *mockContractRepo) GetByID(_ context.Context, id string) (*model.Contract, error) {
	if c, ok := m.contracts[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContractRepo) UpdateFilePath(_ context.Context, id, filePath string) error {
	c, ok := m.contracts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.FilePath = &filePath
	return nil
}

// ── Mock DocumentRepository ──

type mockDocumentRepo struct {
	docs      []*model.Document
	createErr error
}

func (m *mockDocumentRepo) Create(_ context.Context, d *model.Document) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.docs = append(m.docs, d)
	return nil
}

// ── Mock VacationRepository ──

type mockVacationRepo struct {
	requests map[string]*model.VacationRequest
}

func (m *mockVacationRepo) GetByID(_ context.Context, id string) (*model.VacationRequest, error) {
	if v, ok := m.requests[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVacationRepo) ListApproved(_ context.Context, from, to *time.Time) ([]model.VacationRequest, error) {
	var out []model.VacationRequest
	for _, v := range m.requests {
		if v.Status != model.VacationApproved {
			continue
		}
		if from != nil && v.EndDate.Before(*from) {
			continue
		}
		if to != nil && v.StartDate.After(*to) {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

// ── Mock 基础设施 ──

type mockSessionCache struct {
	mu       sync.Mutex
	sessions map[string]redis.CachedSession
	getErr   error
}

func newMockSessionCache() *mockSessionCache {
	return &mockSessionCache{sessions: make(map[string]redis.CachedSession)}
}

func (m *mockSessionCache) GetSession(_ context.Context, token string) (*redis.CachedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[token]
	if !ok {
		return nil, redis.ErrCacheMiss
	}
	return &s, nil
}

func (m *mockSessionCache) SetSession(_ context.Context, token string, s redis.CachedSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = s
	return nil
}

func (m *mockSessionCache) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

type mockNotifier struct {
	messages []string
}

func (m *mockNotifier) Notify(_ context.Context, message string) error {
	m.messages = append(m.messages, message)
	return nil
}

type storedObject struct {
	data        []byte
	contentType string
}

type mockStorage struct {
	objects map[string]storedObject // key: bucket/key
	putErr  error
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: make(map[string]storedObject)}
}

func (m *mockStorage) Put(_ context.Context, bucket, key string, data []byte, contentType string, overwrite bool) error {
	if m.putErr != nil {
		return m.putErr
	}
	full := bucket + "/" + key
	if _, exists := m.objects[full]; exists && !overwrite {
		return fmt.Errorf("object %s exists", full)
	}
	m.objects[full] = storedObject{data: data, contentType: contentType}
	return nil
}

func (m *mockStorage) PublicURL(bucket, key string) string {
	return "https://files.example.com/" + bucket + "/" + key
}
