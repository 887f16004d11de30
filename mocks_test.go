package auth_test

import (
	"context"
	"io"
	"mime/multipart"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-session-auth"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// testIdentity implements auth.CredentialHolder.
type testIdentity struct {
	key    string
	locked bool
	hash   string
}

func (i testIdentity) PrimaryKey() string     { return i.key }
func (i testIdentity) Locked() bool           { return i.locked }
func (i testIdentity) CredentialHash() string { return i.hash }

// testIdentityStore is an in-memory auth.IdentityStore.
type testIdentityStore struct {
	identities map[string]*testIdentity
}

func newTestIdentityStore(identities ...testIdentity) *testIdentityStore {
	store := &testIdentityStore{identities: map[string]*testIdentity{}}
	for _, identity := range identities {
		record := identity
		store.identities[identity.key] = &record
	}
	return store
}

func (s *testIdentityStore) GetByPrimaryKey(_ context.Context, key string) (auth.Authenticatable, error) {
	identity, ok := s.identities[key]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}
	return *identity, nil
}

func (s *testIdentityStore) UpdateCredential(_ context.Context, key, credentialHash string) error {
	identity, ok := s.identities[key]
	if !ok {
		return repository.NewRecordNotFound()
	}
	identity.hash = credentialHash
	return nil
}

func (s *testIdentityStore) SetLocked(_ context.Context, key string, locked bool) error {
	identity, ok := s.identities[key]
	if !ok {
		return repository.NewRecordNotFound()
	}
	identity.locked = locked
	return nil
}

// testRequest implements auth.RequestContext.
type testRequest struct {
	ip        string
	userAgent string
	navigable bool
}

func (r testRequest) IP() string         { return r.ip }
func (r testRequest) UserAgent() string  { return r.userAgent }
func (r testRequest) NavigableGet() bool { return r.navigable }

// tenantOrg implements auth.TenantEntity.
type tenantOrg struct {
	kind string
	key  string
}

func (t tenantOrg) TenantType() string { return t.kind }
func (t tenantOrg) TenantKey() string  { return t.key }

// capturingSink records activity events for assertions.
type capturingSink struct {
	events []auth.ActivityEvent
}

func (c *capturingSink) Record(_ context.Context, event auth.ActivityEvent) error {
	c.events = append(c.events, event)
	return nil
}

// MockSessions implements auth.Sessions for engine unit tests.
type MockSessions struct {
	mock.Mock
	repository.Repository[*auth.Session]
}

// Create echoes the record back when the expectation returns a nil session,
// mirroring how the real repository returns the persisted row.
func (m *MockSessions) Create(ctx context.Context, record *auth.Session, criteria ...repository.InsertCriteria) (*auth.Session, error) {
	args := m.Called(ctx, record)
	if s, ok := args.Get(0).(*auth.Session); ok && s != nil {
		return s, args.Error(1)
	}
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return record, nil
}

func (m *MockSessions) Update(ctx context.Context, record *auth.Session, criteria ...repository.UpdateCriteria) (*auth.Session, error) {
	args := m.Called(ctx, record)
	if s, ok := args.Get(0).(*auth.Session); ok && s != nil {
		return s, args.Error(1)
	}
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return record, nil
}

func (m *MockSessions) GetByHashedToken(ctx context.Context, hashedToken string) (*auth.Session, error) {
	args := m.Called(ctx, hashedToken)
	if s, ok := args.Get(0).(*auth.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessions) GetByHashedTokenTx(ctx context.Context, tx bun.IDB, hashedToken string) (*auth.Session, error) {
	return m.GetByHashedToken(ctx, hashedToken)
}

func (m *MockSessions) DeleteOne(ctx context.Context, session *auth.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessions) DeleteOneTx(ctx context.Context, tx bun.IDB, session *auth.Session) error {
	return m.DeleteOne(ctx, session)
}

func (m *MockSessions) DeleteByAuthenticatable(ctx context.Context, kind, id string) (int64, error) {
	args := m.Called(ctx, kind, id)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockSessions) DeleteByAuthenticatableTx(ctx context.Context, tx bun.IDB, kind, id string) (int64, error) {
	return m.DeleteByAuthenticatable(ctx, kind, id)
}

func (m *MockSessions) DeleteStale(ctx context.Context, now time.Time, window *time.Duration) (int64, error) {
	args := m.Called(ctx, now, window)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockSessions) DeleteStaleTx(ctx context.Context, tx bun.IDB, now time.Time, window *time.Duration) (int64, error) {
	return m.DeleteStale(ctx, now, window)
}

func (m *MockSessions) ClearShapeshift(ctx context.Context, id uuid.UUID, authenticatableID string, tenant auth.Tenant) error {
	args := m.Called(ctx, id, authenticatableID, tenant)
	return args.Error(0)
}

func (m *MockSessions) ClearShapeshiftTx(ctx context.Context, tx bun.IDB, id uuid.UUID, authenticatableID string, tenant auth.Tenant) error {
	return m.ClearShapeshift(ctx, id, authenticatableID, tenant)
}

func (m *MockSessions) DeleteByTenantType(ctx context.Context, tenantType string) (int64, error) {
	args := m.Called(ctx, tenantType)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockSessions) DeleteByTenantTypeTx(ctx context.Context, tx bun.IDB, tenantType string) (int64, error) {
	return m.DeleteByTenantType(ctx, tenantType)
}

func (m *MockSessions) DistinctTenantTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if types, ok := args.Get(0).([]string); ok {
		return types, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessions) DistinctTenantTypesTx(ctx context.Context, tx bun.IDB) ([]string, error) {
	return m.DistinctTenantTypes(ctx)
}

// MockContext mocks the router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) QueryValues(key string) []string {
	args := m.Called(key)
	vals, _ := args.Get(0).([]string)
	return vals
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) LocalsMerge(key any, value map[string]any) map[string]any {
	args := m.Called(key, value)
	merged, _ := args.Get(0).(map[string]any)
	return merged
}

func (m *MockContext) FormFile(key string) (*multipart.FileHeader, error) {
	args := m.Called(key)
	fh, _ := args.Get(0).(*multipart.FileHeader)
	return fh, args.Error(1)
}

func (m *MockContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) IP() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) SendStatus(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) SendStream(r io.Reader) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockContext) RouteName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) RouteParams() map[string]string {
	args := m.Called()
	params, _ := args.Get(0).(map[string]string)
	return params
}
