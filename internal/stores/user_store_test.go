package stores

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"recolecta/internal/models"
	"recolecta/internal/storage"
)

var testSeeds = []models.User{
	{ID: "s1", FirstName: "Ana", LastName: "Admin", Email: "admin@x.com", Password: "root", Role: models.RoleAdmin},
	{ID: "s2", FirstName: "Cami", LastName: "Collector", Email: "cami@x.com", Password: "pick", Role: models.RoleCollector},
}

func newUserStore(t *testing.T, kv storage.KV) *UserStore {
	t.Helper()
	store, err := NewUserStore(context.Background(), kv, WithSeedUsers(testSeeds), WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)
	return store
}

func profile(email, password string) models.Profile {
	return models.Profile{
		FirstName: "Alice",
		LastName:  "Arango",
		IDType:    "CC",
		IDNumber:  "1017000111",
		Email:     email,
		Password:  password,
	}
}

func TestUserStore_RegisterForcesRoleAndPoints(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())

	p := profile("a@x.com", "p1")
	p.Role = models.RoleAdmin
	p.Points = 9000

	u, err := store.Register(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Zero(t, u.Points)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "p1", u.Password, "password must be stored hashed")

	stored, ok := store.FindUser(u.ID)
	require.True(t, ok)
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.Zero(t, stored.Points)

	assert.False(t, store.Session().IsAuthenticated, "registration must not log in")
}

func TestUserStore_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())

	a, err := store.Register(ctx, profile("a@x.com", "p1"))
	require.NoError(t, err)

	got, err := store.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	session := store.Session()
	require.True(t, session.IsAuthenticated)
	require.NotNil(t, session.User)
	assert.Equal(t, a.ID, session.User.ID)
}

func TestUserStore_LoginWrongPasswordKeepsSessionClosed(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())
	_, err := store.Register(ctx, profile("a@x.com", "p1"))
	require.NoError(t, err)

	_, err = store.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = store.Login(ctx, "nobody@x.com", "p1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session := store.Session()
	assert.False(t, session.IsAuthenticated)
	assert.Nil(t, session.User)
	assert.Equal(t, LoginErrorMessage, session.LoginError)
}

func TestUserStore_LoginAgainstSeedSet(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())

	u, err := store.Login(ctx, "admin@x.com", "root")
	require.NoError(t, err)
	assert.Equal(t, "s1", u.ID)
	assert.Empty(t, store.Users(), "seed users are not copied into the roster by login")
}

func TestUserStore_Logout(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())
	_, err := store.Register(ctx, profile("a@x.com", "p1"))
	require.NoError(t, err)
	_, err = store.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	require.NoError(t, store.Logout(ctx))
	session := store.Session()
	assert.False(t, session.IsAuthenticated)
	assert.Nil(t, session.User)
	assert.Len(t, session.Users, 1)
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())
	_, err := store.Register(ctx, profile("a@x.com", "p1"))
	require.NoError(t, err)

	_, err = store.Register(ctx, profile("A@X.com", "p2"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = store.Register(ctx, profile("admin@x.com", "p2"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	assert.Len(t, store.Users(), 1)
	assert.Equal(t, RegisterErrorMessage, store.Session().RegisterError)
}

func TestUserStore_UpdateUserRole(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())
	u, err := store.Register(ctx, profile("a@x.com", "p1"))
	require.NoError(t, err)

	updated, err := store.UpdateUserRole(ctx, u.ID, models.RoleCollector)
	require.NoError(t, err)

	want := u
	want.Role = models.RoleCollector
	assert.Equal(t, want, updated)
	assert.Equal(t, []models.User{want}, store.ListCollectors())

	_, err = store.UpdateUserRole(ctx, "missing", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = store.UpdateUserRole(ctx, u.ID, models.Role("janitor"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUserStore_SeedFixtureDataSkipsKnownIDs(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())

	_, err := store.SeedFixtureData(ctx)
	require.NoError(t, err)
	_, err = store.SeedFixtureData(ctx)
	require.NoError(t, err)

	assert.Len(t, store.Users(), len(testSeeds))
	collectors := store.ListCollectors()
	require.Len(t, collectors, 1)
	assert.Equal(t, "s2", collectors[0].ID)
}

func TestUserStore_SearchAndCounts(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())
	_, err := store.SeedFixtureData(ctx)
	require.NoError(t, err)
	_, err = store.Register(ctx, profile("alice@x.com", "p1"))
	require.NoError(t, err)

	assert.Len(t, store.SearchUsers(UserFilter{Search: "ALICE"}), 1)
	assert.Len(t, store.SearchUsers(UserFilter{Search: "1017"}), 1)
	assert.Len(t, store.SearchUsers(UserFilter{Role: models.RoleAdmin}), 1)
	assert.Empty(t, store.SearchUsers(UserFilter{Search: "alice", Role: models.RoleAdmin}))

	counts := store.RoleCounts()
	assert.Equal(t, 1, counts[models.RoleAdmin])
	assert.Equal(t, 1, counts[models.RoleUser])
	assert.Equal(t, 1, counts[models.RoleCollector])
	assert.Equal(t, 0, counts[models.RoleCompany])
}

func TestUserStore_PersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	store := newUserStore(t, kv)

	a, err := store.Register(ctx, profile("a@x.com", "p1"))
	require.NoError(t, err)
	_, err = store.SeedFixtureData(ctx)
	require.NoError(t, err)
	_, err = store.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	want := store.Session()

	reloaded := newUserStore(t, kv)
	if diff := cmp.Diff(want, reloaded.Session()); diff != "" {
		t.Fatalf("reloaded session mismatch (-want +got):\n%s", diff)
	}

	u, err := reloaded.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, u.ID)
}

func TestUserStore_ErrorMessagesAreNotPersisted(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	store := newUserStore(t, kv)
	_, err := store.Register(ctx, profile("a@x.com", "p1"))
	require.NoError(t, err)
	_, err = store.Login(ctx, "a@x.com", "nope")
	require.Error(t, err)

	reloaded := newUserStore(t, kv)
	assert.Empty(t, reloaded.Session().LoginError)
}

func TestUserStore_LoginIgnoresEmailCase(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())
	a, err := store.Register(ctx, profile("a@x.com", "p1"))
	require.NoError(t, err)

	u, err := store.Login(ctx, "A@X.COM", "p1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, u.ID)
}

func TestUserStore_RegisterRejectsLongPassword(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())

	_, err := store.Register(ctx, profile("a@x.com", strings.Repeat("x", 80)))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Empty(t, store.Users())
	assert.Equal(t, RegisterErrorMessage, store.Session().RegisterError)

	_, err = store.Register(ctx, profile("b@x.com", strings.Repeat("x", 72)))
	assert.NoError(t, err)
}

func TestUserStore_SessionUserIsACopy(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())
	_, err := store.Login(ctx, "admin@x.com", "root")
	require.NoError(t, err)

	st := store.Session()
	require.NotNil(t, st.User)
	st.User.Role = models.RoleUser
	st.User.Email = "changed@x.com"

	again := store.Session()
	assert.Equal(t, models.RoleAdmin, again.User.Role)
	assert.Equal(t, "admin@x.com", again.User.Email)
}

func TestUserStore_EndSessionOnlyForOwner(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())
	_, err := store.Login(ctx, "admin@x.com", "root")
	require.NoError(t, err)

	ended, err := store.EndSession(ctx, "s2")
	require.NoError(t, err)
	assert.False(t, ended)
	assert.True(t, store.Session().IsAuthenticated)

	ended, err = store.EndSession(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ended)
	assert.False(t, store.Session().IsAuthenticated)

	ended, err = store.EndSession(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ended)
}

func TestUserStore_RoleOf(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t, storage.NewMemoryKV())
	a, err := store.Register(ctx, profile("a@x.com", "p1"))
	require.NoError(t, err)

	role, ok := store.RoleOf(a.ID)
	require.True(t, ok)
	assert.Equal(t, models.RoleUser, role)

	_, err = store.UpdateUserRole(ctx, a.ID, models.RoleCompany)
	require.NoError(t, err)
	role, _ = store.RoleOf(a.ID)
	assert.Equal(t, models.RoleCompany, role)

	role, ok = store.RoleOf("s2")
	require.True(t, ok, "seed users resolve without being seeded")
	assert.Equal(t, models.RoleCollector, role)

	_, ok = store.RoleOf("ghost")
	assert.False(t, ok)
}
