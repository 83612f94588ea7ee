package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"edubot-backend/internal/models"
	"edubot-backend/internal/store"
	"edubot-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUsers is an in-memory credential store. Insert enforces email
// uniqueness under a lock, mirroring the unique index.
type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: make(map[string]models.User)}
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) Insert(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[user.Email]; ok {
		return store.ErrDuplicateEmail
	}
	f.byEmail[user.Email] = *user
	return nil
}

func (f *fakeUsers) count(email string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[email]; ok {
		return 1
	}
	return 0
}

func authRouter(users *fakeUsers) *gin.Engine {
	h := NewAuthHandler(users, "test-secret", 24, 4)
	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postAuthedJSON(t *testing.T, r *gin.Engine, path string, body any, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegisterThenLogin(t *testing.T) {
	users := newFakeUsers()
	r := authRouter(users)

	w := postJSON(t, r, "/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "pw123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User registered successfully", decodeBody(t, w)["message"])

	// password must not be stored verbatim
	stored, err := users.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", stored.PasswordHash)
	assert.True(t, util.CheckPassword("pw123", stored.PasswordHash))

	w = postJSON(t, r, "/login", gin.H{
		"email":    "alice@example.com",
		"password": "pw123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "alice", body["username"])
	assert.NotEmpty(t, body["token"])

	// token must validate and carry the email
	claims, err := util.ParseToken("test-secret", body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestRegisterMissingFields(t *testing.T) {
	users := newFakeUsers()
	r := authRouter(users)

	cases := []gin.H{
		{},
		{"username": "alice"},
		{"username": "alice", "email": "alice@example.com"},
		{"email": "alice@example.com", "password": "pw"},
		{"username": "alice", "email": "", "password": "pw"},
		{"username": "alice", "email": "not-an-email", "password": "pw"},
	}
	for _, body := range cases {
		w := postJSON(t, r, "/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %v", body)
	}
	assert.Equal(t, 0, users.count("alice@example.com"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUsers()
	r := authRouter(users)

	body := gin.H{"username": "alice", "email": "alice@example.com", "password": "pw123"}
	w := postJSON(t, r, "/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "user already exists", decodeBody(t, w)["error"])
	assert.Equal(t, 1, users.count("alice@example.com"))
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	users := newFakeUsers()
	r := authRouter(users)

	const n = 8
	codes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := postJSON(t, r, "/register", gin.H{
				"username": "alice",
				"email":    "race@example.com",
				"password": "pw123",
			})
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)

	created := 0
	for code := range codes {
		if code == http.StatusCreated {
			created++
		} else {
			assert.Equal(t, http.StatusBadRequest, code)
		}
	}
	// the uniqueness constraint lets exactly one racer win
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, users.count("race@example.com"))
}

func TestLoginFailures(t *testing.T) {
	users := newFakeUsers()
	r := authRouter(users)

	w := postJSON(t, r, "/register", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("wrong password", func(t *testing.T) {
		w := postJSON(t, r, "/login", gin.H{"email": "alice@example.com", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, decodeBody(t, w), "token")
	})

	t.Run("unknown email", func(t *testing.T) {
		w := postJSON(t, r, "/login", gin.H{"email": "ghost@example.com", "password": "pw123"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, decodeBody(t, w), "token")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte("not json")))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
