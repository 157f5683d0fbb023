package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addissongs/song-service/internal/song/repository"
	"github.com/addissongs/song-service/internal/song/service"
	"github.com/addissongs/song-service/pkg/middleware"
)

// fakeToken implements middleware.Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = t.data
		return nil
	}
	return fmt.Errorf("unsupported claims type")
}

// fakeVerifier maps fixed bearer tokens to identities
type fakeVerifier struct{}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	switch raw {
	case "owner-token":
		return &fakeToken{data: map[string]interface{}{"sub": "owner-1", "email": "owner@example.com"}}, nil
	case "other-token":
		return &fakeToken{data: map[string]interface{}{"sub": "other-1"}}, nil
	case "admin-token":
		return &fakeToken{data: map[string]interface{}{"sub": "admin-1", "public_metadata": map[string]interface{}{"role": "admin"}}}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// memCoverStore is an in-memory storage.CoverStore
type memCoverStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	types map[string]string
}

func newMemCoverStore() *memCoverStore {
	return &memCoverStore{data: map[string][]byte{}, types: map[string]string{}}
}

func (m *memCoverStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	m.types[key] = contentType
	return nil
}

func (m *memCoverStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, "", errors.New("no such object")
	}
	return io.NopCloser(bytes.NewReader(b)), m.types[key], nil
}

func newTestRouter() *gin.Engine {
	g := gin.New()
	svc := service.NewService(repository.NewMemoryRepo())
	NewHandler(svc, newMemCoverStore()).Register(g, &fakeVerifier{})
	return g
}

func do(t *testing.T, g *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestSongLifecycle(t *testing.T) {
	g := newTestRouter()

	// CREATE
	w := do(t, g, http.MethodPost, "/songs", "owner-token", `{"title":"Test Song","artist":"Test Artist"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "owner-1", created["ownerId"])

	// GET
	w = do(t, g, http.MethodGet, "/songs/"+id, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Test Song", got["title"])
	assert.Equal(t, "Test Artist", got["artist"])

	// DELETE
	w = do(t, g, http.MethodDelete, "/songs/"+id, "owner-token", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	// repeat delete and subsequent get both 404
	w = do(t, g, http.MethodDelete, "/songs/"+id, "owner-token", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, g, http.MethodGet, "/songs/"+id, "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateValidationAndAnonymous(t *testing.T) {
	g := newTestRouter()

	w := do(t, g, http.MethodPost, "/songs", "", `{"album":"No Required Fields"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// anonymous create records the sentinel owner
	w = do(t, g, http.MethodPost, "/songs", "", `{"title":"T","artist":"A"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "system", created["ownerId"])
}

func TestListPaginationAndSearch(t *testing.T) {
	g := newTestRouter()
	for i := 0; i < 7; i++ {
		w := do(t, g, http.MethodPost, "/songs", "", fmt.Sprintf(`{"title":"Song %d","artist":"Artist"}`, i))
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := do(t, g, http.MethodPost, "/songs", "", `{"title":"Imagine","artist":"John Lennon","album":"Imagine"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var page struct {
		Data       []map[string]interface{} `json:"data"`
		Page       int                      `json:"page"`
		Limit      int                      `json:"limit"`
		Total      int64                    `json:"total"`
		TotalPages int                      `json:"totalPages"`
	}

	w = do(t, g, http.MethodGet, "/songs?page=1&limit=3", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Data, 3)
	assert.Equal(t, int64(8), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.Limit)

	// defaults: page 1, limit 5
	w = do(t, g, http.MethodGet, "/songs", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Data, 5)
	assert.Equal(t, 1, page.Page)

	// case-insensitive search over title and artist
	for _, q := range []string{"imag", "lennon"} {
		w = do(t, g, http.MethodGet, "/songs?search="+q, "", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		require.Len(t, page.Data, 1, "search %q", q)
		assert.Equal(t, "Imagine", page.Data[0]["title"])
	}
}

func TestUpdateOwnership(t *testing.T) {
	g := newTestRouter()

	w := do(t, g, http.MethodPost, "/songs", "owner-token", `{"title":"T","artist":"A","album":"X"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created["id"].(string)

	// no token -> 401
	w = do(t, g, http.MethodPut, "/songs/"+id, "", `{"title":"T","artist":"A"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// different user -> 403
	w = do(t, g, http.MethodPut, "/songs/"+id, "other-token", `{"title":"T","artist":"A"}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	// missing required field -> 400
	w = do(t, g, http.MethodPut, "/songs/"+id, "owner-token", `{"artist":"A"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// unknown id -> 404
	w = do(t, g, http.MethodPut, "/songs/no-such-id", "owner-token", `{"title":"T","artist":"A"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	// owner full-replace: omitted album resets to empty
	w = do(t, g, http.MethodPut, "/songs/"+id, "owner-token", `{"title":"T2","artist":"A"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "T2", updated["title"])
	assert.Equal(t, "", updated["album"])
	assert.Equal(t, "owner-1", updated["ownerId"])

	// admin can update someone else's song
	w = do(t, g, http.MethodPut, "/songs/"+id, "admin-token", `{"title":"T3","artist":"A"}`)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteOwnership(t *testing.T) {
	g := newTestRouter()
	w := do(t, g, http.MethodPost, "/songs", "owner-token", `{"title":"T","artist":"A"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created["id"].(string)

	require.Equal(t, http.StatusUnauthorized, do(t, g, http.MethodDelete, "/songs/"+id, "", "").Code)
	require.Equal(t, http.StatusForbidden, do(t, g, http.MethodDelete, "/songs/"+id, "other-token", "").Code)
	require.Equal(t, http.StatusNoContent, do(t, g, http.MethodDelete, "/songs/"+id, "admin-token", "").Code)
}

func TestAdminStats(t *testing.T) {
	g := newTestRouter()
	for _, genre := range []string{"Rock", "Rock", "Pop"} {
		w := do(t, g, http.MethodPost, "/songs", "", fmt.Sprintf(`{"title":"T","artist":"A","genre":"%s"}`, genre))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	require.Equal(t, http.StatusUnauthorized, do(t, g, http.MethodGet, "/admin/stats", "", "").Code)
	require.Equal(t, http.StatusForbidden, do(t, g, http.MethodGet, "/admin/stats", "owner-token", "").Code)

	w := do(t, g, http.MethodGet, "/admin/stats", "admin-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		TotalSongs   int64            `json:"totalSongs"`
		SongsByGenre map[string]int64 `json:"songsByGenre"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(3), stats.TotalSongs)
	assert.Equal(t, int64(2), stats.SongsByGenre["Rock"])
}

func TestCoverArt(t *testing.T) {
	g := newTestRouter()
	w := do(t, g, http.MethodPost, "/songs", "owner-token", `{"title":"T","artist":"A"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created["id"].(string)

	// no cover uploaded yet
	require.Equal(t, http.StatusNotFound, do(t, g, http.MethodGet, "/songs/"+id+"/cover", "", "").Code)

	// upload requires auth and ownership
	put := func(token string) int {
		req := httptest.NewRequest(http.MethodPut, "/songs/"+id+"/cover", bytes.NewReader([]byte("png-bytes")))
		req.Header.Set("Content-Type", "image/png")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		g.ServeHTTP(w, req)
		return w.Code
	}
	require.Equal(t, http.StatusUnauthorized, put(""))
	require.Equal(t, http.StatusForbidden, put("other-token"))
	require.Equal(t, http.StatusNoContent, put("owner-token"))

	w = do(t, g, http.MethodGet, "/songs/"+id+"/cover", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", w.Body.String())

	// cover routes 404 for unknown songs
	require.Equal(t, http.StatusNotFound, do(t, g, http.MethodGet, "/songs/nope/cover", "", "").Code)
}
