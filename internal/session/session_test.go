package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testStore returns a session store on Valkey test DB 15.
// Skips if Valkey is unavailable.
func testStore(t *testing.T) *Store {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return NewStore(client, false)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// requestWithCookie builds a request carrying the session cookie set by
// a previous response recorder.
func requestWithCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			r.AddCookie(c)
			return r
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	data := &Data{UserID: uuid.New(), Email: "op@test.local", DisplayName: "Op"}
	id, err := store.Create(ctx, rec, data)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(id) != idLength*2 {
		t.Errorf("session id length = %d, want %d hex chars", len(id), idLength*2)
	}

	// Round-trip through the cookie.
	r := requestWithCookie(t, rec)
	got, err := store.Get(ctx, r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Email != "op@test.local" || got.TwoFADone {
		t.Fatalf("Get returned %+v, want fresh op session", got)
	}

	// Completing 2FA updates in place.
	got.TwoFADone = true
	if err := store.Update(ctx, r, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, err := store.Get(ctx, r)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if again == nil || !again.TwoFADone {
		t.Errorf("2FA flag lost across update")
	}

	// Destroy removes it and expires the cookie.
	destroyRec := httptest.NewRecorder()
	if err := store.Destroy(ctx, destroyRec, r); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	gone, err := store.Get(ctx, r)
	if err != nil {
		t.Fatalf("Get after destroy: %v", err)
	}
	if gone != nil {
		t.Errorf("session survived Destroy")
	}
}

func TestGet_NoCookie(t *testing.T) {
	store := testStore(t)

	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	data, err := store.Get(context.Background(), r)
	if err != nil {
		t.Fatalf("Get without cookie: %v", err)
	}
	if data != nil {
		t.Errorf("Get without cookie = %+v, want nil", data)
	}
}

func TestGet_UnknownSession(t *testing.T) {
	store := testStore(t)

	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "deadbeef"})
	data, err := store.Get(context.Background(), r)
	if err != nil {
		t.Fatalf("Get with unknown id: %v", err)
	}
	if data != nil {
		t.Errorf("Get with unknown id = %+v, want nil", data)
	}
}
