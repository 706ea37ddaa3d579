package mux

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"cardroom-server/internal/config"
	"cardroom-server/internal/jwt"
	"cardroom-server/pkg/ledger"
)

var setupOnce sync.Once

// setupJWT points the config at the test signing keys and loads them
func setupJWT() {
	setupOnce.Do(func() {
		_ = os.Setenv("CARDROOM_JWT_PRIVATE_KEY", "../jwt/testdata/private.key")
		_ = os.Setenv("CARDROOM_JWT_PUBLIC_KEY", "../jwt/testdata/public.pem")
		if err := config.Load(); err != nil {
			panic(err)
		}

		jwt.LoadKeys()
	})
}

var dbOnce sync.Once

// requireDB skips the test unless CARDROOM_TEST_PG_DSN points at a database
// with the migrations applied
func requireDB(t *testing.T) {
	t.Helper()

	dsn := os.Getenv("CARDROOM_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("CARDROOM_TEST_PG_DSN not set")
	}

	_ = os.Setenv("CARDROOM_PG_DSN", dsn)
	setupJWT()

	dbOnce.Do(func() {
		ledger.LoadInstance()
		ledger.Migrate()
	})
}

func assertDo(t *testing.T, req *http.Request, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	if len(signedJWT) > 0 {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", signedJWT[0]))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Error(err)
		return nil
	}
	defer resp.Body.Close()

	if statusCode != resp.StatusCode {
		b, _ := io.ReadAll(resp.Body)
		t.Log(string(b))
		assert.Equal(t, statusCode, resp.StatusCode)
		return nil
	}

	if respObj != nil {
		if err := json.NewDecoder(resp.Body).Decode(respObj); err != nil {
			t.Error(err)
			return nil
		}
	}

	return resp
}

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Error(err)
		return nil
	}

	return assertDo(t, req, respObj, statusCode, signedJWT...)
}

func assertPost(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	var body io.Reader
	switch val := payload.(type) {
	case string:
		body = strings.NewReader(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			t.Error(err)
			return nil
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, body)
	if err != nil {
		t.Error(err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	return assertDo(t, req, respObj, statusCode, signedJWT...)
}
