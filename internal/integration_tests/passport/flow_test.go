// Full-stack flow over the real router with in-memory backends: register,
// unlock, activate, disclose, sponsor login, stamp.
package passport

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attendeehandler "passport/internal/attendee/handler"
	attendeeservice "passport/internal/attendee/service"
	"passport/internal/attendee/store/user"
	sponsorhandler "passport/internal/sponsor/handler"
	sponsorservice "passport/internal/sponsor/service"
	sponsorstore "passport/internal/sponsor/store/sponsor"
	"passport/internal/sponsor/token"
	stamphandler "passport/internal/stamp/handler"
	stampservice "passport/internal/stamp/service"
	stampstore "passport/internal/stamp/store/stamp"
	httptransport "passport/internal/transport/http"
)

type env struct {
	t      *testing.T
	server http.Handler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	attendees := attendeeservice.New(user.NewInMemoryStore(), attendeeservice.WithLogger(logger))

	issuer := token.NewIssuer([]byte("integration-signing-key"), "passport", 24*time.Hour)
	sponsors := sponsorservice.New(sponsorstore.NewInMemoryStore(), issuer, sponsorservice.WithLogger(logger))
	require.NoError(t, sponsors.Provision(t.Context(), "acme", "Acme Corp", "s3cret"))

	stamps := stampservice.New(stampstore.NewInMemoryStore(), attendees, 10*time.Minute,
		stampservice.WithLogger(logger))

	router := httptransport.NewRouter(httptransport.Deps{
		Logger: logger,
		Handlers: []httptransport.Registrar{
			attendeehandler.New(attendees, logger),
			sponsorhandler.New(sponsors, logger),
			stamphandler.New(stamps, issuer, logger),
		},
	})
	return &env{t: t, server: router}
}

func (e *env) do(method, path, body string, headers map[string]string) (int, map[string]any) {
	e.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &decoded), "body: %s", w.Body.String())
	return w.Code, decoded
}

func TestPassportLifecycle(t *testing.T) {
	e := newEnv(t)

	// Registration webhook creates the passport record.
	status, body := e.do(http.MethodPost, "/webhooks/registration", `{
		"barcode": "123456789012",
		"first_name": "Ada",
		"last_name": "Lovelace",
		"email": "a@x.com",
		"phone": "5551234567",
		"company": "Analytical Engines",
		"role": "Engineer"
	}`, nil)
	require.Equal(t, http.StatusOK, status)
	code := body["short_id"].(string)
	require.NotEmpty(t, code)

	// Not yet activated.
	status, body = e.do(http.MethodGet, "/passport/"+code+"/status", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["initialized"])
	assert.Equal(t, "both", body["method"])

	// Ownership proof yields the single-use unlock key.
	status, body = e.do(http.MethodPost, "/passport/"+code+"/unlock", `{"value":"a@x.com"}`, nil)
	require.Equal(t, http.StatusOK, status)
	key := body["unlock_key"].(string)
	require.NotEmpty(t, key)

	// Activation consumes the key.
	update := fmt.Sprintf(`{
		"unlock_key": %q,
		"email": "a@x.com",
		"phone": "5551234567",
		"share_email": false,
		"share_phone": true,
		"pin": "1234",
		"social_links": [{"name": "linkedin", "url": "https://linkedin.com/in/ada"}]
	}`, key)
	status, _ = e.do(http.MethodPut, "/passport/"+code+"/profile", update, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = e.do(http.MethodPut, "/passport/"+code+"/profile", update, nil)
	assert.Equal(t, http.StatusForbidden, status, "key is single use")

	// PIN disclosure honors the share flags and carries a vCard.
	status, body = e.do(http.MethodGet, "/passport/"+code+"?pin=1234", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "5551234567", body["phone"])
	_, hasEmail := body["email"]
	assert.False(t, hasEmail)
	assert.Contains(t, body["vcard"], "BEGIN:VCARD")

	// Sponsor logs in and stamps the passport.
	status, body = e.do(http.MethodPost, "/sponsors/token", `{"sponsor_id":"acme","sponsor_key":"s3cret"}`, nil)
	require.Equal(t, http.StatusOK, status)
	bearer := map[string]string{"Authorization": "Bearer " + body["token"].(string)}

	status, _ = e.do(http.MethodPost, "/passport/"+code+"/stamps", `{"notes":"booth"}`, bearer)
	require.Equal(t, http.StatusOK, status)

	status, _ = e.do(http.MethodPost, "/passport/"+code+"/stamps", "", bearer)
	assert.Equal(t, http.StatusConflict, status, "cooldown rejects the repeat scan")

	// The ledger is visible to the passport holder.
	status, body = e.do(http.MethodGet, "/passport/"+code+"/stamps", "", nil)
	require.Equal(t, http.StatusOK, status)
	stamps := body["stamps"].([]any)
	require.Len(t, stamps, 1)
	entry := stamps[0].(map[string]any)
	assert.Equal(t, "acme", entry["sponsor_id"])
	assert.Equal(t, "booth", entry["notes"])
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	e := newEnv(t)

	status, body := e.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
