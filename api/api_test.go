package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/buildsite-backend/auth"
	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/notify"
	"github.com/rpupo63/buildsite-backend/storage"
	"github.com/rpupo63/buildsite-backend/storage/memory"
)

type testEnv struct {
	store   storage.Storage
	tokens  *auth.Tokens
	handler http.Handler
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func newTestEnv(t *testing.T, opts ...func(*routerOptions)) *testEnv {
	t.Helper()

	store := memory.New()
	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	base := func(o *routerOptions) {
		o.allowRegistration = true
		o.rateLimit = "1000-M"
	}
	router, err := newRouter(Dependencies{
		Store:    store,
		Tokens:   tokens,
		Notifier: notify.New(),
	}, append([]func(*routerOptions){base}, opts...)...)
	require.NoError(t, err)

	return &testEnv{store: store, tokens: tokens, handler: router}
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers ...string) (int, testEnvelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec.Code, env
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	user, err := e.store.CreateUser(t.Context(), models.NewUser{Username: "admin", PasswordHash: hash})
	require.NoError(t, err)
	token, _, err := e.tokens.Issue(*user)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestWaitlistJoinAndDuplicate(t *testing.T) {
	env := newTestEnv(t)
	body := `{"name":"Jane Doe","email":"jane@example.com","acceptsUpdates":true}`

	status, resp := env.do(t, http.MethodPost, "/api/waitlist", body)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, resp.Success)
	assert.Equal(t, "Successfully joined the waitlist", resp.Message)

	var joined waitlistJoinedResponse
	require.NoError(t, json.Unmarshal(resp.Data, &joined))
	assert.Equal(t, "jane@example.com", joined.Email)
	assert.Equal(t, "Jane Doe", joined.Name)
	assert.NotZero(t, joined.ID)

	status, resp = env.do(t, http.MethodPost, "/api/waitlist", `{"name":"Jane Again","email":"JANE@example.com"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, resp.Success)
	assert.Equal(t, "Email already registered on waitlist", resp.Message)

	entries, err := env.store.ListWaitlistEntries(t.Context())
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	submissions, err := env.store.ListFormSubmissions(t.Context())
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	assert.Equal(t, models.FormTypeWaitlist, submissions[0].FormType)
}

func TestContactValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]string{
		"short message":  `{"name":"Bob","email":"bob@example.com","subject":"Quote","message":"too short"}`,
		"long message":   `{"name":"Bob","email":"bob@example.com","subject":"Quote","message":"` + strings.Repeat("x", 1001) + `"}`,
		"short subject":  `{"name":"Bob","email":"bob@example.com","subject":"Hi","message":"I would like a quote for a deck."}`,
		"not an object":  `["nope"]`,
		"wrong type":     `{"name":42,"email":"bob@example.com","subject":"Quote","message":"I would like a quote for a deck."}`,
		"invalid e-mail": `{"name":"Bob","email":"bob","subject":"Quote","message":"I would like a quote for a deck."}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			status, resp := env.do(t, http.MethodPost, "/api/contact", body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Message, "Validation error")
			assert.NotEmpty(t, resp.Errors)
		})
	}

	messages, err := env.store.ListContactMessages(t.Context())
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestContactCreated(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, http.MethodPost, "/api/contact",
		`{"name":"Bob Builder","email":"bob@example.com","phone":"","subject":"Quote","message":"I would like a quote for a deck."}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Your message has been sent successfully!", resp.Message)

	var created contactCreatedResponse
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.NotZero(t, created.ID)

	messages, err := env.store.ListContactMessages(t.Context())
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, models.ContactStatusNew, messages[0].Status)
	assert.Nil(t, messages[0].Phone)
}

func TestProjectLookups(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, http.MethodGet, "/api/projects/999", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, resp.Success)
	assert.Equal(t, "Project not found", resp.Message)

	status, resp = env.do(t, http.MethodGet, "/api/projects/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, resp.Success)
}

func TestFeaturedProjectRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, http.MethodPost, "/api/projects", `{
		"title":"Riverside Office",
		"description":"Four storey steel frame office.",
		"category":"commercial",
		"location":"Portland, OR",
		"imageUrl":"/img/riverside.jpg",
		"featured":true
	}`)
	require.Equal(t, http.StatusCreated, status)

	var created models.Project
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.True(t, created.Featured)

	status, resp = env.do(t, http.MethodGet, "/api/projects/featured", "")
	require.Equal(t, http.StatusOK, status)
	var featured []models.Project
	require.NoError(t, json.Unmarshal(resp.Data, &featured))
	require.Len(t, featured, 1)
	assert.Equal(t, created.ID, featured[0].ID)
}

func TestEmptyServicesList(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, http.MethodGet, "/api/services", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `[]`, string(resp.Data))
}

func TestCompanyInfoReadsAreStable(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.store.UpsertCompanyInfo(t.Context(), models.CompanyInfo{Section: "about", Content: "Family owned since 1998."})
	require.NoError(t, err)

	_, first := env.do(t, http.MethodGet, "/api/company-info/about", "")
	_, second := env.do(t, http.MethodGet, "/api/company-info/about", "")
	assert.JSONEq(t, string(first.Data), string(second.Data))

	status, resp := env.do(t, http.MethodGet, "/api/company-info/history", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Company information not found", resp.Message)
}

func TestPageViewAndAnalytics(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, http.MethodPost, "/api/analytics/pageView", `{"page":"/projects"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Data)

	status, resp = env.do(t, http.MethodGet, "/api/analytics/pageVisits", "")
	require.Equal(t, http.StatusOK, status)
	var visits []models.PageVisit
	require.NoError(t, json.Unmarshal(resp.Data, &visits))
	require.Len(t, visits, 1)
	assert.Equal(t, "/projects", visits[0].Page)
}

func TestAdminRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, http.MethodGet, "/api/admin/waitlist", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, resp.Success)

	status, _ = env.do(t, http.MethodGet, "/api/admin/waitlist", "", "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, resp = env.do(t, http.MethodGet, "/api/admin/waitlist", "", "Authorization", env.adminToken(t))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(resp.Data))
}

func TestLoginIssuesUsableToken(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodPost, "/api/auth/register", `{"username":"site-admin","password":"correct horse"}`)
	require.Equal(t, http.StatusCreated, status)

	status, resp := env.do(t, http.MethodPost, "/api/auth/register", `{"username":"site-admin","password":"another one"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Username already taken", resp.Message)

	status, _ = env.do(t, http.MethodPost, "/api/auth/login", `{"username":"site-admin","password":"wrong password"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(t, http.MethodPost, "/api/auth/login", `{"username":"nobody","password":"correct horse"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, resp = env.do(t, http.MethodPost, "/api/auth/login", `{"username":"site-admin","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, status)
	var login loginResponse
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "site-admin", login.User.Username)
	assert.NotContains(t, string(resp.Data), "password")

	status, resp = env.do(t, http.MethodGet, "/api/admin/me", "", "Authorization", "Bearer "+login.Token)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(resp.Data), `"site-admin"`)
}

func TestLoginRejectsShortPasswordsAsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodPost, "/api/auth/register", `{"username":"site-admin","password":"correct horse"}`)
	require.Equal(t, http.StatusCreated, status)

	status, resp := env.do(t, http.MethodPost, "/api/auth/login", `{"username":"site-admin","password":"abc"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, invalidCredentialsMessage, resp.Message)

	status, resp = env.do(t, http.MethodPost, "/api/auth/login", `{"username":"ab","password":"abc"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, invalidCredentialsMessage, resp.Message)

	status, resp = env.do(t, http.MethodPost, "/api/auth/login", `{"username":"site-admin"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, resp.Success)
}

func TestRegistrationDisabled(t *testing.T) {
	env := newTestEnv(t, func(o *routerOptions) { o.allowRegistration = false })

	status, resp := env.do(t, http.MethodPost, "/api/auth/register", `{"username":"site-admin","password":"correct horse"}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, resp.Success)
}

func TestAdminContactWorkflow(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	message, err := env.store.CreateContactMessage(t.Context(), models.ContactMessage{
		Name: "Ann", Email: "ann@example.com", Subject: "Kitchen", Message: "Please call me back.", Status: models.ContactStatusNew,
	})
	require.NoError(t, err)

	path := "/api/admin/contact-messages/" + jsonNumber(message.ID) + "/status"
	status, resp := env.do(t, http.MethodPatch, path, `{"status":"replied"}`, "Authorization", token)
	require.Equal(t, http.StatusOK, status)
	var updated models.ContactMessage
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, models.ContactStatusReplied, updated.Status)

	status, _ = env.do(t, http.MethodPatch, path, `{"status":"deleted"}`, "Authorization", token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = env.do(t, http.MethodPatch, "/api/admin/contact-messages/4242/status", `{"status":"read"}`, "Authorization", token)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, resp.Success)
}

func TestAdminUpsertCompanyInfo(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	status, _ := env.do(t, http.MethodPut, "/api/admin/company-info/mission", `{"content":"Build it right."}`, "Authorization", token)
	require.Equal(t, http.StatusOK, status)

	status, resp := env.do(t, http.MethodPut, "/api/admin/company-info/mission", `{"section":"ignored","content":"Build it right, once."}`, "Authorization", token)
	require.Equal(t, http.StatusOK, status)
	var info models.CompanyInfo
	require.NoError(t, json.Unmarshal(resp.Data, &info))
	assert.Equal(t, "mission", info.Section)
	assert.Equal(t, "Build it right, once.", info.Content)

	status, _ = env.do(t, http.MethodPut, "/api/admin/company-info/Not%20A%20Slug", `{"content":"x"}`, "Authorization", token)
	assert.Equal(t, http.StatusBadRequest, status)

	all, err := env.store.ListCompanyInfo(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(resp.Data), `"memory"`)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, http.MethodGet, "/api/nothing-here", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, resp.Success)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
