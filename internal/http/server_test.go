package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"portfolio-backend-go/internal/config"
	"portfolio-backend-go/internal/services"
	"portfolio-backend-go/internal/storage/storagetest"
	"portfolio-backend-go/internal/store/storetest"

	"github.com/sirupsen/logrus"
)

const adminEmail = "admin@example.com"

type stubRenderer struct {
	err error
}

func (s stubRenderer) RenderFirstPage(data []byte) (image.Image, error) {
	if s.err != nil {
		return nil, s.err
	}
	return image.NewGray(image.Rect(0, 0, 3, 3)), nil
}

type testEnv struct {
	server *Server
	store  *storetest.Memory
	bucket *storagetest.Bucket
	router http.Handler
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mem := storetest.New().
		Keyless(services.TableProjectTechStacks).
		Cascade(services.ProjectSchema.Table, services.TableProjectTechStacks, "project_id").
		Cascade(services.TechStackSchema.Table, services.TableProjectTechStacks, "tech_stack_id")
	bucket := storagetest.New("portfolio-images")
	hash, err := services.HashPassword("secret")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{
		JWTSecret:         "test-secret",
		JWTIssuer:         "portfolio",
		AccessTTLSeconds:  3600,
		AdminEmail:        adminEmail,
		AdminPasswordHash: hash,
		MaxImageBytes:     1 << 20,
		MaxPDFBytes:       2 << 20,
		UploadFolder:      services.FolderBentoGrid,
		MediaStoragePath:  t.TempDir(),
	}
	server := NewServer(mem, bucket, stubRenderer{}, cfg, logger)
	token, err := server.Tokens.CreateAccessToken(adminEmail)
	if err != nil {
		t.Fatal(err)
	}
	return &testEnv{server: server, store: mem, bucket: bucket, router: server.Router(), token: token.Token}
}

func (e *testEnv) do(t *testing.T, method, target string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v (%s)", err, rec.Body.String())
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func careerBody() map[string]any {
	return map[string]any{
		"title":      "Frontend Intern",
		"company":    "Acme",
		"location":   "Jakarta",
		"start_date": "Jan 2024",
		"duration":   "Jan 2024 - Mar 2024",
		"months":     "3 Months",
		"type":       "Internship",
		"work_type":  "Remote",
	}
}

func TestCreateCareerAppliesDefaults(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/careers", careerBody(), true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var career struct {
		ID    int64  `json:"id"`
		Logo  string `json:"logo"`
		Order int    `json:"order"`
	}
	decodeData(t, rec, &career)
	if career.ID == 0 || career.Logo != "🟢" || career.Order != 0 {
		t.Errorf("career = %+v", career)
	}

	rec = env.do(t, http.MethodGet, "/api/careers", nil, false)
	var list []map[string]any
	decodeData(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("list = %v", list)
	}
}

func TestCreateCareerMissingFields(t *testing.T) {
	env := newTestEnv(t)
	body := careerBody()
	delete(body, "company")

	rec := env.do(t, http.MethodPost, "/api/careers", body, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeError(t, rec); !strings.Contains(resp.Error, "company") {
		t.Errorf("error = %q", resp.Error)
	}
	if rows := env.store.Rows(services.CareerSchema.Table); len(rows) != 0 {
		t.Errorf("rows written: %v", rows)
	}
}

func TestMutationsRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/careers"},
		{http.MethodPut, "/api/projects"},
		{http.MethodDelete, "/api/tech-stacks?id=1"},
		{http.MethodPut, "/api/hero"},
		{http.MethodPost, "/api/upload"},
		{http.MethodPost, "/api/upload-achievement"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rec := env.do(t, tc.method, tc.target, map[string]any{}, false)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d", rec.Code)
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/careers", strings.NewReader("{}"))
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("forged token status = %d", rec.Code)
	}
}

func TestUpdateRequiresID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPut, "/api/careers", map[string]any{"title": "x"}, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "ID is required" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestUpdateAndGetByID(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/careers", careerBody(), true)

	rec := env.do(t, http.MethodPut, "/api/careers", map[string]any{"id": 1, "title": "Engineer"}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodGet, "/api/careers?id=1", nil, false)
	var career map[string]any
	decodeData(t, rec, &career)
	if career["title"] != "Engineer" || career["company"] != "Acme" {
		t.Errorf("career = %v", career)
	}

	rec = env.do(t, http.MethodGet, "/api/careers?id=99", nil, false)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d", rec.Code)
	}
}

func TestDeleteAbsentIDSucceeds(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodDelete, "/api/careers?id=42", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp MessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Message != "Career deleted successfully" {
		t.Errorf("message = %q", resp.Message)
	}

	rec = env.do(t, http.MethodDelete, "/api/careers", nil, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing id status = %d", rec.Code)
	}
}

func TestProjectDeleteKeepsTechStacks(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"Go", "React"} {
		rec := env.do(t, http.MethodPost, "/api/tech-stacks", map[string]any{"name": name, "icon_name": "Si" + name, "color": "#00ADD8"}, true)
		if rec.Code != http.StatusCreated {
			t.Fatalf("tech stack status = %d: %s", rec.Code, rec.Body.String())
		}
	}
	rec := env.do(t, http.MethodPost, "/api/projects", map[string]any{
		"name":           "Portfolio",
		"description":    "Personal site",
		"slug":           "portfolio",
		"image_url":      "https://cdn.test/p.png",
		"tech_stack_ids": []int{1, 2, 2},
	}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("project status = %d: %s", rec.Code, rec.Body.String())
	}
	var project struct {
		ID         int64            `json:"id"`
		ImageType  string           `json:"image_type"`
		TechStacks []map[string]any `json:"tech_stacks"`
	}
	decodeData(t, rec, &project)
	if len(project.TechStacks) != 2 || project.ImageType != "desktop" {
		t.Fatalf("project = %+v", project)
	}

	rec = env.do(t, http.MethodDelete, "/api/projects?id=1", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if links := env.store.Rows(services.TableProjectTechStacks); len(links) != 0 {
		t.Errorf("links left: %v", links)
	}
	rec = env.do(t, http.MethodGet, "/api/tech-stacks", nil, false)
	var stacks []map[string]any
	decodeData(t, rec, &stacks)
	if len(stacks) != 2 {
		t.Errorf("tech stacks = %v", stacks)
	}
}

func TestSingletonFallbackAndUpsert(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/hero", nil, false)
	var hero map[string]any
	decodeData(t, rec, &hero)
	if hero["description"] != services.DefaultHeroDescription {
		t.Fatalf("hero = %v", hero)
	}

	rec = env.do(t, http.MethodPut, "/api/hero", map[string]any{"description": "Hello"}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body.String())
	}
	env.do(t, http.MethodPut, "/api/hero", map[string]any{"description": "Hello again"}, true)
	if rows := env.store.Rows(services.HeroSchema.Table); len(rows) != 1 {
		t.Fatalf("hero rows = %d", len(rows))
	}
	rec = env.do(t, http.MethodGet, "/api/hero", nil, false)
	decodeData(t, rec, &hero)
	if hero["description"] != "Hello again" {
		t.Errorf("hero = %v", hero)
	}

	rec = env.do(t, http.MethodPut, "/api/sidebar-profile", map[string]any{"name": "Dev"}, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("sidebar without job_title status = %d", rec.Code)
	}
}

func TestBentoGridFallback(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		query string
		want  int
	}{
		{"?type=about_me", 4},
		{"?type=project", 0},
		{"", 0},
	}
	for _, tc := range cases {
		rec := env.do(t, http.MethodGet, "/api/bento-grid"+tc.query, nil, false)
		var items []map[string]any
		decodeData(t, rec, &items)
		if len(items) != tc.want {
			t.Errorf("%q: got %d items, want %d", tc.query, len(items), tc.want)
		}
	}

	rec := env.do(t, http.MethodPost, "/api/bento-grid", map[string]any{"type": "about_me", "image_url": "https://cdn.test/a.png"}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodGet, "/api/bento-grid?type=about_me", nil, false)
	var items []map[string]any
	decodeData(t, rec, &items)
	if len(items) != 1 {
		t.Errorf("stored items = %v", items)
	}
}

func multipartRequest(t *testing.T, target, filename, contentType string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (e *testEnv) upload(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)
	req := multipartRequest(t, "/api/upload", "me.png", "image/png", []byte("png-bytes"), map[string]string{"folder": "bento-grid"})

	rec := env.upload(t, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res services.UploadResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.Path, "bento-grid/") || !strings.HasSuffix(res.Path, ".png") {
		t.Errorf("path = %s", res.Path)
	}
	if _, ok := env.bucket.Objects()[res.Path]; !ok {
		t.Errorf("object %s not stored", res.Path)
	}
}

func TestUploadRejections(t *testing.T) {
	env := newTestEnv(t)
	oversized := bytes.Repeat([]byte{1}, int(env.server.Config.MaxImageBytes)+1)
	cases := []struct {
		name string
		req  *http.Request
		code string
	}{
		{"missing file", multipartRequest(t, "/api/upload", "", "", nil, nil), services.CodeMissingFile},
		{"not an image", multipartRequest(t, "/api/upload", "notes.txt", "text/plain", []byte("hi"), nil), services.CodeUnsupported},
		{"oversized", multipartRequest(t, "/api/upload", "big.png", "image/png", oversized, nil), services.CodeSizeExceeded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.upload(t, tc.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			if resp := decodeError(t, rec); resp.Code != tc.code {
				t.Errorf("code = %q, want %q", resp.Code, tc.code)
			}
		})
	}
	if objects := env.bucket.Objects(); len(objects) != 0 {
		t.Errorf("objects written: %v", objects)
	}
}

func TestUploadAchievementPDF(t *testing.T) {
	env := newTestEnv(t)
	req := multipartRequest(t, "/api/upload-achievement", "cert.pdf", "application/pdf", []byte("%PDF-1.4 fake"), nil)

	rec := env.upload(t, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res services.CertificateResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.IsPDF || res.CertificateType != "image" || !strings.HasSuffix(res.Path, ".png") {
		t.Errorf("result = %+v", res)
	}
	if obj := env.bucket.Objects()[res.Path]; obj.ContentType != "image/png" {
		t.Errorf("content type = %q", obj.ContentType)
	}
}

func TestUploadAchievementRenderFailure(t *testing.T) {
	env := newTestEnv(t)
	env.server.Ingestor.Renderer = stubRenderer{err: errors.New("no mupdf")}
	req := multipartRequest(t, "/api/upload-achievement", "cert.pdf", "application/pdf", []byte("%PDF-1.4 fake"), nil)

	rec := env.upload(t, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Hint == "" {
		t.Error("expected a hint")
	}
	if objects := env.bucket.Objects(); len(objects) != 0 {
		t.Errorf("objects written: %v", objects)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		name     string
		email    string
		password string
		status   int
	}{
		{"valid", adminEmail, "secret", http.StatusOK},
		{"case insensitive email", "Admin@Example.com", "secret", http.StatusOK},
		{"wrong password", adminEmail, "nope", http.StatusUnauthorized},
		{"unknown email", "other@example.com", "secret", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Email: tc.email, Password: tc.password}, false)
			if rec.Code != tc.status {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			if tc.status != http.StatusOK {
				return
			}
			var token services.AccessToken
			decodeData(t, rec, &token)
			if _, err := env.server.Tokens.ParseAccessToken(token.Token); err != nil {
				t.Errorf("issued token rejected: %v", err)
			}
		})
	}
}

func TestSendEmail(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		name   string
		body   map[string]any
		status int
		msg    string
	}{
		{"valid", map[string]any{"name": "Ana", "email": "ana@example.com", "message": "Hi"}, http.StatusOK, services.ContactAccepted},
		{"missing", map[string]any{"name": "Ana", "email": "ana@example.com"}, http.StatusBadRequest, "All fields are required"},
		{"bad email", map[string]any{"name": "Ana", "email": "ana", "message": "Hi"}, http.StatusBadRequest, "Invalid email format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/send-email", tc.body, false)
			if rec.Code != tc.status {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			if tc.status == http.StatusOK {
				var resp ContactResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatal(err)
				}
				if !resp.Success || resp.Message != tc.msg {
					t.Errorf("resp = %+v", resp)
				}
				return
			}
			if resp := decodeError(t, rec); resp.Error != tc.msg {
				t.Errorf("error = %q, want %q", resp.Error, tc.msg)
			}
		})
	}
}

func TestTestConnection(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/test-connection", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var report services.ConnectionReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if !report.Success {
		t.Errorf("report = %+v", report)
	}
	for _, table := range []string{services.HeroSchema.Table, services.BentoGridSchema.Table} {
		if probe, ok := report.Tests[table]; !ok || !probe.Connected {
			t.Errorf("probe %s = %+v", table, probe)
		}
	}

	env.store.FailOn("select", services.HeroSchema.Table, errors.New("relation does not exist"))
	rec = env.do(t, http.MethodGet, "/api/test-connection", nil, false)
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Success || report.Tests[services.HeroSchema.Table].Error == nil {
		t.Errorf("expected failed hero probe: %+v", report.Tests)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", nil, false)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
