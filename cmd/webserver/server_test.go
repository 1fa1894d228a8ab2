package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"studyquiz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const lesson = `Volcanoes form where magma rises through cracks in the crust of the earth.
When pressure builds, volcanoes erupt and release lava, ash and gases into the air.
The lava cools into new rock, and over many eruptions volcanoes grow into mountains.
Some volcanoes are dormant for centuries before the magma pressure returns.`

func newTestServer(t *testing.T, burst int) *Server {
	t.Helper()
	studyquiz.SetLogger(zap.NewNop().Sugar())
	t.Cleanup(func() { studyquiz.SetLogger(nil) })

	cfg := config{
		SessionKey: []byte("0123456789abcdef0123456789abcdef"),
		RateLimit:  0.001,
		RateBurst:  burst,
	}
	generator := studyquiz.NewQuizGenerator(
		studyquiz.WithRandomizer(studyquiz.NewRandomizer(7)),
		studyquiz.WithLogger(zap.NewNop().Sugar()),
	)
	s, err := NewServer(cfg, generator)
	require.NoError(t, err)
	return s
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHome(t *testing.T) {
	h := newTestServer(t, 10).Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Generate Questions")
	assert.Contains(t, body, `name="show_explanations" checked`)
	assert.Contains(t, body, `value="text" checked`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerate_FromText(t *testing.T) {
	h := newTestServer(t, 10).Routes()

	rec := postForm(t, h, "/generate", url.Values{
		"input_method":      {"text"},
		"text":              {lesson},
		"show_explanations": {"on"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Questions generated successfully!")
	assert.Contains(t, body, "Correct Answer: ")
	assert.Contains(t, body, "Explanation: ")
	assert.Contains(t, body, "Question 3")
	assert.NotContains(t, body, "Essay Question 1: ")
	assert.Contains(t, body, `action="/download"`)
}

func TestGenerate_EmptyTextWarns(t *testing.T) {
	h := newTestServer(t, 10).Routes()

	rec := postForm(t, h, "/generate", url.Values{"input_method": {"text"}, "text": {"  \n "}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), emptyInputWarning)
	assert.NotContains(t, rec.Body.String(), "Questions generated successfully!")
}

func TestGenerate_ExplanationsSettingPersists(t *testing.T) {
	h := newTestServer(t, 10).Routes()

	rec := postForm(t, h, "/generate", url.Values{"input_method": {"text"}, "text": {lesson}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Explanation: ")

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	home := httptest.NewRecorder()
	h.ServeHTTP(home, req)
	require.Equal(t, http.StatusOK, home.Code)
	assert.NotContains(t, home.Body.String(), `name="show_explanations" checked`)
}

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("input_method", "upload"))
	require.NoError(t, mw.WriteField("show_explanations", "on"))
	part, err := mw.CreateFormFile("document", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/generate", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestGenerate_Upload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		code     int
		want     string
	}{
		{"text file", "lesson.txt", []byte(lesson), http.StatusOK, "Questions generated successfully!"},
		{"bom is stripped", "lesson.txt", append([]byte("\xEF\xBB\xBF"), lesson...), http.StatusOK, "Questions generated successfully!"},
		{"wrong extension", "lesson.pdf", []byte(lesson), http.StatusBadRequest, "Please upload a .txt file."},
		{"invalid utf8", "lesson.txt", []byte("bad \xff bytes"), http.StatusBadRequest, "not valid UTF-8"},
		{"empty file", "lesson.txt", nil, http.StatusOK, emptyInputWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, 10).Routes()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, multipartUpload(t, tt.filename, tt.content))
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestGenerate_UploadShowsPreview(t *testing.T) {
	h := newTestServer(t, 10).Routes()
	long := strings.Repeat(lesson+"\n", 3)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartUpload(t, "lesson.txt", []byte(long)))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "File content preview:")
	assert.Contains(t, body, long[:previewRunes]+"...</textarea>")
	assert.NotContains(t, body, long)

	rec = postForm(t, h, "/generate", url.Values{"input_method": {"text"}, "text": {lesson}})
	assert.NotContains(t, rec.Body.String(), "File content preview:")
}

func TestUploadPreview(t *testing.T) {
	assert.Equal(t, "short", uploadPreview("short"))

	exact := strings.Repeat("a", previewRunes)
	assert.Equal(t, exact, uploadPreview(exact))

	wide := strings.Repeat("é", previewRunes+1)
	assert.Equal(t, strings.Repeat("é", previewRunes)+"...", uploadPreview(wide))
}

func TestDownload(t *testing.T) {
	h := newTestServer(t, 10).Routes()
	quiz := studyquiz.NewQuizGenerator(studyquiz.WithLogger(zap.NewNop().Sugar())).
		GenerateQuiz(studyquiz.GenerationRequest{Text: lesson})
	export := studyquiz.ExportText(quiz.EssayQuestions, quiz.MCQuestions, studyquiz.ExportOptions{ShowExplanations: true})

	rec := postForm(t, h, "/download", url.Values{"export": {strings.ReplaceAll(export, "\n", "\r\n")}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="quiz_and_assignments.txt"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, export, rec.Body.String())

	parsed, err := studyquiz.ParseExport(rec.Body)
	require.NoError(t, err)
	assert.Len(t, parsed.MCQuestions, studyquiz.MCQuestionCount)

	rec = postForm(t, h, "/download", url.Values{"export": {""}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIQuiz(t *testing.T) {
	h := newTestServer(t, 10).Routes()

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/quiz", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	payload, err := json.Marshal(studyquiz.GenerationRequest{Text: lesson})
	require.NoError(t, err)
	rec := post(string(payload))
	require.Equal(t, http.StatusOK, rec.Code)

	var quiz studyquiz.Quiz
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quiz))
	assert.NotEmpty(t, quiz.ID)
	assert.Len(t, quiz.EssayQuestions, studyquiz.EssayQuestionCount)
	assert.Len(t, quiz.MCQuestions, studyquiz.MCQuestionCount)
	assert.Contains(t, quiz.KeyTerms, "volcanoes")

	rec = post(`{"text": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "text is required"}`, rec.Body.String())

	rec = post(`{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, 2).Routes()
	form := url.Values{"input_method": {"text"}, "text": {lesson}}

	assert.Equal(t, http.StatusOK, postForm(t, h, "/generate", form).Code)
	assert.Equal(t, http.StatusOK, postForm(t, h, "/generate", form).Code)
	assert.Equal(t, http.StatusTooManyRequests, postForm(t, h, "/generate", form).Code)

	// downloads are not limited
	assert.Equal(t, http.StatusOK, postForm(t, h, "/download", url.Values{"export": {"x"}}).Code)
}

func TestMetricsAndHealth(t *testing.T) {
	h := newTestServer(t, 10).Routes()
	postForm(t, h, "/generate", url.Values{"input_method": {"text"}, "text": {lesson}})
	postForm(t, h, "/generate", url.Values{"input_method": {"text"}, "text": {""}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "studyquiz_quizzes_generated_total 1")
	assert.Contains(t, string(body), "studyquiz_empty_inputs_total 1")
	assert.Contains(t, string(body), `studyquiz_http_requests_total{code="2xx",route="generate"} 2`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SESSION_KEY", "")
	t.Setenv("STUDYQUIZ_TEMPLATES", "")
	t.Setenv("STUDYQUIZ_RATE", "")
	t.Setenv("STUDYQUIZ_BURST", "")
	t.Setenv("STUDYQUIZ_VERBOSE", "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8180", cfg.Port)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, 10, cfg.RateBurst)
	assert.Empty(t, cfg.SessionKey)

	t.Setenv("PORT", "9000")
	t.Setenv("STUDYQUIZ_RATE", "0.5")
	t.Setenv("STUDYQUIZ_VERBOSE", "true")
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 0.5, cfg.RateLimit)
	assert.True(t, cfg.Verbose)

	t.Setenv("STUDYQUIZ_BURST", "lots")
	_, err = loadConfig()
	assert.Error(t, err)
}
