package main

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"studyquiz"

	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	settingsSession = "studyquiz-settings"
	maxFormBytes    = studyquiz.MaxInputBytes + 64<<10

	emptyInputWarning = "Please enter some text before generating questions."
	previewRunes      = 500
)

type Server struct {
	generator *studyquiz.QuizGenerator
	store     *sessions.CookieStore
	templates map[string]*template.Template
	limiter   *rate.Limiter
	registry  *prometheus.Registry
	metrics   *serverMetrics
	tracer    trace.Tracer
	logger    *zap.SugaredLogger
}

// homeData backs home.html
type homeData struct {
	Text             string
	Preview          string
	InputMethod      string
	ShowExplanations bool
	Warning          string
	Error            string
}

type essayView struct {
	Number int
	Text   string
}

type optionView struct {
	Letter  string
	Text    string
	Correct bool
}

type mcView struct {
	Number        int
	Question      string
	Options       []optionView
	CorrectAnswer string
	Explanation   string
}

type quizView struct {
	Essays         []essayView
	MultipleChoice []mcView
}

// resultsData backs results.html
type resultsData struct {
	Preview          string
	Quiz             quizView
	ShowExplanations bool
	Export           string
}

func NewServer(cfg config, generator *studyquiz.QuizGenerator) (*Server, error) {
	templates := make(map[string]*template.Template)
	for _, name := range []string{"home", "results"} {
		tmpl, err := template.New(name).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	store := sessions.NewCookieStore(cfg.SessionKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	registry := prometheus.NewRegistry()
	return &Server{
		generator: generator,
		store:     store,
		templates: templates,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		registry:  registry,
		metrics:   newServerMetrics(registry),
		tracer:    otel.Tracer("studyquiz/webserver"),
		logger:    studyquiz.Logger(),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /", s.instrument("home", s.handleHome))
	mux.Handle("POST /generate", s.instrument("generate", s.limit(s.handleGenerate)))
	mux.Handle("POST /download", s.instrument("download", s.handleDownload))
	mux.Handle("POST /api/quiz", s.instrument("api_quiz", s.limit(s.handleAPIQuiz)))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	return mux
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps a handler in a span and records its status and latency
func (s *Server) instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), "http "+route,
			trace.WithAttributes(attribute.String("http.method", r.Method)))
		defer span.End()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
		s.metrics.observeRequest(route, rec.status, time.Since(start))
		studyquiz.VerboseLog("%s %s -> %d", r.Method, r.URL.Path, rec.status)
	})
}

func (s *Server) limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.metrics.rateLimited.Inc()
			http.Error(w, "Too many requests, try again shortly", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates[name].ExecuteTemplate(&buf, "base.html", data); err != nil {
		s.logger.Errorf("Template error in %s: %v", name, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// settings returns the saved explanations toggle and input method
func (s *Server) settings(r *http.Request) (*sessions.Session, bool, string) {
	session, err := s.store.Get(r, settingsSession)
	if err != nil {
		studyquiz.VerboseLog("Discarding unreadable settings session: %v", err)
	}
	show := true
	if v, ok := session.Values["show_explanations"].(bool); ok {
		show = v
	}
	method, _ := session.Values["input_method"].(string)
	if method == "" {
		method = "text"
	}
	return session, show, method
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	_, show, method := s.settings(r)
	s.render(w, http.StatusOK, "home", homeData{InputMethod: method, ShowExplanations: show})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.render(w, http.StatusBadRequest, "home", homeData{
			InputMethod:      "text",
			ShowExplanations: true,
			Error:            "Could not read the submitted form.",
		})
		return
	}

	data := homeData{
		InputMethod:      r.FormValue("input_method"),
		ShowExplanations: r.FormValue("show_explanations") != "",
	}
	if data.InputMethod != "upload" {
		data.InputMethod = "text"
	}

	session, _, _ := s.settings(r)
	session.Values["show_explanations"] = data.ShowExplanations
	session.Values["input_method"] = data.InputMethod
	if err := session.Save(r, w); err != nil {
		s.logger.Warnf("Failed to save settings session: %v", err)
	}

	text := r.FormValue("text")
	if data.InputMethod == "upload" {
		uploaded, problem := readUpload(r)
		if problem != "" {
			data.Error = problem
			s.render(w, http.StatusBadRequest, "home", data)
			return
		}
		text = uploaded
		data.Preview = uploadPreview(uploaded)
	} else {
		data.Text = text
	}

	if strings.TrimSpace(text) == "" {
		s.metrics.emptyInputs.Inc()
		data.Warning = emptyInputWarning
		s.render(w, http.StatusOK, "home", data)
		return
	}

	quiz := s.generate(r, text)
	if quiz.Empty() {
		data.Error = "Could not generate questions from the provided text. Please try with more detailed content."
		s.render(w, http.StatusOK, "home", data)
		return
	}

	s.render(w, http.StatusOK, "results", resultsData{
		Preview:          data.Preview,
		Quiz:             newQuizView(quiz),
		ShowExplanations: data.ShowExplanations,
		Export: studyquiz.ExportText(quiz.EssayQuestions, quiz.MCQuestions,
			studyquiz.ExportOptions{ShowExplanations: data.ShowExplanations}),
	})
}

// readUpload returns the text of the uploaded .txt document, or a message
// for the user when the upload cannot be used
func readUpload(r *http.Request) (text, problem string) {
	file, header, err := r.FormFile("document")
	if errors.Is(err, http.ErrMissingFile) {
		return "", ""
	}
	if err != nil {
		return "", "Could not read the uploaded file."
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".txt") {
		return "", "Please upload a .txt file."
	}
	text, err = studyquiz.ReadText(file)
	if err != nil {
		return "", fmt.Sprintf("Could not read %s: %v", header.Filename, err)
	}
	return text, ""
}

// uploadPreview returns the start of an uploaded document for display
func uploadPreview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}

func (s *Server) generate(r *http.Request, text string) *studyquiz.Quiz {
	_, span := s.tracer.Start(r.Context(), "GenerateQuiz",
		trace.WithAttributes(attribute.Int("studyquiz.text_bytes", len(text))))
	defer span.End()

	quiz := s.generator.GenerateQuiz(studyquiz.GenerationRequest{Text: text})
	span.SetAttributes(
		attribute.String("studyquiz.quiz_id", quiz.ID),
		attribute.Int("studyquiz.key_terms", quiz.Stats.KeyTerms),
		attribute.Int("studyquiz.sentences", quiz.Stats.Sentences),
		attribute.Int("studyquiz.generic_essays", quiz.Stats.GenericEssays),
		attribute.Int("studyquiz.generic_mc", quiz.Stats.GenericMC),
	)
	s.metrics.observeQuiz(quiz)
	return quiz
}

func newQuizView(q *studyquiz.Quiz) quizView {
	var view quizView
	for i, essay := range q.EssayQuestions {
		view.Essays = append(view.Essays, essayView{
			Number: i + 1,
			Text:   studyquiz.StripEssayLabel(essay, i+1),
		})
	}
	for i, mc := range q.MCQuestions {
		v := mcView{
			Number:        i + 1,
			Question:      mc.Question,
			CorrectAnswer: mc.CorrectAnswer,
			Explanation:   mc.Explanation,
		}
		for j, option := range mc.Options {
			letter := studyquiz.OptionLetter(j)
			v.Options = append(v.Options, optionView{
				Letter:  letter,
				Text:    option,
				Correct: letter == mc.CorrectAnswer,
			})
		}
		view.MultipleChoice = append(view.MultipleChoice, v)
	}
	return view
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	export := strings.ReplaceAll(r.FormValue("export"), "\r\n", "\n")
	if strings.TrimSpace(export) == "" {
		http.Error(w, "Nothing to download", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", studyquiz.ExportFilename))
	fmt.Fprint(w, export)
}

func (s *Server) handleAPIQuiz(w http.ResponseWriter, r *http.Request) {
	var req studyquiz.GenerationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.metrics.emptyInputs.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}
	writeJSON(w, http.StatusOK, s.generate(r, req.Text))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		studyquiz.Logger().Errorf("Failed to encode response: %v", err)
	}
}
