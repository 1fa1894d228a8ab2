package studyquiz

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuizGenerator orchestrates text analysis and question synthesis. It keeps
// no per-call state and may be shared when its Randomizer is safe to share.
type QuizGenerator struct {
	templates Templates
	custom    *Templates
	rand      Randomizer
	logger    *zap.SugaredLogger

	extractor *KeyTermExtractor
	essays    *EssayQuestionGenerator
	mc        *MultipleChoiceGenerator
}

// Option configures a QuizGenerator
type Option func(*QuizGenerator)

// WithRandomizer sets the source of template and distractor choices
func WithRandomizer(r Randomizer) Option {
	return func(qg *QuizGenerator) {
		if r != nil {
			qg.rand = r
		}
	}
}

// WithTemplates replaces the built-in template bank. A bank that fails
// validation is ignored and the defaults are kept.
func WithTemplates(t Templates) Option {
	return func(qg *QuizGenerator) {
		c := t.Clone()
		qg.custom = &c
	}
}

// WithLogger sets the logger used for generation diagnostics
func WithLogger(l *zap.SugaredLogger) Option {
	return func(qg *QuizGenerator) {
		if l != nil {
			qg.logger = l
		}
	}
}

// NewQuizGenerator creates a new quiz generator
func NewQuizGenerator(opts ...Option) *QuizGenerator {
	qg := &QuizGenerator{
		templates: DefaultTemplates(),
		logger:    Logger(),
	}
	for _, opt := range opts {
		opt(qg)
	}
	if qg.custom != nil {
		if err := qg.custom.Validate(); err != nil {
			qg.logger.Warnf("Ignoring template bank: %v", err)
		} else {
			qg.templates = *qg.custom
		}
		qg.custom = nil
	}
	if qg.rand == nil {
		qg.rand = DefaultRandomizer()
	}

	qg.extractor = NewKeyTermExtractor(qg.templates.Stopwords)
	qg.essays = NewEssayQuestionGenerator(qg.templates, qg.rand)
	qg.mc = NewMultipleChoiceGenerator(qg.templates, qg.rand)
	return qg
}

// Templates returns a copy of the bank in use
func (qg *QuizGenerator) Templates() Templates {
	return qg.templates.Clone()
}

// Generate returns the essay questions and multiple choice questions for
// text. Empty or whitespace-only text yields two empty slices; any other
// input yields exactly EssayQuestionCount and MCQuestionCount entries.
func (qg *QuizGenerator) Generate(text string) ([]string, []MCQuestion) {
	essays, mcs, _ := qg.generate(text)
	return essays, mcs
}

// GenerateQuiz runs Generate and wraps the result in a Quiz envelope
func (qg *QuizGenerator) GenerateQuiz(req GenerationRequest) *Quiz {
	essays, mcs, analysis := qg.generate(req.Text)

	quiz := &Quiz{
		ID:             uuid.NewString(),
		EssayQuestions: essays,
		MCQuestions:    mcs,
		KeyTerms:       analysis.keyTerms,
		Stats: GenerationStats{
			KeyTerms:  len(analysis.keyTerms),
			Sentences: len(analysis.sentences),
		},
		CreatedAt: time.Now(),
	}
	if quiz.KeyTerms == nil {
		quiz.KeyTerms = []string{}
	}
	quiz.Stats.GenericEssays = max(0, len(essays)-min(len(analysis.keyTerms), EssayQuestionCount))
	quiz.Stats.GenericMC = max(0, len(mcs)-min(len(analysis.keyTerms), len(analysis.sentences), MCQuestionCount))

	qg.logger.Infof("Generated quiz %s: %d essay questions, %d multiple choice questions (%d key terms, %d sentences)",
		quiz.ID, len(essays), len(mcs), quiz.Stats.KeyTerms, quiz.Stats.Sentences)
	return quiz
}

// analysis holds the intermediate products of one Generate call
type analysis struct {
	keyTerms  []string
	sentences []string
}

func (qg *QuizGenerator) generate(text string) ([]string, []MCQuestion, analysis) {
	if strings.TrimSpace(text) == "" {
		qg.logger.Debugf("Input is empty, nothing to generate")
		return []string{}, []MCQuestion{}, analysis{}
	}

	a := analysis{
		keyTerms:  qg.extractor.Extract(Words(text)),
		sentences: FilterSentences(Sentences(text)),
	}
	qg.logger.Debugf("Extracted %d key terms %v and %d usable sentences", len(a.keyTerms), a.keyTerms, len(a.sentences))

	essays := qg.essays.Generate(a.keyTerms)
	mcs := qg.mc.Generate(a.keyTerms, a.sentences)
	return essays, mcs, a
}
