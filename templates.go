package studyquiz

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// TermSlot marks where a key term is substituted into a template
const TermSlot = "{term}"

// ErrInvalidTemplates is returned when a template bank fails validation
var ErrInvalidTemplates = errors.New("invalid templates")

// Templates is the fixed text the generators assemble questions from.
// A bank is immutable once handed to a QuizGenerator.
type Templates struct {
	QuestionStarters    []string        `yaml:"question_starters" validate:"min=1,dive,required,singleline"`
	EssayPrompts        []string        `yaml:"essay_prompts" validate:"min=1,dive,termslot,singleline"`
	GenericEssayPrompt  string          `yaml:"generic_essay_prompt" validate:"required,singleline"`
	CorrectAnswer       string          `yaml:"correct_answer" validate:"termslot,singleline"`
	Distractors         []string        `yaml:"distractors" validate:"len=3,dive,termslot,singleline"`
	DistractorFallbacks []string        `yaml:"distractor_fallbacks" validate:"len=3,dive,required,singleline"`
	Explanation         string          `yaml:"explanation" validate:"termslot,singleline"`
	GenericQuestion     GenericQuestion `yaml:"generic_question"`
	Stopwords           []string        `yaml:"stopwords" validate:"dive,required"`
}

// GenericQuestion is the multiple choice record used when the text runs out of material
type GenericQuestion struct {
	Question    string   `yaml:"question" validate:"required,singleline"`
	Options     []string `yaml:"options" validate:"len=4,dive,required,singleline"`
	Explanation string   `yaml:"explanation" validate:"required,singleline"`
}

// DefaultTemplates returns a fresh copy of the built-in template bank
func DefaultTemplates() Templates {
	return Templates{
		QuestionStarters: []string{
			"What is the significance of",
			"How does",
			"Why is",
			"What are the main characteristics of",
			"Explain the relationship between",
			"What factors contribute to",
			"How can we understand",
			"What role does",
		},
		EssayPrompts: []string{
			"Analyze and discuss the key concepts presented in the text regarding {term}. Provide specific examples and explain their significance.",
			"Compare and contrast different aspects of {term} mentioned in the document. How do these elements relate to each other?",
			"Evaluate the importance of {term} in the context provided. What are the potential implications or consequences?",
			"Describe the main themes related to {term} and explain how they connect to broader concepts or real-world applications.",
			"Critically examine {term} as presented in the text. What questions or areas for further research does this raise?",
		},
		GenericEssayPrompt: "Analyze the main ideas presented in the provided text and discuss their significance. Support your analysis with specific examples from the material.",
		CorrectAnswer:      "Related to {term} as mentioned in the context",
		Distractors: []string{
			"Unrelated concept A about {term}",
			"Unrelated concept B about {term}",
			"Unrelated concept C about {term}",
		},
		DistractorFallbacks: []string{"general topic", "another topic", "different subject"},
		Explanation:         "This question focuses on understanding {term} in the given context.",
		GenericQuestion: GenericQuestion{
			Question: "What is a key concept discussed in the text?",
			Options: []string{
				"A main idea from the provided material",
				"An unrelated concept",
				"A different topic entirely",
				"Something not mentioned in the text",
			},
			Explanation: "This question tests comprehension of the main content.",
		},
		Stopwords: []string{
			"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
			"of", "with", "by", "is", "are", "was", "were", "be", "been", "being",
			"have", "has", "had", "do", "does", "did", "will", "would", "could",
			"should", "may", "might", "must", "can", "this", "that", "these",
			"those", "i", "you", "he", "she", "it", "we", "they", "me", "him",
			"her", "us", "them", "my", "your", "his", "its", "our", "their",
		},
	}
}

// Clone returns a deep copy so callers cannot mutate a bank in use
func (t Templates) Clone() Templates {
	c := t
	c.QuestionStarters = slices.Clone(t.QuestionStarters)
	c.EssayPrompts = slices.Clone(t.EssayPrompts)
	c.Distractors = slices.Clone(t.Distractors)
	c.DistractorFallbacks = slices.Clone(t.DistractorFallbacks)
	c.GenericQuestion.Options = slices.Clone(t.GenericQuestion.Options)
	c.Stopwords = slices.Clone(t.Stopwords)
	return c
}

var templateValidator = sync.OnceValues(newTemplateValidator)

// Validate checks the bank against its struct rules
func (t Templates) Validate() error {
	v, err := templateValidator()
	if err != nil {
		return err
	}
	if err := v.Struct(t); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTemplates, err)
	}
	return nil
}

// LoadTemplates reads a YAML bank from r. Fields left out keep their
// default value; unknown fields are rejected.
func LoadTemplates(r io.Reader) (Templates, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Templates{}, fmt.Errorf("failed to read templates: %w", err)
	}

	t := DefaultTemplates()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Templates{}, fmt.Errorf("%w: YAML decode failed: %w", ErrInvalidTemplates, err)
	}

	if err := t.Validate(); err != nil {
		return Templates{}, err
	}
	return t, nil
}

// LoadTemplatesFile reads a YAML bank from path
func LoadTemplatesFile(path string) (Templates, error) {
	f, err := os.Open(path)
	if err != nil {
		return Templates{}, fmt.Errorf("failed to open templates: %w", err)
	}
	defer f.Close()

	t, err := LoadTemplates(f)
	if err != nil {
		return Templates{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// YAML renders the bank in the format LoadTemplates accepts
func (t Templates) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("failed to encode templates: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode templates: %w", err)
	}
	return buf.Bytes(), nil
}

func newTemplateValidator() (*validator.Validate, error) {
	v := validator.New()
	if err := v.RegisterValidation("termslot", validateTermSlot); err != nil {
		return nil, fmt.Errorf("failed to register termslot validator: %w", err)
	}
	if err := v.RegisterValidation("singleline", validateSingleLine); err != nil {
		return nil, fmt.Errorf("failed to register singleline validator: %w", err)
	}
	return v, nil
}

// usableTemplates returns t when it validates and the defaults otherwise
func usableTemplates(t Templates) Templates {
	if t.Validate() != nil {
		return DefaultTemplates()
	}
	return t
}

// validateTermSlot requires exactly one TermSlot in a template string
func validateTermSlot(fl validator.FieldLevel) bool {
	return strings.Count(fl.Field().String(), TermSlot) == 1
}

// validateSingleLine rejects line breaks, which would split an exported line
func validateSingleLine(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), "\r\n")
}

func fillTerm(template, term string) string {
	return strings.Replace(template, TermSlot, term, 1)
}
