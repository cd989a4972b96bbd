package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/IT-Nick/quizbot/internal/domain/model"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrAnswerOutOfRange индекс правильного ответа не попадает в список вариантов
var ErrAnswerOutOfRange = errors.New("answer index out of range")

// ErrNotSequence документ пустой или не является списком
var ErrNotSequence = errors.New("document is not a sequence of questions")

// LoadError ошибка загрузки файла с вопросами. Index равен -1, если ошибка относится к файлу целиком.
type LoadError struct {
	Path  string
	Index int
	Err   error
}

func (e *LoadError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("load questions from %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load questions from %s: question #%d: %v", e.Path, e.Index, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// QuestionRepository хранит вопросы, загруженные при старте. Только для чтения.
type QuestionRepository struct {
	questions []model.Question
}

// NewQuestionRepository загружает вопросы из файла
func NewQuestionRepository(path string) (*QuestionRepository, error) {
	questions, err := LoadQuestions(path)
	if err != nil {
		return nil, err
	}
	return &QuestionRepository{questions: questions}, nil
}

// All возвращает копию всех вопросов в порядке файла
func (r *QuestionRepository) All() []model.Question {
	out := make([]model.Question, len(r.questions))
	copy(out, r.questions)
	return out
}

// Count количество загруженных вопросов
func (r *QuestionRepository) Count() int {
	return len(r.questions)
}

// questionRecord запись файла до проверки. Answer указатель, чтобы отличить отсутствующее поле от нуля.
type questionRecord struct {
	Text      string   `json:"question" yaml:"question" validate:"required"`
	Options   []string `json:"options" yaml:"options" validate:"required,min=2,max=10,dive,required"`
	Answer    *int     `json:"answer" yaml:"answer" validate:"required"`
	TopicCode string   `json:"topic_code" yaml:"topic_code" validate:"required"`
	TopicName string   `json:"topic_name" yaml:"topic_name" validate:"required"`
}

// LoadQuestions читает и проверяет файл с вопросами (JSON или YAML по расширению)
func LoadQuestions(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Index: -1, Err: err}
	}

	records, err := decode(path, data)
	if err != nil {
		return nil, &LoadError{Path: path, Index: -1, Err: err}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	questions := make([]model.Question, 0, len(records))
	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return nil, &LoadError{Path: path, Index: i, Err: err}
		}

		q := model.Question{
			Text:      rec.Text,
			Options:   rec.Options,
			Answer:    *rec.Answer,
			TopicCode: rec.TopicCode,
			TopicName: rec.TopicName,
		}
		if !q.Valid() {
			return nil, &LoadError{Path: path, Index: i, Err: fmt.Errorf("%w: %d not in [0, %d)", ErrAnswerOutOfRange, q.Answer, len(q.Options))}
		}
		questions = append(questions, q)
	}

	return questions, nil
}

func decode(path string, data []byte) ([]questionRecord, error) {
	var records []questionRecord

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
			return nil, ErrNotSequence
		}
		if err := doc.Content[0].Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, ErrNotSequence
		}
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}

	return records, nil
}
