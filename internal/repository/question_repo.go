package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ascendant/internal/model"
)

var ErrSetNotFound = errors.New("question set not found")

//go:embed data/questions.yaml
var defaultQuestions []byte

// QuestionRepo loads the ordered question list the wizard is built from
type QuestionRepo interface {
	GetSet(ctx context.Context, key string) (*model.QuestionSet, error)
}

type yamlQuestionRepo struct {
	set *model.QuestionSet
}

// NewYAMLQuestionRepo parses a single question set document
func NewYAMLQuestionRepo(data []byte) (QuestionRepo, error) {
	set, err := ParseQuestionSet(data)
	if err != nil {
		return nil, err
	}
	return &yamlQuestionRepo{set: set}, nil
}

// NewFileQuestionRepo reads a question set from a YAML file
func NewFileQuestionRepo(path string) (QuestionRepo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return NewYAMLQuestionRepo(data)
}

// NewDefaultQuestionRepo serves the question set compiled into the binary
func NewDefaultQuestionRepo() QuestionRepo {
	repo, err := NewYAMLQuestionRepo(defaultQuestions)
	if err != nil {
		panic("embedded questions: " + err.Error())
	}
	return repo
}

// DefaultQuestionSet returns a copy of the embedded question set
func DefaultQuestionSet() *model.QuestionSet {
	set, err := ParseQuestionSet(defaultQuestions)
	if err != nil {
		panic("embedded questions: " + err.Error())
	}
	return set
}

// ParseQuestionSet decodes one YAML question set. A set without questions is
// valid; the wizard then stays uninitialised.
func ParseQuestionSet(data []byte) (*model.QuestionSet, error) {
	var set model.QuestionSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	return &set, nil
}

// GetSet returns the file's set. A file without a key answers any key.
func (r *yamlQuestionRepo) GetSet(_ context.Context, key string) (*model.QuestionSet, error) {
	if r.set.Key != "" && key != "" && key != r.set.Key {
		return nil, ErrSetNotFound
	}
	out := *r.set
	out.Questions = append([]model.Question(nil), r.set.Questions...)
	return &out, nil
}
