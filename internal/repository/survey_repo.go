package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ascendant/internal/model"
)

// SurveyRepo stores question sets in MongoDB, one document per set keyed by
// the set key
type SurveyRepo interface {
	QuestionRepo
	Save(ctx context.Context, set *model.QuestionSet) error
	Delete(ctx context.Context, key string) error
}

type surveyRepo struct {
	collection *mongo.Collection
}

// NewSurveyRepo creates a new question set repository
func NewSurveyRepo(db *mongo.Database) SurveyRepo {
	return &surveyRepo{
		collection: db.Collection("question_sets"),
	}
}

func (r *surveyRepo) GetSet(ctx context.Context, key string) (*model.QuestionSet, error) {
	var set model.QuestionSet
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&set)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find question set %q: %w", key, err)
	}
	return &set, nil
}

// Save replaces the set stored under set.Key, creating it if absent
func (r *surveyRepo) Save(ctx context.Context, set *model.QuestionSet) error {
	if set.Key == "" {
		return errors.New("question set key is required")
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": set.Key}, set, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save question set %q: %w", set.Key, err)
	}
	return nil
}

func (r *surveyRepo) Delete(ctx context.Context, key string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
