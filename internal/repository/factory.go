// Package repository provides data access layer factories
// #IMPLEMENTATION_DECISION: Factory functions wrap raw MongoDB constructors for our database.Client
package repository

import (
	"github.com/kuesioner-tools/survey_backend/internal/database"
)

// NewSurveyRepository creates a new survey repository using our database client
func NewSurveyRepository(client *database.Client) SurveyRepository {
	return NewMongoSurveyRepository(client.Database())
}

// NewQuestionRepository creates a new question repository using our database client
func NewQuestionRepository(client *database.Client) QuestionRepository {
	return NewMongoQuestionRepository(client.Database())
}

// NewRespondentRepository creates a new respondent repository using our database client
func NewRespondentRepository(client *database.Client) RespondentRepository {
	return NewMongoRespondentRepository(client.Database())
}

// NewResponseRepository creates a new response repository using our database client
func NewResponseRepository(client *database.Client) ResponseRepository {
	return NewMongoResponseRepository(client.Database())
}

// NewAnswerRepository creates a new answer repository using our database client
func NewAnswerRepository(client *database.Client) AnswerRepository {
	return NewMongoAnswerRepository(client.Database())
}

// NewScoreRepository creates a new score repository using our database client
func NewScoreRepository(client *database.Client) ScoreRepository {
	return NewMongoScoreRepository(client.Database())
}

// NewCategoryRepository creates a new result category repository using our database client
func NewCategoryRepository(client *database.Client) CategoryRepository {
	return NewMongoCategoryRepository(client.Database())
}

// NewLockRepository creates a new lock repository using our database client
func NewLockRepository(client *database.Client) LockRepository {
	return NewMongoLockRepository(client.Database())
}

// NewUserRepository creates a new user repository using our database client
func NewUserRepository(client *database.Client) UserRepository {
	return NewMongoUserRepository(client.Database())
}
