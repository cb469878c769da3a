package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kuesioner-tools/survey_backend/internal/models"
	"github.com/kuesioner-tools/survey_backend/internal/repository"
)

// In-memory repository fakes for service tests. Each fake stores values and
// hands out copies so tests never alias service-held state.

type fakeSurveyRepo struct {
	mu      sync.Mutex
	surveys map[primitive.ObjectID]models.Survey
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{surveys: make(map[primitive.ObjectID]models.Survey)}
}

func (r *fakeSurveyRepo) Create(_ context.Context, survey *models.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.surveys {
		if s.Code == survey.Code {
			return models.ErrCodeAlreadyExists
		}
	}
	survey.BeforeCreate()
	r.surveys[survey.ID] = *survey
	return nil
}

func (r *fakeSurveyRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surveys[id]
	if !ok {
		return nil, models.ErrSurveyNotFound
	}
	out := s
	return &out, nil
}

func (r *fakeSurveyRepo) GetByCode(_ context.Context, code string) (*models.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.surveys {
		if s.Code == code {
			out := s
			return &out, nil
		}
	}
	return nil, models.ErrSurveyNotFound
}

func (r *fakeSurveyRepo) GetByCodeAndStatus(ctx context.Context, code string, status models.SurveyStatus) (*models.Survey, error) {
	s, err := r.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if s.Status != status {
		return nil, models.ErrSurveyNotFound
	}
	return s, nil
}

func (r *fakeSurveyRepo) Update(_ context.Context, survey *models.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surveys[survey.ID]; !ok {
		return models.ErrSurveyNotFound
	}
	r.surveys[survey.ID] = *survey
	return nil
}

func (r *fakeSurveyRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surveys[id]; !ok {
		return models.ErrSurveyNotFound
	}
	delete(r.surveys, id)
	return nil
}

func (r *fakeSurveyRepo) List(_ context.Context, status *models.SurveyStatus, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Survey], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]models.Survey, 0, len(r.surveys))
	for _, s := range r.surveys {
		if status == nil || s.Status == *status {
			items = append(items, s)
		}
	}
	return &repository.PaginatedResult[models.Survey]{
		Items:      items,
		TotalCount: int64(len(items)),
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: 1,
	}, nil
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions []models.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{}
}

func (r *fakeQuestionRepo) Create(_ context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	question.BeforeCreate()
	r.questions = append(r.questions, *question)
	return nil
}

func (r *fakeQuestionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.questions {
		if q.ID == id {
			out := q
			return &out, nil
		}
	}
	return nil, models.ErrQuestionNotFound
}

func (r *fakeQuestionRepo) Update(_ context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.questions {
		if r.questions[i].ID == question.ID {
			question.BeforeUpdate()
			r.questions[i] = *question
			return nil
		}
	}
	return models.ErrQuestionNotFound
}

func (r *fakeQuestionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.questions {
		if r.questions[i].ID == id {
			r.questions = append(r.questions[:i], r.questions[i+1:]...)
			return nil
		}
	}
	return models.ErrQuestionNotFound
}

func (r *fakeQuestionRepo) ListBySurvey(_ context.Context, surveyID primitive.ObjectID) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Question{}
	for _, q := range r.questions {
		if q.SurveyID == surveyID {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SectionID != out[j].SectionID {
			return out[i].SectionID < out[j].SectionID
		}
		return out[i].Order < out[j].Order
	})
	return out, nil
}

func (r *fakeQuestionRepo) ListBySection(_ context.Context, surveyID primitive.ObjectID, sectionID string) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Question{}
	for _, q := range r.questions {
		if q.SurveyID == surveyID && q.SectionID == sectionID {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *fakeQuestionRepo) UpdateOrders(_ context.Context, surveyID primitive.ObjectID, orders map[primitive.ObjectID]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.questions {
		if r.questions[i].SurveyID != surveyID {
			continue
		}
		if order, ok := orders[r.questions[i].ID]; ok {
			r.questions[i].Order = order
		}
	}
	return nil
}

func (r *fakeQuestionRepo) DeleteBySection(_ context.Context, surveyID primitive.ObjectID, sectionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.questions[:0]
	deleted := int64(0)
	for _, q := range r.questions {
		if q.SurveyID == surveyID && q.SectionID == sectionID {
			deleted++
			continue
		}
		kept = append(kept, q)
	}
	r.questions = kept
	return deleted, nil
}

func (r *fakeQuestionRepo) CountBySurvey(_ context.Context, surveyID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := int64(0)
	for _, q := range r.questions {
		if q.SurveyID == surveyID {
			count++
		}
	}
	return count, nil
}

type fakeRespondentRepo struct {
	mu          sync.Mutex
	respondents map[primitive.ObjectID]models.Respondent
}

func newFakeRespondentRepo() *fakeRespondentRepo {
	return &fakeRespondentRepo{respondents: make(map[primitive.ObjectID]models.Respondent)}
}

func (r *fakeRespondentRepo) Create(_ context.Context, respondent *models.Respondent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	respondent.BeforeCreate()
	r.respondents[respondent.ID] = *respondent
	return nil
}

func (r *fakeRespondentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Respondent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp, ok := r.respondents[id]
	if !ok {
		return nil, models.ErrRespondentNotFound
	}
	out := resp
	return &out, nil
}

func (r *fakeRespondentRepo) Update(_ context.Context, respondent *models.Respondent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.respondents[respondent.ID]; !ok {
		return models.ErrRespondentNotFound
	}
	respondent.BeforeUpdate()
	r.respondents[respondent.ID] = *respondent
	return nil
}

type fakeResponseRepo struct {
	mu        sync.Mutex
	responses map[primitive.ObjectID]models.Response
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{responses: make(map[primitive.ObjectID]models.Response)}
}

func (r *fakeResponseRepo) Create(_ context.Context, response *models.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	response.BeforeCreate()
	for _, existing := range r.responses {
		if existing.RespondentToken == response.RespondentToken {
			return models.ErrTokenAlreadyExists
		}
	}
	r.responses[response.ID] = *response
	return nil
}

func (r *fakeResponseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp, ok := r.responses[id]
	if !ok {
		return nil, models.ErrResponseNotFound
	}
	out := resp
	return &out, nil
}

func (r *fakeResponseRepo) GetBySession(_ context.Context, token string, surveyID, responseID primitive.ObjectID) (*models.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp, ok := r.responses[responseID]
	if !ok || resp.RespondentToken != token || resp.SurveyID != surveyID {
		return nil, models.ErrSessionStale
	}
	out := resp
	return &out, nil
}

func (r *fakeResponseRepo) Update(_ context.Context, response *models.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.responses[response.ID]; !ok {
		return models.ErrResponseNotFound
	}
	r.responses[response.ID] = *response
	return nil
}

func (r *fakeResponseRepo) ListBySurvey(_ context.Context, surveyID primitive.ObjectID, status *models.ResponseStatus, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Response], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []models.Response{}
	for _, resp := range r.responses {
		if resp.SurveyID != surveyID {
			continue
		}
		if status != nil && resp.Status != *status {
			continue
		}
		items = append(items, resp)
	}
	return &repository.PaginatedResult[models.Response]{
		Items:      items,
		TotalCount: int64(len(items)),
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: 1,
	}, nil
}

func (r *fakeResponseRepo) CountBySurvey(ctx context.Context, surveyID primitive.ObjectID, status *models.ResponseStatus) (int64, error) {
	result, err := r.ListBySurvey(ctx, surveyID, status, repository.DefaultPaginationOptions())
	if err != nil {
		return 0, err
	}
	return result.TotalCount, nil
}

type answerKey struct {
	responseID primitive.ObjectID
	questionID primitive.ObjectID
}

type fakeAnswerRepo struct {
	mu      sync.Mutex
	answers map[answerKey]models.Answer
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{answers: make(map[answerKey]models.Answer)}
}

func (r *fakeAnswerRepo) Upsert(_ context.Context, answer *models.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := answerKey{responseID: answer.ResponseID, questionID: answer.QuestionID}
	if existing, ok := r.answers[key]; ok {
		answer.ID = existing.ID
		answer.CreatedAt = existing.CreatedAt
		answer.BeforeUpdate()
	} else {
		answer.BeforeCreate()
	}
	r.answers[key] = *answer
	return nil
}

func (r *fakeAnswerRepo) ListByResponse(_ context.Context, responseID primitive.ObjectID) ([]models.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Answer{}
	for key, a := range r.answers {
		if key.responseID == responseID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAnswerRepo) CountByResponse(ctx context.Context, responseID primitive.ObjectID) (int64, error) {
	answers, err := r.ListByResponse(ctx, responseID)
	if err != nil {
		return 0, err
	}
	return int64(len(answers)), nil
}

func (r *fakeAnswerRepo) DeleteByResponse(_ context.Context, responseID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := int64(0)
	for key := range r.answers {
		if key.responseID == responseID {
			delete(r.answers, key)
			deleted++
		}
	}
	return deleted, nil
}

type fakeScoreRepo struct {
	mu     sync.Mutex
	scores map[primitive.ObjectID]models.ResponseScore
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{scores: make(map[primitive.ObjectID]models.ResponseScore)}
}

func (r *fakeScoreRepo) Upsert(_ context.Context, score *models.ResponseScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.scores[score.ResponseID]; ok {
		score.ID = existing.ID
		score.CreatedAt = existing.CreatedAt
		score.BeforeUpdate()
	} else {
		score.BeforeCreate()
	}
	r.scores[score.ResponseID] = *score
	return nil
}

func (r *fakeScoreRepo) GetByResponse(_ context.Context, responseID primitive.ObjectID) (*models.ResponseScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	score, ok := r.scores[responseID]
	if !ok {
		return nil, models.ErrScoreNotFound
	}
	out := score
	return &out, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories []models.ResultCategory
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *models.ResultCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	category.BeforeCreate()
	r.categories = append(r.categories, *category)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.ResultCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *models.ResultCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.categories {
		if r.categories[i].ID == category.ID {
			r.categories[i] = *category
			return nil
		}
	}
	return models.ErrCategoryNotFound
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.categories {
		if r.categories[i].ID == id {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return models.ErrCategoryNotFound
}

func (r *fakeCategoryRepo) ListByOwner(_ context.Context, owner models.CategoryOwner) ([]models.ResultCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ResultCategory{}
	for _, c := range r.categories {
		if c.Owner == owner {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeLockRepo struct {
	mu    sync.Mutex
	locks map[string]models.SurveyLock
}

func newFakeLockRepo() *fakeLockRepo {
	return &fakeLockRepo{locks: make(map[string]models.SurveyLock)}
}

func (r *fakeLockRepo) Insert(_ context.Context, lock *models.SurveyLock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locks[lock.LockKey]; ok {
		return models.ErrLockNotAcquired
	}
	lock.BeforeCreate()
	r.locks[lock.LockKey] = *lock
	return nil
}

func (r *fakeLockRepo) GetByKey(_ context.Context, lockKey string) (*models.SurveyLock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[lockKey]
	if !ok {
		return nil, models.ErrLockNotFound
	}
	out := lock
	return &out, nil
}

func (r *fakeLockRepo) DeleteByKey(_ context.Context, lockKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, lockKey)
	return nil
}

func (r *fakeLockRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := int64(0)
	for key, lock := range r.locks {
		if lock.IsExpired(now) {
			delete(r.locks, key)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeLockRepo) ListActive(_ context.Context, now time.Time) ([]models.SurveyLock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.SurveyLock{}
	for _, lock := range r.locks {
		if !lock.IsExpired(now) {
			out = append(out, lock)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AcquiredAt.Before(out[j].AcquiredAt) })
	return out, nil
}
