package services

import (
	"testing"

	"heartlink_backend/internal/compat"
	"heartlink_backend/internal/models"
	"heartlink_backend/internal/repositories"
	"heartlink_backend/internal/services/dto"
	"heartlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ----------------------------------------------------------------------
// In-memory fakes. The db argument is ignored; the service never touches
// gorm directly.
// ----------------------------------------------------------------------

type fakeAnswerRepo struct {
	profiles map[string]*models.AnswerProfile
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{profiles: make(map[string]*models.AnswerProfile)}
}

func (r *fakeAnswerRepo) Upsert(_ *gorm.DB, profile *models.AnswerProfile) error {
	clone := *profile
	r.profiles[profile.UserID] = &clone
	return nil
}

func (r *fakeAnswerRepo) FindByUserID(_ *gorm.DB, userID string) (*models.AnswerProfile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, repositories.ErrAnswerProfileNotFound
	}
	clone := *profile
	return &clone, nil
}

func (r *fakeAnswerRepo) FindAllExcept(_ *gorm.DB, userID string) ([]models.AnswerProfile, error) {
	var out []models.AnswerProfile
	for id, profile := range r.profiles {
		if id != userID {
			out = append(out, *profile)
		}
	}
	return out, nil
}

func (r *fakeAnswerRepo) FindAll(_ *gorm.DB) ([]models.AnswerProfile, error) {
	var out []models.AnswerProfile
	for _, profile := range r.profiles {
		out = append(out, *profile)
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ *gorm.DB, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

// ----------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------

type testEnv struct {
	service    CompatibilityService
	answerRepo *fakeAnswerRepo
	userRepo   *fakeUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	engine, err := compat.NewEngine(compat.DefaultConfig())
	require.NoError(t, err)

	answerRepo := newFakeAnswerRepo()
	userRepo := newFakeUserRepo()
	return &testEnv{
		service:    NewCompatibilityService(engine, answerRepo, userRepo),
		answerRepo: answerRepo,
		userRepo:   userRepo,
	}
}

func uniformAnswers(value int) map[string]int {
	answers := make(map[string]int, 23)
	for _, q := range compat.Questions() {
		answers[string(q)] = value
	}
	return answers
}

func (env *testEnv) submit(t *testing.T, userID string, answers map[string]int, dealbreakers dto.DealbreakersDTO) {
	t.Helper()
	err := env.service.SubmitAnswers(nil, userID, &dto.SubmitAnswersRequest{
		Answers:      answers,
		Dealbreakers: dealbreakers,
	})
	require.NoError(t, err)
}

func appCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected *AppError, got %v", err)
	return appErr.Code
}

// ----------------------------------------------------------------------
// Submission
// ----------------------------------------------------------------------

func TestSubmitAnswers(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		env.submit(t, "user-a", uniformAnswers(4), dto.DealbreakersDTO{Kids: true})

		stored, err := env.answerRepo.FindByUserID(nil, "user-a")
		require.NoError(t, err)
		assert.True(t, stored.DealbreakerKids)
		assert.False(t, stored.DealbreakerMonogamy)

		profile, err := stored.ToCompatProfile()
		require.NoError(t, err)
		assert.Len(t, profile.Answers, 23)
		assert.Equal(t, 4, profile.Answers[compat.Q9])
	})

	t.Run("MissingAnswer", func(t *testing.T) {
		env := newTestEnv(t)
		answers := uniformAnswers(3)
		delete(answers, "Q12")

		err := env.service.SubmitAnswers(nil, "user-a", &dto.SubmitAnswersRequest{Answers: answers})
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeMissingAnswer, appCode(t, err))
	})

	t.Run("OutOfRange", func(t *testing.T) {
		env := newTestEnv(t)
		answers := uniformAnswers(3)
		answers["Q1"] = 9

		err := env.service.SubmitAnswers(nil, "user-a", &dto.SubmitAnswersRequest{Answers: answers})
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidAnswerRange, appCode(t, err))
	})

	t.Run("UnknownQuestion", func(t *testing.T) {
		env := newTestEnv(t)
		answers := uniformAnswers(3)
		answers["Q99"] = 3

		err := env.service.SubmitAnswers(nil, "user-a", &dto.SubmitAnswersRequest{Answers: answers})
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeValidationFailed, appCode(t, err))
	})

	t.Run("ResubmissionReplaces", func(t *testing.T) {
		env := newTestEnv(t)
		env.submit(t, "user-a", uniformAnswers(2), dto.DealbreakersDTO{Religion: true})
		env.submit(t, "user-a", uniformAnswers(5), dto.DealbreakersDTO{})

		stored, err := env.answerRepo.FindByUserID(nil, "user-a")
		require.NoError(t, err)
		assert.False(t, stored.DealbreakerReligion)

		profile, err := stored.ToCompatProfile()
		require.NoError(t, err)
		assert.Equal(t, 5, profile.Answers[compat.Q1])
	})
}

// ----------------------------------------------------------------------
// Pairwise match
// ----------------------------------------------------------------------

func TestGetMatch(t *testing.T) {
	t.Run("FormNotFound", func(t *testing.T) {
		env := newTestEnv(t)
		env.submit(t, "user-a", uniformAnswers(3), dto.DealbreakersDTO{})

		// The other side never submitted.
		_, err := env.service.GetMatch(nil, "user-a", "user-b")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeFormNotFound, appCode(t, err))

		// Neither did the caller.
		_, err = env.service.GetMatch(nil, "user-c", "user-a")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeFormNotFound, appCode(t, err))
	})

	t.Run("IdenticalProfiles", func(t *testing.T) {
		env := newTestEnv(t)
		env.submit(t, "user-a", uniformAnswers(3), dto.DealbreakersDTO{})
		env.submit(t, "user-b", uniformAnswers(3), dto.DealbreakersDTO{})

		match, err := env.service.GetMatch(nil, "user-a", "user-b")
		require.NoError(t, err)
		assert.Equal(t, "user-b", match.UserID)
		assert.Equal(t, 100.0, match.Percent)
		assert.Contains(t, match.Interpretation, "Excellent")
		assert.Len(t, match.CategoryScores, 8)
	})

	t.Run("DealbreakersGateOnlyTheCaller", func(t *testing.T) {
		env := newTestEnv(t)

		answersA := uniformAnswers(4)
		answersB := uniformAnswers(4)
		answersB["Q9"] = 5 // kids question differs

		env.submit(t, "user-a", answersA, dto.DealbreakersDTO{Kids: true})
		env.submit(t, "user-b", answersB, dto.DealbreakersDTO{})

		// user-a requests: their kids dealbreaker floors the score.
		match, err := env.service.GetMatch(nil, "user-a", "user-b")
		require.NoError(t, err)
		assert.Equal(t, 0.40, match.Score)
		assert.Equal(t, 40.0, match.Percent)

		// user-b requests: no flag on their side, no floor.
		match, err = env.service.GetMatch(nil, "user-b", "user-a")
		require.NoError(t, err)
		assert.NotEqual(t, 0.40, match.Score)
	})
}

// ----------------------------------------------------------------------
// Ranked matches
// ----------------------------------------------------------------------

func TestRankMatches(t *testing.T) {
	env := newTestEnv(t)

	env.submit(t, "caller", uniformAnswers(3), dto.DealbreakersDTO{})
	env.submit(t, "twin", uniformAnswers(3), dto.DealbreakersDTO{})    // 100%
	env.submit(t, "close", uniformAnswers(2), dto.DealbreakersDTO{})   // penalized but decent
	env.submit(t, "distant", uniformAnswers(5), dto.DealbreakersDTO{}) // below 50%
	env.userRepo.users["twin"] = &models.User{BaseModel: models.BaseModel{ID: "twin"}, Email: "twin@test.com", DisplayName: "Twin"}

	t.Run("OrderedByScore", func(t *testing.T) {
		matches, err := env.service.RankMatches(nil, "caller", &dto.RankCriteria{})
		require.NoError(t, err)
		require.Len(t, matches, 3)

		assert.Equal(t, "twin", matches[0].UserID)
		assert.Equal(t, 100.0, matches[0].Percent)
		assert.Equal(t, "Twin", matches[0].DisplayName)
		for i := 1; i < len(matches); i++ {
			assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score, "matches must be sorted descending")
		}
	})

	t.Run("MinScoreFilter", func(t *testing.T) {
		matches, err := env.service.RankMatches(nil, "caller", &dto.RankCriteria{MinScore: 50})
		require.NoError(t, err)
		for _, match := range matches {
			assert.GreaterOrEqual(t, match.Percent, 50.0)
			assert.NotEqual(t, "distant", match.UserID)
		}
	})

	t.Run("Limit", func(t *testing.T) {
		matches, err := env.service.RankMatches(nil, "caller", &dto.RankCriteria{Limit: 1})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "twin", matches[0].UserID)
	})

	t.Run("CallerWithoutForm", func(t *testing.T) {
		_, err := env.service.RankMatches(nil, "stranger", &dto.RankCriteria{})
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeFormNotFound, appCode(t, err))
	})

	t.Run("NoCandidates", func(t *testing.T) {
		lonely := newTestEnv(t)
		lonely.submit(t, "caller", uniformAnswers(3), dto.DealbreakersDTO{})

		matches, err := lonely.service.RankMatches(nil, "caller", &dto.RankCriteria{})
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestSchema(t *testing.T) {
	env := newTestEnv(t)

	schema := env.service.Schema()
	assert.Equal(t, 5, schema.MaxScale)
	assert.Len(t, schema.Categories, 8)
	assert.Len(t, schema.Weights, 8)
	assert.ElementsMatch(t, []string{"kids", "monogamy", "religion"}, schema.Dealbreakers)

	total := 0
	for _, questions := range schema.Categories {
		total += len(questions)
	}
	assert.Equal(t, 23, total, "every question must belong to exactly one category")
}
