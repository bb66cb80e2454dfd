package services

import (
	"errors"
	"math"
	"sort"
	"sync"

	"heartlink_backend/internal/compat"
	"heartlink_backend/internal/logger"
	"heartlink_backend/internal/models"
	"heartlink_backend/internal/repositories"
	"heartlink_backend/internal/services/dto"
	"heartlink_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// rankWorkers bounds the candidate fan-out. Scoring is CPU-only and each
// call is ~23 comparisons, so a small pool is plenty.
const rankWorkers = 8

type CompatibilityService interface {
	// SubmitAnswers validates and upserts the caller's full questionnaire.
	SubmitAnswers(db *gorm.DB, userID string, req *dto.SubmitAnswersRequest) error
	// GetMatch scores the caller against one other user. The caller is the
	// requesting side: only their dealbreaker flags gate the result.
	GetMatch(db *gorm.DB, userID, otherUserID string) (*dto.MatchResult, error)
	// RankMatches scores the caller against every other submitted profile.
	RankMatches(db *gorm.DB, userID string, criteria *dto.RankCriteria) ([]*dto.RankedMatch, error)
	// Schema describes the questionnaire contract for clients.
	Schema() *dto.SchemaResponse
}

type compatibilityService struct {
	engine     *compat.Engine
	answerRepo repositories.AnswerProfileRepository
	userRepo   repositories.UserRepository
}

func NewCompatibilityService(
	engine *compat.Engine,
	answerRepo repositories.AnswerProfileRepository,
	userRepo repositories.UserRepository,
) CompatibilityService {
	return &compatibilityService{
		engine:     engine,
		answerRepo: answerRepo,
		userRepo:   userRepo,
	}
}

// -------------------------------
// Submission
// -------------------------------

func (s *compatibilityService) SubmitAnswers(db *gorm.DB, userID string, req *dto.SubmitAnswersRequest) error {
	answers := make(compat.AnswerSet, len(req.Answers))
	for key, value := range req.Answers {
		answers[compat.QuestionID(key)] = value
	}

	if err := answers.Validate(s.engine.Config().MaxScale); err != nil {
		return answerSetError(err)
	}

	profile := &models.AnswerProfile{
		UserID:              userID,
		DealbreakerKids:     req.Dealbreakers.Kids,
		DealbreakerMonogamy: req.Dealbreakers.Monogamy,
		DealbreakerReligion: req.Dealbreakers.Religion,
	}
	if err := profile.SetAnswers(answers); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.answerRepo.Upsert(db, profile); err != nil {
		return apperrors.DatabaseError(err)
	}

	return nil
}

// -------------------------------
// Pairwise match
// -------------------------------

func (s *compatibilityService) GetMatch(db *gorm.DB, userID, otherUserID string) (*dto.MatchResult, error) {
	caller, err := s.loadProfile(db, userID)
	if err != nil {
		return nil, err
	}
	other, err := s.loadProfile(db, otherUserID)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Match(caller, other)
	if err != nil {
		// Stored data no longer satisfies the schema; treat as corrupt input.
		return nil, answerSetError(err)
	}

	return toMatchResult(otherUserID, result), nil
}

// -------------------------------
// Ranked candidate list
// -------------------------------

func (s *compatibilityService) RankMatches(db *gorm.DB, userID string, criteria *dto.RankCriteria) ([]*dto.RankedMatch, error) {
	limit := criteria.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	caller, err := s.loadProfile(db, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.answerRepo.FindAllExcept(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	// The engine is pure and stateless, so candidate scoring fans out
	// across a small worker pool with no coordination beyond the channels.
	jobs := make(chan *models.AnswerProfile)
	results := make(chan *dto.RankedMatch)

	var wg sync.WaitGroup
	workers := rankWorkers
	if len(candidates) < workers {
		workers = len(candidates)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for candidate := range jobs {
				match := s.scoreCandidate(caller, candidate)
				if match != nil {
					results <- match
				}
			}
		}()
	}

	go func() {
		for i := range candidates {
			jobs <- &candidates[i]
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var matches []*dto.RankedMatch
	for match := range results {
		if match.Percent >= criteria.MinScore {
			matches = append(matches, match)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].UserID < matches[j].UserID
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	// Resolve display names only for the returned page.
	for _, match := range matches {
		user, err := s.userRepo.FindByID(db, match.UserID)
		if err != nil {
			continue
		}
		match.DisplayName = user.DisplayName
	}

	return matches, nil
}

// scoreCandidate converts and scores one stored profile. Unreadable or
// schema-drifted rows are skipped rather than failing the whole ranking.
func (s *compatibilityService) scoreCandidate(caller *compat.Profile, candidate *models.AnswerProfile) *dto.RankedMatch {
	profile, err := candidate.ToCompatProfile()
	if err != nil {
		logger.WithError(err).Warn("skipping unreadable answer profile", "user_id", candidate.UserID)
		return nil
	}

	result, err := s.engine.Match(caller, profile)
	if err != nil {
		logger.WithError(err).Warn("skipping unscorable answer profile", "user_id", candidate.UserID)
		return nil
	}

	return &dto.RankedMatch{
		UserID:         candidate.UserID,
		Score:          result.Score,
		Percent:        roundPercent(result.Score),
		Interpretation: result.Interpretation,
		CategoryScores: categoryScoresDTO(result.CategoryScores),
	}
}

// -------------------------------
// Schema
// -------------------------------

func (s *compatibilityService) Schema() *dto.SchemaResponse {
	cfg := s.engine.Config()

	weights := make(map[string]float64, len(cfg.Weights))
	for cat, w := range cfg.Weights {
		weights[string(cat)] = w
	}

	categories := make(map[string][]string, len(cfg.Categories))
	for cat, questions := range cfg.Categories {
		ids := make([]string, len(questions))
		for i, q := range questions {
			ids[i] = string(q)
		}
		categories[string(cat)] = ids
	}

	return &dto.SchemaResponse{
		MaxScale:     cfg.MaxScale,
		Weights:      weights,
		Categories:   categories,
		Dealbreakers: []string{"kids", "monogamy", "religion"},
	}
}

// -------------------------------
// Helpers
// -------------------------------

func (s *compatibilityService) loadProfile(db *gorm.DB, userID string) (*compat.Profile, error) {
	row, err := s.answerRepo.FindByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAnswerProfileNotFound) {
			return nil, apperrors.ErrFormNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	profile, err := row.ToCompatProfile()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func answerSetError(err error) error {
	switch {
	case errors.Is(err, compat.ErrMissingAnswer):
		return apperrors.ErrMissingAnswer(err)
	case errors.Is(err, compat.ErrInvalidAnswerRange):
		return apperrors.ErrInvalidAnswerRange(err)
	case errors.Is(err, compat.ErrUnknownQuestion):
		return apperrors.NewBadRequestError(err.Error())
	default:
		return apperrors.InternalError(err)
	}
}

func toMatchResult(otherUserID string, result *compat.Result) *dto.MatchResult {
	return &dto.MatchResult{
		UserID:         otherUserID,
		Score:          result.Score,
		Percent:        roundPercent(result.Score),
		Interpretation: result.Interpretation,
		CategoryScores: categoryScoresDTO(result.CategoryScores),
	}
}

func categoryScoresDTO(scores map[compat.Category]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for cat, score := range scores {
		out[string(cat)] = score
	}
	return out
}

// roundPercent converts a [0,1] score to a percent with one decimal place.
func roundPercent(score float64) float64 {
	return math.Round(score*1000) / 10
}
