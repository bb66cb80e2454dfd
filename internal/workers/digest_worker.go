package workers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"heartlink_backend/internal/email"
	"heartlink_backend/internal/logger"
	"heartlink_backend/internal/repositories"
	"heartlink_backend/internal/services"
	"heartlink_backend/internal/services/dto"

	"gorm.io/gorm"
)

// DigestWorker periodically recomputes every user's top matches and mails
// them a digest. Scoring itself stays in the compatibility service; this
// worker only schedules and delivers.
type DigestWorker struct {
	db                   *gorm.DB
	compatibilityService services.CompatibilityService
	answerRepo           repositories.AnswerProfileRepository
	userRepo             repositories.UserRepository
	emailProvider        email.Provider

	interval time.Duration
	topN     int
	minScore float64 // percent
}

func NewDigestWorker(
	db *gorm.DB,
	compatibilityService services.CompatibilityService,
	answerRepo repositories.AnswerProfileRepository,
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
	interval time.Duration,
	topN int,
	minScore float64,
) *DigestWorker {
	return &DigestWorker{
		db:                   db,
		compatibilityService: compatibilityService,
		answerRepo:           answerRepo,
		userRepo:             userRepo,
		emailProvider:        emailProvider,
		interval:             interval,
		topN:                 topN,
		minScore:             minScore,
	}
}

// Start launches the digest loop in the background.
func (w *DigestWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *DigestWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Digest worker stopped")
			return
		case <-ticker.C:
			w.sendDigests()
		}
	}
}

func (w *DigestWorker) sendDigests() {
	profiles, err := w.answerRepo.FindAll(w.db)
	if err != nil {
		logger.WorkerLog("match_digest", "load_profiles", err)
		return
	}

	sent := 0
	for i := range profiles {
		if w.sendDigestFor(profiles[i].UserID) {
			sent++
		}
	}

	logger.WorkerLog("match_digest", fmt.Sprintf("run_complete sent=%d", sent), nil)
}

func (w *DigestWorker) sendDigestFor(userID string) bool {
	matches, err := w.compatibilityService.RankMatches(w.db, userID, &dto.RankCriteria{
		Limit:    w.topN,
		MinScore: w.minScore,
	})
	if err != nil {
		logger.WorkerLog("match_digest", "rank_matches user="+userID, err)
		return false
	}
	if len(matches) == 0 {
		return false
	}

	user, err := w.userRepo.FindByID(w.db, userID)
	if err != nil {
		logger.WorkerLog("match_digest", "load_user user="+userID, err)
		return false
	}

	msg := &email.Message{
		To:      user.Email,
		Subject: "Your new compatibility matches",
		Body:    digestBody(user.DisplayName, matches),
	}
	if err := w.emailProvider.Send(msg); err != nil {
		logger.WorkerLog("match_digest", "send user="+userID, err)
		return false
	}

	return true
}

func digestBody(displayName string, matches []*dto.RankedMatch) string {
	var b strings.Builder

	name := displayName
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "<p>Hi %s,</p>", name)
	b.WriteString("<p>Here are your current top matches:</p><ul>")
	for _, match := range matches {
		who := match.DisplayName
		if who == "" {
			who = "Someone new"
		}
		fmt.Fprintf(&b, "<li>%s — %s</li>", who, match.Interpretation)
	}
	b.WriteString("</ul>")

	return b.String()
}
