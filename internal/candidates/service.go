package candidates

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"screening-backend/internal/cache"
	"screening-backend/internal/extract"
	"screening-backend/internal/fields"
	"screening-backend/internal/jobs"
	"screening-backend/internal/scoring"
	"screening-backend/internal/shared/telemetry"
)

const defaultBatchWorkers = 4

// Service runs the submission pipeline: field identification, resume
// normalization, scoring, and persistence.
type Service struct {
	Repo       CandidatesRepo
	Jobs       *jobs.Service
	Normalizer *extract.Normalizer
	Engine     *scoring.Engine
	Cache      cache.Cache
	CacheTTL   time.Duration
	Workers    int
}

// RankedCandidate is one entry of a job ranking.
type RankedCandidate struct {
	Rank    int
	Profile Profile
}

// BatchResult summarizes one batch re-score run.
type BatchResult struct {
	Scored int
	Failed int
}

// Submit ingests one application: resolves the form fields, normalizes
// the resume, persists the profile and scores it. Extraction failure
// degrades scoring, it never rejects the submission.
func (s *Service) Submit(ctx context.Context, jobID, collectedEmail string, formFields []fields.FormField) (Profile, error) {
	if len(formFields) == 0 && strings.TrimSpace(collectedEmail) == "" {
		return Profile{}, ErrInvalidInput
	}
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return Profile{}, err
	}

	ident := fields.Identify(formFields, collectedEmail)
	doc := s.Normalizer.Normalize(ctx, ident.ResumeReference)
	if doc.ParsingFailed {
		telemetry.Info("extract.degraded", map[string]any{
			"job_id": jobID,
			"reason": doc.FailureReason,
		})
	}

	now := time.Now().UTC()
	p := Profile{
		ID:              uuid.NewString(),
		JobID:           job.ID,
		Name:            ident.Name,
		Email:           ident.Email,
		Phone:           ident.Phone,
		ResumeReference: ident.ResumeReference,
		ResumeText:      doc.Text,
		ParsingFailed:   doc.ParsingFailed,
		Answers:         ident.RemainingAnswers,
		Status:          StatusApplied,
		ScoreStatus:     ScoreUnscored,
		SubmittedAt:     now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	backfillContact(&p)

	if err := s.Repo.Create(ctx, p); err != nil {
		return Profile{}, fmt.Errorf("persist candidate: %w", err)
	}
	telemetry.Info("candidate.submitted", map[string]any{
		"candidate_id":   p.ID,
		"job_id":         p.JobID,
		"parsing_failed": p.ParsingFailed,
	})

	if err := s.score(ctx, &p, job); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Get returns a profile by ID.
func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	if strings.TrimSpace(id) == "" {
		return Profile{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// Rescore recomputes the breakdown for one candidate. With unchanged
// inputs the result is byte-identical to the previous run: the scorers
// are deterministic and unchanged submissions are served from cache.
func (s *Service) Rescore(ctx context.Context, id string) (Profile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	job, err := s.Jobs.Get(ctx, p.JobID)
	if err != nil {
		return Profile{}, err
	}
	if err := s.score(ctx, &p, job); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// RescoreJob re-scores every candidate of a job on a bounded worker
// pool. One candidate failing never aborts the batch.
func (s *Service) RescoreJob(ctx context.Context, jobID string) (BatchResult, error) {
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return BatchResult{}, err
	}
	profiles, err := s.Repo.ListByJob(ctx, jobID)
	if err != nil {
		return BatchResult{}, err
	}

	workers := s.Workers
	if workers <= 0 {
		workers = defaultBatchWorkers
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result BatchResult
		sem    = make(chan struct{}, workers)
	)
	for i := range profiles {
		p := profiles[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			err := s.score(ctx, &p, job)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				telemetry.Error("score.batch_item_failed", map[string]any{
					"candidate_id": p.ID,
					"job_id":       jobID,
					"error":        err.Error(),
				})
				return
			}
			result.Scored++
		}()
	}
	wg.Wait()
	return result, nil
}

// Rankings re-scores any candidate not currently scored, then returns
// the job's candidates ordered by total score (ties broken by earlier
// submission). Ranking the same set twice yields the same order.
func (s *Service) Rankings(ctx context.Context, jobID string) ([]RankedCandidate, error) {
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	profiles, err := s.Repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	for i := range profiles {
		if profiles[i].ScoreStatus == ScoreScored {
			continue
		}
		if err := s.score(ctx, &profiles[i], job); err != nil {
			telemetry.Error("score.ranking_item_failed", map[string]any{
				"candidate_id": profiles[i].ID,
				"job_id":       jobID,
				"error":        err.Error(),
			})
		}
	}

	byID := make(map[string]Profile, len(profiles))
	items := make([]scoring.RankItem, 0, len(profiles))
	for _, p := range profiles {
		if p.ScoreStatus != ScoreScored {
			continue
		}
		byID[p.ID] = p
		items = append(items, scoring.RankItem{
			ID:          p.ID,
			TotalScore:  p.TotalScore,
			SubmittedAt: p.SubmittedAt,
		})
	}

	ranked := scoring.Rank(items)
	out := make([]RankedCandidate, 0, len(ranked))
	for _, item := range ranked {
		out = append(out, RankedCandidate{Rank: item.Rank, Profile: byID[item.ID]})
	}
	return out, nil
}

// Patch applies collaborator edits (status, tags, notes).
func (s *Service) Patch(ctx context.Context, id string, patch ProfilePatch) (Profile, error) {
	if strings.TrimSpace(id) == "" {
		return Profile{}, ErrInvalidInput
	}
	if patch.Status == nil && patch.Tags == nil && patch.Notes == nil {
		return Profile{}, ErrInvalidInput
	}
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return Profile{}, ErrInvalidInput
	}
	return s.Repo.UpdateProfile(ctx, id, patch, time.Now().UTC())
}

// score runs the engine and persists the result atomically. Unchanged
// submissions hit the score cache instead of re-running the engine.
func (s *Service) score(ctx context.Context, p *Profile, job jobs.Requirement) error {
	hash := submissionHash(*p, job)
	cacheKey := "score:" + p.ID + ":" + hash

	now := time.Now().UTC()
	if s.Cache != nil {
		var cached scoring.Breakdown
		hit, err := s.Cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			telemetry.Error("score.cache_error", map[string]any{"candidate_id": p.ID, "error": err.Error()})
		}
		if hit {
			if err := s.Repo.UpdateScore(ctx, p.ID, cached, now); err != nil {
				return fmt.Errorf("persist cached score: %w", err)
			}
			applyBreakdown(p, cached, now)
			telemetry.Info("score.status", map[string]any{
				"candidate_id": p.ID, "job_id": p.JobID, "status": ScoreScored, "cache": "hit",
			})
			return nil
		}
	}

	if err := s.Repo.SetScoreStatus(ctx, p.ID, ScoreScoring, now); err != nil {
		return fmt.Errorf("mark scoring: %w", err)
	}
	telemetry.Info("score.status", map[string]any{
		"candidate_id": p.ID, "job_id": p.JobID, "status": ScoreScoring,
	})

	bd, err := s.runEngine(ctx, p, job)
	if err != nil {
		return err
	}

	now = time.Now().UTC()
	if err := s.Repo.UpdateScore(ctx, p.ID, bd, now); err != nil {
		return fmt.Errorf("persist score: %w", err)
	}
	applyBreakdown(p, bd, now)

	if s.Cache != nil {
		if err := s.Cache.SetJSON(ctx, cacheKey, bd, s.CacheTTL); err != nil {
			telemetry.Error("score.cache_error", map[string]any{"candidate_id": p.ID, "error": err.Error()})
		}
	}
	telemetry.Info("score.status", map[string]any{
		"candidate_id": p.ID, "job_id": p.JobID, "status": ScoreScored,
		"total": bd.TotalScore, "grade": bd.Grade,
	})
	return nil
}

// runEngine computes a breakdown, converting a scorer panic into
// ErrInvariant so a wiring or invariant breach never crashes a request.
func (s *Service) runEngine(ctx context.Context, p *Profile, job jobs.Requirement) (bd scoring.Breakdown, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("score.invariant_violation", map[string]any{
				"candidate_id": p.ID, "job_id": p.JobID, "panic": fmt.Sprint(rec),
			})
			err = fmt.Errorf("%w: %v", ErrInvariant, rec)
		}
	}()
	bd = s.Engine.Score(ctx, scoring.Input{
		ResumeText:    p.ResumeText,
		ParsingFailed: p.ParsingFailed,
		Answers:       p.Answers,
	}, scoring.JobContext{
		Title:          job.Title,
		Description:    job.Description,
		RequiredSkills: job.RequiredSkills,
	})
	return bd, nil
}

func applyBreakdown(p *Profile, bd scoring.Breakdown, updatedAt time.Time) {
	copied := bd
	p.Breakdown = &copied
	p.TotalScore = bd.TotalScore
	p.Grade = bd.Grade
	p.ScoreStatus = ScoreScored
	p.UpdatedAt = updatedAt
}

// backfillContact fills identity fields the form did not resolve from
// the resume text.
func backfillContact(p *Profile) {
	if p.Email == "" {
		p.Email = extract.FindEmail(p.ResumeText)
	}
	if p.Phone == "" {
		p.Phone = extract.FindPhone(p.ResumeText)
	}
	if p.Name == "" {
		p.Name = extract.GuessName(p.ResumeText)
	}
}

// submissionHash fingerprints everything the score depends on. Answers
// are folded in sorted key order so the hash is stable.
func submissionHash(p Profile, job jobs.Requirement) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00", job.ID, job.Title, job.Description)
	for _, skill := range job.RequiredSkills {
		fmt.Fprintf(h, "%s\x00", skill)
	}
	fmt.Fprintf(h, "%s\x00%t\x00", p.ResumeText, p.ParsingFailed)
	keys := make([]string, 0, len(p.Answers))
	for k := range p.Answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "%s\x00%s\x00", k, p.Answers[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}
