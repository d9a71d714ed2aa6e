// Package ranking fetches listings, scores them against a resume and keeps the best.
package ranking

import (
	"context"
	"sort"

	"github.com/jimezsa/jobmatch/internal/cache"
	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/scoring"
	"github.com/jimezsa/jobmatch/internal/scraper"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const DefaultTopN = 10

// Pipeline runs Source -> Scorer -> stable sort -> top N. It keeps no state between
// calls apart from the optional cache.
type Pipeline struct {
	Source scraper.Source
	Scorer *scoring.Scorer
	Cache  cache.Store
	TopN   int
	Logger zerolog.Logger

	group singleflight.Group
}

// Rank returns at most TopN jobs ordered by score, highest first. Jobs with equal
// scores keep the order the source returned them in. A source failure is returned
// as is and no list is produced.
func (p *Pipeline) Rank(ctx context.Context, params models.SearchParams, resume string) ([]models.Job, error) {
	params = params.WithDefaults()

	jobs, err := p.fetch(ctx, params)
	if err != nil {
		return nil, err
	}

	ranked := ScoreAll(p.Scorer, jobs, resume)
	SortByScore(ranked)
	ranked = Top(ranked, p.topN())

	p.Logger.Debug().
		Int("fetched", len(jobs)).
		Int("ranked", len(ranked)).
		Msg("ranked listings")
	return ranked, nil
}

func (p *Pipeline) fetch(ctx context.Context, params models.SearchParams) ([]models.Job, error) {
	key := cache.Key(p.Source.Name(), params)
	store := p.Cache
	if store == nil {
		store = cache.Nop{}
	}

	if jobs, ok := store.Get(ctx, key); ok {
		p.Logger.Debug().Str("query", params.Query).Str("location", params.Location).Msg("listing cache hit")
		return jobs, nil
	}

	// The fetch is shared by every caller waiting on key, so one caller
	// going away must not cancel it for the others.
	shared := context.WithoutCancel(ctx)
	results := p.group.DoChan(key, func() (any, error) {
		jobs, err := p.Source.Search(shared, params)
		if err != nil {
			return nil, err
		}
		if err := store.Set(shared, key, jobs); err != nil {
			p.Logger.Warn().Err(err).Msg("failed to cache listings")
		}
		return jobs, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		return models.CloneJobs(res.Val.([]models.Job)), nil
	}
}

func (p *Pipeline) topN() int {
	if p.TopN <= 0 {
		return DefaultTopN
	}
	return p.TopN
}

// ScoreAll returns copies of jobs carrying their scores.
func ScoreAll(scorer *scoring.Scorer, jobs []models.Job, resume string) []models.Job {
	scored := make([]models.Job, len(jobs))
	for i, job := range jobs {
		scored[i] = job.WithScore(scorer.Score(job, resume))
	}
	return scored
}

// SortByScore orders jobs by score descending, keeping the original order on ties.
func SortByScore(jobs []models.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].ScoreValue() > jobs[j].ScoreValue()
	})
}

func Top(jobs []models.Job, n int) []models.Job {
	if n <= 0 || len(jobs) <= n {
		return jobs
	}
	return jobs[:n]
}
