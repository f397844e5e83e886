// Package scheduler runs the site's periodic maintenance jobs on a cron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	infraevents "github.com/Hayal27/sininning-pro-sub000/infrastructure/events"
	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/sse"
	"github.com/Hayal27/sininning-pro-sub000/internal/cache"
	"github.com/Hayal27/sininning-pro-sub000/internal/config"
	"github.com/Hayal27/sininning-pro-sub000/internal/events"
	"github.com/Hayal27/sininning-pro-sub000/internal/metrics"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
	"github.com/Hayal27/sininning-pro-sub000/internal/search"
)

// Job names, also used as the job label of site_scheduler_runs_total.
const (
	JobPublishScheduledNews = "publish-scheduled-news"
	JobCloseExpiredCareers  = "close-expired-careers"
)

// runTimeout bounds a single job run.
const runTimeout = 2 * time.Minute

// ErrUnknownJob is returned by RunNow for a name that is not registered.
var ErrUnknownJob = errors.New("unknown scheduler job")

// NewsStore is the news access the publish job needs.
type NewsStore interface {
	PublishDue(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.News, error)
}

// CareerStore is the career access the expiry job needs.
type CareerStore interface {
	CloseExpired(ctx context.Context, today models.Date) ([]uuid.UUID, error)
}

// Deps are the collaborators notified after a job changes rows.
// Everything except the stores may be nil.
type Deps struct {
	News    NewsStore
	Careers CareerStore
	Cache   *cache.Cache
	Search  *search.Service
	Events  *events.Publisher
	SSE     sse.Publisher
	Metrics *metrics.Metrics
}

type job struct {
	name string
	spec string
	run  func(ctx context.Context) (int, error)
}

// Scheduler owns the cron instance and the registered jobs.
type Scheduler struct {
	cron   *cron.Cron
	parser cron.Parser
	logger infralogger.Logger
	deps   Deps
	jobs   map[string]*job
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
}

// New builds a scheduler with both maintenance jobs. Specs are validated
// here so a bad config fails at startup.
func New(cfg config.SchedulerConfig, deps Deps, log infralogger.Logger) (*Scheduler, error) {
	if deps.News == nil || deps.Careers == nil {
		return nil, errors.New("scheduler requires news and career stores")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	s := &Scheduler{
		parser: parser,
		logger: log,
		deps:   deps,
		jobs:   make(map[string]*job, 2),
		now:    time.Now,
	}
	s.cron = cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	for _, j := range []*job{
		{name: JobPublishScheduledNews, spec: cfg.NewsPublishSpec, run: s.publishScheduledNews},
		{name: JobCloseExpiredCareers, spec: cfg.CareerExpirySpec, run: s.closeExpiredCareers},
	} {
		if _, err := parser.Parse(j.spec); err != nil {
			return nil, fmt.Errorf("invalid schedule %q for %s: %w", j.spec, j.name, err)
		}
		s.jobs[j.name] = j
	}
	return s, nil
}

// Start registers the jobs with cron and starts it. Runs stop when ctx is
// cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		return errors.New("scheduler already started")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	for _, j := range s.jobs {
		if _, err := s.cron.AddFunc(j.spec, func() { s.execute(s.ctx, j) }); err != nil {
			s.cancel()
			return fmt.Errorf("failed to schedule %s: %w", j.name, err)
		}

		sched, _ := s.parser.Parse(j.spec)
		s.logger.Info("Scheduled job",
			infralogger.String("job", j.name),
			infralogger.String("spec", j.spec),
			infralogger.Time("next_run", sched.Next(s.now())),
		)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", infralogger.Int("jobs", len(s.jobs)))
	return nil
}

// Stop cancels in-flight runs and waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()

	cronCtx := s.cron.Stop()
	<-cronCtx.Done()

	s.logger.Info("Scheduler stopped")
}

// RunNow executes the named job once, outside the cron schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) (int, error) {
	j, ok := s.jobs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.execute(ctx, j)
}

func (s *Scheduler) execute(ctx context.Context, j *job) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	start := time.Now()
	affected, err := j.run(ctx)
	s.deps.Metrics.RecordSchedulerRun(j.name, err == nil)

	if err != nil {
		s.logger.Error("Scheduled job failed",
			infralogger.String("job", j.name),
			infralogger.Duration("duration", time.Since(start)),
			infralogger.Error(err),
		)
		return 0, err
	}

	log := s.logger.Debug
	if affected > 0 {
		log = s.logger.Info
	}
	log("Scheduled job finished",
		infralogger.String("job", j.name),
		infralogger.Int("affected", affected),
		infralogger.Duration("duration", time.Since(start)),
	)

	if affected > 0 && s.deps.SSE != nil {
		if pubErr := s.deps.SSE.Publish(ctx, sse.NewScheduledRunEvent(j.name, int64(affected))); pubErr != nil {
			s.logger.Warn("Failed to notify dashboard", infralogger.String("job", j.name), infralogger.Error(pubErr))
		}
	}
	return affected, nil
}

func (s *Scheduler) publishScheduledNews(ctx context.Context) (int, error) {
	ids, err := s.deps.News.PublishDue(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("publish due news: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	s.deps.Cache.Invalidate(ctx, cache.NamespaceNews)

	for _, id := range ids {
		s.deps.Events.PublishAsync(events.Content(infraevents.ContentUpdated, infraevents.EntityNews, id,
			infraevents.ContentPayload{Actor: JobPublishScheduledNews}))

		if s.deps.Search == nil {
			continue
		}
		article, getErr := s.deps.News.GetByID(ctx, id)
		if getErr != nil {
			s.logger.Warn("Failed to load published article for indexing",
				infralogger.String("news_id", id.String()),
				infralogger.Error(getErr),
			)
			continue
		}
		s.deps.Search.SyncNews(article)
	}
	return len(ids), nil
}

func (s *Scheduler) closeExpiredCareers(ctx context.Context) (int, error) {
	ids, err := s.deps.Careers.CloseExpired(ctx, models.NewDate(s.now()))
	if err != nil {
		return 0, fmt.Errorf("close expired careers: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	s.deps.Cache.Invalidate(ctx, cache.NamespaceCareers)
	if s.deps.Search != nil {
		s.deps.Search.RemoveAll(models.SearchTypeCareer, ids)
	}
	for _, id := range ids {
		s.deps.Events.PublishAsync(events.Content(infraevents.ContentUpdated, infraevents.EntityCareer, id,
			infraevents.ContentPayload{Actor: JobCloseExpiredCareers}))
	}
	return len(ids), nil
}
