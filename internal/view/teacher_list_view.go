package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"proffy-mobile/internal/favorites"
	"proffy-mobile/internal/listing"
	"proffy-mobile/internal/metrics"
	"proffy-mobile/internal/model"
)

const (
	// TeacherListTitle is the header of the teacher list screen.
	TeacherListTitle = "Proffys disponíveis"
	// NotFoundMessage is shown for every failed or empty query.
	NotFoundMessage = "Erro, Proffy não encontrado!"
	// DefaultErrorClearAfter is how long an error banner stays up.
	DefaultErrorClearAfter = 3 * time.Second
)

// ErrSuperseded is returned by Submit when a newer submission was issued
// before this one's response arrived. Its response is dropped.
var ErrSuperseded = errors.New("submission superseded by a newer one")

// Phase is the single state tag of the teacher list.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseLoaded     Phase = "loaded"
	PhaseError      Phase = "error"
)

// ErrorState is the inline error banner.
type ErrorState struct {
	Message string `json:"message"`
	Status  bool   `json:"status"`
}

// Searcher queries the listing service.
type Searcher interface {
	Search(ctx context.Context, criteria listing.Criteria) ([]model.Teacher, error)
}

// TeacherListConfig carries the optional collaborators of a TeacherListView.
type TeacherListConfig struct {
	ErrorClearAfter time.Duration
	Scheduler       Scheduler
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
}

// TeacherListView is the view model of the filterable teacher list.
type TeacherListView struct {
	searcher   Searcher
	loader     FavoritesLoader
	scheduler  Scheduler
	clearAfter time.Duration
	log        *zap.Logger
	metrics    *metrics.Metrics

	mu             sync.Mutex
	phase          Phase
	filtersVisible bool
	criteria       listing.Criteria
	teachers       []model.Teacher
	favoriteIDs    map[int64]struct{}
	errState       ErrorState

	// seq is the number of the latest issued submission.
	seq uint64
	// errGen identifies the error a pending clear belongs to.
	errGen     uint64
	clearTimer Timer
}

// TeacherListSnapshot is the rendered state of the teacher list screen.
type TeacherListSnapshot struct {
	Title          string           `json:"title"`
	Phase          Phase            `json:"phase"`
	FiltersVisible bool             `json:"filters_visible"`
	Criteria       listing.Criteria `json:"criteria"`
	Error          ErrorState       `json:"error"`
	Items          []Item           `json:"items"`
}

// NewTeacherListView creates the view with filters hidden and no teachers.
func NewTeacherListView(searcher Searcher, loader FavoritesLoader, cfg TeacherListConfig) *TeacherListView {
	if cfg.ErrorClearAfter <= 0 {
		cfg.ErrorClearAfter = DefaultErrorClearAfter
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = WallClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &TeacherListView{
		searcher:    searcher,
		loader:      loader,
		scheduler:   cfg.Scheduler,
		clearAfter:  cfg.ErrorClearAfter,
		log:         cfg.Logger,
		metrics:     cfg.Metrics,
		phase:       PhaseIdle,
		teachers:    []model.Teacher{},
		favoriteIDs: map[int64]struct{}{},
	}
}

// ToggleFilters shows or hides the filter panel and returns the new visibility.
func (v *TeacherListView) ToggleFilters() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filtersVisible = !v.filtersVisible
	return v.filtersVisible
}

func (v *TeacherListView) SetCriteria(c listing.Criteria) {
	v.mu.Lock()
	v.criteria = c
	v.mu.Unlock()
}

func (v *TeacherListView) SetSubject(subject string) {
	v.mu.Lock()
	v.criteria.Subject = subject
	v.mu.Unlock()
}

func (v *TeacherListView) SetWeekDay(weekDay string) {
	v.mu.Lock()
	v.criteria.WeekDay = weekDay
	v.mu.Unlock()
}

func (v *TeacherListView) SetTime(t string) {
	v.mu.Lock()
	v.criteria.Time = t
	v.mu.Unlock()
}

// ReloadFavorites refreshes the favorited ids from the store. Absent or
// unreadable collections leave the current ids in place.
func (v *TeacherListView) ReloadFavorites(ctx context.Context) error {
	teachers, found, err := loadFavorites(ctx, v.loader, v.metrics, v.log)
	if err != nil || !found {
		return err
	}

	ids := make(map[int64]struct{}, len(teachers))
	for _, id := range favorites.IDs(teachers) {
		ids[id] = struct{}{}
	}

	v.mu.Lock()
	v.favoriteIDs = ids
	v.mu.Unlock()
	return nil
}

// Submit runs the current criteria against the listing service. Query
// failures end up in the error banner rather than the returned error. It
// returns ErrSuperseded when a newer submission won, and ctx.Err() when the
// caller gave up before the answer arrived; neither touches the view.
func (v *TeacherListView) Submit(ctx context.Context) error {
	if err := v.ReloadFavorites(ctx); err != nil {
		v.log.Warn("keeping previous favorites for this submission", zap.Error(err))
	}

	v.mu.Lock()
	v.seq++
	seq := v.seq
	criteria := v.criteria
	prevPhase := v.phase
	v.phase = PhaseSubmitting
	v.mu.Unlock()

	teachers, err := v.searcher.Search(ctx, criteria)

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq {
		v.log.Debug("dropping stale listing response", zap.Uint64("seq", seq), zap.Uint64("latest", v.seq))
		return ErrSuperseded
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		v.log.Debug("dropping listing response of an abandoned submission", zap.Uint64("seq", seq), zap.Error(ctxErr))
		v.phase = prevPhase
		return ctxErr
	}

	v.filtersVisible = false
	if err != nil {
		if !errors.Is(err, listing.ErrNoResults) {
			v.log.Warn("listing query failed", zap.Any("criteria", criteria), zap.Error(err))
		}
		v.failLocked()
		return nil
	}

	v.teachers = teachers
	v.phase = PhaseLoaded
	v.resetErrorLocked()
	return nil
}

// failLocked raises the banner and schedules its clear, cancelling the clear
// of any earlier error.
func (v *TeacherListView) failLocked() {
	v.resetErrorLocked()
	v.errState = ErrorState{Message: NotFoundMessage, Status: true}
	v.phase = PhaseError

	gen := v.errGen
	v.clearTimer = v.scheduler.AfterFunc(v.clearAfter, func() {
		v.expireError(gen)
	})
}

func (v *TeacherListView) resetErrorLocked() {
	if v.clearTimer != nil {
		v.clearTimer.Stop()
		v.clearTimer = nil
	}
	v.errGen++
	v.errState = ErrorState{}
}

func (v *TeacherListView) expireError(gen uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.errGen {
		return
	}
	v.errState = ErrorState{}
	v.clearTimer = nil
	if v.phase == PhaseError {
		v.phase = PhaseIdle
	}
}

// Items renders the current teachers, flagging the favorited ones.
func (v *TeacherListView) Items() []Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.itemsLocked()
}

func (v *TeacherListView) itemsLocked() []Item {
	items := make([]Item, len(v.teachers))
	for i, t := range v.teachers {
		_, fav := v.favoriteIDs[t.ID]
		items[i] = Item{Key: t.ID, Teacher: t, Favorited: fav}
	}
	return items
}

func (v *TeacherListView) Snapshot() TeacherListSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	return TeacherListSnapshot{
		Title:          TeacherListTitle,
		Phase:          v.phase,
		FiltersVisible: v.filtersVisible,
		Criteria:       v.criteria,
		Error:          v.errState,
		Items:          v.itemsLocked(),
	}
}
