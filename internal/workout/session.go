// Package workout implements a GPS-tracked workout: the countdown, the active
// and paused phases, distance accumulation from location fixes, periodic voice
// announcements, and the hand-off of the finished session to a store.
package workout

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/misterclayt0n/stride/internal/clock"
	"github.com/misterclayt0n/stride/internal/location"
	"github.com/misterclayt0n/stride/internal/models"
	"github.com/misterclayt0n/stride/internal/utils"
)

const (
	CountdownFrom     = 3
	TickInterval      = time.Second
	NoiseFloorMeters  = 2.0
	MaxAccuracyMeters = 50.0
)

// Announcer speaks a message; force bypasses the user's voice setting.
type Announcer interface {
	Say(text string, force bool)
}

type Deps struct {
	Clock     clock.Clock
	Location  location.Provider // nil behaves like a device without GPS.
	Watch     location.WatchOptions
	Announcer Announcer
	Calories  CalorieModel
	Logger    hclog.Logger
}

type announcement struct {
	text  string
	force bool
}

type Session struct {
	mu     sync.Mutex
	params models.WorkoutParams
	clock  clock.Clock
	loc    location.Provider
	watch  location.WatchOptions
	voice  Announcer
	cal    CalorieModel
	logger hclog.Logger

	status    Status
	countdown int
	elapsed   int
	distance  float64
	route     []models.RoutePoint
	last      utils.Coordinate
	hasLast   bool
	name      string
	cadence   cadence

	accuracy    float64
	hasAccuracy bool
	gpsErr      error

	timer    clock.Timer
	timerGen uint64
	sub      location.Subscription
	subGen   uint64

	startedAt  time.Time
	finishedAt time.Time
	saved      bool
	discarded  bool

	updates chan struct{}
}

func New(params models.WorkoutParams, deps Deps) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.ExerciseType == "" {
		params.ExerciseType = models.TypeCardio
	}
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Watch == (location.WatchOptions{}) {
		deps.Watch = location.DefaultWatchOptions()
	}
	if deps.Announcer == nil {
		deps.Announcer = silent{}
	}
	if deps.Calories == nil {
		deps.Calories = DistanceCalories{}
	}
	if deps.Logger == nil {
		deps.Logger = hclog.NewNullLogger()
	}

	return &Session{
		params:  params,
		clock:   deps.Clock,
		loc:     deps.Location,
		watch:   deps.Watch,
		voice:   deps.Announcer,
		cal:     deps.Calories,
		logger:  deps.Logger.Named("workout"),
		status:  StatusIdle,
		name:    params.Name,
		cadence: cadence{everyMinutes: params.Voice.AnnounceEveryMinutes},
		updates: make(chan struct{}, 1),
	}, nil
}

// Start begins the countdown. The session becomes active on its own once
// the countdown reaches zero.
func (s *Session) Start() error {
	s.mu.Lock()
	if err := checkTransition(s.status, StatusCountdown); err != nil {
		s.mu.Unlock()
		return err
	}
	s.status = StatusCountdown
	s.countdown = CountdownFrom
	s.startedAt = s.clock.Now()
	s.startTimer(s.countdownTick)
	s.logger.Info("countdown started", "mode", s.params.Mode, "goal_m", s.params.GoalMeters)
	s.notify()
	s.mu.Unlock()

	s.say([]announcement{{strconv.Itoa(CountdownFrom), true}})
	return nil
}

func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkTransition(s.status, StatusPaused); err != nil {
		return err
	}
	s.status = StatusPaused
	s.releaseLocked()
	s.logger.Info("paused", "elapsed", s.elapsed, "distance_m", s.distance)
	s.notify()
	return nil
}

func (s *Session) Resume() error {
	s.mu.Lock()
	if s.status != StatusPaused {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.status, StatusActive)
	}
	attach := s.enterActiveLocked()
	s.logger.Info("resumed", "elapsed", s.elapsed)
	s.notify()
	s.mu.Unlock()

	attach()
	return nil
}

// Finish stops tracking for good and returns the frozen summary.
func (s *Session) Finish() (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkTransition(s.status, StatusFinished); err != nil {
		return Summary{}, err
	}
	s.status = StatusFinished
	s.finishedAt = s.clock.Now()
	s.releaseLocked()
	s.logger.Info("finished", "elapsed", s.elapsed, "distance_m", s.distance, "points", len(s.route))
	s.notify()
	return s.summaryLocked(), nil
}

// Abandon discards the session from any status. It cannot be saved afterwards.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved || s.discarded {
		return
	}
	s.releaseLocked()
	if s.status != StatusFinished {
		s.finishedAt = s.clock.Now()
	}
	s.status = StatusFinished
	s.discarded = true
	s.logger.Info("abandoned", "elapsed", s.elapsed)
	s.notify()
}

// Close releases the timer and location subscription. A session still
// tracking is abandoned; a finished one stays saveable.
func (s *Session) Close() {
	s.mu.Lock()
	tracking := s.status.Tracking() || s.status == StatusIdle
	s.releaseLocked()
	s.mu.Unlock()
	if tracking {
		s.Abandon()
	}
}

// SetName renames a finished, unsaved workout.
func (s *Session) SetName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusFinished {
		return fmt.Errorf("%w: name can only be edited after finishing", ErrInvalidTransition)
	}
	if s.discarded {
		return ErrDiscarded
	}
	if s.saved {
		return ErrAlreadySaved
	}
	s.name = name
	s.notify()
	return nil
}

// Save hands the finished workout to store. A failed save leaves the session
// finished so it can be retried.
func (s *Session) Save(ctx context.Context, store ExerciseStore) (models.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.discarded:
		return models.Exercise{}, ErrDiscarded
	case s.saved:
		return models.Exercise{}, ErrAlreadySaved
	case s.status != StatusFinished:
		return models.Exercise{}, fmt.Errorf("%w: save requires a finished workout, status is %s", ErrInvalidTransition, s.status)
	}

	rec, err := SaveSummary(ctx, store, s.summaryLocked(), s.cal, s.clock.Now())
	if err != nil {
		s.logger.Error("save failed", "error", err)
		return models.Exercise{}, err
	}
	s.saved = true
	s.logger.Info("saved", "id", rec.ID, "calories", rec.Calories, "duration_min", rec.DurationMinutes)
	s.notify()
	return rec, nil
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

func (s *Session) summaryLocked() Summary {
	route := make([]models.RoutePoint, len(s.route))
	copy(route, s.route)
	return Summary{
		Name:           s.name,
		DefaultName:    s.params.DefaultName(),
		Mode:           s.params.Mode,
		Type:           s.params.ExerciseType,
		GoalMeters:     s.params.GoalMeters,
		ElapsedSeconds: s.elapsed,
		DistanceMeters: s.distance,
		Route:          route,
		StartedAt:      s.startedAt,
		FinishedAt:     s.finishedAt,
	}
}

// Updates is signalled after every state change. Signals coalesce, so a
// reader should call Snapshot rather than count them.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

func (s *Session) startTimer(fn func(gen uint64)) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timerGen++
	gen := s.timerGen
	s.timer = s.clock.Every(TickInterval, func() { fn(gen) })
}

func (s *Session) countdownTick(gen uint64) {
	s.mu.Lock()
	if gen != s.timerGen || s.status != StatusCountdown {
		s.mu.Unlock()
		return
	}

	s.countdown--
	var msgs []announcement
	attach := func() {}
	if s.countdown > 0 {
		msgs = append(msgs, announcement{strconv.Itoa(s.countdown), true})
	} else {
		msgs = append(msgs, announcement{"Go!", true})
		attach = s.enterActiveLocked()
		s.logger.Info("active")
	}
	s.notify()
	s.mu.Unlock()

	s.say(msgs)
	attach()
}

// enterActiveLocked switches to active and starts the elapsed timer. The
// returned func opens the location subscription and must run without s.mu
// held, since a provider may block while connecting.
func (s *Session) enterActiveLocked() func() {
	s.status = StatusActive
	s.startTimer(s.elapsedTick)
	if s.loc == nil {
		s.gpsErr = ErrLocationUnavailable
		s.logger.Warn("no location provider")
		return func() {}
	}
	s.subGen++
	gen := s.subGen
	return func() { s.subscribe(gen) }
}

func (s *Session) elapsedTick(gen uint64) {
	s.mu.Lock()
	if gen != s.timerGen || s.status != StatusActive {
		s.mu.Unlock()
		return
	}
	s.elapsed++
	msgs := s.announcementsLocked()
	s.notify()
	s.mu.Unlock()

	s.say(msgs)
}

func (s *Session) subscribe(gen uint64) {
	sub, err := s.loc.Watch(s.watch,
		func(f location.Fix) { s.handleFix(gen, f) },
		func(err error) { s.handleLocationError(gen, err) },
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	stale := gen != s.subGen || s.status != StatusActive
	switch {
	case err != nil && stale:
	case err != nil:
		s.gpsErr = classifyLocationError(err)
		s.logger.Warn("location watch failed", "error", err)
		s.notify()
	case stale:
		// Paused or finished while the provider was connecting.
		sub.Cancel()
	default:
		s.sub = sub
	}
}

// releaseLocked stops the timer and the location subscription. Callbacks
// still in flight are ignored through the generation counters.
func (s *Session) releaseLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
	if s.sub != nil {
		s.sub.Cancel()
		s.sub = nil
	}
	s.subGen++
}

func (s *Session) handleFix(gen uint64, f location.Fix) {
	s.mu.Lock()
	if gen != s.subGen || s.status != StatusActive {
		s.mu.Unlock()
		return
	}

	s.accuracy = f.Accuracy
	s.hasAccuracy = true
	p := utils.Coordinate{Lat: f.Latitude, Lng: f.Longitude}
	if f.Accuracy > MaxAccuracyMeters || !p.Valid() {
		s.notify()
		s.mu.Unlock()
		return
	}

	ts := f.Timestamp
	if ts.IsZero() {
		ts = s.clock.Now()
	}
	s.route = append(s.route, models.RoutePoint{Lat: p.Lat, Lng: p.Lng, Timestamp: ts.UnixMilli()})

	var msgs []announcement
	if !s.hasLast {
		s.last = p
		s.hasLast = true
	} else if d := utils.Distance(s.last, p); d > NoiseFloorMeters {
		s.distance += d
		s.last = p
		msgs = s.announcementsLocked()
	}
	s.gpsErr = nil
	s.notify()
	s.mu.Unlock()

	s.say(msgs)
}

func (s *Session) handleLocationError(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.subGen || s.status != StatusActive {
		return
	}
	s.gpsErr = classifyLocationError(err)
	s.logger.Warn("location error", "error", err)
	s.notify()
}

func (s *Session) announcementsLocked() []announcement {
	if s.status != StatusActive || !s.params.Voice.Enabled {
		return nil
	}
	var out []announcement
	for _, text := range s.cadence.evaluate(s.elapsed, s.distance) {
		out = append(out, announcement{text: text})
	}
	return out
}

func (s *Session) say(msgs []announcement) {
	for _, m := range msgs {
		s.voice.Say(m.text, m.force)
	}
}

type silent struct{}

func (silent) Say(string, bool) {}
