package workout

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/misterclayt0n/stride/internal/clock"
	"github.com/misterclayt0n/stride/internal/location"
	"github.com/misterclayt0n/stride/internal/models"
	"github.com/misterclayt0n/stride/internal/utils"
)

var epoch = time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)

type spoken struct {
	text  string
	force bool
}

type fakeAnnouncer struct {
	mu   sync.Mutex
	said []spoken
}

func (f *fakeAnnouncer) Say(text string, force bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.said = append(f.said, spoken{text, force})
}

func (f *fakeAnnouncer) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.said))
	for i, s := range f.said {
		out[i] = s.text
	}
	return out
}

func (f *fakeAnnouncer) count(prefix string) int {
	n := 0
	for _, t := range f.texts() {
		if strings.HasPrefix(t, prefix) {
			n++
		}
	}
	return n
}

type fakeSub struct{ cancelled int }

func (s *fakeSub) Cancel() { s.cancelled++ }

// fakeProvider keeps the callbacks of every Watch so tests can deliver fixes
// by hand, including to subscriptions that were already cancelled.
type fakeProvider struct {
	err    error
	onFix  []func(location.Fix)
	onErr  []func(error)
	subs   []*fakeSub
	latest int

	// When set, Watch signals connecting and then waits for release, like a
	// slow dial.
	connecting chan struct{}
	release    chan struct{}
}

func (p *fakeProvider) Watch(_ location.WatchOptions, onFix func(location.Fix), onErr func(error)) (location.Subscription, error) {
	if p.release != nil {
		p.connecting <- struct{}{}
		<-p.release
	}
	if p.err != nil {
		return nil, p.err
	}
	p.onFix = append(p.onFix, onFix)
	p.onErr = append(p.onErr, onErr)
	sub := &fakeSub{}
	p.subs = append(p.subs, sub)
	p.latest = len(p.subs) - 1
	return sub, nil
}

func (p *fakeProvider) fix(lat, lng, acc float64) {
	p.onFix[p.latest](location.Fix{Latitude: lat, Longitude: lng, Accuracy: acc, Timestamp: epoch})
}

type fakeStore struct {
	err   error
	added []models.Exercise
}

func (s *fakeStore) Add(_ context.Context, ex models.Exercise) error {
	if s.err != nil {
		return s.err
	}
	s.added = append(s.added, ex)
	return nil
}

type harness struct {
	clock *clock.Manual
	loc   *fakeProvider
	voice *fakeAnnouncer
	s     *Session
}

func newHarness(t *testing.T, mutate func(*models.WorkoutParams)) *harness {
	t.Helper()
	params := models.WorkoutParams{
		Mode:         models.ModeRunning,
		ExerciseType: models.TypeCardio,
		GoalMeters:   5000,
		Label:        "Outdoor Running",
		Voice:        models.DefaultVoiceSettings(),
	}
	if mutate != nil {
		mutate(&params)
	}
	h := &harness{
		clock: clock.NewManual(epoch),
		loc:   &fakeProvider{},
		voice: &fakeAnnouncer{},
	}
	s, err := New(params, Deps{Clock: h.clock, Location: h.loc, Announcer: h.voice})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.s = s
	return h
}

// active starts the session and runs the countdown to completion.
func (h *harness) active(t *testing.T) {
	t.Helper()
	if err := h.s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.clock.Advance(CountdownFrom * TickInterval)
	if got := h.s.Snapshot().Status; got != StatusActive {
		t.Fatalf("status after countdown = %s, want active", got)
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	cases := []models.WorkoutParams{
		{GoalMeters: -1, Voice: models.DefaultVoiceSettings()},
		{GoalMeters: math.NaN(), Voice: models.DefaultVoiceSettings()},
		{Voice: models.VoiceSettings{Enabled: true, Gender: models.GenderMale}},
		{Voice: models.VoiceSettings{AnnounceEveryMinutes: 5, Gender: "robot"}},
	}
	for i, p := range cases {
		if _, err := New(p, Deps{}); !errors.Is(err, models.ErrInvalidParams) {
			t.Errorf("case %d: err = %v, want ErrInvalidParams", i, err)
		}
	}
}

func TestCountdownSpeaksEvenWhenVoiceDisabled(t *testing.T) {
	h := newHarness(t, func(p *models.WorkoutParams) { p.Voice.Enabled = false })
	if err := h.s.Start(); err != nil {
		t.Fatal(err)
	}
	snap := h.s.Snapshot()
	if snap.Status != StatusCountdown || snap.Countdown != 3 {
		t.Fatalf("after Start: status=%s countdown=%d", snap.Status, snap.Countdown)
	}
	if len(h.loc.subs) != 0 {
		t.Fatal("location watched during countdown")
	}

	h.clock.Advance(3 * time.Second)

	want := []string{"3", "2", "1", "Go!"}
	got := h.voice.texts()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("spoken = %v, want %v", got, want)
	}
	for _, s := range h.voice.said {
		if !s.force {
			t.Errorf("%q was not forced", s.text)
		}
	}
	if h.s.Snapshot().Status != StatusActive {
		t.Fatal("not active after countdown")
	}
	if len(h.loc.subs) != 1 {
		t.Fatalf("watches = %d, want 1", len(h.loc.subs))
	}
	if h.s.Snapshot().ElapsedSeconds != 0 {
		t.Fatal("elapsed advanced during countdown")
	}
}

func TestElapsedTicksWhileActive(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)
	h.clock.Advance(65 * time.Second)
	snap := h.s.Snapshot()
	if snap.ElapsedSeconds != 65 {
		t.Fatalf("elapsed = %d, want 65", snap.ElapsedSeconds)
	}
	if snap.Duration != "1:05" {
		t.Fatalf("duration = %q", snap.Duration)
	}
	if snap.Pace != "-:--" {
		t.Fatalf("pace with no distance = %q", snap.Pace)
	}
}

func TestDistanceFromTwoFixes(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)

	h.loc.fix(0, 0, 10)
	h.loc.fix(0.0009, 0, 10)

	snap := h.s.Snapshot()
	if math.Abs(snap.DistanceMeters-100) > 1 {
		t.Fatalf("distance = %.2f, want ~100", snap.DistanceMeters)
	}
	if snap.RoutePoints != 2 {
		t.Fatalf("route points = %d, want 2", snap.RoutePoints)
	}
}

func TestNoiseFloorDiscardsJitter(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)

	// Roughly 0.9 m apart, alternating.
	for i := 0; i < 20; i++ {
		lat := 0.0
		if i%2 == 1 {
			lat = 0.000008
		}
		h.loc.fix(lat, 0, 5)
	}

	snap := h.s.Snapshot()
	if snap.DistanceMeters != 0 {
		t.Fatalf("distance = %v, want 0", snap.DistanceMeters)
	}
	if snap.RoutePoints != 20 {
		t.Fatalf("route points = %d, want 20", snap.RoutePoints)
	}
}

func TestNoiseFloorKeepsAnchorUntilMovement(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)

	// Creeping 1.1 m at a time: each step alone is below the floor but the
	// anchor only moves once the total clears it.
	for i := 0; i < 5; i++ {
		h.loc.fix(float64(i)*0.00001, 0, 5)
	}
	d := h.s.Snapshot().DistanceMeters
	if d < 2 || d > 5 {
		t.Fatalf("distance = %.2f, want creep to be partly counted", d)
	}
}

func TestLowAccuracyFixRejected(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)

	h.loc.fix(0, 0, 10)
	h.loc.fix(0.01, 0, 75)

	snap := h.s.Snapshot()
	if snap.RoutePoints != 1 || snap.DistanceMeters != 0 {
		t.Fatalf("points=%d distance=%v after inaccurate fix", snap.RoutePoints, snap.DistanceMeters)
	}
	if !snap.HasAccuracy || snap.Accuracy != 75 {
		t.Fatalf("accuracy = %v, want 75 shown", snap.Accuracy)
	}
}

func TestNonFiniteFixRejected(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)

	h.loc.fix(math.Inf(1), 0, 5)
	h.loc.fix(0, math.NaN(), 5)
	h.loc.fix(91, 0, 5)
	h.loc.fix(0, -180.5, 5)
	if n := h.s.Snapshot().RoutePoints; n != 0 {
		t.Fatalf("route points = %d after invalid fixes, want 0", n)
	}

	h.loc.fix(0, 0, 5)
	h.loc.fix(0.001, 0, 5)
	snap := h.s.Snapshot()
	if snap.RoutePoints != 2 || math.Abs(snap.DistanceMeters-111.19) > 0.5 {
		t.Fatalf("points=%d distance=%.2f, want 2 points ~111 m", snap.RoutePoints, snap.DistanceMeters)
	}
}

func TestTimeAnnouncementFiresOnce(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)

	h.clock.Advance(299 * time.Second)
	if n := h.voice.count("Time check"); n != 0 {
		t.Fatalf("announced %d times before minute 5", n)
	}
	h.clock.Advance(59 * time.Second)
	if n := h.voice.count("Time check"); n != 1 {
		t.Fatalf("announced %d times during minute 5, want 1", n)
	}
	texts := h.voice.texts()
	last := texts[len(texts)-1]
	if last != "Time check. 5 minutes elapsed. Distance: 0.00 kilometers." {
		t.Fatalf("message = %q", last)
	}
	h.clock.Advance(5 * time.Minute)
	if n := h.voice.count("Time check"); n != 2 {
		t.Fatalf("announced %d times by minute 10, want 2", n)
	}
}

func TestKilometerAnnouncement(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)
	h.clock.Advance(4 * time.Minute)

	h.loc.fix(0, 0, 5)
	h.loc.fix(0.0091, 0, 5) // ~1012 m
	h.loc.fix(0.0092, 0, 5)

	if n := h.voice.count("You have exercised"); n != 1 {
		t.Fatalf("km announcements = %d, want 1", n)
	}
	texts := h.voice.texts()
	if got := texts[len(texts)-1]; got != "You have exercised for 1 kilometer in 4 minutes." {
		t.Fatalf("message = %q", got)
	}
}

func TestNoAnnouncementsWhenVoiceDisabled(t *testing.T) {
	h := newHarness(t, func(p *models.WorkoutParams) { p.Voice.Enabled = false })
	h.active(t)
	h.loc.fix(0, 0, 5)
	h.loc.fix(0.02, 0, 5)
	h.clock.Advance(10 * time.Minute)

	if n := len(h.voice.texts()); n != 4 {
		t.Fatalf("spoken %v, want countdown only", h.voice.texts())
	}
}

func TestPauseStopsTimerAndDropsFixes(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)
	h.clock.Advance(10 * time.Second)
	h.loc.fix(0, 0, 5)

	if err := h.s.Pause(); err != nil {
		t.Fatal(err)
	}
	if h.loc.subs[0].cancelled == 0 {
		t.Fatal("subscription not cancelled on pause")
	}
	if h.clock.Active() != 0 {
		t.Fatalf("timers running while paused: %d", h.clock.Active())
	}

	h.clock.Advance(30 * time.Second)
	h.loc.onFix[0](location.Fix{Latitude: 0.01, Longitude: 0, Accuracy: 5})

	snap := h.s.Snapshot()
	if snap.ElapsedSeconds != 10 || snap.RoutePoints != 1 || snap.DistanceMeters != 0 {
		t.Fatalf("paused session changed: %+v", snap)
	}

	if err := h.s.Resume(); err != nil {
		t.Fatal(err)
	}
	if len(h.loc.subs) != 2 {
		t.Fatal("resume did not watch again")
	}
	h.clock.Advance(5 * time.Second)
	h.loc.fix(0.0009, 0, 5)
	snap = h.s.Snapshot()
	if snap.ElapsedSeconds != 15 {
		t.Fatalf("elapsed = %d, want 15", snap.ElapsedSeconds)
	}
	if math.Abs(snap.DistanceMeters-100) > 1 {
		t.Fatalf("distance after resume = %.2f", snap.DistanceMeters)
	}
}

func TestInvalidTransitions(t *testing.T) {
	h := newHarness(t, nil)

	if err := h.s.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Pause from idle: %v", err)
	}
	if err := h.s.Resume(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Resume from idle: %v", err)
	}
	if _, err := h.s.Finish(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Finish from idle: %v", err)
	}
	if err := h.s.SetName("x"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SetName from idle: %v", err)
	}

	h.active(t)
	if err := h.s.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Start from active: %v", err)
	}
	if err := h.s.Resume(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Resume from active: %v", err)
	}
	if _, err := h.s.Save(context.Background(), &fakeStore{}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Save from active: %v", err)
	}
	if _, err := h.s.Finish(); err != nil {
		t.Fatal(err)
	}
	if _, err := h.s.Finish(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Finish twice: %v", err)
	}
	if err := h.s.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Pause from finished: %v", err)
	}
}

func TestFinishFromPaused(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)
	h.clock.Advance(42 * time.Second)
	if err := h.s.Pause(); err != nil {
		t.Fatal(err)
	}
	sum, err := h.s.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if sum.ElapsedSeconds != 42 {
		t.Fatalf("summary elapsed = %d", sum.ElapsedSeconds)
	}
}

func TestLateCallbacksAfterFinishAreIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)
	h.loc.fix(0, 0, 5)
	h.clock.Advance(20 * time.Second)

	if _, err := h.s.Finish(); err != nil {
		t.Fatal(err)
	}
	before := h.s.Snapshot()

	h.loc.fix(0.01, 0, 5)
	h.loc.onErr[0](location.ErrSignalLost)
	h.clock.Advance(time.Minute)

	after := h.s.Snapshot()
	if after.ElapsedSeconds != before.ElapsedSeconds || after.RoutePoints != before.RoutePoints ||
		after.DistanceMeters != before.DistanceMeters || after.GPSError != nil {
		t.Fatalf("late callback changed state: before=%+v after=%+v", before, after)
	}
	if h.clock.Active() != 0 {
		t.Fatal("timer still running after finish")
	}
}

func TestSaveStationaryWorkout(t *testing.T) {
	h := newHarness(t, func(p *models.WorkoutParams) { p.GoalMeters = 0 })
	h.active(t)
	h.clock.Advance(600 * time.Second)
	if _, err := h.s.Finish(); err != nil {
		t.Fatal(err)
	}

	store := &fakeStore{}
	rec, err := h.s.Save(context.Background(), store)
	if err != nil {
		t.Fatal(err)
	}
	if rec.DurationMinutes != 10 || rec.Calories != 50 {
		t.Fatalf("duration=%d calories=%d, want 10 and 50", rec.DurationMinutes, rec.Calories)
	}
	if rec.Name != "Outdoor Running" {
		t.Fatalf("name = %q", rec.Name)
	}
	if rec.Subtype != "running" || rec.Type != models.TypeCardio {
		t.Fatalf("type=%s subtype=%s", rec.Type, rec.Subtype)
	}
	if rec.ID == "" || rec.Date != utils.DayOf(h.clock.Now()) {
		t.Fatalf("id=%q date=%q", rec.ID, rec.Date)
	}
	if len(store.added) != 1 {
		t.Fatalf("store got %d records", len(store.added))
	}
	if _, err := h.s.Save(context.Background(), store); !errors.Is(err, ErrAlreadySaved) {
		t.Fatalf("second save: %v", err)
	}
	if len(store.added) != 1 {
		t.Fatal("duplicate record written")
	}
}

func TestSaveDistanceCalories(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)
	h.loc.fix(0, 0, 5)
	// 1200 m north in 0.0001 degree steps of ~11 m.
	for i := 1; i <= 108; i++ {
		h.loc.fix(float64(i)*0.0001, 0, 5)
	}
	h.clock.Advance(600 * time.Second)
	if _, err := h.s.Finish(); err != nil {
		t.Fatal(err)
	}
	if err := h.s.SetName("Sunday long run"); err != nil {
		t.Fatal(err)
	}

	rec, err := h.s.Save(context.Background(), &fakeStore{})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Calories != 72 {
		t.Fatalf("calories = %d (distance %.1f), want 72", rec.Calories, rec.DistanceMeters)
	}
	if rec.Name != "Sunday long run" {
		t.Fatalf("name = %q", rec.Name)
	}
	if len(rec.Route) != 109 {
		t.Fatalf("route = %d points", len(rec.Route))
	}
}

func TestSaveFailureAllowsRetry(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)
	h.clock.Advance(90 * time.Second)
	if _, err := h.s.Finish(); err != nil {
		t.Fatal(err)
	}

	store := &fakeStore{err: errors.New("disk full")}
	if _, err := h.s.Save(context.Background(), store); !errors.Is(err, ErrStoreWriteFailed) {
		t.Fatalf("err = %v, want ErrStoreWriteFailed", err)
	}
	if h.s.Snapshot().Saved {
		t.Fatal("marked saved after failure")
	}

	store.err = nil
	rec, err := h.s.Save(context.Background(), store)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if rec.DurationMinutes != 2 {
		t.Fatalf("duration = %d, want 2", rec.DurationMinutes)
	}
}

func TestAbandonDiscards(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)
	h.clock.Advance(30 * time.Second)
	h.s.Abandon()

	snap := h.s.Snapshot()
	if snap.Status != StatusFinished || !snap.Discarded {
		t.Fatalf("after abandon: %+v", snap)
	}
	if h.clock.Active() != 0 || h.loc.subs[0].cancelled == 0 {
		t.Fatal("resources not released")
	}
	if _, err := h.s.Save(context.Background(), &fakeStore{}); !errors.Is(err, ErrDiscarded) {
		t.Fatalf("save after abandon: %v", err)
	}
}

func TestAbandonDuringCountdown(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.s.Start(); err != nil {
		t.Fatal(err)
	}
	h.clock.Advance(time.Second)
	h.s.Abandon()
	h.clock.Advance(5 * time.Second)

	if got := h.voice.texts(); len(got) != 2 {
		t.Fatalf("spoken after abandon: %v", got)
	}
	if len(h.loc.subs) != 0 {
		t.Fatal("watched location after abandoning countdown")
	}
}

func TestCloseKeepsFinishedWorkoutSaveable(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)
	if _, err := h.s.Finish(); err != nil {
		t.Fatal(err)
	}
	h.s.Close()
	if _, err := h.s.Save(context.Background(), &fakeStore{}); err != nil {
		t.Fatalf("save after close: %v", err)
	}
}

func TestLocationErrors(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)

	h.loc.onErr[0](errors.New("timeout"))
	snap := h.s.Snapshot()
	if !errors.Is(snap.GPSError, ErrLocationSignalLost) {
		t.Fatalf("gps error = %v", snap.GPSError)
	}
	if snap.GPSErrorText != "GPS signal lost or permission denied" {
		t.Fatalf("text = %q", snap.GPSErrorText)
	}

	h.loc.fix(0, 0, 5)
	if h.s.Snapshot().GPSError != nil {
		t.Fatal("accepted fix did not clear the gps error")
	}

	h.clock.Advance(3 * time.Second)
	if h.s.Snapshot().ElapsedSeconds != 3 {
		t.Fatal("timer stopped by location error")
	}
}

func TestNoLocationProvider(t *testing.T) {
	s, err := New(models.WorkoutParams{Voice: models.DefaultVoiceSettings()}, Deps{Clock: clock.NewManual(epoch)})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	c := s.clock.(*clock.Manual)
	c.Advance(10 * time.Second)

	snap := s.Snapshot()
	if !errors.Is(snap.GPSError, ErrLocationUnavailable) {
		t.Fatalf("gps error = %v", snap.GPSError)
	}
	if snap.GPSErrorText != "Geolocation is not supported on this device" {
		t.Fatalf("text = %q", snap.GPSErrorText)
	}
	if snap.ElapsedSeconds != 7 {
		t.Fatalf("elapsed = %d, want 7", snap.ElapsedSeconds)
	}
}

func TestWatchFailureKeepsTimer(t *testing.T) {
	h := newHarness(t, nil)
	h.loc.err = location.ErrPermissionDenied
	h.active(t)
	h.clock.Advance(2 * time.Second)

	snap := h.s.Snapshot()
	if !errors.Is(snap.GPSError, ErrLocationPermissionDenied) || snap.ElapsedSeconds != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestResumeDoesNotBlockSnapshotWhileConnecting(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)
	if err := h.s.Pause(); err != nil {
		t.Fatal(err)
	}

	h.loc.connecting = make(chan struct{})
	h.loc.release = make(chan struct{})
	done := make(chan error)
	go func() { done <- h.s.Resume() }()
	<-h.loc.connecting

	snap := make(chan Snapshot)
	go func() { snap <- h.s.Snapshot() }()
	select {
	case got := <-snap:
		if got.Status != StatusActive {
			t.Fatalf("status = %s, want active", got.Status)
		}
	case <-time.After(time.Second):
		t.Fatal("Snapshot blocked while the provider was connecting")
	}

	close(h.loc.release)
	if err := <-done; err != nil {
		t.Fatalf("Resume: %v", err)
	}
	h.loc.fix(0, 0, 5)
	if n := h.s.Snapshot().RoutePoints; n != 1 {
		t.Fatalf("route points = %d, want 1", n)
	}
}

func TestSubscriptionOpenedAfterPauseIsCancelled(t *testing.T) {
	h := newHarness(t, nil)
	h.active(t)
	if err := h.s.Pause(); err != nil {
		t.Fatal(err)
	}

	h.loc.connecting = make(chan struct{})
	h.loc.release = make(chan struct{})
	done := make(chan error)
	go func() { done <- h.s.Resume() }()
	<-h.loc.connecting

	if err := h.s.Pause(); err != nil {
		t.Fatalf("Pause while connecting: %v", err)
	}
	close(h.loc.release)
	if err := <-done; err != nil {
		t.Fatalf("Resume: %v", err)
	}

	last := h.loc.subs[len(h.loc.subs)-1]
	if last.cancelled != 1 {
		t.Fatalf("late subscription cancelled %d times, want 1", last.cancelled)
	}
	h.loc.fix(0, 0, 5)
	if n := h.s.Snapshot().RoutePoints; n != 0 {
		t.Fatalf("route points = %d while paused, want 0", n)
	}
}

func TestGoalProgress(t *testing.T) {
	cases := []struct {
		dist, goal float64
		want       int
	}{
		{0, 5000, 0},
		{2500, 5000, 50},
		{4990, 5000, 100},
		{7000, 5000, 100},
		{1234, 0, 0},
	}
	for _, c := range cases {
		if got := GoalProgress(c.dist, c.goal); got != c.want {
			t.Errorf("GoalProgress(%v, %v) = %d, want %d", c.dist, c.goal, got, c.want)
		}
	}

	h := newHarness(t, func(p *models.WorkoutParams) { p.GoalMeters = 0 })
	if h.s.Snapshot().HasGoal {
		t.Fatal("zero goal reported as a goal")
	}
}

func TestUpdatesSignalled(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.s.Start(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-h.s.Updates():
	default:
		t.Fatal("no update after Start")
	}
}
