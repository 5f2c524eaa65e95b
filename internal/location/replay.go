package location

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Accuracy reported for track points without an hdop value.
const defaultReplayAccuracy = 5.0

type TrackPoint struct {
	Lat  float64
	Lng  float64
	Time time.Time
	HDOP float64
}

type gpxPoint struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Time string  `xml:"time"`
	HDOP float64 `xml:"hdop"`
}

type gpxFile struct {
	XMLName xml.Name `xml:"gpx"`
	Tracks  []struct {
		Segments []struct {
			Points []gpxPoint `xml:"trkpt"`
		} `xml:"trkseg"`
	} `xml:"trk"`
}

// LoadGPX reads every track point of every segment in file order.
func LoadGPX(path string) ([]TrackPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to read %s: %w", path, err)
	}
	return ParseGPX(data)
}

func ParseGPX(data []byte) ([]TrackPoint, error) {
	var doc gpxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("Failed to decode GPX: %w", err)
	}

	var points []TrackPoint
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				tp := TrackPoint{Lat: p.Lat, Lng: p.Lon, HDOP: p.HDOP}
				if p.Time != "" {
					tp.Time, _ = time.Parse(time.RFC3339, p.Time)
				}
				points = append(points, tp)
			}
		}
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("GPX has no track points")
	}
	return points, nil
}

// Replay plays a recorded track back as live fixes. Gaps between point
// timestamps are divided by Speed. Watching again after a Cancel continues
// from where the previous subscription stopped.
type Replay struct {
	Speed  float64
	Now    func() time.Time
	Logger hclog.Logger

	// Step is the gap used when neighbouring points lack timestamps.
	Step time.Duration

	mu     sync.Mutex
	points []TrackPoint
	next   int
}

func NewReplay(points []TrackPoint, speed float64, logger hclog.Logger) *Replay {
	if speed <= 0 {
		speed = 1
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Replay{
		Speed:  speed,
		Now:    time.Now,
		Logger: logger.Named("replay"),
		Step:   time.Second,
		points: points,
	}
}

func (r *Replay) Watch(_ WatchOptions, onFix func(Fix), onErr func(error)) (Subscription, error) {
	if len(r.points) == 0 {
		return nil, fmt.Errorf("%w: empty replay track", ErrUnavailable)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go r.play(ctx, onFix)
	return &replaySubscription{cancel: cancel}, nil
}

func (r *Replay) play(ctx context.Context, onFix func(Fix)) {
	for {
		r.mu.Lock()
		if r.next >= len(r.points) {
			r.mu.Unlock()
			r.Logger.Info("track finished", "points", len(r.points))
			return
		}
		i := r.next
		p := r.points[i]
		gap := r.gap(i)
		r.mu.Unlock()

		if gap > 0 {
			t := time.NewTimer(gap)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
		if ctx.Err() != nil {
			return
		}

		r.mu.Lock()
		r.next = i + 1
		r.mu.Unlock()

		acc := defaultReplayAccuracy
		if p.HDOP > 0 {
			acc = p.HDOP * 5
		}
		onFix(Fix{Latitude: p.Lat, Longitude: p.Lng, Accuracy: acc, Timestamp: r.Now()})
	}
}

// gap is the scaled wait before point i. Caller holds r.mu.
func (r *Replay) gap(i int) time.Duration {
	if i == 0 {
		return 0
	}
	prev, cur := r.points[i-1], r.points[i]
	d := r.Step
	if !prev.Time.IsZero() && !cur.Time.IsZero() && cur.Time.After(prev.Time) {
		d = cur.Time.Sub(prev.Time)
	}
	return time.Duration(float64(d) / r.Speed)
}

// Remaining reports how many points have not been delivered yet.
func (r *Replay) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.points) - r.next
}

type replaySubscription struct {
	cancel context.CancelFunc
}

func (s *replaySubscription) Cancel() {
	s.cancel()
}
