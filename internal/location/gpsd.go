package location

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
)

const DefaultGPSDAddr = "localhost:2947"

const watchCommand = `?WATCH={"enable":true,"json":true};` + "\n"

// GPSD streams fixes from a gpsd daemon over its JSON protocol.
type GPSD struct {
	Addr   string
	Dial   func(ctx context.Context, network, addr string) (net.Conn, error)
	Now    func() time.Time
	Logger hclog.Logger
}

func NewGPSD(addr string, logger hclog.Logger) *GPSD {
	if addr == "" {
		addr = DefaultGPSDAddr
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	d := &net.Dialer{Timeout: 3 * time.Second}
	return &GPSD{
		Addr:   addr,
		Dial:   d.DialContext,
		Now:    time.Now,
		Logger: logger.Named("gpsd"),
	}
}

func (g *GPSD) Watch(opts WatchOptions, onFix func(Fix), onErr func(error)) (Subscription, error) {
	ctx, cancel := context.WithCancel(context.Background())

	conn, err := g.Dial(ctx, "tcp", g.Addr)
	if err != nil {
		cancel()
		if errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EACCES) {
			return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return nil, fmt.Errorf("%w: dial gpsd at %s: %v", ErrUnavailable, g.Addr, err)
	}

	if _, err := conn.Write([]byte(watchCommand)); err != nil {
		cancel()
		conn.Close()
		return nil, fmt.Errorf("%w: enable gpsd watch: %v", ErrUnavailable, err)
	}

	sub := &gpsdSubscription{conn: conn, cancel: cancel}
	go g.read(ctx, conn, opts, onFix, onErr)
	g.Logger.Debug("watching", "addr", g.Addr, "timeout", opts.Timeout)
	return sub, nil
}

func (g *GPSD) read(ctx context.Context, conn net.Conn, opts WatchOptions, onFix func(Fix), onErr func(error)) {
	start := g.Now()
	lastFix := start
	r := bufio.NewReader(conn)
	var pending []byte

	for {
		if opts.Timeout > 0 {
			conn.SetReadDeadline(g.Now().Add(opts.Timeout))
		}
		chunk, err := r.ReadBytes('\n')
		pending = append(pending, chunk...)

		if ctx.Err() != nil {
			return
		}

		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				g.Logger.Debug("no fix before timeout", "timeout", opts.Timeout)
				onErr(ErrSignalLost)
				lastFix = g.Now()
				continue
			}
			g.Logger.Warn("gpsd stream closed", "error", err)
			onErr(fmt.Errorf("%w: %v", ErrSignalLost, err))
			return
		}

		line := pending
		pending = nil
		fix, ok, err := parseReport(line, start, g.Now(), opts)
		if err != nil {
			g.Logger.Warn("gpsd report", "error", err)
			onErr(err)
			continue
		}
		if ok {
			lastFix = g.Now()
			onFix(fix)
			continue
		}
		if opts.Timeout > 0 && g.Now().Sub(lastFix) > opts.Timeout {
			onErr(ErrSignalLost)
			lastFix = g.Now()
		}
	}
}

type gpsdSubscription struct {
	conn   net.Conn
	cancel context.CancelFunc
	once   sync.Once
}

func (s *gpsdSubscription) Cancel() {
	s.once.Do(func() {
		s.cancel()
		s.conn.Close()
	})
}

type gpsdReport struct {
	Class   string   `json:"class"`
	Mode    int      `json:"mode"`
	Time    string   `json:"time"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Eph     float64  `json:"eph"`
	Epx     float64  `json:"epx"`
	Epy     float64  `json:"epy"`
	Message string   `json:"message"`
}

// parseReport turns one gpsd JSON line into a Fix. ok is false for reports
// that carry no usable position (VERSION, SKY, TPV without a 2D fix, stale).
func parseReport(line []byte, watchStart, now time.Time, opts WatchOptions) (Fix, bool, error) {
	var rep gpsdReport
	if err := json.Unmarshal(line, &rep); err != nil {
		return Fix{}, false, nil
	}

	switch rep.Class {
	case "ERROR":
		return Fix{}, false, fmt.Errorf("%w: gpsd: %s", ErrSignalLost, rep.Message)
	case "TPV":
	default:
		return Fix{}, false, nil
	}

	if rep.Mode < 2 || rep.Lat == nil || rep.Lon == nil {
		return Fix{}, false, nil
	}

	ts := now
	if rep.Time != "" {
		if t, err := time.Parse(time.RFC3339Nano, rep.Time); err == nil {
			ts = t
		}
	}
	if opts.MaximumAge == 0 && ts.Before(watchStart.Add(-time.Second)) {
		return Fix{}, false, nil
	}
	if opts.MaximumAge > 0 && now.Sub(ts) > opts.MaximumAge {
		return Fix{}, false, nil
	}

	// gpsd without error estimates leaves accuracy at 0, which the session trusts.
	acc := rep.Eph
	if acc <= 0 {
		acc = max(rep.Epx, rep.Epy)
	}

	return Fix{
		Latitude:  *rep.Lat,
		Longitude: *rep.Lon,
		Accuracy:  acc,
		Timestamp: ts,
	}, true, nil
}
