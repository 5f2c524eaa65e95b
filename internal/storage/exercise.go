package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/misterclayt0n/stride/internal/models"
	"github.com/misterclayt0n/stride/internal/utils"
)

const exerciseColumns = `id, name, type, subtype, duration, calories, distance, date, timestamp, notes`

// Add persists an exercise and its route. Missing ids, dates and timestamps
// are filled in.
func (s *Storage) Add(ctx context.Context, ex models.Exercise) error {
	if err := validateExercise(ex); err != nil {
		return err
	}
	if ex.ID == "" {
		ex.ID = uuid.New().String()
	}
	now := time.Now()
	if ex.Timestamp == 0 {
		ex.Timestamp = now.UnixMilli()
	}
	if ex.Date == "" {
		ex.Date = utils.DayOf(time.UnixMilli(ex.Timestamp))
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", ErrWriteFailed, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO exercises (`+exerciseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.ID,
		ex.Name,
		string(ex.Type),
		nullString(ex.Subtype),
		ex.DurationMinutes,
		ex.Calories,
		ex.DistanceMeters,
		ex.Date,
		ex.Timestamp,
		nullString(ex.Notes),
	)
	if err != nil {
		return fmt.Errorf("%w: insert exercise: %w", ErrWriteFailed, err)
	}

	for i, p := range ex.Route {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO route_points (exercise_id, seq, lat, lng, timestamp) VALUES (?, ?, ?, ?, ?)`,
			ex.ID, i, p.Lat, p.Lng, p.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("%w: insert route point %d: %w", ErrWriteFailed, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrWriteFailed, err)
	}

	s.logger.Info("exercise saved", "id", ex.ID, "name", ex.Name, "points", len(ex.Route))
	return nil
}

// Delete removes an exercise and its route.
func (s *Storage) Delete(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", ErrWriteFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM route_points WHERE exercise_id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete route: %w", ErrWriteFailed, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete exercise: %w", ErrWriteFailed, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrWriteFailed, err)
	}
	s.logger.Info("exercise deleted", "id", id)
	return nil
}

// Get loads a single exercise including its route.
func (s *Storage) Get(ctx context.Context, id string) (*models.Exercise, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id)
	ex, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to load exercise %s: %w", id, err)
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT lat, lng, timestamp FROM route_points WHERE exercise_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("Failed to load route: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.RoutePoint
		if err := rows.Scan(&p.Lat, &p.Lng, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("Failed to scan route point: %w", err)
		}
		ex.Route = append(ex.Route, p)
	}
	return &ex, rows.Err()
}

// List returns the most recent exercises first. A limit <= 0 returns all.
func (s *Storage) List(ctx context.Context, limit int) ([]models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises ORDER BY timestamp DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// ListByDate returns the exercises logged on a YYYY-MM-DD day, newest first.
func (s *Storage) ListByDate(ctx context.Context, date string) ([]models.Exercise, error) {
	return s.query(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE date = ? ORDER BY timestamp DESC`, date)
}

func (s *Storage) DailyStats(ctx context.Context, date string) (models.DailyStats, error) {
	st := models.DailyStats{Date: date}
	err := s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(calories), 0), COALESCE(SUM(duration), 0), COUNT(*), COALESCE(SUM(distance), 0)
		FROM exercises WHERE date = ?`, date,
	).Scan(&st.Calories, &st.Duration, &st.Count, &st.DistanceMeters)
	if err != nil {
		return st, fmt.Errorf("Failed to compute stats for %s: %w", date, err)
	}
	return st, nil
}

// ModeTotals sums the distance in km covered per workout mode. Records
// without a recognised subtype are matched by name.
func (s *Storage) ModeTotals(ctx context.Context) (map[models.Mode]float64, error) {
	exercises, err := s.query(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE distance > 0`)
	if err != nil {
		return nil, err
	}

	totals := make(map[models.Mode]float64, len(models.Modes))
	for _, m := range models.Modes {
		totals[m.Mode] = 0
	}
	for _, ex := range exercises {
		if mode, ok := modeOf(ex); ok {
			totals[mode] += ex.DistanceMeters / 1000
		}
	}
	return totals, nil
}

func modeOf(ex models.Exercise) (models.Mode, bool) {
	if m, err := models.LookupMode(ex.Subtype); err == nil {
		return m.Mode, true
	}
	name := strings.ToLower(ex.Name)
	switch {
	case strings.Contains(name, "run"):
		return models.ModeRunning, true
	case strings.Contains(name, "cycl"), strings.Contains(name, "bike"):
		return models.ModeCycling, true
	case strings.Contains(name, "walk"):
		return models.ModeWalking, true
	case strings.Contains(name, "hik"):
		return models.ModeHiking, true
	}
	return "", false
}

const (
	CalorieGoal  = 500
	DurationGoal = 60
)

// Notifications derives the day's feed from its stats and recent exercises,
// newest first.
func Notifications(stats models.DailyStats, recent []models.Exercise, now time.Time) []models.Notification {
	var list []models.Notification

	if stats.Calories >= CalorieGoal {
		list = append(list, models.Notification{
			ID:        "goal-cal",
			Title:     "Goal Reached!",
			Message:   fmt.Sprintf("You've burned %d kcal today! Target was %d.", stats.Calories, CalorieGoal),
			Kind:      models.NotifyGoal,
			Timestamp: now.Add(-30 * time.Minute).UnixMilli(),
		})
	}
	if stats.Duration >= DurationGoal {
		list = append(list, models.Notification{
			ID:        "goal-dur",
			Title:     "Daily Goal Met",
			Message:   fmt.Sprintf("You've completed %d minutes of activity today. Keep it up!", stats.Duration),
			Kind:      models.NotifyGoal,
			Timestamp: now.Add(-time.Hour).UnixMilli(),
		})
	}

	for i, ex := range recent {
		dist := "N/A"
		if ex.DistanceMeters > 0 {
			dist = fmt.Sprintf("%.2fkm", ex.DistanceMeters/1000)
		}
		list = append(list, models.Notification{
			ID:        "workout-" + ex.ID,
			Title:     "Workout Broadcast: " + ex.Name,
			Message:   fmt.Sprintf("Total distance: %s. Duration: %dmin. Calories: %dkcal.", dist, ex.DurationMinutes, ex.Calories),
			Kind:      models.NotifyWorkout,
			Timestamp: ex.Timestamp,
			Read:      i > 0,
		})
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp > list[j].Timestamp })
	return list
}

func (s *Storage) query(ctx context.Context, query string, args ...any) ([]models.Exercise, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Failed to query exercises: %w", err)
	}
	defer rows.Close()

	var out []models.Exercise
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("Failed to scan exercise: %w", err)
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExercise(r scanner) (models.Exercise, error) {
	var (
		ex       models.Exercise
		typ      string
		subtype  sql.NullString
		distance sql.NullFloat64
		notes    sql.NullString
	)
	err := r.Scan(
		&ex.ID,
		&ex.Name,
		&typ,
		&subtype,
		&ex.DurationMinutes,
		&ex.Calories,
		&distance,
		&ex.Date,
		&ex.Timestamp,
		&notes,
	)
	if err != nil {
		return ex, err
	}
	ex.Type = models.ExerciseType(typ)
	ex.Subtype = subtype.String
	ex.DistanceMeters = distance.Float64
	ex.Notes = notes.String
	return ex, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
