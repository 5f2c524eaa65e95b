package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/stride/internal/clock"
	"github.com/misterclayt0n/stride/internal/location"
	"github.com/misterclayt0n/stride/internal/models"
	"github.com/misterclayt0n/stride/internal/storage"
	"github.com/misterclayt0n/stride/internal/tui"
	"github.com/misterclayt0n/stride/internal/utils"
	"github.com/misterclayt0n/stride/internal/voice"
	"github.com/misterclayt0n/stride/internal/workout"
)

var (
	trackMode   string
	trackGoal   string
	trackName   string
	trackVoice  bool
	trackMute   bool
	trackGender string
	trackEvery  int
	trackGPX    string
	trackSpeed  float64
	trackGPSD   string
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track a GPS workout live in the terminal",
	Long: `Starts a 3-2-1 countdown, then tracks time, distance and pace from gpsd
(or a GPX file replay) until the workout is finished or discarded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if utils.PendingWorkoutExists() {
			return fmt.Errorf("A finished workout is still pending. Run `stride end-workout` to save it or `stride cancel-workout` to discard it")
		}

		return withStorage(func(a *app, st *storage.Storage) error {
			params, err := trackParams(cmd, a)
			if err != nil {
				return err
			}

			provider, err := trackProvider(a)
			if err != nil {
				return err
			}

			calories, err := workout.ParseCalorieModel(a.cfg.Workout.CalorieModel)
			if err != nil {
				return err
			}

			var speaker voice.Speaker
			speaker, err = voice.NewExecSpeaker(a.cfg.Voice.Command, a.log)
			if err != nil {
				if !errors.Is(err, voice.ErrNoSpeechEngine) {
					return err
				}
				a.log.Warn("speech disabled", "error", err)
				speaker = voice.NopSpeaker{}
			}
			announcer := voice.NewAnnouncer(speaker, params.Voice, a.log)
			defer announcer.Stop()

			watch := location.DefaultWatchOptions()
			watch.Timeout = a.cfg.Location.FirstFixTimeout.Duration

			session, err := workout.New(params, workout.Deps{
				Clock:     clock.System{},
				Location:  provider,
				Watch:     watch,
				Announcer: announcer,
				Calories:  calories,
				Logger:    a.log,
			})
			if err != nil {
				return err
			}
			defer session.Close()

			if err := session.Start(); err != nil {
				return err
			}

			final, err := tea.NewProgram(tui.New(session, st)).Run()
			if err != nil {
				session.Abandon()
				return fmt.Errorf("Failed to run tracker: %w", err)
			}

			return reportTrackResult(final.(tui.Model).Result())
		})
	},
}

func trackParams(cmd *cobra.Command, a *app) (models.WorkoutParams, error) {
	modeName := trackMode
	if modeName == "" {
		modeName = a.cfg.Workout.DefaultMode
	}
	mode, err := models.LookupMode(modeName)
	if err != nil {
		return models.WorkoutParams{}, err
	}

	goal := mode.DefaultGoalKm * 1000
	if cmd.Flags().Changed("goal") {
		if goal, err = models.ResolveGoal(trackGoal, mode.DefaultGoalKm); err != nil {
			return models.WorkoutParams{}, err
		}
	}

	settings := a.cfg.VoiceSettings()
	if cmd.Flags().Changed("voice") {
		settings.Enabled = trackVoice
	}
	if trackMute {
		settings.Enabled = false
	}
	if trackGender != "" {
		if settings.Gender, err = models.ParseGender(trackGender); err != nil {
			return models.WorkoutParams{}, err
		}
	}
	if cmd.Flags().Changed("every") {
		settings.AnnounceEveryMinutes = trackEvery
	}

	params := models.WorkoutParams{
		Mode:         mode.Mode,
		ExerciseType: models.TypeCardio,
		GoalMeters:   goal,
		Label:        mode.Label,
		Name:         strings.TrimSpace(trackName),
		Voice:        settings,
	}
	return params, params.Validate()
}

func trackProvider(a *app) (location.Provider, error) {
	if trackGPX != "" {
		points, err := loadTrack(trackGPX)
		if err != nil {
			return nil, err
		}
		return location.NewReplay(points, trackSpeed, a.log), nil
	}

	addr := trackGPSD
	if addr == "" {
		addr = a.cfg.Location.GPSDAddr
	}
	return location.NewGPSD(addr, a.log), nil
}

func loadTrack(path string) ([]location.TrackPoint, error) {
	points, err := location.LoadGPX(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to load GPX track %s: %w", path, err)
	}
	return points, nil
}

func everyChoices() string {
	parts := make([]string, len(models.AnnounceChoices))
	for i, n := range models.AnnounceChoices {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func reportTrackResult(res tui.Result) error {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	switch res.Outcome {
	case tui.OutcomeSaved:
		ex := res.Exercise
		fmt.Printf("✅ Saved %s\n", green(ex.Name))
		fmt.Printf("   %.2f km in %d min, %d kcal\n", ex.DistanceMeters/1000, ex.DurationMinutes, ex.Calories)
	case tui.OutcomePending:
		sum := res.Summary
		if err := utils.SavePendingWorkout(&sum); err != nil {
			return fmt.Errorf("Failed to keep workout for later: %w", err)
		}
		fmt.Printf("%s %s is pending (%.2f km, %s)\n", yellow("⏸"), sum.DisplayName(),
			sum.DistanceMeters/1000, utils.FormatDuration(sum.ElapsedSeconds))
		fmt.Println("   Run `stride end-workout` to save it or `stride cancel-workout` to discard it.")
	default:
		fmt.Println("Workout discarded")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.Flags().StringVarP(&trackMode, "mode", "m", "", "Workout mode: running, cycling, walking or hiking")
	trackCmd.Flags().StringVarP(&trackGoal, "goal", "g", "", "Distance goal in km (e.g. 5, 5km, half, marathon, none), or +N/-N to adjust the mode's default")
	trackCmd.Flags().StringVarP(&trackName, "name", "n", "", "Workout name (defaults to the mode label)")
	trackCmd.Flags().BoolVar(&trackVoice, "voice", true, "Enable voice announcements")
	trackCmd.Flags().BoolVar(&trackMute, "mute", false, "Disable voice announcements (the countdown is still spoken)")
	trackCmd.Flags().StringVar(&trackGender, "gender", "", "Voice gender: female or male")
	trackCmd.Flags().IntVar(&trackEvery, "every", 5, "Announce time every N minutes (usually "+everyChoices()+")")
	trackCmd.Flags().StringVar(&trackGPX, "gpx", "", "Replay a GPX track instead of reading gpsd")
	trackCmd.Flags().Float64Var(&trackSpeed, "speed", 1, "Replay speed factor for --gpx")
	trackCmd.Flags().StringVar(&trackGPSD, "gpsd", "", "gpsd address (host:port)")
}
