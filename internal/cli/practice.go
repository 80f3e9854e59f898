package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/keepsharp/internal/analytics"
	"github.com/lazypower/keepsharp/internal/model"
)

var (
	practiceMinutes int
	practiceQuality int
	practiceNotes   string
	practiceAt      string

	historyDays     int
	historyArchived bool
)

var practiceCmd = &cobra.Command{
	Use:   "practice <skill>",
	Short: "Log a practice session",
	Long:  "Log a practice session against a skill, referenced by id or name.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEngine, err := openEngine(cmd.Context(), cliLogger())
		if err != nil {
			return err
		}
		defer closeEngine()

		s, err := eng.FindSkill(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		in := model.LogInput{Notes: practiceNotes}
		if cmd.Flags().Changed("minutes") {
			in.DurationMinutes = &practiceMinutes
		}
		if cmd.Flags().Changed("quality") {
			in.Quality = &practiceQuality
		}
		if practiceAt != "" {
			at, err := parseAt(practiceAt, time.Local)
			if err != nil {
				return err
			}
			in.PracticedAt = &at
		}

		l, err := eng.LogPractice(cmd.Context(), s.ID, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged %s on %s\n", s.Name, l.PracticedAt.Local().Format("Mon Jan 2 15:04"))
		return nil
	},
}

var atLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

// parseAt reads a practice time in loc. Date-only values mean midday so
// they land on the intended calendar day in nearby zones.
func parseAt(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range atLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			t = t.Add(12 * time.Hour)
		}
		return t, nil
	}
	return time.Time{}, &model.ValidationError{Field: "at", Reason: "want YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339"}
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the health summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEngine, err := openEngine(cmd.Context(), cliLogger())
		if err != nil {
			return err
		}
		defer closeEngine()

		d, err := eng.Dashboard(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Skills: %d   Streak: %d days   Practice days: %d\n", d.TotalSkills, d.CurrentStreak, d.TotalPracticeDays)
		if d.PracticedToday {
			fmt.Fprintln(out, "Practiced today.")
		} else {
			fmt.Fprintln(out, "Nothing logged today yet.")
		}

		fmt.Fprintln(out)
		for _, h := range analytics.AllHealth {
			fmt.Fprintf(out, "  %-10s %d\n", h, d.HealthBreakdown[h])
		}

		if len(d.Decaying) > 0 {
			fmt.Fprintln(out, "\nDecaying:")
			printSkills(out, d.Decaying)
		}

		fmt.Fprintln(out, "\nLast 7 days:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, day := range d.WeeklyActivity {
			fmt.Fprintf(w, "  %s\t%d sessions\t%d min\n", day.Date, day.Sessions, day.TotalMinutes)
		}
		return w.Flush()
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List skills that need attention",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEngine, err := openEngine(cmd.Context(), cliLogger())
		if err != nil {
			return err
		}
		defer closeEngine()

		alerts, err := eng.Alerts(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(alerts) == 0 {
			fmt.Fprintln(out, "All skills are on track.")
			return nil
		}
		for _, a := range alerts {
			fmt.Fprintf(out, "[%s] %s %s\n", a.Severity, a.Icon, a.Message)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show daily practice and per-skill totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEngine, err := openEngine(cmd.Context(), cliLogger())
		if err != nil {
			return err
		}
		defer closeEngine()

		var opts []analytics.HistoryOption
		if historyArchived {
			opts = append(opts, analytics.IncludeArchived())
		}
		h, err := eng.History(cmd.Context(), historyDays, opts...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s to %s (%d days)\n\n", h.From, h.To, h.Days)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tSESSIONS\tSKILLS\tMINUTES\tQUALITY")
		for _, d := range h.Daily {
			if d.Sessions == 0 {
				continue
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1f\n", d.Date, d.Sessions, d.SkillsPracticed, d.TotalMinutes, d.AvgQuality)
		}
		w.Flush()

		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SKILL\tSESSIONS\tMINUTES\tHEALTH")
		for _, s := range h.Skills {
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", s.Name, s.Sessions, s.TotalMinutes, s.Health)
		}
		return w.Flush()
	},
}

func init() {
	practiceCmd.Flags().IntVarP(&practiceMinutes, "minutes", "m", 0, "session length in minutes")
	practiceCmd.Flags().IntVarP(&practiceQuality, "quality", "q", 0, "session quality, 1 to 5")
	practiceCmd.Flags().StringVarP(&practiceNotes, "notes", "n", "", "session notes")
	practiceCmd.Flags().StringVar(&practiceAt, "at", "", "when you practiced (default now)")

	historyCmd.Flags().IntVarP(&historyDays, "days", "d", analytics.DefaultHistoryDays, "window size in days")
	historyCmd.Flags().BoolVar(&historyArchived, "archived", false, "include archived skills")
}
