package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lazypower/keepsharp/internal/analytics"
	"github.com/lazypower/keepsharp/internal/model"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage tracked skills",
}

var (
	skillCategory string
	skillDecay    float64
	skillTarget   int
	skillNotes    string
	skillName     string
	skillArchived bool
	skillRestore  bool
)

var skillAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a skill",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEngine, err := openEngine(cmd.Context(), cliLogger())
		if err != nil {
			return err
		}
		defer closeEngine()

		in := model.SkillInput{
			Name:     strings.Join(args, " "),
			Category: skillCategory,
			Notes:    skillNotes,
		}
		if cmd.Flags().Changed("decay") {
			in.DecayRate = &skillDecay
		}
		if cmd.Flags().Changed("target") {
			in.TargetFrequencyDays = &skillTarget
		}

		s, err := eng.CreateSkill(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s [%s] every %d days (id %s)\n", s.Name, s.Category, s.TargetFrequencyDays, s.ID)
		return nil
	},
}

var skillListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List skills with their health",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEngine, err := openEngine(cmd.Context(), cliLogger())
		if err != nil {
			return err
		}
		defer closeEngine()

		out := cmd.OutOrStdout()
		if skillArchived {
			skills, err := eng.ArchivedSkills(cmd.Context())
			if err != nil {
				return err
			}
			if len(skills) == 0 {
				fmt.Fprintln(out, "No archived skills.")
				return nil
			}
			for _, s := range skills {
				fmt.Fprintf(out, "%s  %s [%s]\n", s.ID, s.Name, s.Category)
			}
			return nil
		}

		skills, err := eng.SkillsWithHealth(cmd.Context())
		if err != nil {
			return err
		}
		if len(skills) == 0 {
			fmt.Fprintln(out, "No skills yet. Add one with: keepsharp skill add <name>")
			return nil
		}
		printSkills(out, skills)
		return nil
	},
}

func printSkills(out io.Writer, skills []analytics.SkillWithStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tHEALTH\tLAST\tTARGET\tSESSIONS\tMINUTES")
	for _, s := range skills {
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\t%dd\t%d\t%d\n",
			s.Icon, s.Name, s.CategoryName, s.Status, daysAgo(s.DaysSince),
			s.TargetFrequencyDays, s.TotalSessions, s.TotalMinutes)
	}
	w.Flush()
}

func daysAgo(days *int) string {
	switch {
	case days == nil:
		return "never"
	case *days == 0:
		return "today"
	case *days == 1:
		return "yesterday"
	default:
		return fmt.Sprintf("%dd ago", *days)
	}
}

var skillEditCmd = &cobra.Command{
	Use:   "edit <skill>",
	Short: "Change a skill; only the flags you pass are updated",
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

		var patch model.SkillPatch
		flags := cmd.Flags()
		if flags.Changed("name") {
			patch.Name = &skillName
		}
		if flags.Changed("category") {
			patch.Category = &skillCategory
		}
		if flags.Changed("decay") {
			patch.DecayRate = &skillDecay
		}
		if flags.Changed("target") {
			patch.TargetFrequencyDays = &skillTarget
		}
		if flags.Changed("notes") {
			patch.Notes = &skillNotes
		}

		updated, err := eng.UpdateSkill(cmd.Context(), s.ID, patch)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", updated.Name)
		return nil
	},
}

var skillArchiveCmd = &cobra.Command{
	Use:   "archive <skill>",
	Short: "Archive a skill, or bring it back with --restore",
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
		archived := !skillRestore
		if _, err := eng.UpdateSkill(cmd.Context(), s.ID, model.SkillPatch{Archived: &archived}); err != nil {
			return err
		}
		if archived {
			fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", s.Name)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", s.Name)
		}
		return nil
	},
}

var skillRmCmd = &cobra.Command{
	Use:   "rm <skill>",
	Short: "Delete a skill and all of its practice logs",
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
		if err := eng.DeleteSkill(cmd.Context(), s.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", s.Name)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{skillAddCmd, skillEditCmd} {
		c.Flags().StringVarP(&skillCategory, "category", "c", "", "category id (programming, language, music, ...)")
		c.Flags().Float64Var(&skillDecay, "decay", model.DefaultDecayRate, "decay rate multiplier")
		c.Flags().IntVarP(&skillTarget, "target", "t", model.DefaultTargetFrequencyDays, "target days between sessions")
		c.Flags().StringVar(&skillNotes, "notes", "", "free-form notes")
	}
	skillEditCmd.Flags().StringVar(&skillName, "name", "", "new name")
	skillListCmd.Flags().BoolVar(&skillArchived, "archived", false, "list archived skills instead")
	skillArchiveCmd.Flags().BoolVar(&skillRestore, "restore", false, "unarchive the skill")

	skillCmd.AddCommand(skillAddCmd)
	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillEditCmd)
	skillCmd.AddCommand(skillArchiveCmd)
	skillCmd.AddCommand(skillRmCmd)
}
