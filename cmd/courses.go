package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/degreeaudit/internal/utils"
	"github.com/sw33tLie/degreeaudit/pkg/catalog"
	"github.com/sw33tLie/degreeaudit/pkg/degree"
	"github.com/sw33tLie/degreeaudit/pkg/storage"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List and edit the courses of the current account",
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the degree plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hidden, _ := cmd.Flags().GetBool("hidden")
		added, _ := cmd.Flags().GetBool("added")
		renamed, _ := cmd.Flags().GetBool("renamed")
		completed, _ := cmd.Flags().GetBool("completed")
		all, _ := cmd.Flags().GetBool("all")

		return withStore(func(db *storage.DB) error {
			acct, err := currentAccount(cmd.Context(), db)
			if err != nil {
				return err
			}

			var records []degree.Record
			switch {
			case hidden:
				records = acct.Hidden()
			case added:
				records = acct.Added()
			case renamed:
				records = acct.Renamed()
			case completed:
				records = acct.Completed()
			default:
				for _, r := range acct.Courses() {
					if all || !r.IsHidden {
						records = append(records, r)
					}
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  GPA %s  %s\n\n", acct.Name(), acct.GPA(), strings.Join(acct.Concentrations(), ", "))
			printRecords(out, records, acct.GPA())
			return nil
		})
	},
}

func printRecords(out io.Writer, records []degree.Record, gpa string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, r := range records {
		if r.IsHeader() {
			w.Flush()
			fmt.Fprintf(out, "\n== %s ==\n", r.DisplayName())
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Completion.Style().Glyph, r.DisplayCode(gpa), r.DisplayName(), r.Completion)
		if len(r.Options) > 0 {
			fmt.Fprintf(w, "\t\t  %s\t\n", strings.Join(r.Options, " | "))
		}
	}
	w.Flush()
}

// mutate runs fn against the current account under the store lock.
func mutate(cmd *cobra.Command, fn func(ctx context.Context, acct *degree.Account) error) error {
	return withLockedStore(func(db *storage.DB) error {
		acct, err := currentAccount(cmd.Context(), db)
		if err != nil {
			return err
		}
		return fn(cmd.Context(), acct)
	})
}

var coursesRenameCmd = &cobra.Command{
	Use:   "rename CODE NAME",
	Short: "Give a course your own name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func(ctx context.Context, acct *degree.Account) error {
			utils.Log.Infof("Renaming %s to %q", args[0], args[1])
			return acct.RenameCourse(ctx, args[0], args[1])
		})
	},
}

var coursesCodeCmd = &cobra.Command{
	Use:   "code CODE NEWCODE",
	Short: "Point a course at a different catalog code",
	Long: `Overrides the code a record is checked against. When the new code is in the
catalog the record also takes the catalog name and its state is refreshed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		code, newCode := args[0], args[1]
		return mutate(cmd, func(ctx context.Context, acct *degree.Account) error {
			course, ok := cat.Lookup(newCode)
			if !ok {
				if s := cat.Suggest(newCode, 3); len(s) > 0 {
					utils.Log.Warnf("%s is not in the catalog. Did you mean %s?", newCode, strings.Join(s, ", "))
				} else {
					utils.Log.Warnf("%s is not in the catalog", newCode)
				}
				return acct.RenameCourseCode(ctx, code, newCode)
			}
			if err := acct.RenameCourseCode(ctx, code, course.Code); err != nil {
				return err
			}
			if err := acct.RenameCourse(ctx, code, course.Name); err != nil {
				return err
			}
			return acct.RefreshCompletion(ctx, cat, code)
		})
	},
}

var coursesHideCmd = &cobra.Command{
	Use:   "hide CODE",
	Short: "Hide a course from the plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func(ctx context.Context, acct *degree.Account) error {
			return acct.HideCourse(ctx, args[0])
		})
	},
}

var coursesStateCmd = &cobra.Command{
	Use:   "state CODE STATE",
	Short: "Set a course's completion state (complete, in-progress, ready, missing)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := degree.ParseCompletion(args[1])
		if err != nil {
			return err
		}
		return mutate(cmd, func(ctx context.Context, acct *degree.Account) error {
			return acct.SetCourseState(ctx, args[0], state)
		})
	},
}

var coursesCycleCmd = &cobra.Command{
	Use:   "cycle CODE",
	Short: "Advance a course to its next completion state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func(ctx context.Context, acct *degree.Account) error {
			next, err := acct.CycleCourseState(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", next.Style().Glyph, args[0], next)
			return nil
		})
	},
}

var coursesAddCmd = &cobra.Command{
	Use:   "add [NAME]",
	Short: "Add your own course or section header",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, _ := cmd.Flags().GetString("code")
		before, _ := cmd.Flags().GetString("before")
		header, _ := cmd.Flags().GetBool("header")
		var name string
		if len(args) > 0 {
			name = args[0]
		}

		var r degree.Record
		if header {
			r = degree.NewCustomHeader(name)
		} else {
			r = degree.NewCustomCourse(name, code)
		}
		return mutate(cmd, func(ctx context.Context, acct *degree.Account) error {
			if before != "" {
				return acct.AddCourseBefore(ctx, r, before)
			}
			return acct.AddCourse(ctx, r)
		})
	},
}

var coursesMissingCmd = &cobra.Command{
	Use:   "missing CODE",
	Short: "List the prerequisites a course still needs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return withStore(func(db *storage.DB) error {
			acct, err := currentAccount(cmd.Context(), db)
			if err != nil {
				return err
			}
			missing, err := acct.MissingPrerequisitesFor(cat, args[0])
			if err != nil {
				return err
			}
			printMissing(cmd.OutOrStdout(), args[0], missing)
			return nil
		})
	},
}

func printMissing(out io.Writer, code string, missing []catalog.Course) {
	if len(missing) == 0 {
		fmt.Fprintf(out, "%s has no missing prerequisites.\n", code)
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, c := range missing {
		fmt.Fprintf(w, "%s\t%s\n", c.Code, c.Name)
	}
	w.Flush()
}

var coursesRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-check blocked courses against what you have completed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return mutate(cmd, func(ctx context.Context, acct *degree.Account) error {
			blocked := func() int {
				n := 0
				for _, r := range acct.Courses() {
					if r.Completion == degree.MissingPrerequisites {
						n++
					}
				}
				return n
			}
			before := blocked()
			if err := acct.RefreshCompletions(ctx, cat); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d courses unblocked\n", before-blocked())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(coursesCmd)
	coursesCmd.AddCommand(coursesListCmd, coursesRenameCmd, coursesCodeCmd, coursesHideCmd,
		coursesStateCmd, coursesCycleCmd, coursesAddCmd, coursesMissingCmd, coursesRefreshCmd)

	coursesListCmd.Flags().Bool("hidden", false, "Only hidden courses")
	coursesListCmd.Flags().Bool("added", false, "Only courses you added")
	coursesListCmd.Flags().Bool("renamed", false, "Only renamed courses")
	coursesListCmd.Flags().Bool("completed", false, "Only complete and in-progress courses")
	coursesListCmd.Flags().Bool("all", false, "Include hidden courses")

	coursesAddCmd.Flags().String("code", "", "Course code")
	coursesAddCmd.Flags().String("before", "", "Insert before the course with this code")
	coursesAddCmd.Flags().Bool("header", false, "Add a section header instead of a course")
}
