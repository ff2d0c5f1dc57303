package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/planner"
	"alcyxob/trainer-ai/internal/service"
)

type generateFlags struct {
	clientID string
	week     int
	save     bool
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one plan for a client and print it",
	}

	var flags generateFlags
	cmd.PersistentFlags().StringVar(&flags.clientID, "client", "", "client ID")
	cmd.PersistentFlags().IntVar(&flags.week, "week", 1, "plan week, 1-52")
	cmd.PersistentFlags().BoolVar(&flags.save, "save", false, "store the plan once it validates")
	_ = cmd.MarkPersistentFlagRequired("client")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "workout",
			Short: "Generate a week of training",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := loadApp(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer a.Close()

				var gen *service.WorkoutGeneration
				var rec *domain.WorkoutPlanRecord
				if flags.save {
					gen, rec, err = a.plans.GenerateAndSaveWorkout(cmd.Context(), flags.clientID, flags.week)
				} else {
					gen, err = a.plans.GenerateWorkout(cmd.Context(), flags.clientID, flags.week)
				}
				if err != nil {
					return reportFailure(os.Stderr, err, gen)
				}
				printWorkoutPlan(os.Stdout, gen)
				if rec != nil {
					fmt.Fprintf(os.Stdout, "Saved as %s (%d workouts)\n", rec.ID, len(rec.Workouts))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "meal",
			Short: "Generate a seven day meal plan",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := loadApp(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer a.Close()

				var gen *service.MealPlanGeneration
				var rec *domain.MealPlanRecord
				if flags.save {
					gen, rec, err = a.plans.GenerateAndSaveMealPlan(cmd.Context(), flags.clientID, flags.week)
				} else {
					gen, err = a.plans.GenerateMealPlan(cmd.Context(), flags.clientID, flags.week)
				}
				if err != nil {
					return reportFailure(os.Stderr, err, gen)
				}
				printMealPlan(os.Stdout, gen)
				if rec != nil {
					fmt.Fprintf(os.Stdout, "Saved as %s\n", rec.ID)
				}
				return nil
			},
		},
	)
	return cmd
}

// reportFailure prints the raw model output of a malformed plan before
// returning err.
func reportFailure[P any](w io.Writer, err error, gen *service.Generation[P]) error {
	if errors.Is(err, planner.ErrMalformedPlan) && gen != nil && gen.Result != nil {
		fmt.Fprintln(w, "Model output could not be used as a plan:")
		fmt.Fprintln(w, gen.Result.Raw)
		if gen.TranscriptURL != "" {
			fmt.Fprintln(w, "Transcript:", gen.TranscriptURL)
		}
	}
	return err
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetRowLine(true)
	table.SetHeader(header)
	return table
}

func printWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintln(w, "Warning:", warning)
	}
}

func printWorkoutPlan(w io.Writer, gen *service.WorkoutGeneration) {
	res := gen.Result
	fmt.Fprintf(w, "Week %d workout plan for %s (%s)\n", gen.Week, gen.Profile.Name, res.Model)
	printWarnings(w, res.Warnings)

	table := newTable(w, []string{"Day", "Focus", "Exercise", "Sets", "Reps", "Rest\n(s)"})
	for _, day := range res.Plan.Days {
		dayLabel := strconv.Itoa(day.Day)
		if day.Rest {
			table.Append([]string{dayLabel, "Rest", day.Recovery, "", "", ""})
			continue
		}
		for i, ex := range day.Exercises {
			focus := ""
			if i == 0 {
				focus = day.Focus
			}
			table.Append([]string{
				dayLabel,
				focus,
				ex.Name,
				strconv.Itoa(ex.Sets),
				string(ex.Reps),
				strconv.Itoa(ex.RestSec),
			})
		}
	}
	table.Render()
}

func printMealPlan(w io.Writer, gen *service.MealPlanGeneration) {
	res := gen.Result
	fmt.Fprintf(w, "Week %d meal plan for %s (%s)\n", gen.Week, gen.Profile.Name, res.Model)
	if t := res.Plan.WeeklyTotals; t != nil {
		fmt.Fprintf(w, "Weekly totals: %.0f kcal, %.0f g protein, %.0f g carbs, %.0f g fat\n",
			t.Calories, t.Protein, t.Carbs, t.Fat)
	}
	printWarnings(w, res.Warnings)

	table := newTable(w, []string{"Day", "Meal", "Foods", "Calories", "Protein\n(g)"})
	for _, day := range res.Plan.Days {
		for _, meal := range day.Meals {
			table.Append([]string{
				strconv.Itoa(day.Day),
				meal.MealType,
				strings.Join(meal.Foods, ", "),
				fmt.Sprintf("%.0f", meal.Calories),
				fmt.Sprintf("%.0f", meal.Protein),
			})
		}
	}
	table.Render()
}
