package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/trezcool/cgpa/core/cgpa"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	warnColor    = color.New(color.FgYellow)
	alertColor   = color.New(color.FgRed, color.Bold)
)

func formatGPA(gpa float64) string { return strconv.FormatFloat(gpa, 'f', 2, 64) }

func aggregateRow(label string, agg cgpa.Aggregate) []string {
	return []string{
		label,
		formatGPA(agg.CGPA),
		strconv.FormatFloat(agg.TotalPoints, 'f', -1, 64),
		strconv.Itoa(agg.TotalCreditHours),
	}
}

// report prints the CGPA summary and the study suggestions of the user with email.
func (cli *commandLine) report(email string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	results, err := cli.resSvc.QueryAll(ctx, usr.ID)
	if err != nil {
		return err
	}

	headingColor.Fprintf(cli.out, "CGPA report of %s <%s>\n", usr.Name, usr.Email)
	if len(results) == 0 {
		warnColor.Fprintln(cli.out, "no results uploaded yet")
		return nil
	}

	summary := cgpa.Summarize(results)
	header := []string{"", "CGPA", "Points", "Credit Hours"}

	headingColor.Fprintln(cli.out, "\nOverall")
	table := tablewriter.NewWriter(cli.out)
	table.SetHeader(header)
	table.Append(aggregateRow(fmt.Sprintf("%d results", summary.Results), summary.Overall))
	table.Render()

	headingColor.Fprintln(cli.out, "\nBy level")
	table = tablewriter.NewWriter(cli.out)
	table.SetHeader(header)
	summary.ByLevel.Each(func(level int, agg cgpa.Aggregate) {
		table.Append(aggregateRow(strconv.Itoa(level), agg))
	})
	table.Render()

	headingColor.Fprintln(cli.out, "\nBy semester")
	table = tablewriter.NewWriter(cli.out)
	table.SetHeader(header)
	summary.BySemester.Each(func(semester string, agg cgpa.Aggregate) {
		table.Append(aggregateRow(semester, agg))
	})
	table.Render()

	sug := cgpa.Suggest(results)
	if len(sug.WeakAreas) > 0 {
		alertColor.Fprintf(cli.out, "\n%d weak course(s)\n", len(sug.WeakAreas))
		table = tablewriter.NewWriter(cli.out)
		table.SetHeader([]string{"Course", "Grade", "Score", "Credit Hours"})
		for _, wa := range sug.WeakAreas {
			table.Append([]string{
				wa.CourseCode,
				string(wa.Grade),
				strconv.FormatFloat(wa.TotalScore, 'f', -1, 64),
				strconv.Itoa(wa.CreditHours),
			})
		}
		table.Render()
	}

	if len(sug.Suggestions) > 0 {
		headingColor.Fprintln(cli.out, "\nSuggestions")
		for _, s := range sug.Suggestions {
			fmt.Fprintf(cli.out, "- %s: %s\n", s.Title, s.Message)
		}
	}

	headingColor.Fprintln(cli.out, "\nInsights")
	for _, insight := range sug.PredictiveInsights {
		warnColor.Fprintln(cli.out, "- "+insight)
	}
	return nil
}
