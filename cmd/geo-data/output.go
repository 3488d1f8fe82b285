package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/gramseva/portal/modules/geo/domain/bulkimport"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

func renderPlan(w io.Writer, plan bulkimport.PlanResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"District", "Status", "Villages", "Did you mean"})
	for _, g := range plan.Groups {
		suggestion := ""
		if len(g.Suggestions) > 0 {
			suggestion = g.Suggestions[0]
		}
		table.Append([]string{g.District, g.Status, strconv.Itoa(g.Villages), suggestion})
	}
	table.Render()
	fmt.Fprintf(w, "%d new districts, %d matched, %d villages\n",
		plan.NewDistricts, plan.MatchedDistricts, plan.VillageCount)
	fmt.Fprintln(w, color.YellowString("Dry run: nothing was written. Re-run with --apply to import."))
}

func renderResult(w io.Writer, result bulkimport.Result, errorLimit int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rows", "Districts created", "Districts matched", "Villages created", "Villages skipped"})
	table.Append([]string{
		strconv.Itoa(result.RowCount),
		strconv.Itoa(result.DistrictCount),
		strconv.Itoa(result.MatchedDistricts),
		strconv.Itoa(result.VillageCount),
		strconv.Itoa(result.SkippedVillages),
	})
	table.Render()

	if result.Success {
		fmt.Fprintln(w, color.GreenString(result.Message()))
		return
	}
	fmt.Fprintln(w, color.RedString(result.Message()))
	shown, more := result.Summary(errorLimit)
	for _, msg := range shown {
		fmt.Fprintln(w, "  - "+msg)
	}
	if more > 0 {
		fmt.Fprintf(w, "  ... and %d more\n", more)
	}
}
