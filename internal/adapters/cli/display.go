package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/avelardi/polisbot/internal/application/recruitment/types"
	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
	"github.com/avelardi/polisbot/pkg/utils"
)

// printDistribution shows the planned split, one line per building and
// unit type.
func printDistribution(out io.Writer, dist *recruitment.Distribution, order recruitment.Order) {
	fmt.Fprintln(out, "\nPlanned distribution:")
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CITY\tPOS\tLVL\tUNIT\tQTY")
	for _, b := range dist.Buildings {
		for _, unitID := range b.AssignedUnitIDs() {
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
				b.CityName, b.Position, b.Level,
				order.NameFor(unitID, dist.Buildings),
				utils.ThousandSeparator(b.Assignments[unitID]))
		}
	}
	w.Flush()

	for _, unitID := range dist.Unplaced {
		fmt.Fprintf(out, "WARNING: no building can recruit %s, dropped from the plan\n",
			order.NameFor(unitID, dist.Buildings))
	}
}

// printAudit shows per-city shortages, or confirms the plan is affordable.
func printAudit(out io.Writer, audit *types.AuditResult, dist *recruitment.Distribution) {
	if audit.CanFulfill {
		fmt.Fprintln(out, "\nAll involved cities can pay for the plan right now.")
		return
	}

	fmt.Fprintln(out, "\nResource shortages (recruitment will proceed in batches):")
	cityNames := make(map[int]string)
	for _, b := range dist.Buildings {
		cityNames[b.CityID] = b.CityName
	}

	cityIDs := make([]int, 0, len(audit.MissingResources))
	for cityID := range audit.MissingResources {
		cityIDs = append(cityIDs, cityID)
	}
	for cityID := range audit.MissingCitizens {
		if _, seen := audit.MissingResources[cityID]; !seen {
			cityIDs = append(cityIDs, cityID)
		}
	}
	sort.Ints(cityIDs)

	for _, cityID := range cityIDs {
		fmt.Fprintf(out, "  %s:", cityNames[cityID])
		if n := audit.MissingCitizens[cityID]; n > 0 {
			fmt.Fprintf(out, " %s citizens", utils.ThousandSeparator(n))
		}
		printResourceShortage(out, audit.MissingResources[cityID])
		fmt.Fprintln(out)
	}
}

func printResourceShortage(out io.Writer, missing shared.ResourceSet) {
	for _, part := range []struct {
		name string
		qty  int
	}{
		{"wood", missing.Wood},
		{"wine", missing.Wine},
		{"marble", missing.Marble},
		{"crystal", missing.Crystal},
		{"sulfur", missing.Sulfur},
	} {
		if part.qty > 0 {
			fmt.Fprintf(out, " %s %s", utils.ThousandSeparator(part.qty), part.name)
		}
	}
}

// printEstimate shows per-city and overall completion projections.
func printEstimate(out io.Writer, est *types.TimeEstimate) {
	fmt.Fprintln(out, "\nTime estimate:")

	cityIDs := make([]int, 0, len(est.ByCity))
	for cityID := range est.ByCity {
		cityIDs = append(cityIDs, cityID)
	}
	sort.Ints(cityIDs)

	for _, cityID := range cityIDs {
		city := est.ByCity[cityID]
		if city.Unknown {
			fmt.Fprintf(out, "  %s: unknown (citizen deficit, no growth data)\n", city.CityName)
			continue
		}
		line := fmt.Sprintf("  %s: %s", city.CityName, utils.FormatDuration(int(city.TotalSecs)))
		if city.CitizenWaitSecs > 0 {
			line += fmt.Sprintf(" (inc. ~%s waiting for citizens)", utils.FormatDuration(int(city.CitizenWaitSecs)))
		}
		fmt.Fprintln(out, line)
	}

	if est.Unknown {
		fmt.Fprintln(out, "Overall: unknown")
	} else {
		fmt.Fprintf(out, "Overall: ~%s\n", utils.FormatDuration(int(est.TotalSecs)))
	}
}

// printResults shows per-building immediate submission outcomes.
func printResults(out io.Writer, response *types.ExecuteRecruitmentResponse) {
	for _, r := range response.Results {
		if r.Succeeded {
			fmt.Fprintf(out, "  %s (position %d): %s units ordered\n",
				r.CityName, r.Position, utils.ThousandSeparator(r.Units))
		} else {
			fmt.Fprintf(out, "  %s (position %d): FAILED: %s\n", r.CityName, r.Position, r.Error)
		}
	}
}
