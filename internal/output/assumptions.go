package output

import (
	"fmt"

	"github.com/rpgo/roth-optimizer/internal/domain"
)

// GenerateAssumptions creates the assumptions list from actual parameter and policy values
func GenerateAssumptions(params domain.SimulationParameters, policies domain.Policies) []string {
	out := params.Assumptions()
	out = append(out, fmt.Sprintf("RMD schedule: %s", policies.RMDPolicyOrDefault()))
	if c := policies.Contributions; c.Enabled {
		out = append(out, fmt.Sprintf("Payroll contributions: %s of salary, %s employer match",
			FormatRate(c.EmployeeRate), FormatRate(c.EmployerMatch)))
	}
	if e := policies.Expenses; e.Enabled {
		out = append(out, fmt.Sprintf("Living expenses from retirement: %s/yr (inflation-indexed), funded %s",
			FormatWholeCurrency(e.AnnualAmount), e.WaterfallOrDefault()))
	}
	return out
}
