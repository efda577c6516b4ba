package report

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/daily-budget/internal/currencyutils"
	"fjacquet/daily-budget/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorGreen  = lipgloss.Color("#879A39")
	colorRed    = lipgloss.Color("#D14D41")
	colorOrange = lipgloss.Color("#DA702C")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	dimStyle    = lipgloss.NewStyle().Foreground(colorBorder)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	badStyle    = lipgloss.NewStyle().Foreground(colorRed)
	warnStyle   = lipgloss.NewStyle().Foreground(colorOrange)
)

// Table is a bordered text table. The first column is left aligned, the rest
// right aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title in a rounded box.
func RenderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(60).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(titleStyle.Render(title))
}

// RenderTable renders t with box-drawing borders.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	rule := func(left, mid, right string) string {
		var b strings.Builder
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat("─", w+2))
			if i < numCols-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		return dimStyle.Render(b.String()) + "\n"
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}
	b.WriteString(rule("╭", "┬", "╮"))

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(fmt.Sprintf(" %-*s ", widths[i], h)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		b.WriteString(rule("├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			if i == 0 {
				b.WriteString(" " + valueStyle.Render(cell) + strings.Repeat(" ", pad) + " ")
			} else {
				b.WriteString(" " + strings.Repeat(" ", pad) + valueStyle.Render(cell) + " ")
			}
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

// RenderPlan renders the summary, the day table, violations and advice.
func RenderPlan(plan *models.Plan) string {
	r := plan.Result
	money := func(v decimal.Decimal) string {
		return v.StringFixed(places(r.Currency))
	}

	var b strings.Builder
	title := fmt.Sprintf("Daily budget %s to %s", models.DateKey(plan.Period.Start), models.DateKey(plan.Period.End))
	if plan.ProfileID != "" {
		title += " · " + plan.ProfileID
	}
	b.WriteString(RenderTitle(title) + "\n\n")

	summary := Table{
		Title:   "Summary",
		Headers: []string{"Item", "Value"},
		Rows: [][]string{
			{"Tier", string(plan.Classification.Tier) + transitionNote(plan.Classification)},
			{"Methodology", string(r.Methodology)},
			{"Confidence", r.Confidence.String()},
			{"Available for spending", currencyutils.FormatAmount(r.AvailableForSpending, r.Currency)},
			{"Base daily budget", currencyutils.FormatAmount(r.BaseDailyBudget, r.Currency)},
			{"Surplus pool", currencyutils.FormatAmount(r.SurplusPool, r.Currency)},
			{"Redistributed", currencyutils.FormatAmount(r.TotalRedistributed, r.Currency)},
		},
	}
	if r.UnabsorbedDeficit.IsPositive() {
		summary.Rows = append(summary.Rows, []string{"Unabsorbed deficit", currencyutils.FormatAmount(r.UnabsorbedDeficit, r.Currency)})
	}
	if r.UnabsorbedSurplus.IsPositive() {
		summary.Rows = append(summary.Rows, []string{"Unabsorbed surplus", currencyutils.FormatAmount(r.UnabsorbedSurplus, r.Currency)})
	}
	b.WriteString(RenderTable(summary) + "\n")

	days := Table{
		Title:   "Days",
		Headers: []string{"Date", "Factor", "Temporal", "Allocated", "Spent", ""},
	}
	for _, d := range r.DayAllocations {
		spent := ""
		if d.ActualSpent != nil {
			spent = money(*d.ActualSpent)
		}
		days.Rows = append(days.Rows, []string{
			d.Date.Format("Mon 2006-01-02"),
			d.Factor.StringFixed(4),
			money(d.TemporalBudget),
			money(d.AllocatedAmount),
			spent,
			dayFlags(d),
		})
	}
	b.WriteString(RenderTable(days) + "\n")

	if plan.Validation.OK {
		b.WriteString("  " + okStyle.Render("✓ all allocation checks passed") + "\n")
	} else {
		b.WriteString("  " + badStyle.Render(fmt.Sprintf("✗ %d allocation check(s) failed", len(plan.Validation.Violations))) + "\n")
		for _, v := range plan.Validation.Violations {
			b.WriteString("    " + warnStyle.Render(string(v.Code)) + " " + mutedStyle.Render(v.Message) + "\n")
		}
	}

	if plan.Advice != "" {
		b.WriteString("\n  " + headerStyle.Render("Advice") + "\n  " + valueStyle.Render(plan.Advice) + "\n")
	}
	return b.String()
}

// RenderClassification renders an income classification.
func RenderClassification(c models.IncomeClassification) string {
	rows := [][]string{
		{"Tier", string(c.Tier) + transitionNote(c)},
		{"Adjusted income", c.AdjustedIncome.StringFixed(2)},
		{"Fixed commitment ratio", c.FixedCommitmentRatio.String()},
		{"Savings target ratio", c.SavingsTargetRatio.String()},
		{"Redistribution buffer ratio", c.RedistributionBufferRatio.String()},
	}
	if c.Locality != "" {
		rows = append(rows, []string{"Locality", c.Locality})
	}
	return RenderTable(Table{Title: "Income classification", Headers: []string{"Item", "Value"}, Rows: rows})
}

// RenderHistory renders one row per elapsed day in date order.
func RenderHistory(h *models.SpendHistory) string {
	if h == nil {
		return mutedStyle.Render("no spending history") + "\n"
	}

	keys := make([]string, 0, len(h.Days))
	for k := range h.Days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := Table{
		Title:   fmt.Sprintf("Spending up to %s", models.DateKey(h.AsOf)),
		Headers: []string{"Date", "Spent", "Transactions", "Categories"},
	}
	total := decimal.Zero
	for _, k := range keys {
		ds := h.Days[k]
		total = total.Add(ds.Total)
		t.Rows = append(t.Rows, []string{
			k,
			ds.Total.StringFixed(places(h.Currency)),
			fmt.Sprintf("%d", ds.Count),
			FlattenCategories(models.DayAllocation{CategoryBreakdown: ds.ByCategory}),
		})
	}
	t.Rows = append(t.Rows, []string{"Total", currencyutils.FormatAmount(total, h.Currency), "", ""})
	return RenderTable(t)
}

func dayFlags(d models.DayAllocation) string {
	switch {
	case d.Frozen:
		return "frozen"
	case d.Elapsed:
		return "elapsed"
	default:
		return ""
	}
}

func transitionNote(c models.IncomeClassification) string {
	if c.IsInTransition {
		return " (near boundary)"
	}
	return ""
}

func places(code string) int32 {
	p, err := currencyutils.MinorUnits(code)
	if err != nil {
		return currencyutils.DefaultPlaces
	}
	return p
}
