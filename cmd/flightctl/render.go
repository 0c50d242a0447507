package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dharmasatrya/flightoffers/internal/airports"
	"github.com/dharmasatrya/flightoffers/internal/filter"
	"github.com/dharmasatrya/flightoffers/internal/isotime"
	"github.com/dharmasatrya/flightoffers/internal/models"
	"github.com/dharmasatrya/flightoffers/internal/session"
	"github.com/dharmasatrya/flightoffers/pkg/currency"
)

const trendBarWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 1, 0)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 0, 2)

	priceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

func renderView(v session.View) string {
	var b strings.Builder

	title := fmt.Sprintf("%d of %d flights", v.Count, v.Total)
	if v.Request.Origin != "" || v.Request.Destination != "" {
		title = airports.Label(v.Request.Origin) + " → " + airports.Label(v.Request.Destination) + " · " + title
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if v.Reason != "" {
		b.WriteString(metaStyle.Render("showing sample flights (" + string(v.Reason) + ")"))
		b.WriteString("\n")
	}

	b.WriteString(renderFilters(v.Filters, v.Bounds))

	if v.Message != "" {
		b.WriteString(noDataStyle.Render(v.Message))
		b.WriteString("\n")
		return b.String()
	}

	for _, o := range v.Offers {
		b.WriteString(renderCard(o))
		b.WriteString("\n")
	}

	if len(v.PriceTrend) > 0 {
		b.WriteString(headerStyle.Render("Price trend"))
		b.WriteString("\n")
		b.WriteString(renderTrend(v.PriceTrend, currencyOf(v.Offers)))
	}
	return b.String()
}

func renderFilters(cfg filter.Config, bounds filter.Bounds) string {
	stops := "any"
	if len(cfg.Stops) > 0 {
		stops = strings.Join(cfg.Stops, ", ")
	}
	selected := "any"
	if len(cfg.Airlines) > 0 {
		selected = strings.Join(cfg.Airlines, ", ")
	}
	lines := []string{
		fmt.Sprintf("max price %.0f / %.0f", cfg.MaxPrice, bounds.MaxPrice),
		"stops     " + stops,
		"airlines  " + selected + " (of " + strings.Join(bounds.Airlines, ", ") + ")",
	}
	return metaStyle.Render(strings.Join(lines, "\n")) + "\n"
}

// renderCard shows the outbound itinerary of one offer.
func renderCard(o models.FlightOffer) string {
	it, ok := o.FirstItinerary()
	if !ok || len(it.Segments) == 0 {
		return cardStyle.Render(o.PrimaryAirline() + "  " + renderPrice(o))
	}
	first := it.Segments[0]
	last := it.Segments[len(it.Segments)-1]

	route := fmt.Sprintf("%s %s  →  %s %s",
		isotime.FormatClock(first.Departure.At), first.Departure.IATACode,
		isotime.FormatClock(last.Arrival.At), last.Arrival.IATACode)

	details := []string{isotime.FormatDuration(it.Duration), stopsLabel(it.Stops())}
	for _, l := range filter.Layovers(it) {
		details = append(details, "via "+l.Airport+" "+isotime.FormatMinutes(l.DurationMinutes))
	}

	flight := first.CarrierCode + " " + first.Number
	body := lipgloss.JoinVertical(lipgloss.Left,
		route+"   "+priceStyle.Render(renderPrice(o)),
		metaStyle.Render(strings.Join(details, " · ")+" · "+flight),
	)
	return cardStyle.Render(body)
}

func renderPrice(o models.FlightOffer) string {
	p, ok := o.GrandTotal()
	if !ok {
		return "n/a"
	}
	return currency.Format(o.Price.Currency, p.InexactFloat64())
}

func stopsLabel(stops int) string {
	switch {
	case stops <= 0:
		return "Direct"
	case stops == 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}

func renderTrend(points []filter.PricePoint, code string) string {
	maxPrice := 0.0
	for _, p := range points {
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
	}

	var b strings.Builder
	for _, p := range points {
		width := 1
		if maxPrice > 0 {
			width = int(p.Price / maxPrice * trendBarWidth)
			if width < 1 {
				width = 1
			}
		}
		fmt.Fprintf(&b, "  %s %-3s %s %s\n",
			p.TimeLabel, p.Airline,
			barStyle.Render(strings.Repeat("█", width)),
			currency.Format(code, p.Price))
	}
	return b.String()
}

func currencyOf(offers []models.FlightOffer) string {
	for _, o := range offers {
		if o.Price.Currency != "" {
			return o.Price.Currency
		}
	}
	return "USD"
}

func renderAirports(list []airports.Airport) string {
	if len(list) == 0 {
		return noDataStyle.Render("No airports found") + "\n"
	}
	var b strings.Builder
	for _, a := range list {
		fmt.Fprintf(&b, "%s  %-14s %s\n", a.Code, a.City, metaStyle.Render(a.Name+" ("+a.Timezone+")"))
	}
	return b.String()
}
