package services

import (
	"time"

	"github.com/ithomeportal/unilink-energy/internal/emissions"
	"github.com/ithomeportal/unilink-energy/internal/models"
)

// FallbackProvider supplies the dataset served when real shipment data is
// missing or unreachable.
type FallbackProvider interface {
	Dataset(now time.Time) *models.EmissionsData
}

// DemoDataset is a fixed, representative dataset for display when the
// shipment store is empty or down.
type DemoDataset struct{}

const (
	demoTotalMiles  = 56_250_000
	demoTotalOrders = 78_700
	demoStateCount  = 48
)

func (DemoDataset) Dataset(now time.Time) *models.EmissionsData {
	summary := emissions.Summarize(demoTotalOrders, demoTotalMiles, demoStateCount, now)
	// Presented as a whole number of miles.
	summary.AvgMilesPerOrder = float64(int(summary.AvgMilesPerOrder + 0.5))

	return &models.EmissionsData{
		Summary:        summary,
		StateEmissions: demoStates(),
		MonthlyTrends:  demoMonths(),
		TopRoutes:      demoRoutes(),
	}
}

func figure(standard, actual, saved float64) models.EmissionsFigure {
	f := models.EmissionsFigure{StandardEmissions: standard, ActualEmissions: actual, CO2Saved: saved}
	if standard > 0 {
		f.PercentReduction = saved / standard * 100
	}
	return f
}

func demoStates() []models.StateEmissions {
	row := func(code string, miles float64, orders, inbound, outbound int, std, act, saved float64) models.StateEmissions {
		return models.StateEmissions{
			State:           code,
			StateName:       emissions.StateName(code),
			TotalMiles:      miles,
			OrderCount:      orders,
			InboundRoutes:   inbound,
			OutboundRoutes:  outbound,
			EmissionsFigure: figure(std, act, saved),
		}
	}
	return []models.StateEmissions{
		row("TX", 2_850_000, 4200, 38, 42, 4845, 3373, 1472),
		row("CA", 1_950_000, 3500, 32, 35, 3315, 2307, 1008),
		row("IL", 1_450_000, 2800, 25, 28, 2465, 1715, 750),
		row("OH", 1_250_000, 2500, 22, 25, 2125, 1479, 646),
		row("PA", 1_150_000, 2300, 20, 23, 1955, 1361, 594),
		row("GA", 950_000, 2000, 18, 20, 1615, 1124, 491),
		row("FL", 850_000, 1800, 16, 18, 1445, 1006, 439),
		row("MI", 750_000, 1600, 14, 16, 1275, 888, 387),
		row("NY", 650_000, 1400, 12, 14, 1105, 769, 336),
		row("NC", 550_000, 1200, 10, 12, 935, 651, 284),
	}
}

func demoMonths() []models.MonthlyTrend {
	row := func(month time.Month, orders int, miles, std, act, saved float64) models.MonthlyTrend {
		return models.MonthlyTrend{
			Period:          time.Date(2025, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
			Month:           month.String()[:3],
			Year:            2025,
			OrderCount:      orders,
			TotalMiles:      miles,
			EmissionsFigure: figure(std, act, saved),
		}
	}
	return []models.MonthlyTrend{
		row(time.March, 6800, 4_800_000, 8160, 5679, 2481),
		row(time.April, 7200, 5_100_000, 8670, 6034, 2636),
		row(time.May, 7500, 5_350_000, 9095, 6330, 2765),
		row(time.June, 7800, 5_550_000, 9435, 6567, 2868),
		row(time.July, 8100, 5_800_000, 9860, 6863, 2997),
		row(time.August, 8400, 6_050_000, 10285, 7159, 3126),
		row(time.September, 8200, 5_900_000, 10030, 6981, 3049),
		row(time.October, 8500, 6_100_000, 10370, 7217, 3153),
		row(time.November, 8300, 5_950_000, 10115, 7040, 3075),
		row(time.December, 7900, 5_650_000, 9605, 6685, 2920),
	}
}

func demoRoutes() []models.TopRoute {
	row := func(origin, dest string, orders int, miles, avg, std, act, saved float64) models.TopRoute {
		return models.TopRoute{
			OriginState:      origin,
			DestinationState: dest,
			OrderCount:       orders,
			TotalMiles:       miles,
			AvgMiles:         avg,
			EmissionsFigure:  figure(std, act, saved),
		}
	}
	return []models.TopRoute{
		row("TX", "CA", 1250, 1_875_000, 1500, 3188, 2219, 969),
		row("CA", "TX", 1180, 1_770_000, 1500, 3009, 2094, 915),
		row("TX", "IL", 980, 1_176_000, 1200, 1999, 1391, 608),
		row("IL", "TX", 920, 1_104_000, 1200, 1877, 1306, 571),
		row("TX", "GA", 780, 702_000, 900, 1193, 830, 363),
		row("GA", "TX", 750, 675_000, 900, 1148, 799, 349),
		row("CA", "IL", 680, 1_360_000, 2000, 2312, 1609, 703),
		row("IL", "CA", 650, 1_300_000, 2000, 2210, 1538, 672),
		row("TX", "FL", 620, 744_000, 1200, 1265, 880, 385),
		row("FL", "TX", 580, 696_000, 1200, 1183, 823, 360),
	}
}
