package emissions

import (
	"fmt"
	"sort"
	"time"

	"github.com/ithomeportal/unilink-energy/internal/models"
)

// TopRouteLimit is how many routes survive truncation.
const TopRouteLimit = 10

type stateAccumulator struct {
	totalMiles     float64
	orderCount     int
	inboundRoutes  int
	outboundRoutes int
}

type bucket struct {
	orderCount int
	totalMiles float64
}

type monthBucket struct {
	bucket
	year  int
	month time.Month
}

type routeKey struct {
	origin      string
	destination string
}

// EffectiveMiles is the recorded mileage when present, otherwise the
// Haversine distance between the record's coordinates.
func EffectiveMiles(r models.ShipmentRecord) float64 {
	if r.Miles > 0 {
		return r.Miles
	}
	return Haversine(r.OriginLat, r.OriginLon, r.DestLat, r.DestLon)
}

// Aggregate rolls records up into summary, state, month and route datasets.
// Records are processed in order, so equal inputs give equal outputs. Only the
// origin state accrues order count and miles; the destination only counts an
// inbound route.
func Aggregate(records []models.ShipmentRecord, computedAt time.Time) *models.EmissionsData {
	states := make(map[string]*stateAccumulator)
	var stateOrder []string

	months := make(map[string]*monthBucket)

	routes := make(map[routeKey]*bucket)
	var routeOrder []routeKey

	stateFor := func(code string) *stateAccumulator {
		acc, ok := states[code]
		if !ok {
			acc = &stateAccumulator{}
			states[code] = acc
			stateOrder = append(stateOrder, code)
		}
		return acc
	}

	var totalMiles float64
	for _, r := range records {
		miles := EffectiveMiles(r)
		totalMiles += miles

		origin := NormalizeState(r.OriginState)
		dest := NormalizeState(r.DestinationState)

		o := stateFor(origin)
		o.totalMiles += miles
		o.outboundRoutes++
		o.orderCount++

		stateFor(dest).inboundRoutes++

		orderDate := r.OrderDate.UTC()
		mk := monthKey(orderDate)
		m, ok := months[mk]
		if !ok {
			m = &monthBucket{year: orderDate.Year(), month: orderDate.Month()}
			months[mk] = m
		}
		m.orderCount++
		m.totalMiles += miles

		rk := routeKey{origin: origin, destination: dest}
		rt, ok := routes[rk]
		if !ok {
			rt = &bucket{}
			routes[rk] = rt
			routeOrder = append(routeOrder, rk)
		}
		rt.orderCount++
		rt.totalMiles += miles
	}

	data := &models.EmissionsData{
		StateEmissions: buildStates(states, stateOrder),
		MonthlyTrends:  buildMonths(months),
		TopRoutes:      buildRoutes(routes, routeOrder),
	}
	data.Summary = Summarize(len(records), totalMiles, len(data.StateEmissions), computedAt)
	return data
}

// Summarize builds the overall summary from global totals.
func Summarize(totalOrders int, totalMiles float64, stateCount int, computedAt time.Time) models.EmissionsSummary {
	overall := CalculateSavings(totalMiles)

	var avgMiles, avgEmissions float64
	if totalOrders > 0 {
		avgMiles = totalMiles / float64(totalOrders)
		avgEmissions = overall.ActualEmissions / float64(totalOrders)
	}

	return models.EmissionsSummary{
		TotalOrders:            totalOrders,
		TotalMiles:             totalMiles,
		TotalStandardEmissions: overall.StandardEmissions,
		TotalActualEmissions:   overall.ActualEmissions,
		TotalCO2Saved:          overall.TotalSavings,
		PercentReduction:       overall.PercentReduction,
		B20Savings:             overall.B20Savings,
		FleetSavings:           overall.FleetSavings,
		AvgMilesPerOrder:       avgMiles,
		AvgEmissionsPerOrder:   avgEmissions,
		StateCount:             stateCount,
		LastUpdated:            computedAt.UTC().Format(time.RFC3339),
	}
}

func buildStates(states map[string]*stateAccumulator, order []string) []models.StateEmissions {
	out := make([]models.StateEmissions, 0, len(order))
	for _, code := range order {
		acc := states[code]
		out = append(out, models.StateEmissions{
			State:           code,
			StateName:       StateName(code),
			TotalMiles:      acc.totalMiles,
			OrderCount:      acc.orderCount,
			InboundRoutes:   acc.inboundRoutes,
			OutboundRoutes:  acc.outboundRoutes,
			EmissionsFigure: Figure(acc.totalMiles),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CO2Saved > out[j].CO2Saved
	})
	return out
}

func buildMonths(months map[string]*monthBucket) []models.MonthlyTrend {
	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]models.MonthlyTrend, 0, len(keys))
	for _, k := range keys {
		b := months[k]
		out = append(out, models.MonthlyTrend{
			Period:          k,
			Month:           b.month.String()[:3],
			Year:            b.year,
			OrderCount:      b.orderCount,
			TotalMiles:      b.totalMiles,
			EmissionsFigure: Figure(b.totalMiles),
		})
	}
	return out
}

func buildRoutes(routes map[routeKey]*bucket, order []routeKey) []models.TopRoute {
	ranked := make([]routeKey, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return routes[ranked[i]].orderCount > routes[ranked[j]].orderCount
	})
	if len(ranked) > TopRouteLimit {
		ranked = ranked[:TopRouteLimit]
	}

	out := make([]models.TopRoute, 0, len(ranked))
	for _, rk := range ranked {
		b := routes[rk]
		out = append(out, models.TopRoute{
			OriginState:      rk.origin,
			DestinationState: rk.destination,
			OrderCount:       b.orderCount,
			TotalMiles:       b.totalMiles,
			AvgMiles:         b.totalMiles / float64(b.orderCount),
			EmissionsFigure:  Figure(b.totalMiles),
		})
	}
	return out
}

// monthKey formats the calendar month of t as YYYY-MM.
func monthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}
