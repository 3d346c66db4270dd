package models

import "time"

// ShipmentRecord is one order row read from the shipment store.
// Miles is zero when the store has no recorded mileage for the order.
type ShipmentRecord struct {
	OrderDate        time.Time `json:"orderDate" bson:"orderDate"`
	OriginState      string    `json:"originState" bson:"originState"`
	DestinationState string    `json:"destinationState" bson:"destinationState"`
	OriginLat        float64   `json:"originLat" bson:"originLat"`
	OriginLon        float64   `json:"originLon" bson:"originLon"`
	DestLat          float64   `json:"destLat" bson:"destLat"`
	DestLon          float64   `json:"destLon" bson:"destLon"`
	Miles            float64   `json:"miles" bson:"miles"`
}

// EmissionsFigure - standard vs policy-adjusted CO2 for a mileage figure (tCO2e)
type EmissionsFigure struct {
	StandardEmissions float64 `json:"standardEmissions"`
	ActualEmissions   float64 `json:"actualEmissions"`
	CO2Saved          float64 `json:"co2Saved"`
	PercentReduction  float64 `json:"percentReduction"`
}

// StateEmissions - aggregate for one state seen as origin or destination
type StateEmissions struct {
	State          string  `json:"state"`
	StateName      string  `json:"stateName"`
	TotalMiles     float64 `json:"totalMiles"`
	OrderCount     int     `json:"orderCount"`
	InboundRoutes  int     `json:"inboundRoutes"`
	OutboundRoutes int     `json:"outboundRoutes"`
	EmissionsFigure
}

// MonthlyTrend - aggregate for one calendar month
type MonthlyTrend struct {
	Period     string  `json:"period"` // YYYY-MM
	Month      string  `json:"month"`  // short label, e.g. "Mar"
	Year       int     `json:"year"`
	OrderCount int     `json:"orderCount"`
	TotalMiles float64 `json:"totalMiles"`
	EmissionsFigure
}

// TopRoute - aggregate for one ordered origin/destination pair
type TopRoute struct {
	OriginState      string  `json:"originState"`
	DestinationState string  `json:"destinationState"`
	OrderCount       int     `json:"orderCount"`
	TotalMiles       float64 `json:"totalMiles"`
	AvgMiles         float64 `json:"avgMiles"`
	EmissionsFigure
}

// EmissionsSummary - totals across every record of an aggregation pass
type EmissionsSummary struct {
	TotalOrders            int     `json:"totalOrders"`
	TotalMiles             float64 `json:"totalMiles"`
	TotalStandardEmissions float64 `json:"totalStandardEmissions"`
	TotalActualEmissions   float64 `json:"totalActualEmissions"`
	TotalCO2Saved          float64 `json:"totalCO2Saved"`
	PercentReduction       float64 `json:"percentReduction"`
	B20Savings             float64 `json:"b20Savings"`
	FleetSavings           float64 `json:"fleetSavings"`
	AvgMilesPerOrder       float64 `json:"avgMilesPerOrder"`
	AvgEmissionsPerOrder   float64 `json:"avgEmissionsPerOrder"`
	StateCount             int     `json:"stateCount"`
	LastUpdated            string  `json:"lastUpdated"`
}

// EmissionsData is the bundle served to the dashboard.
type EmissionsData struct {
	Summary        EmissionsSummary `json:"summary"`
	StateEmissions []StateEmissions `json:"stateEmissions"`
	MonthlyTrends  []MonthlyTrend   `json:"monthlyTrends"`
	TopRoutes      []TopRoute       `json:"topRoutes"`
}

// EmissionsResponse - GET /api/emissions payload
type EmissionsResponse struct {
	Success bool           `json:"success"`
	Data    *EmissionsData `json:"data"`
	Cached  bool           `json:"cached,omitempty"`
	Demo    bool           `json:"demo,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// StateSearchResponse - GET /api/emissions/states payload
type StateSearchResponse struct {
	Success bool             `json:"success"`
	Query   string           `json:"query"`
	States  []StateEmissions `json:"states"`
}
