package dto

import "time"

type ChartRequest struct {
	Name     string  `json:"name"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	TZOffset float64 `json:"tzoffset"`
	Place    string  `json:"place"`
}

type PositionResponse struct {
	Longitude float64 `json:"longitude"`
	SignIndex int     `json:"sign_index"`
	SignName  string  `json:"sign_name"`
	Degrees   int     `json:"degrees"`
	Minutes   int     `json:"minutes"`
	Seconds   float64 `json:"seconds"`
}

type BodyResponse struct {
	Body       string            `json:"body"`
	Retrograde bool              `json:"retrograde,omitempty"`
	Position   *PositionResponse `json:"position,omitempty"`
	Error      string            `json:"error,omitempty"`
}

type HouseResponse struct {
	House int              `json:"house"`
	Cusp  PositionResponse `json:"cusp"`
}

type ChartResponse struct {
	ChartID    int              `json:"chart_id,omitempty"`
	Name       string           `json:"name"`
	BornAt     time.Time        `json:"born_at"`
	TZOffset   float64          `json:"tzoffset"`
	Place      string           `json:"place"`
	Lon        float64          `json:"lon"`
	Lat        float64          `json:"lat"`
	ComputedAt time.Time        `json:"computed_at"`
	Bodies     []BodyResponse   `json:"bodies"`
	Ascendant  PositionResponse `json:"ascendant"`
	Midheaven  PositionResponse `json:"midheaven"`
	Houses     []HouseResponse  `json:"houses"`
}

type ListChartsResponse struct {
	Charts []ChartResponse `json:"charts"`
}
