package widget

import "github.com/i474232898/weather-widget/internal/weather"

// Status is the UI state machine position.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusSuccess Status = "success"
)

// State is the single owned application state. Only the Orchestrator
// mutates it, through the transition methods below, while holding its lock.
type State struct {
	Status   Status                   `json:"status"`
	Current  *weather.WeatherSnapshot `json:"current,omitempty"`
	Forecast *weather.Forecast        `json:"forecast,omitempty"`
	City     string                   `json:"city,omitempty"`
	Units    weather.Units            `json:"units"`
	Loading  bool                     `json:"loading"`

	// LastSearch is the last city that loaded successfully.
	LastSearch string `json:"lastSearch,omitempty"`

	Initializing bool `json:"initializing"`
	Interacted   bool `json:"interacted"`
	Focused      bool `json:"focused"`

	ErrorKind    weather.Kind `json:"errorKind,omitempty"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
	RequestID    string       `json:"requestId,omitempty"`
}

func (s *State) beginLoading(requestID string) {
	s.Status = StatusLoading
	s.Loading = true
	s.ErrorKind = ""
	s.ErrorMessage = ""
	s.RequestID = requestID
}

func (s *State) succeed(current weather.WeatherSnapshot, forecast weather.Forecast, searched string) {
	s.Status = StatusSuccess
	s.Loading = false
	s.Current = &current
	s.Forecast = &forecast
	s.City = current.City
	s.LastSearch = searched
	s.ErrorKind = ""
	s.ErrorMessage = ""
}

func (s *State) fail(kind weather.Kind, message string) {
	s.Status = StatusError
	s.Loading = false
	s.ErrorKind = kind
	s.ErrorMessage = message
}
