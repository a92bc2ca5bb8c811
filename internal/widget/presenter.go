package widget

import "github.com/i474232898/weather-widget/internal/render"

// Presenter is the UI surface. Calls arrive serialized, in transition order.
type Presenter interface {
	ShowLoading()
	ShowError(message string)
	ShowWeather(view render.CurrentView)
	ShowForecast(cards []render.ForecastCard)
	// Announce feeds the screen-reader status channel.
	Announce(message string)
}

// MultiPresenter fans every call out to each presenter in order.
type MultiPresenter []Presenter

func (m MultiPresenter) ShowLoading() {
	for _, p := range m {
		p.ShowLoading()
	}
}

func (m MultiPresenter) ShowError(message string) {
	for _, p := range m {
		p.ShowError(message)
	}
}

func (m MultiPresenter) ShowWeather(view render.CurrentView) {
	for _, p := range m {
		p.ShowWeather(view)
	}
}

func (m MultiPresenter) ShowForecast(cards []render.ForecastCard) {
	for _, p := range m {
		p.ShowForecast(cards)
	}
}

func (m MultiPresenter) Announce(message string) {
	for _, p := range m {
		p.Announce(message)
	}
}

type nopPresenter struct{}

func (nopPresenter) ShowLoading()                       {}
func (nopPresenter) ShowError(string)                   {}
func (nopPresenter) ShowWeather(render.CurrentView)     {}
func (nopPresenter) ShowForecast([]render.ForecastCard) {}
func (nopPresenter) Announce(string)                    {}
