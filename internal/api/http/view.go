package httpapi

import (
	"sync"

	"github.com/i474232898/weather-widget/internal/render"
	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/widget"
)

// View is what a browser client draws.
type View struct {
	Status       widget.Status         `json:"status"`
	Loading      bool                  `json:"loading"`
	Message      string                `json:"message,omitempty"`
	Current      *render.CurrentView   `json:"current,omitempty"`
	Forecast     []render.ForecastCard `json:"forecast"`
	Units        weather.Units         `json:"units"`
	LastSearch   string                `json:"lastSearch,omitempty"`
	Announcement string                `json:"announcement,omitempty"`
	RequestID    string                `json:"requestId,omitempty"`
}

// ViewPresenter keeps the latest rendered panels so HTTP handlers can serve them.
type ViewPresenter struct {
	mu           sync.RWMutex
	loading      bool
	message      string
	current      *render.CurrentView
	forecast     []render.ForecastCard
	announcement string
}

func NewViewPresenter() *ViewPresenter {
	return &ViewPresenter{}
}

func (p *ViewPresenter) ShowLoading() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = true
	p.message = ""
}

func (p *ViewPresenter) ShowError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	p.message = message
	p.current = nil
	p.forecast = nil
}

func (p *ViewPresenter) ShowWeather(view render.CurrentView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	p.message = ""
	p.current = &view
}

func (p *ViewPresenter) ShowForecast(cards []render.ForecastCard) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forecast = append([]render.ForecastCard(nil), cards...)
}

func (p *ViewPresenter) Announce(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.announcement = message
}

// Snapshot merges the rendered panels with the widget state.
func (p *ViewPresenter) Snapshot(st widget.State) View {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v := View{
		Status:       st.Status,
		Loading:      st.Loading,
		Message:      p.message,
		Forecast:     p.forecast,
		Units:        st.Units,
		LastSearch:   st.LastSearch,
		Announcement: p.announcement,
		RequestID:    st.RequestID,
	}
	if v.Forecast == nil {
		v.Forecast = []render.ForecastCard{}
	}
	if p.current != nil {
		cur := *p.current
		v.Current = &cur
	}
	return v
}
