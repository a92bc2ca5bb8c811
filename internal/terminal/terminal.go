package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-widget/internal/render"
	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/widget"
)

// Presenter prints widget panels as plain text.
type Presenter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

func (p *Presenter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

func (p *Presenter) ShowLoading() {
	p.printf("Loading...\n")
}

func (p *Presenter) ShowError(message string) {
	p.printf("! %s (type :retry to try again)\n", message)
}

func (p *Presenter) ShowWeather(v render.CurrentView) {
	p.printf("\n%s %s  %s\n", v.Icon, v.Location, v.Time)
	p.printf("  %s (feels like %s), %s\n", v.Temperature, v.FeelsLike, v.Description)
	p.printf("  humidity %s  pressure %s  wind %s\n", v.Humidity, v.Pressure, v.Wind)
}

func (p *Presenter) ShowForecast(cards []render.ForecastCard) {
	var b strings.Builder
	for _, c := range cards {
		fmt.Fprintf(&b, "  %-3s %-6s %s %5s  %s\n", c.Day, c.Date, c.Icon, c.Temperature, c.Description)
	}
	p.printf("%s", b.String())
}

// Announce is a no-op; everything the status channel says is already printed.
func (p *Presenter) Announce(string) {}

// Widget is the subset of orchestrator actions the REPL issues.
type Widget interface {
	Search(ctx context.Context, city string) error
	Locate(ctx context.Context) error
	Retry(ctx context.Context) error
	ToggleUnits() weather.Units
	Interact()
}

const help = "Type a city name, or :locate, :units, :retry, :quit"

// Run reads commands from in until EOF, ctx cancellation or :quit.
func Run(ctx context.Context, in io.Reader, out io.Writer, w Widget, log zerolog.Logger) error {
	fmt.Fprintln(out, help)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if quit := handle(ctx, strings.TrimSpace(line), out, w, log); quit {
				return nil
			}
		}
	}
}

func handle(ctx context.Context, line string, out io.Writer, w Widget, log zerolog.Logger) bool {
	if line == "" {
		return false
	}
	w.Interact()

	var err error
	switch line {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(out, help)
	case ":locate":
		err = w.Locate(ctx)
	case ":retry":
		err = w.Retry(ctx)
	case ":units":
		u := w.ToggleUnits()
		fmt.Fprintf(out, "Units: %s\n", u)
	default:
		if strings.HasPrefix(line, ":") {
			fmt.Fprintf(out, "unknown command %q. %s\n", line, help)
			return false
		}
		err = w.Search(ctx, line)
	}

	// User errors are already on screen through the presenter.
	var ue *weather.UserError
	if err != nil && !errors.As(err, &ue) && !errors.Is(err, widget.ErrSuperseded) {
		log.Error().Err(err).Msg("terminal command failed")
	}
	return false
}
