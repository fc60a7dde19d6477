package bootstrap

import (
	"log"
	"time"

	"github.com/bryanwahyu/siren-alert/internal/config"
	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
	"github.com/bryanwahyu/siren-alert/internal/infra/collector"
)

// Sources builds the collector sources listed in config.
func Sources(cfg *config.Config) []cases.Source {
	out := make([]cases.Source, 0, len(cfg.Collector.Sources))
	for _, s := range cfg.Collector.Sources {
		switch s.Kind {
		case "feed":
			out = append(out, collector.NewFeedSource(s.Name, s.URL, collector.DefaultHTTPClient))
		default:
			out = append(out, collector.NewBoardSource(s.Name, s.URL, collector.Selectors{
				Item:     s.ItemSelector,
				Title:    s.TitleSelector,
				Link:     s.LinkSelector,
				Date:     s.DateSelector,
				Location: s.LocationSelector,
				Summary:  s.SummarySelector,
				Image:    s.ImageSelector,
			}, collector.DefaultHTTPClient))
		}
		log.Printf("collector=source name=%s kind=%s url=%s", s.Name, s.Kind, s.URL)
	}
	return out
}

// Location zona waktu collector, fallback ke KST tetap
func Location(cfg *config.Config) *time.Location {
	loc, err := time.LoadLocation(cfg.Collector.Timezone)
	if err != nil {
		log.Printf("collector=timezone_fallback tz=%s err=%v", cfg.Collector.Timezone, err)
		return time.FixedZone("KST", 9*3600)
	}
	return loc
}
