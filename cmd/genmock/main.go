// Command genmock writes synthetic catalog fixtures in every supported
// schema, plus matching history and incident-log records, for local runs
// against a static file server.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/quakemon/quake-monev/internal/domain"
)

func main() {
	outDir := flag.String("out", "data/mock", "output directory")
	count := flag.Int("count", 30, "number of events per catalog")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	events := makeEvents(rng, base, *count)

	files := map[string]string{
		"qc.txt":           renderPipe(events),
		"last30event.xml":  renderWarningXML(events),
		"intl_catalog.csv": renderCSV(events),
	}
	for _, e := range events {
		files[fmt.Sprintf("history.%s.txt", e.id)] = renderHistory(e)
		files[fmt.Sprintf("%s.log", e.id)] = renderIncidentLog(e)
	}

	for name, content := range files {
		path := filepath.Join(*outDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			os.Exit(1)
		}
	}
	fmt.Printf("wrote %d files to %s\n", len(files), *outDir)
}

type mockEvent struct {
	id      string
	origin  time.Time
	lat     float64
	lon     float64
	depth   float64
	mag     float64
	region  string
	process time.Time
	sent    time.Time
}

var regions = []string{
	"Banda Sea", "Seram", "Southern Sumatra", "Minahassa Peninsula",
	"Flores Region", "Java", "Halmahera", "Sulawesi",
}

func makeEvents(rng *rand.Rand, base time.Time, n int) []mockEvent {
	events := make([]mockEvent, 0, n)
	t := base
	for i := 0; i < n; i++ {
		t = t.Add(time.Duration(1+rng.Intn(180)) * time.Minute)
		e := mockEvent{
			id:      fmt.Sprintf("bmg2025%06d", i+1),
			origin:  t,
			lat:     -13 + rng.Float64()*19,  // [-13, 6]
			lon:     90 + rng.Float64()*52,   // [90, 142]
			depth:   5 + rng.Float64()*295,   // [5, 300]
			mag:     4.0 + rng.Float64()*3.5, // [4.0, 7.5]
			region:  regions[rng.Intn(len(regions))],
			process: t.Add(time.Duration(60+rng.Intn(600)) * time.Second),
			sent:    t.Add(time.Duration(120+rng.Intn(900)) * time.Second),
		}
		events = append(events, e)
	}
	return events
}

func renderPipe(events []mockEvent) string {
	out := "event_id|date_time|mode|status|phase|mag|type_mag|n_mag|azimuth|rms|lat|lon|depth|type_event|remarks\n"
	for _, e := range events {
		out += fmt.Sprintf("%s|%s|A|confirmed|%d|%.1f|M|%d|%d|%.2f|%s|%s|%.0f km|tectonic|%s\n",
			e.id,
			e.origin.Format("2006-01-02 15:04:05.00"),
			10+len(e.id)%20,
			e.mag,
			8+len(e.region)%10,
			40+len(e.id)%100,
			0.8,
			compassLat(e.lat),
			compassLon(e.lon),
			e.depth,
			e.region,
		)
	}
	out += "\nGenerated by genmock\n"
	return out
}

func renderWarningXML(events []mockEvent) string {
	out := "<Infogempa>\n"
	for _, e := range events {
		out += fmt.Sprintf(
			"  <gempa><eventid>%s</eventid><date>%s</date><time>%s UTC</time><timesent>%s</timesent>"+
				"<latitude>%s</latitude><longitude>%s</longitude><magnitude>%.1f</magnitude>"+
				"<depth>%.0f km</depth><potential>%s</potential></gempa>\n",
			e.id,
			e.origin.Format("2006-01-02"),
			e.origin.Format("15:04:05"),
			e.sent.Format("2006-01-02 15:04:05"),
			domain.FormatLatitude(e.lat),
			domain.FormatLongitude(e.lon),
			e.mag,
			e.depth,
			"No tsunami potential",
		)
	}
	return out + "</Infogempa>\n"
}

func renderCSV(events []mockEvent) string {
	out := "time,latitude,longitude,depth,mag,magType,id,place\n"
	for _, e := range events {
		out += fmt.Sprintf("%s,%.4f,%.4f,%.1f,%.1f,mww,%s,%s\n",
			e.origin.Format("2006-01-02T15:04:05Z07:00"),
			e.lat, e.lon, e.depth, e.mag,
			"us"+e.id[3:], e.region,
		)
	}
	return out
}

func renderHistory(e mockEvent) string {
	lapse := e.process.Sub(e.origin).Minutes()
	return fmt.Sprintf("%s | %.2f | manual | M%.1f\n", e.process.Format("2006-01-02 15:04:05"), lapse, e.mag)
}

func renderIncidentLog(e mockEvent) string {
	return fmt.Sprintf("incident log %s\n---\n%s %s FOCMEC\n",
		e.id,
		e.process.Format("2006-01-02"),
		e.process.Format("15:04:05"),
	)
}

func compassLat(v float64) string {
	if v < 0 {
		return fmt.Sprintf("%.2f S", -v)
	}
	return fmt.Sprintf("%.2f N", v)
}

func compassLon(v float64) string {
	if v < 0 {
		return fmt.Sprintf("%.2f W", -v)
	}
	return fmt.Sprintf("%.2f E", v)
}

