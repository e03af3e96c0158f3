// Command worksheet decodes a shared worksheet link and prints the derived
// performance figures.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/goforj/godump"

	"go.ngs.io/perf-worksheet/internal/adapter/store"
	"go.ngs.io/perf-worksheet/internal/adapter/store/climbgrid"
	"go.ngs.io/perf-worksheet/internal/adapter/store/csv"
	"go.ngs.io/perf-worksheet/internal/adapter/store/profile"
	"go.ngs.io/perf-worksheet/internal/log"
	"go.ngs.io/perf-worksheet/internal/urlstate"
	"go.ngs.io/perf-worksheet/internal/usecase"
)

func main() {
	data := flag.String("data", "", "Encoded worksheet (the data query parameter)")
	link := flag.String("url", "", "Shared worksheet link")
	aircraftPath := flag.String("aircraft", "./data/aircraft.json", "Path to aircraft data JSON file")
	climbDir := flag.String("climb-dir", "", "Directory of climb charts that replace the aircraft data (optional)")
	share := flag.String("share", "", "Print a share link with this base URL instead of figures")
	dump := flag.Bool("dump", false, "Dump the decoded worksheet and figures in a readable form")
	strict := flag.Bool("strict", false, "Do not extrapolate outside aircraft charts")
	logLevel := flag.String("log-level", "warn", "Log level")

	flag.Parse()

	lg := log.NewWriter(os.Stderr, *logLevel)

	if *link != "" {
		u, err := url.Parse(*link)
		if err != nil {
			lg.Error("Invalid url", slog.Any("error", err))
			os.Exit(2)
		}
		*data = u.Query().Get(urlstate.Param)
	}

	var climbs store.ClimbLoader
	if *climbDir != "" {
		climbs = store.ClimbLoaders{climbgrid.NewStore(*climbDir), csv.NewClimbStore(*climbDir)}
	}
	uc := usecase.NewWorksheetUseCase(profile.NewStore(*aircraftPath, climbs), lg, *strict)

	ws := uc.Decode(*data)

	if *share != "" {
		s, err := uc.ShareURL(*share, ws)
		if err != nil {
			lg.Error("Failed to encode worksheet", slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Println(s)
		return
	}

	calc, err := uc.Calculate(ws)
	if err != nil {
		lg.Error("Failed to calculate worksheet", slog.Any("error", err))
		os.Exit(1)
	}

	if *dump {
		godump.Fdump(os.Stdout, ws, calc)
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(calc); err != nil {
		lg.Error("Failed to write output", slog.Any("error", err))
		os.Exit(1)
	}
}
