package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/suika/game"
	"github.com/plus3/suika/rank"
	"github.com/plus3/suika/world"
)

type Report struct {
	// Configuration
	Duration  time.Duration
	Policy    string
	DropEvery time.Duration
	Droppable int
	Ranks     int

	// Results
	TotalTime      time.Duration
	SimulatedTime  time.Duration
	StepTime       Stats
	Drops          int
	Merges         int
	Culls          int
	CulledPieces   int
	HighestRank    rank.Rank
	Games          []GameResult
	Systems        []world.SystemStats
	Registry       world.RegistryStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type GameResult struct {
	Session    string
	Score      int
	Merges     int
	Lasted     time.Duration
	Unfinished bool

	started time.Time
}

func (r *Report) record(current *GameResult, ev game.Event) {
	switch ev := ev.(type) {
	case game.PieceSpawned:
		r.Drops++
	case game.PieceMerged:
		r.Merges++
		current.Merges++
		if ev.Rank > r.HighestRank {
			r.HighestRank = ev.Rank
		}
	case game.Culled:
		r.Culls++
		r.CulledPieces += ev.Removed
	}
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Soak Test Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Termination Policy:** {{.Policy}}
- **Drop Interval:** {{.DropEvery}}
- **Droppable Ranks:** {{.Droppable}} of {{.Ranks}}

## Play
- **Simulated Time:** {{.SimulatedTime}}
- **Drops:** {{.Drops}}
- **Merges:** {{.Merges}}
- **Highest Rank Made:** {{.HighestRank}}
- **Culls:** {{.Culls}} ({{.CulledPieces}} pieces)
- **Live Pieces At End:** {{.Registry.Live}} ({{.Registry.Capacity}} slots)

| Session | Score | Merges | Lasted |
|---------|-------|--------|--------|
{{- range .Games}}
| {{.Session}} | {{.Score}} | {{.Merges}} | {{.Lasted}}{{if .Unfinished}} (running){{end}} |
{{- end}}

## Performance Results
- **Total Steps:** {{len .StepTime.Samples}}
- **Wall Time:** {{.TotalTime}}
- **Step Time:**
  - **Avg:** {{.StepTime.Avg}}
  - **Min:** {{.StepTime.Min}}
  - **Max:** {{.StepTime.Max}}

| System | Runs | Avg | Max |
|--------|------|-----|-----|
{{- range .Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
