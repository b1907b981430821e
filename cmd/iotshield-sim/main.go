package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rparoni/iotshield/internal/sim"
)

func main() {
	var (
		duration   = flag.Duration("duration", 30*time.Second, "how long to run the simulation")
		attackMin  = flag.Duration("attack-delay-min", 50*time.Millisecond, "lower bound of the delay between attacks")
		attackMax  = flag.Duration("attack-delay-max", 200*time.Millisecond, "upper bound of the delay between attacks")
		mapMin     = flag.Duration("map-delay-min", 50*time.Millisecond, "lower bound of the delay between map lines")
		mapMax     = flag.Duration("map-delay-max", 200*time.Millisecond, "upper bound of the delay between map lines")
		protocol   = flag.Bool("protocol", true, "start with the protection protocol enabled")
		jsonEvents = flag.Bool("print-events", false, "print the event log after the run")
	)
	flag.Parse()

	if *duration <= 0 {
		fmt.Fprintf(os.Stderr, "error: --duration must be positive\n")
		flag.Usage()
		os.Exit(1)
	}

	session := sim.NewSession(sim.NewNoOpLogger())
	session.Engine().SetDelayRange(*attackMin, *attackMax)
	session.Feed().SetDelayRange(*mapMin, *mapMax)
	if !*protocol {
		session.Engine().ToggleProtocol()
	}

	session.Run()
	time.Sleep(*duration)
	if err := session.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error closing session: %v\n", err)
		os.Exit(1)
	}

	printSummary(session, *duration)
	if *jsonEvents {
		printEvents(session.Engine().Events())
	}
}

func printSummary(session *sim.Session, duration time.Duration) {
	engine := session.Engine()
	stats := engine.Stats()

	fmt.Printf("Simulation finished (duration=%s, protocol=%v)\n", duration, engine.ProtocolEnabled())
	fmt.Printf("Attacks: total=%d blocked=%d active-threats=%d rate=%d/min\n",
		stats.TotalAttacks, stats.BlockedAttacks, stats.ActiveThreats, stats.AttacksPerMinute)

	fmt.Println("Device statuses:")
	for _, d := range engine.Devices() {
		fmt.Printf("  %-22s %s\n", d.ID, d.Status)
	}

	mapStats := session.Feed().Stats()
	fmt.Printf("Map lines: total=%d blocked=%d\n", mapStats.Total, mapStats.Blocked)

	counts := make(map[string]int)
	for _, line := range session.Feed().Lines() {
		counts[line.From.Country]++
	}
	countries := make([]string, 0, len(counts))
	for c := range counts {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	fmt.Println("Recent line origins:")
	for _, c := range countries {
		fmt.Printf("  %-15s %d\n", c, counts[c])
	}
}

func printEvents(events []sim.Event) {
	fmt.Println("Event log (newest first):")
	for _, ev := range events {
		fmt.Printf("  [%s] %-8s %s\n", ev.Timestamp.Format(time.TimeOnly), ev.Severity, ev.Message)
	}
}
