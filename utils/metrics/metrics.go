package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the hall's collectors.
	Registry = prometheus.NewRegistry()

	ballsDrawn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bingo_hall",
			Subsystem: "draw",
			Name:      "balls_total",
			Help:      "Balls drawn, by trigger (auto or manual) and kind (regular or bonus).",
		},
		[]string{"trigger", "kind"},
	)

	roundsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bingo_hall",
			Subsystem: "round",
			Name:      "finished_total",
			Help:      "Rounds archived to history, by end reason.",
		},
		[]string{"reason"},
	)

	drawsPerRound = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bingo_hall",
			Subsystem: "round",
			Name:      "draws",
			Help:      "Number of balls drawn before a round ended.",
			Buckets:   prometheus.LinearBuckets(0, 5, 7),
		},
	)

	ticketsSold = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bingo_hall",
			Subsystem: "tickets",
			Name:      "sold_total",
			Help:      "Tickets sold.",
		},
	)

	stakeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bingo_hall",
			Subsystem: "tickets",
			Name:      "stake_total",
			Help:      "Sum of stakes taken, in currency units.",
		},
	)

	prizesPaid = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bingo_hall",
			Subsystem: "round",
			Name:      "prizes_total",
			Help:      "Sum of prizes awarded, in currency units.",
		},
	)

	failures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bingo_hall",
			Subsystem: "engine",
			Name:      "failures_total",
			Help:      "Non-fatal collaborator failures, by kind (persistence or publish).",
		},
		[]string{"kind"},
	)

	observers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "bingo_hall",
			Subsystem: "hub",
			Name:      "observers",
			Help:      "Connected websocket observers by role.",
		},
		[]string{"role"},
	)
)

func init() {
	Registry.MustRegister(
		ballsDrawn,
		roundsFinished,
		drawsPerRound,
		ticketsSold,
		stakeTotal,
		prizesPaid,
		failures,
		observers,
	)
}

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordBall counts one drawn ball.
func RecordBall(trigger string, bonus bool) {
	kind := "regular"
	if bonus {
		kind = "bonus"
	}
	ballsDrawn.WithLabelValues(trigger, kind).Inc()
}

// RecordRoundFinished counts an archived round and its draw count.
func RecordRoundFinished(reason string, draws int) {
	roundsFinished.WithLabelValues(reason).Inc()
	drawsPerRound.Observe(float64(draws))
}

// RecordTicket counts a sale and its stake.
func RecordTicket(stake float64) {
	ticketsSold.Inc()
	stakeTotal.Add(stake)
}

// RecordPrize adds an awarded prize.
func RecordPrize(amount float64) {
	prizesPaid.Add(amount)
}

// RecordFailure counts a non-fatal collaborator failure.
func RecordFailure(kind string) {
	failures.WithLabelValues(kind).Inc()
}

// SetObservers publishes the connected observer count for role.
func SetObservers(role string, count int) {
	observers.WithLabelValues(role).Set(float64(count))
}
